package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"github.com/frahmantamala/budget-tracker/internal/aggregation"
)

const baseQuery = `
SELECT t.id, t.type, t.amount, t.transaction_date,
       t.category_id, c.name AS category_name,
       t.beneficiary_id, b.name AS beneficiary_name
FROM transactions t
JOIN categories c ON c.id = t.category_id
JOIN beneficiaries b ON b.id = t.beneficiary_id`

// AggregationRepository reads the summary rows with sqlx over the
// connection pool gorm already owns.
type AggregationRepository struct {
	db *sqlx.DB
}

func NewAggregationRepository(db *sqlx.DB) aggregation.RepositoryAPI {
	return &AggregationRepository{db: db}
}

// NewAggregationRepositoryFromGorm shares the gorm pool.
func NewAggregationRepositoryFromGorm(db *gorm.DB) (aggregation.RepositoryAPI, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	return NewAggregationRepository(sqlx.NewDb(sqlDB, DriverName(db.Dialector.Name()))), nil
}

// DriverName maps a gorm dialector name to the database/sql driver name
// sqlx uses to pick a bind style.
func DriverName(dialector string) string {
	switch dialector {
	case "postgres":
		return "pgx"
	case "sqlite":
		return "sqlite3"
	default:
		return dialector
	}
}

func (r *AggregationRepository) LoadRows(ctx context.Context, f aggregation.Filter) ([]aggregation.Row, error) {
	var where []string
	args := map[string]interface{}{}

	if f.StartDate != nil {
		where = append(where, "t.transaction_date >= :start_date")
		args["start_date"] = f.StartDate.UTC()
	}
	if f.EndDate != nil {
		where = append(where, "t.transaction_date <= :end_date")
		args["end_date"] = f.EndDate.UTC()
	}
	if f.Type != nil {
		where = append(where, "t.type = :type")
		args["type"] = *f.Type
	}
	if f.CategoryID != nil {
		where = append(where, "t.category_id = :category_id")
		args["category_id"] = *f.CategoryID
	}
	if f.BeneficiaryID != nil {
		where = append(where, "t.beneficiary_id = :beneficiary_id")
		args["beneficiary_id"] = *f.BeneficiaryID
	}

	query := baseQuery
	if len(where) > 0 {
		query += "\nWHERE " + strings.Join(where, " AND ")
	}
	query += "\nORDER BY t.transaction_date ASC, t.id ASC"

	named, bound, err := sqlx.Named(query, args)
	if err != nil {
		return nil, fmt.Errorf("bind aggregation query: %w", err)
	}

	rows := []aggregation.Row{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(named), bound...); err != nil {
		return nil, fmt.Errorf("select aggregation rows: %w", err)
	}
	return rows, nil
}
