package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	beneficiaryDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/beneficiary"
	categoryDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/category"
	giftDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/gift"
	transactionDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/transaction"
	userDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/budget-tracker/internal/transaction"
)

// TransactionRepository implements transaction.RepositoryAPI using GORM
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) transaction.RepositoryAPI {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("Beneficiary").
		Preload("CreatedByUser")
}

// List applies the filter and orders newest first.
func (r *TransactionRepository) List(ctx context.Context, f transaction.Filter) ([]*transactionDatamodel.Transaction, error) {
	q := r.withRelations(ctx).Model(&transactionDatamodel.Transaction{})

	if f.StartDate != nil {
		q = q.Where("transaction_date >= ?", f.StartDate.UTC())
	}
	if f.EndDate != nil {
		q = q.Where("transaction_date <= ?", f.EndDate.UTC())
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.BeneficiaryID != nil {
		q = q.Where("beneficiary_id = ?", *f.BeneficiaryID)
	}
	if f.CreatedByUserID != nil {
		q = q.Where("created_by_user_id = ?", *f.CreatedByUserID)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}

	var rows []*transactionDatamodel.Transaction
	err := q.Order("transaction_date DESC").Order("id DESC").
		Offset(f.Skip).
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*transactionDatamodel.Transaction, error) {
	var t transactionDatamodel.Transaction
	if err := r.withRelations(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) Create(ctx context.Context, t *transactionDatamodel.Transaction) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error
}

// Update writes every column but leaves the preloaded relations untouched.
func (r *TransactionRepository) Update(ctx context.Context, t *transactionDatamodel.Transaction) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(t).Error
}

// Delete unlinks gift entries and purchases that point at the transaction
// before removing it.
func (r *TransactionRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&giftDatamodel.Entry{}, &giftDatamodel.Purchase{}} {
			if err := tx.Model(model).Where("transaction_id = ?", id).Update("transaction_id", nil).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&transactionDatamodel.Transaction{}, id).Error
	})
}

func (r *TransactionRepository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, &categoryDatamodel.Category{}, id)
}

func (r *TransactionRepository) BeneficiaryExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, &beneficiaryDatamodel.Beneficiary{}, id)
}

func (r *TransactionRepository) UserExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, &userDatamodel.User{}, id)
}

func (r *TransactionRepository) exists(ctx context.Context, model interface{}, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
