package aggregation

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeExpense = "expense"
	TypeIncome  = "income"
)

// Row is one filtered transaction joined with its category and
// beneficiary names.
type Row struct {
	ID              int64           `db:"id"`
	Type            string          `db:"type"`
	Amount          decimal.Decimal `db:"amount"`
	TransactionDate time.Time       `db:"transaction_date"`
	CategoryID      int64           `db:"category_id"`
	CategoryName    string          `db:"category_name"`
	BeneficiaryID   int64           `db:"beneficiary_id"`
	BeneficiaryName string          `db:"beneficiary_name"`
}

type CategoryTotal struct {
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Total        decimal.Decimal `json:"total"`
}

type BeneficiaryTotal struct {
	BeneficiaryID   int64           `json:"beneficiary_id"`
	BeneficiaryName string          `json:"beneficiary_name"`
	Total           decimal.Decimal `json:"total"`
}

type Summary struct {
	TotalIncome      decimal.Decimal    `json:"total_income"`
	TotalExpenses    decimal.Decimal    `json:"total_expenses"`
	NetTotal         decimal.Decimal    `json:"net_total"`
	NetBalance       decimal.Decimal    `json:"net_balance"`
	TransactionCount int                `json:"transaction_count"`
	ByCategory       []CategoryTotal    `json:"by_category"`
	ByBeneficiary    []BeneficiaryTotal `json:"by_beneficiary"`
}

// Summarize folds rows into totals. Group totals add every amount
// regardless of type and keep the order in which each group first appears
// when rows are read by (transaction_date, id).
func Summarize(rows []Row) Summary {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].TransactionDate.Equal(sorted[j].TransactionDate) {
			return sorted[i].TransactionDate.Before(sorted[j].TransactionDate)
		}
		return sorted[i].ID < sorted[j].ID
	})

	s := Summary{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		ByCategory:    []CategoryTotal{},
		ByBeneficiary: []BeneficiaryTotal{},
	}
	categoryIdx := map[int64]int{}
	beneficiaryIdx := map[int64]int{}

	for _, r := range sorted {
		switch r.Type {
		case TypeIncome:
			s.TotalIncome = s.TotalIncome.Add(r.Amount)
		case TypeExpense:
			s.TotalExpenses = s.TotalExpenses.Add(r.Amount)
		}

		i, ok := categoryIdx[r.CategoryID]
		if !ok {
			i = len(s.ByCategory)
			categoryIdx[r.CategoryID] = i
			s.ByCategory = append(s.ByCategory, CategoryTotal{CategoryID: r.CategoryID, CategoryName: r.CategoryName, Total: decimal.Zero})
		}
		s.ByCategory[i].Total = s.ByCategory[i].Total.Add(r.Amount)

		j, ok := beneficiaryIdx[r.BeneficiaryID]
		if !ok {
			j = len(s.ByBeneficiary)
			beneficiaryIdx[r.BeneficiaryID] = j
			s.ByBeneficiary = append(s.ByBeneficiary, BeneficiaryTotal{BeneficiaryID: r.BeneficiaryID, BeneficiaryName: r.BeneficiaryName, Total: decimal.Zero})
		}
		s.ByBeneficiary[j].Total = s.ByBeneficiary[j].Total.Add(r.Amount)
	}

	s.TransactionCount = len(sorted)
	s.NetTotal = s.TotalIncome.Sub(s.TotalExpenses)
	s.NetBalance = s.NetTotal
	return s
}
