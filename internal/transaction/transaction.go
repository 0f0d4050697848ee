package transaction

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/budget-tracker/internal/beneficiary"
	"github.com/frahmantamala/budget-tracker/internal/category"
	transactionDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/transaction"
	"github.com/frahmantamala/budget-tracker/internal/user"
)

const (
	TypeExpense = "expense"
	TypeIncome  = "income"
)

var Types = []string{TypeExpense, TypeIncome}

type Transaction struct {
	ID              int64           `json:"id"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	TransactionDate time.Time       `json:"transaction_date"`
	ImagePath       *string         `json:"image_path"`
	Notes           *string         `json:"notes"`
	Tags            []string        `json:"tags"`
	CategoryID      int64           `json:"category_id"`
	BeneficiaryID   int64           `json:"beneficiary_id"`
	CreatedByUserID int64           `json:"created_by_user_id"`
	CreatedAt       time.Time       `json:"created_at"`

	Category      *category.Category       `json:"category,omitempty"`
	Beneficiary   *beneficiary.Beneficiary `json:"beneficiary,omitempty"`
	CreatedByUser *user.User               `json:"created_by_user,omitempty"`
}

func ToDataModel(t *Transaction) *transactionDatamodel.Transaction {
	return &transactionDatamodel.Transaction{
		ID:              t.ID,
		Type:            t.Type,
		Amount:          t.Amount,
		Description:     t.Description,
		TransactionDate: t.TransactionDate.UTC(),
		ImagePath:       t.ImagePath,
		Notes:           t.Notes,
		Tags:            transactionDatamodel.StringList(t.Tags),
		CategoryID:      t.CategoryID,
		BeneficiaryID:   t.BeneficiaryID,
		CreatedByUserID: t.CreatedByUserID,
		CreatedAt:       t.CreatedAt,
	}
}

func FromDataModel(t *transactionDatamodel.Transaction) *Transaction {
	out := &Transaction{
		ID:              t.ID,
		Type:            t.Type,
		Amount:          t.Amount,
		Description:     t.Description,
		TransactionDate: t.TransactionDate.UTC(),
		ImagePath:       t.ImagePath,
		Notes:           t.Notes,
		Tags:            []string(t.Tags),
		CategoryID:      t.CategoryID,
		BeneficiaryID:   t.BeneficiaryID,
		CreatedByUserID: t.CreatedByUserID,
		CreatedAt:       t.CreatedAt,
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if t.Category != nil {
		out.Category = category.FromDataModel(t.Category)
	}
	if t.Beneficiary != nil {
		out.Beneficiary = beneficiary.FromDataModel(t.Beneficiary)
	}
	if t.CreatedByUser != nil {
		out.CreatedByUser = user.FromDataModel(t.CreatedByUser)
	}
	return out
}

func FromDataModelSlice(rows []*transactionDatamodel.Transaction) []*Transaction {
	result := make([]*Transaction, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}
