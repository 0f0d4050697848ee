package transaction

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	errors "github.com/frahmantamala/budget-tracker/internal"
	"github.com/frahmantamala/budget-tracker/internal/core/common/types"
	"github.com/frahmantamala/budget-tracker/internal/core/common/validation"
	"github.com/frahmantamala/budget-tracker/internal/transport"
)

// CreateTransactionDTO represents the request payload for creating a transaction
type CreateTransactionDTO struct {
	Type            string           `json:"type"`
	Amount          *decimal.Decimal `json:"amount"`
	Description     string           `json:"description"`
	TransactionDate *types.DateTime  `json:"transaction_date"`
	CategoryID      int64            `json:"category_id"`
	BeneficiaryID   int64            `json:"beneficiary_id"`
	CreatedByUserID *int64           `json:"created_by_user_id"`
	ImagePath       *string          `json:"image_path"`
	Notes           *string          `json:"notes"`
	Tags            []string         `json:"tags"`
}

func (dto CreateTransactionDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("type", dto.Type).Required().OneOf(Types...)
	v.Field("amount", dto.Amount).Required().PositiveAmount()
	v.Field("description", dto.Description).Required()
	v.Field("transaction_date", dateValue(dto.TransactionDate)).Required()
	v.Field("category_id", dto.CategoryID).Required().PositiveID()
	v.Field("beneficiary_id", dto.BeneficiaryID).Required().PositiveID()
	v.Field("created_by_user_id", dto.CreatedByUserID).PositiveID()
	return v.Validate()
}

// UpdateTransactionDTO changes only the fields present in the body.
type UpdateTransactionDTO struct {
	Type            *string          `json:"type"`
	Amount          *decimal.Decimal `json:"amount"`
	Description     *string          `json:"description"`
	TransactionDate *types.DateTime  `json:"transaction_date"`
	CategoryID      *int64           `json:"category_id"`
	BeneficiaryID   *int64           `json:"beneficiary_id"`
	CreatedByUserID *int64           `json:"created_by_user_id"`
	ImagePath       *string          `json:"image_path"`
	Notes           *string          `json:"notes"`
	Tags            *[]string        `json:"tags"`
}

func (dto UpdateTransactionDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if dto.Type != nil {
		v.Field("type", *dto.Type).OneOf(Types...)
	}
	v.Field("amount", dto.Amount).PositiveAmount()
	if dto.Description != nil {
		v.Field("description", *dto.Description).Required()
	}
	v.Field("category_id", dto.CategoryID).PositiveID()
	v.Field("beneficiary_id", dto.BeneficiaryID).PositiveID()
	v.Field("created_by_user_id", dto.CreatedByUserID).PositiveID()
	return v.Validate()
}

func dateValue(dt *types.DateTime) *time.Time {
	if dt == nil {
		return nil
	}
	t := dt.Time
	return &t
}

// Filter narrows the transaction list. All set fields are ANDed.
type Filter struct {
	StartDate       *time.Time
	EndDate         *time.Time
	Type            *string
	CategoryID      *int64
	BeneficiaryID   *int64
	CreatedByUserID *int64
	Skip            int
	Limit           int
}

// FilterFromRequest reads the list query string. A date-only end_date
// covers the whole day.
func FilterFromRequest(r *http.Request) (Filter, error) {
	var f Filter
	var err error

	if f.StartDate, _, err = transport.QueryTime(r, "start_date"); err != nil {
		return f, err
	}

	var endDateOnly bool
	if f.EndDate, endDateOnly, err = transport.QueryTime(r, "end_date"); err != nil {
		return f, err
	}
	if f.EndDate != nil && endDateOnly {
		end := f.EndDate.Add(24*time.Hour - time.Nanosecond)
		f.EndDate = &end
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("transaction_type")); raw != "" {
		v := validation.NewValidator()
		v.Field("transaction_type", raw).OneOf(Types...)
		if verr := v.Validate(); verr != nil {
			return f, verr
		}
		f.Type = &raw
	}

	if f.CategoryID, err = transport.QueryInt64(r, "category_id"); err != nil {
		return f, err
	}
	if f.BeneficiaryID, err = transport.QueryInt64(r, "beneficiary_id"); err != nil {
		return f, err
	}
	if f.CreatedByUserID, err = transport.QueryInt64(r, "created_by_user_id"); err != nil {
		return f, err
	}

	page, err := transport.ParsePagination(r)
	if err != nil {
		return f, err
	}
	f.Skip, f.Limit = page.Skip, page.Limit

	return f, nil
}
