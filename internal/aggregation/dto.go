package aggregation

import (
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/budget-tracker/internal/core/common/validation"
	"github.com/frahmantamala/budget-tracker/internal/transport"
)

type Filter struct {
	StartDate     *time.Time
	EndDate       *time.Time
	Type          *string
	CategoryID    *int64
	BeneficiaryID *int64
}

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
		v.Field("transaction_type", raw).OneOf(TypeExpense, TypeIncome)
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
	return f, nil
}
