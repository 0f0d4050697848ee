package beneficiary

import (
	"strings"

	errors "github.com/frahmantamala/budget-tracker/internal"
	"github.com/frahmantamala/budget-tracker/internal/core/common/validation"
)

// BeneficiaryDTO is used for both create and update.
type BeneficiaryDTO struct {
	Name string `json:"name"`
}

func (d *BeneficiaryDTO) Validate() *errors.AppError {
	d.Name = strings.TrimSpace(d.Name)
	return validation.ValidateName(d.Name, 100)
}
