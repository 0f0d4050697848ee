package category

import (
	"strings"

	errors "github.com/frahmantamala/budget-tracker/internal"
	"github.com/frahmantamala/budget-tracker/internal/core/common/validation"
)

const maxNameLength = 100

type CreateCategoryDTO struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (d *CreateCategoryDTO) Validate() *errors.AppError {
	d.Name = strings.TrimSpace(d.Name)

	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(maxNameLength)
	v.Field("type", d.Type).Required().OneOf(Types...)
	return v.Validate()
}

// UpdateCategoryDTO changes only the fields that are present.
type UpdateCategoryDTO struct {
	Name *string `json:"name"`
	Type *string `json:"type"`
}

func (d *UpdateCategoryDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		trimmed := strings.TrimSpace(*d.Name)
		d.Name = &trimmed
		v.Field("name", trimmed).Required().MaxLength(maxNameLength)
	}
	if d.Type != nil {
		v.Field("type", *d.Type).OneOf(Types...)
	}
	return v.Validate()
}
