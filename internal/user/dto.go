package user

import (
	"strings"

	errors "github.com/frahmantamala/budget-tracker/internal"
	"github.com/frahmantamala/budget-tracker/internal/core/common/validation"
)

type CreateUserDTO struct {
	Name string `json:"name"`
}

func (d *CreateUserDTO) Validate() *errors.AppError {
	d.Name = strings.TrimSpace(d.Name)
	return validation.ValidateName(d.Name, 100)
}

// UpdateUserDTO changes only the fields that are present.
type UpdateUserDTO struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	IsActive *bool   `json:"is_active"`
}

func (d *UpdateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		name := strings.TrimSpace(*d.Name)
		d.Name = &name
		v.Field("name", name).Required().MaxLength(100)
	}
	if d.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*d.Email))
		d.Email = &email
		v.Field("email", email).Required().Email()
	}
	return v.Validate()
}
