package gift

import (
	"strings"

	"github.com/shopspring/decimal"

	errors "github.com/frahmantamala/budget-tracker/internal"
	"github.com/frahmantamala/budget-tracker/internal/core/common/types"
	"github.com/frahmantamala/budget-tracker/internal/core/common/validation"
)

const maxNameLength = 200

type CreateOccasionDTO struct {
	Name            string      `json:"name"`
	OccasionType    string      `json:"occasion_type"`
	OccasionDate    *types.Date `json:"occasion_date"`
	PersonID        *int64      `json:"person_id"`
	Notes           *string     `json:"notes"`
	IsPoolAccount   bool        `json:"is_pool_account"`
	CreatedByUserID *int64      `json:"created_by_user_id"`
}

func (dto *CreateOccasionDTO) Validate() *errors.AppError {
	dto.Name = strings.TrimSpace(dto.Name)
	if dto.OccasionType == "" {
		dto.OccasionType = OccasionOther
	}

	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(maxNameLength)
	v.Field("occasion_type", dto.OccasionType).OneOf(OccasionTypes...)
	v.Field("person_id", dto.PersonID).PositiveID()
	v.Field("created_by_user_id", dto.CreatedByUserID).PositiveID()
	return v.Validate()
}

type UpdateOccasionDTO struct {
	Name          *string     `json:"name"`
	OccasionType  *string     `json:"occasion_type"`
	OccasionDate  *types.Date `json:"occasion_date"`
	PersonID      *int64      `json:"person_id"`
	Notes         *string     `json:"notes"`
	IsPoolAccount *bool       `json:"is_pool_account"`
}

func (dto *UpdateOccasionDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		dto.Name = &name
		v.Field("name", name).Required().MaxLength(maxNameLength)
	}
	v.Field("occasion_type", dto.OccasionType).OneOf(OccasionTypes...)
	v.Field("person_id", dto.PersonID).PositiveID()
	return v.Validate()
}

type CreateEntryDTO struct {
	Direction       string           `json:"direction"`
	PersonID        int64            `json:"person_id"`
	Amount          *decimal.Decimal `json:"amount"`
	GiftDate        *types.Date      `json:"gift_date"`
	Description     *string          `json:"description"`
	Notes           *string          `json:"notes"`
	TransactionID   *int64           `json:"transaction_id"`
	CreatedByUserID *int64           `json:"created_by_user_id"`
}

func (dto CreateEntryDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("direction", dto.Direction).Required().OneOf(Directions...)
	v.Field("person_id", dto.PersonID).Required().PositiveID()
	v.Field("amount", dto.Amount).Required().PositiveAmount()
	v.Field("gift_date", dto.GiftDate).Required()
	v.Field("description", dto.Description).MaxLength(maxNameLength)
	v.Field("transaction_id", dto.TransactionID).PositiveID()
	v.Field("created_by_user_id", dto.CreatedByUserID).PositiveID()
	return v.Validate()
}

type UpdateEntryDTO struct {
	Direction     *string          `json:"direction"`
	PersonID      *int64           `json:"person_id"`
	Amount        *decimal.Decimal `json:"amount"`
	GiftDate      *types.Date      `json:"gift_date"`
	Description   *string          `json:"description"`
	Notes         *string          `json:"notes"`
	TransactionID *int64           `json:"transaction_id"`
}

func (dto UpdateEntryDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("direction", dto.Direction).OneOf(Directions...)
	v.Field("person_id", dto.PersonID).PositiveID()
	v.Field("amount", dto.Amount).PositiveAmount()
	v.Field("description", dto.Description).MaxLength(maxNameLength)
	v.Field("transaction_id", dto.TransactionID).PositiveID()
	return v.Validate()
}

type CreatePurchaseDTO struct {
	Amount          *decimal.Decimal `json:"amount"`
	PurchaseDate    *types.Date      `json:"purchase_date"`
	Description     string           `json:"description"`
	Notes           *string          `json:"notes"`
	TransactionID   *int64           `json:"transaction_id"`
	CreatedByUserID *int64           `json:"created_by_user_id"`
}

func (dto *CreatePurchaseDTO) Validate() *errors.AppError {
	dto.Description = strings.TrimSpace(dto.Description)

	v := validation.NewValidator()
	v.Field("amount", dto.Amount).Required().PositiveAmount()
	v.Field("purchase_date", dto.PurchaseDate).Required()
	v.Field("description", dto.Description).Required().MaxLength(maxNameLength)
	v.Field("transaction_id", dto.TransactionID).PositiveID()
	v.Field("created_by_user_id", dto.CreatedByUserID).PositiveID()
	return v.Validate()
}

type UpdatePurchaseDTO struct {
	Amount        *decimal.Decimal `json:"amount"`
	PurchaseDate  *types.Date      `json:"purchase_date"`
	Description   *string          `json:"description"`
	Notes         *string          `json:"notes"`
	TransactionID *int64           `json:"transaction_id"`
}

func (dto *UpdatePurchaseDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if dto.Description != nil {
		d := strings.TrimSpace(*dto.Description)
		dto.Description = &d
		v.Field("description", d).Required().MaxLength(maxNameLength)
	}
	v.Field("amount", dto.Amount).PositiveAmount()
	v.Field("transaction_id", dto.TransactionID).PositiveID()
	return v.Validate()
}
