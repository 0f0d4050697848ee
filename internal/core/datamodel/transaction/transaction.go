package transaction

import (
	"time"

	"github.com/frahmantamala/budget-tracker/internal/core/datamodel/beneficiary"
	"github.com/frahmantamala/budget-tracker/internal/core/datamodel/category"
	"github.com/frahmantamala/budget-tracker/internal/core/datamodel/user"
	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID              int64           `gorm:"primaryKey"`
	Type            string          `gorm:"column:type;size:16;not null;index"`
	Amount          decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	Description     string          `gorm:"column:description;not null"`
	TransactionDate time.Time       `gorm:"column:transaction_date;not null;index"`
	ImagePath       *string         `gorm:"column:image_path"`
	Notes           *string         `gorm:"column:notes"`
	Tags            StringList      `gorm:"column:tags;type:text"`
	CategoryID      int64           `gorm:"column:category_id;not null;index"`
	BeneficiaryID   int64           `gorm:"column:beneficiary_id;not null;index"`
	CreatedByUserID int64           `gorm:"column:created_by_user_id;not null;index"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`

	Category      *category.Category       `gorm:"foreignKey:CategoryID"`
	Beneficiary   *beneficiary.Beneficiary `gorm:"foreignKey:BeneficiaryID"`
	CreatedByUser *user.User               `gorm:"foreignKey:CreatedByUserID"`
}

func (Transaction) TableName() string {
	return "transactions"
}
