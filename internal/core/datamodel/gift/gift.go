package gift

import (
	"time"

	"github.com/frahmantamala/budget-tracker/internal/core/common/types"
	"github.com/frahmantamala/budget-tracker/internal/core/datamodel/beneficiary"
	"github.com/frahmantamala/budget-tracker/internal/core/datamodel/transaction"
	"github.com/frahmantamala/budget-tracker/internal/core/datamodel/user"
	"github.com/shopspring/decimal"
)

type Occasion struct {
	ID              int64       `gorm:"primaryKey"`
	Name            string      `gorm:"column:name;size:200;not null"`
	OccasionType    string      `gorm:"column:occasion_type;size:16;not null;default:other"`
	OccasionDate    *types.Date `gorm:"column:occasion_date;type:date"`
	PersonID        *int64      `gorm:"column:person_id;index"`
	Notes           *string     `gorm:"column:notes"`
	IsPoolAccount   bool        `gorm:"column:is_pool_account;not null;default:false"`
	CreatedByUserID int64       `gorm:"column:created_by_user_id;not null"`
	CreatedAt       time.Time   `gorm:"column:created_at;autoCreateTime"`

	Person        *beneficiary.Beneficiary `gorm:"foreignKey:PersonID"`
	CreatedByUser *user.User               `gorm:"foreignKey:CreatedByUserID"`
	Entries       []Entry                  `gorm:"foreignKey:OccasionID;constraint:OnDelete:CASCADE"`
	Purchases     []Purchase               `gorm:"foreignKey:OccasionID;constraint:OnDelete:CASCADE"`
}

func (Occasion) TableName() string {
	return "gift_occasions"
}

type Entry struct {
	ID              int64           `gorm:"primaryKey"`
	OccasionID      int64           `gorm:"column:occasion_id;not null;index"`
	Direction       string          `gorm:"column:direction;size:16;not null"`
	PersonID        int64           `gorm:"column:person_id;not null;index"`
	Amount          decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	GiftDate        types.Date      `gorm:"column:gift_date;type:date;not null"`
	Description     *string         `gorm:"column:description;size:200"`
	Notes           *string         `gorm:"column:notes"`
	TransactionID   *int64          `gorm:"column:transaction_id"`
	CreatedByUserID int64           `gorm:"column:created_by_user_id;not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`

	Person        *beneficiary.Beneficiary `gorm:"foreignKey:PersonID"`
	Transaction   *transaction.Transaction `gorm:"foreignKey:TransactionID"`
	CreatedByUser *user.User               `gorm:"foreignKey:CreatedByUserID"`
}

func (Entry) TableName() string {
	return "gift_entries"
}

type Purchase struct {
	ID              int64           `gorm:"primaryKey"`
	OccasionID      int64           `gorm:"column:occasion_id;not null;index"`
	Amount          decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	PurchaseDate    types.Date      `gorm:"column:purchase_date;type:date;not null"`
	Description     string          `gorm:"column:description;size:200;not null"`
	Notes           *string         `gorm:"column:notes"`
	TransactionID   *int64          `gorm:"column:transaction_id"`
	CreatedByUserID int64           `gorm:"column:created_by_user_id;not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`

	Transaction   *transaction.Transaction `gorm:"foreignKey:TransactionID"`
	CreatedByUser *user.User               `gorm:"foreignKey:CreatedByUserID"`
}

func (Purchase) TableName() string {
	return "gift_purchases"
}
