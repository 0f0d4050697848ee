package datamodel

import (
	"github.com/frahmantamala/budget-tracker/internal/core/datamodel/auth"
	"github.com/frahmantamala/budget-tracker/internal/core/datamodel/beneficiary"
	"github.com/frahmantamala/budget-tracker/internal/core/datamodel/category"
	"github.com/frahmantamala/budget-tracker/internal/core/datamodel/gift"
	"github.com/frahmantamala/budget-tracker/internal/core/datamodel/transaction"
	"github.com/frahmantamala/budget-tracker/internal/core/datamodel/user"
)

// Models returns every persisted row type in dependency order, for
// gorm AutoMigrate and table truncation.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&category.Category{},
		&beneficiary.Beneficiary{},
		&transaction.Transaction{},
		&gift.Occasion{},
		&gift.Entry{},
		&gift.Purchase{},
		&auth.PasswordResetToken{},
		&auth.TokenBlocklist{},
	}
}
