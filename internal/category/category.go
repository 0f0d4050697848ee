package category

import (
	categoryDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/category"
)

const (
	TypeExpense = "expense"
	TypeIncome  = "income"
	TypeBoth    = "both"
)

var Types = []string{TypeExpense, TypeIncome, TypeBoth}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func ToDataModel(c *Category) *categoryDatamodel.Category {
	return &categoryDatamodel.Category{
		ID:   c.ID,
		Name: c.Name,
		Type: c.Type,
	}
}

func FromDataModel(c *categoryDatamodel.Category) *Category {
	return &Category{
		ID:   c.ID,
		Name: c.Name,
		Type: c.Type,
	}
}
