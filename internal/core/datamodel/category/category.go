package category

type Category struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"column:name;size:100;uniqueIndex;not null"`
	Type string `gorm:"column:type;size:16;not null"`
}

func (Category) TableName() string {
	return "categories"
}
