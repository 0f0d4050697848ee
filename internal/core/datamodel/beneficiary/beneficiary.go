package beneficiary

type Beneficiary struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"column:name;size:100;uniqueIndex;not null"`
}

func (Beneficiary) TableName() string {
	return "beneficiaries"
}
