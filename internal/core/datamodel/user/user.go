package user

import "time"

type User struct {
	ID             int64     `gorm:"primaryKey"`
	Name           string    `gorm:"column:name;size:100;not null"`
	Email          *string   `gorm:"column:email;uniqueIndex"`
	HashedPassword *string   `gorm:"column:hashed_password"`
	IsActive       bool      `gorm:"column:is_active;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
