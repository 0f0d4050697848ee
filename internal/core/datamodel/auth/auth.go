package auth

import "time"

type PasswordResetToken struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	Token     string    `gorm:"column:token;size:255;uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	Used      bool      `gorm:"column:used;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// TokenBlocklist holds revoked access tokens until they expire naturally.
type TokenBlocklist struct {
	ID        int64     `gorm:"primaryKey"`
	JTI       string    `gorm:"column:jti;size:255;uniqueIndex;not null"`
	Token     string    `gorm:"column:token;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (TokenBlocklist) TableName() string {
	return "token_blocklist"
}
