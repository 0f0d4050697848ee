package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/budget-tracker/internal"
	"github.com/frahmantamala/budget-tracker/internal/auth"
	authDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/auth"
	userDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/user"
)

type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) auth.RepositoryAPI {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) GetUserByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *AuthRepository) GetUserByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *AuthRepository) GetFirstUser(ctx context.Context) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Order("id ASC").First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *AuthRepository) CreateUser(ctx context.Context, u *userDatamodel.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// FirstOrCreateUserByEmail loads the user with u.Email or inserts u.
func (r *AuthRepository) FirstOrCreateUserByEmail(ctx context.Context, u *userDatamodel.User) error {
	return r.db.WithContext(ctx).
		Where(userDatamodel.User{Email: u.Email}).
		Attrs(userDatamodel.User{Name: u.Name, IsActive: u.IsActive}).
		FirstOrCreate(u).Error
}

func (r *AuthRepository) CreateResetToken(ctx context.Context, t *authDatamodel.PasswordResetToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *AuthRepository) GetResetToken(ctx context.Context, token string) (*authDatamodel.PasswordResetToken, error) {
	var t authDatamodel.PasswordResetToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// RedeemResetToken marks the token used and stores the new hash in one
// transaction. A token that was redeemed concurrently yields ErrResetTokenUsed.
func (r *AuthRepository) RedeemResetToken(ctx context.Context, tokenID, userID int64, hashedPassword string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&authDatamodel.PasswordResetToken{}).
			Where("id = ? AND used = ?", tokenID, false).
			Update("used", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrResetTokenUsed
		}

		return tx.Model(&userDatamodel.User{}).
			Where("id = ?", userID).
			Update("hashed_password", hashedPassword).Error
	})
}

func (r *AuthRepository) DeleteStaleResetTokens(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("used = ? OR expires_at < ?", true, now).
		Delete(&authDatamodel.PasswordResetToken{})
	return res.RowsAffected, res.Error
}

// AddToBlocklist is idempotent on jti.
func (r *AuthRepository) AddToBlocklist(ctx context.Context, entry *authDatamodel.TokenBlocklist) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "jti"}}, DoNothing: true}).
		Create(entry).Error
}

func (r *AuthRepository) IsBlocklisted(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&authDatamodel.TokenBlocklist{}).
		Where("jti = ?", jti).
		Count(&count).Error
	return count > 0, err
}

func (r *AuthRepository) DeleteExpiredBlocklist(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&authDatamodel.TokenBlocklist{})
	return res.RowsAffected, res.Error
}
