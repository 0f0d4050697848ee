package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	authDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/auth"
	userDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/user"
)

type ctxKey string

const ContextUserKey ctxKey = "currentUser"

// User is the authenticated principal attached to a request.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func FromDataModel(u *userDatamodel.User) *User {
	out := &User{
		ID:        u.ID,
		Name:      u.Name,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
	if u.Email != nil {
		out.Email = *u.Email
	}
	return out
}

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok && u != nil
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

// Claims represents JWT token claims. Subject carries the user id and ID the
// token identifier used for revocation.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and verifies access tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID int64, email string) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

// RepositoryAPI is the persistence the auth service needs. Lookups return
// (nil, nil) when the row does not exist.
type RepositoryAPI interface {
	GetUserByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	GetUserByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetFirstUser(ctx context.Context) (*userDatamodel.User, error)
	CreateUser(ctx context.Context, u *userDatamodel.User) error
	FirstOrCreateUserByEmail(ctx context.Context, u *userDatamodel.User) error

	CreateResetToken(ctx context.Context, t *authDatamodel.PasswordResetToken) error
	GetResetToken(ctx context.Context, token string) (*authDatamodel.PasswordResetToken, error)
	RedeemResetToken(ctx context.Context, tokenID, userID int64, hashedPassword string) error
	DeleteStaleResetTokens(ctx context.Context, now time.Time) (int64, error)

	AddToBlocklist(ctx context.Context, entry *authDatamodel.TokenBlocklist) error
	IsBlocklisted(ctx context.Context, jti string) (bool, error)
	DeleteExpiredBlocklist(ctx context.Context, now time.Time) (int64, error)
}

// PurgeResult reports how many rows a cleanup pass removed.
type PurgeResult struct {
	BlocklistRemoved   int64
	ResetTokensRemoved int64
}
