package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/frahmantamala/budget-tracker/internal"
	"github.com/frahmantamala/budget-tracker/internal/core/events"
	authDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/auth"
	userDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/user"
)

// resetTokenLength gives ~256 bits from the nanoid URL-safe alphabet.
const resetTokenLength = 43

type Options struct {
	ResetTokenTTL      time.Duration
	BCryptCost         int
	ExposeResetToken   bool
	DevBypassUserEmail string
}

// Service is the main auth service with dependencies
type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGenerator
	publisher      events.Publisher
	opts           Options
	logger         *slog.Logger
	now            func() time.Time
}

// NewService creates a new auth service. publisher may be nil.
func NewService(repo RepositoryAPI, tokenGen TokenGenerator, publisher events.Publisher, opts Options, logger *slog.Logger) *Service {
	if opts.ResetTokenTTL <= 0 {
		opts.ResetTokenTTL = time.Hour
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		publisher:      publisher,
		opts:           opts,
		logger:         logger,
		now:            time.Now,
	}
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*User, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetUserByEmail(ctx, dto.Email)
	if err != nil {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}
	if existing != nil {
		return nil, internal.ErrEmailRegistered
	}
	if err := ValidatePasswordStrength(dto.Password); err != nil {
		return nil, err
	}

	hash, err := HashPassword(dto.Password, s.opts.BCryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	email := dto.Email
	row := &userDatamodel.User{
		Name:           dto.Name,
		Email:          &email,
		HashedPassword: &hash,
		IsActive:       true,
	}
	if err := s.repo.CreateUser(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", row.ID)
	s.publish(ctx, events.NewUserEvent(events.EventTypeUserRegistered, row.ID, nil))

	return FromDataModel(row), nil
}

// Authenticate validates credentials and returns a bearer token
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (TokenResponse, error) {
	if err := dto.Validate(); err != nil {
		return TokenResponse{}, err
	}

	u, err := s.repo.GetUserByEmail(ctx, normalizeEmail(dto.Email))
	if err != nil {
		return TokenResponse{}, fmt.Errorf("lookup user by email: %w", err)
	}
	if u == nil || u.HashedPassword == nil || !CheckPassword(*u.HashedPassword, dto.Password) {
		return TokenResponse{}, internal.ErrInvalidCredentials
	}
	if !u.IsActive {
		return TokenResponse{}, internal.ErrUserInactive
	}

	token, err := s.tokenGenerator.GenerateAccessToken(u.ID, *u.Email)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("sign access token: %w", err)
	}

	s.publish(ctx, events.NewUserEvent(events.EventTypeUserLoggedIn, u.ID, nil))

	return TokenResponse{AccessToken: token, TokenType: tokenTypeBearer}, nil
}

// ValidateAccessToken verifies the token and rejects revoked ones
func (s *Service) ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.tokenGenerator.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := s.repo.IsBlocklisted(ctx, TokenIdentifier(claims, tokenString))
	if err != nil {
		return nil, fmt.Errorf("check blocklist: %w", err)
	}
	if revoked {
		return nil, internal.ErrTokenRevoked
	}

	return claims, nil
}

// CurrentUser resolves the active user behind a bearer token.
func (s *Service) CurrentUser(ctx context.Context, tokenString string) (*User, error) {
	claims, err := s.ValidateAccessToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, internal.ErrCouldNotValidate
	}

	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, internal.ErrCouldNotValidate
	}
	if !u.IsActive {
		return nil, internal.ErrInactiveUser
	}

	return FromDataModel(u), nil
}

// Logout revokes the token until its natural expiry. Revoking an already
// revoked token succeeds.
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.tokenGenerator.ValidateToken(tokenString)
	if err != nil {
		return err
	}

	expiresAt := s.now().Add(24 * time.Hour)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	entry := &authDatamodel.TokenBlocklist{
		JTI:       TokenIdentifier(claims, tokenString),
		Token:     tokenString,
		ExpiresAt: expiresAt.UTC(),
	}
	if err := s.repo.AddToBlocklist(ctx, entry); err != nil {
		return fmt.Errorf("blocklist token: %w", err)
	}

	userID, _ := claims.UserID()
	s.logger.Info("token revoked", "user_id", userID, "jti", entry.JTI)
	s.publish(ctx, events.NewUserEvent(events.EventTypeTokenRevoked, userID, map[string]interface{}{"jti": entry.JTI}))

	return nil
}

// ForgotPassword always answers with a message. When the account exists a
// single-use token is stored and, if configured, returned to the caller.
func (s *Service) ForgotPassword(ctx context.Context, dto ForgotPasswordDTO) (ForgotPasswordResponse, error) {
	dto.Email = normalizeEmail(dto.Email)
	if err := dto.Validate(); err != nil {
		return ForgotPasswordResponse{}, err
	}

	generic := ForgotPasswordResponse{Message: MsgResetLinkSent}

	u, err := s.repo.GetUserByEmail(ctx, dto.Email)
	if err != nil {
		return ForgotPasswordResponse{}, fmt.Errorf("lookup user by email: %w", err)
	}
	if u == nil {
		return generic, nil
	}

	token, err := gonanoid.New(resetTokenLength)
	if err != nil {
		return ForgotPasswordResponse{}, fmt.Errorf("generate reset token: %w", err)
	}

	row := &authDatamodel.PasswordResetToken{
		UserID:    u.ID,
		Token:     token,
		ExpiresAt: s.now().Add(s.opts.ResetTokenTTL).UTC(),
	}
	if err := s.repo.CreateResetToken(ctx, row); err != nil {
		return ForgotPasswordResponse{}, fmt.Errorf("store reset token: %w", err)
	}

	s.publish(ctx, events.NewUserEvent(events.EventTypePasswordResetRequested, u.ID, nil))

	if !s.opts.ExposeResetToken {
		return generic, nil
	}
	return ForgotPasswordResponse{Message: MsgResetTokenIssued, ResetToken: token}, nil
}

// ResetPassword redeems a reset token. Sessions issued before the reset stay
// valid until they expire or are logged out.
func (s *Service) ResetPassword(ctx context.Context, dto ResetPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	rt, err := s.repo.GetResetToken(ctx, dto.Token)
	if err != nil {
		return fmt.Errorf("lookup reset token: %w", err)
	}
	if rt == nil {
		return internal.ErrInvalidResetToken
	}
	if rt.Used {
		return internal.ErrResetTokenUsed
	}
	if s.now().After(rt.ExpiresAt) {
		return internal.ErrResetTokenExpired
	}

	if err := ValidatePasswordStrength(dto.NewPassword); err != nil {
		return err
	}

	u, err := s.repo.GetUserByID(ctx, rt.UserID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return internal.NewBusinessRuleError("User not found", internal.ErrCodeUserNotFound)
	}

	hash, err := HashPassword(dto.NewPassword, s.opts.BCryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.RedeemResetToken(ctx, rt.ID, u.ID, hash); err != nil {
		return err
	}

	s.logger.Info("password reset", "user_id", u.ID)
	s.publish(ctx, events.NewUserEvent(events.EventTypePasswordReset, u.ID, nil))

	return nil
}

// DevBypassUser picks the user impersonated by the development bypass header:
// the configured email, else the first user, else a placeholder account.
func (s *Service) DevBypassUser(ctx context.Context) (*User, error) {
	if s.opts.DevBypassUserEmail != "" {
		u, err := s.repo.GetUserByEmail(ctx, normalizeEmail(s.opts.DevBypassUserEmail))
		if err != nil {
			return nil, fmt.Errorf("lookup bypass user: %w", err)
		}
		if u != nil {
			return FromDataModel(u), nil
		}
	}

	u, err := s.repo.GetFirstUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("lookup first user: %w", err)
	}
	if u != nil {
		return FromDataModel(u), nil
	}

	email := devBypassDefaultEmail
	placeholder := &userDatamodel.User{
		Name:     devBypassUserName,
		Email:    &email,
		IsActive: true,
	}
	if err := s.repo.FirstOrCreateUserByEmail(ctx, placeholder); err != nil {
		return nil, fmt.Errorf("create bypass user: %w", err)
	}
	return FromDataModel(placeholder), nil
}

// PurgeExpired drops blocklist rows past their token expiry and reset tokens
// that are used or expired.
func (s *Service) PurgeExpired(ctx context.Context) (PurgeResult, error) {
	now := s.now().UTC()

	blocked, err := s.repo.DeleteExpiredBlocklist(ctx, now)
	if err != nil {
		return PurgeResult{}, fmt.Errorf("purge blocklist: %w", err)
	}

	resets, err := s.repo.DeleteStaleResetTokens(ctx, now)
	if err != nil {
		return PurgeResult{BlocklistRemoved: blocked}, fmt.Errorf("purge reset tokens: %w", err)
	}

	return PurgeResult{BlocklistRemoved: blocked, ResetTokensRemoved: resets}, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
