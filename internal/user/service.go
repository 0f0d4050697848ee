package user

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/frahmantamala/budget-tracker/internal"
	userDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/user"
)

var (
	ErrEmailTaken = internal.ErrEmailRegistered
	ErrStillInUse = internal.NewBusinessRuleError("User is still referenced", internal.ErrCodeStillInUse)
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*userDatamodel.User, error)
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	Update(ctx context.Context, u *userDatamodel.User) error
	Delete(ctx context.Context, id int64) error
	CountReferences(ctx context.Context, id int64) (int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	out := make([]*User, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, userID int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	if u == nil {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(u), nil
}

func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row := &userDatamodel.User{Name: dto.Name, IsActive: true}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created", "user_id", row.ID)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, userID int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}

	if dto.Name != nil {
		row.Name = *dto.Name
	}
	if dto.Email != nil {
		other, err := s.repo.GetByEmail(ctx, *dto.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to lookup email: %w", err)
		}
		if other != nil && other.ID != row.ID {
			return nil, ErrEmailTaken
		}
		row.Email = dto.Email
	}
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(ctx, row); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, userID int64) error {
	row, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}
	if row == nil {
		return internal.ErrUserNotFound
	}

	refs, err := s.repo.CountReferences(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to count user references: %w", err)
	}
	if refs > 0 {
		return ErrStillInUse
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		if stderrors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrStillInUse
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("user deleted", "user_id", userID)
	return nil
}
