package category

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/frahmantamala/budget-tracker/internal"
	categoryDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/category"
)

var (
	ErrDuplicateName = internal.NewBusinessRuleError("Category with this name already exists", internal.ErrCodeDuplicateName)
	ErrStillInUse    = internal.NewBusinessRuleError("Category is still referenced", internal.ErrCodeStillInUse)
)

// RepositoryAPI returns (nil, nil) from lookups when nothing matches.
type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*categoryDatamodel.Category, error)
	GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error)
	GetByName(ctx context.Context, name string) (*categoryDatamodel.Category, error)
	Create(ctx context.Context, category *categoryDatamodel.Category) error
	Update(ctx context.Context, category *categoryDatamodel.Category) error
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

func (s *Service) List(ctx context.Context) ([]*Category, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	out := make([]*Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Category, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if row == nil {
		return nil, internal.ErrCategoryNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto CreateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, dto.Name, 0); err != nil {
		return nil, err
	}

	row := &categoryDatamodel.Category{Name: dto.Name, Type: dto.Type}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, s.translate(err, "create category")
	}

	s.logger.Info("category created", "category_id", row.ID, "name", row.Name)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if row == nil {
		return nil, internal.ErrCategoryNotFound
	}

	if dto.Name != nil && *dto.Name != row.Name {
		if err := s.ensureNameFree(ctx, *dto.Name, id); err != nil {
			return nil, err
		}
		row.Name = *dto.Name
	}
	if dto.Type != nil {
		row.Type = *dto.Type
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, s.translate(err, "update category")
	}
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get category: %w", err)
	}
	if row == nil {
		return internal.ErrCategoryNotFound
	}

	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return fmt.Errorf("count category references: %w", err)
	}
	if refs > 0 {
		return ErrStillInUse
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translate(err, "delete category")
	}

	s.logger.Info("category deleted", "category_id", id)
	return nil
}

func (s *Service) ensureNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return fmt.Errorf("lookup category by name: %w", err)
	}
	if existing != nil && existing.ID != selfID {
		return ErrDuplicateName
	}
	return nil
}

// translate maps constraint violations that slipped past the pre-checks.
func (s *Service) translate(err error, op string) error {
	switch {
	case stderrors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateName
	case stderrors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrStillInUse
	}
	return fmt.Errorf("%s: %w", op, err)
}
