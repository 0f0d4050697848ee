package beneficiary

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/frahmantamala/budget-tracker/internal"
	beneficiaryDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/beneficiary"
)

var (
	ErrDuplicateName = internal.NewBusinessRuleError("Beneficiary with this name already exists", internal.ErrCodeDuplicateName)
	ErrStillInUse    = internal.NewBusinessRuleError("Beneficiary is still referenced", internal.ErrCodeStillInUse)
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*beneficiaryDatamodel.Beneficiary, error)
	GetByID(ctx context.Context, id int64) (*beneficiaryDatamodel.Beneficiary, error)
	GetByName(ctx context.Context, name string) (*beneficiaryDatamodel.Beneficiary, error)
	Create(ctx context.Context, b *beneficiaryDatamodel.Beneficiary) error
	Update(ctx context.Context, b *beneficiaryDatamodel.Beneficiary) error
	Delete(ctx context.Context, id int64) error
	CountReferences(ctx context.Context, id int64) (int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]*Beneficiary, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list beneficiaries: %w", err)
	}
	out := make([]*Beneficiary, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Beneficiary, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get beneficiary: %w", err)
	}
	if row == nil {
		return nil, internal.ErrBeneficiaryNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto BeneficiaryDTO) (*Beneficiary, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(ctx, dto.Name)
	if err != nil {
		return nil, fmt.Errorf("lookup beneficiary by name: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateName
	}

	row := &beneficiaryDatamodel.Beneficiary{Name: dto.Name}
	if err := s.repo.Create(ctx, row); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("create beneficiary: %w", err)
	}

	s.logger.Info("beneficiary created", "beneficiary_id", row.ID)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto BeneficiaryDTO) (*Beneficiary, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get beneficiary: %w", err)
	}
	if row == nil {
		return nil, internal.ErrBeneficiaryNotFound
	}

	existing, err := s.repo.GetByName(ctx, dto.Name)
	if err != nil {
		return nil, fmt.Errorf("lookup beneficiary by name: %w", err)
	}
	if existing != nil && existing.ID != id {
		return nil, ErrDuplicateName
	}

	row.Name = dto.Name
	if err := s.repo.Update(ctx, row); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("update beneficiary: %w", err)
	}
	return FromDataModel(row), nil
}

// Delete refuses while transactions or gifts still point at the beneficiary.
func (s *Service) Delete(ctx context.Context, id int64) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get beneficiary: %w", err)
	}
	if row == nil {
		return internal.ErrBeneficiaryNotFound
	}

	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return fmt.Errorf("count beneficiary references: %w", err)
	}
	if refs > 0 {
		return ErrStillInUse
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if stderrors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrStillInUse
		}
		return fmt.Errorf("delete beneficiary: %w", err)
	}
	return nil
}
