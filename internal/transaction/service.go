package transaction

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/frahmantamala/budget-tracker/internal"
	transactionDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/transaction"
)

// RepositoryAPI interface defines the data access methods for transactions.
// GetByID returns (nil, nil) when the row does not exist and preloads the
// category, beneficiary and creator.
type RepositoryAPI interface {
	List(ctx context.Context, filter Filter) ([]*transactionDatamodel.Transaction, error)
	GetByID(ctx context.Context, id int64) (*transactionDatamodel.Transaction, error)
	Create(ctx context.Context, t *transactionDatamodel.Transaction) error
	Update(ctx context.Context, t *transactionDatamodel.Transaction) error
	Delete(ctx context.Context, id int64) error

	CategoryExists(ctx context.Context, id int64) (bool, error)
	BeneficiaryExists(ctx context.Context, id int64) (bool, error)
	UserExists(ctx context.Context, id int64) (bool, error)
}

// Service handles transaction business logic
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

// NewService creates a new transaction service
func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, filter Filter) ([]*Transaction, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Transaction, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	if row == nil {
		return nil, internal.ErrTransactionNotFound
	}
	return FromDataModel(row), nil
}

// Create records a transaction. currentUserID is used as the creator unless
// the body names one.
func (s *Service) Create(ctx context.Context, currentUserID int64, dto CreateTransactionDTO) (*Transaction, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	creator := currentUserID
	if dto.CreatedByUserID != nil {
		creator = *dto.CreatedByUserID
	}
	if err := s.checkReferences(ctx, &dto.CategoryID, &dto.BeneficiaryID, &creator); err != nil {
		return nil, err
	}

	tags := dto.Tags
	if tags == nil {
		tags = []string{}
	}

	row := ToDataModel(&Transaction{
		Type:            dto.Type,
		Amount:          *dto.Amount,
		Description:     strings.TrimSpace(dto.Description),
		TransactionDate: dto.TransactionDate.UTC(),
		ImagePath:       dto.ImagePath,
		Notes:           dto.Notes,
		Tags:            tags,
		CategoryID:      dto.CategoryID,
		BeneficiaryID:   dto.BeneficiaryID,
		CreatedByUserID: creator,
	})
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, s.translate(err, "create transaction")
	}

	s.logger.Info("transaction created",
		"transaction_id", row.ID,
		"type", row.Type,
		"amount", row.Amount.String(),
		"created_by_user_id", creator)

	return s.Get(ctx, row.ID)
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateTransactionDTO) (*Transaction, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	if row == nil {
		return nil, internal.ErrTransactionNotFound
	}

	if err := s.checkReferences(ctx, dto.CategoryID, dto.BeneficiaryID, dto.CreatedByUserID); err != nil {
		return nil, err
	}

	if dto.Type != nil {
		row.Type = *dto.Type
	}
	if dto.Amount != nil {
		row.Amount = *dto.Amount
	}
	if dto.Description != nil {
		row.Description = strings.TrimSpace(*dto.Description)
	}
	if dto.TransactionDate != nil {
		row.TransactionDate = dto.TransactionDate.UTC()
	}
	if dto.CategoryID != nil {
		row.CategoryID = *dto.CategoryID
	}
	if dto.BeneficiaryID != nil {
		row.BeneficiaryID = *dto.BeneficiaryID
	}
	if dto.CreatedByUserID != nil {
		row.CreatedByUserID = *dto.CreatedByUserID
	}
	if dto.ImagePath != nil {
		row.ImagePath = dto.ImagePath
	}
	if dto.Notes != nil {
		row.Notes = dto.Notes
	}
	if dto.Tags != nil {
		row.Tags = transactionDatamodel.StringList(*dto.Tags)
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, s.translate(err, "update transaction")
	}

	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}
	if row == nil {
		return internal.ErrTransactionNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.logger.Info("transaction deleted", "transaction_id", id)
	return nil
}

// checkReferences verifies each non-nil id points at an existing row.
func (s *Service) checkReferences(ctx context.Context, categoryID, beneficiaryID, userID *int64) error {
	checks := []struct {
		id     *int64
		exists func(context.Context, int64) (bool, error)
		entity string
	}{
		{categoryID, s.repo.CategoryExists, "Category"},
		{beneficiaryID, s.repo.BeneficiaryExists, "Beneficiary"},
		{userID, s.repo.UserExists, "User"},
	}

	for _, c := range checks {
		if c.id == nil {
			continue
		}
		ok, err := c.exists(ctx, *c.id)
		if err != nil {
			return fmt.Errorf("check %s reference: %w", strings.ToLower(c.entity), err)
		}
		if !ok {
			return internal.NewInvalidReferenceError(c.entity)
		}
	}
	return nil
}

func (s *Service) translate(err error, op string) error {
	switch {
	case stderrors.Is(err, gorm.ErrForeignKeyViolated):
		return internal.NewBusinessRuleError("Referenced row does not exist", internal.ErrCodeInvalidReference)
	case stderrors.Is(err, gorm.ErrCheckConstraintViolated):
		return internal.NewBusinessRuleError("Transaction violates a storage constraint", internal.ErrCodeInvalidAmount)
	}
	return fmt.Errorf("%s: %w", op, err)
}
