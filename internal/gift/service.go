package gift

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/frahmantamala/budget-tracker/internal"
	giftDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/gift"
)

// RepositoryAPI defines data access for occasions and their entries and
// purchases. Single-row lookups return (nil, nil) when nothing matches.
type RepositoryAPI interface {
	// ListOccasions preloads person, creator, entries and purchases.
	ListOccasions(ctx context.Context, skip, limit int) ([]*giftDatamodel.Occasion, error)
	GetOccasion(ctx context.Context, id int64) (*giftDatamodel.Occasion, error)
	// GetOccasionDetail also loads entries and purchases with their relations.
	GetOccasionDetail(ctx context.Context, id int64) (*giftDatamodel.Occasion, error)
	CreateOccasion(ctx context.Context, o *giftDatamodel.Occasion) error
	UpdateOccasion(ctx context.Context, o *giftDatamodel.Occasion) error
	DeleteOccasion(ctx context.Context, id int64) error

	ListEntries(ctx context.Context, occasionID int64) ([]giftDatamodel.Entry, error)
	GetEntry(ctx context.Context, id int64) (*giftDatamodel.Entry, error)
	CreateEntry(ctx context.Context, e *giftDatamodel.Entry) error
	UpdateEntry(ctx context.Context, e *giftDatamodel.Entry) error
	DeleteEntry(ctx context.Context, id int64) error

	ListPurchases(ctx context.Context, occasionID int64) ([]giftDatamodel.Purchase, error)
	GetPurchase(ctx context.Context, id int64) (*giftDatamodel.Purchase, error)
	CreatePurchase(ctx context.Context, p *giftDatamodel.Purchase) error
	UpdatePurchase(ctx context.Context, p *giftDatamodel.Purchase) error
	DeletePurchase(ctx context.Context, id int64) error

	BeneficiaryExists(ctx context.Context, id int64) (bool, error)
	TransactionExists(ctx context.Context, id int64) (bool, error)
	UserExists(ctx context.Context, id int64) (bool, error)
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

func (s *Service) ListOccasions(ctx context.Context, skip, limit int) ([]*OccasionWithSummary, error) {
	rows, err := s.repo.ListOccasions(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list gift occasions: %w", err)
	}

	out := make([]*OccasionWithSummary, len(rows))
	for i, row := range rows {
		out[i] = &OccasionWithSummary{
			Occasion: OccasionFromDataModel(row),
			Summary:  Summarize(row.ID, row.Entries, row.Purchases),
		}
	}
	return out, nil
}

func (s *Service) GetOccasion(ctx context.Context, id int64) (*OccasionDetail, error) {
	row, err := s.repo.GetOccasionDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get gift occasion: %w", err)
	}
	if row == nil {
		return nil, internal.ErrGiftOccasionNotFound
	}
	return &OccasionDetail{
		Occasion:      OccasionFromDataModel(row),
		GiftEntries:   entriesFromDataModel(row.Entries),
		GiftPurchases: purchasesFromDataModel(row.Purchases),
	}, nil
}

func (s *Service) OccasionSummary(ctx context.Context, id int64) (Summary, error) {
	if err := s.requireOccasion(ctx, id); err != nil {
		return Summary{}, err
	}

	entries, err := s.repo.ListEntries(ctx, id)
	if err != nil {
		return Summary{}, fmt.Errorf("list gift entries: %w", err)
	}
	purchases, err := s.repo.ListPurchases(ctx, id)
	if err != nil {
		return Summary{}, fmt.Errorf("list gift purchases: %w", err)
	}
	return Summarize(id, entries, purchases), nil
}

func (s *Service) CreateOccasion(ctx context.Context, currentUserID int64, dto CreateOccasionDTO) (*Occasion, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	creator := currentUserID
	if dto.CreatedByUserID != nil {
		creator = *dto.CreatedByUserID
	}
	if err := s.checkReferences(ctx, refs{person: dto.PersonID, user: &creator}); err != nil {
		return nil, err
	}

	row := &giftDatamodel.Occasion{
		Name:            dto.Name,
		OccasionType:    dto.OccasionType,
		OccasionDate:    dto.OccasionDate,
		PersonID:        dto.PersonID,
		Notes:           dto.Notes,
		IsPoolAccount:   dto.IsPoolAccount,
		CreatedByUserID: creator,
	}
	if err := s.repo.CreateOccasion(ctx, row); err != nil {
		return nil, translate(err, "create gift occasion")
	}

	s.logger.Info("gift occasion created", "occasion_id", row.ID, "occasion_type", row.OccasionType)
	return s.occasion(ctx, row.ID)
}

func (s *Service) UpdateOccasion(ctx context.Context, id int64, dto UpdateOccasionDTO) (*Occasion, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetOccasion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get gift occasion: %w", err)
	}
	if row == nil {
		return nil, internal.ErrGiftOccasionNotFound
	}
	if err := s.checkReferences(ctx, refs{person: dto.PersonID}); err != nil {
		return nil, err
	}

	if dto.Name != nil {
		row.Name = *dto.Name
	}
	if dto.OccasionType != nil {
		row.OccasionType = *dto.OccasionType
	}
	if dto.OccasionDate != nil {
		row.OccasionDate = dto.OccasionDate
	}
	if dto.PersonID != nil {
		row.PersonID = dto.PersonID
	}
	if dto.Notes != nil {
		row.Notes = dto.Notes
	}
	if dto.IsPoolAccount != nil {
		row.IsPoolAccount = *dto.IsPoolAccount
	}

	if err := s.repo.UpdateOccasion(ctx, row); err != nil {
		return nil, translate(err, "update gift occasion")
	}
	return s.occasion(ctx, id)
}

// DeleteOccasion removes the occasion together with its entries and purchases.
func (s *Service) DeleteOccasion(ctx context.Context, id int64) error {
	if err := s.requireOccasion(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteOccasion(ctx, id); err != nil {
		return fmt.Errorf("delete gift occasion: %w", err)
	}

	s.logger.Info("gift occasion deleted", "occasion_id", id)
	return nil
}

func (s *Service) ListEntries(ctx context.Context, occasionID int64) ([]*Entry, error) {
	if err := s.requireOccasion(ctx, occasionID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListEntries(ctx, occasionID)
	if err != nil {
		return nil, fmt.Errorf("list gift entries: %w", err)
	}
	return entriesFromDataModel(rows), nil
}

func (s *Service) CreateEntry(ctx context.Context, currentUserID, occasionID int64, dto CreateEntryDTO) (*Entry, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireOccasion(ctx, occasionID); err != nil {
		return nil, err
	}

	creator := currentUserID
	if dto.CreatedByUserID != nil {
		creator = *dto.CreatedByUserID
	}
	if err := s.checkReferences(ctx, refs{person: &dto.PersonID, transaction: dto.TransactionID, user: &creator}); err != nil {
		return nil, err
	}

	row := &giftDatamodel.Entry{
		OccasionID:      occasionID,
		Direction:       dto.Direction,
		PersonID:        dto.PersonID,
		Amount:          *dto.Amount,
		GiftDate:        *dto.GiftDate,
		Description:     trimmed(dto.Description),
		Notes:           dto.Notes,
		TransactionID:   dto.TransactionID,
		CreatedByUserID: creator,
	}
	if err := s.repo.CreateEntry(ctx, row); err != nil {
		return nil, translate(err, "create gift entry")
	}

	s.logger.Info("gift entry created",
		"entry_id", row.ID,
		"occasion_id", occasionID,
		"direction", row.Direction,
		"amount", row.Amount.String())
	return s.entry(ctx, row.ID)
}

func (s *Service) UpdateEntry(ctx context.Context, id int64, dto UpdateEntryDTO) (*Entry, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetEntry(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get gift entry: %w", err)
	}
	if row == nil {
		return nil, internal.ErrGiftEntryNotFound
	}
	if err := s.checkReferences(ctx, refs{person: dto.PersonID, transaction: dto.TransactionID}); err != nil {
		return nil, err
	}

	if dto.Direction != nil {
		row.Direction = *dto.Direction
	}
	if dto.PersonID != nil {
		row.PersonID = *dto.PersonID
	}
	if dto.Amount != nil {
		row.Amount = *dto.Amount
	}
	if dto.GiftDate != nil {
		row.GiftDate = *dto.GiftDate
	}
	if dto.Description != nil {
		row.Description = trimmed(dto.Description)
	}
	if dto.Notes != nil {
		row.Notes = dto.Notes
	}
	if dto.TransactionID != nil {
		row.TransactionID = dto.TransactionID
	}

	if err := s.repo.UpdateEntry(ctx, row); err != nil {
		return nil, translate(err, "update gift entry")
	}
	return s.entry(ctx, id)
}

func (s *Service) DeleteEntry(ctx context.Context, id int64) error {
	row, err := s.repo.GetEntry(ctx, id)
	if err != nil {
		return fmt.Errorf("get gift entry: %w", err)
	}
	if row == nil {
		return internal.ErrGiftEntryNotFound
	}
	if err := s.repo.DeleteEntry(ctx, id); err != nil {
		return fmt.Errorf("delete gift entry: %w", err)
	}
	return nil
}

func (s *Service) ListPurchases(ctx context.Context, occasionID int64) ([]*Purchase, error) {
	if err := s.requireOccasion(ctx, occasionID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListPurchases(ctx, occasionID)
	if err != nil {
		return nil, fmt.Errorf("list gift purchases: %w", err)
	}
	return purchasesFromDataModel(rows), nil
}

func (s *Service) CreatePurchase(ctx context.Context, currentUserID, occasionID int64, dto CreatePurchaseDTO) (*Purchase, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireOccasion(ctx, occasionID); err != nil {
		return nil, err
	}

	creator := currentUserID
	if dto.CreatedByUserID != nil {
		creator = *dto.CreatedByUserID
	}
	if err := s.checkReferences(ctx, refs{transaction: dto.TransactionID, user: &creator}); err != nil {
		return nil, err
	}

	row := &giftDatamodel.Purchase{
		OccasionID:      occasionID,
		Amount:          *dto.Amount,
		PurchaseDate:    *dto.PurchaseDate,
		Description:     dto.Description,
		Notes:           dto.Notes,
		TransactionID:   dto.TransactionID,
		CreatedByUserID: creator,
	}
	if err := s.repo.CreatePurchase(ctx, row); err != nil {
		return nil, translate(err, "create gift purchase")
	}

	s.logger.Info("gift purchase created",
		"purchase_id", row.ID,
		"occasion_id", occasionID,
		"amount", row.Amount.String())
	return s.purchase(ctx, row.ID)
}

func (s *Service) UpdatePurchase(ctx context.Context, id int64, dto UpdatePurchaseDTO) (*Purchase, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetPurchase(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get gift purchase: %w", err)
	}
	if row == nil {
		return nil, internal.ErrGiftPurchaseNotFound
	}
	if err := s.checkReferences(ctx, refs{transaction: dto.TransactionID}); err != nil {
		return nil, err
	}

	if dto.Amount != nil {
		row.Amount = *dto.Amount
	}
	if dto.PurchaseDate != nil {
		row.PurchaseDate = *dto.PurchaseDate
	}
	if dto.Description != nil {
		row.Description = *dto.Description
	}
	if dto.Notes != nil {
		row.Notes = dto.Notes
	}
	if dto.TransactionID != nil {
		row.TransactionID = dto.TransactionID
	}

	if err := s.repo.UpdatePurchase(ctx, row); err != nil {
		return nil, translate(err, "update gift purchase")
	}
	return s.purchase(ctx, id)
}

func (s *Service) DeletePurchase(ctx context.Context, id int64) error {
	row, err := s.repo.GetPurchase(ctx, id)
	if err != nil {
		return fmt.Errorf("get gift purchase: %w", err)
	}
	if row == nil {
		return internal.ErrGiftPurchaseNotFound
	}
	if err := s.repo.DeletePurchase(ctx, id); err != nil {
		return fmt.Errorf("delete gift purchase: %w", err)
	}
	return nil
}

func (s *Service) requireOccasion(ctx context.Context, id int64) error {
	row, err := s.repo.GetOccasion(ctx, id)
	if err != nil {
		return fmt.Errorf("get gift occasion: %w", err)
	}
	if row == nil {
		return internal.ErrGiftOccasionNotFound
	}
	return nil
}

func (s *Service) occasion(ctx context.Context, id int64) (*Occasion, error) {
	row, err := s.repo.GetOccasion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get gift occasion: %w", err)
	}
	if row == nil {
		return nil, internal.ErrGiftOccasionNotFound
	}
	o := OccasionFromDataModel(row)
	return &o, nil
}

func (s *Service) entry(ctx context.Context, id int64) (*Entry, error) {
	row, err := s.repo.GetEntry(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get gift entry: %w", err)
	}
	if row == nil {
		return nil, internal.ErrGiftEntryNotFound
	}
	return EntryFromDataModel(row), nil
}

func (s *Service) purchase(ctx context.Context, id int64) (*Purchase, error) {
	row, err := s.repo.GetPurchase(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get gift purchase: %w", err)
	}
	if row == nil {
		return nil, internal.ErrGiftPurchaseNotFound
	}
	return PurchaseFromDataModel(row), nil
}

// refs lists optional foreign keys carried by a request body.
type refs struct {
	person      *int64
	transaction *int64
	user        *int64
}

func (s *Service) checkReferences(ctx context.Context, r refs) error {
	checks := []struct {
		id     *int64
		exists func(context.Context, int64) (bool, error)
		entity string
	}{
		{r.person, s.repo.BeneficiaryExists, "Person"},
		{r.transaction, s.repo.TransactionExists, "Transaction"},
		{r.user, s.repo.UserExists, "User"},
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

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// translate maps constraint failures the validators could not catch onto
// client errors.
func translate(err error, op string) error {
	switch {
	case stderrors.Is(err, gorm.ErrForeignKeyViolated):
		return internal.NewBusinessRuleError("Referenced row does not exist", internal.ErrCodeInvalidReference)
	case stderrors.Is(err, gorm.ErrCheckConstraintViolated):
		return internal.NewBusinessRuleError("Gift record violates a storage constraint", internal.ErrCodeInvalidAmount)
	}
	return fmt.Errorf("%s: %w", op, err)
}
