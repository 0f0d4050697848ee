package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	beneficiaryDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/beneficiary"
	giftDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/gift"
	transactionDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/transaction"
	userDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/budget-tracker/internal/gift"
)

type GiftRepository struct {
	db *gorm.DB
}

func NewGiftRepository(db *gorm.DB) gift.RepositoryAPI {
	return &GiftRepository{db: db}
}

func entryOrder(db *gorm.DB) *gorm.DB {
	return db.Order("gift_date DESC").Order("id DESC")
}

func purchaseOrder(db *gorm.DB) *gorm.DB {
	return db.Order("purchase_date DESC").Order("id DESC")
}

func (r *GiftRepository) ListOccasions(ctx context.Context, skip, limit int) ([]*giftDatamodel.Occasion, error) {
	var rows []*giftDatamodel.Occasion
	err := r.db.WithContext(ctx).
		Preload("Person").
		Preload("CreatedByUser").
		Preload("Entries").
		Preload("Purchases").
		Order("occasion_date IS NULL").
		Order("occasion_date DESC").
		Order("created_at DESC").
		Order("id DESC").
		Offset(skip).
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *GiftRepository) GetOccasion(ctx context.Context, id int64) (*giftDatamodel.Occasion, error) {
	var o giftDatamodel.Occasion
	err := r.db.WithContext(ctx).
		Preload("Person").
		Preload("CreatedByUser").
		First(&o, id).Error
	return found(&o, err)
}

func (r *GiftRepository) GetOccasionDetail(ctx context.Context, id int64) (*giftDatamodel.Occasion, error) {
	var o giftDatamodel.Occasion
	err := r.db.WithContext(ctx).
		Preload("Person").
		Preload("CreatedByUser").
		Preload("Entries", entryOrder).
		Preload("Entries.Person").
		Preload("Entries.Transaction").
		Preload("Entries.CreatedByUser").
		Preload("Purchases", purchaseOrder).
		Preload("Purchases.Transaction").
		Preload("Purchases.CreatedByUser").
		First(&o, id).Error
	return found(&o, err)
}

func (r *GiftRepository) CreateOccasion(ctx context.Context, o *giftDatamodel.Occasion) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(o).Error
}

func (r *GiftRepository) UpdateOccasion(ctx context.Context, o *giftDatamodel.Occasion) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(o).Error
}

// DeleteOccasion removes children first so the cascade holds on stores
// without enforced foreign keys.
func (r *GiftRepository) DeleteOccasion(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("occasion_id = ?", id).Delete(&giftDatamodel.Entry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("occasion_id = ?", id).Delete(&giftDatamodel.Purchase{}).Error; err != nil {
			return err
		}
		return tx.Delete(&giftDatamodel.Occasion{}, id).Error
	})
}

func (r *GiftRepository) ListEntries(ctx context.Context, occasionID int64) ([]giftDatamodel.Entry, error) {
	var rows []giftDatamodel.Entry
	err := entryOrder(r.entries(ctx)).
		Where("occasion_id = ?", occasionID).
		Find(&rows).Error
	return rows, err
}

func (r *GiftRepository) GetEntry(ctx context.Context, id int64) (*giftDatamodel.Entry, error) {
	var e giftDatamodel.Entry
	err := r.entries(ctx).First(&e, id).Error
	return found(&e, err)
}

func (r *GiftRepository) CreateEntry(ctx context.Context, e *giftDatamodel.Entry) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(e).Error
}

func (r *GiftRepository) UpdateEntry(ctx context.Context, e *giftDatamodel.Entry) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(e).Error
}

func (r *GiftRepository) DeleteEntry(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&giftDatamodel.Entry{}, id).Error
}

func (r *GiftRepository) ListPurchases(ctx context.Context, occasionID int64) ([]giftDatamodel.Purchase, error) {
	var rows []giftDatamodel.Purchase
	err := purchaseOrder(r.purchases(ctx)).
		Where("occasion_id = ?", occasionID).
		Find(&rows).Error
	return rows, err
}

func (r *GiftRepository) GetPurchase(ctx context.Context, id int64) (*giftDatamodel.Purchase, error) {
	var p giftDatamodel.Purchase
	err := r.purchases(ctx).First(&p, id).Error
	return found(&p, err)
}

func (r *GiftRepository) CreatePurchase(ctx context.Context, p *giftDatamodel.Purchase) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *GiftRepository) UpdatePurchase(ctx context.Context, p *giftDatamodel.Purchase) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

func (r *GiftRepository) DeletePurchase(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&giftDatamodel.Purchase{}, id).Error
}

func (r *GiftRepository) BeneficiaryExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, &beneficiaryDatamodel.Beneficiary{}, id)
}

func (r *GiftRepository) TransactionExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, &transactionDatamodel.Transaction{}, id)
}

func (r *GiftRepository) UserExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, &userDatamodel.User{}, id)
}

func (r *GiftRepository) entries(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Person").
		Preload("Transaction").
		Preload("CreatedByUser")
}

func (r *GiftRepository) purchases(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Transaction").
		Preload("CreatedByUser")
}

func (r *GiftRepository) exists(ctx context.Context, model interface{}, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func found[T any](row *T, err error) (*T, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return row, nil
}
