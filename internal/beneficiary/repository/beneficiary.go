package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/budget-tracker/internal/beneficiary"
	beneficiaryDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/beneficiary"
	giftDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/gift"
	transactionDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/transaction"
)

type BeneficiaryRepository struct {
	db *gorm.DB
}

func NewBeneficiaryRepository(db *gorm.DB) beneficiary.RepositoryAPI {
	return &BeneficiaryRepository{db: db}
}

func (r *BeneficiaryRepository) GetAll(ctx context.Context) ([]*beneficiaryDatamodel.Beneficiary, error) {
	var rows []*beneficiaryDatamodel.Beneficiary
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *BeneficiaryRepository) GetByID(ctx context.Context, id int64) (*beneficiaryDatamodel.Beneficiary, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *BeneficiaryRepository) GetByName(ctx context.Context, name string) (*beneficiaryDatamodel.Beneficiary, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *BeneficiaryRepository) first(ctx context.Context, query string, arg interface{}) (*beneficiaryDatamodel.Beneficiary, error) {
	var b beneficiaryDatamodel.Beneficiary
	err := r.db.WithContext(ctx).Where(query, arg).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BeneficiaryRepository) Create(ctx context.Context, b *beneficiaryDatamodel.Beneficiary) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BeneficiaryRepository) Update(ctx context.Context, b *beneficiaryDatamodel.Beneficiary) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BeneficiaryRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&beneficiaryDatamodel.Beneficiary{}, id).Error
}

// CountReferences sums transactions, gift occasions and gift entries that
// name the beneficiary.
func (r *BeneficiaryRepository) CountReferences(ctx context.Context, id int64) (int64, error) {
	var total int64
	checks := []struct {
		model  interface{}
		column string
	}{
		{&transactionDatamodel.Transaction{}, "beneficiary_id"},
		{&giftDatamodel.Occasion{}, "person_id"},
		{&giftDatamodel.Entry{}, "person_id"},
	}
	for _, c := range checks {
		var n int64
		if err := r.db.WithContext(ctx).Model(c.model).Where(c.column+" = ?", id).Count(&n).Error; err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
