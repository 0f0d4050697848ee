package repository_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/frahmantamala/budget-tracker/internal/core/common/types"
	beneficiaryDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/beneficiary"
	giftDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/gift"
	userDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/budget-tracker/internal/gift"
	"github.com/frahmantamala/budget-tracker/internal/gift/repository"
	"github.com/frahmantamala/budget-tracker/internal/testutil"
)

func TestGiftRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Gift Repository Suite")
}

var _ = Describe("GiftRepository", func() {
	var (
		ctx    context.Context
		db     *gorm.DB
		repo   gift.RepositoryAPI
		owner  userDatamodel.User
		person beneficiaryDatamodel.Beneficiary
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = testutil.OpenDB()
		Expect(err).ToNot(HaveOccurred())
		repo = repository.NewGiftRepository(db)

		owner = userDatamodel.User{Name: "Parent 1", IsActive: true}
		person = beneficiaryDatamodel.Beneficiary{Name: "Child A"}
		Expect(db.Create(&owner).Error).To(Succeed())
		Expect(db.Create(&person).Error).To(Succeed())
	})

	AfterEach(func() {
		testutil.CloseDB(db)
	})

	newOccasion := func(name string) *giftDatamodel.Occasion {
		o := &giftDatamodel.Occasion{Name: name, OccasionType: "birthday", IsPoolAccount: true, CreatedByUserID: owner.ID}
		Expect(repo.CreateOccasion(ctx, o)).To(Succeed())
		return o
	}

	fill := func(o *giftDatamodel.Occasion) {
		Expect(repo.CreateEntry(ctx, &giftDatamodel.Entry{
			OccasionID: o.ID, Direction: "received", PersonID: person.ID,
			Amount: decimal.NewFromInt(50), GiftDate: types.NewDate(2024, 5, 1), CreatedByUserID: owner.ID,
		})).To(Succeed())
		Expect(repo.CreatePurchase(ctx, &giftDatamodel.Purchase{
			OccasionID: o.ID, Amount: decimal.NewFromInt(30), PurchaseDate: types.NewDate(2024, 5, 2),
			Description: "Bike", CreatedByUserID: owner.ID,
		})).To(Succeed())
	}

	count := func(model interface{}) int64 {
		var n int64
		Expect(db.Model(model).Count(&n).Error).To(Succeed())
		return n
	}

	It("removes entries and purchases together with their occasion", func() {
		doomed := newOccasion("Birthday")
		kept := newOccasion("Holiday")
		fill(doomed)
		fill(kept)
		Expect(count(&giftDatamodel.Entry{})).To(Equal(int64(2)))

		Expect(repo.DeleteOccasion(ctx, doomed.ID)).To(Succeed())

		o, err := repo.GetOccasion(ctx, doomed.ID)
		Expect(err).ToNot(HaveOccurred())
		Expect(o).To(BeNil())

		entries, err := repo.ListEntries(ctx, doomed.ID)
		Expect(err).ToNot(HaveOccurred())
		Expect(entries).To(BeEmpty())
		purchases, err := repo.ListPurchases(ctx, doomed.ID)
		Expect(err).ToNot(HaveOccurred())
		Expect(purchases).To(BeEmpty())

		Expect(count(&giftDatamodel.Entry{})).To(Equal(int64(1)))
		Expect(count(&giftDatamodel.Purchase{})).To(Equal(int64(1)))
	})

	It("loads entries and purchases with the occasion detail", func() {
		o := newOccasion("Birthday")
		fill(o)

		detail, err := repo.GetOccasionDetail(ctx, o.ID)
		Expect(err).ToNot(HaveOccurred())
		Expect(detail.Entries).To(HaveLen(1))
		Expect(detail.Purchases).To(HaveLen(1))
		Expect(detail.Entries[0].Amount.Equal(decimal.NewFromInt(50))).To(BeTrue())
	})

	It("checks referenced rows", func() {
		ok, err := repo.BeneficiaryExists(ctx, person.ID)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())

		ok, err = repo.TransactionExists(ctx, 404)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeFalse())
	})
})
