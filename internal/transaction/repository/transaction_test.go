package repository_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/frahmantamala/budget-tracker/internal/core/common/types"
	beneficiaryDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/beneficiary"
	categoryDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/category"
	giftDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/gift"
	transactionDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/transaction"
	userDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/budget-tracker/internal/testutil"
	"github.com/frahmantamala/budget-tracker/internal/transaction"
	"github.com/frahmantamala/budget-tracker/internal/transaction/repository"
)

func TestTransactionRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Transaction Repository Suite")
}

var _ = Describe("TransactionRepository", func() {
	var (
		ctx   context.Context
		db    *gorm.DB
		repo  transaction.RepositoryAPI
		food  categoryDatamodel.Category
		pay   categoryDatamodel.Category
		home  beneficiaryDatamodel.Beneficiary
		kid   beneficiaryDatamodel.Beneficiary
		owner userDatamodel.User
	)

	day := func(d int) time.Time { return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC) }

	add := func(typ string, amount int64, when time.Time, cat, ben int64, tags ...string) *transactionDatamodel.Transaction {
		t := &transactionDatamodel.Transaction{
			Type: typ, Amount: decimal.NewFromInt(amount), Description: typ,
			TransactionDate: when, Tags: tags,
			CategoryID: cat, BeneficiaryID: ben, CreatedByUserID: owner.ID,
		}
		Expect(repo.Create(ctx, t)).To(Succeed())
		return t
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = testutil.OpenDB()
		Expect(err).ToNot(HaveOccurred())
		repo = repository.NewTransactionRepository(db)

		food = categoryDatamodel.Category{Name: "Groceries", Type: "expense"}
		pay = categoryDatamodel.Category{Name: "Salary", Type: "income"}
		home = beneficiaryDatamodel.Beneficiary{Name: "Household"}
		kid = beneficiaryDatamodel.Beneficiary{Name: "Child A"}
		owner = userDatamodel.User{Name: "Parent 1", IsActive: true}
		for _, row := range []interface{}{&food, &pay, &home, &kid, &owner} {
			Expect(db.Create(row).Error).To(Succeed())
		}
	})

	AfterEach(func() {
		testutil.CloseDB(db)
	})

	It("lists newest first with relations loaded", func() {
		add("expense", 10, day(1), food.ID, home.ID)
		add("income", 3000, day(3), pay.ID, home.ID, "monthly")
		add("expense", 20, day(2), food.ID, kid.ID)

		rows, err := repo.List(ctx, transaction.Filter{})
		Expect(err).ToNot(HaveOccurred())
		Expect(rows).To(HaveLen(3))
		Expect(rows[0].TransactionDate).To(BeTemporally("==", day(3)))
		Expect(rows[2].TransactionDate).To(BeTemporally("==", day(1)))
		Expect(rows[0].Category.Name).To(Equal("Salary"))
		Expect(rows[0].CreatedByUser.Name).To(Equal("Parent 1"))
		Expect([]string(rows[0].Tags)).To(Equal([]string{"monthly"}))
		Expect(rows[1].Tags).To(BeEmpty())
	})

	It("combines filters", func() {
		add("expense", 10, day(1), food.ID, home.ID)
		add("expense", 20, day(2), food.ID, kid.ID)
		add("expense", 30, day(5), food.ID, kid.ID)
		add("income", 3000, day(2), pay.ID, kid.ID)

		start, end := day(2), day(4)
		typ := "expense"
		rows, err := repo.List(ctx, transaction.Filter{
			StartDate: &start, EndDate: &end, Type: &typ, BeneficiaryID: &kid.ID,
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].Amount.Equal(decimal.NewFromInt(20))).To(BeTrue())

		rows, err = repo.List(ctx, transaction.Filter{CategoryID: &pay.ID})
		Expect(err).ToNot(HaveOccurred())
		Expect(rows).To(HaveLen(1))
	})

	It("pages with skip and limit", func() {
		for d := 1; d <= 5; d++ {
			add("expense", int64(d), day(d), food.ID, home.ID)
		}

		rows, err := repo.List(ctx, transaction.Filter{Skip: 1, Limit: 2})
		Expect(err).ToNot(HaveOccurred())
		Expect(rows).To(HaveLen(2))
		Expect(rows[0].TransactionDate).To(BeTemporally("==", day(4)))
		Expect(rows[1].TransactionDate).To(BeTemporally("==", day(3)))
	})

	It("returns nil for a missing id", func() {
		t, err := repo.GetByID(ctx, 42)
		Expect(err).ToNot(HaveOccurred())
		Expect(t).To(BeNil())
	})

	It("unlinks gift rows when the transaction is deleted", func() {
		t := add("income", 50, day(1), pay.ID, kid.ID)
		occ := giftDatamodel.Occasion{Name: "Birthday", OccasionType: "birthday", CreatedByUserID: owner.ID}
		Expect(db.Create(&occ).Error).To(Succeed())
		entry := giftDatamodel.Entry{
			OccasionID: occ.ID, Direction: "received", PersonID: kid.ID,
			Amount: decimal.NewFromInt(50), GiftDate: types.NewDate(2024, 3, 1),
			TransactionID: &t.ID, CreatedByUserID: owner.ID,
		}
		Expect(db.Create(&entry).Error).To(Succeed())

		Expect(repo.Delete(ctx, t.ID)).To(Succeed())

		var reloaded giftDatamodel.Entry
		Expect(db.First(&reloaded, entry.ID).Error).To(Succeed())
		Expect(reloaded.TransactionID).To(BeNil())

		gone, err := repo.GetByID(ctx, t.ID)
		Expect(err).ToNot(HaveOccurred())
		Expect(gone).To(BeNil())
	})

	It("checks referenced rows", func() {
		ok, err := repo.CategoryExists(ctx, food.ID)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())

		ok, err = repo.BeneficiaryExists(ctx, 999)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeFalse())

		ok, err = repo.UserExists(ctx, owner.ID)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())
	})
})
