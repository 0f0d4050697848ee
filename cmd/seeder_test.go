package cmd

import (
	"context"
	"io"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/frahmantamala/budget-tracker/internal/auth"
	categoryDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/category"
	transactionDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/transaction"
	userDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/budget-tracker/internal/testutil"
)

var _ = Describe("seedDatabase", func() {
	var (
		ctx  context.Context
		db   *gorm.DB
		lg   *slog.Logger
		opts seedOptions
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = testutil.OpenDB()
		Expect(err).NotTo(HaveOccurred())
		lg = slog.New(slog.NewTextHandler(io.Discard, nil))
		opts = seedOptions{
			AdminPassword: "Secret123",
			BCryptCost:    bcrypt.MinCost,
			Now:           time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
		}
	})

	AfterEach(func() {
		testutil.CloseDB(db)
	})

	It("seeds reference data and sample transactions", func() {
		report, err := seedDatabase(ctx, db, opts, lg)
		Expect(err).NotTo(HaveOccurred())
		Expect(report).To(Equal(seedReport{Users: 3, Categories: 10, Beneficiaries: 3, Transactions: 4}))

		var allowance categoryDatamodel.Category
		Expect(db.Where("name = ?", "Allowance").First(&allowance).Error).To(Succeed())
		Expect(allowance.Type).To(Equal("both"))

		var admin userDatamodel.User
		Expect(db.Where("email = ?", adminEmail).First(&admin).Error).To(Succeed())
		Expect(auth.CheckPassword(*admin.HashedPassword, "Secret123")).To(BeTrue())

		var salary transactionDatamodel.Transaction
		Expect(db.Where("description = ?", "Monthly salary").First(&salary).Error).To(Succeed())
		Expect(salary.Amount.Equal(decimal.NewFromInt(3500))).To(BeTrue())
		Expect(salary.TransactionDate.Equal(opts.Now.Add(-24 * time.Hour))).To(BeTrue())
	})

	It("is idempotent", func() {
		_, err := seedDatabase(ctx, db, opts, lg)
		Expect(err).NotTo(HaveOccurred())

		report, err := seedDatabase(ctx, db, opts, lg)
		Expect(err).NotTo(HaveOccurred())
		Expect(report).To(Equal(seedReport{}))

		var n int64
		Expect(db.Model(&transactionDatamodel.Transaction{}).Count(&n).Error).To(Succeed())
		Expect(n).To(Equal(int64(4)))
	})

	It("replaces existing rows with --clear", func() {
		Expect(db.Create(&categoryDatamodel.Category{Name: "Travel", Type: "expense"}).Error).To(Succeed())

		opts.Clear = true
		_, err := seedDatabase(ctx, db, opts, lg)
		Expect(err).NotTo(HaveOccurred())

		var n int64
		Expect(db.Model(&categoryDatamodel.Category{}).Where("name = ?", "Travel").Count(&n).Error).To(Succeed())
		Expect(n).To(BeZero())
	})

	It("rejects a weak admin password", func() {
		opts.AdminPassword = "short"
		_, err := seedDatabase(ctx, db, opts, lg)
		Expect(err).To(HaveOccurred())
	})
})
