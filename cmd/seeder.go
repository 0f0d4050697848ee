package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/budget-tracker/internal/auth"
	"github.com/frahmantamala/budget-tracker/internal/category"
	"github.com/frahmantamala/budget-tracker/internal/core/datamodel"
	beneficiaryDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/beneficiary"
	categoryDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/category"
	transactionDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/transaction"
	userDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/budget-tracker/internal/transaction"
	"github.com/frahmantamala/budget-tracker/pkg/logger"
)

const adminEmail = "admin@example.com"

var (
	clearData     bool
	adminPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with reference and sample data",
	Long:  `Seed users, categories, beneficiaries and a few sample transactions. Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		lg := logger.LoggerWrapper()

		gdb, err := initDB(cfg.Database)
		if err != nil {
			return err
		}
		defer closeDB(gdb, lg)

		report, err := seedDatabase(cmd.Context(), gdb, seedOptions{
			Clear:         clearData,
			AdminPassword: adminPassword,
			BCryptCost:    cfg.Security.BCryptCost,
		}, lg)
		if err != nil {
			return err
		}
		lg.Info("database seeded",
			"users", report.Users,
			"categories", report.Categories,
			"beneficiaries", report.Beneficiaries,
			"transactions", report.Transactions)
		return nil
	},
}

type seedOptions struct {
	Clear         bool
	AdminPassword string
	BCryptCost    int
	Now           time.Time
}

// seedReport counts rows created by this run; existing rows are not counted.
type seedReport struct {
	Users         int
	Categories    int
	Beneficiaries int
	Transactions  int
}

var seedCategories = []categoryDatamodel.Category{
	{Name: "Groceries", Type: category.TypeExpense},
	{Name: "Gifts", Type: category.TypeExpense},
	{Name: "School", Type: category.TypeExpense},
	{Name: "Entertainment", Type: category.TypeExpense},
	{Name: "Healthcare", Type: category.TypeExpense},
	{Name: "Transportation", Type: category.TypeExpense},
	{Name: "Utilities", Type: category.TypeExpense},
	{Name: "Salary", Type: category.TypeIncome},
	{Name: "Birthday Money", Type: category.TypeIncome},
	{Name: "Allowance", Type: category.TypeBoth},
}

var seedBeneficiaries = []string{"Household", "Child A", "Child B"}

func seedDatabase(ctx context.Context, gdb *gorm.DB, opts seedOptions, lg *slog.Logger) (seedReport, error) {
	var report seedReport
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}
	if opts.AdminPassword == "" {
		opts.AdminPassword = "ChangeMe123"
	}
	if err := auth.ValidatePasswordStrength(opts.AdminPassword); err != nil {
		return report, fmt.Errorf("admin password: %w", err)
	}
	hash, err := auth.HashPassword(opts.AdminPassword, opts.BCryptCost)
	if err != nil {
		return report, err
	}

	err = gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.Clear {
			if err := clearTables(tx); err != nil {
				return err
			}
			lg.Info("cleared existing data")
		}

		parents := make([]*userDatamodel.User, 0, 2)
		for _, name := range []string{"Parent 1", "Parent 2"} {
			u := &userDatamodel.User{Name: name, IsActive: true}
			created, err := firstOrCreate(tx, u, "name = ? AND email IS NULL", name)
			if err != nil {
				return fmt.Errorf("seed user %s: %w", name, err)
			}
			report.Users += count(created)
			parents = append(parents, u)
		}

		email := adminEmail
		admin := &userDatamodel.User{Name: "Admin", Email: &email, HashedPassword: &hash, IsActive: true}
		created, err := firstOrCreate(tx, admin, "email = ?", adminEmail)
		if err != nil {
			return fmt.Errorf("seed admin user: %w", err)
		}
		report.Users += count(created)

		categories := map[string]int64{}
		for _, c := range seedCategories {
			row := c
			created, err := firstOrCreate(tx, &row, "name = ?", row.Name)
			if err != nil {
				return fmt.Errorf("seed category %s: %w", c.Name, err)
			}
			report.Categories += count(created)
			categories[row.Name] = row.ID
		}

		beneficiaries := map[string]int64{}
		for _, name := range seedBeneficiaries {
			row := beneficiaryDatamodel.Beneficiary{Name: name}
			created, err := firstOrCreate(tx, &row, "name = ?", name)
			if err != nil {
				return fmt.Errorf("seed beneficiary %s: %w", name, err)
			}
			report.Beneficiaries += count(created)
			beneficiaries[name] = row.ID
		}

		var existing int64
		if err := tx.Model(&transactionDatamodel.Transaction{}).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}

		day := 24 * time.Hour
		samples := []transactionDatamodel.Transaction{
			{Type: transaction.TypeExpense, Amount: decimal.RequireFromString("150.50"), Description: "Weekly grocery shopping",
				TransactionDate: opts.Now.Add(-2 * day), CategoryID: categories["Groceries"], BeneficiaryID: beneficiaries["Household"], CreatedByUserID: parents[0].ID},
			{Type: transaction.TypeExpense, Amount: decimal.RequireFromString("45.00"), Description: "Birthday gift for friend",
				TransactionDate: opts.Now.Add(-5 * day), CategoryID: categories["Gifts"], BeneficiaryID: beneficiaries["Child A"], CreatedByUserID: parents[0].ID},
			{Type: transaction.TypeIncome, Amount: decimal.RequireFromString("3500.00"), Description: "Monthly salary",
				TransactionDate: opts.Now.Add(-1 * day), CategoryID: categories["Salary"], BeneficiaryID: beneficiaries["Household"], CreatedByUserID: parents[0].ID},
			{Type: transaction.TypeIncome, Amount: decimal.RequireFromString("50.00"), Description: "Birthday money from grandparents",
				TransactionDate: opts.Now.Add(-10 * day), CategoryID: categories["Birthday Money"], BeneficiaryID: beneficiaries["Child B"], CreatedByUserID: parents[1].ID},
		}
		for i := range samples {
			samples[i].Tags = transactionDatamodel.StringList{}
		}
		if err := tx.Omit(clause.Associations).Create(&samples).Error; err != nil {
			return fmt.Errorf("seed transactions: %w", err)
		}
		report.Transactions = len(samples)
		return nil
	})
	return report, err
}

// firstOrCreate loads the row matching query into row, inserting row when
// nothing matches. It reports whether an insert happened.
func firstOrCreate[T any](tx *gorm.DB, row *T, query string, args ...interface{}) (bool, error) {
	res := tx.Where(query, args...).Limit(1).Find(row)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}
	return true, tx.Create(row).Error
}

func count(created bool) int {
	if created {
		return 1
	}
	return 0
}

// clearTables deletes every row, children first.
func clearTables(tx *gorm.DB) error {
	models := datamodel.Models()
	all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	for i := len(models) - 1; i >= 0; i-- {
		if err := all.Delete(models[i]).Error; err != nil {
			return fmt.Errorf("clear %T: %w", models[i], err)
		}
	}
	return nil
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "delete existing data before seeding")
	seedCmd.Flags().StringVar(&adminPassword, "admin-password", "ChangeMe123", "password for "+adminEmail)
}
