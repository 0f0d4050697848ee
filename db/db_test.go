package db_test

import (
	"context"
	"database/sql"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/budget-tracker/db"
)

func TestDB(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Migrations Suite")
}

var _ = Describe("Run", func() {
	var sqlDB *sql.DB

	BeforeEach(func() {
		gdb, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err = gdb.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
	})

	AfterEach(func() {
		_ = sqlDB.Close()
	})

	tableCount := func() int {
		var n int
		Expect(sqlDB.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name IN
			('users','categories','beneficiaries','transactions','gift_occasions','gift_entries','gift_purchases','password_reset_tokens','token_blocklist')`,
		).Scan(&n)).To(Succeed())
		return n
	}

	It("creates and drops the schema from the embedded sqlite migrations", func() {
		ctx := context.Background()
		Expect(db.Run(ctx, sqlDB, "sqlite", "up", "")).To(Succeed())
		Expect(tableCount()).To(Equal(9))

		Expect(db.Run(ctx, sqlDB, "sqlite", "up", "")).To(Succeed())

		Expect(db.Run(ctx, sqlDB, "sqlite", "down", "")).To(Succeed())
		Expect(tableCount()).To(Equal(0))
	})

	It("maps drivers to database/sql names", func() {
		Expect(db.DriverName("postgres")).To(Equal("pgx"))
		Expect(db.DriverName("sqlite")).To(Equal("sqlite3"))
		Expect(db.Dir("postgres")).To(Equal("migrations/postgres"))
	})
})
