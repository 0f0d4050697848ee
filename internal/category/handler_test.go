package category_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/frahmantamala/budget-tracker/internal/category"
	categoryRepository "github.com/frahmantamala/budget-tracker/internal/category/repository"
	beneficiaryDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/beneficiary"
	transactionDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/transaction"
	userDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/budget-tracker/internal/testutil"
	"github.com/frahmantamala/budget-tracker/internal/transport"
)

var _ = Describe("Category Handler Integration", func() {
	var (
		db     *gorm.DB
		router chi.Router
	)

	BeforeEach(func() {
		var err error
		db, err = testutil.OpenDB()
		Expect(err).NotTo(HaveOccurred())

		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service := category.NewService(categoryRepository.NewCategoryRepository(db), slogger)
		handler := category.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		router.Get("/categories", handler.GetCategories)
		router.Post("/categories", handler.CreateCategory)
		router.Get("/categories/{categoryID}", handler.GetCategory)
		router.Put("/categories/{categoryID}", handler.UpdateCategory)
		router.Delete("/categories/{categoryID}", handler.DeleteCategory)
	})

	AfterEach(func() {
		testutil.CloseDB(db)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should create, list, update and delete", func() {
		w := do(http.MethodPost, "/categories", `{"name":"Groceries","type":"expense"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var created category.Category
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())

		w = do(http.MethodPost, "/categories", `{"name":"Allowance","type":"both"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		w = do(http.MethodGet, "/categories", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var list []category.Category
		Expect(json.NewDecoder(w.Body).Decode(&list)).To(Succeed())
		Expect(list).To(HaveLen(2))
		Expect(list[0].Name).To(Equal("Allowance"))

		w = do(http.MethodPut, "/categories/"+itoa(created.ID), `{"name":"Food"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"name":"Food"`))

		w = do(http.MethodDelete, "/categories/"+itoa(created.ID), "")
		Expect(w.Code).To(Equal(http.StatusNoContent))

		w = do(http.MethodGet, "/categories/"+itoa(created.ID), "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Body.String()).To(ContainSubstring("Category not found"))
	})

	It("should return 400 on duplicate names", func() {
		Expect(do(http.MethodPost, "/categories", `{"name":"Gifts","type":"expense"}`).Code).To(Equal(http.StatusCreated))

		w := do(http.MethodPost, "/categories", `{"name":"Gifts","type":"expense"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("Category with this name already exists"))
	})

	It("should return 422 for invalid payloads and ids", func() {
		Expect(do(http.MethodPost, "/categories", `{"name":"X","type":"nope"}`).Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(do(http.MethodGet, "/categories/abc", "").Code).To(Equal(http.StatusUnprocessableEntity))
	})

	It("should refuse to delete a category used by a transaction", func() {
		w := do(http.MethodPost, "/categories", `{"name":"School","type":"expense"}`)
		var created category.Category
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())

		ctx := context.Background()
		u := &userDatamodel.User{Name: "Parent 1", IsActive: true}
		Expect(db.WithContext(ctx).Create(u).Error).To(Succeed())
		b := &beneficiaryDatamodel.Beneficiary{Name: "Child A"}
		Expect(db.WithContext(ctx).Create(b).Error).To(Succeed())
		Expect(db.WithContext(ctx).Create(&transactionDatamodel.Transaction{
			Type:            "expense",
			Amount:          decimal.NewFromInt(12),
			Description:     "Books",
			TransactionDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			CategoryID:      created.ID,
			BeneficiaryID:   b.ID,
			CreatedByUserID: u.ID,
		}).Error).To(Succeed())

		w = do(http.MethodDelete, "/categories/"+itoa(created.ID), "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("Category is still referenced"))
	})
})

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
