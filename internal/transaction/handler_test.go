package transaction_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/budget-tracker/internal"
	"github.com/frahmantamala/budget-tracker/internal/testutil"
	"github.com/frahmantamala/budget-tracker/internal/transaction"
	"github.com/frahmantamala/budget-tracker/internal/transaction/repository"
	"github.com/frahmantamala/budget-tracker/internal/transport"
)

var _ = Describe("Transaction Handler Integration", func() {
	var (
		db     *gorm.DB
		router chi.Router
		fx     fixtures
	)

	BeforeEach(func() {
		var err error
		db, err = testutil.OpenDB()
		Expect(err).NotTo(HaveOccurred())
		fx = seed(db)

		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service := transaction.NewService(repository.NewTransactionRepository(db), slogger)
		handler := transaction.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(internal.ContextWithUserID(r.Context(), fx.user.ID)))
			})
		})
		router.Get("/transactions", handler.ListTransactions)
		router.Post("/transactions", handler.CreateTransaction)
		router.Get("/transactions/{transactionID}", handler.GetTransaction)
		router.Put("/transactions/{transactionID}", handler.UpdateTransaction)
		router.Delete("/transactions/{transactionID}", handler.DeleteTransaction)
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

	body := func(categoryID int64, amount, date string) string {
		return `{"type":"expense","amount":` + amount +
			`,"description":"Milk","transaction_date":"` + date +
			`","category_id":` + strconv.FormatInt(categoryID, 10) +
			`,"beneficiary_id":` + strconv.FormatInt(fx.household.ID, 10) + `}`
	}

	It("should create, fetch and delete a transaction", func() {
		w := do(http.MethodPost, "/transactions", body(fx.groceries.ID, "3.5", "2024-03-02"))
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &created)).To(Succeed())
		Expect(created["amount"]).To(BeNumerically("==", 3.5))
		Expect(created["created_by_user_id"]).To(BeNumerically("==", fx.user.ID))
		Expect(created["category"]).To(HaveKeyWithValue("name", "Groceries"))

		path := "/transactions/" + strconv.FormatInt(int64(created["id"].(float64)), 10)
		Expect(do(http.MethodGet, path, "").Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodDelete, path, "").Code).To(Equal(http.StatusNoContent))
		Expect(do(http.MethodGet, path, "").Code).To(Equal(http.StatusNotFound))
	})

	It("should answer 422 for a zero amount and 400 for a missing category", func() {
		Expect(do(http.MethodPost, "/transactions", body(fx.groceries.ID, "0", "2024-03-02")).Code).To(Equal(http.StatusUnprocessableEntity))

		w := do(http.MethodPost, "/transactions", body(999, "1", "2024-03-02"))
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("Category not found"))
	})

	It("should filter by a date-only range inclusive of the end day", func() {
		Expect(do(http.MethodPost, "/transactions", body(fx.groceries.ID, "1", "2024-03-31T22:00:00Z")).Code).To(Equal(http.StatusCreated))
		Expect(do(http.MethodPost, "/transactions", body(fx.groceries.ID, "2", "2024-04-01T00:00:00Z")).Code).To(Equal(http.StatusCreated))

		w := do(http.MethodGet, "/transactions?start_date=2024-03-01&end_date=2024-03-31", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var list []map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &list)).To(Succeed())
		Expect(list).To(HaveLen(1))
		Expect(list[0]["amount"]).To(BeNumerically("==", 1))
	})

	It("should reject bad query values", func() {
		Expect(do(http.MethodGet, "/transactions?transaction_type=gift", "").Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(do(http.MethodGet, "/transactions?limit=0", "").Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(do(http.MethodGet, "/transactions?start_date=yesterday", "").Code).To(Equal(http.StatusUnprocessableEntity))
	})
})
