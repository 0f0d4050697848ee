package gift_test

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
	beneficiaryDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/beneficiary"
	userDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/budget-tracker/internal/gift"
	"github.com/frahmantamala/budget-tracker/internal/gift/repository"
	"github.com/frahmantamala/budget-tracker/internal/testutil"
	"github.com/frahmantamala/budget-tracker/internal/transport"
)

var _ = Describe("Gift Handler Integration", func() {
	var (
		db       *gorm.DB
		router   chi.Router
		personID string
	)

	BeforeEach(func() {
		var err error
		db, err = testutil.OpenDB()
		Expect(err).NotTo(HaveOccurred())

		u := &userDatamodel.User{Name: "Parent 1", IsActive: true}
		p := &beneficiaryDatamodel.Beneficiary{Name: "Uncle"}
		Expect(db.Create(u).Error).To(Succeed())
		Expect(db.Create(p).Error).To(Succeed())
		personID = strconv.FormatInt(p.ID, 10)

		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		handler := gift.NewHandler(transport.NewBaseHandler(slogger), gift.NewService(repository.NewGiftRepository(db), slogger))

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(internal.ContextWithUserID(r.Context(), u.ID)))
			})
		})
		router.Route("/gift-occasions", func(r chi.Router) {
			r.Get("/", handler.ListOccasions)
			r.Post("/", handler.CreateOccasion)
			r.Put("/entries/{entryID}", handler.UpdateEntry)
			r.Delete("/entries/{entryID}", handler.DeleteEntry)
			r.Put("/purchases/{purchaseID}", handler.UpdatePurchase)
			r.Delete("/purchases/{purchaseID}", handler.DeletePurchase)
			r.Get("/{occasionID}", handler.GetOccasion)
			r.Put("/{occasionID}", handler.UpdateOccasion)
			r.Delete("/{occasionID}", handler.DeleteOccasion)
			r.Get("/{occasionID}/summary", handler.GetOccasionSummary)
			r.Get("/{occasionID}/entries", handler.ListEntries)
			r.Post("/{occasionID}/entries", handler.CreateEntry)
			r.Get("/{occasionID}/purchases", handler.ListPurchases)
			r.Post("/{occasionID}/purchases", handler.CreatePurchase)
		})
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

	decode := func(w *httptest.ResponseRecorder) map[string]interface{} {
		var out map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &out)).To(Succeed())
		return out
	}

	It("should run an occasion through its lifecycle", func() {
		w := do(http.MethodPost, "/gift-occasions/", `{"name":"Graduation","occasion_type":"celebration","occasion_date":"2024-06-20"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		occasion := decode(w)
		Expect(occasion["occasion_date"]).To(Equal("2024-06-20"))
		base := "/gift-occasions/" + strconv.FormatInt(int64(occasion["id"].(float64)), 10)

		w = do(http.MethodPost, base+"/entries", `{"direction":"received","person_id":`+personID+`,"amount":50,"gift_date":"2024-06-20"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		entry := decode(w)
		Expect(entry["person"]).To(HaveKeyWithValue("name", "Uncle"))

		w = do(http.MethodPost, base+"/purchases", `{"amount":30,"purchase_date":"2024-06-21","description":"Watch"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		w = do(http.MethodGet, base+"/summary", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		summary := decode(w)
		Expect(summary["balance"]).To(BeNumerically("==", 20))
		Expect(summary["entry_count"]).To(BeNumerically("==", 1))

		w = do(http.MethodGet, base, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["gift_entries"]).To(HaveLen(1))

		entryPath := "/gift-occasions/entries/" + strconv.FormatInt(int64(entry["id"].(float64)), 10)
		w = do(http.MethodPut, entryPath, `{"amount":75}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["amount"]).To(BeNumerically("==", 75))

		Expect(do(http.MethodDelete, base, "").Code).To(Equal(http.StatusNoContent))
		Expect(do(http.MethodDelete, entryPath, "").Code).To(Equal(http.StatusNotFound))
	})

	It("should return the not found messages", func() {
		w := do(http.MethodGet, "/gift-occasions/999", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(decode(w)["detail"]).To(Equal("Gift occasion not found"))

		w = do(http.MethodPut, "/gift-occasions/purchases/999", `{}`)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(decode(w)["detail"]).To(Equal("Gift purchase not found"))
	})

	It("should reject an entry for an unknown person with 400", func() {
		w := do(http.MethodPost, "/gift-occasions/", `{"name":"Wedding"}`)
		base := "/gift-occasions/" + strconv.FormatInt(int64(decode(w)["id"].(float64)), 10)

		w = do(http.MethodPost, base+"/entries", `{"direction":"given","person_id":999,"amount":10,"gift_date":"2024-01-01"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should validate pagination", func() {
		Expect(do(http.MethodGet, "/gift-occasions/?limit=1001", "").Code).To(Equal(http.StatusUnprocessableEntity))
		w := do(http.MethodGet, "/gift-occasions/", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(Equal("[]\n"))
	})
})
