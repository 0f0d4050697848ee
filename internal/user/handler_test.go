package user_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	beneficiaryDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/beneficiary"
	categoryDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/category"
	transactionDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/transaction"
	userDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/budget-tracker/internal/testutil"
	"github.com/frahmantamala/budget-tracker/internal/transport"
	"github.com/frahmantamala/budget-tracker/internal/user"
	"github.com/frahmantamala/budget-tracker/internal/user/repository"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

var _ = Describe("User Handler", func() {
	var (
		db     *gorm.DB
		router chi.Router
	)

	BeforeEach(func() {
		var err error
		db, err = testutil.OpenDB()
		Expect(err).NotTo(HaveOccurred())

		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		handler := user.NewHandler(transport.NewBaseHandler(lg), user.NewService(repository.NewUserRepository(db), lg))

		router = chi.NewRouter()
		router.Route("/users", func(r chi.Router) {
			r.Get("/", handler.ListUsers)
			r.Post("/", handler.CreateUser)
			r.Get("/{userID}", handler.GetUser)
			r.Put("/{userID}", handler.UpdateUser)
			r.Delete("/{userID}", handler.DeleteUser)
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

	create := func(name string) user.User {
		w := do(http.MethodPost, "/users/", `{"name":"`+name+`"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		var u user.User
		Expect(json.Unmarshal(w.Body.Bytes(), &u)).To(Succeed())
		return u
	}

	It("should create name-only users that are active", func() {
		u := create("Parent 2")
		Expect(u.Email).To(BeNil())
		Expect(u.IsActive).To(BeTrue())
		Expect(u.CreatedAt).NotTo(BeZero())
	})

	It("should list users by name", func() {
		create("Parent 2")
		create("Parent 1")

		w := do(http.MethodGet, "/users/", "")
		var list []user.User
		Expect(json.Unmarshal(w.Body.Bytes(), &list)).To(Succeed())
		Expect(list).To(HaveLen(2))
		Expect(list[0].Name).To(Equal("Parent 1"))
	})

	It("should update email and deactivate", func() {
		u := create("Parent 1")

		w := do(http.MethodPut, "/users/"+strconv.FormatInt(u.ID, 10), `{"email":"P1@Example.com","is_active":false}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		var updated user.User
		Expect(json.Unmarshal(w.Body.Bytes(), &updated)).To(Succeed())
		Expect(*updated.Email).To(Equal("p1@example.com"))
		Expect(updated.IsActive).To(BeFalse())
		Expect(updated.Name).To(Equal("Parent 1"))

		var row userDatamodel.User
		Expect(db.First(&row, u.ID).Error).To(Succeed())
		Expect(row.IsActive).To(BeFalse())
	})

	It("should reject an email owned by another user", func() {
		a := create("A")
		b := create("B")
		Expect(do(http.MethodPut, "/users/"+strconv.FormatInt(a.ID, 10), `{"email":"a@example.com"}`).Code).To(Equal(http.StatusOK))

		w := do(http.MethodPut, "/users/"+strconv.FormatInt(b.ID, 10), `{"email":"a@example.com"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should 404 for unknown users", func() {
		w := do(http.MethodGet, "/users/99", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Body.String()).To(ContainSubstring("User not found"))
	})

	It("should refuse to delete a user who recorded transactions", func() {
		u := create("Parent 1")
		c := &categoryDatamodel.Category{Name: "Groceries", Type: "expense"}
		b := &beneficiaryDatamodel.Beneficiary{Name: "Household"}
		Expect(db.Create(c).Error).To(Succeed())
		Expect(db.Create(b).Error).To(Succeed())
		Expect(db.Create(&transactionDatamodel.Transaction{
			Type: "expense", Amount: decimal.NewFromInt(5), Description: "Milk",
			TransactionDate: time.Now().UTC(), CategoryID: c.ID, BeneficiaryID: b.ID, CreatedByUserID: u.ID,
		}).Error).To(Succeed())

		w := do(http.MethodDelete, "/users/"+strconv.FormatInt(u.ID, 10), "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		other := create("Parent 2")
		w = do(http.MethodDelete, "/users/"+strconv.FormatInt(other.ID, 10), "")
		Expect(w.Code).To(Equal(http.StatusNoContent))
	})
})
