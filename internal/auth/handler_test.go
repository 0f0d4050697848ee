package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/budget-tracker/internal"
)

var _ = ginkgo.Describe("Handler", func() {
	var (
		mockRepo *mockRepository
		handler  *Handler
		bypass   DevBypass
		protect  http.Handler
	)

	build := func() {
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		svc := NewService(mockRepo,
			NewJWTTokenGenerator("handler-secret-handler-secret-xx", time.Hour),
			nil,
			Options{BCryptCost: bcrypt.MinCost, ExposeResetToken: true},
			lg)
		handler = NewHandler(svc, bypass, lg)
		protect = handler.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, _ := internal.UserIDFromContext(r.Context())
			handler.WriteJSON(w, http.StatusOK, map[string]int64{"user_id": id})
		}))
	}

	ginkgo.BeforeEach(func() {
		mockRepo = newMockRepository()
		bypass = DevBypass{}
		build()
	})

	post := func(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h(rec, req)
		return rec
	}

	detail := func(rec *httptest.ResponseRecorder) string {
		var body map[string]interface{}
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
		d, _ := body["detail"].(string)
		return d
	}

	ginkgo.It("registers, logs in, reads /me and logs out", func() {
		rec := post(handler.Register, `{"name":"Parent","email":"parent@example.com","password":"Secret123"}`)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusCreated))
		gomega.Expect(rec.Body.String()).ToNot(gomega.ContainSubstring("password"))

		rec = post(handler.Login, `{"email":"parent@example.com","password":"Secret123"}`)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		var tokens TokenResponse
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &tokens)).To(gomega.Succeed())

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
		rec = httptest.NewRecorder()
		handler.AuthMiddleware(http.HandlerFunc(handler.Me)).ServeHTTP(rec, req)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"email":"parent@example.com"`))

		req = httptest.NewRequest(http.MethodPost, "/logout", nil)
		req.Header.Set("Authorization", "bearer "+tokens.AccessToken)
		rec = httptest.NewRecorder()
		handler.Logout(rec, req)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(detail(rec)).To(gomega.BeEmpty())

		req = httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
		rec = httptest.NewRecorder()
		protect.ServeHTTP(rec, req)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.It("returns 422 for malformed JSON", func() {
		rec := post(handler.Login, `{"email":`)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnprocessableEntity))
	})

	ginkgo.It("returns 401 with a detail for bad credentials", func() {
		rec := post(handler.Login, `{"email":"x@example.com","password":"Secret123"}`)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(detail(rec)).To(gomega.Equal("Incorrect email or password"))
	})

	ginkgo.It("rejects requests without a bearer token", func() {
		rec := httptest.NewRecorder()
		protect.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(detail(rec)).To(gomega.Equal("Could not validate credentials"))
	})

	ginkgo.It("ignores the bypass header when bypass is disabled", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(DefaultDevBypassHeader, "1")
		rec := httptest.NewRecorder()
		protect.ServeHTTP(rec, req)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.Context("with the dev bypass enabled", func() {
		ginkgo.BeforeEach(func() {
			bypass = DevBypass{Enabled: true}
			build()
		})

		ginkgo.It("serves the request as the first user", func() {
			first := mockRepo.addUser("Parent 1", "p1@example.com", "Secret123", true)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(DefaultDevBypassHeader, "1")
			rec := httptest.NewRecorder()
			protect.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			var body map[string]int64
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
			gomega.Expect(body["user_id"]).To(gomega.Equal(first.ID))
		})

		ginkgo.It("requires the header value to be 1", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(DefaultDevBypassHeader, "true")
			rec := httptest.NewRecorder()
			protect.ServeHTTP(rec, req)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})

	ginkgo.It("exposes the current user through the context helpers", func() {
		ctx := ContextWithUser(context.Background(), &User{ID: 7})
		u, ok := UserFromContext(ctx)
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(u.ID).To(gomega.Equal(int64(7)))
	})
})
