package middleware

import (
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RateLimiter", func() {
	var (
		rl      *RateLimiter
		clock   time.Time
		handler http.Handler
	)

	BeforeEach(func() {
		clock = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		rl = NewRateLimiter(1, 2, time.Minute)
		rl.now = func() time.Time { return clock }
		handler = rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
	})

	hit := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	It("allows a burst then answers 429", func() {
		Expect(hit("10.0.0.1:1111").Code).To(Equal(http.StatusNoContent))
		Expect(hit("10.0.0.1:2222").Code).To(Equal(http.StatusNoContent))

		rec := hit("10.0.0.1:3333")
		Expect(rec.Code).To(Equal(http.StatusTooManyRequests))
		Expect(rec.Body.String()).To(ContainSubstring(`"detail":"Too many requests"`))
		Expect(rec.Header().Get("Retry-After")).To(Equal("1"))
	})

	It("tracks clients separately", func() {
		hit("10.0.0.1:1")
		hit("10.0.0.1:1")
		Expect(hit("10.0.0.2:1").Code).To(Equal(http.StatusNoContent))
	})

	It("refills over time and forgets idle clients", func() {
		hit("10.0.0.1:1")
		hit("10.0.0.1:1")
		clock = clock.Add(time.Second)
		Expect(hit("10.0.0.1:1").Code).To(Equal(http.StatusNoContent))

		clock = clock.Add(2 * time.Minute)
		hit("10.0.0.3:1")
		Expect(rl.visitors).NotTo(HaveKey("10.0.0.1"))
	})
})
