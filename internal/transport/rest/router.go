package rest

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/budget-tracker/internal/aggregation"
	"github.com/frahmantamala/budget-tracker/internal/auth"
	"github.com/frahmantamala/budget-tracker/internal/beneficiary"
	"github.com/frahmantamala/budget-tracker/internal/category"
	"github.com/frahmantamala/budget-tracker/internal/gift"
	"github.com/frahmantamala/budget-tracker/internal/image"
	"github.com/frahmantamala/budget-tracker/internal/transaction"
	"github.com/frahmantamala/budget-tracker/internal/transport/middleware"
	"github.com/frahmantamala/budget-tracker/internal/transport/swagger"
	"github.com/frahmantamala/budget-tracker/internal/user"
)

const DefaultAPIPrefix = "/api"

// Handlers groups everything the router mounts. A nil handler leaves its
// routes unregistered.
type Handlers struct {
	Auth        *auth.Handler
	User        *user.Handler
	Category    *category.Handler
	Beneficiary *beneficiary.Handler
	Transaction *transaction.Handler
	Aggregation *aggregation.Handler
	Gift        *gift.Handler
	Image       *image.Handler
}

type RouterConfig struct {
	APIPrefix       string
	RequestTimeout  time.Duration
	OpenAPI         []byte // served at /openapi.yml when set
	DB              *sql.DB
	DBDriver        string
	AuthRateLimiter *middleware.RateLimiter // guards the public auth endpoints when set
}

func RegisterAllRoutes(router *chi.Mux, cfg RouterConfig, h Handlers, logger *slog.Logger) {
	prefix := cfg.APIPrefix
	if prefix == "" {
		prefix = DefaultAPIPrefix
	}
	healthHandler := NewHealthHandler(cfg.DB, cfg.DBDriver)

	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	if cfg.RequestTimeout > 0 {
		router.Use(chiMiddleware.Timeout(cfg.RequestTimeout))
	}

	if len(cfg.OpenAPI) > 0 {
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write(cfg.OpenAPI)
		})
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route(prefix, func(r chi.Router) {
		r.Get("/ping", healthHandler.pingHandler)
		r.Get("/health", healthHandler.healthCheckHandler)

		if h.Image != nil {
			r.Get("/images/{filename}", h.Image.GetImage)
		}

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(ar chi.Router) {
			ar.Group(func(pub chi.Router) {
				if cfg.AuthRateLimiter != nil {
					pub.Use(cfg.AuthRateLimiter.Middleware)
				}
				pub.Post("/register", h.Auth.Register)
				pub.Post("/login", h.Auth.Login)
				pub.Post("/forgot-password", h.Auth.ForgotPassword)
				pub.Post("/reset-password", h.Auth.ResetPassword)
			})

			ar.Group(func(pr chi.Router) {
				pr.Use(h.Auth.AuthMiddleware)
				pr.Get("/me", h.Auth.Me)
				pr.Post("/logout", h.Auth.Logout)
			})
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.User != nil {
				pr.Route("/users", func(ur chi.Router) {
					ur.Get("/", h.User.ListUsers)
					ur.Post("/", h.User.CreateUser)
					ur.Get("/{userID}", h.User.GetUser)
					ur.Put("/{userID}", h.User.UpdateUser)
					ur.Delete("/{userID}", h.User.DeleteUser)
				})
			}

			if h.Category != nil {
				pr.Route("/categories", func(cr chi.Router) {
					cr.Get("/", h.Category.GetCategories)
					cr.Post("/", h.Category.CreateCategory)
					cr.Get("/{categoryID}", h.Category.GetCategory)
					cr.Put("/{categoryID}", h.Category.UpdateCategory)
					cr.Delete("/{categoryID}", h.Category.DeleteCategory)
				})
			}

			if h.Beneficiary != nil {
				pr.Route("/beneficiaries", func(br chi.Router) {
					br.Get("/", h.Beneficiary.GetBeneficiaries)
					br.Post("/", h.Beneficiary.CreateBeneficiary)
					br.Get("/{beneficiaryID}", h.Beneficiary.GetBeneficiary)
					br.Put("/{beneficiaryID}", h.Beneficiary.UpdateBeneficiary)
					br.Delete("/{beneficiaryID}", h.Beneficiary.DeleteBeneficiary)
				})
			}

			if h.Transaction != nil {
				pr.Route("/transactions", func(tr chi.Router) {
					tr.Get("/", h.Transaction.ListTransactions)
					tr.Post("/", h.Transaction.CreateTransaction)
					tr.Get("/{transactionID}", h.Transaction.GetTransaction)
					tr.Put("/{transactionID}", h.Transaction.UpdateTransaction)
					tr.Delete("/{transactionID}", h.Transaction.DeleteTransaction)
				})
			}

			if h.Aggregation != nil {
				pr.Get("/aggregations/summary", h.Aggregation.GetSummary)
			}

			if h.Gift != nil {
				pr.Route("/gift-occasions", func(gr chi.Router) {
					gr.Get("/", h.Gift.ListOccasions)
					gr.Post("/", h.Gift.CreateOccasion)

					gr.Put("/entries/{entryID}", h.Gift.UpdateEntry)
					gr.Delete("/entries/{entryID}", h.Gift.DeleteEntry)
					gr.Put("/purchases/{purchaseID}", h.Gift.UpdatePurchase)
					gr.Delete("/purchases/{purchaseID}", h.Gift.DeletePurchase)

					gr.Route("/{occasionID}", func(or chi.Router) {
						or.Get("/", h.Gift.GetOccasion)
						or.Put("/", h.Gift.UpdateOccasion)
						or.Delete("/", h.Gift.DeleteOccasion)
						or.Get("/summary", h.Gift.GetOccasionSummary)
						or.Get("/entries", h.Gift.ListEntries)
						or.Post("/entries", h.Gift.CreateEntry)
						or.Get("/purchases", h.Gift.ListPurchases)
						or.Post("/purchases", h.Gift.CreatePurchase)
					})
				})
			}

			if h.Image != nil {
				pr.Post("/images/upload", h.Image.UploadImage)
			}
		})
	})
}
