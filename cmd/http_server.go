package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/budget-tracker/api"
	"github.com/frahmantamala/budget-tracker/db"
	"github.com/frahmantamala/budget-tracker/internal"
	"github.com/frahmantamala/budget-tracker/internal/aggregation"
	aggregationRepo "github.com/frahmantamala/budget-tracker/internal/aggregation/repository"
	"github.com/frahmantamala/budget-tracker/internal/auth"
	authRepo "github.com/frahmantamala/budget-tracker/internal/auth/repository"
	"github.com/frahmantamala/budget-tracker/internal/beneficiary"
	beneficiaryRepo "github.com/frahmantamala/budget-tracker/internal/beneficiary/repository"
	"github.com/frahmantamala/budget-tracker/internal/category"
	categoryRepo "github.com/frahmantamala/budget-tracker/internal/category/repository"
	"github.com/frahmantamala/budget-tracker/internal/core/events"
	"github.com/frahmantamala/budget-tracker/internal/gift"
	giftRepo "github.com/frahmantamala/budget-tracker/internal/gift/repository"
	"github.com/frahmantamala/budget-tracker/internal/image"
	"github.com/frahmantamala/budget-tracker/internal/transaction"
	transactionRepo "github.com/frahmantamala/budget-tracker/internal/transaction/repository"
	"github.com/frahmantamala/budget-tracker/internal/transport"
	"github.com/frahmantamala/budget-tracker/internal/transport/middleware"
	"github.com/frahmantamala/budget-tracker/internal/transport/rest"
	"github.com/frahmantamala/budget-tracker/internal/user"
	userRepo "github.com/frahmantamala/budget-tracker/internal/user/repository"
	"github.com/frahmantamala/budget-tracker/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer(cmd.Context())
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *gorm.DB
	Router   *chi.Mux
	EventBus *events.EventBus
	Logger   *slog.Logger
}

func startHTTPServer(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := initializeDependencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer closeDB(deps.DB, deps.Logger)

	cfg := deps.Config.Server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           deps.Router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Logger.Info("starting HTTP server", "address", server.Addr, "driver", deps.Config.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		deps.Logger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := deps.EventBus.Drain(shutdownCtx); err != nil {
			deps.Logger.Warn("event handlers still running at shutdown", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		deps.Logger.Error("server stopped with error", "error", err)
		return err
	}
	deps.Logger.Info("server stopped")
	return nil
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	lg := logger.LoggerWrapper()

	gdb, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := db.Run(ctx, sqlDB, cfg.Database.Driver, "up", ""); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}

	doc, err := api.Load(ctx)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	lg.Debug("openapi document loaded", "paths", doc.Paths.Len())

	bus := events.NewEventBus(lg)
	events.SubscribeAudit(bus, lg)

	base := transport.NewBaseHandler(lg)

	authService := auth.NewService(
		authRepo.NewAuthRepository(gdb),
		auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration),
		bus,
		auth.Options{
			ResetTokenTTL:      cfg.Security.ResetTokenDuration,
			BCryptCost:         cfg.Security.BCryptCost,
			ExposeResetToken:   cfg.Security.ExposeResetToken,
			DevBypassUserEmail: cfg.Security.DevBypassUserEmail,
		},
		lg,
	)
	if cfg.Security.DevAuthBypass {
		if cfg.IsProduction() {
			_ = sqlDB.Close()
			return nil, errors.New("dev_auth_bypass cannot be enabled in production")
		}
		lg.Warn("development auth bypass is enabled", "header", cfg.Security.DevBypassHeader)
	}
	authHandler := auth.NewHandler(authService, auth.DevBypass{
		Enabled: cfg.Security.DevAuthBypass,
		Header:  cfg.Security.DevBypassHeader,
	}, lg)

	aggRepo, err := aggregationRepo.NewAggregationRepositoryFromGorm(gdb)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	store, err := image.NewStore(cfg.Storage.UploadDir, cfg.Storage.MaxUploadSize, cfg.Server.APIPrefix+"/images", lg)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	var limiter *middleware.RateLimiter
	if cfg.Security.AuthRateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.Security.AuthRateLimit, cfg.Security.AuthRateBurst, 0)
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.RouterConfig{
		APIPrefix:       cfg.Server.APIPrefix,
		AuthRateLimiter: limiter,
		RequestTimeout:  cfg.Server.WriteTimeout,
		OpenAPI:         api.Spec,
		DB:              sqlDB,
		DBDriver:        cfg.Database.Driver,
	}, rest.Handlers{
		Auth:        authHandler,
		User:        user.NewHandler(base, user.NewService(userRepo.NewUserRepository(gdb), lg)),
		Category:    category.NewHandler(base, category.NewService(categoryRepo.NewCategoryRepository(gdb), lg)),
		Beneficiary: beneficiary.NewHandler(base, beneficiary.NewService(beneficiaryRepo.NewBeneficiaryRepository(gdb), lg)),
		Transaction: transaction.NewHandler(base, transaction.NewService(transactionRepo.NewTransactionRepository(gdb), lg)),
		Aggregation: aggregation.NewHandler(base, aggregation.NewService(aggRepo, lg)),
		Gift:        gift.NewHandler(base, gift.NewService(giftRepo.NewGiftRepository(gdb), lg)),
		Image:       image.NewHandler(base, store),
	}, lg)

	return &Dependencies{
		Config:   cfg,
		DB:       gdb,
		Router:   router,
		EventBus: bus,
		Logger:   lg,
	}, nil
}

// initDB opens the configured store through gorm and applies pool settings.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case internal.DriverPostgres:
		dialector = postgres.Open(cfg.GetDSN())
	case internal.DriverSQLite:
		dialector = sqlite.Open(cfg.GetDSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	if cfg.Driver == internal.DriverSQLite {
		// sqlite serializes writers; one connection avoids SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return gdb, nil
}

func closeDB(gdb *gorm.DB, lg *slog.Logger) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		lg.Error("database close error", "error", err)
	}
}

