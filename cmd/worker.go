package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/frahmantamala/budget-tracker/internal/auth"
	authRepo "github.com/frahmantamala/budget-tracker/internal/auth/repository"
	"github.com/frahmantamala/budget-tracker/pkg/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Background maintenance that runs outside the HTTP server process.`,
}

var blocklistCleanupCmd = &cobra.Command{
	Use:   "blocklist-cleanup",
	Short: "Purge expired blocklisted tokens and stale reset tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		return startBlocklistCleanup(cmd.Context())
	},
}

var (
	cleanupInterval time.Duration
	cleanupOnce     bool
)

type purger interface {
	PurgeExpired(ctx context.Context) (auth.PurgeResult, error)
}

func startBlocklistCleanup(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	svc := auth.NewService(authRepo.NewAuthRepository(gdb), nil, nil, auth.Options{}, lg)

	interval := cleanupInterval
	if interval <= 0 {
		interval = cfg.Worker.BlocklistCleanupInterval
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runCleanup(gctx, svc, interval, cleanupOnce, lg)
	})
	return g.Wait()
}

// runCleanup purges once, then every interval until ctx is done. A failed
// pass is logged and retried on the next tick.
func runCleanup(ctx context.Context, p purger, interval time.Duration, once bool, lg *slog.Logger) error {
	purge := func() error {
		res, err := p.PurgeExpired(ctx)
		if err != nil {
			lg.Error("blocklist cleanup failed", "error", err)
			return err
		}
		lg.Info("blocklist cleanup finished",
			"blocklist_removed", res.BlocklistRemoved,
			"reset_tokens_removed", res.ResetTokensRemoved)
		return nil
	}

	if err := purge(); once {
		return err
	}

	lg.Info("blocklist cleanup worker running", "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			lg.Info("blocklist cleanup worker stopped")
			return nil
		case <-ticker.C:
			_ = purge()
		}
	}
}

func init() {
	blocklistCleanupCmd.Flags().DurationVar(&cleanupInterval, "interval", 0, "time between passes (overrides worker.blocklist_cleanup_interval)")
	blocklistCleanupCmd.Flags().BoolVar(&cleanupOnce, "once", false, "run a single pass and exit")

	workerCmd.AddCommand(blocklistCleanupCmd)
}
