package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/frahmantamala/budget-tracker/internal"
	"github.com/frahmantamala/budget-tracker/pkg/logger"
)

const envPrefix = "BUDGET"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "budget-tracker",
	Short: "Household budget tracker",
	Long:  `Tracks household income, expenses and gift money behind a REST API.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "budget-tracker")
	v.SetDefault("app.env", "development")

	v.SetDefault("http_server.port", 8000)
	v.SetDefault("http_server.api_prefix", "/api")
	v.SetDefault("http_server.read_header_timeout", 5*time.Second)
	v.SetDefault("http_server.read_timeout", 15*time.Second)
	v.SetDefault("http_server.write_timeout", 30*time.Second)
	v.SetDefault("http_server.idle_timeout", 60*time.Second)
	v.SetDefault("http_server.shutdown_timeout", 30*time.Second)

	v.SetDefault("database.driver", internal.DriverSQLite)
	v.SetDefault("database.source", "budget.db?_foreign_keys=on")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.conn_max_idle_time", 5*time.Minute)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("security.jwt_secret", "")
	v.SetDefault("security.access_token_duration", 30*time.Minute)
	v.SetDefault("security.reset_token_duration", time.Hour)
	v.SetDefault("security.bcrypt_cost", 12)
	v.SetDefault("security.expose_reset_token", false)
	v.SetDefault("security.dev_auth_bypass", false)
	v.SetDefault("security.dev_bypass_header", "X-DEV-AUTH")
	v.SetDefault("security.dev_bypass_user_email", "")
	v.SetDefault("security.auth_rate_limit", 5)
	v.SetDefault("security.auth_rate_burst", 10)

	v.SetDefault("storage.upload_dir", "uploads")
	v.SetDefault("storage.max_upload_size", 10<<20)

	v.SetDefault("worker.blocklist_cleanup_interval", time.Hour)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// loadConfig layers defaults, config.yml, .env and BUDGET_* variables.
func loadConfig(path string) (*internal.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(path)
	v.AddConfigPath("./config")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	return &cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "directory holding config.yml")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(workerCmd)
}
