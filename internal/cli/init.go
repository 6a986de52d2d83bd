// Package cli consolidates the initialization steps shared by
// cmd/churchfinance and cmd/finance-worker.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/chungddong/ChurchFinance/internal/config"
	"github.com/chungddong/ChurchFinance/internal/log"
	"github.com/chungddong/ChurchFinance/internal/settings"
	"github.com/chungddong/ChurchFinance/internal/store"
)

// LoadEnvFile loads the .env file for local development. Errors are
// ignored; production configures through real environment variables.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the root logger from the configured level and
// installs it as the process default.
func SetupLogger(cfg *config.Config, component string) *log.Logger {
	logger := log.New(log.ParseLevel(cfg.LogLevel), component)
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and exits the process on
// validation failure, printing every problem.
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		// The logger is not configured yet at this point.
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	return cfg
}

// OpenStore opens the record store or exits the process.
func OpenStore(cfg *config.Config, logger *log.Logger) *store.Store {
	st, err := store.Open(cfg.DataDir, logger)
	if err != nil {
		logger.Error("Failed to open record store", "error", err, "dir", cfg.DataDir)
		os.Exit(1)
	}
	return st
}

// OpenSettings opens the settings document or exits the process.
func OpenSettings(cfg *config.Config, logger *log.Logger) *settings.Store {
	set, err := settings.Open(cfg.SettingsPath(), logger)
	if err != nil {
		logger.Error("Failed to open settings", "error", err, "path", cfg.SettingsPath())
		os.Exit(1)
	}
	return set
}
