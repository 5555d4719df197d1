package cliconfig

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// ApplyEnvConfig applies configuration from environment variables (WALLETPOLL_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("node", os.Getenv("WALLETPOLL_NODE_ADDRESS"), &cfg.NodeAddress)
	s.setString("wallet", os.Getenv("WALLETPOLL_WALLET_NAME"), &cfg.WalletName)
	s.setString("password", os.Getenv("WALLETPOLL_PASSWORD"), &cfg.Password)
	s.setString("owner-seed", os.Getenv("WALLETPOLL_OWNER_SEED"), &cfg.OwnerSeed)
	s.setString("overlap", os.Getenv("WALLETPOLL_OVERLAP"), &cfg.Overlap)
	s.setString("engine-url", os.Getenv("WALLETPOLL_ENGINE_URL"), &cfg.EngineURL)
	s.setString("status-file", os.Getenv("WALLETPOLL_STATUS_FILE"), &cfg.StatusFile)
	s.setString("metrics-addr", os.Getenv("WALLETPOLL_METRICS_ADDR"), &cfg.MetricsAddr)
	s.setString("log-level", os.Getenv("WALLETPOLL_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("poll-interval-ms", os.Getenv("WALLETPOLL_POLL_INTERVAL_MS"), &cfg.PollIntervalMillis); err != nil {
		return err
	}
	if err := s.setDuration("timeout", os.Getenv("WALLETPOLL_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	return nil
}

// LoadEnvFile adds the variables in a .env file to the process environment.
// Variables already set in the environment keep their values.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
