package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	NodeAddress        string `toml:"node_address"`
	WalletName         string `toml:"wallet_name"`
	Password           string `toml:"password"`
	OwnerSeed          string `toml:"owner_seed"`
	PollIntervalMillis int    `toml:"poll_interval_ms"`
	Overlap            string `toml:"overlap"`
	EngineURL          string `toml:"engine_url"`
	HTTPTimeout        string `toml:"http_timeout"`
	StatusFile         string `toml:"status_file"`
	MetricsAddr        string `toml:"metrics_addr"`
	LogLevel           string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.walletpoll/config.toml, or "" if there is no home directory.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".walletpoll", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("node", fc.NodeAddress, &cfg.NodeAddress)
	s.setString("wallet", fc.WalletName, &cfg.WalletName)
	s.setString("password", fc.Password, &cfg.Password)
	s.setString("owner-seed", fc.OwnerSeed, &cfg.OwnerSeed)
	s.setString("overlap", fc.Overlap, &cfg.Overlap)
	s.setString("engine-url", fc.EngineURL, &cfg.EngineURL)
	s.setString("status-file", fc.StatusFile, &cfg.StatusFile)
	s.setString("metrics-addr", fc.MetricsAddr, &cfg.MetricsAddr)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("poll-interval-ms", fc.PollIntervalMillis, &cfg.PollIntervalMillis)

	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}
	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
