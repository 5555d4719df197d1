package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/walletpoll/internal/domain"
)

const (
	// DefaultNodeAddress is the node the wallet synchronizes against.
	DefaultNodeAddress = "172.104.249.212:8101"
	// DefaultEngineURL is where the wallet daemon listens.
	DefaultEngineURL = "http://127.0.0.1:10000"
)

// Config holds CLI configuration for walletpoll.
// It is fixed at startup.
type Config struct {
	NodeAddress string

	WalletName string
	Password   string
	OwnerSeed  string

	PollIntervalMillis int
	Overlap            string

	EngineURL   string
	HTTPTimeout time.Duration

	StatusFile  string
	MetricsAddr string
	LogLevel    string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		NodeAddress:        DefaultNodeAddress,
		WalletName:         "test",
		Password:           "123",
		OwnerSeed:          "000",
		PollIntervalMillis: 5000,
		Overlap:            domain.OverlapAllow.String(),
		EngineURL:          DefaultEngineURL,
		HTTPTimeout:        15 * time.Second,
		LogLevel:           "info",
	}
}

// Validate checks the configuration for errors and normalizes derived values.
func (c *Config) Validate() error {
	if _, err := domain.ParseEndpoint(c.NodeAddress); err != nil {
		return fmt.Errorf("node: %w", err)
	}
	if c.WalletName == "" {
		return fmt.Errorf("%w: wallet name is required", domain.ErrInvalidConfig)
	}
	if c.PollIntervalMillis <= 0 {
		return fmt.Errorf("%w: poll interval must be positive", domain.ErrInvalidConfig)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", domain.ErrInvalidConfig)
	}
	if _, err := domain.ParseOverlapPolicy(c.Overlap); err != nil {
		return err
	}

	if c.EngineURL == "" {
		c.EngineURL = DefaultEngineURL
	}
	c.EngineURL = strings.TrimRight(c.EngineURL, "/")

	return nil
}

// Endpoint returns the parsed node address.
func (c Config) Endpoint() (domain.NodeEndpoint, error) {
	return domain.ParseEndpoint(c.NodeAddress)
}

// Identity returns the wallet identity the client bootstraps with.
func (c Config) Identity() domain.WalletIdentity {
	return domain.WalletIdentity{Name: c.WalletName, Password: c.Password, OwnerSeed: c.OwnerSeed}
}

// PollConfig returns the polling parameters.
func (c Config) PollConfig() (domain.PollConfig, error) {
	overlap, err := domain.ParseOverlapPolicy(c.Overlap)
	if err != nil {
		return domain.PollConfig{}, err
	}
	pc := domain.PollConfigFromMillis(c.PollIntervalMillis)
	pc.Overlap = overlap
	return pc, nil
}

// Masked returns a copy safe to log.
func (c Config) Masked() Config {
	if c.Password != "" {
		c.Password = "*****"
	}
	if c.OwnerSeed != "" {
		c.OwnerSeed = "*****"
	}
	return c
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}
