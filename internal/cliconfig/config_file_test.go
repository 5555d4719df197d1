package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	tests := []struct {
		name     string
		fc       FileConfig
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all fields",
			fc: FileConfig{
				NodeAddress:        "10.0.0.1:8101",
				WalletName:         "savings",
				Password:           "secret",
				OwnerSeed:          "seed",
				PollIntervalMillis: 2500,
				Overlap:            "drop",
				EngineURL:          "http://daemon:1",
				HTTPTimeout:        "3s",
				StatusFile:         "/tmp/status.json",
				MetricsAddr:        ":9100",
				LogLevel:           "debug",
			},
			changed: map[string]bool{},
			expected: Config{
				NodeAddress:        "10.0.0.1:8101",
				WalletName:         "savings",
				Password:           "secret",
				OwnerSeed:          "seed",
				PollIntervalMillis: 2500,
				Overlap:            "drop",
				EngineURL:          "http://daemon:1",
				HTTPTimeout:        3 * time.Second,
				StatusFile:         "/tmp/status.json",
				MetricsAddr:        ":9100",
				LogLevel:           "debug",
			},
		},
		{
			name:     "respects changed flags",
			fc:       FileConfig{WalletName: "file", PollIntervalMillis: 100},
			changed:  map[string]bool{"wallet": true, "poll-interval-ms": true},
			initial:  Config{WalletName: "flag", PollIntervalMillis: 7},
			expected: Config{WalletName: "flag", PollIntervalMillis: 7},
		},
		{
			name:     "empty values keep existing",
			fc:       FileConfig{},
			changed:  map[string]bool{},
			initial:  Config{WalletName: "test", PollIntervalMillis: 5000},
			expected: Config{WalletName: "test", PollIntervalMillis: 5000},
		},
		{
			name:    "invalid duration",
			fc:      FileConfig{HTTPTimeout: "soon"},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fc, tt.changed)
			if tt.wantErr {
				if err == nil {
					t.Error("ApplyFileConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyFileConfig() unexpected error: %v", err)
			}
			if cfg != tt.expected {
				t.Errorf("cfg = %+v\nwant  %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	tomlContent := `
node_address = "172.104.249.212:8101"
wallet_name = "test"
poll_interval_ms = 1000
overlap = "drop"
http_timeout = "5s"
`
	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	fc, err := LoadFileConfig(configPath)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if fc.NodeAddress != "172.104.249.212:8101" {
		t.Errorf("NodeAddress = %v", fc.NodeAddress)
	}
	if fc.WalletName != "test" {
		t.Errorf("WalletName = %v, want test", fc.WalletName)
	}
	if fc.PollIntervalMillis != 1000 {
		t.Errorf("PollIntervalMillis = %v, want 1000", fc.PollIntervalMillis)
	}
	if fc.Overlap != "drop" {
		t.Errorf("Overlap = %v, want drop", fc.Overlap)
	}
	if fc.HTTPTimeout != "5s" {
		t.Errorf("HTTPTimeout = %v, want 5s", fc.HTTPTimeout)
	}
}

func TestLoadFileConfig_InvalidFile(t *testing.T) {
	if _, err := LoadFileConfig("/nonexistent/path/config.toml"); err == nil {
		t.Error("LoadFileConfig() expected error for nonexistent file")
	}
}

func TestLoadFileConfig_InvalidTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.toml")
	if err := os.WriteFile(configPath, []byte("wallet_name = \"x\"\nthis is not valid toml\n"), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}
	if _, err := LoadFileConfig(configPath); err == nil {
		t.Error("LoadFileConfig() expected error for invalid TOML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if path != "" && !strings.Contains(path, ".walletpoll") {
		t.Errorf("DefaultConfigPath() = %v, should contain .walletpoll", path)
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	existingFile := filepath.Join(tmpDir, "exists.txt")
	if err := os.WriteFile(existingFile, []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if !FileExists(existingFile) {
		t.Error("FileExists() = false, want true for existing file")
	}
	if FileExists(filepath.Join(tmpDir, "nonexistent.txt")) {
		t.Error("FileExists() = true, want false for nonexistent file")
	}
}
