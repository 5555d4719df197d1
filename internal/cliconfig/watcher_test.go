package cliconfig

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	logAdapter "github.com/bft-labs/walletpoll/internal/adapters/log"
)

func TestWatchConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("wallet_name = \"a\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- WatchConfigFile(ctx, path, logAdapter.NewNoopLogger(), func() { calls.Add(1) })
	}()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)

	// Unrelated files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	// A burst of writes is reported once.
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("wallet_name = \"b\"\n"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(3 * watchDebounce)

	if got := calls.Load(); got != 1 {
		t.Errorf("onChange calls = %d, want 1", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WatchConfigFile() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchConfigFile_EmptyPath(t *testing.T) {
	if err := WatchConfigFile(context.Background(), "", logAdapter.NewNoopLogger(), func() {}); err != nil {
		t.Errorf("WatchConfigFile(\"\") error = %v", err)
	}
}

func TestWatchConfigFile_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "config.toml")
	if err := WatchConfigFile(context.Background(), path, logAdapter.NewNoopLogger(), func() {}); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestPromptPassword_NotTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if IsTerminal(int(f.Fd())) {
		t.Skip("temp file reported as terminal")
	}
	if _, err := PromptPassword(int(f.Fd()), os.Stderr, "test"); err != ErrNotTerminal {
		t.Errorf("PromptPassword() error = %v, want ErrNotTerminal", err)
	}
}
