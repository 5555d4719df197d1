// Package fs persists monitoring state on the local filesystem.
package fs

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	logAdapter "github.com/bft-labs/walletpoll/internal/adapters/log"
	"github.com/bft-labs/walletpoll/internal/domain"
	"github.com/bft-labs/walletpoll/internal/ports"
)

// Snapshot is the monitoring view written to the status file.
type Snapshot struct {
	Wallet    string               `json:"wallet"`
	Node      string               `json:"node"`
	State     string               `json:"state"`
	Iteration uint64               `json:"iteration"`
	Status    *domain.WalletStatus `json:"status,omitempty"`
	Utxos     map[string]int       `json:"utxos,omitempty"`
	LastError string               `json:"last_error,omitempty"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// StatusFile keeps the latest wallet status in a JSON file for external tools.
// It implements ports.Reporter and ports.StateObserver.
type StatusFile struct {
	path   string
	logger ports.Logger
	now    func() time.Time

	mu   sync.Mutex
	snap Snapshot
}

// NewStatusFile creates a reporter writing to path.
func NewStatusFile(path, wallet string, node domain.NodeEndpoint, logger ports.Logger) *StatusFile {
	return &StatusFile{
		path:   path,
		logger: logAdapter.OrNoop(logger),
		now:    time.Now,
		snap: Snapshot{
			Wallet: wallet,
			Node:   node.String(),
			State:  domain.StateUninitialized.String(),
		},
	}
}

// Path returns the full path to the status file.
func (f *StatusFile) Path() string {
	return f.path
}

func (f *StatusFile) OnIteration(n uint64) {
	f.update(func(s *Snapshot) { s.Iteration = n })
}

func (f *StatusFile) OnDispatched(domain.RequestKind, string) {}

func (f *StatusFile) OnSkipped(domain.RequestKind, string) {}

func (f *StatusFile) OnReply(reply domain.Reply) {
	f.update(func(s *Snapshot) {
		if !reply.OK() {
			s.LastError = reply.Err.Error()
			return
		}
		s.LastError = ""
		switch reply.Kind {
		case domain.KindStatus:
			if reply.Status != nil {
				st := *reply.Status
				s.Status = &st
			}
		case domain.KindUtxos:
			counts := make(map[string]int)
			for _, u := range reply.Utxos {
				counts[string(u.Status)]++
			}
			s.Utxos = counts
		}
	})
}

func (f *StatusFile) OnStateChange(_, current domain.State, _ string) {
	f.update(func(s *Snapshot) { s.State = current.String() })
}

func (f *StatusFile) update(fn func(*Snapshot)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fn(&f.snap)
	f.snap.UpdatedAt = f.now().UTC()

	if err := f.save(f.snap); err != nil {
		f.logger.Warn("failed to write status file",
			ports.String("path", f.path),
			ports.Err(err),
		)
	}
}

// save writes atomically: temp file first, then rename.
func (f *StatusFile) save(snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// LoadSnapshot reads a status file written by StatusFile.
// A missing file yields an empty snapshot and a nil error.
func LoadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, nil
		}
		return Snapshot{}, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
