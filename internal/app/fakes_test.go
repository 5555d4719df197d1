package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bft-labs/walletpoll/internal/domain"
	"github.com/bft-labs/walletpoll/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

// fakeEngine records every capability call made against it.
type fakeEngine struct {
	mu sync.Mutex

	exists    bool
	existsErr error
	openErr   error
	createErr error
	nilHandle bool
	typedNil  bool
	handle    *fakeHandle

	// existsGate, when set, holds WalletExists until it is closed.
	existsGate chan struct{}

	calls      []string
	openArgs   []string
	createArgs []string
}

func newFakeEngine(exists bool) *fakeEngine {
	return &fakeEngine{exists: exists, handle: newFakeHandle()}
}

func (e *fakeEngine) WalletExists(_ context.Context, name string) (bool, error) {
	if e.existsGate != nil {
		<-e.existsGate
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, "exists:"+name)
	return e.exists, e.existsErr
}

func (e *fakeEngine) OpenWallet(_ context.Context, endpoint domain.NodeEndpoint, name, password string) (ports.SessionHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, "open")
	e.openArgs = []string{endpoint.String(), name, password}
	return e.result(e.openErr)
}

func (e *fakeEngine) CreateWallet(_ context.Context, endpoint domain.NodeEndpoint, name, password, seed string) (ports.SessionHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, "create")
	e.createArgs = []string{endpoint.String(), name, password, seed}
	return e.result(e.createErr)
}

func (e *fakeEngine) result(err error) (ports.SessionHandle, error) {
	if err != nil || e.nilHandle {
		return nil, err
	}
	if e.typedNil {
		var h *fakeHandle
		return h, nil
	}
	return e.handle, nil
}

func (e *fakeEngine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string{}, e.calls...)
}

// fakeHandle answers queries immediately unless hold is set.
type fakeHandle struct {
	mu sync.Mutex

	hold        bool
	closeOnly   bool
	dispatchErr error
	syncErr     error

	syncs   int
	calls   []domain.RequestKind
	ids     []string
	pending []chan domain.Reply
}

func newFakeHandle() *fakeHandle {
	return &fakeHandle{}
}

func (h *fakeHandle) Synchronize(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.syncs++
	return h.syncErr
}

func (h *fakeHandle) RequestStatus(_ context.Context, id string) (<-chan domain.Reply, error) {
	return h.request(domain.KindStatus, id)
}

func (h *fakeHandle) RequestUtxoSnapshot(_ context.Context, id string) (<-chan domain.Reply, error) {
	return h.request(domain.KindUtxos, id)
}

func (h *fakeHandle) request(kind domain.RequestKind, id string) (<-chan domain.Reply, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.dispatchErr != nil {
		return nil, h.dispatchErr
	}
	h.calls = append(h.calls, kind)
	h.ids = append(h.ids, id)

	ch := make(chan domain.Reply, 1)
	switch {
	case h.hold:
		h.pending = append(h.pending, ch)
	case h.closeOnly:
		close(ch)
	case kind == domain.KindStatus:
		ch <- domain.Reply{Status: &domain.WalletStatus{Available: 5 * domain.GrothPerCoin, Height: 42}}
	default:
		ch <- domain.Reply{Utxos: []domain.Utxo{{ID: "u1", Amount: 5 * domain.GrothPerCoin, Status: domain.CoinAvailable}}}
	}
	return ch, nil
}

// release answers every held query.
func (h *fakeHandle) release() {
	h.mu.Lock()
	pending := h.pending
	h.pending = nil
	h.mu.Unlock()
	for _, ch := range pending {
		ch <- domain.Reply{}
	}
}

func (h *fakeHandle) Calls() []domain.RequestKind {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.RequestKind{}, h.calls...)
}

func (h *fakeHandle) Syncs() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.syncs
}

// recordingReporter keeps every event it receives.
type recordingReporter struct {
	mu         sync.Mutex
	dispatched []domain.RequestKind
	skipped    []domain.RequestKind
	replies    []domain.Reply
	iterations uint64
}

func (r *recordingReporter) OnDispatched(kind domain.RequestKind, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dispatched = append(r.dispatched, kind)
}

func (r *recordingReporter) OnSkipped(kind domain.RequestKind, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped = append(r.skipped, kind)
}

func (r *recordingReporter) OnReply(reply domain.Reply) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, reply)
}

func (r *recordingReporter) OnIteration(n uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.iterations = n
}

func (r *recordingReporter) Replies() []domain.Reply {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Reply{}, r.replies...)
}

func (r *recordingReporter) Skipped() []domain.RequestKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.RequestKind{}, r.skipped...)
}

// manualTimer hands out timers that only fire when the test says so.
type manualTimer struct {
	started chan time.Duration
	fire    chan time.Time
}

func newManualTimer() *manualTimer {
	return &manualTimer{
		started: make(chan time.Duration, 100),
		fire:    make(chan time.Time),
	}
}

func (m *manualTimer) start(d time.Duration) (<-chan time.Time, func() bool) {
	m.started <- d
	return m.fire, func() bool { return true }
}

// waitSuspended blocks until the poller entered its next suspension.
func (m *manualTimer) waitSuspended() error {
	select {
	case <-m.started:
		return nil
	case <-time.After(2 * time.Second):
		return errors.New("poller did not suspend")
	}
}

func (m *manualTimer) tick() {
	m.fire <- time.Now()
}

var testEndpoint = domain.NodeEndpoint{Host: "172.104.249.212", Port: 8101}

var testIdentity = domain.WalletIdentity{Name: "test", Password: "123", OwnerSeed: "000"}
