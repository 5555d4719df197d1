package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	logAdapter "github.com/bft-labs/walletpoll/internal/adapters/log"
	"github.com/bft-labs/walletpoll/internal/domain"
	"github.com/bft-labs/walletpoll/internal/ports"
)

// errReplyChannelClosed is reported when the engine closes a reply channel without sending.
var errReplyChannelClosed = errors.New("reply channel closed without a reply")

// Session is the capability handle produced by a successful bootstrap.
// The zero value and a nil *Session are invalid: every operation on them
// returns domain.ErrInvalidSessionUse without dispatching anything.
type Session struct {
	handle   ports.SessionHandle
	wallet   string
	endpoint domain.NodeEndpoint
	reporter ports.Reporter
	logger   ports.Logger
	ids      *idSource

	statusInFlight atomic.Int64
	utxosInFlight  atomic.Int64
	wg             sync.WaitGroup
}

func newSession(handle ports.SessionHandle, wallet string, endpoint domain.NodeEndpoint, reporter ports.Reporter, logger ports.Logger) *Session {
	if reporter == nil {
		reporter = MultiReporter()
	}
	logger = logAdapter.OrNoop(logger)
	return &Session{
		handle:   handle,
		wallet:   wallet,
		endpoint: endpoint,
		reporter: reporter,
		logger:   logger,
		ids:      newIDSource(),
	}
}

// Valid reports whether the session came from a successful bootstrap.
func (s *Session) Valid() bool {
	return s != nil && !isNilHandle(s.handle)
}

// isNilHandle reports whether h is nil or an interface wrapping a nil value.
func isNilHandle(h ports.SessionHandle) bool {
	if h == nil {
		return true
	}
	v := reflect.ValueOf(h)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// Wallet returns the wallet name the session is bound to.
func (s *Session) Wallet() string {
	if s == nil {
		return ""
	}
	return s.wallet
}

// Endpoint returns the node the session synchronizes against.
func (s *Session) Endpoint() domain.NodeEndpoint {
	if s == nil {
		return domain.NodeEndpoint{}
	}
	return s.endpoint
}

// Synchronize triggers synchronization with the node. It does not wait for completion.
func (s *Session) Synchronize(ctx context.Context) error {
	if !s.Valid() {
		return domain.ErrInvalidSessionUse
	}
	if err := s.handle.Synchronize(ctx); err != nil {
		return fmt.Errorf("synchronize: %w", err)
	}
	return nil
}

// RequestStatus dispatches a status query and returns its request ID.
// The reply is delivered to the session's reporter.
func (s *Session) RequestStatus(ctx context.Context) (string, error) {
	return s.request(ctx, domain.KindStatus)
}

// RequestUtxoSnapshot dispatches an unspent-output query and returns its request ID.
// The reply is delivered to the session's reporter.
func (s *Session) RequestUtxoSnapshot(ctx context.Context) (string, error) {
	return s.request(ctx, domain.KindUtxos)
}

// InFlight returns the number of dispatched queries of kind without a reply yet.
func (s *Session) InFlight(kind domain.RequestKind) int64 {
	if !s.Valid() {
		return 0
	}
	return s.counter(kind).Load()
}

// Wait blocks until every forwarded reply has been handled or timeout expires.
func (s *Session) Wait(timeout time.Duration) error {
	if !s.Valid() {
		return nil
	}
	return waitWithTimeout(&s.wg, timeout, s.logger)
}

func (s *Session) request(ctx context.Context, kind domain.RequestKind) (string, error) {
	if !s.Valid() {
		return "", domain.ErrInvalidSessionUse
	}

	id := s.ids.next()
	var (
		ch  <-chan domain.Reply
		err error
	)
	switch kind {
	case domain.KindStatus:
		ch, err = s.handle.RequestStatus(ctx, id)
	case domain.KindUtxos:
		ch, err = s.handle.RequestUtxoSnapshot(ctx, id)
	default:
		return "", fmt.Errorf("unknown request kind %q", kind)
	}
	if err != nil {
		return id, fmt.Errorf("dispatch %s: %w", kind, err)
	}

	s.counter(kind).Add(1)
	s.reporter.OnDispatched(kind, id)

	s.wg.Add(1)
	go s.forward(ctx, kind, id, ch, time.Now())

	return id, nil
}

// forward waits for the engine's reply and hands it to the reporter.
func (s *Session) forward(ctx context.Context, kind domain.RequestKind, id string, ch <-chan domain.Reply, start time.Time) {
	defer s.wg.Done()
	defer s.counter(kind).Add(-1)

	var reply domain.Reply
	select {
	case <-ctx.Done():
		return
	case r, ok := <-ch:
		if ok {
			reply = r
		} else {
			reply = domain.Reply{Err: errReplyChannelClosed}
		}
	}

	if reply.RequestID == "" {
		reply.RequestID = id
	}
	if reply.Kind == "" {
		reply.Kind = kind
	}
	if reply.Latency == 0 {
		reply.Latency = time.Since(start)
	}
	s.reporter.OnReply(reply)
}

func (s *Session) counter(kind domain.RequestKind) *atomic.Int64 {
	if kind == domain.KindUtxos {
		return &s.utxosInFlight
	}
	return &s.statusInFlight
}

// idSource produces monotonic ULIDs for request correlation.
type idSource struct {
	mu      sync.Mutex
	entropy io.Reader
}

func newIDSource() *idSource {
	return &idSource{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *idSource) next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(time.Now()), g.entropy)
	if err != nil {
		// Monotonic entropy overflows only within a single millisecond.
		return ulid.Make().String()
	}
	return id.String()
}
