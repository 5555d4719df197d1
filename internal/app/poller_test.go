package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/walletpoll/internal/domain"
)

func newTestPoller(rep *recordingReporter) (*Poller, *manualTimer) {
	mt := newManualTimer()
	p := NewPoller(rep, mockLogger{})
	p.timer = mt.start
	return p, mt
}

// runPoller starts p in the background and returns its result channel.
func runPoller(ctx context.Context, p *Poller, s *Session, cfg domain.PollConfig) <-chan error {
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, s, cfg) }()
	return done
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop")
		return nil
	}
}

func TestPoller_RejectsInvalidSession(t *testing.T) {
	rep := &recordingReporter{}
	p, _ := newTestPoller(rep)

	for _, s := range []*Session{nil, {}} {
		err := p.Run(context.Background(), s, domain.DefaultPollConfig())
		assert.ErrorIs(t, err, domain.ErrInvalidSessionUse)
	}
	assert.Zero(t, p.Iterations())
	assert.Empty(t, rep.dispatched)
}

func TestPoller_StatusThenUtxosEachIteration(t *testing.T) {
	handle := newFakeHandle()
	rep := &recordingReporter{}
	s := newSession(handle, "test", testEndpoint, rep, nil)
	p, mt := newTestPoller(rep)

	ctx, cancel := context.WithCancel(context.Background())
	done := runPoller(ctx, p, s, domain.PollConfigFromMillis(5000))

	require.NoError(t, mt.waitSuspended())
	assert.Equal(t, []domain.RequestKind{domain.KindStatus, domain.KindUtxos}, handle.Calls())

	mt.tick()
	require.NoError(t, mt.waitSuspended())
	assert.Equal(t, []domain.RequestKind{
		domain.KindStatus, domain.KindUtxos,
		domain.KindStatus, domain.KindUtxos,
	}, handle.Calls())
	assert.Equal(t, uint64(2), p.Iterations())

	require.Eventually(t, func() bool { return len(rep.Replies()) == 4 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, waitDone(t, done), context.Canceled)
	require.NoError(t, s.Wait(time.Second))
}

func TestPoller_SuspendsForInterval(t *testing.T) {
	s := newSession(newFakeHandle(), "test", testEndpoint, nil, nil)
	p, mt := newTestPoller(&recordingReporter{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := runPoller(ctx, p, s, domain.PollConfig{Interval: 0})

	select {
	case d := <-mt.started:
		assert.Equal(t, domain.DefaultPollInterval, d)
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not suspend")
	}

	cancel()
	waitDone(t, done)
}

func TestPoller_IterationsFollowTimer(t *testing.T) {
	s := newSession(newFakeHandle(), "test", testEndpoint, nil, nil)
	p, mt := newTestPoller(&recordingReporter{})

	ctx, cancel := context.WithCancel(context.Background())
	done := runPoller(ctx, p, s, domain.DefaultPollConfig())

	// The first iteration runs immediately; each expiry starts one more.
	require.NoError(t, mt.waitSuspended())
	for i := 0; i < 5; i++ {
		mt.tick()
		require.NoError(t, mt.waitSuspended())
	}
	assert.Equal(t, uint64(6), p.Iterations())

	cancel()
	waitDone(t, done)
}

func TestPoller_RealTimerCadence(t *testing.T) {
	s := newSession(newFakeHandle(), "test", testEndpoint, nil, nil)
	p := NewPoller(nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 110*time.Millisecond)
	defer cancel()

	err := p.Run(ctx, s, domain.PollConfig{Interval: 25 * time.Millisecond})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// floor(110/25)+1 = 5 on an idle machine; allow scheduling slack.
	n := p.Iterations()
	assert.GreaterOrEqual(t, n, uint64(3))
	assert.LessOrEqual(t, n, uint64(6))
}

func TestPoller_CancelDuringSuspension(t *testing.T) {
	s := newSession(newFakeHandle(), "test", testEndpoint, nil, nil)
	p, mt := newTestPoller(&recordingReporter{})

	ctx, cancel := context.WithCancel(context.Background())
	done := runPoller(ctx, p, s, domain.DefaultPollConfig())

	require.NoError(t, mt.waitSuspended())
	cancel()

	assert.ErrorIs(t, waitDone(t, done), context.Canceled)
	assert.Equal(t, uint64(1), p.Iterations())
}

func TestPoller_NudgeDoesNotStopLoop(t *testing.T) {
	handle := newFakeHandle()
	s := newSession(handle, "test", testEndpoint, nil, nil)
	p, mt := newTestPoller(&recordingReporter{})

	ctx, cancel := context.WithCancel(context.Background())
	done := runPoller(ctx, p, s, domain.DefaultPollConfig())

	require.NoError(t, mt.waitSuspended())
	p.Nudge()
	require.NoError(t, mt.waitSuspended())
	p.Nudge()
	require.NoError(t, mt.waitSuspended())

	select {
	case err := <-done:
		t.Fatalf("poller stopped after nudge: %v", err)
	default:
	}
	assert.Equal(t, uint64(3), p.Iterations())
	assert.Len(t, handle.Calls(), 6)

	cancel()
	waitDone(t, done)
}

func TestPoller_DispatchErrorKeepsSchedule(t *testing.T) {
	handle := newFakeHandle()
	handle.dispatchErr = errors.New("engine busy")
	rep := &recordingReporter{}
	s := newSession(handle, "test", testEndpoint, rep, nil)
	p, mt := newTestPoller(rep)

	ctx, cancel := context.WithCancel(context.Background())
	done := runPoller(ctx, p, s, domain.DefaultPollConfig())

	require.NoError(t, mt.waitSuspended())
	mt.tick()
	require.NoError(t, mt.waitSuspended())

	assert.Equal(t, uint64(2), p.Iterations())
	assert.Empty(t, rep.dispatched)

	cancel()
	waitDone(t, done)
}

func TestPoller_OverlapPolicies(t *testing.T) {
	tests := []struct {
		name        string
		overlap     domain.OverlapPolicy
		wantCalls   int
		wantSkipped int
	}{
		{"allow", domain.OverlapAllow, 4, 0},
		{"drop", domain.OverlapDrop, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handle := newFakeHandle()
			handle.hold = true
			rep := &recordingReporter{}
			s := newSession(handle, "test", testEndpoint, rep, nil)
			p, mt := newTestPoller(rep)

			ctx, cancel := context.WithCancel(context.Background())
			done := runPoller(ctx, p, s, domain.PollConfig{Interval: time.Second, Overlap: tt.overlap})

			require.NoError(t, mt.waitSuspended())
			mt.tick()
			require.NoError(t, mt.waitSuspended())

			assert.Len(t, handle.Calls(), tt.wantCalls)
			assert.Len(t, rep.Skipped(), tt.wantSkipped)

			handle.release()
			require.Eventually(t, func() bool {
				return s.InFlight(domain.KindStatus) == 0 && s.InFlight(domain.KindUtxos) == 0
			}, time.Second, 5*time.Millisecond)

			mt.tick()
			require.NoError(t, mt.waitSuspended())
			assert.Len(t, handle.Calls(), tt.wantCalls+2)

			cancel()
			waitDone(t, done)
			handle.release()
			require.NoError(t, s.Wait(time.Second))
		})
	}
}
