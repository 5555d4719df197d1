package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bft-labs/walletpoll/internal/domain"
	"github.com/bft-labs/walletpoll/internal/ports"
)

// session is the daemon-side handle for one open wallet.
type session struct {
	id     string
	client *resty.Client
	logger ports.Logger
}

type utxosResponse struct {
	Utxos []domain.Utxo `json:"utxos"`
}

// Synchronize asks the daemon to start syncing; the daemon acknowledges without waiting.
func (s *session) Synchronize(ctx context.Context) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("id", s.id).
		Post(syncPath)
	if err != nil {
		return fmt.Errorf("sync request: %w", err)
	}
	return mapHTTPError(resp)
}

func (s *session) RequestStatus(ctx context.Context, requestID string) (<-chan domain.Reply, error) {
	return s.query(ctx, requestID, domain.KindStatus, statusPath, func(body []byte, r *domain.Reply) error {
		var st domain.WalletStatus
		if err := json.Unmarshal(body, &st); err != nil {
			return err
		}
		r.Status = &st
		return nil
	}), nil
}

func (s *session) RequestUtxoSnapshot(ctx context.Context, requestID string) (<-chan domain.Reply, error) {
	return s.query(ctx, requestID, domain.KindUtxos, utxosPath, func(body []byte, r *domain.Reply) error {
		var ur utxosResponse
		if err := json.Unmarshal(body, &ur); err != nil {
			return err
		}
		r.Utxos = ur.Utxos
		return nil
	}), nil
}

// query runs the request in its own goroutine and delivers exactly one reply.
func (s *session) query(ctx context.Context, requestID string, kind domain.RequestKind, path string, decode func([]byte, *domain.Reply) error) <-chan domain.Reply {
	out := make(chan domain.Reply, 1)

	go func() {
		start := time.Now()
		reply := domain.Reply{RequestID: requestID, Kind: kind}
		defer func() {
			reply.Latency = time.Since(start)
			out <- reply
		}()

		resp, err := s.client.R().
			SetContext(ctx).
			SetHeader(requestIDHeader, requestID).
			SetPathParam("id", s.id).
			Get(path)
		if err != nil {
			reply.Err = fmt.Errorf("%s request: %w", kind, err)
			return
		}
		if err := mapHTTPError(resp); err != nil {
			reply.Err = err
			return
		}
		if err := decode(resp.Body(), &reply); err != nil {
			reply.Err = fmt.Errorf("decode %s response: %w", kind, err)
		}
	}()

	return out
}
