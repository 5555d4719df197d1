// Package engine implements ports.WalletEngine against a wallet daemon's JSON API.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	logAdapter "github.com/bft-labs/walletpoll/internal/adapters/log"
	"github.com/bft-labs/walletpoll/internal/domain"
	"github.com/bft-labs/walletpoll/internal/ports"
)

const (
	walletPath  = "/v1/wallets/{name}"
	walletsPath = "/v1/wallets"
	openPath    = "/v1/wallets/{name}/open"
	syncPath    = "/v1/sessions/{id}/sync"
	statusPath  = "/v1/sessions/{id}/status"
	utxosPath   = "/v1/sessions/{id}/utxos"

	requestIDHeader = "X-Request-Id"

	// DefaultBaseURL is where the wallet daemon listens by default.
	DefaultBaseURL = "http://127.0.0.1:10000"
	// DefaultTimeout bounds every request to the daemon.
	DefaultTimeout = 15 * time.Second
)

// ErrNoSession is returned when the daemon accepted a create or open call
// but did not hand out a session.
var ErrNoSession = errors.New("engine returned no session")

// Config configures the HTTP engine adapter.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Engine talks to the wallet daemon over HTTP.
type Engine struct {
	client *resty.Client
	logger ports.Logger
}

// New creates an engine adapter. Zero fields in cfg take their defaults.
func New(cfg Config, logger ports.Logger) *Engine {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "walletpoll")

	return &Engine{client: cli, logger: logAdapter.OrNoop(logger)}
}

type createRequest struct {
	Name      string `json:"name"`
	Password  string `json:"password"`
	OwnerSeed string `json:"owner_seed"`
	Node      string `json:"node"`
}

type openRequest struct {
	Password string `json:"password"`
	Node     string `json:"node"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
}

// WalletExists asks the daemon whether name is provisioned.
// 200 means yes, 404 means no, anything else is an error.
func (e *Engine) WalletExists(ctx context.Context, name string) (bool, error) {
	resp, err := e.client.R().
		SetContext(ctx).
		SetPathParam("name", name).
		Get(walletPath)
	if err != nil {
		return false, fmt.Errorf("wallet exists request: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, mapHTTPError(resp)
	}
}

// CreateWallet provisions a wallet bound to endpoint and returns its session.
func (e *Engine) CreateWallet(ctx context.Context, endpoint domain.NodeEndpoint, name, password, ownerSeed string) (ports.SessionHandle, error) {
	resp, err := e.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(createRequest{
			Name:      name,
			Password:  password,
			OwnerSeed: ownerSeed,
			Node:      endpoint.String(),
		}).
		Post(walletsPath)
	if err != nil {
		return nil, fmt.Errorf("create wallet request: %w", err)
	}
	return e.sessionFrom(resp)
}

// OpenWallet opens an existing wallet bound to endpoint and returns its session.
func (e *Engine) OpenWallet(ctx context.Context, endpoint domain.NodeEndpoint, name, password string) (ports.SessionHandle, error) {
	resp, err := e.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetPathParam("name", name).
		SetBody(openRequest{Password: password, Node: endpoint.String()}).
		Post(openPath)
	if err != nil {
		return nil, fmt.Errorf("open wallet request: %w", err)
	}
	return e.sessionFrom(resp)
}

func (e *Engine) sessionFrom(resp *resty.Response) (ports.SessionHandle, error) {
	if err := mapHTTPError(resp); err != nil {
		return nil, err
	}

	var sr sessionResponse
	if err := json.Unmarshal(resp.Body(), &sr); err != nil {
		return nil, fmt.Errorf("decode session response: %w", err)
	}
	if sr.SessionID == "" {
		return nil, ErrNoSession
	}

	e.logger.Debug("engine session acquired", ports.String("session", sr.SessionID))
	return &session{id: sr.SessionID, client: e.client, logger: e.logger}, nil
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
}
