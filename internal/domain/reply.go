package domain

import (
	"fmt"
	"time"
)

// RequestKind identifies one of the two asynchronous session queries.
type RequestKind string

const (
	KindStatus RequestKind = "status"
	KindUtxos  RequestKind = "utxos"
)

// GrothPerCoin is the number of indivisible units in one coin.
const GrothPerCoin = 100_000_000

// WalletStatus holds the wallet totals reported by the engine, in groth.
type WalletStatus struct {
	Available uint64 `json:"available"`
	Receiving uint64 `json:"receiving"`
	Sending   uint64 `json:"sending"`
	Maturing  uint64 `json:"maturing"`

	// Height and StateHash describe the tip the wallet last synchronized to
	Height    uint64 `json:"height"`
	StateHash string `json:"state_hash,omitempty"`
}

// Total returns the sum of all buckets.
func (s WalletStatus) Total() uint64 {
	return s.Available + s.Receiving + s.Sending + s.Maturing
}

// CoinStatus is the lifecycle state of an unspent output.
type CoinStatus string

const (
	CoinAvailable   CoinStatus = "available"
	CoinMaturing    CoinStatus = "maturing"
	CoinUnavailable CoinStatus = "unavailable"
	CoinOutgoing    CoinStatus = "outgoing"
	CoinIncoming    CoinStatus = "incoming"
	CoinSpent       CoinStatus = "spent"
)

// Utxo is one entry of an unspent-output snapshot.
type Utxo struct {
	ID       string     `json:"id"`
	Amount   uint64     `json:"amount"`
	Maturity uint64     `json:"maturity"`
	Status   CoinStatus `json:"status"`
}

// Reply is the out-of-band result of one asynchronous query.
// Exactly one of Status, Utxos or Err is meaningful, according to Kind.
type Reply struct {
	RequestID string
	Kind      RequestKind
	Status    *WalletStatus
	Utxos     []Utxo
	Err       error
	Latency   time.Duration
}

// OK reports whether the query succeeded.
func (r Reply) OK() bool { return r.Err == nil }

// FormatAmount renders groth as "coins.groth", e.g. 150000000 -> "1.50000000".
func FormatAmount(groth uint64) string {
	return fmt.Sprintf("%d.%08d", groth/GrothPerCoin, groth%GrothPerCoin)
}
