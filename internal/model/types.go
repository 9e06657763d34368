package model

import (
	"strconv"
	"time"
)

// -----------------------------------------------------------------------------
// Indexer Types
// -----------------------------------------------------------------------------

// Event is a single contract event recorded by the indexer.
type Event struct {
	EventID     string `json:"eventId,omitempty"`
	TxHash      string `json:"txHash,omitempty"`
	LogIndex    int    `json:"logIndex"`
	Contract    string `json:"contract,omitempty"`
	Topic       string `json:"topic,omitempty"`
	Chain       string `json:"chain,omitempty"`
	BlockNumber int64  `json:"blockNumber,omitempty"`
	Timestamp   int64  `json:"timestamp,omitempty"` // ns since epoch
	Data        string `json:"data,omitempty"`
}

// Identity returns the key used to recognise an event across poll cycles:
// the indexer-assigned id when present, else "<txHash>-<logIndex>".
func (e Event) Identity() string {
	if e.EventID != "" {
		return e.EventID
	}
	return e.TxHash + "-" + strconv.Itoa(e.LogIndex)
}

// EventsPage is one page of events from GET /events.
type EventsPage struct {
	Events []Event `json:"events"`
	Cursor string  `json:"cursor,omitempty"`
	Total  int64   `json:"total,omitempty"`
}

// Stats is the indexer summary from GET /stats.
type Stats struct {
	TotalEvents   int64            `json:"totalEvents"`
	EventsByChain map[string]int64 `json:"eventsByChain,omitempty"`
	LastBlock     int64            `json:"lastBlock,omitempty"`
	LastUpdated   int64            `json:"lastUpdated,omitempty"`
}

// Health is the indexer liveness report from GET /health.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Cycles  string `json:"cycles,omitempty"`
}

// -----------------------------------------------------------------------------
// OUC Types (synced from the OUC canister)
// -----------------------------------------------------------------------------

// Auditor is a registered auditor.
type Auditor struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	Principal    string `json:"principal,omitempty"`
	Status       string `json:"status,omitempty"`
	RegisteredAt int64  `json:"registeredAt,omitempty"`
}

// Subscription describes the caller's subscription tier.
type Subscription struct {
	Tier      string `json:"tier"`
	Status    string `json:"status,omitempty"`
	AutoRenew bool   `json:"autoRenew"`
	ExpiresAt int64  `json:"expiresAt,omitempty"`
}

// TokenBalance is one treasury holding.
type TokenBalance struct {
	Token  string `json:"token"`
	Amount string `json:"amount"`
}

// Treasury holds the treasury balances.
type Treasury struct {
	Balances  []TokenBalance `json:"balances"`
	UpdatedAt int64          `json:"updatedAt,omitempty"`
}

// OUCStatus reports the indexer's sync state against the OUC canister.
type OUCStatus struct {
	CanisterID string `json:"canisterId,omitempty"`
	Synced     bool   `json:"synced"`
	LastSyncAt int64  `json:"lastSyncAt,omitempty"`
	Error      string `json:"error,omitempty"`
}

// -----------------------------------------------------------------------------
// Dashboard Types
// -----------------------------------------------------------------------------

// Snapshot is the merged best-effort view of every dashboard source for one
// poll cycle. All five source fields are always populated, either with the
// fetched value or with the source's fallback.
type Snapshot struct {
	Auditors     []Auditor     `json:"auditors"`
	Events       EventsPage    `json:"events"`
	Subscription *Subscription `json:"subscription"`
	Treasury     *Treasury     `json:"treasury"`
	OUCStatus    *OUCStatus    `json:"oucStatus"`

	FetchedAt time.Time       `json:"fetchedAt"`
	Failures  []SourceFailure `json:"failures,omitempty"`
}

// SourceFailure records why a source fell back during a cycle.
type SourceFailure struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// Degraded reports whether any source fell back.
func (s Snapshot) Degraded() bool {
	return len(s.Failures) > 0
}
