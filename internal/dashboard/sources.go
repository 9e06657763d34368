package dashboard

import (
	"context"

	"github.com/rickgao/ouc-dashboard/internal/indexer"
	"github.com/rickgao/ouc-dashboard/internal/model"
)

// Source names, as reported in Snapshot.Failures.
const (
	SourceAuditors     = "auditors"
	SourceEvents       = "events"
	SourceSubscription = "subscription"
	SourceTreasury     = "treasury"
	SourceOUCStatus    = "oucStatus"
)

// Sources fetches each snapshot source with one read. *indexer.Client
// satisfies it directly.
type Sources interface {
	GetAuditors(ctx context.Context) ([]model.Auditor, error)
	GetEvents(ctx context.Context, opts indexer.GetEventsOptions) (*model.EventsPage, error)
	GetSubscription(ctx context.Context) (*model.Subscription, error)
	GetTreasury(ctx context.Context) (*model.Treasury, error)
	GetOUCStatus(ctx context.Context) (*model.OUCStatus, error)
}

// LedgerReader is the subset of the ledger backend used for snapshots.
type LedgerReader interface {
	ListAuditors(ctx context.Context, limit int) ([]model.Auditor, error)
	GetSubscription(ctx context.Context) (*model.Subscription, error)
	GetTreasury(ctx context.Context) (*model.Treasury, error)
}

// ledgerSources reads auditors, subscription and treasury from the ledger
// backend and everything else from the indexer.
type ledgerSources struct {
	Sources
	ledger LedgerReader
}

// WithLedger returns Sources that prefer the ledger backend for the sources
// it serves.
func WithLedger(base Sources, ledger LedgerReader) Sources {
	return &ledgerSources{Sources: base, ledger: ledger}
}

func (s *ledgerSources) GetAuditors(ctx context.Context) ([]model.Auditor, error) {
	return s.ledger.ListAuditors(ctx, 0)
}

func (s *ledgerSources) GetSubscription(ctx context.Context) (*model.Subscription, error) {
	return s.ledger.GetSubscription(ctx)
}

func (s *ledgerSources) GetTreasury(ctx context.Context) (*model.Treasury, error) {
	return s.ledger.GetTreasury(ctx)
}
