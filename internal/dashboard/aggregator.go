package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/rickgao/ouc-dashboard/internal/indexer"
	"github.com/rickgao/ouc-dashboard/internal/model"
)

// Config holds Aggregator configuration.
type Config struct {
	EventLimit int // Events requested per snapshot
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{EventLimit: 50}
}

// Aggregator merges every source into one Snapshot.
type Aggregator struct {
	cfg     Config
	sources Sources
	logger  *slog.Logger
	now     func() time.Time
}

// NewAggregator creates a new Aggregator.
func NewAggregator(cfg Config, sources Sources, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		cfg:     cfg,
		sources: sources,
		logger:  logger,
		now:     time.Now,
	}
}

// Fallback returns a Snapshot holding every source's fallback value.
func Fallback() model.Snapshot {
	return model.Snapshot{
		Auditors:     []model.Auditor{},
		Events:       model.EventsPage{Events: []model.Event{}},
		Subscription: nil,
		Treasury:     nil,
		OUCStatus:    nil,
	}
}

// FetchSnapshot fetches all sources concurrently and returns the merged
// Snapshot. A failed source contributes its fallback and is listed in
// Snapshot.Failures; FetchSnapshot itself never fails.
func (a *Aggregator) FetchSnapshot(ctx context.Context) model.Snapshot {
	start := a.now()

	var (
		auditors     []model.Auditor
		events       *model.EventsPage
		subscription *model.Subscription
		treasury     *model.Treasury
		oucStatus    *model.OUCStatus
	)

	outcomes := settleAll(ctx, []branch{
		{SourceAuditors, func(ctx context.Context) (err error) {
			auditors, err = a.sources.GetAuditors(ctx)
			return err
		}},
		{SourceEvents, func(ctx context.Context) (err error) {
			events, err = a.sources.GetEvents(ctx, indexer.GetEventsOptions{Limit: a.cfg.EventLimit})
			return err
		}},
		{SourceSubscription, func(ctx context.Context) (err error) {
			subscription, err = a.sources.GetSubscription(ctx)
			return err
		}},
		{SourceTreasury, func(ctx context.Context) (err error) {
			treasury, err = a.sources.GetTreasury(ctx)
			return err
		}},
		{SourceOUCStatus, func(ctx context.Context) (err error) {
			oucStatus, err = a.sources.GetOUCStatus(ctx)
			return err
		}},
	})

	snap := Fallback()
	snap.FetchedAt = start

	for _, o := range outcomes {
		if o.err != nil {
			snap.Failures = append(snap.Failures, model.SourceFailure{Source: o.source, Reason: o.err.Error()})
			a.logger.Warn("source unavailable, using fallback", "source", o.source, "err", o.err)
			continue
		}

		switch o.source {
		case SourceAuditors:
			if auditors != nil {
				snap.Auditors = auditors
			}
		case SourceEvents:
			if events != nil {
				snap.Events = *events
				if snap.Events.Events == nil {
					snap.Events.Events = []model.Event{}
				}
			}
		case SourceSubscription:
			snap.Subscription = subscription
		case SourceTreasury:
			snap.Treasury = treasury
		case SourceOUCStatus:
			snap.OUCStatus = oucStatus
		}
	}

	a.logger.Debug("snapshot fetched",
		"auditors", len(snap.Auditors),
		"events", len(snap.Events.Events),
		"failures", len(snap.Failures),
		"duration", time.Since(start),
	)

	return snap
}
