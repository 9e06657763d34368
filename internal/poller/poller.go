package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rickgao/ouc-dashboard/internal/model"
)

var (
	// ErrInvalidInterval is returned by Start for a non-positive interval.
	ErrInvalidInterval = errors.New("poller: interval must be positive")
	// ErrNilConsumer is returned by Start without a consumer.
	ErrNilConsumer = errors.New("poller: consumer is required")
)

// SnapshotFetcher produces one snapshot per call. It never fails; degraded
// sources are reported inside the snapshot.
type SnapshotFetcher interface {
	FetchSnapshot(ctx context.Context) model.Snapshot
}

// Consumer receives fetched snapshots.
type Consumer interface {
	HandleSnapshot(snapshot model.Snapshot) error
}

// ConsumerFunc is a function adapter for Consumer.
type ConsumerFunc func(model.Snapshot) error

func (f ConsumerFunc) HandleSnapshot(s model.Snapshot) error {
	return f(s)
}

// Config holds poller configuration.
type Config struct {
	Timeout time.Duration // Per-cycle fetch timeout (default: 15s, 0 = none)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout: 15 * time.Second,
	}
}

// Status describes the poller for status endpoints.
type Status struct {
	Running       bool      `json:"running"`
	IntervalMs    int64     `json:"intervalMs,omitempty"`
	Cycles        int64     `json:"cycles"`
	LastFetchedAt time.Time `json:"lastFetchedAt,omitzero"`
}

// run is one armed polling loop.
type run struct {
	ctx      context.Context
	cancel   context.CancelFunc
	interval time.Duration
	consumer Consumer
}

// Poller periodically fetches snapshots and hands them to a consumer.
type Poller struct {
	cfg     Config
	fetcher SnapshotFetcher
	logger  *slog.Logger

	mu      sync.Mutex
	current *run

	// deliverMu serializes deliveries so a cancelled run can never deliver
	// alongside its replacement.
	deliverMu sync.Mutex

	// statsMu guards the counters only; it is never held across a consumer call.
	statsMu       sync.Mutex
	cycles        int64
	lastFetchedAt time.Time

	wg sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, fetcher SnapshotFetcher, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		cfg:     cfg,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Start cancels any active run, arms a new one and performs one immediate
// fetch outside the ticker.
func (p *Poller) Start(interval time.Duration, consumer Consumer) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	if consumer == nil {
		return ErrNilConsumer
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		p.current.cancel()
		p.logger.Info("poller restarting", "previous_interval", p.current.interval)
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &run{
		ctx:      ctx,
		cancel:   cancel,
		interval: interval,
		consumer: consumer,
	}
	p.current = r

	p.wg.Add(2)
	go p.loop(r)
	go p.cycle(r)

	p.logger.Info("poller started", "interval", interval)

	return nil
}

// Stop cancels the active run, if any. Safe to call repeatedly.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return
	}
	p.current.cancel()
	p.current = nil

	p.logger.Info("poller stopped")
}

// IsRunning reports whether a run is active.
func (p *Poller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil
}

// Status returns a point-in-time view of the poller.
func (p *Poller) Status() Status {
	p.mu.Lock()
	var s Status
	if p.current != nil {
		s.Running = true
		s.IntervalMs = p.current.interval.Milliseconds()
	}
	p.mu.Unlock()

	p.statsMu.Lock()
	s.Cycles = p.cycles
	s.LastFetchedAt = p.lastFetchedAt
	p.statsMu.Unlock()

	return s
}

// Shutdown stops the poller and waits for in-flight cycles to finish.
func (p *Poller) Shutdown(ctx context.Context) error {
	p.Stop()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// loop fires one cycle per tick until the run is cancelled. Cycles are not
// serialized; a slow fetch does not delay the next tick.
func (p *Poller) loop(r *run) {
	defer p.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			p.wg.Add(1)
			go p.cycle(r)
		}
	}
}

// cycle fetches one snapshot and delivers it unless the run was cancelled.
func (p *Poller) cycle(r *run) {
	defer p.wg.Done()

	ctx := r.ctx
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(r.ctx, p.cfg.Timeout)
		defer cancel()
	}

	snapshot := p.fetcher.FetchSnapshot(ctx)

	p.deliverMu.Lock()
	defer p.deliverMu.Unlock()

	if r.ctx.Err() != nil {
		p.logger.Debug("dropping snapshot from cancelled run")
		return
	}

	p.statsMu.Lock()
	p.cycles++
	p.lastFetchedAt = snapshot.FetchedAt
	p.statsMu.Unlock()

	if err := r.consumer.HandleSnapshot(snapshot); err != nil {
		p.logger.Warn("snapshot consumer failed", "err", err)
	}
}
