package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rickgao/ouc-dashboard/internal/model"
)

const insertSnapshot = `
INSERT INTO dashboard_snapshots (id, fetched_at, failures, payload)
VALUES ($1, $2, $3, $4)`

// Execer runs a statement. *pgxpool.Pool satisfies it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// WriterConfig holds writer configuration.
type WriterConfig struct {
	Timeout time.Duration // Per-insert timeout (default: 5s)
}

// DefaultWriterConfig returns sensible defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		Timeout: 5 * time.Second,
	}
}

// WriterMetrics tracks writer activity.
type WriterMetrics struct {
	Inserted     int64
	Errors       int64
	LastInsertID uuid.UUID
}

// SnapshotWriter is a poller consumer that appends every snapshot to the
// archive table.
type SnapshotWriter struct {
	cfg    WriterConfig
	db     Execer
	logger *slog.Logger
	newID  func() uuid.UUID

	mu      sync.Mutex
	metrics WriterMetrics
}

// NewSnapshotWriter creates a new SnapshotWriter.
func NewSnapshotWriter(cfg WriterConfig, db Execer, logger *slog.Logger) *SnapshotWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultWriterConfig().Timeout
	}
	return &SnapshotWriter{
		cfg:    cfg,
		db:     db,
		logger: logger,
		newID:  uuid.New,
	}
}

// HandleSnapshot implements poller.Consumer.
func (w *SnapshotWriter) HandleSnapshot(snapshot model.Snapshot) error {
	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.Timeout)
	defer cancel()
	return w.Write(ctx, snapshot)
}

// Write inserts one snapshot row.
func (w *SnapshotWriter) Write(ctx context.Context, snapshot model.Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		w.recordError()
		return fmt.Errorf("encode snapshot: %w", err)
	}

	fetchedAt := snapshot.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	id := w.newID()
	start := time.Now()

	if _, err := w.db.Exec(ctx, insertSnapshot, id, fetchedAt.UTC(), len(snapshot.Failures), payload); err != nil {
		w.recordError()
		w.logger.Error("failed to archive snapshot", "err", err)
		return fmt.Errorf("insert snapshot: %w", err)
	}

	w.mu.Lock()
	w.metrics.Inserted++
	w.metrics.LastInsertID = id
	w.mu.Unlock()

	w.logger.Debug("archived snapshot",
		"id", id,
		"failures", len(snapshot.Failures),
		"duration", time.Since(start),
	)

	return nil
}

// Stats returns current metrics.
func (w *SnapshotWriter) Stats() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

func (w *SnapshotWriter) recordError() {
	w.mu.Lock()
	w.metrics.Errors++
	w.mu.Unlock()
}
