package app

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/rickgao/ouc-dashboard/internal/backend"
	"github.com/rickgao/ouc-dashboard/internal/config"
	"github.com/rickgao/ouc-dashboard/internal/dashboard"
	"github.com/rickgao/ouc-dashboard/internal/indexer"
	"github.com/rickgao/ouc-dashboard/internal/version"
)

// loadConfig loads the --config file, or the defaults when none is given.
func loadConfig() (*config.DashboardConfig, error) {
	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newIndexerClient(cfg *config.DashboardConfig, logger *slog.Logger) *indexer.Client {
	return indexer.NewClient(
		cfg.Indexer.URL,
		indexer.WithTimeout(cfg.Indexer.Timeout),
		indexer.WithLogger(logger),
		indexer.WithUserAgent(version.UserAgent()),
	)
}

// newLedger builds a Ledger on the connection strategy for the configured
// environment. The returned func closes the provider.
func newLedger(cfg *config.DashboardConfig, logger *slog.Logger) (*backend.Ledger, func()) {
	opts := backend.Options{
		Host:       cfg.Backend.Host,
		CanisterID: cfg.Backend.CanisterID,
		Logger:     logger,
	}
	if cfg.Environment.IsLocal() {
		opts.Bootstrap = backend.NewHTTPRootKeyFetcher(cfg.Backend.Timeout)
	}

	provider := backend.NewProvider(cfg.Environment, opts)
	closeFn := func() {
		if err := provider.Close(); err != nil {
			logger.Warn("failed to close backend provider", "err", err)
		}
	}
	return backend.NewLedger(provider, cfg.Backend.Timeout, logger), closeFn
}

// newAggregator wires the snapshot sources selected by backend.sources.
func newAggregator(cfg *config.DashboardConfig, logger *slog.Logger) (*dashboard.Aggregator, func()) {
	client := newIndexerClient(cfg, logger)

	var sources dashboard.Sources = client
	cleanup := func() {}
	if cfg.Backend.Sources == config.SourcesRPC {
		ledger, closeFn := newLedger(cfg, logger)
		sources = dashboard.WithLedger(client, ledger)
		cleanup = closeFn
	}

	agg := dashboard.NewAggregator(dashboard.Config{EventLimit: cfg.Indexer.EventLimit}, sources, logger)
	return agg, cleanup
}

// printJSON writes v as JSON, indented when w is a terminal.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if isTerminal(w) {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
