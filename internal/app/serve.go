package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickgao/ouc-dashboard/internal/archive"
	"github.com/rickgao/ouc-dashboard/internal/config"
	"github.com/rickgao/ouc-dashboard/internal/poller"
	"github.com/rickgao/ouc-dashboard/internal/server"
	"github.com/rickgao/ouc-dashboard/internal/version"
)

var (
	serveWatch  bool
	serveNoPoll bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Poll snapshots and stream them to dashboards",
	Long: `Start the snapshot poller and the push server.

Dashboards connect to the WebSocket path (default /ws) and receive every
snapshot along with the events that are new since the previous one.
Polling can be started and stopped over HTTP:

  POST /polling/start  {"intervalMs": 5000}
  POST /polling/stop
  GET  /polling/status

With --watch, edits to poller.interval in the config file restart the
poller with the new interval.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload poller.interval when the config file changes")
	serveCmd.Flags().BoolVar(&serveNoPoll, "no-poll", false, "do not start polling until POST /polling/start")
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := slog.Default()

	logger.Info("starting ouc-dashboard",
		"version", version.Version,
		"commit", version.Commit,
		"config", configPath,
	)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger.Info("configuration loaded",
		"environment", cfg.Environment,
		"indexer_url", cfg.Indexer.URL,
		"backend_host", cfg.Backend.Host,
		"sources", cfg.Backend.Sources,
	)

	agg, cleanup := newAggregator(cfg, logger)
	defer cleanup()

	hub := server.NewHub(server.DefaultHubConfig(), logger)
	consumers := []poller.Consumer{hub}

	if cfg.Archive.Enabled {
		logger.Info("connecting to archive database",
			"host", cfg.Archive.Host,
			"port", cfg.Archive.Port,
			"database", cfg.Archive.Name,
		)
		pool, err := archive.Connect(ctx, cfg.Archive.DBConfig)
		if err != nil {
			return fmt.Errorf("failed to connect to archive: %w", err)
		}
		defer pool.Close()

		if err := archive.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		consumers = append(consumers, archive.NewSnapshotWriter(archive.DefaultWriterConfig(), pool, logger))
		logger.Info("archive connected")
	}

	consumer := poller.Fanout(consumers...)
	p := poller.New(poller.Config{Timeout: cfg.Poller.Timeout}, agg, logger)

	srv := server.New(server.Config{
		Port:            cfg.Server.Port,
		Path:            cfg.Server.Path,
		DefaultInterval: cfg.Poller.Interval,
	}, hub, p, consumer, logger)

	if !serveNoPoll {
		if err := p.Start(cfg.Poller.Interval, consumer); err != nil {
			return fmt.Errorf("failed to start poller: %w", err)
		}
	}

	if serveWatch && configPath != "" {
		interval := cfg.Poller.Interval
		stopWatch, err := watchConfig(configPath, logger, func(next *config.DashboardConfig) {
			if next.Poller.Interval == interval {
				return
			}
			interval = next.Poller.Interval
			if !p.IsRunning() {
				return
			}
			if err := p.Start(interval, consumer); err != nil {
				logger.Warn("failed to restart poller", "err", err)
			}
		})
		if err != nil {
			return err
		}
		defer stopWatch()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("ouc-dashboard running",
		"ws_url", fmt.Sprintf("ws://localhost:%d%s", cfg.Server.Port, cfg.Server.Path),
		"interval", cfg.Poller.Interval,
	)

	select {
	case <-ctx.Done():
		logger.Info("shutting down...")
	case err := <-errCh:
		if err != nil {
			p.Stop()
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown incomplete", "err", err)
	}
	if err := p.Shutdown(shutdownCtx); err != nil {
		logger.Warn("poller shutdown incomplete", "err", err)
	}

	logger.Info("ouc-dashboard stopped")
	return nil
}
