package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string

	// RootCmd is the root command for ouc-dashboard
	RootCmd = &cobra.Command{
		Use:   "ouc-dashboard",
		Short: "Live dashboard for the OUC auditor network",
		Long: `ouc-dashboard aggregates auditors, indexed events, subscription,
treasury and sync status into one snapshot and streams it to dashboards.

Every source is fetched concurrently. A source that fails contributes an
empty value instead of failing the snapshot.

Examples:
  # Print one snapshot
  ouc-dashboard snapshot

  # Serve the live WebSocket stream on :8080/ws
  ouc-dashboard serve --config dashboard.yaml

  # Recent events for one chain
  ouc-dashboard events --chain ethereum --limit 20`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLevel(logLevel)
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			}))
			slog.SetDefault(logger)
			return nil
		},
	}
)

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default: built-in defaults)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command, cancelling its context on SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return RootCmd.ExecuteContext(ctx)
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q (want debug, info, warn or error)", s)
	}
}
