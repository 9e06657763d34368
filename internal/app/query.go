package app

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rickgao/ouc-dashboard/internal/indexer"
)

var (
	eventsOpts  indexer.GetEventsOptions
	auditorsRPC bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch and print one dashboard snapshot",
	Long: `Fetch every source concurrently and print the merged snapshot.

Sources that fail are listed under "failures" and contribute an empty value.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		agg, cleanup := newAggregator(cfg, slog.Default())
		defer cleanup()

		return printJSON(cmd.OutOrStdout(), agg.FetchSnapshot(cmd.Context()))
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List indexed events",
	Example: `  # Latest 20 events
  ouc-dashboard events --limit 20

  # Events from one contract and topic
  ouc-dashboard events --contract 0xabc --topic Transfer`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		page, err := newIndexerClient(cfg, slog.Default()).GetEvents(cmd.Context(), eventsOpts)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), page)
	},
}

var eventCmd = &cobra.Command{
	Use:   "event <id>",
	Short: "Show one indexed event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		event, err := newIndexerClient(cfg, slog.Default()).GetEvent(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), event)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show indexer statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		stats, err := newIndexerClient(cfg, slog.Default()).GetStats(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), stats)
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show indexer health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		health, err := newIndexerClient(cfg, slog.Default()).GetHealth(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), health)
	},
}

var auditorsCmd = &cobra.Command{
	Use:   "auditors",
	Short: "List registered auditors",
	Long: `List registered auditors from the indexer, or from the OUC canister
with --rpc.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := slog.Default()

		if auditorsRPC {
			ledger, closeFn := newLedger(cfg, logger)
			defer closeFn()
			auditors, err := ledger.ListAuditors(cmd.Context(), 0)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), auditors)
		}

		auditors, err := newIndexerClient(cfg, logger).GetAuditors(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), auditors)
	},
}

var auditorCmd = &cobra.Command{
	Use:   "auditor <id>",
	Short: "Show one auditor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		auditor, err := newIndexerClient(cfg, slog.Default()).GetAuditor(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("auditor %s: %w", args[0], err)
		}
		return printJSON(cmd.OutOrStdout(), auditor)
	},
}

func init() {
	f := eventsCmd.Flags()
	f.StringVar(&eventsOpts.Contract, "contract", "", "filter by contract address")
	f.StringVar(&eventsOpts.Topic, "topic", "", "filter by event topic")
	f.StringVar(&eventsOpts.Chain, "chain", "", "filter by chain")
	f.Int64Var(&eventsOpts.From, "from", 0, "lower timestamp bound (ns)")
	f.Int64Var(&eventsOpts.To, "to", 0, "upper timestamp bound (ns)")
	f.StringVar(&eventsOpts.Cursor, "cursor", "", "pagination cursor")
	f.IntVar(&eventsOpts.Limit, "limit", 0, "maximum events to return (default: indexer default)")

	auditorsCmd.Flags().BoolVar(&auditorsRPC, "rpc", false, "read from the OUC canister instead of the indexer")

	RootCmd.AddCommand(snapshotCmd, eventsCmd, eventCmd, statsCmd, healthCmd, auditorsCmd, auditorCmd)
}
