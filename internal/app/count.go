package app

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var countProposal uint64

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count auditors, or votes on a proposal",
	Long: `Read a counter from the OUC canister.

Without flags, prints the number of registered auditors. With --proposal,
prints the number of votes cast on that proposal.`,
	Example: `  ouc-dashboard count
  ouc-dashboard count --proposal 42`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ledger, closeFn := newLedger(cfg, slog.Default())
		defer closeFn()

		if cmd.Flags().Changed("proposal") {
			votes, err := ledger.ProposalVoteCount(cmd.Context(), countProposal)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]uint64{"proposal": countProposal, "votes": votes})
		}

		n, err := ledger.AuditorCount(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]uint64{"auditors": n})
	},
}

func init() {
	countCmd.Flags().Uint64Var(&countProposal, "proposal", 0, "proposal id to count votes for")
	RootCmd.AddCommand(countCmd)
}
