package app

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"
)

var tierCmd = &cobra.Command{
	Use:     "tier <tier>",
	Short:   "Change the subscription tier",
	Example: `  ouc-dashboard tier pro`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sub, err := newIndexerClient(cfg, slog.Default()).ChangeTier(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), sub)
	},
}

var autoRenewCmd = &cobra.Command{
	Use:   "auto-renew <on|off>",
	Short: "Enable or disable subscription auto-renewal",
	Example: `  ouc-dashboard auto-renew on
  ouc-dashboard auto-renew false`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		enabled, err := parseToggle(args[0])
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sub, err := newIndexerClient(cfg, slog.Default()).SetAutoRenew(cmd.Context(), enabled)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), sub)
	},
}

func parseToggle(s string) (bool, error) {
	switch s {
	case "on", "enable", "enabled":
		return true, nil
	case "off", "disable", "disabled":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid value %q (want on or off)", s)
	}
	return v, nil
}

func init() {
	RootCmd.AddCommand(tierCmd, autoRenewCmd)
}
