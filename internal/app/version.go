package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rickgao/ouc-dashboard/internal/version"
)

var versionJSON bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionJSON {
			return printJSON(cmd.OutOrStdout(), version.Current())
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "ouc-dashboard "+version.String())
		return err
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "print as JSON")
	RootCmd.AddCommand(versionCmd)
}
