package cmd

import (
	"github.com/spf13/cobra"
)

func marketplacesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "marketplaces",
		Short: "List supported marketplaces",
		Long: "List every supported marketplace with its country code, marketplace id,\n" +
			"region, and the Selling Partner API host serving it.",
		Example: `  # Table of all marketplaces
  spapi marketplaces

  # As JSON
  spapi marketplaces --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows := marketplaceRows()
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), rows)
			}
			return printMarketplaceTable(cmd.OutOrStdout(), rows)
		},
	}
}
