package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/spapi/pkg/spapi"
)

// Version is set at build time via ldflags.
var Version = "dev"

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "spapi %s (%s)\n", Version, spapi.UserAgent)
		},
	}
}
