package cmd

import (
	"github.com/spf13/cobra"
)

func tokenCmd() *cobra.Command {
	var (
		reveal bool
		reset  bool
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Exchange the refresh token for an access token",
		Long: "Obtain a fresh access token from Login with Amazon (or the shared\n" +
			"token cache) and print its lifetime. The token itself is masked\n" +
			"unless --reveal is given. --reset discards any cached token first,\n" +
			"forcing a new exchange.",
		Example: `  spapi token --marketplace US
  spapi token --reveal --output json
  spapi token --reset --redis-addr localhost:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.close()

			if reset {
				if err := a.resetToken(cmd.Context()); err != nil {
					return err
				}
			}

			tok, err := a.session.Tokens().EnsureFresh(cmd.Context())
			if err != nil {
				return err
			}

			s := summarizeToken(tok, reveal)
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), s)
			}
			return printTokenDetail(cmd.OutOrStdout(), s)
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "print the full access token")
	cmd.Flags().BoolVar(&reset, "reset", false, "discard the cached access token before exchanging")

	return cmd
}
