package cmd

import (
	"github.com/spf13/cobra"

	"github.com/donaldgifford/spapi/pkg/spapi"
)

func sellersCmd() *cobra.Command {
	sellersRoot := &cobra.Command{
		Use:   "sellers",
		Short: "Seller account information",
	}

	sellersRoot.AddCommand(
		&cobra.Command{
			Use:   "account",
			Short: "Show the seller's account",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := loadApp()
				if err != nil {
					return err
				}
				defer a.close()

				resp, err := a.api.GetAccount(cmd.Context())
				if err != nil {
					return err
				}
				return printResponse(cmd.OutOrStdout(), resp)
			},
		},
		&cobra.Command{
			Use:   "participations",
			Short: "List the marketplaces the seller participates in",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := loadApp()
				if err != nil {
					return err
				}
				defer a.close()

				resp, err := a.api.GetMarketplaceParticipations(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printResponse(cmd.OutOrStdout(), resp)
				}

				var result participationsResult
				if err := spapi.DecodeJSON(resp, &result); err != nil {
					return err
				}
				return printParticipationsTable(cmd.OutOrStdout(), &result)
			},
		},
	)

	return sellersRoot
}
