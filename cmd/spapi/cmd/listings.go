package cmd

import (
	"github.com/spf13/cobra"

	"github.com/donaldgifford/spapi/pkg/endpoints"
)

func listingsCmd() *cobra.Command {
	listingsRoot := &cobra.Command{
		Use:   "listings",
		Short: "Inspect and update the seller's listings",
	}

	listingsRoot.AddCommand(
		listingsGetCmd(),
		listingsSearchCmd(),
		listingsPatchCmd(),
	)

	return listingsRoot
}

func listingsGetCmd() *cobra.Command {
	var (
		includedData []string
		issueLocale  string
	)

	cmd := &cobra.Command{
		Use:     "get <seller-id> <sku>",
		Short:   "Get one listing by SKU",
		Example: `  spapi listings get A2SELLER R740-2U --included-data summaries,issues`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.close()

			resp, err := a.api.GetListingsItem(cmd.Context(), args[0], args[1], includedData, issueLocale)
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringSliceVar(&includedData, "included-data", []string{endpoints.IncludeSummaries}, "data sets to include")
	cmd.Flags().StringVar(&issueLocale, "issue-locale", "", "locale of issue messages")

	return cmd
}

func listingsSearchCmd() *cobra.Command {
	var req endpoints.SearchListingsItemsRequest

	cmd := &cobra.Command{
		Use:   "search <seller-id>",
		Short: "Search the seller's listings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.close()

			resp, err := a.api.SearchListingsItems(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&req.Identifiers, "identifiers", nil, "listing identifiers")
	f.StringVar(&req.IdentifiersType, "identifiers-type", "", "identifier type")
	f.StringVar(&req.VariationParentSKU, "variation-parent-sku", "", "only children of this parent SKU")
	f.StringVar(&req.PackageHierarchySKU, "package-hierarchy-sku", "", "only this package hierarchy")
	f.StringSliceVar(&req.WithStatus, "with-status", nil, "only listings with these statuses")
	f.StringSliceVar(&req.IncludedData, "included-data", nil, "data sets to include")
	f.IntVar(&req.PageSize, "page-size", 0, "results per page (max 20)")
	f.StringVar(&req.PageToken, "page-token", "", "token of the page to return")

	return cmd
}

func listingsPatchCmd() *cobra.Command {
	var (
		data    string
		preview bool
	)

	cmd := &cobra.Command{
		Use:   "patch <seller-id> <sku>",
		Short: "Partially update a listing",
		Example: `  # Validate a patch without applying it
  spapi listings patch A2SELLER R740-2U --data @patch.json --preview`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readData(data)
			if err != nil {
				return err
			}

			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.close()

			resp, err := a.api.PatchListingsItem(cmd.Context(), args[0], args[1], endpoints.PatchListingsItemRequest{
				Body:              body,
				ValidationPreview: preview,
			})
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "patch document, or @file to read it from a file")
	cmd.Flags().BoolVar(&preview, "preview", false, "validate without applying")

	return cmd
}
