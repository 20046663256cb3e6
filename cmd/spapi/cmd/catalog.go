package cmd

import (
	"github.com/spf13/cobra"

	"github.com/donaldgifford/spapi/pkg/endpoints"
	"github.com/donaldgifford/spapi/pkg/spapi"
)

func catalogCmd() *cobra.Command {
	catalogRoot := &cobra.Command{
		Use:   "catalog",
		Short: "Search and inspect the Amazon catalog",
	}

	catalogRoot.AddCommand(
		catalogSearchCmd(),
		catalogGetCmd(),
	)

	return catalogRoot
}

func catalogSearchCmd() *cobra.Command {
	var req endpoints.SearchCatalogItemsRequest

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search catalog items by keywords or identifiers",
		Example: `  # Keyword search
  spapi catalog search --keywords "poweredge r740" --page-size 5

  # Look up by identifiers
  spapi catalog search --identifiers B07XYZ1234,B08ABC5678 --identifiers-type ASIN`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.close()

			resp, err := a.api.SearchCatalogItems(cmd.Context(), req)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printResponse(cmd.OutOrStdout(), resp)
			}

			var result catalogSearchResult
			if err := spapi.DecodeJSON(resp, &result); err != nil {
				return err
			}
			return printCatalogTable(cmd.OutOrStdout(), &result)
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&req.Keywords, "keywords", nil, "keywords to search for")
	f.StringSliceVar(&req.Identifiers, "identifiers", nil, "product identifiers")
	f.StringVar(&req.IdentifiersType, "identifiers-type", "", "identifier type (ASIN, EAN, GTIN, ISBN, JAN, MINSAN, SKU, UPC)")
	f.StringVar(&req.SellerID, "seller-id", "", "seller id, required for SKU identifiers")
	f.StringSliceVar(&req.IncludedData, "included-data", []string{"summaries"}, "data sets to include")
	f.StringSliceVar(&req.BrandNames, "brand", nil, "brand names to filter keyword searches by")
	f.StringSliceVar(&req.ClassificationIDs, "classification", nil, "classification ids to filter keyword searches by")
	f.StringVar(&req.Locale, "locale", "", "locale of the returned summaries")
	f.IntVar(&req.PageSize, "page-size", 0, "results per page (max 20)")
	f.StringVar(&req.PageToken, "page-token", "", "token of the page to return")

	return cmd
}

func catalogGetCmd() *cobra.Command {
	var (
		includedData []string
		locale       string
	)

	cmd := &cobra.Command{
		Use:   "get <asin>",
		Short: "Get one catalog item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.close()

			resp, err := a.api.GetCatalogItem(cmd.Context(), args[0], includedData, locale)
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringSliceVar(&includedData, "included-data", []string{"summaries"}, "data sets to include")
	cmd.Flags().StringVar(&locale, "locale", "", "locale of the returned summaries")

	return cmd
}
