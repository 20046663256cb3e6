package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/spapi/pkg/endpoints"
	"github.com/donaldgifford/spapi/pkg/spapi"
)

func kioskCmd() *cobra.Command {
	kioskRoot := &cobra.Command{
		Use:   "kiosk",
		Short: "Manage Data Kiosk queries",
		Long: "Submit GraphQL queries to Data Kiosk, follow their processing status,\n" +
			"and fetch the resulting documents.",
	}

	kioskRoot.AddCommand(
		kioskQueriesCmd(),
		kioskCreateCmd(),
		kioskIDCmd("query <query-id>", "Show one query", (*endpoints.Client).GetQuery),
		kioskIDCmd("cancel <query-id>", "Cancel a query", (*endpoints.Client).CancelQuery),
		kioskIDCmd("document <document-id>", "Get a result document's download URL", (*endpoints.Client).GetDocument),
	)

	return kioskRoot
}

func kioskQueriesCmd() *cobra.Command {
	var (
		statuses []string
		req      endpoints.GetQueriesRequest
	)

	cmd := &cobra.Command{
		Use:     "queries",
		Short:   "List queries",
		Example: `  spapi kiosk queries --status DONE,IN_PROGRESS --page-size 20`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, s := range statuses {
				req.ProcessingStatuses = append(req.ProcessingStatuses, endpoints.ProcessingStatus(s))
			}

			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.close()

			resp, err := a.api.GetQueries(cmd.Context(), req)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printResponse(cmd.OutOrStdout(), resp)
			}

			var result queriesResult
			if err := spapi.DecodeJSON(resp, &result); err != nil {
				return err
			}
			if len(result.Queries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No queries found.")
				return nil
			}
			return printQueriesTable(cmd.OutOrStdout(), &result)
		},
	}

	cmd.Flags().StringSliceVar(&statuses, "status", nil, "processing statuses to include")
	cmd.Flags().IntVar(&req.PageSize, "page-size", 0, "results per page (1-100)")
	cmd.Flags().StringVar(&req.PaginationToken, "page-token", "", "token of the page to return")

	return cmd
}

func kioskCreateCmd() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Submit a query",
		Example: `  spapi kiosk create --query @sales.graphql`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := readData(query)
			if err != nil {
				return err
			}

			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.close()

			resp, err := a.api.CreateQuery(cmd.Context(), endpoints.CreateQuerySpecification{Query: string(q)})
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "GraphQL query, or @file to read it from a file")

	return cmd
}

func kioskIDCmd(
	use, short string,
	call func(*endpoints.Client, context.Context, string) (*http.Response, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.close()

			resp, err := call(a.api, cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}
}
