package cmd

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/spapi/pkg/spapi"
)

func getCmd() *cobra.Command {
	var (
		rawParams []string
		method    string
		data      string
	)

	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "Call any Selling Partner API path",
		Long: "Send an authenticated request to an arbitrary path on the marketplace's\n" +
			"regional host. Parameters keep the order given; marketplaceIds is added\n" +
			"automatically. The response body is printed as JSON.",
		Example: `  # Catalog item
  spapi get /catalog/2022-04-01/items/B07XYZ1234 -p includedData=summaries

  # Repeated keys are sent in order
  spapi get /x -p a=1 -p a=2

  # POST with a body read from a file
  spapi get /dataKiosk/2023-11-15/queries --method POST --data @query.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(rawParams)
			if err != nil {
				return err
			}
			body, err := readData(data)
			if err != nil {
				return err
			}

			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.close()

			var resp *http.Response
			if body != nil {
				resp, err = a.session.RequestWithBody(cmd.Context(), args[0], strings.ToUpper(method), params, body)
			} else {
				resp, err = a.session.Request(cmd.Context(), args[0], strings.ToUpper(method), params)
			}
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringArrayVarP(&rawParams, "param", "p", nil, "query parameter as key=value (repeatable)")
	cmd.Flags().StringVar(&method, "method", http.MethodGet, "HTTP method")
	cmd.Flags().StringVar(&data, "data", "", "request body, or @file to read it from a file")

	return cmd
}

// parseParams splits key=value pairs, keeping their order.
func parseParams(raw []string) ([]spapi.Param, error) {
	params := make([]spapi.Param, 0, len(raw))
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", kv)
		}
		params = append(params, spapi.Param{Key: k, Value: v})
	}
	return params, nil
}

func readData(data string) ([]byte, error) {
	if data == "" {
		return nil, nil
	}
	if path, ok := strings.CutPrefix(data, "@"); ok {
		b, err := os.ReadFile(path) //nolint:gosec // path from trusted CLI flag
		if err != nil {
			return nil, fmt.Errorf("reading request body: %w", err)
		}
		return b, nil
	}
	return []byte(data), nil
}
