package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"
	"time"

	"github.com/donaldgifford/spapi/pkg/marketplace"
	"github.com/donaldgifford/spapi/pkg/spapi"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

type marketplaceRow struct {
	Name     string `json:"name"`
	Country  string `json:"country"`
	ID       string `json:"id"`
	Region   string `json:"region"`
	Endpoint string `json:"endpoint"`
}

func marketplaceRows() []marketplaceRow {
	all := marketplace.All()
	rows := make([]marketplaceRow, 0, len(all))
	for _, m := range all {
		id, endpoint := marketplace.Details(m)
		rows = append(rows, marketplaceRow{
			Name:     m.String(),
			Country:  m.CountryCode(),
			ID:       id,
			Region:   m.Region().String(),
			Endpoint: endpoint,
		})
	}
	return rows
}

func printMarketplaceTable(w io.Writer, rows []marketplaceRow) error {
	tw := newTabWriter(w)
	tw.writef("NAME\tCOUNTRY\tID\tREGION\tENDPOINT\n")
	for i := range rows {
		tw.writef("%s\t%s\t%s\t%s\t%s\n",
			rows[i].Name,
			rows[i].Country,
			rows[i].ID,
			rows[i].Region,
			rows[i].Endpoint,
		)
	}
	return tw.finish()
}

type tokenSummary struct {
	TokenType   string    `json:"token_type"`
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func summarizeToken(t *spapi.AccessToken, reveal bool) tokenSummary {
	s := tokenSummary{
		TokenType:   t.TokenType,
		AccessToken: t.AccessToken,
		ExpiresIn:   t.ExpiresIn,
		IssuedAt:    t.IssuedAt,
		ExpiresAt:   t.ExpiresAt(),
	}
	if !reveal {
		s.AccessToken = mask(t.AccessToken)
	}
	return s
}

func printTokenDetail(w io.Writer, s tokenSummary) error {
	tw := newTabWriter(w)
	tw.writef("Type:\t%s\n", s.TokenType)
	tw.writef("Token:\t%s\n", s.AccessToken)
	tw.writef("Expires In:\t%ds\n", s.ExpiresIn)
	tw.writef("Issued At:\t%s\n", s.IssuedAt.Format(time.RFC3339))
	tw.writef("Expires At:\t%s\n", s.ExpiresAt.Format(time.RFC3339))
	return tw.finish()
}

type participationsResult struct {
	Payload []struct {
		Marketplace struct {
			ID                  string `json:"id"`
			Name                string `json:"name"`
			CountryCode         string `json:"countryCode"`
			DefaultCurrencyCode string `json:"defaultCurrencyCode"`
		} `json:"marketplace"`
		Participation struct {
			IsParticipating      bool `json:"isParticipating"`
			HasSuspendedListings bool `json:"hasSuspendedListings"`
		} `json:"participation"`
	} `json:"payload"`
}

func printParticipationsTable(w io.Writer, r *participationsResult) error {
	tw := newTabWriter(w)
	tw.writef("ID\tNAME\tCOUNTRY\tCURRENCY\tPARTICIPATING\tSUSPENDED\n")
	for i := range r.Payload {
		p := &r.Payload[i]
		tw.writef("%s\t%s\t%s\t%s\t%v\t%v\n",
			p.Marketplace.ID,
			p.Marketplace.Name,
			p.Marketplace.CountryCode,
			p.Marketplace.DefaultCurrencyCode,
			p.Participation.IsParticipating,
			p.Participation.HasSuspendedListings,
		)
	}
	return tw.finish()
}

type catalogSearchResult struct {
	NumberOfResults int `json:"numberOfResults"`
	Pagination      struct {
		NextToken string `json:"nextToken"`
	} `json:"pagination"`
	Items []struct {
		ASIN      string `json:"asin"`
		Summaries []struct {
			MarketplaceID string `json:"marketplaceId"`
			ItemName      string `json:"itemName"`
			BrandName     string `json:"brandName"`
		} `json:"summaries"`
	} `json:"items"`
}

func printCatalogTable(w io.Writer, r *catalogSearchResult) error {
	tw := newTabWriter(w)
	tw.writef("ASIN\tBRAND\tNAME\n")
	for i := range r.Items {
		item := &r.Items[i]
		brand, name := "-", "-"
		if len(item.Summaries) > 0 {
			brand = item.Summaries[0].BrandName
			name = truncate(item.Summaries[0].ItemName, 60)
		}
		tw.writef("%s\t%s\t%s\n", item.ASIN, brand, name)
	}
	if err := tw.finish(); err != nil {
		return err
	}
	if r.Pagination.NextToken != "" {
		_, err := fmt.Fprintf(w, "\nNext page token: %s\n", r.Pagination.NextToken)
		return err
	}
	return nil
}

type queriesResult struct {
	Queries []struct {
		QueryID          string `json:"queryId"`
		ProcessingStatus string `json:"processingStatus"`
		CreatedTime      string `json:"createdTime"`
		DataDocumentID   string `json:"dataDocumentId"`
	} `json:"queries"`
	Pagination struct {
		NextToken string `json:"nextToken"`
	} `json:"pagination"`
}

func printQueriesTable(w io.Writer, r *queriesResult) error {
	tw := newTabWriter(w)
	tw.writef("QUERY ID\tSTATUS\tCREATED\tDOCUMENT\n")
	for i := range r.Queries {
		q := &r.Queries[i]
		doc := q.DataDocumentID
		if doc == "" {
			doc = "-"
		}
		tw.writef("%s\t%s\t%s\t%s\n", q.QueryID, q.ProcessingStatus, q.CreatedTime, doc)
	}
	return tw.finish()
}

// printResponse decodes any JSON response and writes it indented.
func printResponse(w io.Writer, resp *http.Response) error {
	var body any
	if err := spapi.DecodeJSON(resp, &body); err != nil {
		return err
	}
	if body == nil {
		return nil
	}
	return outputJSON(w, body)
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func mask(token string) string {
	const visible = 8
	if len(token) <= visible {
		return "****"
	}
	return token[:visible] + "****"
}
