// Package validate checks generated dashboards and rules: every PromQL
// expression must parse and reference only known metric names.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/spapi/tools/dashgen/rules"
)

// Result collects validation findings. Errors fail generation; warnings
// are reported.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) merge(o Result) {
	r.Errors = append(r.Errors, o.Errors...)
	r.Warnings = append(r.Warnings, o.Warnings...)
}

// Expr parses expr and checks the metric names it selects against known.
func Expr(expr string, known map[string]bool) Result {
	var res Result

	parsed, err := parser.ParseExpr(expr)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("parsing %q: %v", expr, err))
		return res
	}

	parser.Inspect(parsed, func(node parser.Node, _ []parser.Node) error {
		vs, ok := node.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !known[vs.Name] {
			res.Errors = append(res.Errors, fmt.Sprintf("unknown metric %q in %q", vs.Name, expr))
		}
		return nil
	})

	return res
}

// Dashboard validates every query expression in dash. A panel with no
// queries is a warning.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var res Result

	data, err := json.Marshal(dash)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("encoding dashboard: %v", err))
		return res
	}

	var doc struct {
		Panels []panel `json:"panels"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("decoding dashboard: %v", err))
		return res
	}

	for _, p := range doc.Panels {
		if p.Type == "row" {
			for _, inner := range p.Panels {
				res.merge(inner.validate(known))
			}
			continue
		}
		res.merge(p.validate(known))
	}

	return res
}

type panel struct {
	Type    string  `json:"type"`
	Title   string  `json:"title"`
	Panels  []panel `json:"panels"`
	Targets []struct {
		Expr string `json:"expr"`
	} `json:"targets"`
}

func (p panel) validate(known map[string]bool) Result {
	var res Result
	if len(p.Targets) == 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("panel %q has no queries", p.Title))
		return res
	}
	for _, t := range p.Targets {
		if strings.TrimSpace(t.Expr) == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("panel %q has an empty query", p.Title))
			continue
		}
		res.merge(Expr(t.Expr, known))
	}
	return res
}

// Rules validates every expression in cr. Recording rule names are added to
// known as they are seen, so later rules may reference earlier ones.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var res Result
	for _, g := range cr.Spec.Groups {
		for _, r := range g.Rules {
			if r.Record == "" && r.Alert == "" {
				res.Errors = append(res.Errors, fmt.Sprintf("rule in group %q has neither record nor alert", g.Name))
			}
			res.merge(Expr(r.Expr, known))
			if r.Record != "" {
				known[r.Record] = true
			}
		}
	}
	return res
}
