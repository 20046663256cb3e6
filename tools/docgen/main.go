// Package main writes the spapi CLI reference as Markdown pages or man
// pages, one file per command.
//
// Usage:
//
//	go run ./tools/docgen -output docs/cli
//	go run ./tools/docgen -format man -output docs/man
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/donaldgifford/spapi/cmd/spapi/cmd"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("docgen", flag.ContinueOnError)
	output := fs.String("output", "docs/cli", "output directory for generated pages")
	format := fs.String("format", "markdown", "page format: markdown or man")
	if err := fs.Parse(args); err != nil {
		return err
	}

	root := cmd.Root()
	root.DisableAutoGenTag = true

	var gen func() error
	switch *format {
	case "markdown":
		gen = func() error { return doc.GenMarkdownTree(root, *output) }
	case "man":
		header := &doc.GenManHeader{Title: "SPAPI", Section: "1", Source: "spapi " + cmd.Version}
		gen = func() error { return doc.GenManTree(root, header, *output) }
	default:
		return fmt.Errorf("unknown format %q (want markdown or man)", *format)
	}

	if err := os.MkdirAll(*output, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := gen(); err != nil {
		return fmt.Errorf("generating %s docs: %w", *format, err)
	}

	_, _ = fmt.Fprintf(stdout, "CLI %s docs generated in %s/\n", *format, *output)
	return nil
}
