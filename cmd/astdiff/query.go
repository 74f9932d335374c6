package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/astdiff/pkg/uast"
)

func queryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query file expression",
		Short: "Parse a source file and run a UAST query DSL expression against it",
		Long: `query parses file into a UAST tree and evaluates expression against it, e.g.:

  astdiff query main.go 'filter(.type == "Function")'

Matching nodes are printed as JSON, one per line.`,
		Args: cobra.ExactArgs(2), //nolint:mnd // file path + query expression
		RunE: func(_ *cobra.Command, args []string) error {
			return runQuery(args[0], args[1])
		},
	}
}

func runQuery(filename, expression string) error {
	parser, err := uast.NewParser()
	if err != nil {
		return fmt.Errorf("init parser: %w", err)
	}

	if !parser.IsSupported(filename) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFileType, filename)
	}

	n, err := parseFile(context.Background(), parser, filename, slog.Default())
	if err != nil {
		return err
	}

	matches, err := n.FindDSL(expression)
	if err != nil {
		return fmt.Errorf("evaluate query: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)

	for _, m := range matches {
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("encode match: %w", err)
		}
	}

	return nil
}
