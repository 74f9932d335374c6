package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/xeipuuv/gojsonschema"

	"github.com/Sumatoshi-tech/astdiff/pkg/uast"
	"github.com/Sumatoshi-tech/astdiff/pkg/uast/pkg/spec"
)

// exitCodeValidationFailure is the exit code returned when a parsed tree
// fails schema validation.
const exitCodeValidationFailure = 2

// ErrSchemaValidation is returned when a parsed tree does not conform to the
// embedded UAST schema.
var ErrSchemaValidation = errors.New("uast schema validation failed")

func validateCmd() *cobra.Command {
	var schemaPath string

	cmd := &cobra.Command{
		Use:   "validate file",
		Short: "Parse a source file and validate its UAST against the canonical schema",
		Long: `validate parses file into a UAST tree, serializes it to JSON, and checks
the result against the embedded UAST JSON schema, the same shape the
top-down and bottom-up matchers operate on.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0], schemaPath)
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "path to a replacement UAST JSON schema (default: embedded)")

	return cmd
}

func runValidate(filename, schemaPath string) error {
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

	treeJSON, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal parsed tree: %w", err)
	}

	schemaLoader, err := loadSchema(schemaPath)
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(treeJSON))
	if err != nil {
		return fmt.Errorf("run schema validation: %w", err)
	}

	if result.Valid() {
		color.New(color.FgGreen).Printf("%s: valid UAST\n", filename)

		return nil
	}

	color.New(color.FgRed).Printf("%s: invalid UAST\n", filename)

	for _, verr := range result.Errors() {
		color.New(color.FgYellow).Printf("  - %s: %s\n", verr.Field(), verr.Description())
	}

	fmt.Fprintf(os.Stderr, "%s: %s (%d errors)\n", ErrSchemaValidation, filename, len(result.Errors()))
	os.Exit(exitCodeValidationFailure)

	return nil
}

func loadSchema(path string) (gojsonschema.JSONLoader, error) {
	if path == "" {
		schemaBytes, err := spec.UASTSchemaFS.ReadFile("uast-schema.json")
		if err != nil {
			return nil, fmt.Errorf("read embedded schema: %w", err)
		}

		return gojsonschema.NewBytesLoader(schemaBytes), nil
	}

	schemaBytes, err := os.ReadFile(path) //nolint:gosec // operator-supplied path, CLI tool
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}

	return gojsonschema.NewBytesLoader(schemaBytes), nil
}
