package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/astdiff/pkg/uast/pkg/mapping"
)

// errMissingRequiredFlag is returned when a required CLI flag was left unset.
var errMissingRequiredFlag = errors.New("missing required flag")

func uastmapGenerateCmd() *cobra.Command {
	var language, extensions string

	cmd := &cobra.Command{
		Use:   "uastmap-generate node-types.json",
		Short: "Generate a starter .uastmap file from a tree-sitter node-types.json",
		Long: `uastmap-generate reads a tree-sitter grammar's node-types.json, classifies each
node type as a leaf/container/operator, guesses a canonical UAST type and
roles per node, and writes a starter mapping DSL file an operator can refine
by hand before dropping it into pkg/uast/uastmaps for a new language.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runUASTMapGenerate(args[0], language, extensions)
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "language name for the generated mapping (required)")
	cmd.Flags().StringVar(&extensions, "extensions", "", "comma-separated file extensions the language covers")

	return cmd
}

func runUASTMapGenerate(nodeTypesPath, language, extensions string) error {
	if language == "" {
		return fmt.Errorf("%w: --language", errMissingRequiredFlag)
	}

	data, err := os.ReadFile(nodeTypesPath) //nolint:gosec // operator-supplied path, CLI tool
	if err != nil {
		return fmt.Errorf("read %s: %w", nodeTypesPath, err)
	}

	nodeTypes, err := mapping.ParseNodeTypes(data)
	if err != nil {
		return fmt.Errorf("parse node-types.json: %w", err)
	}

	nodeTypes = mapping.ApplyHeuristicClassification(nodeTypes)

	dsl := mapping.GenerateMappingDSL(nodeTypes, language, splitExtensions(extensions))

	fmt.Fprint(os.Stdout, dsl)

	reportCoverage(nodeTypes, dsl)

	return nil
}

// reportCoverage re-parses the freshly generated mapping DSL and prints what
// fraction of the grammar's node types it covers, so an operator refining the
// starter file by hand knows how much hand-mapping work remains.
func reportCoverage(nodeTypes []mapping.NodeTypeInfo, dsl string) {
	rules, _, err := (&mapping.Parser{}).ParseMapping(strings.NewReader(dsl))
	if err != nil {
		fmt.Fprintf(os.Stderr, "coverage: generated DSL did not parse back cleanly: %v\n", err)

		return
	}

	coverage, err := mapping.CoverageAnalysis(rules, nodeTypes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "coverage: %v\n", err)

		return
	}

	fmt.Fprintf(os.Stderr, "coverage: %d/%d node types mapped (%.1f%%)\n", len(rules), len(nodeTypes), coverage*100)
}

func splitExtensions(extensions string) []string {
	if extensions == "" {
		return nil
	}

	var result []string

	start := 0

	for i := 0; i <= len(extensions); i++ {
		if i == len(extensions) || extensions[i] == ',' {
			if i > start {
				result = append(result, extensions[start:i])
			}

			start = i + 1
		}
	}

	return result
}
