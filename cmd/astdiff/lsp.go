package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/astdiff/pkg/lsp"
	"github.com/Sumatoshi-tech/astdiff/pkg/uast"
)

func lspCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run an editor-integration language server over stdio",
		Long: `lsp starts a Language Server Protocol server on stdio. It parses open
documents with the same UAST adapter the diff command uses, and reports the
AST node kind and roles under the cursor on hover plus parse-error
diagnostics on every change.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			parser, err := uast.NewParser()
			if err != nil {
				return fmt.Errorf("init parser: %w", err)
			}

			lsp.NewServer(parser).Run()

			return nil
		},
	}
}
