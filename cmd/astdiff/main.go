// Package main provides the astdiff CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/astdiff/pkg/version"
)

var cfgFile string //nolint:gochecknoglobals // CLI flag variable

func main() {
	rootCmd := &cobra.Command{
		Use:   "astdiff",
		Short: "Structural AST diffing for source files",
		Long:  `astdiff compares two source files by their abstract syntax trees and reports an edit script.`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./astdiff.yaml)")

	rootCmd.AddCommand(diffCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(mcpCmd())
	rootCmd.AddCommand(serverCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(lspCmd())
	rootCmd.AddCommand(queryCmd())
	rootCmd.AddCommand(uastmapGenerateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "astdiff %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
