package main

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/astdiff/pkg/config"
	"github.com/Sumatoshi-tech/astdiff/pkg/observability"
	"github.com/Sumatoshi-tech/astdiff/pkg/textutil"
	"github.com/Sumatoshi-tech/astdiff/pkg/treediff"
	"github.com/Sumatoshi-tech/astdiff/pkg/uast"
	"github.com/Sumatoshi-tech/astdiff/pkg/uast/pkg/node"
	"github.com/Sumatoshi-tech/astdiff/pkg/units"
	"github.com/Sumatoshi-tech/astdiff/pkg/version"
)

// diffArgCount is the number of positional arguments the diff command takes.
const diffArgCount = 2

// ErrUnsupportedFileType is returned when an input file's extension does
// not map to a registered language parser.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// ErrBinaryFile is returned when an input file sniffs as binary rather than
// source text.
var ErrBinaryFile = errors.New("binary file")

func diffCmd() *cobra.Command {
	var (
		output    string
		format    string
		minHeight int
		minDice   float64
		maxSize   int
	)

	cmd := &cobra.Command{
		Use:   "diff file1 file2",
		Short: "Compute the edit script between two source files",
		Long: `diff parses file1 and file2 into abstract syntax trees and reports the
minimum-cost edit script (insert/delete/update/move) turning the first into
the second.

Examples:
  astdiff diff old.go new.go
  astdiff diff -f json old.go new.go
  astdiff diff -o script.txt old.go new.go`,
		Args: cobra.ExactArgs(diffArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			if cmd.Flags().Changed("format") {
				cfg.Output.Format = format
			}

			if cmd.Flags().Changed("output") {
				cfg.Output.Path = output
			}

			opts := treediff.Options{
				MinHeight: cfg.Matcher.MinHeight,
				MinDice:   cfg.Matcher.MinDice,
				MaxSize:   cfg.Matcher.MaxSize,
			}

			if cmd.Flags().Changed("min-height") {
				opts.MinHeight = minHeight
			}

			if cmd.Flags().Changed("min-dice") {
				opts.MinDice = minDice
			}

			if cmd.Flags().Changed("max-size") {
				opts.MaxSize = maxSize
			}

			return runDiff(cmd.Context(), args[0], args[1], *cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: text, json, xml, yaml (default from config)")
	cmd.Flags().IntVar(&minHeight, "min-height", 0, "minimum subtree height for the top-down matcher")
	cmd.Flags().Float64Var(&minDice, "min-dice", 0, "minimum Dice coefficient for the bottom-up matcher")
	cmd.Flags().IntVar(&maxSize, "max-size", 0, "largest subtree handed to the optimal matcher")

	return cmd
}

func runDiff(ctx context.Context, file1, file2 string, cfg config.Config, opts treediff.Options) error {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.LogJSON = cfg.Logging.Format == "json"

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(obsCfg.ShutdownTimeoutSec)*time.Second)
		defer cancel()

		_ = providers.Shutdown(shutdownCtx)
	}()

	ctx, span := providers.Tracer.Start(ctx, "astdiff.diff")
	defer span.End()

	diffMetrics, err := observability.NewDiffMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("init diff metrics: %w", err)
	}

	parser, err := uast.NewParser()
	if err != nil {
		return fmt.Errorf("init parser: %w", err)
	}

	for _, f := range [2]string{file1, file2} {
		if !parser.IsSupported(f) {
			return unsupportedFileTypeError(f, cfg.Parser)
		}

		if config.IsVendored(f) {
			providers.Logger.WarnContext(ctx, "diffing a vendored path", "file", f)
		}
	}

	before, err := parseFile(ctx, parser, file1, providers.Logger)
	if err != nil {
		return err
	}

	after, err := parseFile(ctx, parser, file2, providers.Logger)
	if err != nil {
		return err
	}

	start := time.Now()

	result, err := uast.Diff(before, after, opts)
	if err != nil {
		providers.Logger.ErrorContext(ctx, "diff failed", "error", err)

		return fmt.Errorf("diff %s %s: %w", file1, file2, err)
	}

	duration := time.Since(start)

	actionCounts := make(map[string]int, len(result.Actions))
	for _, a := range result.Actions {
		actionCounts[a.Kind.String()]++
	}

	stats := observability.DiffStats{
		SrcNodes: result.Src.Size(),
		DstNodes: result.Dst.Size(),
		// The public Diff API reports only the aggregate mapping count, not
		// a per-phase breakdown, so the whole total is attributed to the
		// top-down phase here.
		TopDownMatches: result.Mappings.Len(),
		Actions:        actionCounts,
		Duration:       duration,
	}
	diffMetrics.RecordRun(ctx, stats)

	providers.Logger.InfoContext(ctx, "diff complete",
		"src_file", file1,
		"dst_file", file2,
		"nodes", stats.SrcNodes+stats.DstNodes,
		"actions", len(result.Actions),
		"duration", duration,
	)

	return writeResult(result, file1, file2, cfg.Output)
}

// unsupportedFileTypeError reports that no registered parser handles f,
// enriching the message with enry's content-based language guess (through
// cfg's extension overrides first) when one is available, since the
// extension alone is sometimes not enough to tell an operator why a file
// was rejected.
func unsupportedFileTypeError(f string, cfg config.ParserConfig) error {
	content, readErr := os.ReadFile(f) //nolint:gosec // operator-supplied path, CLI tool
	if readErr != nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedFileType, f)
	}

	if lang := cfg.ResolveLanguage(f, content); lang != "" {
		return fmt.Errorf("%w: %s (detected language: %s)", ErrUnsupportedFileType, f, lang)
	}

	return fmt.Errorf("%w: %s", ErrUnsupportedFileType, f)
}

// largeFileWarnThreshold is the size above which parseFile logs a warning
// before handing a file to the tree-sitter parser, since very large sources
// make the bottom-up matcher's optimal-matcher fallback expensive.
const largeFileWarnThreshold = 8 * units.MiB

func parseFile(ctx context.Context, parser *uast.Parser, filename string, logger *slog.Logger) (*node.Node, error) {
	content, err := os.ReadFile(filename) //nolint:gosec // operator-supplied path, CLI tool
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	if textutil.IsBinary(content) {
		return nil, fmt.Errorf("%w: %s", ErrBinaryFile, filename)
	}

	if len(content) > largeFileWarnThreshold {
		logger.WarnContext(ctx, "large source file", "file", filename, "size", humanize.Bytes(uint64(len(content))))
	}

	n, err := parser.Parse(ctx, filename, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	return n, nil
}

// renderedAction is the JSON/XML-serializable projection of a treediff.Action.
type renderedAction struct {
	Kind     string `json:"kind" xml:"kind" yaml:"kind"`
	NodeKind string `json:"node_kind" xml:"node_kind" yaml:"node_kind"`
	Node     int    `json:"node" xml:"node" yaml:"node"`
	Parent   int    `json:"parent,omitempty" xml:"parent,omitempty" yaml:"parent,omitempty"`
	Index    int    `json:"index,omitempty" xml:"index,omitempty" yaml:"index,omitempty"`
	OldValue string `json:"old_value,omitempty" xml:"old_value,omitempty" yaml:"old_value,omitempty"`
	NewValue string `json:"new_value,omitempty" xml:"new_value,omitempty" yaml:"new_value,omitempty"`
}

type renderedScript struct {
	XMLName xml.Name         `json:"-" xml:"edit_script" yaml:"-"`
	Src     string           `json:"src" xml:"src" yaml:"src"`
	Dst     string           `json:"dst" xml:"dst" yaml:"dst"`
	Actions []renderedAction `json:"actions" xml:"action" yaml:"actions"`
}

func writeResult(result *treediff.Result, file1, file2 string, out config.OutputConfig) error {
	var writer io.Writer = os.Stdout

	if out.Path != "" {
		f, err := os.Create(out.Path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()

		writer = f
	}

	script := renderedScript{Src: file1, Dst: file2, Actions: make([]renderedAction, 0, len(result.Actions))}
	for _, a := range result.Actions {
		script.Actions = append(script.Actions, renderedAction{
			Kind:     a.Kind.String(),
			NodeKind: a.NodeKind,
			Node:     int(a.Node),
			Parent:   int(a.Parent),
			Index:    a.Index,
			OldValue: a.OldValue,
			NewValue: a.NewValue,
		})
	}

	switch out.Format {
	case "json":
		enc := json.NewEncoder(writer)
		enc.SetIndent("", "  ")

		if err := enc.Encode(script); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil
	case "xml":
		enc := xml.NewEncoder(writer)
		enc.Indent("", "  ")

		if err := enc.Encode(script); err != nil {
			return fmt.Errorf("encode xml: %w", err)
		}

		fmt.Fprintln(writer)

		return nil
	case "yaml":
		enc := yaml.NewEncoder(writer)
		defer enc.Close()

		if err := enc.Encode(script); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return nil
	default:
		printText(result, file1, file2, writer)

		return nil
	}
}

// actionColors maps each edit-script action kind to the color its row is
// rendered in, matching the insert=green/delete=red/update=yellow/move=cyan
// convention of most textual diff tools.
var actionColors = map[string]*color.Color{ //nolint:gochecknoglobals // static color palette
	"insert": color.New(color.FgGreen),
	"delete": color.New(color.FgRed),
	"update": color.New(color.FgYellow),
	"move":   color.New(color.FgCyan),
}

// printUpdateHunks renders a per-character hunk for every update action,
// the same diffmatchpatch span coloring line-oriented text diffs use, so an
// operator can see what changed inside a relabeled node without re-reading
// both source files.
func printUpdateHunks(result *treediff.Result, writer io.Writer) {
	dmp := diffmatchpatch.New()

	for _, a := range result.Actions {
		if a.Kind != treediff.ActionUpdate {
			continue
		}

		diffs := dmp.DiffMain(a.OldValue, a.NewValue, false)
		diffs = dmp.DiffCleanupSemantic(diffs)

		fmt.Fprintf(writer, "  #%d %s: %s\n", a.Node, a.NodeKind, renderHunk(diffs))
	}
}

func renderHunk(diffs []diffmatchpatch.Diff) string {
	var b strings.Builder

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			b.WriteString(color.New(color.FgGreen).Sprint(d.Text))
		case diffmatchpatch.DiffDelete:
			b.WriteString(color.New(color.FgRed).Sprint(d.Text))
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		}
	}

	return b.String()
}

func printText(result *treediff.Result, file1, file2 string, writer io.Writer) {
	fmt.Fprintf(writer, "--- %s\n", file1)
	fmt.Fprintf(writer, "+++ %s\n", file2)

	if len(result.Actions) > 0 {
		tbl := table.NewWriter()
		tbl.SetOutputMirror(writer)
		tbl.SetStyle(table.StyleLight)
		tbl.Style().Options.SeparateRows = false
		tbl.AppendHeader(table.Row{"kind", "node kind", "node", "parent", "index"})

		for _, a := range result.Actions {
			kind := a.Kind.String()

			row := table.Row{kind, a.NodeKind, a.Node, a.Parent, a.Index}
			if c, ok := actionColors[kind]; ok {
				row[0] = c.Sprint(kind)
			}

			tbl.AppendRow(row)
		}

		tbl.Render()
	}

	printUpdateHunks(result, writer)

	fmt.Fprintf(writer, "%s actions (%s src nodes, %s dst nodes)\n",
		humanize.Comma(int64(len(result.Actions))),
		humanize.Comma(int64(result.Src.Size())),
		humanize.Comma(int64(result.Dst.Size())))
}
