package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/astdiff/pkg/uast"
	"github.com/Sumatoshi-tech/astdiff/pkg/uast/pkg/node"
)

// ErrUnsupportedLanguage is returned when an input path is empty or its
// extension does not map to a registered language parser.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// ToolOutput is the structured-output half of every astdiff MCP tool's
// return signature; the MCP SDK encodes this as the result's StructuredContent.
type ToolOutput any

// DiffInput is the diff_files tool's input schema.
type DiffInput struct {
	Before string `json:"before" jsonschema:"absolute or relative path to the original file"`
	After  string `json:"after" jsonschema:"absolute or relative path to the changed file"`
}

// DiffFilesResult is the diff_files tool's structured output: a flattened
// view of a treediff.Result suitable for JSON encoding.
type DiffFilesResult struct {
	SrcNodes int      `json:"src_nodes"`
	DstNodes int      `json:"dst_nodes"`
	Mapped   int      `json:"mapped"`
	Actions  []string `json:"actions"`
}

// handleDiffFiles processes diff_files tool calls.
func handleDiffFiles(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input DiffInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.Before == "" || input.After == "" {
		return errorResult(fmt.Errorf("%w: both before and after paths are required", ErrUnsupportedLanguage))
	}

	parser, err := uast.NewParser()
	if err != nil {
		return errorResult(fmt.Errorf("create parser: %w", err))
	}

	if !parser.IsSupported(input.Before) {
		return errorResult(fmt.Errorf("%w: %s", ErrUnsupportedLanguage, input.Before))
	}

	if !parser.IsSupported(input.After) {
		return errorResult(fmt.Errorf("%w: %s", ErrUnsupportedLanguage, input.After))
	}

	before, err := readAndParse(ctx, parser, input.Before)
	if err != nil {
		return errorResult(err)
	}

	after, err := readAndParse(ctx, parser, input.After)
	if err != nil {
		return errorResult(err)
	}

	result, err := uast.DefaultDiff(before, after)
	if err != nil {
		return errorResult(fmt.Errorf("diff: %w", err))
	}

	actions := make([]string, 0, len(result.Actions))
	for _, a := range result.Actions {
		actions = append(actions, a.String())
	}

	return jsonResult(DiffFilesResult{
		SrcNodes: result.Src.Size(),
		DstNodes: result.Dst.Size(),
		Mapped:   result.Mappings.Len(),
		Actions:  actions,
	})
}

func readAndParse(ctx context.Context, parser *uast.Parser, filename string) (*node.Node, error) {
	content, err := os.ReadFile(filename) //nolint:gosec // operator-supplied path, tool input
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	n, err := parser.Parse(ctx, filename, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	return n, nil
}

// errorResult builds an error CallToolResult carrying err's message as its
// only content, with IsError set so callers can distinguish tool failures
// from transport failures.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		IsError: true,
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
	}, nil, nil
}

// jsonResult renders v as the tool's structured output and as a pretty
// JSON text block, mirroring the shape the MCP SDK expects for tools that
// return both human-readable content and structured content.
func jsonResult(v ToolOutput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("marshal result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(body)}},
	}, v, nil
}
