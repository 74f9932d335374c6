package uast

import (
	"context"
	"strings"

	"github.com/Sumatoshi-tech/astdiff/pkg/uast/pkg/node"
)

// ConfigUASTProvider is the configuration key for the UAST provider.
const ConfigUASTProvider = "UAST.Provider"

// LanguageParser is responsible for parsing source code into UAST nodes.
type LanguageParser interface {
	Parse(ctx context.Context, filename string, content []byte) (*node.Node, error)
	Language() string
	Extensions() []string
}

// minExtParts is the minimum number of parts after splitting by dot for a file to have an extension.
const minExtParts = 2

// getFileExtension returns the file extension (with dot).
func getFileExtension(filename string) string {
	parts := strings.Split(filename, ".")
	if len(parts) < minExtParts {
		return ""
	}

	return "." + parts[len(parts)-1]
}

// Map represents a custom UAST mapping configuration.
type Map struct {
	UAST       string   `json:"uast"`
	Extensions []string `json:"extensions"`
}
