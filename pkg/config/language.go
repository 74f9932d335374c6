package config

import (
	"path/filepath"
	"strings"

	enry "github.com/src-d/enry/v2"
)

// ResolveLanguage returns the best-guess language name for filename.
// An explicit entry in LanguageOverrides (keyed by lowercase extension,
// including the leading dot) wins; otherwise enry classifies the content by
// extension, shebang, and content heuristics.
func (p ParserConfig) ResolveLanguage(filename string, content []byte) string {
	ext := strings.ToLower(filepath.Ext(filename))

	if lang, ok := p.LanguageOverrides[ext]; ok && lang != "" {
		return lang
	}

	return enry.GetLanguage(filepath.Base(filename), content)
}

// IsVendored reports whether path falls under a vendored or generated
// directory convention (vendor/, node_modules/, minified bundles, and the
// like), the same classifier used to keep such paths out of diff statistics.
func IsVendored(path string) bool {
	return enry.IsVendor(path)
}
