package uast

import (
	"log/slog"
	"strings"

	"github.com/Sumatoshi-tech/astdiff/pkg/uast/pkg/mapping"
)

// embeddedMappingsData holds the rule tables for every .uastmap file compiled
// into the binary, parsed once at package init. The loader registers a lazy
// parser per entry, so the per-language tree-sitter grammar is still only
// initialized on first use; only the mapping DSL itself is paid for up front.
var embeddedMappingsData = parseEmbeddedMappings()

// embeddedMappingsAvailable reports whether any embedded mapping parsed
// successfully; the loader falls back to re-reading the raw .uastmap files
// when none did.
func embeddedMappingsAvailable() bool {
	return len(embeddedMappingsData) > 0
}

func parseEmbeddedMappings() []PrecompiledMapping {
	var out []PrecompiledMapping

	entries, err := uastMapFs.ReadDir("uastmaps")
	if err != nil {
		slog.Default().Warn("reading embedded uastmaps", "error", err)

		return nil
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".uastmap") {
			continue
		}

		pm, ok := parseEmbeddedMapping("uastmaps/" + entry.Name())
		if ok {
			out = append(out, pm)
		}
	}

	return out
}

func parseEmbeddedMapping(path string) (PrecompiledMapping, bool) {
	file, err := uastMapFs.Open(path)
	if err != nil {
		slog.Default().Warn("opening embedded uastmap", "file", path, "error", err)

		return PrecompiledMapping{}, false
	}
	defer file.Close()

	rules, langInfo, err := (&mapping.Parser{}).ParseMapping(file)
	if err != nil {
		slog.Default().Warn("parsing embedded uastmap", "file", path, "error", err)

		return PrecompiledMapping{}, false
	}

	return PrecompiledMapping{
		Language:   langInfo.Name,
		Extensions: langInfo.Extensions,
		Rules:      rules,
	}, true
}
