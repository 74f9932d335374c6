package mapping

import (
	"errors"
	"fmt"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Sentinel errors surfaced while compiling or running a mapping rule's pattern.
var (
	errNilLanguage = errors.New("tree-sitter language is nil")
	errNilQueryArg = errors.New("query or node is nil")
	errNoMatch     = errors.New("no match found")
)

// PatternMatcher compiles the S-expression pattern carried by each mapping
// Rule into a tree-sitter query, caching by pattern text so that the same
// rule applied across thousands of nodes in a large source tree only pays
// the compilation cost once per distinct pattern.
type PatternMatcher struct {
	cache  map[string]*sitter.Query
	lang   *sitter.Language
	mu     sync.RWMutex
	hits   int64
	misses int64
}

// NewPatternMatcher returns a PatternMatcher bound to lang with an empty cache.
func NewPatternMatcher(lang *sitter.Language) *PatternMatcher {
	return &PatternMatcher{
		cache: make(map[string]*sitter.Query),
		lang:  lang,
	}
}

// CompileAndCache returns the cached tree-sitter query for pattern, compiling
// and storing it on first use.
func (pm *PatternMatcher) CompileAndCache(pattern string) (*sitter.Query, error) {
	if cached, hit := pm.lookup(pattern); hit {
		return cached, nil
	}

	compiled, err := compileTreeSitterQuery(pattern, pm.lang)
	if err != nil {
		return nil, err
	}

	pm.store(pattern, compiled)

	return compiled, nil
}

func (pm *PatternMatcher) lookup(pattern string) (*sitter.Query, bool) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	cached, ok := pm.cache[pattern]
	if ok {
		pm.hits++
	}

	return cached, ok
}

func (pm *PatternMatcher) store(pattern string, compiled *sitter.Query) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.cache[pattern] = compiled
	pm.misses++
}

// CacheStats reports how many CompileAndCache calls were served from cache
// (hits) versus required compiling a fresh query (misses).
func (pm *PatternMatcher) CacheStats() (hits, misses int64) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	return pm.hits, pm.misses
}

// MatchPattern runs a compiled query against a single tree-sitter node and
// returns the first match's captures keyed by capture name.
func (pm *PatternMatcher) MatchPattern(query *sitter.Query, tsNode *sitter.Node, source []byte) (map[string]string, error) {
	return matchTreeSitterQuery(query, tsNode, source)
}

// compileTreeSitterQuery compiles a pattern to a Tree-sitter query object.
func compileTreeSitterQuery(pattern string, lang *sitter.Language) (*sitter.Query, error) {
	if lang == nil {
		return nil, errNilLanguage
	}

	compiled, err := sitter.NewQuery(lang, []byte(pattern))
	if err != nil {
		return nil, fmt.Errorf("tree-sitter query compilation failed: %w", err)
	}

	return compiled, nil
}

// matchTreeSitterQuery matches a query against a node and returns the first set of captures as a map.
func matchTreeSitterQuery(query *sitter.Query, tsNode *sitter.Node, source []byte) (map[string]string, error) {
	if query == nil || tsNode == nil {
		return nil, errNilQueryArg
	}

	cursor := sitter.NewQueryCursor()

	// Use Matches with dereferenced node.
	matches := cursor.Matches(query, *tsNode, source)

	match := matches.Next()
	if match == nil {
		return nil, errNoMatch
	}

	captures := make(map[string]string)

	for _, cap := range match.Captures {
		name := query.CaptureNameForID(cap.Index)

		if !cap.Node.IsNull() {
			captures[name] = cap.Node.Content(source)
		}
	}

	return captures, nil
}
