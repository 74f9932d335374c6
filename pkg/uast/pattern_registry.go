package uast

import (
	"fmt"
	"sync"

	"github.com/Sumatoshi-tech/astdiff/pkg/uast/pkg/mapping"
)

// ruleMatcher provides O(1) lookup over one language's mapping rules: by
// tree-sitter pattern name and by position in the rule table. Built once per
// language from the embedded mappings.
type ruleMatcher struct {
	rules []mapping.Rule
	index map[string]int
}

func newRuleMatcher(rules []mapping.Rule) *ruleMatcher {
	index := make(map[string]int, len(rules))

	for i, r := range rules {
		if _, exists := index[r.Name]; !exists {
			index[r.Name] = i
		}
	}

	return &ruleMatcher{rules: rules, index: index}
}

// MatchPattern returns the rule for the given tree-sitter pattern name.
func (rm *ruleMatcher) MatchPattern(pattern string) (mapping.Rule, bool) {
	i, ok := rm.index[pattern]
	if !ok {
		return mapping.Rule{}, false
	}

	return rm.rules[i], true
}

// GetRulesCount returns the number of rules in the table.
func (rm *ruleMatcher) GetRulesCount() int {
	return len(rm.rules)
}

// GetRuleByIndex returns the rule at position idx in the table.
func (rm *ruleMatcher) GetRuleByIndex(idx int) (mapping.Rule, bool) {
	if idx < 0 || idx >= len(rm.rules) {
		return mapping.Rule{}, false
	}

	return rm.rules[idx], true
}

// GetRuleIndex returns the table position of the given pattern name.
func (rm *ruleMatcher) GetRuleIndex(pattern string) (int, bool) {
	i, ok := rm.index[pattern]
	return i, ok
}

var (
	ruleMatchersOnce sync.Once
	ruleMatchers     map[string]*ruleMatcher
)

// GetPatternMatcher returns the rule matcher for the given language name, or
// nil when no mapping for that language is embedded.
func GetPatternMatcher(language string) any {
	ruleMatchersOnce.Do(func() {
		ruleMatchers = make(map[string]*ruleMatcher, len(embeddedMappingsData))
		for _, pm := range embeddedMappingsData {
			ruleMatchers[pm.Language] = newRuleMatcher(pm.Rules)
		}
	})

	rm, ok := ruleMatchers[language]
	if !ok {
		return nil
	}

	return rm
}

// validateRules checks that a language's embedded rule table is present and
// non-empty and that every rule is named. Repeated rule names are not
// checked.
func validateRules(language string) error {
	rm, _ := GetPatternMatcher(language).(*ruleMatcher)
	if rm == nil {
		return fmt.Errorf("%w: %s", errLanguageNotAvailable, language)
	}

	if len(rm.rules) == 0 {
		return fmt.Errorf("%w: %s has no rules", errLanguageNotAvailable, language)
	}

	for i, r := range rm.rules {
		if r.Name == "" {
			return fmt.Errorf("rule %d for %s has no name", i, language)
		}
	}

	return nil
}

var (
	patternStatsMu sync.Mutex
	patternStats   = make(map[string]int)
)

// RecordPatternMatch counts a pattern lookup hit or miss for one language,
// for coarse visibility into which grammar constructs a mapping covers.
func RecordPatternMatch(language, pattern string, matched bool) {
	key := language + ":" + pattern + "_misses"
	if matched {
		key = language + ":" + pattern + "_matches"
	}

	patternStatsMu.Lock()
	patternStats[key]++
	patternStatsMu.Unlock()
}

// GetPatternMatchStats returns a snapshot of the recorded match counters.
func GetPatternMatchStats() map[string]int {
	patternStatsMu.Lock()
	defer patternStatsMu.Unlock()

	out := make(map[string]int, len(patternStats))
	for k, v := range patternStats {
		out[k] = v
	}

	return out
}
