// Package uast provides a universal abstract syntax tree (UAST) representation
// and utilities for parsing, navigating, querying, and mutating code structure
// in a language-agnostic way.
package uast

import (
	"github.com/Sumatoshi-tech/astdiff/pkg/treediff"
	"github.com/Sumatoshi-tech/astdiff/pkg/uast/pkg/node"
)

// DependencyUastChanges is the name of the dependency provided by a Diff run,
// for callers that thread named pipeline values (mirrors the convention used
// elsewhere in this package for configuration keys).
const DependencyUastChanges = "uast_changes"

// Diff computes the edit script turning before into after using the given
// matcher thresholds. Either node may be nil, representing a file that did
// not exist on one side; treediff.Build rejects a nil root directly, so nil
// inputs are handled here as whole-tree insert/delete instead. A tree whose
// label-carrying leaves lack tokens fails with ErrUnhandledKind rather than
// silently diffing on empty labels.
func Diff(before, after *node.Node, opts treediff.Options) (*treediff.Result, error) {
	if err := checkLabelCoverage(before); err != nil {
		return nil, err
	}

	if err := checkLabelCoverage(after); err != nil {
		return nil, err
	}

	switch {
	case before == nil && after == nil:
		return &treediff.Result{}, nil
	case before == nil:
		return wholeTreeInsert(after, opts)
	case after == nil:
		return wholeTreeDelete(before, opts)
	default:
		return treediff.Diff(AdaptNode(before), AdaptNode(after), opts)
	}
}

// DefaultDiff runs Diff with treediff.DefaultOptions.
func DefaultDiff(before, after *node.Node) (*treediff.Result, error) {
	return Diff(before, after, treediff.DefaultOptions())
}

// wholeTreeInsert builds a Result whose edit script inserts every node of
// after below its root, used when before is nil (a newly added file). The
// root of after is mapped onto the placeholder and appears in no action.
func wholeTreeInsert(after *node.Node, opts treediff.Options) (*treediff.Result, error) {
	return treediff.Diff(AdaptNode(emptyPlaceholder()), AdaptNode(after), opts)
}

// wholeTreeDelete builds a Result whose edit script deletes every node of
// before below its root, used when after is nil (a removed file). The root
// of before is mapped onto the placeholder and appears in no action.
func wholeTreeDelete(before *node.Node, opts treediff.Options) (*treediff.Result, error) {
	return treediff.Diff(AdaptNode(before), AdaptNode(emptyPlaceholder()), opts)
}

// emptyPlaceholder is a synthetic single-node tree standing in for an
// absent file, so Diff always has two real roots to run the matcher on.
func emptyPlaceholder() *node.Node {
	return node.NewBuilder().WithType(node.UASTSynthetic).Build()
}
