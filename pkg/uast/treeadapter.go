package uast

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/astdiff/pkg/treediff"
	"github.com/Sumatoshi-tech/astdiff/pkg/uast/pkg/node"
)

// ErrUnhandledKind is returned when the label strategy meets a node kind it
// cannot produce a label for: a leaf whose kind carries its identity in the
// label (an identifier, a literal) but whose token came back empty. Coercing
// such a node to an empty label would make it isomorphic to every other
// empty leaf of its kind, so the diff fails instead.
var ErrUnhandledKind = errors.New("uast: no label strategy for node kind")

// labelCarryingKinds are the leaf kinds whose identity IS their label; an
// empty token on one of these means the mapping for its grammar is
// incomplete, not that the node is genuinely unlabeled.
var labelCarryingKinds = map[node.Type]bool{
	node.UASTIdentifier: true,
	node.UASTLiteral:    true,
}

// checkLabelCoverage walks n and fails on the first leaf whose kind demands
// a label but whose token is empty.
func checkLabelCoverage(n *node.Node) error {
	if n == nil {
		return nil
	}

	if len(n.Children) == 0 && n.Token == "" && labelCarryingKinds[n.Type] {
		return fmt.Errorf("%w: %s leaf with empty token", ErrUnhandledKind, n.Type)
	}

	for _, child := range n.Children {
		if err := checkLabelCoverage(child); err != nil {
			return err
		}
	}

	return nil
}

// nodeAdapter wraps a *node.Node so it satisfies treediff.ASTNode without
// the treediff package ever needing to know about the canonical UAST
// representation.
type nodeAdapter struct {
	n *node.Node
}

// AdaptNode wraps n for use with treediff.Build/treediff.Diff. A nil n
// adapts to a nil ASTNode, which treediff.Build rejects; callers diffing a
// possibly-absent side should go through Diff instead, which substitutes a
// synthetic placeholder.
func AdaptNode(n *node.Node) treediff.ASTNode {
	if n == nil {
		return nil
	}

	return nodeAdapter{n: n}
}

func (a nodeAdapter) Kind() string {
	return string(a.n.Type)
}

// Label combines the node's token with its roles so that a role change on
// an otherwise token-identical node (e.g. a parameter promoted to a
// mutable binding) still counts as a label difference for the optimal
// matcher's rename cost, without the top-down isomorphic matcher's
// leaf-equality check needing to know about roles at all.
func (a nodeAdapter) Label() string {
	if len(a.n.Roles) == 0 {
		return a.n.Token
	}

	label := a.n.Token + "\x00"
	for _, role := range a.n.Roles {
		label += string(role) + ","
	}

	return label
}

func (a nodeAdapter) Children() []treediff.ASTNode {
	children := a.n.Children
	if len(children) == 0 {
		return nil
	}

	out := make([]treediff.ASTNode, len(children))
	for i, c := range children {
		out[i] = nodeAdapter{n: c}
	}

	return out
}

// Unwrap returns the original *node.Node behind an ASTNode produced by
// AdaptNode, for callers that need to recover UAST-specific fields (e.g.
// Pos) a finished diff referenced only by treediff.Tree.Original.
func Unwrap(n treediff.ASTNode) (*node.Node, bool) {
	a, ok := n.(nodeAdapter)
	if !ok {
		return nil, false
	}

	return a.n, true
}
