// Package treediff computes a minimum-cost edit script between two
// abstract syntax trees using a two-phase GumTree-style matcher backed
// by an optimal Zhang-Shasha tree edit distance solver for small
// subtrees.
//
// The package is AST-agnostic: callers adapt their own tree shape to
// the ASTNode interface and get back a Mappings table plus an ordered
// slice of edit Actions (Insert, Delete, Update, Move).
package treediff
