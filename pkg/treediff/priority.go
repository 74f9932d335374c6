package treediff

import "sort"

// priorityList is the height-ordered work queue the top-down matcher pops
// from: it always returns every node at the current maximum height before
// moving to the next height down, so candidate pairs are only ever formed
// between nodes of equal height.
//
// No corpus example ships a priority-queue library (container/heap is the
// closest stdlib analog but buys nothing over a height-bucketed slice
// here, since heights are small dense integers), so this is a direct
// bucket-array implementation instead of a third-party dependency.
type priorityList struct {
	buckets map[int][]NodeID
	max     int
}

// newPriorityList seeds a priorityList with only t's root, at its height.
// Every other node enters the list later via open, as the matcher expands
// the frontier downward from nodes that failed to produce an isomorphic
// match.
func newPriorityList(t *Tree) *priorityList {
	pl := &priorityList{buckets: make(map[int][]NodeID)}

	root := t.Root()
	h := t.Height(root)
	pl.buckets[h] = []NodeID{root}
	pl.max = h

	return pl
}

// peekMaxHeight returns the height of the next non-empty bucket, or -1 if
// the list is exhausted.
func (pl *priorityList) peekMaxHeight() int {
	for h := pl.max; h >= 0; h-- {
		if len(pl.buckets[h]) > 0 {
			return h
		}
	}

	return -1
}

// popEqualHeight removes and returns every node at the current maximum
// height.
func (pl *priorityList) popEqualHeight() []NodeID {
	h := pl.peekMaxHeight()
	if h < 0 {
		return nil
	}

	ids := pl.buckets[h]
	delete(pl.buckets, h)
	pl.max = h - 1

	// Nodes enter a bucket in open() call order, not id order; sorting keeps
	// the cross-product iteration in the matcher reproducible run to run.
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// open replaces a single popped node with its children, re-bucketing them
// by height. Used when a node from the current bucket produced no
// isomorphic match: its children become candidates for later rounds.
func (pl *priorityList) open(t *Tree, id NodeID) {
	for _, child := range t.Children(id) {
		h := t.Height(child)
		pl.buckets[h] = append(pl.buckets[h], child)

		if h > pl.max {
			pl.max = h
		}
	}
}

// empty reports whether the list has nothing left at or above minHeight.
func (pl *priorityList) empty(minHeight int) bool {
	return pl.peekMaxHeight() < minHeight
}
