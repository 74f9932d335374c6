package treediff

import "sort"

// matchTopDown runs the isomorphic top-down phase: it pairs subtrees of
// equal height that are structurally identical, preferring taller subtrees
// first and, among same-height candidates, the pair whose parents already
// look most alike. Matched subtrees contribute every one of their internal
// node pairs to m in a single pass, since isomorphism guarantees the
// mapping is unambiguous node-for-node.
func matchTopDown(src, dst *Tree, m *Mappings, minHeight int) {
	l1 := newPriorityList(src)
	l2 := newPriorityList(dst)

	for !l1.empty(minHeight) && !l2.empty(minHeight) {
		h1 := l1.peekMaxHeight()
		h2 := l2.peekMaxHeight()

		switch {
		case h1 > h2:
			for _, id := range l1.popEqualHeight() {
				l1.open(src, id)
			}

			continue
		case h2 > h1:
			for _, id := range l2.popEqualHeight() {
				l2.open(dst, id)
			}

			continue
		}

		bucket1 := l1.popEqualHeight()
		bucket2 := l2.popEqualHeight()

		matchedSrc, matchedDst := matchEqualHeightBuckets(src, dst, m, bucket1, bucket2)

		for _, id := range bucket1 {
			if !matchedSrc[id] {
				l1.open(src, id)
			}
		}

		for _, id := range bucket2 {
			if !matchedDst[id] {
				l2.open(dst, id)
			}
		}
	}
}

type topDownCandidate struct {
	src, dst   NodeID
	parentDice float64
}

// matchEqualHeightBuckets finds every isomorphic pair across bucket1 x
// bucket2, resolves ambiguous multi-candidate nodes by preferring the pair
// whose parents are most alike, and records the resulting mappings.
func matchEqualHeightBuckets(
	src, dst *Tree, m *Mappings, bucket1, bucket2 []NodeID,
) (matchedSrc, matchedDst map[NodeID]bool) {
	matchedSrc = make(map[NodeID]bool, len(bucket1))
	matchedDst = make(map[NodeID]bool, len(bucket2))

	var candidates []topDownCandidate

	for _, t1 := range bucket1 {
		for _, t2 := range bucket2 {
			if isomorphic(src, dst, t1, t2) && mappingAllowed(src, dst, m, t1, t2) {
				candidates = append(candidates, topDownCandidate{
					src:        t1,
					dst:        t2,
					parentDice: parentDice(src, dst, m, t1, t2),
				})
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].parentDice > candidates[j].parentDice
	})

	for _, c := range candidates {
		if matchedSrc[c.src] || matchedDst[c.dst] {
			continue
		}

		mapIsomorphicSubtree(src, dst, m, c.src, c.dst)
		matchedSrc[c.src] = true
		matchedDst[c.dst] = true
	}

	return matchedSrc, matchedDst
}

// mappingAllowed reports whether t1 and t2 are eligible to be linked: both
// unmapped, equal kind (isomorphic already guarantees this but the check is
// repeated so mappingAllowed stands on its own), and sitting under parents
// of equal kind, or both at the root with no parent at all. This is the
// parent-kind gate that keeps e.g. an expression-statement child from being
// mapped to a loop-body child just because their subtrees happen to match.
func mappingAllowed(src, dst *Tree, m *Mappings, t1, t2 NodeID) bool {
	if m.HasSrc(t1) || m.HasDst(t2) {
		return false
	}

	if src.Kind(t1) != dst.Kind(t2) {
		return false
	}

	p1, p2 := src.Parent(t1), dst.Parent(t2)
	if p1 == NoNodeID || p2 == NoNodeID {
		return p1 == NoNodeID && p2 == NoNodeID
	}

	return src.Kind(p1) == dst.Kind(p2)
}

// parentDice estimates how alike t1 and t2's surrounding context is by
// computing the Dice coefficient of their parents, used only to break ties
// among multiple isomorphic candidates. Root nodes (no parent) sort last.
func parentDice(src, dst *Tree, m *Mappings, t1, t2 NodeID) float64 {
	p1, p2 := src.Parent(t1), dst.Parent(t2)
	if p1 == NoNodeID || p2 == NoNodeID {
		return 0
	}

	return m.Dice(p1, p2)
}

// isomorphic reports whether the subtrees rooted at t1 and t2 have
// identical shape: same node kind at every position, same number and order
// of children, and — for leaves specifically — equal labels. Requiring
// label equality only at the leaves (rather than at every node) lets
// interior nodes such as a renamed function's body still be recognized as
// structurally identical, while two differently-named identifiers or
// differently-valued literals never are.
func isomorphic(src, dst *Tree, t1, t2 NodeID) bool {
	if src.Kind(t1) != dst.Kind(t2) {
		return false
	}

	c1 := src.Children(t1)
	c2 := dst.Children(t2)

	if len(c1) != len(c2) {
		return false
	}

	if len(c1) == 0 {
		return src.Label(t1) == dst.Label(t2)
	}

	for i := range c1 {
		if !isomorphic(src, dst, c1[i], c2[i]) {
			return false
		}
	}

	return true
}

// mapIsomorphicSubtree walks two isomorphic subtrees in lockstep and maps
// every corresponding node pair.
func mapIsomorphicSubtree(src, dst *Tree, m *Mappings, t1, t2 NodeID) {
	m.Add(t1, t2)

	c1 := src.Children(t1)
	c2 := dst.Children(t2)

	for i := range c1 {
		mapIsomorphicSubtree(src, dst, m, c1[i], c2[i])
	}
}
