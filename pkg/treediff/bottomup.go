package treediff

// matchBottomUp runs the container-matching phase: for every still-unmatched
// internal node of src that already has at least one mapped direct child (a
// strong signal its subtree corresponds to something on the other side), it
// looks for the unmatched dst node of the same kind with the highest Dice
// coefficient of common mapped descendants. A candidate pair accepted this
// way that is still small enough is handed to the optimal Zhang-Shasha
// matcher to recover any finer-grained pairs the container match implies.
func matchBottomUp(src, dst *Tree, m *Mappings, opts Options) {
	for id := NodeID(0); int(id) < src.Size(); id++ {
		if id == src.Root() {
			// The two roots always correspond (both represent the same
			// translation unit), regardless of dice: force the link so the
			// edit script builder always has a top to anchor inserts under.
			m.Add(id, dst.Root())
			runOptimalMatcher(src, dst, m, opts, id, dst.Root())

			continue
		}

		if src.IsLeaf(id) || m.HasSrc(id) {
			continue
		}

		if !hasMappedDescendant(src, m, id) {
			continue
		}

		best, bestDice, found := bestBottomUpCandidate(src, dst, m, id)
		if !found || bestDice <= opts.MinDice || !mappingAllowed(src, dst, m, id, best) {
			continue
		}

		m.Add(id, best)
		runOptimalMatcher(src, dst, m, opts, id, best)
	}
}

// runOptimalMatcher hands (id1, id2) to the Zhang-Shasha matcher when both
// subtrees are small enough, recording any recovered pair that still passes
// the mappingAllowed gate (unclaimed, equal kinds, matching parent kinds).
func runOptimalMatcher(src, dst *Tree, m *Mappings, opts Options, id1, id2 NodeID) {
	if opts.MaxSize <= 0 || src.DescendantCount(id1) >= opts.MaxSize || dst.DescendantCount(id2) >= opts.MaxSize {
		return
	}

	zs := newZSMatcher(src, dst)
	for _, pair := range zs.match(id1, id2) {
		if mappingAllowed(src, dst, m, pair[0], pair[1]) {
			m.Add(pair[0], pair[1])
		}
	}
}

// hasMappedDescendant reports whether any direct child of id already has a
// mapping, the literal gate the container-matching phase uses to decide
// whether id is worth searching a bottom-up candidate for.
func hasMappedDescendant(t *Tree, m *Mappings, id NodeID) bool {
	for _, c := range t.Children(id) {
		if m.HasSrc(c) {
			return true
		}
	}

	return false
}

// bestBottomUpCandidate scans every unmatched non-leaf dst node with the
// same kind as src node id and returns the one with the highest Dice
// coefficient.
func bestBottomUpCandidate(src, dst *Tree, m *Mappings, id NodeID) (best NodeID, bestDice float64, found bool) {
	kind := src.Kind(id)
	best = NoNodeID

	for cand := NodeID(0); int(cand) < dst.Size(); cand++ {
		if dst.IsLeaf(cand) || m.HasDst(cand) {
			continue
		}

		if dst.Kind(cand) != kind {
			continue
		}

		dice := m.Dice(id, cand)
		if dice > bestDice || best == NoNodeID {
			best = cand
			bestDice = dice
			found = true
		}
	}

	return best, bestDice, found
}
