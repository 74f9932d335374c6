package treediff

// mismatchCost is the rename cost assigned to a candidate pair whose node
// kinds differ. It is set above delCost+insCost (2) so the dynamic program
// never prefers renaming a node into a different kind over deleting one and
// inserting the other; kind changes are always expressed as Delete+Insert.
const mismatchCost = 3

// zsMatcher computes the optimal (minimum-cost) tree edit mapping between
// two bounded-size subtrees using the Zhang-Shasha algorithm: dynamic
// programming over "keyroots" (nodes that are not the leftmost child of
// their parent) with a forest-distance table reused across the subtree,
// followed by a backtrace over that table to recover the actual pairing.
type zsMatcher struct {
	src, dst *Tree
	treedist [][]float64
}

// newZSMatcher allocates the treedist table sized to the full trees; it is
// only ever populated for the node ranges covered by srcRoot/dstRoot.
func newZSMatcher(src, dst *Tree) *zsMatcher {
	treedist := make([][]float64, src.Size())
	for i := range treedist {
		treedist[i] = make([]float64, dst.Size())
	}

	return &zsMatcher{src: src, dst: dst, treedist: treedist}
}

// match computes the optimal node-pair mapping between the subtrees rooted
// at srcRoot and dstRoot and returns every matched pair, most-structural
// first (order does not otherwise matter to callers, which insert into a
// Mappings table keyed by node id).
func (z *zsMatcher) match(srcRoot, dstRoot NodeID) [][2]NodeID {
	keyroots1 := keyroots(z.src, srcRoot)
	keyroots2 := keyroots(z.dst, dstRoot)

	for _, i1 := range keyroots1 {
		for _, j1 := range keyroots2 {
			z.computeForestDist(i1, j1)
		}
	}

	var pairs [][2]NodeID

	z.backtrace(srcRoot, dstRoot, &pairs)

	return pairs
}

// keyroots returns every node in the subtree rooted at root that is either
// root itself or not the leftmost child of its parent, sorted ascending by
// id. Ascending id order guarantees that by the time a keyroot pair (i1,
// j1) is processed, every smaller node pair's treedist entry it might
// reference has already been computed.
func keyroots(t *Tree, root NodeID) []NodeID {
	var krs []NodeID

	for _, id := range t.Descendants(root) {
		parent := t.Parent(id)
		if id == root || t.Leftmost(id) != t.Leftmost(parent) {
			krs = append(krs, id)
		}
	}

	return krs
}

func renameCost(src, dst *Tree, i, j NodeID) float64 {
	if src.Kind(i) != dst.Kind(j) {
		return mismatchCost
	}

	if src.Label(i) != dst.Label(j) {
		return 1
	}

	return 0
}

func min3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}

	if c < m {
		m = c
	}

	return m
}

// computeForestDist fills z.treedist for every (i, j) pair whose forests
// share the boundary (l(i1), l(j1)), and returns the local forest-distance
// table so a backtrace over this specific keyroot pair can walk it.
func (z *zsMatcher) computeForestDist(i1, j1 NodeID) [][]float64 {
	li1 := z.src.Leftmost(i1)
	lj1 := z.dst.Leftmost(j1)
	len1 := int(i1-li1) + 1
	len2 := int(j1-lj1) + 1

	fd := make([][]float64, len1+1)
	for a := range fd {
		fd[a] = make([]float64, len2+1)
	}

	for o1 := 1; o1 <= len1; o1++ {
		fd[o1][0] = fd[o1-1][0] + 1
	}

	for o2 := 1; o2 <= len2; o2++ {
		fd[0][o2] = fd[0][o2-1] + 1
	}

	for o1 := 1; o1 <= len1; o1++ {
		i := li1 + NodeID(o1) - 1
		li := z.src.Leftmost(i)

		for o2 := 1; o2 <= len2; o2++ {
			j := lj1 + NodeID(o2) - 1
			lj := z.dst.Leftmost(j)

			del := fd[o1-1][o2] + 1
			ins := fd[o1][o2-1] + 1

			if li == li1 && lj == lj1 {
				ren := fd[o1-1][o2-1] + renameCost(z.src, z.dst, i, j)
				fd[o1][o2] = min3(del, ins, ren)
				z.treedist[i][j] = fd[o1][o2]
			} else {
				o1b := int(li - li1)
				o2b := int(lj - lj1)
				sub := fd[o1b][o2b] + z.treedist[i][j]
				fd[o1][o2] = min3(del, ins, sub)
			}
		}
	}

	return fd
}

// backtrace recovers the node-pair mapping for the subtree pair (i1, j1) by
// recomputing its forest-distance table and walking it from the full
// forest back to the empty forest, pushing a mapped pair whenever the walk
// lands on a position that is itself a forest boundary, and recursing via
// the treedist-backed branch otherwise.
func (z *zsMatcher) backtrace(i1, j1 NodeID, pairs *[][2]NodeID) {
	li1 := z.src.Leftmost(i1)
	lj1 := z.dst.Leftmost(j1)

	fd := z.computeForestDist(i1, j1)

	o1 := int(i1-li1) + 1
	o2 := int(j1-lj1) + 1

	for o1 > 0 || o2 > 0 {
		switch {
		case o1 > 0 && fd[o1][o2] == fd[o1-1][o2]+1:
			o1--
		case o2 > 0 && fd[o1][o2] == fd[o1][o2-1]+1:
			o2--
		default:
			i := li1 + NodeID(o1) - 1
			j := lj1 + NodeID(o2) - 1
			li := z.src.Leftmost(i)
			lj := z.dst.Leftmost(j)

			if li == li1 && lj == lj1 {
				if z.src.Kind(i) == z.dst.Kind(j) {
					*pairs = append(*pairs, [2]NodeID{i, j})
				}

				o1--
				o2--
			} else {
				z.backtrace(i, j, pairs)
				o1 = int(li - li1)
				o2 = int(lj - lj1)
			}
		}
	}
}
