package treediff

// Mappings is a bidirectional, injective correspondence between nodes of a
// source tree and a destination tree. Every source id maps to at most one
// destination id and vice versa.
type Mappings struct {
	src *Tree
	dst *Tree

	srcToDst map[NodeID]NodeID
	dstToSrc map[NodeID]NodeID
}

// NewMappings creates an empty Mappings table between src and dst.
func NewMappings(src, dst *Tree) *Mappings {
	return &Mappings{
		src:      src,
		dst:      dst,
		srcToDst: make(map[NodeID]NodeID, src.Size()),
		dstToSrc: make(map[NodeID]NodeID, dst.Size()),
	}
}

// Add records that srcID corresponds to dstID. If either id is already
// mapped the existing mapping is kept and Add reports false: first mapping
// wins, matching the matchers' priority order (top-down before bottom-up,
// higher before lower in the priority list).
func (m *Mappings) Add(srcID, dstID NodeID) bool {
	if _, ok := m.srcToDst[srcID]; ok {
		return false
	}

	if _, ok := m.dstToSrc[dstID]; ok {
		return false
	}

	m.srcToDst[srcID] = dstID
	m.dstToSrc[dstID] = srcID

	return true
}

// Dst returns the destination id mapped to srcID, and whether one exists.
func (m *Mappings) Dst(srcID NodeID) (NodeID, bool) {
	dstID, ok := m.srcToDst[srcID]
	return dstID, ok
}

// Src returns the source id mapped to dstID, and whether one exists.
func (m *Mappings) Src(dstID NodeID) (NodeID, bool) {
	srcID, ok := m.dstToSrc[dstID]
	return srcID, ok
}

// HasSrc reports whether srcID already has a mapping.
func (m *Mappings) HasSrc(srcID NodeID) bool {
	_, ok := m.srcToDst[srcID]
	return ok
}

// HasDst reports whether dstID already has a mapping.
func (m *Mappings) HasDst(dstID NodeID) bool {
	_, ok := m.dstToSrc[dstID]
	return ok
}

// Len returns the number of mapped pairs.
func (m *Mappings) Len() int {
	return len(m.srcToDst)
}

// Pairs returns every (src, dst) pair currently recorded. The order is
// unspecified.
func (m *Mappings) Pairs() [][2]NodeID {
	pairs := make([][2]NodeID, 0, len(m.srcToDst))
	for srcID, dstID := range m.srcToDst {
		pairs = append(pairs, [2]NodeID{srcID, dstID})
	}

	return pairs
}

// commonMappedDescendants counts how many proper descendants of srcID (the
// half-open postorder range [Leftmost(srcID), srcID)) are mapped to a proper
// descendant of dstID. It is the numerator of the bottom-up matcher's dice
// coefficient.
func (m *Mappings) commonMappedDescendants(srcID, dstID NodeID) int {
	dstLo := m.dst.Leftmost(dstID)

	count := 0

	for srcChild := m.src.Leftmost(srcID); srcChild < srcID; srcChild++ {
		dstChild, ok := m.srcToDst[srcChild]
		if !ok {
			continue
		}

		if dstChild >= dstLo && dstChild < dstID {
			count++
		}
	}

	return count
}

// Dice returns the Dice coefficient between the proper-descendant sets of
// srcID and dstID under the current mappings: 2*|common| / (|src|+|dst|),
// where |common| counts descendants of srcID mapped to a descendant of
// dstID and both sizes exclude the subtree roots themselves. Zero when
// either node is a leaf.
func (m *Mappings) Dice(srcID, dstID NodeID) float64 {
	srcSize := m.src.DescendantCount(srcID)
	dstSize := m.dst.DescendantCount(dstID)

	if srcSize == 0 || dstSize == 0 {
		return 0
	}

	common := m.commonMappedDescendants(srcID, dstID)

	return 2 * float64(common) / float64(srcSize+dstSize)
}
