package treediff

import (
	"fmt"
	"sort"

	"github.com/Sumatoshi-tech/astdiff/pkg/toposort"
)

// ActionKind identifies the kind of a single edit script Action.
type ActionKind int

// The four edit actions an edit script is built from.
const (
	ActionInsert ActionKind = iota
	ActionDelete
	ActionUpdate
	ActionMove
)

// String renders an ActionKind for logging and CLI output.
func (k ActionKind) String() string {
	switch k {
	case ActionInsert:
		return "insert"
	case ActionDelete:
		return "delete"
	case ActionUpdate:
		return "update"
	case ActionMove:
		return "move"
	default:
		return "unknown"
	}
}

// Action is a single step of an edit script. Node identifies the subject in
// a combined identity space: existing source nodes keep their NodeID,
// while nodes inserted to realize a destination-only node are assigned a
// synthetic id past the source tree's own postorder range (see
// BuildEditScript). Parent/Index are only meaningful for Insert and Move.
type Action struct {
	Kind     ActionKind
	Node     NodeID
	NodeKind string
	Parent   NodeID
	Index    int
	OldValue string
	NewValue string
}

func (a Action) String() string {
	switch a.Kind {
	case ActionInsert:
		return fmt.Sprintf("insert %s#%d as child %d of #%d (%q)", a.NodeKind, a.Node, a.Index, a.Parent, a.NewValue)
	case ActionDelete:
		return fmt.Sprintf("delete %s#%d", a.NodeKind, a.Node)
	case ActionUpdate:
		return fmt.Sprintf("update %s#%d: %q -> %q", a.NodeKind, a.Node, a.OldValue, a.NewValue)
	case ActionMove:
		return fmt.Sprintf("move %s#%d to child %d of #%d", a.NodeKind, a.Node, a.Index, a.Parent)
	default:
		return "unknown action"
	}
}

// BuildEditScript derives an ordered edit script transforming src into dst
// given a completed Mappings table. Nodes are walked in destination
// preorder so a node's new parent always already has an identity (either
// its own NodeID, if mapped, or a synthetic patch id, if freshly inserted)
// by the time its children are visited.
func BuildEditScript(src, dst *Tree, m *Mappings) ([]Action, error) {
	b := &scriptBuilder{
		src: src, dst: dst, m: m,
		patch:     make(map[NodeID]NodeID),
		keepCache: make(map[NodeID]map[NodeID]bool),
	}
	b.nextPatchID = NodeID(src.Size())

	for _, x := range dst.Preorder(dst.Root()) {
		if x == dst.Root() {
			b.visitRoot(x)

			continue
		}

		if err := b.visit(x); err != nil {
			return nil, err
		}
	}

	for id := NodeID(0); int(id) < src.Size(); id++ {
		if !m.HasSrc(id) {
			b.actions = append(b.actions, Action{Kind: ActionDelete, Node: id, NodeKind: src.Kind(id)})
		}
	}

	return reorderForApplication(b.actions), nil
}

type scriptBuilder struct {
	src, dst    *Tree
	m           *Mappings
	patch       map[NodeID]NodeID // dst node -> synthetic identity, for unmapped dst nodes
	nextPatchID NodeID
	actions     []Action
	keepCache   map[NodeID]map[NodeID]bool // dst parent -> dst child -> "already in order"
}

// identity returns the working-tree identity of a dst node: the src id it
// is mapped to, or the synthetic patch id assigned when it was inserted.
func (b *scriptBuilder) identity(dstID NodeID) (NodeID, bool) {
	if srcID, ok := b.m.Src(dstID); ok {
		return srcID, true
	}

	pid, ok := b.patch[dstID]

	return pid, ok
}

// visitRoot handles the dst tree's own root, which every other node's
// identity lookup ultimately depends on. Within Diff the two roots are
// always mapped, since matchBottomUp force-links them whatever their kinds
// (a Diff-supplied placeholder root included). When a caller passes a
// Mappings table without the root pair, the dst root itself becomes a
// freshly inserted top-level node, and BuildEditScript's final pass
// deletes whatever of src is left unmapped.
func (b *scriptBuilder) visitRoot(x NodeID) {
	if _, mapped := b.m.Src(x); mapped {
		return
	}

	pid := b.nextPatchID
	b.nextPatchID++
	b.patch[x] = pid

	b.actions = append(b.actions, Action{
		Kind:     ActionInsert,
		Node:     pid,
		NodeKind: b.dst.Kind(x),
		Parent:   NoNodeID,
		Index:    0,
		NewValue: b.dst.Label(x),
	})
}

func (b *scriptBuilder) visit(x NodeID) error {
	y := b.dst.Parent(x)

	parentIdentity, ok := b.identity(y)
	if !ok {
		return fmt.Errorf("%w: dst node %d", ErrUnmappedNode, x)
	}

	srcID, mapped := b.m.Src(x)
	if !mapped {
		pid := b.nextPatchID
		b.nextPatchID++
		b.patch[x] = pid

		b.actions = append(b.actions, Action{
			Kind:     ActionInsert,
			Node:     pid,
			NodeKind: b.dst.Kind(x),
			Parent:   parentIdentity,
			Index:    childIndex(b.dst, y, x),
			NewValue: b.dst.Label(x),
		})

		return nil
	}

	if b.src.Label(srcID) != b.dst.Label(x) {
		b.actions = append(b.actions, Action{
			Kind:     ActionUpdate,
			Node:     srcID,
			NodeKind: b.dst.Kind(x),
			OldValue: b.src.Label(srcID),
			NewValue: b.dst.Label(x),
		})
	}

	srcParent := b.src.Parent(srcID)

	switch {
	case srcParent != parentIdentity:
		b.actions = append(b.actions, Action{
			Kind:     ActionMove,
			Node:     srcID,
			NodeKind: b.dst.Kind(x),
			Parent:   parentIdentity,
			Index:    childIndex(b.dst, y, x),
		})
	case !b.keepsOrder(y, parentIdentity, x):
		b.actions = append(b.actions, Action{
			Kind:     ActionMove,
			Node:     srcID,
			NodeKind: b.dst.Kind(x),
			Parent:   parentIdentity,
			Index:    childIndex(b.dst, y, x),
		})
	}

	return nil
}

// childIndex returns x's ordinal position among parent's children in dst.
func childIndex(dst *Tree, parent, x NodeID) int {
	for i, c := range dst.Children(parent) {
		if c == x {
			return i
		}
	}

	return -1
}

// keepsOrder reports whether x, a dst node whose mapped src counterpart's
// parent did not change, is part of the longest run of siblings whose
// relative order already matches src — siblings outside that run are the
// minimal set that must Move purely to fix ordering.
func (b *scriptBuilder) keepsOrder(y, parentIdentity, x NodeID) bool {
	keep, ok := b.keepCache[y]
	if !ok {
		keep = computeKeepSet(b.src, b.dst, b.m, y, parentIdentity)
		b.keepCache[y] = keep
	}

	return keep[x]
}

// computeKeepSet finds, among y's dst children that map to a child of
// parentIdentity in src, the longest increasing subsequence of their src
// sibling order. Members of that subsequence need no reorder Move; the
// rest do.
func computeKeepSet(src, dst *Tree, m *Mappings, y, parentIdentity NodeID) map[NodeID]bool {
	srcChildren := src.Children(parentIdentity)

	var seq []NodeID

	var srcIdx []int

	for _, cx := range dst.Children(y) {
		srcID, ok := m.Src(cx)
		if !ok || src.Parent(srcID) != parentIdentity {
			continue
		}

		idx := indexOf(srcChildren, srcID)
		if idx < 0 {
			continue
		}

		seq = append(seq, cx)
		srcIdx = append(srcIdx, idx)
	}

	lis := longestIncreasing(srcIdx)

	keep := make(map[NodeID]bool, len(seq))
	for i, cx := range seq {
		keep[cx] = lis[i]
	}

	return keep
}

func indexOf(ids []NodeID, id NodeID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}

	return -1
}

// longestIncreasing returns, for each position in vals, whether it belongs
// to some longest strictly increasing subsequence of vals (O(n^2), fine for
// the small sibling lists ASTs produce).
func longestIncreasing(vals []int) []bool {
	n := len(vals)
	length := make([]int, n)
	best := 0

	for i := range vals {
		length[i] = 1

		for j := 0; j < i; j++ {
			if vals[j] < vals[i] && length[j]+1 > length[i] {
				length[i] = length[j] + 1
			}
		}

		if length[i] > best {
			best = length[i]
		}
	}

	keep := make([]bool, n)
	need := best
	prevMin := int(^uint(0) >> 1) // math.MaxInt, avoided to keep this file import-free of "math"

	for i := n - 1; i >= 0 && need > 0; i-- {
		if length[i] == need && vals[i] < prevMin {
			keep[i] = true
			need--
			prevMin = vals[i]
		}
	}

	return keep
}

// reorderForApplication uses a topological sort over the Insert/Move
// subsequence's parent-child dependencies to guarantee a node's new parent
// is always established before the node itself is placed under it, even if
// a future change to visit() ordering stopped guaranteeing that implicitly.
// Update and Delete actions keep their emission order among themselves and
// follow every Insert/Move action: updates next, deletes last.
func reorderForApplication(actions []Action) []Action {
	graph := toposort.NewGraph()

	key := func(id NodeID) string { return fmt.Sprintf("n%d", id) }

	movable := make(map[string]Action)

	for _, a := range actions {
		if a.Kind != ActionInsert && a.Kind != ActionMove {
			continue
		}

		k := key(a.Node)
		movable[k] = a

		graph.AddNode(k)
	}

	for _, a := range actions {
		if a.Kind != ActionInsert && a.Kind != ActionMove {
			continue
		}

		parentKey := key(a.Parent)
		if _, ok := movable[parentKey]; ok {
			graph.AddEdge(parentKey, key(a.Node))
		}
	}

	order, ok := graph.Toposort()
	if !ok {
		// A cycle can only mean two nodes were each moved to be the other's
		// parent, which is not a valid tree; fall back to emission order
		// rather than fail the whole diff.
		return actions
	}

	reordered := make([]Action, 0, len(actions))

	seen := make(map[string]bool, len(order))
	for _, k := range order {
		if a, ok := movable[k]; ok {
			reordered = append(reordered, a)
			seen[k] = true
		}
	}

	for _, a := range actions {
		if a.Kind == ActionInsert || a.Kind == ActionMove {
			continue
		}

		reordered = append(reordered, a)
	}

	sort.SliceStable(reordered, func(i, j int) bool {
		return actionPhase(reordered[i]) < actionPhase(reordered[j])
	})

	return reordered
}

// actionPhase orders an edit script's action kinds for presentation:
// structural placement first (insert/move, already internally ordered by
// the topological sort above), then updates, then deletes.
func actionPhase(a Action) int {
	switch a.Kind {
	case ActionInsert, ActionMove:
		return 0
	case ActionUpdate:
		return 1
	case ActionDelete:
		return 2
	default:
		return 3
	}
}
