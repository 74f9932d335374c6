package treediff

import "fmt"

// NodeID identifies a node within a single Tree by its postorder index.
// NodeIDs are only comparable within the Tree that produced them.
type NodeID int

// NoNodeID is the sentinel value for "no node", used for root parents and
// absent mappings.
const NoNodeID NodeID = -1

// ASTNode is the contract a caller's AST must satisfy to be diffed. The
// treediff package never looks past these three methods, so any tree shape
// (UAST, plain parse tree, whatever) can be adapted to it.
type ASTNode interface {
	// Kind returns the node's syntactic category, e.g. "Function" or
	// "Identifier". Two nodes with different Kind are never matched.
	Kind() string

	// Label returns the node's textual value, e.g. an identifier name or
	// literal token. Leaves with differing Label are never isomorphic.
	Label() string

	// Children returns the node's children in source order.
	Children() []ASTNode
}

// node is the internal, array-of-structs representation of one AST node
// inside a Tree. Fields are populated in a single postorder pass over the
// caller's ASTNode tree.
type node struct {
	kind     string
	label    string
	parent   NodeID
	children []NodeID
	depth    int
	height   int
	leftmost NodeID // leftmost leaf descendant, postorder id
}

// Tree is a postorder-indexed copy of a caller's ASTNode tree. Index 0 is
// the leftmost leaf; the last index is the root.
type Tree struct {
	nodes []node
	root  NodeID
	src   []ASTNode // original ASTNode for each NodeID, same indexing
}

// Size returns the number of nodes in the tree.
func (t *Tree) Size() int {
	return len(t.nodes)
}

// Root returns the id of the tree's root node.
func (t *Tree) Root() NodeID {
	return t.root
}

// Kind returns the syntactic category of id.
func (t *Tree) Kind(id NodeID) string {
	return t.nodes[id].kind
}

// Label returns the textual value of id.
func (t *Tree) Label(id NodeID) string {
	return t.nodes[id].label
}

// Parent returns the parent of id, or NoNodeID if id is the root.
func (t *Tree) Parent(id NodeID) NodeID {
	return t.nodes[id].parent
}

// Children returns the child ids of id in source order.
func (t *Tree) Children(id NodeID) []NodeID {
	return t.nodes[id].children
}

// Depth returns the distance from the root to id (root has depth 0).
func (t *Tree) Depth(id NodeID) int {
	return t.nodes[id].depth
}

// Height returns the distance from id to its farthest leaf descendant
// (a leaf has height 0).
func (t *Tree) Height(id NodeID) int {
	return t.nodes[id].height
}

// Leftmost returns the id of id's leftmost leaf descendant (a leaf is its
// own leftmost descendant).
func (t *Tree) Leftmost(id NodeID) NodeID {
	return t.nodes[id].leftmost
}

// IsLeaf reports whether id has no children.
func (t *Tree) IsLeaf(id NodeID) bool {
	return len(t.nodes[id].children) == 0
}

// Original returns the caller-supplied ASTNode that id was built from.
func (t *Tree) Original(id NodeID) ASTNode {
	return t.src[id]
}

// DescendantCount returns the number of proper descendants of id (excluding
// id itself): the width of the postorder range [Leftmost(id), id). Zero for
// a leaf.
func (t *Tree) DescendantCount(id NodeID) int {
	return int(id - t.Leftmost(id))
}

// Descendants returns every id in the subtree rooted at id, including id
// itself, via the tree's contiguous postorder numbering: a subtree rooted
// at id occupies exactly the postorder range [Leftmost(id), id].
func (t *Tree) Descendants(id NodeID) []NodeID {
	lo := t.Leftmost(id)
	out := make([]NodeID, 0, int(id-lo)+1)

	for cur := lo; cur <= id; cur++ {
		out = append(out, cur)
	}

	return out
}

// Preorder returns the ids of the subtree rooted at id in preorder
// (root first), useful for presentation and for the edit script builder's
// insert pass.
func (t *Tree) Preorder(id NodeID) []NodeID {
	var out []NodeID

	var walk func(NodeID)

	walk = func(cur NodeID) {
		out = append(out, cur)
		for _, child := range t.nodes[cur].children {
			walk(child)
		}
	}

	walk(id)

	return out
}

// InvariantChecks enables a full consistency sweep over every tree Build
// produces. Off by default: the checks cost a second pass per tree and only
// ever catch builder bugs, so they are meant for tests and debug builds, not
// release paths.
var InvariantChecks = false

// Build converts a caller's ASTNode tree into a Tree, numbering nodes in a
// single postorder pass and deriving parent links, depth, height and
// leftmost-descendant in the same walk.
func Build(root ASTNode) (*Tree, error) {
	if root == nil {
		return nil, ErrNilRoot
	}

	t := &Tree{}
	t.buildSubtree(root, NoNodeID, 0)
	t.root = NodeID(len(t.nodes) - 1)

	if InvariantChecks {
		if err := t.checkInvariants(); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// checkInvariants verifies the structural invariants every other component
// assumes: the root is the last postorder id with no parent, every child
// precedes its parent and lies inside its subtree range, parent links and
// children lists agree, depth increases by one per level, height is one more
// than the tallest child, and leftmost follows the first child.
func (t *Tree) checkInvariants() error {
	if t.nodes[t.root].parent != NoNodeID || int(t.root) != len(t.nodes)-1 {
		return fmt.Errorf("%w: root %d is not the unparented last node", ErrInvariantViolation, t.root)
	}

	for id := NodeID(0); int(id) < len(t.nodes); id++ {
		n := t.nodes[id]

		if n.leftmost > id {
			return fmt.Errorf("%w: node %d leftmost %d exceeds own id", ErrInvariantViolation, id, n.leftmost)
		}

		wantHeight := 0
		wantLeftmost := id

		for i, child := range n.children {
			c := t.nodes[child]

			if child >= id || child < n.leftmost {
				return fmt.Errorf("%w: child %d outside subtree range of %d", ErrInvariantViolation, child, id)
			}

			if c.parent != id {
				return fmt.Errorf("%w: child %d of %d has parent %d", ErrInvariantViolation, child, id, c.parent)
			}

			if c.depth != n.depth+1 {
				return fmt.Errorf("%w: child %d depth %d under depth-%d parent", ErrInvariantViolation, child, c.depth, n.depth)
			}

			if c.height+1 > wantHeight {
				wantHeight = c.height + 1
			}

			if i == 0 {
				wantLeftmost = c.leftmost
			}
		}

		if n.height != wantHeight {
			return fmt.Errorf("%w: node %d height %d, want %d", ErrInvariantViolation, id, n.height, wantHeight)
		}

		if n.leftmost != wantLeftmost {
			return fmt.Errorf("%w: node %d leftmost %d, want %d", ErrInvariantViolation, id, n.leftmost, wantLeftmost)
		}
	}

	return nil
}

// buildSubtree appends postorder entries for the subtree rooted at astNode
// and returns its NodeID. parent and depth describe astNode's position in
// the tree under construction.
func (t *Tree) buildSubtree(astNode ASTNode, parent NodeID, depth int) NodeID {
	children := astNode.Children()
	childIDs := make([]NodeID, 0, len(children))

	height := 0
	leftmost := NoNodeID

	for _, child := range children {
		childID := t.buildSubtree(child, NoNodeID, depth+1)
		childIDs = append(childIDs, childID)

		if t.nodes[childID].height+1 > height {
			height = t.nodes[childID].height + 1
		}

		if leftmost == NoNodeID {
			leftmost = t.nodes[childID].leftmost
		}
	}

	self := NodeID(len(t.nodes))
	if leftmost == NoNodeID {
		leftmost = self
	}

	t.nodes = append(t.nodes, node{
		kind:     astNode.Kind(),
		label:    astNode.Label(),
		parent:   parent,
		children: childIDs,
		depth:    depth,
		height:   height,
		leftmost: leftmost,
	})
	t.src = append(t.src, astNode)

	for _, childID := range childIDs {
		t.nodes[childID].parent = self
	}

	return self
}
