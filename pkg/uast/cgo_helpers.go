package uast

import "unsafe"

// The readers in this file pull fields straight out of tree-sitter's C
// structs without a CGO call. The matcher visits every node of both trees
// at least once, so on large sources the per-call CGO overhead of the
// official accessors dominates the walk; these direct reads remove it for
// the fields whose values live inline in the structs. Layouts are pinned to
// tree-sitter's api.h and verified by the position/symbol comparison tests
// in parser_dsl_test.go.

// tsNodeContext maps the first 4 uint32 fields of a tree-sitter TSNode:
//
//	struct TSNode {
//	  uint32_t context[4];  // [0]=start_byte, [1]=start_row, [2]=start_col, [3]=alias
//	  const void *id;
//	  const TSTree *tree;
//	};
//
// sitter.Node wraps this as struct { c C.TSNode }, so a pointer to one is a
// pointer to the other.
type tsNodeContext struct {
	startByte uint32
	startRow  uint32
	startCol  uint32
	alias     uint32
}

// readStartPositions reads start byte/row/col directly from the TSNode
// struct. The start side is stored inline (unlike the end side, which
// cgo_end_positions.go has to compute in C), so this costs three plain
// loads.
func readStartPositions(nodePtr unsafe.Pointer) (startByte, startRow, startCol uint) {
	ctx := (*tsNodeContext)(nodePtr)

	return uint(ctx.startByte), uint(ctx.startRow), uint(ctx.startCol)
}

// tsNodeFull maps the whole TSNode struct including the pointers (64-bit
// layout):
//
//	Offset  0: context[4] (16 bytes)
//	Offset 16: id (8 bytes, pointer to Subtree union)
//	Offset 24: tree (8 bytes, pointer to TSTree)
type tsNodeFull struct {
	context [4]uint32
	id      unsafe.Pointer
	tree    unsafe.Pointer
}

// subtreeHeapPartial mirrors tree-sitter's SubtreeHeapData fields up to
// named_child_count. Offsets verified via offsetof() on linux/amd64 gcc:
//
//	Offset  0: ref_count (uint32)
//	Offset  4: padding (Length = {uint32 bytes, TSPoint{uint32 row, uint32 col}} = 12 bytes)
//	Offset 16: size (Length = 12 bytes)
//	Offset 28: lookahead_bytes (uint32)
//	Offset 32: error_cost (uint32)
//	Offset 36: child_count (uint32)
//	Offset 40: symbol (uint16)
//	Offset 42: parse_state (uint16)
//	Offset 44: flags (bitfield, 2 bytes used + 2 padding = 4 bytes)
//	Offset 48: visible_child_count (uint32) — union field, valid when child_count > 0
//	Offset 52: named_child_count (uint32) — union field, valid when child_count > 0
type subtreeHeapPartial struct {
	refCount        uint32
	paddingBytes    uint32
	paddingRow      uint32
	paddingCol      uint32
	sizeBytes       uint32
	sizeRow         uint32
	sizeCol         uint32
	lookaheadBytes  uint32
	errorCost       uint32
	childCount      uint32
	symbol          uint16
	parseState      uint16
	flags           uint32
	visibleChildren uint32
	namedChildren   uint32
}

// readNamedChildCount reads the named child count from the TSNode's heap
// subtree. Returns 0 for inline subtrees (leaves) and for nodes with
// child_count == 0.
//
// TSNode.id points to a Subtree union (8 bytes):
//   - is_inline set (LSB of first byte = 1): SubtreeInlineData, no children.
//   - otherwise: the 8 bytes ARE a const SubtreeHeapData* pointer.
func readNamedChildCount(nodePtr unsafe.Pointer) uint32 {
	full := (*tsNodeFull)(nodePtr)

	firstByte := (*byte)(full.id)
	if *firstByte&1 == 1 {
		return 0
	}

	heapPtrPtr := (*unsafe.Pointer)(full.id)
	heap := (*subtreeHeapPartial)(*heapPtrPtr)

	if heap.childCount == 0 {
		return 0
	}

	return heap.namedChildren
}
