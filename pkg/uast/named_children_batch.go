package uast

import (
	"unsafe"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// readNamedChildrenBatch reads all named children of the node behind
// nodePtr in one CGO crossing. The UAST conversion in processChildren uses
// this for wide nodes (long statement lists, big struct bodies), where one
// batched call replaces a per-child NamedChild round trip.
func readNamedChildrenBatch(nodePtr unsafe.Pointer, children []batchChildInfo) (written, total uint32) {
	full := (*tsNodeFull)(nodePtr)
	if full.id == nil {
		return 0, 0
	}

	fillNamedChildrenBatchFromParts(
		full.context[0],
		full.context[1],
		full.context[2],
		full.context[3],
		uintptr(full.id),
		uintptr(full.tree),
		children,
		&written,
		&total,
	)

	return written, total
}

// batchChildToNode reassembles a sitter.Node from one batch entry. The
// layout cast is the inverse of the unsafe reads in cgo_helpers.go:
// sitter.Node wraps a TSNode directly, so a struct with the same field
// layout reinterprets cleanly.
func batchChildToNode(child batchChildInfo) sitter.Node {
	raw := tsNodeFull{
		context: [4]uint32{uint32(child.ctx0), uint32(child.ctx1), uint32(child.ctx2), uint32(child.ctx3)},
		id:      child.id,
		tree:    child.tree,
	}

	return *(*sitter.Node)(unsafe.Pointer(&raw))
}
