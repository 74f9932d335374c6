package uast

/*
#include "cgo_named_children_batch.h"
*/
import "C"

// batchChildInfo is one entry of the batched child read: the flattened
// TSNode fields of a named child plus its own named-child count, everything
// the Go side needs to keep walking without another crossing per child.
type batchChildInfo C.ad_child_info

// fillNamedChildrenBatchFromParts reads every named child of the node
// rebuilt from the given TSNode parts in a single CGO call. written
// receives how many entries were filled (bounded by len(children)), total
// the node's full named-child count.
func fillNamedChildrenBatchFromParts(
	ctx0,
	ctx1,
	ctx2,
	ctx3 uint32,
	idRaw,
	treeRaw uintptr,
	children []batchChildInfo,
	written *uint32,
	total *uint32,
) {
	var totalNamed C.uint32_t
	var writtenNamed C.uint32_t
	var output *C.ad_child_info
	var outputCap C.uint32_t
	cCtx0 := C.uint32_t(ctx0)
	cCtx1 := C.uint32_t(ctx1)
	cCtx2 := C.uint32_t(ctx2)
	cCtx3 := C.uint32_t(ctx3)
	cIDRaw := C.uintptr_t(idRaw)
	cTreeRaw := C.uintptr_t(treeRaw)

	if len(children) > 0 {
		output = (*C.ad_child_info)(&children[0])
		outputCap = C.uint32_t(len(children))
	}

	C.ad_node_named_children_batch(cCtx0, cCtx1, cCtx2, cCtx3, cIDRaw, cTreeRaw, output, outputCap, &writtenNamed, &totalNamed)

	*written = uint32(writtenNamed)
	*total = uint32(totalNamed)
}
