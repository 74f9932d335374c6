package uast

import (
	"context"
	"fmt"
	"unsafe"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// cursorThreshold is the named-child count at which the batched CGO child
// read pays for its setup cost over per-child cursor calls.
const cursorThreshold = 8

// invalidSymbolID marks a node whose grammar symbol cannot be read without
// a CGO call; callers fall back to Node.GrammarSymbol or Node.Type.
const invalidSymbolID = ^uint16(0)

// readSymbol reads a node's visible grammar symbol straight from the TSNode
// struct, bypassing CGO. Aliased nodes carry the visible symbol in
// context[3]; otherwise it lives in the heap subtree. Inline subtrees pack
// the symbol into a bitfield layout this reader does not decode, so they
// return invalidSymbolID.
func readSymbol(nodePtr unsafe.Pointer) uint16 {
	full := (*tsNodeFull)(nodePtr)
	if full.id == nil {
		return invalidSymbolID
	}

	if alias := full.context[3]; alias != 0 {
		return uint16(alias)
	}

	firstByte := (*byte)(full.id)
	if *firstByte&1 == 1 {
		return invalidSymbolID
	}

	heap := (*subtreeHeapPartial)(*(*unsafe.Pointer)(full.id))

	return heap.symbol
}

// readEndPositions returns a node's end byte/row/col in a single CGO helper
// call instead of separate EndPoint and EndByte calls.
func readEndPositions(nodePtr unsafe.Pointer) (endByte, endRow, endCol uint) {
	full := (*tsNodeFull)(nodePtr)

	return readEndPositionsFromParts(
		full.context[0],
		full.context[1],
		full.context[2],
		full.context[3],
		uintptr(full.id),
		uintptr(full.tree),
	)
}

// parseTSTree parses source into a raw tree-sitter tree using the pooled
// parser. The caller owns the returned tree and must Close it.
func (parser *DSLParser) parseTSTree(content []byte) (*sitter.Tree, error) {
	tsParser, ok := parser.tsParserPool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer parser.tsParserPool.Put(tsParser)

	tree, err := tsParser.ParseString(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("dsl parser: failed to parse: %w", err)
	}

	return tree, nil
}

// parseContext carries per-parse state for symbol-table-backed lookups.
type parseContext struct {
	parser *DSLParser
	tree   *sitter.Tree
	source []byte
}

func (parser *DSLParser) newParseContext(tree *sitter.Tree, source []byte) *parseContext {
	return &parseContext{parser: parser, tree: tree, source: source}
}

// nodeType resolves a node's grammar type name through the pre-built symbol
// table, avoiding the per-call C-string conversion of Node.Type on the hot
// path. Nodes whose symbol cannot be read without CGO resolve through
// GrammarSymbol (no allocation), and only unknown symbols fall back to
// Node.Type itself.
func (c *parseContext) nodeType(n sitter.Node) string {
	names := c.parser.symbolNames

	if sym := readSymbol(unsafe.Pointer(&n)); sym != invalidSymbolID {
		if int(sym) < len(names) && names[sym] != "" {
			return names[sym]
		}
	}

	if idx := int(n.GrammarSymbol()); idx < len(names) && names[idx] != "" {
		return names[idx]
	}

	return n.Type()
}
