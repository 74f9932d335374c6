package treediff

import "testing"

func TestMatchBottomUp_MapsContainerWithMappedLeaves(t *testing.T) {
	// Two blocks that differ enough at the root the top-down matcher can't
	// treat them as isomorphic; their shared leaf is below the default
	// MinHeight of 1, so top-down maps nothing. Bottom-up then force-links
	// the two roots and its Zhang-Shasha pass pairs the shared leaf.
	a := branch("Block", leaf("Statement", "shared"))
	b := branch("Block", leaf("Statement", "shared"), leaf("Statement", "extra"))

	src, _ := Build(a)
	dst, _ := Build(b)

	m := NewMappings(src, dst)
	matchTopDown(src, dst, m, DefaultOptions().MinHeight)

	if m.HasSrc(src.Root()) {
		t.Fatal("expected the top-down phase to leave the differing Block roots unmapped")
	}

	matchBottomUp(src, dst, m, DefaultOptions())

	if !m.HasSrc(src.Root()) {
		t.Fatal("expected the bottom-up phase to force-link the Block roots")
	}

	if dstID, _ := m.Dst(src.Root()); dstID != dst.Root() {
		t.Fatalf("expected src root to map to dst root, got %d", dstID)
	}
}

func TestMatchBottomUp_RespectsMinDiceThreshold(t *testing.T) {
	// Wrap the differing Block in a Program root so the root-forcing rule
	// (roots always link) doesn't mask the dice gate under test: here it's
	// the inner Block container, not the tree root, whose match is rejected.
	a := branch("Program", branch("Block", leaf("Statement", "shared"), leaf("Statement", "x1"), leaf("Statement", "x2"), leaf("Statement", "x3")))
	b := branch("Program", branch("Block", leaf("Statement", "shared"), leaf("Statement", "y1"), leaf("Statement", "y2"), leaf("Statement", "y3")))

	src, _ := Build(a)
	dst, _ := Build(b)

	srcBlock := src.Children(src.Root())[0]
	dstBlock := dst.Children(dst.Root())[0]

	// Seed the one leaf pair the two Blocks have in common directly, rather
	// than relying on the top-down phase: at the default MinHeight of 1 it
	// never pairs leaves, which have height 0.
	m := NewMappings(src, dst)
	m.Add(src.Children(srcBlock)[0], dst.Children(dstBlock)[0])

	opts := DefaultOptions()
	opts.MinDice = 0.99 // far above the achievable Dice for these mostly-different blocks.
	opts.MaxSize = 3    // smaller than the whole tree, so the root's forced Zhang-Shasha pass
	// can't bypass the dice gate under test by optimally matching everything itself.

	matchBottomUp(src, dst, m, opts)

	if m.HasSrc(srcBlock) {
		t.Fatal("expected a MinDice above the achievable coefficient to reject the container match")
	}
}

func TestMatchBottomUp_SkipsNodesWithNoMappedDescendant(t *testing.T) {
	// Same wrapping: the root always force-links, but the inner Block with
	// no mapped descendant must still be left alone.
	a := branch("Program", branch("Block", leaf("Statement", "a")))
	b := branch("Program", branch("Block", leaf("Statement", "b")))

	src, _ := Build(a)
	dst, _ := Build(b)

	srcBlock := src.Children(src.Root())[0]

	opts := DefaultOptions()
	opts.MaxSize = 2 // smaller than the whole tree, so the root's forced Zhang-Shasha
	// pass bails out instead of optimally matching the Block itself.

	m := NewMappings(src, dst)
	// No top-down run: nothing is mapped, so the Block has no mapped
	// descendant and bottom-up must leave it alone, even though the root
	// itself is always force-linked.
	matchBottomUp(src, dst, m, opts)

	if m.HasSrc(srcBlock) {
		t.Fatal("expected no container mapping without any mapped descendant to anchor on")
	}

	if m.Len() != 1 {
		t.Fatalf("expected only the forced root mapping, got %d mappings", m.Len())
	}
}
