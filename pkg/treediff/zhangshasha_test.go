package treediff

import "testing"

func pairSet(pairs [][2]NodeID) map[[2]NodeID]bool {
	out := make(map[[2]NodeID]bool, len(pairs))
	for _, p := range pairs {
		out[p] = true
	}

	return out
}

func TestZSMatcher_IdenticalSubtreesMapEveryNode(t *testing.T) {
	a := branch("Function", leaf("Parameter", "a"), leaf("Return", "a"))
	b := branch("Function", leaf("Parameter", "a"), leaf("Return", "a"))

	src, _ := Build(a)
	dst, _ := Build(b)

	zs := newZSMatcher(src, dst)
	pairs := zs.match(src.Root(), dst.Root())

	if len(pairs) != src.Size() {
		t.Fatalf("expected %d pairs for identical subtrees, got %d: %v", src.Size(), len(pairs), pairs)
	}

	set := pairSet(pairs)
	if !set[[2]NodeID{src.Root(), dst.Root()}] {
		t.Fatal("expected the two roots to be paired")
	}
}

func TestZSMatcher_RenameStillPairsSameKindNodes(t *testing.T) {
	a := branch("Function", leaf("Identifier", "add"))
	b := branch("Function", leaf("Identifier", "sum"))

	src, _ := Build(a)
	dst, _ := Build(b)

	zs := newZSMatcher(src, dst)
	pairs := zs.match(src.Root(), dst.Root())

	if len(pairs) != 2 {
		t.Fatalf("expected both the Function root and the renamed Identifier leaf to pair, got %v", pairs)
	}
}

func TestZSMatcher_NeverPairsDifferentKinds(t *testing.T) {
	a := branch("Function", leaf("Identifier", "x"))
	b := branch("Class", leaf("Literal", "x"))

	src, _ := Build(a)
	dst, _ := Build(b)

	zs := newZSMatcher(src, dst)
	pairs := zs.match(src.Root(), dst.Root())

	for _, p := range pairs {
		if src.Kind(p[0]) != dst.Kind(p[1]) {
			t.Fatalf("expected no cross-kind pair, got src kind %s dst kind %s", src.Kind(p[0]), dst.Kind(p[1]))
		}
	}
}

func TestKeyroots_IncludesRootAndNonLeftmostChildren(t *testing.T) {
	tree := branch("Block", leaf("A", "a"), leaf("B", "b"), leaf("C", "c"))

	tr, err := Build(tree)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	krs := keyroots(tr, tr.Root())

	if len(krs) != len(tr.Children(tr.Root()))-1+1 {
		t.Fatalf("expected root plus all non-leftmost children as keyroots, got %v", krs)
	}

	found := false

	for _, kr := range krs {
		if kr == tr.Root() {
			found = true
		}
	}

	if !found {
		t.Fatal("expected root to always be a keyroot")
	}
}
