package lsp

import (
	"testing"

	"github.com/Sumatoshi-tech/astdiff/pkg/uast"
	"github.com/Sumatoshi-tech/astdiff/pkg/uast/pkg/node"
)

const testDocumentURI = "file:///test.go"

func newTestParser(t *testing.T) *uast.Parser {
	t.Helper()

	parser, err := uast.NewParser()
	if err != nil {
		t.Fatalf("new parser: %v", err)
	}

	return parser
}

func TestNewDocumentStore(t *testing.T) {
	t.Parallel()

	store := newDocumentStore()
	if store == nil || store.documents == nil {
		t.Fatal("expected an initialized documentStore")
	}
}

func TestDocumentStore_SetGetDelete(t *testing.T) {
	t.Parallel()

	store := newDocumentStore()

	store.set(testDocumentURI, "package main\n")

	got, ok := store.get(testDocumentURI)
	if !ok || got != "package main\n" {
		t.Fatalf("get() = %q, %v, want content, true", got, ok)
	}

	store.delete(testDocumentURI)

	if _, ok := store.get(testDocumentURI); ok {
		t.Fatal("expected document to be gone after delete")
	}
}

func TestDocumentStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	store := newDocumentStore()
	done := make(chan struct{})

	go func() {
		for range 100 {
			store.set(testDocumentURI, "a")
		}

		done <- struct{}{}
	}()

	go func() {
		for range 100 {
			store.get(testDocumentURI)
		}

		done <- struct{}{}
	}()

	<-done
	<-done
}

func TestNewServer(t *testing.T) {
	t.Parallel()

	srv := NewServer(newTestParser(t))
	if srv == nil || srv.store == nil || srv.parser == nil {
		t.Fatal("expected an initialized Server")
	}
}

func TestNarrowestNodeAt(t *testing.T) {
	t.Parallel()

	parser := newTestParser(t)

	tree, err := parser.Parse(t.Context(), "hover.go", []byte("package main\n\nfunc main() {}\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	found := narrowestNodeAt(tree, 3, 6)
	if found == nil {
		t.Fatal("expected a node under the cursor")
	}
}

func TestNarrowestNodeAt_OutsideTree(t *testing.T) {
	t.Parallel()

	n := &node.Node{Type: "File", Pos: &node.Positions{StartLine: 1, EndLine: 1, StartCol: 1, EndCol: 1}}

	if found := narrowestNodeAt(n, 100, 1); found != nil {
		t.Fatalf("expected nil outside the tree's span, got %v", found)
	}
}

func TestCovers(t *testing.T) {
	t.Parallel()

	pos := &node.Positions{StartLine: 2, StartCol: 3, EndLine: 4, EndCol: 5}

	tests := []struct {
		name     string
		line     uint
		col      uint
		expected bool
	}{
		{"before start line", 1, 10, false},
		{"after end line", 5, 1, false},
		{"on start line before start col", 2, 1, false},
		{"on start line at start col", 2, 3, true},
		{"on end line after end col", 4, 10, false},
		{"on end line at end col", 4, 5, true},
		{"middle line", 3, 1, true},
		{"nil position", 3, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := pos
			if tt.name == "nil position" {
				p = nil
			}

			if got := covers(p, tt.line, tt.col); got != tt.expected {
				t.Errorf("covers(%v, %d, %d) = %v, want %v", p, tt.line, tt.col, got, tt.expected)
			}
		})
	}
}

func TestDescribeNode(t *testing.T) {
	t.Parallel()

	n := &node.Node{Type: "Identifier", Token: "main", Roles: []node.Role{"Name"}}

	desc := describeNode(n)
	if desc == "" {
		t.Fatal("expected a non-empty description")
	}
}
