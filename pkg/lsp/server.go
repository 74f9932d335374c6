// Package lsp provides a Language Server Protocol server that exposes the
// UAST parser for editor integration: hovering a position in an open
// document reports the AST node kind and roles under the cursor, and every
// edit republishes parse diagnostics.
package lsp

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/Sumatoshi-tech/astdiff/pkg/uast"
	"github.com/Sumatoshi-tech/astdiff/pkg/uast/pkg/node"
)

// documentStore is a thread-safe store for open document contents keyed by URI.
type documentStore struct {
	documents map[string]string
	mu        sync.RWMutex
}

func newDocumentStore() *documentStore {
	return &documentStore{documents: make(map[string]string)}
}

func (ds *documentStore) set(uri, content string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.documents[uri] = content
}

func (ds *documentStore) get(uri string) (string, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	content, ok := ds.documents[uri]

	return content, ok
}

func (ds *documentStore) delete(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	delete(ds.documents, uri)
}

// Server implements an editor-integration LSP server backed by a [uast.Parser].
type Server struct {
	store   *documentStore
	parser  *uast.Parser
	handler protocol.Handler
}

// NewServer creates an LSP server using parser to turn open documents into
// UAST trees for hover and diagnostics.
func NewServer(parser *uast.Parser) *Server {
	srv := &Server{store: newDocumentStore(), parser: parser}

	srv.handler = protocol.Handler{
		Initialize:            srv.initialize,
		Initialized:           srv.initialized,
		Shutdown:              srv.shutdown,
		SetTrace:              srv.setTrace,
		TextDocumentDidOpen:   srv.didOpen,
		TextDocumentDidChange: srv.didChange,
		TextDocumentDidSave:   srv.didSave,
		TextDocumentDidClose:  srv.didClose,
		TextDocumentHover:     srv.hover,
	}

	return srv
}

// Run starts the LSP server on stdio. It blocks until the client disconnects.
func (srv *Server) Run() {
	lspServer := server.NewServer(&srv.handler, "astdiff", false)

	if err := lspServer.RunStdio(); err != nil {
		log.Printf("lsp server error: %v", err)
	}
}

func (srv *Server) initialize(_ *glsp.Context, _ *protocol.InitializeParams) (any, error) {
	capabilities := srv.handler.CreateServerCapabilities()
	version := "0.1.0"

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    "astdiff",
			Version: &version,
		},
	}, nil
}

func (srv *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (srv *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)

	return nil
}

func (srv *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)

	return nil
}

func (srv *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI

	srv.store.set(uri, params.TextDocument.Text)
	srv.publishDiagnostics(ctx, uri)

	return nil
}

func (srv *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	if len(params.ContentChanges) > 0 {
		if change, ok := params.ContentChanges[0].(map[string]any); ok {
			if text, ok := change["text"].(string); ok {
				srv.store.set(uri, text)
				srv.publishDiagnostics(ctx, uri)
			}
		}
	}

	return nil
}

func (srv *Server) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI

	if _, ok := srv.store.get(uri); ok {
		srv.publishDiagnostics(ctx, uri)
	}

	return nil
}

func (srv *Server) didClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	srv.store.delete(params.TextDocument.URI)

	// Every edit reparsed this document through the C heap; closing it is
	// the natural point to hand the freed arenas back to the OS.
	uast.MallocTrim()

	return nil
}

// hover reports the UAST node kind and roles covering the cursor position.
func (srv *Server) hover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := params.TextDocument.URI

	text, ok := srv.store.get(uri)
	if !ok {
		return nil, nil //nolint:nilnil // LSP protocol expects nil hover when there is nothing to show
	}

	if !srv.parser.IsSupported(uri) {
		return nil, nil //nolint:nilnil // unsupported file type, nothing to hover
	}

	tree, err := srv.parser.Parse(context.Background(), uri, []byte(text))
	if err != nil {
		return nil, nil //nolint:nilnil // unparseable buffer, nothing to hover
	}

	line := uint(params.Position.Line) + 1
	col := uint(params.Position.Character) + 1

	target := narrowestNodeAt(tree, line, col)
	if target == nil {
		return nil, nil //nolint:nilnil // cursor outside any located node
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: describeNode(target),
		},
	}, nil
}

// narrowestNodeAt walks n looking for the smallest-span descendant whose
// position covers (line, col), tracking depth-first to prefer leaves.
func narrowestNodeAt(n *node.Node, line, col uint) *node.Node {
	if n == nil || !covers(n.Pos, line, col) {
		return nil
	}

	for _, child := range n.Children {
		if found := narrowestNodeAt(child, line, col); found != nil {
			return found
		}
	}

	return n
}

func covers(pos *node.Positions, line, col uint) bool {
	if pos == nil {
		return false
	}

	if line < pos.StartLine || line > pos.EndLine {
		return false
	}

	if line == pos.StartLine && col < pos.StartCol {
		return false
	}

	if line == pos.EndLine && col > pos.EndCol {
		return false
	}

	return true
}

func describeNode(n *node.Node) string {
	var b strings.Builder

	b.WriteString("**")
	b.WriteString(string(n.Type))
	b.WriteString("**")

	if len(n.Roles) > 0 {
		roles := make([]string, len(n.Roles))
		for i, r := range n.Roles {
			roles[i] = string(r)
		}

		b.WriteString("\n\nroles: ")
		b.WriteString(strings.Join(roles, ", "))
	}

	if n.Token != "" {
		b.WriteString("\n\ntoken: `")
		b.WriteString(n.Token)
		b.WriteString("`")
	}

	return b.String()
}

// publishDiagnostics reports whether uri's current content fails to parse.
// The UAST adapter surfaces parse failures as an error rather than partial
// trees, so there is at most one diagnostic per document: a parse error
// anchored at the start of the file.
func (srv *Server) publishDiagnostics(ctx *glsp.Context, uri string) {
	text, ok := srv.store.get(uri)
	if !ok {
		return
	}

	diagnostics := []protocol.Diagnostic{}

	if srv.parser.IsSupported(uri) {
		if _, err := srv.parser.Parse(context.Background(), uri, []byte(text)); err != nil {
			severity := protocol.DiagnosticSeverityError
			diagnostics = append(diagnostics, protocol.Diagnostic{
				Range: protocol.Range{
					Start: protocol.Position{Line: 0, Character: 0},
					End:   protocol.Position{Line: 0, Character: 1},
				},
				Severity: &severity,
				Source:   strPtr("astdiff"),
				Message:  err.Error(),
			})
		}
	}

	ctx.Notify("textDocument/publishDiagnostics", &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func strPtr(s string) *string { return &s }
