// Package lsp implements a minimal language server exposing check-sat
// and get-model as custom LSP commands over an open assertion-script
// document (SPEC_FULL.md §3's glsp/commonlog row). Adapted from the
// teacher's internal/lsp package -- same Initialize/document-lifecycle
// shape, same glsp.Context/protocol.Handler wiring -- with the
// contract-language AST/diagnostics machinery replaced by this
// module's script.Evaluator/context.Context pipeline, and semantic
// tokens/completion dropped since a one-command-per-line assertion
// script has no tokens worth classifying.
package lsp

import (
	"fmt"
	"log"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"qfbv/internal/config"
	"qfbv/internal/context"
	"qfbv/internal/sat"
	"qfbv/internal/script"
)

// Command names this server registers with
// protocol.ExecuteCommandOptions.Commands.
const (
	CommandCheckSat = "qfbv.checkSat"
	CommandGetModel = "qfbv.getModel"
)

// document holds one open script's raw text and the context it last
// evaluated to, so repeated check-sat commands reuse learned clauses
// the way an interactive session would (spec.md §5's push/pop context
// is not torn down between commands).
type document struct {
	text string
	ctx  *context.Context
	ev   *script.Evaluator
	err  error
}

// Handler implements the glsp protocol.Handler callbacks for this
// server, the same role the teacher's KansoHandler plays.
type Handler struct {
	mu   sync.RWMutex
	docs map[string]*document
}

// NewHandler returns an empty Handler.
func NewHandler() *Handler {
	return &Handler{docs: make(map[string]*document)}
}

// Initialize advertises this server's capabilities: full-document sync
// plus the two executable commands.
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("qfbv LSP Initialize called")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			ExecuteCommandProvider: &protocol.ExecuteCommandOptions{
				Commands: []string{CommandCheckSat, CommandGetModel},
			},
		},
	}, nil
}

// Initialized logs completion of the initialize handshake.
func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("qfbv LSP initialized")
	return nil
}

// Shutdown logs the shutdown request.
func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Println("qfbv LSP shutdown")
	return nil
}

// TextDocumentDidOpen reparses and re-evaluates the script, publishing
// a diagnostic if it fails.
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	return h.reload(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

// TextDocumentDidChange re-evaluates the script from scratch on every
// full-document change notification (spec.md's Non-goals exclude an
// incremental reparse, and TextDocumentSyncKindFull only ever delivers
// whole-document content anyway).
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	full, ok := params.ContentChanges[len(params.ContentChanges)-1].(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		return fmt.Errorf("qfbv LSP only supports full-document sync")
	}
	return h.reload(ctx, params.TextDocument.URI, full.Text)
}

// TextDocumentDidClose drops the document's state.
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	h.mu.Lock()
	delete(h.docs, path)
	h.mu.Unlock()
	return nil
}

func (h *Handler) reload(ctx *glsp.Context, rawURI protocol.DocumentUri, text string) error {
	path, err := uriToPath(rawURI)
	if err != nil {
		return err
	}

	doc := &document{text: text}
	if cerr := h.evaluate(doc); cerr != nil {
		doc.err = cerr
	}

	h.mu.Lock()
	h.docs[path] = doc
	h.mu.Unlock()

	diagnostics := diagnosticsFor(doc)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         rawURI,
		Diagnostics: diagnostics,
	})
	return nil
}

func (h *Handler) evaluate(doc *document) error {
	parser, err := script.BuildParser()
	if err != nil {
		return err
	}
	prog, err := parser.ParseString("", doc.text)
	if err != nil {
		return err
	}
	c, err := context.New(config.ArchBV, config.ModePushPop, config.Default)
	if err != nil {
		return err
	}
	ev := script.NewEvaluator(c)
	for _, line := range prog.Lines {
		if _, err := ev.Run(line); err != nil {
			return err
		}
	}
	doc.ctx = c
	doc.ev = ev
	return nil
}

// WorkspaceExecuteCommand dispatches qfbv.checkSat/qfbv.getModel against
// the sole open document's context (an editor extension would pass the
// document URI as the command's first argument; this minimal server
// operates on whichever single script is currently open).
func (h *Handler) WorkspaceExecuteCommand(ctx *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var doc *document
	for _, d := range h.docs {
		doc = d
		break
	}
	if doc == nil {
		return nil, fmt.Errorf("no open document")
	}
	if doc.err != nil {
		return nil, fmt.Errorf("document has errors: %w", doc.err)
	}

	switch params.Command {
	case CommandCheckSat:
		switch doc.ctx.CheckSat() {
		case sat.StatusSAT:
			return "sat", nil
		case sat.StatusUNSAT:
			return "unsat", nil
		case sat.StatusInterrupted:
			return "interrupted", nil
		default:
			return "unknown", nil
		}
	case CommandGetModel:
		if doc.ctx.BuildModel() == nil {
			return nil, fmt.Errorf("no model: run qfbv.checkSat first")
		}
		return "(model)", nil
	default:
		return nil, fmt.Errorf("unknown command %q", params.Command)
	}
}

func diagnosticsFor(doc *document) []protocol.Diagnostic {
	if doc.err == nil {
		return []protocol.Diagnostic{}
	}
	line := 0
	return []protocol.Diagnostic{{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(line), Character: 0},
			End:   protocol.Position{Line: uint32(line), Character: 1},
		},
		Severity: severityError(),
		Message:  doc.err.Error(),
		Source:   strPtr("qfbv"),
	}}
}

func severityError() *protocol.DiagnosticSeverity {
	s := protocol.DiagnosticSeverityError
	return &s
}

func strPtr(s string) *string { return &s }

func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}
	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func ptrBool(b bool) *bool { return &b }

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
