package lsp

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func newTestDoc(t *testing.T, src string) *document {
	t.Helper()
	doc := &document{text: src}
	h := &Handler{}
	if err := h.evaluate(doc); err != nil {
		doc.err = err
	}
	return doc
}

func TestEvaluateValidScriptHasNoError(t *testing.T) {
	doc := newTestDoc(t, "declare_bv x 8\nassert (= x x)\n")
	if doc.err != nil {
		t.Fatalf("unexpected error: %v", doc.err)
	}
	if doc.ctx == nil {
		t.Fatalf("expected a context to be built")
	}
}

func TestEvaluateInvalidScriptRecordsError(t *testing.T) {
	doc := newTestDoc(t, "assert (= y y)\n")
	if doc.err == nil {
		t.Fatalf("expected an error for an undeclared identifier")
	}
}

func TestWorkspaceExecuteCommandCheckSat(t *testing.T) {
	h := NewHandler()
	doc := newTestDoc(t, "declare_bv x 4\nassert (= x x)\n")
	h.docs["/tmp/test.qfbv"] = doc

	result, err := h.WorkspaceExecuteCommand(nil, &protocol.ExecuteCommandParams{Command: CommandCheckSat})
	if err != nil {
		t.Fatalf("WorkspaceExecuteCommand: %v", err)
	}
	if result != "sat" {
		t.Fatalf("expected sat, got %v", result)
	}
}

func TestWorkspaceExecuteCommandUnknown(t *testing.T) {
	h := NewHandler()
	doc := newTestDoc(t, "declare_bv x 4\n")
	h.docs["/tmp/test.qfbv"] = doc

	if _, err := h.WorkspaceExecuteCommand(nil, &protocol.ExecuteCommandParams{Command: "bogus"}); err == nil {
		t.Fatalf("expected an error for an unknown command")
	}
}

func TestURIToPath(t *testing.T) {
	path, err := uriToPath("file:///tmp/test.qfbv")
	if err != nil {
		t.Fatalf("uriToPath: %v", err)
	}
	if path != "/tmp/test.qfbv" {
		t.Fatalf("expected /tmp/test.qfbv, got %s", path)
	}
}
