package main

import "testing"

func TestLspCmd_Use(t *testing.T) {
	t.Parallel()

	cmd := lspCmd()
	if cmd.Use != "lsp" {
		t.Errorf("Use = %q, want %q", cmd.Use, "lsp")
	}
}
