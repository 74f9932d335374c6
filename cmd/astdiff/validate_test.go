package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateCmd_Flags(t *testing.T) {
	t.Parallel()

	cmd := validateCmd()

	if cmd.Flags().Lookup("schema") == nil {
		t.Error("expected --schema flag to be registered")
	}

	if cmd.Use != "validate file" {
		t.Errorf("Use = %q, want %q", cmd.Use, "validate file")
	}
}

func TestRunValidate_ValidFilePasses(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeTestFile(t, dir, "ok.go", "package main\n\nfunc main() {}\n")

	if err := runValidate(path, ""); err != nil {
		t.Fatalf("runValidate: %v", err)
	}
}

func TestLoadSchema_CustomPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "custom.json")

	if err := os.WriteFile(schemaPath, []byte(`{"type":"object"}`), 0o600); err != nil {
		t.Fatalf("write schema: %v", err)
	}

	if _, err := loadSchema(schemaPath); err != nil {
		t.Fatalf("loadSchema: %v", err)
	}
}

func TestLoadSchema_Embedded(t *testing.T) {
	t.Parallel()

	if _, err := loadSchema(""); err != nil {
		t.Fatalf("loadSchema: %v", err)
	}
}
