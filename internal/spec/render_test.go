package spec

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"argspecgen/internal/report"
)

func testLogger() *report.Logger {
	return report.NewWithWriters(0, io.Discard, io.Discard)
}

func TestRenderEmpty(t *testing.T) {
	out, err := Render(nil, map[string]*EntryPoint{})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	want := "---\nargument_specs: {}\n...\n"
	if out != want {
		t.Errorf("Expected empty document %q, got %q", want, out)
	}
}

func TestRenderFormat(t *testing.T) {
	main := NewEntryPoint("main")
	main.ShortDescription = "Main entry point"
	main.Description = []string{"Configures the application."}
	main.Author = []string{"Jane Doe"}
	main.Options["app_port"] = &Argument{
		Name: "app_port", Type: "int", Default: 8080,
		Description: "Port number", VersionAdded: "1.0.0",
	}
	main.Options["app_name"] = &Argument{
		Name: "app_name", Type: "str", Required: true,
		Description: "Application name",
	}

	setup := NewEntryPoint("setup")
	setup.ShortDescription = "Setup entry point"
	setup.Options["setup_flag"] = &Argument{
		Name: "setup_flag", Type: "bool", Default: false,
		Description: "Setup toggle",
	}

	out, err := Render([]string{"main", "setup"}, map[string]*EntryPoint{
		"main": main, "setup": setup,
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !strings.HasPrefix(out, "---\n") {
		t.Error("Expected document to start with ---")
	}
	if !strings.HasSuffix(out, "...\n") {
		t.Error("Expected document to end with ...")
	}
	if !strings.Contains(out, "argument_specs:\n") {
		t.Error("Expected top-level argument_specs key")
	}

	mainIdx := strings.Index(out, "\n  main:")
	setupIdx := strings.Index(out, "\n  setup:")
	if mainIdx < 0 || setupIdx < 0 {
		t.Fatalf("Expected both entry point keys, got:\n%s", out)
	}
	if mainIdx > setupIdx {
		t.Error("Expected main to render before setup")
	}
	if !strings.Contains(out, "\n\n  setup:") {
		t.Error("Expected a blank line before the second entry point block")
	}

	// Options sorted by name.
	nameIdx := strings.Index(out, "app_name:")
	portIdx := strings.Index(out, "app_port:")
	if nameIdx < 0 || portIdx < 0 || nameIdx > portIdx {
		t.Errorf("Expected options sorted by name, got:\n%s", out)
	}

	if strings.Count(out, "required: true") != 1 {
		t.Errorf("Expected exactly one required marker, got:\n%s", out)
	}
	if strings.Contains(out, "required: false") {
		t.Error("Expected no required marker for optional arguments")
	}
	if !strings.Contains(out, "default: 8080") {
		t.Error("Expected numeric default to render unquoted")
	}
	if !strings.Contains(out, "version_added: 1.0.0") {
		t.Errorf("Expected version_added tag, got:\n%s", out)
	}
	if strings.Contains(out, "&") || strings.Contains(out, "*1") {
		t.Error("Expected no anchors or aliases in output")
	}
}

func TestRenderKeyOrder(t *testing.T) {
	ep := NewEntryPoint("main")
	ep.ShortDescription = "Short"
	ep.Description = []string{"Long."}
	ep.Author = []string{"Someone"}
	ep.Options["only_opt"] = &Argument{Name: "only_opt", Type: "str", Description: "x"}
	ep.RequiredOneOf = [][]string{{"only_opt"}}

	out, err := Render([]string{"main"}, map[string]*EntryPoint{"main": ep})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	order := []string{"short_description:", "description:", "author:", "options:", "required_one_of:"}
	last := -1
	for _, key := range order {
		idx := strings.Index(out, key)
		if idx < 0 {
			t.Fatalf("Expected key %q in output:\n%s", key, out)
		}
		if idx < last {
			t.Errorf("Key %q out of order in output:\n%s", key, out)
		}
		last = idx
	}
}

func TestValidate(t *testing.T) {
	ep := NewEntryPoint("main")
	ep.ShortDescription = "Main"
	ep.Options["app_port"] = &Argument{Name: "app_port", Type: "int"}
	ep.Options["app_mode"] = &Argument{Name: "app_mode", Type: "str"}

	entryPoints := map[string]*EntryPoint{"main": ep}
	if !Validate([]string{"main"}, entryPoints, testLogger()) {
		t.Error("Expected valid spec to pass validation")
	}

	ep.Options["app_bad"] = &Argument{Name: "app_bad", Type: "integer"}
	if Validate([]string{"main"}, entryPoints, testLogger()) {
		t.Error("Expected unknown type to fail validation")
	}
	delete(ep.Options, "app_bad")

	ep.RequiredOneOf = [][]string{{"app_port", "no_such_option"}}
	if Validate([]string{"main"}, entryPoints, testLogger()) {
		t.Error("Expected dangling required_one_of reference to fail validation")
	}
	ep.RequiredOneOf = nil

	ep.RequiredIf = [][]any{{"app_mode", "server", []any{"app_port"}}}
	if !Validate([]string{"main"}, entryPoints, testLogger()) {
		t.Error("Expected valid required_if to pass validation")
	}

	ep.RequiredIf = [][]any{{"app_mode", "server", []any{"missing_param"}}}
	if Validate([]string{"main"}, entryPoints, testLogger()) {
		t.Error("Expected dangling required_if reference to fail validation")
	}
}

func TestLoadExisting(t *testing.T) {
	roleDir := t.TempDir()
	metaDir := filepath.Join(roleDir, "meta")
	if err := os.MkdirAll(metaDir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := `---
argument_specs:
  main:
    short_description: Hand written short
    description:
      - First line.
      - Second line.
    author:
      - Jane Doe
    options:
      app_port:
        description: Hand tuned port
        type: int
        version_added: 1.1.0
      app_legacy:
        description: Old option
        type: str
...
`
	if err := os.WriteFile(filepath.Join(metaDir, "argument_specs.yml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	existing := LoadExisting(roleDir, testLogger())

	entry, ok := existing["main"]
	if !ok {
		t.Fatal("Expected main entry point in existing specs")
	}
	if entry.ShortDescription != "Hand written short" {
		t.Errorf("Expected short description preserved, got %q", entry.ShortDescription)
	}
	if len(entry.Description) != 2 {
		t.Errorf("Expected 2 description lines, got %v", entry.Description)
	}
	if len(entry.Author) != 1 || entry.Author[0] != "Jane Doe" {
		t.Errorf("Expected author Jane Doe, got %v", entry.Author)
	}

	port := entry.Option("app_port")
	if !port.Existing {
		t.Error("Expected app_port to be marked existing")
	}
	if port.VersionAdded != "1.1.0" {
		t.Errorf("Expected version 1.1.0, got %q", port.VersionAdded)
	}
	legacy := entry.Option("app_legacy")
	if !legacy.Existing || legacy.VersionAdded != "" {
		t.Errorf("Expected app_legacy existing without version, got %+v", legacy)
	}
	if entry.Option("never_seen").Existing {
		t.Error("Expected unknown option to report not existing")
	}
}

func TestLoadExistingMissingOrMalformed(t *testing.T) {
	if existing := LoadExisting(t.TempDir(), testLogger()); len(existing) != 0 {
		t.Errorf("Expected no entries for missing file, got %v", existing)
	}

	roleDir := t.TempDir()
	metaDir := filepath.Join(roleDir, "meta")
	if err := os.MkdirAll(metaDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(metaDir, "argument_specs.yml"), []byte("{invalid: yaml: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if existing := LoadExisting(roleDir, testLogger()); len(existing) != 0 {
		t.Errorf("Expected no entries for malformed file, got %v", existing)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "argument_specs.yml")
	content := `---
argument_specs:
  setup:
    short_description: Setup
    options:
      setup_flag:
        type: bool
  main:
    short_description: Main
    options:
      app_port:
        type: int
        required: true
    required_together:
      - [app_port]
...
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	order, entryPoints, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(order) != 2 || order[0] != "main" || order[1] != "setup" {
		t.Errorf("Expected order [main setup], got %v", order)
	}
	arg := entryPoints["main"].Options["app_port"]
	if arg == nil || arg.Type != "int" || !arg.Required {
		t.Errorf("Expected required int app_port, got %+v", arg)
	}
	if len(entryPoints["main"].RequiredTogether) != 1 {
		t.Errorf("Expected required_together group, got %v", entryPoints["main"].RequiredTogether)
	}
}
