package role

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"argspecgen/internal/extract"
	"argspecgen/internal/report"
)

func testLogger() *report.Logger {
	return report.NewWithWriters(0, io.Discard, io.Discard)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// buildTestRole creates a collection with one role: main includes
// install, install includes helper, backup stands alone.
func buildTestRole(t *testing.T) (string, string) {
	t.Helper()
	collection := t.TempDir()
	roleDir := filepath.Join(collection, "roles", "app")

	writeFile(t, filepath.Join(collection, "galaxy.yml"), "version: 1.2.0\n")
	writeFile(t, filepath.Join(roleDir, "defaults", "main.yml"), `---
app_port: 8080
app_name: myapp
`)
	writeFile(t, filepath.Join(roleDir, "vars", "main.yml"), `---
app_internal_secret: xyz
`)
	writeFile(t, filepath.Join(roleDir, "meta", "main.yml"), `---
galaxy_info:
  author: Jane Doe
  description: Test role for the analyzer
`)
	writeFile(t, filepath.Join(roleDir, "tasks", "main.yml"), `---
- name: Include install
  include_tasks: install.yml
`)
	writeFile(t, filepath.Join(roleDir, "tasks", "install.yml"), `---
- name: Check database
  command: "ping {{ db_host }}"

- name: Include helper
  include_tasks: helper.yml
`)
	writeFile(t, filepath.Join(roleDir, "tasks", "helper.yml"), `---
- name: Helper step
  debug:
    msg: "{{ helper_flag }}"
`)
	writeFile(t, filepath.Join(roleDir, "tasks", "backup.yml"), `---
- name: Create backup directory
  file:
    path: "{{ backup_dir }}"
    state: directory
`)
	writeFile(t, filepath.Join(roleDir, "templates", "app.conf.j2"), `port={{ app_port }}
secret={{ template_only_var }}
`)
	return collection, roleDir
}

func TestAnalyze(t *testing.T) {
	_, roleDir := buildTestRole(t)

	a, err := Analyze(roleDir, extract.ContextMap{}, testLogger())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if a.Version != "1.2.0" {
		t.Errorf("Expected collection version 1.2.0, got %q", a.Version)
	}
	if a.VersionSource != "collection" || !a.IsCollection {
		t.Errorf("Expected collection version source, got %q", a.VersionSource)
	}

	if a.Defaults["app_port"] != 8080 {
		t.Errorf("Expected app_port default 8080, got %v", a.Defaults["app_port"])
	}
	if a.DefaultNodes["app_port"] == nil {
		t.Error("Expected original node preserved for app_port")
	}
	if a.Vars["app_internal_secret"] != "xyz" {
		t.Errorf("Expected vars entry, got %v", a.Vars)
	}

	if len(a.Authors) != 1 || a.Authors[0] != "Jane Doe" {
		t.Errorf("Expected author Jane Doe, got %v", a.Authors)
	}
	if len(a.MetaDescription) != 1 || a.MetaDescription[0] != "Test role for the analyzer" {
		t.Errorf("Expected meta description, got %v", a.MetaDescription)
	}

	wantEntries := []string{"main", "backup"}
	if len(a.EntryPoints) != len(wantEntries) {
		t.Fatalf("Expected entry points %v, got %v", wantEntries, a.EntryPoints)
	}
	for i, want := range wantEntries {
		if a.EntryPoints[i] != want {
			t.Errorf("Entry point %d: expected %q, got %q", i, want, a.EntryPoints[i])
		}
	}
	if !a.HasStandalone {
		t.Error("Expected standalone entry points")
	}
	if !a.IncludedFiles["install"] || !a.IncludedFiles["helper"] {
		t.Errorf("Expected install and helper marked included, got %v", a.IncludedFiles)
	}

	for _, name := range []string{"db_host", "helper_flag", "backup_dir"} {
		if !a.TaskVars[name] {
			t.Errorf("Expected task variable %q, got %v", name, a.TaskVars)
		}
	}
	if !a.TemplateVars["template_only_var"] {
		t.Errorf("Expected template variable, got %v", a.TemplateVars)
	}

	if !a.FileVariables["install"]["db_host"] {
		t.Errorf("Expected db_host attributed to install, got %v", a.FileVariables["install"])
	}
	if !a.IncludesMap["main"]["install"] {
		t.Errorf("Expected main to include install, got %v", a.IncludesMap["main"])
	}
}

func TestAnalyzeVariableOverview(t *testing.T) {
	_, roleDir := buildTestRole(t)

	a, err := Analyze(roleDir, extract.ContextMap{}, testLogger())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if rec := a.Variables["app_port"]; !rec.HasDefault || rec.Required {
		t.Errorf("Expected app_port optional with default, got %+v", rec)
	}
	if rec := a.Variables["db_host"]; rec.HasDefault || !rec.Required {
		t.Errorf("Expected db_host required without default, got %+v", rec)
	}
	if rec := a.Variables["template_only_var"]; !rec.Required {
		t.Errorf("Expected template variable required, got %+v", rec)
	}
}

func TestAnalyzeMissingRole(t *testing.T) {
	if _, err := Analyze(filepath.Join(t.TempDir(), "no-such-role"), nil, testLogger()); err == nil {
		t.Error("Expected error for missing role path")
	}

	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Analyze(file, nil, testLogger()); err == nil {
		t.Error("Expected error for non-directory role path")
	}
}

func TestAnalyzeEmptyRole(t *testing.T) {
	roleDir := filepath.Join(t.TempDir(), "empty")
	if err := os.MkdirAll(filepath.Join(roleDir, "tasks"), 0o755); err != nil {
		t.Fatal(err)
	}

	a, err := Analyze(roleDir, nil, testLogger())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(a.EntryPoints) != 1 || a.EntryPoints[0] != "main" {
		t.Errorf("Expected only main entry point, got %v", a.EntryPoints)
	}
	if a.Version != "1.0.0" || a.VersionSource != "default" {
		t.Errorf("Expected default version 1.0.0, got %q (%s)", a.Version, a.VersionSource)
	}
}

func TestAnalyzeRoleMetaVersion(t *testing.T) {
	roleDir := filepath.Join(t.TempDir(), "versioned")
	writeFile(t, filepath.Join(roleDir, "meta", "main.yml"), `---
galaxy_info:
  version: 2.5.0
`)
	writeFile(t, filepath.Join(roleDir, "tasks", "main.yml"), `---
- name: Nothing
  debug:
    msg: hello
`)

	a, err := Analyze(roleDir, nil, testLogger())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if a.Version != "2.5.0" || a.VersionSource != "role" {
		t.Errorf("Expected role version 2.5.0, got %q (%s)", a.Version, a.VersionSource)
	}
	if a.IsCollection {
		t.Error("Expected role not marked as collection")
	}
}

func TestAnalyzeMalformedFilesTolerated(t *testing.T) {
	roleDir := filepath.Join(t.TempDir(), "broken")
	writeFile(t, filepath.Join(roleDir, "defaults", "main.yml"), "{bad yaml: [")
	writeFile(t, filepath.Join(roleDir, "tasks", "main.yml"), `---
- name: Fine task
  debug:
    msg: "{{ still_found }}"
`)

	a, err := Analyze(roleDir, extract.ContextMap{}, testLogger())
	if err != nil {
		t.Fatalf("Analyze should tolerate malformed files, got: %v", err)
	}
	if len(a.Defaults) != 0 {
		t.Errorf("Expected empty defaults from malformed file, got %v", a.Defaults)
	}
	if !a.TaskVars["still_found"] {
		t.Errorf("Expected task scanning to continue, got %v", a.TaskVars)
	}
}
