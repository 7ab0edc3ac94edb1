package infer

import (
	"strings"
	"testing"

	"argspecgen/internal/extract"
	"argspecgen/internal/types"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"app_enabled", true, types.Bool},
		{"app_port", 8080, types.Int},
		{"app_ratio", 0.5, types.Float},
		{"app_items", []any{"a", "b"}, types.List},
		{"app_settings", map[string]any{"k": "v"}, types.Dict},
		{"app_config_path", "/etc/app/config.yml", types.Path},
		{"app_data_dir", `C:\data`, types.Path},
		{"app_file", "readme.txt", types.Str},
		{"app_name", "myapp", types.Str},
		{"app_name", "/etc/app/x", types.Str},
		{"app_missing", nil, types.Str},
	}

	for _, tt := range tests {
		if got := TypeOf(tt.name, tt.value); got != tt.want {
			t.Errorf("TypeOf(%q, %v) = %q, want %q", tt.name, tt.value, got, tt.want)
		}
	}
}

func TestArgumentListElements(t *testing.T) {
	tests := []struct {
		name  string
		value []any
		want  string
	}{
		{"app_ports", []any{80, 443}, types.Int},
		{"app_names", []any{"a", "b", "c"}, types.Str},
		{"app_flags", []any{true, false}, types.Bool},
		{"app_mixed", []any{"a", 1, "b"}, types.Str},
		{"app_users", []any{map[string]any{"name": "x"}}, types.Dict},
		{"app_empty", []any{}, types.Str},
	}

	for _, tt := range tests {
		arg := Argument(tt.name, tt.value, Existing{}, "1.0.0", nil)
		if arg.Type != types.List {
			t.Errorf("%s: expected type list, got %q", tt.name, arg.Type)
		}
		if arg.Elements != tt.want {
			t.Errorf("%s: expected elements %q, got %q", tt.name, tt.want, arg.Elements)
		}
	}
}

func TestVersionFor(t *testing.T) {
	// Stored version wins.
	if got := VersionFor(Existing{VersionAdded: "1.0.0", Existing: true}, "2.0.0"); got != "1.0.0" {
		t.Errorf("Expected stored version 1.0.0, got %q", got)
	}
	// Variables that predate version tracking stay untagged.
	if got := VersionFor(Existing{Existing: true}, "2.0.0"); got != "" {
		t.Errorf("Expected empty version for grandfathered variable, got %q", got)
	}
	// New variables get the current version.
	if got := VersionFor(Existing{}, "2.0.0"); got != "2.0.0" {
		t.Errorf("Expected current version 2.0.0, got %q", got)
	}
}

func TestArgumentPreservesDescription(t *testing.T) {
	ex := Existing{Description: "Hand written description.", Existing: true}
	arg := Argument("app_port", 8080, ex, "1.0.0", nil)

	if arg.Description != "Hand written description." {
		t.Errorf("Expected preserved description, got %v", arg.Description)
	}
	if arg.VersionAdded != "" {
		t.Errorf("Expected no version tag for grandfathered variable, got %q", arg.VersionAdded)
	}
}

func TestDescribePhrases(t *testing.T) {
	tests := []struct {
		name  string
		value any
		typ   string
		want  string
	}{
		{"app_port", 8080, types.Int, "Port number for network connection (default: 8080)"},
		{"app_enabled", true, types.Bool, "Enable or disable functionality (enabled by default)"},
		{"backup_enabled", false, types.Bool, "Enable or disable functionality (disabled by default)"},
		{"app_password", "", types.Str, "Password for authentication (empty by default)"},
		{"app_name", "myapp", types.Str, "Name identifier (default: 'myapp')"},
	}

	for _, tt := range tests {
		if got := Describe(tt.name, tt.value, tt.typ, nil); got != tt.want {
			t.Errorf("Describe(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDescribeValueShapes(t *testing.T) {
	if got := Describe("app_data", []any{}, types.List, nil); !strings.HasSuffix(got, "(list, empty by default)") {
		t.Errorf("Expected empty-list suffix, got %q", got)
	}
	if got := Describe("app_data", []any{"a", "b"}, types.List, nil); !strings.HasSuffix(got, "(list with 2 default items)") {
		t.Errorf("Expected counted-list suffix, got %q", got)
	}
	if got := Describe("app_config", map[string]any{}, types.Dict, nil); !strings.HasSuffix(got, "(dictionary, empty by default)") {
		t.Errorf("Expected empty-dict suffix, got %q", got)
	}
	if got := Describe("app_config", map[string]any{"k": 1}, types.Dict, nil); !strings.HasSuffix(got, "(dictionary with default configuration)") {
		t.Errorf("Expected dict suffix, got %q", got)
	}
	// Names missed by the phrase table take the plain structural
	// fallback text without any value-shape suffix.
	if got := Describe("app_servers", []any{"a"}, types.List, nil); got != "List of app servers items" {
		t.Errorf("Describe(app_servers) = %q, want fallback text", got)
	}
}

func TestDescribeUsesContext(t *testing.T) {
	ctx := extract.ContextMap{}
	ctx.AnalyzeUsage(`---
- name: Deploy configuration
  template:
    src: app.conf.j2
    dest: "{{ app_target }}"
`, "main")

	got := Describe("app_target", "/etc/app.conf", types.Path, ctx)
	want := "destination file path (used in template) (default: '/etc/app.conf')"
	if got != want {
		t.Errorf("Describe with context = %q, want %q", got, want)
	}
}

func TestFallbackDescription(t *testing.T) {
	tests := []struct {
		name  string
		value any
		typ   string
		want  string
	}{
		{"zzqq", 42, types.Int, "Numeric value for zzqq"},
		{"zzqq_zzww", nil, types.Str, "Configuration value for zzqq zzww"},
	}

	for _, tt := range tests {
		if got := Describe(tt.name, tt.value, tt.typ, nil); got != tt.want {
			t.Errorf("Describe(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
