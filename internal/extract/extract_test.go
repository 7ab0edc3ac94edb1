package extract

import (
	"testing"
)

func TestVariables(t *testing.T) {
	content := `---
- name: Install packages
  apt:
    name: "{{ app_packages }}"
    state: present
  when: app_install_enabled == true

- name: Run check
  command: /usr/bin/check
  register: check_result

- name: Conditional step
  debug:
    msg: "done"
  when: check_result.rc == 0
`

	vars := Variables(content)

	if !vars["app_packages"] {
		t.Error("Expected app_packages to be extracted")
	}
	if !vars["app_install_enabled"] {
		t.Error("Expected app_install_enabled to be extracted")
	}
	if vars["check_result"] {
		t.Error("Expected registered variable check_result to be excluded")
	}
	if vars["rc"] {
		t.Error("Expected property access rc to be excluded")
	}
}

func TestVariablesExcludesBuiltins(t *testing.T) {
	content := `---
- name: Show facts
  debug:
    msg: "{{ ansible_distribution }} {{ item }} {{ app_name }}"
`

	vars := Variables(content)

	if vars["ansible_distribution"] {
		t.Error("Expected builtin ansible_distribution to be excluded")
	}
	if vars["item"] {
		t.Error("Expected loop variable item to be excluded")
	}
	if !vars["app_name"] {
		t.Error("Expected app_name to be extracted")
	}
}

func TestVariablesEmptyContent(t *testing.T) {
	if vars := Variables(""); len(vars) != 0 {
		t.Errorf("Expected no variables from empty content, got %v", vars)
	}
	if vars := Variables("   \n  "); len(vars) != 0 {
		t.Errorf("Expected no variables from blank content, got %v", vars)
	}
}

func TestVariablesSetFactExclusion(t *testing.T) {
	content := `---
- name: Compute value
  set_fact:
    computed_value: "{{ app_base }}/data"

- name: Use it
  debug:
    msg: "{{ computed_value }}"
`

	vars := Variables(content)

	if vars["computed_value"] {
		t.Error("Expected set_fact variable computed_value to be excluded")
	}
	if !vars["app_base"] {
		t.Error("Expected app_base to be extracted")
	}
}

func TestIsValidRoleVariable(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"app_port", true},
		{"db_host", true},
		{"backup_dir", true},
		{"ansible_os_family", false},
		{"hostvars", false},
		{"item", false},
		{"loop_index", false},
		{"true", false},
		{"defined", false},
		{"production", false},
		{"foo.bar", false},
		{"foo(bar)", false},
		{"foo bar", false},
		{"123", false},
		{"x", false},
		{"_private", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidRoleVariable(tt.name); got != tt.valid {
			t.Errorf("IsValidRoleVariable(%q) = %v, want %v", tt.name, got, tt.valid)
		}
	}
}

func TestIncludes(t *testing.T) {
	content := `---
- name: Include setup
  include_tasks: setup.yml

- name: Import install
  import_tasks: install.yml

- name: Include with file key
  include_tasks:
    file: extras.yml
`

	includes := Includes(content, "main")

	for _, want := range []string{"setup", "install", "extras"} {
		if !includes[want] {
			t.Errorf("Expected include %q, got %v", want, includes)
		}
	}
	if len(includes) != 3 {
		t.Errorf("Expected 3 includes, got %d: %v", len(includes), includes)
	}
}

func TestIncludesInsideBlock(t *testing.T) {
	content := `---
- name: Grouped steps
  block:
    - name: Nested include
      include_tasks: nested.yml
  rescue:
    - name: Recovery include
      include_tasks: recovery.yml
`

	includes := Includes(content, "main")

	if !includes["nested"] || !includes["recovery"] {
		t.Errorf("Expected includes from block and rescue sections, got %v", includes)
	}
}

func TestIncludesRegexFallback(t *testing.T) {
	// Unparseable YAML falls back to the raw patterns.
	content := `---
- name: {{ broken jinja
  include_tasks: helper.yml
- include_tasks: main.yml
`

	includes := Includes(content, "main")

	if !includes["helper"] {
		t.Errorf("Expected helper include from fallback scan, got %v", includes)
	}
	if includes["main"] {
		t.Error("Expected self-reference main to be excluded in fallback scan")
	}
}

func TestContextMapBest(t *testing.T) {
	content := `---
- name: Deploy configuration
  template:
    src: app.conf.j2
    dest: "{{ app_config_path }}"
`

	ctx := ContextMap{}
	ctx.AnalyzeUsage(content, "main")

	best, ok := ctx.Best("app_config_path")
	if !ok {
		t.Fatal("Expected a recorded context for app_config_path")
	}
	if best.Hint != "destination file path" {
		t.Errorf("Expected hint 'destination file path', got %q", best.Hint)
	}
	if best.Module != "template" {
		t.Errorf("Expected module 'template', got %q", best.Module)
	}

	if _, ok := ctx.Best("unseen_variable"); ok {
		t.Error("Expected no context for an unseen variable")
	}
}

func TestContextMapRawFallback(t *testing.T) {
	// Broken YAML still yields contexts from the raw pattern table.
	content := `---
- name: {{ broken
  service:
    name: {{ app_service_name }}
`

	ctx := ContextMap{}
	ctx.AnalyzeUsage(content, "main")

	best, ok := ctx.Best("app_service_name")
	if !ok {
		t.Fatal("Expected a fallback context for app_service_name")
	}
	if best.Hint != "resource name" {
		t.Errorf("Expected hint 'resource name', got %q", best.Hint)
	}
}
