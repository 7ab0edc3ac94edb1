// Package extract discovers role variables in Ansible task files.
//
// Task files are treated as text and scanned with a fixed list of
// patterns covering Jinja expressions, conditionals, loops and vars
// blocks. The pattern list is deliberately heuristic; matching YAML
// structure is only attempted where it is cheap (usage context and
// include resolution).
package extract

import (
	"regexp"
	"strings"
)

var (
	// Registered variables and set_fact keys are role outputs, not inputs.
	registerRe = regexp.MustCompile(`register:\s*([a-zA-Z_][a-zA-Z0-9_]*)`)
	setFactRe  = regexp.MustCompile(`set_fact:\s*\n\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*:`)

	// Dotted access on a registered variable (foo.rc) must not surface
	// the property name as a role input.
	propertyRes = []*regexp.Regexp{
		regexp.MustCompile(`when:\s*([a-zA-Z_][a-zA-Z0-9_]*)\.([a-zA-Z_][a-zA-Z0-9_]*)`),
		regexp.MustCompile(`changed_when:\s*([a-zA-Z_][a-zA-Z0-9_]*)\.([a-zA-Z_][a-zA-Z0-9_]*)`),
		regexp.MustCompile(`failed_when:\s*([a-zA-Z_][a-zA-Z0-9_]*)\.([a-zA-Z_][a-zA-Z0-9_]*)`),
		regexp.MustCompile(`until:\s*([a-zA-Z_][a-zA-Z0-9_]*)\.([a-zA-Z_][a-zA-Z0-9_]*)`),
		regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\.([a-zA-Z_][a-zA-Z0-9_]*)`),
	}

	// Candidate patterns, applied in order. A name matched by any of
	// them qualifies. The list and its ordering are pinned; tests
	// depend on the heuristic's specific behavior.
	variableRes = []*regexp.Regexp{
		regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*(?:\|[^}]*)?\s*\}\}`),
		regexp.MustCompile(`when:\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*(?:==|!=|is|not)`),
		regexp.MustCompile(`([a-zA-Z_][a-zA-Z0-9_]*)\s+is\s+(?:defined|not defined)`),
		regexp.MustCompile(`assert:\s*\n\s*that:\s*\n(?:\s*-\s*)+([a-zA-Z_][a-zA-Z0-9_]*)\s*(?:==|!=|is|not|in)`),
		regexp.MustCompile(`-\s*([a-zA-Z_][a-zA-Z0-9_]*)\s+is\s+(?:defined|not defined)`),
		regexp.MustCompile(`-\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*(?:==|!=|>|<|>=|<=)`),
		regexp.MustCompile(`-\s*([a-zA-Z_][a-zA-Z0-9_]*)\s+(?:in|not in)`),
		regexp.MustCompile(`-\s*["']([a-zA-Z_][a-zA-Z0-9_]*)\s*(?:==|!=|is|not|in|>|<|>=|<=)`),
		regexp.MustCompile(`failed_when:\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*(?:==|!=|is|not)`),
		regexp.MustCompile(`changed_when:\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*(?:==|!=|is|not)`),
		regexp.MustCompile(`that:\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*(?:==|!=|is|not|in)`),
		regexp.MustCompile(`that:\s*[|>]\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*(?:==|!=|is|not)`),
		regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\|\s*default`),
		regexp.MustCompile(`with_items:\s*["']?\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}["']?`),
		regexp.MustCompile(`loop:\s*["']?\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}["']?`),
		regexp.MustCompile(`when:\s*[a-zA-Z_][a-zA-Z0-9_]*\.([a-zA-Z_][a-zA-Z0-9_]*)`),
		regexp.MustCompile(`:\s*["']?\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*(?:\|[^}]*)?\s*\}\}["']?`),
		regexp.MustCompile(`environment:\s*\n(?:\s*[A-Z_]+:\s*["']?\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*(?:\|[^}]*)?\s*\}\}["']?\s*\n?)+`),
		regexp.MustCompile(`"[^"]*\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*(?:\|[^}]*)?\s*\}\}[^"]*"`),
		regexp.MustCompile(`'[^']*\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*(?:\|[^}]*)?\s*\}\}[^']*'`),
		regexp.MustCompile(`tags:\s*["']?\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*(?:\|[^}]*)?\s*\}\}["']?`),
		regexp.MustCompile(`vars:\s*\n\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*:`),
	}

	taskNameRe = regexp.MustCompile(`name:\s*["']?[^"'\n]*\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*(?:\|[^}]*)?\s*\}\}`)

	validNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	digitsRe    = regexp.MustCompile(`^[0-9]+$`)
)

// builtinPrefixes are reserved name prefixes from the automation engine
// (facts, loop control, magic variables). Anything starting with one of
// these is never a role input.
var builtinPrefixes = []string{
	"ansible_",
	"hostvars",
	"group_names",
	"groups",
	"inventory_hostname",
	"inventory_hostname_short",
	"play_hosts",
	"omit",
	"item",
	"loop",
}

// nonVariables are words the patterns commonly trap that are never
// variable names: boolean literals, Jinja operators and a few common
// environment-name literals.
var nonVariables = map[string]bool{
	"true":          true,
	"false":         true,
	"yes":           true,
	"no":            true,
	"on":            true,
	"off":           true,
	"null":          true,
	"none":          true,
	"and":           true,
	"or":            true,
	"not":           true,
	"in":            true,
	"is":            true,
	"defined":       true,
	"undefined":     true,
	"version":       true,
	"default":       true,
	"production":    true,
	"staging":       true,
	"development":   true,
	"undef":         true,
	"loop_var":      true,
	"outer_item":    true,
	"vars":          true,
	"playbook_dir":  true,
	"role_path":     true,
	"inventory_dir": true,
}

// Variables extracts the set of candidate role variable names from raw
// task file content. Empty content yields an empty set; extraction
// never fails.
func Variables(content string) map[string]bool {
	variables := make(map[string]bool)
	if strings.TrimSpace(content) == "" {
		return variables
	}

	excluded := registeredExclusions(content)

	for _, re := range variableRes {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			name := strings.TrimSpace(m[1])
			if name != "" && IsValidRoleVariable(name) && !excluded[name] {
				variables[name] = true
			}
		}
	}

	for _, m := range taskNameRe.FindAllStringSubmatch(content, -1) {
		name := strings.TrimSpace(m[1])
		if IsValidRoleVariable(name) && !excluded[name] {
			variables[name] = true
		}
	}

	return variables
}

// registeredExclusions collects registered variable names plus the
// property names accessed on them, so foo.rc excludes both foo and rc.
func registeredExclusions(content string) map[string]bool {
	registered := make(map[string]bool)
	for _, m := range registerRe.FindAllStringSubmatch(content, -1) {
		if name := strings.TrimSpace(m[1]); name != "" {
			registered[name] = true
		}
	}
	for _, m := range setFactRe.FindAllStringSubmatch(content, -1) {
		if name := strings.TrimSpace(m[1]); name != "" {
			registered[name] = true
		}
	}

	excluded := make(map[string]bool, len(registered))
	for name := range registered {
		excluded[name] = true
	}

	if len(registered) > 0 {
		for _, re := range propertyRes {
			for _, m := range re.FindAllStringSubmatch(content, -1) {
				if registered[m[1]] {
					excluded[m[2]] = true
				}
			}
		}
	}

	return excluded
}

// IsValidRoleVariable reports whether name can be a role input variable.
// Built-in prefixes, keyword literals, dotted or bracketed expressions,
// pure numbers, single characters and underscore-prefixed names are all
// rejected.
func IsValidRoleVariable(name string) bool {
	if name == "" {
		return false
	}
	for _, prefix := range builtinPrefixes {
		if strings.HasPrefix(name, prefix) {
			return false
		}
	}
	if nonVariables[strings.ToLower(name)] ||
		strings.ContainsAny(name, "([. ") ||
		digitsRe.MatchString(name) ||
		len(name) < 2 ||
		strings.HasPrefix(name, "_") {
		return false
	}
	return validNameRe.MatchString(name)
}
