package extract

import (
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Context records one observed usage of a variable inside a task.
type Context struct {
	Hint      string // human-readable usage phrase
	Module    string // module the variable appeared in, if known
	Parameter string // module parameter, if known
	File      string // task file stem
}

// ContextMap collects usage contexts per variable name. The inner map
// is keyed by module_parameter so multiple modules can tag the same
// variable without overwriting each other. A ContextMap is scoped to
// one role's processing and passed explicitly between stages.
type ContextMap map[string]map[string]Context

// moduleContexts maps common modules to the parameters worth describing.
var moduleContexts = map[string]map[string]string{
	"copy":       {"src": "source file path", "dest": "destination file path", "content": "file content"},
	"template":   {"src": "template file path", "dest": "destination file path"},
	"file":       {"path": "file or directory path", "state": "file state", "mode": "file permissions"},
	"lineinfile": {"path": "target file path", "line": "line content", "regexp": "search pattern"},
	"package":    {"name": "package name", "state": "package state"},
	"yum":        {"name": "package name", "state": "package state"},
	"apt":        {"name": "package name", "state": "package state"},
	"pip":        {"name": "Python package name", "state": "package state"},
	"service":    {"name": "service name", "state": "service state", "enabled": "service startup"},
	"systemd":    {"name": "systemd service name", "state": "service state", "enabled": "service startup"},
	"user":       {"name": "username", "state": "user account state", "home": "home directory"},
	"group":      {"name": "group name", "state": "group state"},
	"command":    {"cmd": "command to execute", "chdir": "working directory"},
	"shell":      {"cmd": "shell command", "chdir": "working directory"},
	"script":     {"cmd": "script path", "chdir": "working directory"},
	"uri":        {"url": "target URL", "method": "HTTP method", "headers": "HTTP headers"},
	"get_url":    {"url": "source URL", "dest": "destination path"},
	"unarchive":  {"src": "archive file path", "dest": "extraction path"},
	"archive":    {"path": "source path", "dest": "archive destination"},
}

// fallbackContext pairs a raw-text pattern with its usage phrase, used
// when the task file does not parse as YAML.
type fallbackContext struct {
	re   *regexp.Regexp
	hint string
}

var fallbackContexts = []fallbackContext{
	{regexp.MustCompile(`dest:\s*["']?.*\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`), "destination file path"},
	{regexp.MustCompile(`src:\s*["']?.*\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`), "source file path"},
	{regexp.MustCompile(`name:\s*["']?\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`), "resource name"},
	{regexp.MustCompile(`state:\s*["']?\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`), "resource state"},
	{regexp.MustCompile(`enabled:\s*\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`), "enable/disable setting"},
	{regexp.MustCompile(`port:\s*\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`), "port number"},
	{regexp.MustCompile(`url:\s*["']?.*\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`), "URL address"},
}

var valueVarRe = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*(?:\|[^}]*)?\s*\}\}`)

// AnalyzeUsage inspects task content and records usage hints for the
// variables it references. Structured parsing is preferred; when the
// content is not valid YAML a smaller regex table runs against the raw
// text instead. Missing context never blocks description generation.
func (m ContextMap) AnalyzeUsage(content, fileStem string) {
	var tasks []any
	if err := yaml.Unmarshal([]byte(content), &tasks); err != nil {
		m.analyzeRawPatterns(content, fileStem)
		return
	}

	for _, t := range tasks {
		task, ok := t.(map[string]any)
		if !ok {
			continue
		}
		m.analyzeTaskModules(task, fileStem)
	}
}

func (m ContextMap) analyzeTaskModules(task map[string]any, fileStem string) {
	for moduleName, paramHints := range moduleContexts {
		raw, ok := task[moduleName]
		if !ok {
			continue
		}
		params, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		for param, hint := range paramHints {
			value, ok := params[param]
			if !ok {
				continue
			}
			for _, name := range variablesInValue(value) {
				m.store(name, Context{
					Hint:      hint,
					Module:    moduleName,
					Parameter: param,
					File:      fileStem,
				})
			}
		}
	}
}

func (m ContextMap) analyzeRawPatterns(content, fileStem string) {
	for _, fc := range fallbackContexts {
		for _, match := range fc.re.FindAllStringSubmatch(content, -1) {
			m.store(match[1], Context{Hint: fc.hint, File: fileStem})
		}
	}
}

// variablesInValue extracts template variable names from a parameter
// value. Non-string values carry no template expressions.
func variablesInValue(value any) []string {
	s, ok := value.(string)
	if !ok {
		return nil
	}
	var names []string
	for _, m := range valueVarRe.FindAllStringSubmatch(s, -1) {
		names = append(names, m[1])
	}
	return names
}

func (m ContextMap) store(name string, ctx Context) {
	if m[name] == nil {
		m[name] = make(map[string]Context)
	}
	module := ctx.Module
	if module == "" {
		module = "unknown"
	}
	param := ctx.Parameter
	if param == "" {
		param = "param"
	}
	m[name][module+"_"+param] = ctx
}

// Best returns the most useful context recorded for a variable,
// preferring entries with a known module over raw-pattern fallbacks.
// Keys are visited in sorted order so regeneration stays stable.
func (m ContextMap) Best(name string) (Context, bool) {
	contexts, ok := m[name]
	if !ok || len(contexts) == 0 {
		return Context{}, false
	}
	keys := make([]string, 0, len(contexts))
	for key := range contexts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var best Context
	found := false
	for _, key := range keys {
		if !found || !strings.HasPrefix(key, "unknown_") {
			best = contexts[key]
			found = true
		}
	}
	return best, true
}
