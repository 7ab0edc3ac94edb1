// Package role walks a role directory and produces the working
// structure the merge engine consumes: defaults, vars, metadata,
// per-file variable sets, the include graph and the entry-point set.
package role

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"argspecgen/internal/extract"
	"argspecgen/internal/report"
)

// VarRecord is one entry of the flattened variable overview, built from
// defaults, vars, task files and templates (first writer wins).
type VarRecord struct {
	Type        string
	Required    bool
	Description string
	Default     any
	HasDefault  bool
}

// Analysis holds everything learned about one role. It is created at
// the start of processing a role and discarded once the role's entry
// points have been built.
type Analysis struct {
	Defaults     map[string]any
	DefaultNodes map[string]*yaml.Node // original value nodes, preserving key order and style
	Vars         map[string]any
	VarNodes     map[string]*yaml.Node

	AllTaskFiles  map[string]bool
	IncludedFiles map[string]bool
	IncludesMap   map[string]map[string]bool // file stem -> included stems
	FileVariables map[string]map[string]bool // file stem -> discovered variables

	TaskVars     map[string]bool
	TemplateVars map[string]bool
	Variables    map[string]VarRecord

	EntryPoints   []string // main first, then sorted standalone files
	HasStandalone bool

	Authors              []string
	MetaDescription      []string
	MetaShortDescription string

	Version       string
	VersionSource string // "collection", "role" or "default"
	IsCollection  bool
}

// HasDefault reports whether name is defined in defaults or vars.
func (a *Analysis) HasDefault(name string) bool {
	if _, ok := a.Defaults[name]; ok {
		return true
	}
	_, ok := a.Vars[name]
	return ok
}

// Analyze inspects a role directory. Individual file failures (bad
// YAML, unreadable files) degrade that file's contribution to empty and
// never abort the analysis; only a missing or non-directory role path
// is an error.
func Analyze(rolePath string, ctx extract.ContextMap, log *report.Logger) (*Analysis, error) {
	info, err := os.Stat(rolePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("role path does not exist: %s", rolePath)
		}
		return nil, fmt.Errorf("role path %s: %w", rolePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("role path is not a directory: %s", rolePath)
	}

	a := &Analysis{
		Defaults:      map[string]any{},
		DefaultNodes:  map[string]*yaml.Node{},
		Vars:          map[string]any{},
		VarNodes:      map[string]*yaml.Node{},
		AllTaskFiles:  map[string]bool{},
		IncludedFiles: map[string]bool{},
		IncludesMap:   map[string]map[string]bool{},
		FileVariables: map[string]map[string]bool{},
		TaskVars:      map[string]bool{},
		TemplateVars:  map[string]bool{},
		Variables:     map[string]VarRecord{},
		EntryPoints:   []string{"main"},
		Version:       "1.0.0",
		VersionSource: "default",
	}

	detectVersion(rolePath, a, log)
	if a.VersionSource == "default" {
		log.Trace("Using default version: %s", a.Version)
	} else {
		log.Debug("Detected version: %s (%s)", a.Version, a.VersionSource)
	}

	a.Defaults, a.DefaultNodes = loadMappingFile(filepath.Join(rolePath, "defaults", "main.yml"), log)
	a.Vars, a.VarNodes = loadMappingFile(filepath.Join(rolePath, "vars", "main.yml"), log)

	loadMeta(filepath.Join(rolePath, "meta", "main.yml"), a, log)

	analyzeTaskFiles(rolePath, a, ctx, log)
	analyzeTemplateFiles(rolePath, a)

	buildVariableOverview(a)

	return a, nil
}

// detectVersion resolves the version new variables are stamped with:
// a collection manifest up to 3 directories above the role wins, then
// the role's own metadata, then 1.0.0.
func detectVersion(rolePath string, a *Analysis, log *report.Logger) {
	dir := rolePath
	for i := 0; i < 3; i++ {
		dir = filepath.Dir(dir)
		galaxyFile := filepath.Join(dir, "galaxy.yml")
		data, err := os.ReadFile(galaxyFile)
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(data)) == "" {
			break
		}
		var galaxy map[string]any
		if err := yaml.Unmarshal(data, &galaxy); err != nil {
			log.Verbose("Could not parse %s: %v", galaxyFile, err)
			break
		}
		if version, ok := galaxy["version"]; ok && version != nil {
			a.Version = stringify(version)
			a.IsCollection = true
			a.VersionSource = "collection"
			return
		}
		break
	}

	metaFile := filepath.Join(rolePath, "meta", "main.yml")
	data, err := os.ReadFile(metaFile)
	if err != nil || strings.TrimSpace(string(data)) == "" {
		return
	}
	var meta map[string]any
	if err := yaml.Unmarshal(data, &meta); err != nil {
		log.Verbose("Could not parse %s for version: %v", metaFile, err)
		return
	}

	for _, field := range []string{"version", "galaxy_info.version", "galaxy_info.role_version"} {
		if value := nestedValue(meta, field); value != nil {
			if s := stringify(value); s != "" {
				a.Version = s
				a.VersionSource = "role"
				return
			}
		}
	}
}

// loadMappingFile loads a YAML mapping, returning decoded values plus
// the original value nodes so default values keep their formatting in
// the output. Any failure or non-mapping content yields empty maps.
func loadMappingFile(path string, log *report.Logger) (map[string]any, map[string]*yaml.Node) {
	values := map[string]any{}
	nodes := map[string]*yaml.Node{}

	data, err := os.ReadFile(path)
	if err != nil {
		return values, nodes
	}
	if strings.TrimSpace(string(data)) == "" {
		return values, nodes
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		log.Error("Invalid YAML in %s: %v", path, err)
		return values, nodes
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return values, nodes
	}

	mapping := doc.Content[0]
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode := mapping.Content[i]
		valueNode := mapping.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			continue
		}
		var value any
		if err := valueNode.Decode(&value); err != nil {
			log.Verbose("Could not decode value of %s in %s: %v", keyNode.Value, path, err)
			continue
		}
		values[keyNode.Value] = value
		nodes[keyNode.Value] = valueNode
	}

	return values, nodes
}

// loadMeta extracts authors and descriptions from meta/main.yml.
func loadMeta(path string, a *Analysis, log *report.Logger) {
	data, err := os.ReadFile(path)
	if err != nil || strings.TrimSpace(string(data)) == "" {
		return
	}

	var meta map[string]any
	if err := yaml.Unmarshal(data, &meta); err != nil {
		log.Verbose("Invalid YAML in %s: %v", path, err)
		return
	}

	a.Authors = extractAuthors(meta)
	if len(a.Authors) > 0 {
		log.Verbose("Found %d author(s): %s", len(a.Authors), strings.Join(a.Authors, ", "))
	}

	for _, field := range []string{"description", "galaxy_info.description", "galaxy_info.role_description"} {
		if value := nestedValue(meta, field); value != nil {
			if desc := normalizeDescription(value); len(desc) > 0 {
				a.MetaDescription = desc
				break
			}
		}
	}
	for _, field := range []string{"short_description", "galaxy_info.short_description", "galaxy_info.summary"} {
		if value, ok := nestedValue(meta, field).(string); ok && strings.TrimSpace(value) != "" {
			a.MetaShortDescription = strings.TrimSpace(value)
			break
		}
	}
	if len(a.MetaDescription) > 0 || a.MetaShortDescription != "" {
		log.Verbose("Found description from meta/main.yml")
	}
}

// extractAuthors checks author fields in priority order, stopping at
// the first non-empty one, and deduplicates preserving order.
func extractAuthors(meta map[string]any) []string {
	var authors []string
	for _, field := range []string{"author", "authors", "galaxy_info.author", "galaxy_info.authors"} {
		value := nestedValue(meta, field)
		if value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				authors = append(authors, s)
			}
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
					authors = append(authors, strings.TrimSpace(s))
				}
			}
		}
		if len(authors) > 0 {
			break
		}
	}

	seen := make(map[string]bool, len(authors))
	var unique []string
	for _, author := range authors {
		if !seen[author] {
			seen[author] = true
			unique = append(unique, author)
		}
	}
	return unique
}

// normalizeDescription trims description lines and drops blanks; a
// plain string becomes a one-element list.
func normalizeDescription(value any) []string {
	switch v := value.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
	case []any:
		var lines []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				if t := strings.TrimSpace(s); t != "" {
					lines = append(lines, t)
				}
			}
		}
		return lines
	}
	return nil
}

// nestedValue resolves a dotted field path in a decoded mapping.
func nestedValue(data map[string]any, path string) any {
	var current any = data
	for _, key := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = m[key]
		if !ok {
			return nil
		}
	}
	return current
}

func stringify(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", value)
	}
}

// analyzeTaskFiles extracts includes and variables from every task
// file, then classifies entry points.
func analyzeTaskFiles(rolePath string, a *Analysis, ctx extract.ContextMap, log *report.Logger) {
	tasksDir := filepath.Join(rolePath, "tasks")
	if info, err := os.Stat(tasksDir); err != nil || !info.IsDir() {
		return
	}

	var taskFiles []string
	for _, pattern := range []string{"*.yml", "*.yaml"} {
		matches, err := filepath.Glob(filepath.Join(tasksDir, pattern))
		if err != nil {
			continue
		}
		taskFiles = append(taskFiles, matches...)
	}
	sort.Strings(taskFiles)

	for _, file := range taskFiles {
		a.AllTaskFiles[fileStem(file)] = true
	}

	for _, file := range taskFiles {
		stem := fileStem(file)
		content := readTaskFile(file, log)

		if ctx != nil {
			ctx.AnalyzeUsage(content, stem)
		}

		includes := extract.Includes(content, stem)
		variables := extract.Variables(content)

		a.IncludesMap[stem] = includes
		a.FileVariables[stem] = variables
		for inc := range includes {
			a.IncludedFiles[inc] = true
		}
		for name := range variables {
			a.TaskVars[name] = true
		}

		if len(includes) > 0 {
			log.Debug("%s includes: %s", stem, strings.Join(sortedKeys(includes), ", "))
		}
		if len(variables) > 0 {
			log.Trace("Variables found in %s: %s", filepath.Base(file), strings.Join(sortedKeys(variables), ", "))
		}
	}

	log.Debug("All task files found: %s", strings.Join(sortedKeys(a.AllTaskFiles), ", "))

	classifyEntryPoints(a, log)
}

// readTaskFile reads file content, degrading any failure to empty.
func readTaskFile(path string, log *report.Logger) string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Verbose("Warning: Could not read file %s: %v", path, err)
		return ""
	}
	return string(data)
}

// classifyEntryPoints marks every task file that is not main and not
// included by any other file as a standalone entry point. main is
// always an entry point; inclusion always wins over standalone status
// for everything else.
func classifyEntryPoints(a *Analysis, log *report.Logger) {
	var standalone []string
	for stem := range a.AllTaskFiles {
		if stem != "main" && !a.IncludedFiles[stem] {
			standalone = append(standalone, stem)
		}
	}
	sort.Strings(standalone)

	a.EntryPoints = append([]string{"main"}, standalone...)
	a.HasStandalone = len(standalone) > 0

	if len(standalone) > 0 {
		log.Debug("Found standalone entry points: %s", strings.Join(standalone, ", "))
	} else {
		log.Debug("Only 'main' entry point found")
	}
}

// analyzeTemplateFiles scans templates/ for variables referenced in
// template files.
func analyzeTemplateFiles(rolePath string, a *Analysis) {
	templatesDir := filepath.Join(rolePath, "templates")
	entries, err := os.ReadDir(templatesDir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(templatesDir, entry.Name()))
		if err != nil {
			continue
		}
		for name := range extract.Variables(string(data)) {
			a.TemplateVars[name] = true
		}
	}
}

// buildVariableOverview layers defaults, vars, task variables and
// template variables into one flat map; the first writer wins per name.
func buildVariableOverview(a *Analysis) {
	for name, value := range a.Defaults {
		a.Variables[name] = VarRecord{
			Type:        "str",
			Required:    false,
			Description: "Variable from defaults: " + name,
			Default:     value,
			HasDefault:  true,
		}
	}
	for name := range a.Vars {
		if _, ok := a.Variables[name]; !ok {
			a.Variables[name] = VarRecord{
				Type:        "str",
				Required:    true,
				Description: "Variable from vars: " + name,
			}
		}
	}
	for name := range a.TaskVars {
		if _, ok := a.Variables[name]; !ok {
			a.Variables[name] = VarRecord{
				Type:        "str",
				Required:    true,
				Description: "Variable used in tasks: " + name,
			}
		}
	}
	for name := range a.TemplateVars {
		if _, ok := a.Variables[name]; !ok {
			a.Variables[name] = VarRecord{
				Type:        "str",
				Required:    true,
				Description: "Variable used in templates: " + name,
			}
		}
	}
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
