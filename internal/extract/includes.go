package extract

import (
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Include directives recognized in task files.
var includeKeys = []string{"include_tasks", "import_tasks", "include", "import_playbook"}

var includeRes = []*regexp.Regexp{
	regexp.MustCompile(`(?:include_tasks|import_tasks|include|import_playbook):\s*([^\s\n#]+)`),
	regexp.MustCompile(`(?:include_tasks|import_tasks|include|import_playbook):\s*\n\s*file:\s*([^\s\n#]+)`),
	regexp.MustCompile(`(?s)block:\s*\n.*?include_tasks:\s*([^\s\n#]+)`),
}

// Includes returns the stems of task files included or imported by the
// given task content. Structured parsing is tried first; when it fails
// or finds nothing, a regex scan over the raw text runs instead
// (excluding self-references). Extraction never fails the caller.
func Includes(content, selfStem string) map[string]bool {
	includes := make(map[string]bool)
	if strings.TrimSpace(content) == "" {
		return includes
	}

	parsed := false
	var tasks []any
	if err := yaml.Unmarshal([]byte(content), &tasks); err == nil {
		for _, t := range tasks {
			if task, ok := t.(map[string]any); ok {
				collectIncludes(task, includes)
			}
		}
		parsed = true
	}

	if !parsed || len(includes) == 0 {
		for _, re := range includeRes {
			for _, m := range re.FindAllStringSubmatch(content, -1) {
				clean := strings.TrimSpace(strings.Trim(m[1], `'"`))
				if clean == "" || strings.HasPrefix(clean, "#") {
					continue
				}
				if s := stem(clean); s != "" && s != selfStem {
					includes[s] = true
				}
			}
		}
	}

	return includes
}

// collectIncludes reads include directives from one task, descending
// into block, rescue and always sections.
func collectIncludes(task map[string]any, includes map[string]bool) {
	for _, key := range includeKeys {
		value, ok := task[key]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case string:
			includes[stem(v)] = true
		case map[string]any:
			if file, ok := v["file"].(string); ok {
				includes[stem(file)] = true
			}
		}
	}
	for _, section := range []string{"block", "rescue", "always"} {
		nested, ok := task[section].([]any)
		if !ok {
			continue
		}
		for _, t := range nested {
			if sub, ok := t.(map[string]any); ok {
				collectIncludes(sub, includes)
			}
		}
	}
}

// stem returns the file name without directory or extension, matching
// how include targets are normalized against task file names.
func stem(p string) string {
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
