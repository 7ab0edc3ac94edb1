package generator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"argspecgen/internal/extract"
	"argspecgen/internal/infer"
	"argspecgen/internal/spec"
	"argspecgen/internal/types"
)

// FromDefaultsFile builds a single entry point from a standalone
// defaults-style YAML file, outside any role directory.
func (g *Generator) FromDefaultsFile(path, entryName, version string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ConfigError{Path: path, Reason: "cannot read file"}
	}

	values := map[string]any{}
	nodes := map[string]*yaml.Node{}
	if strings.TrimSpace(string(data)) != "" {
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return &ConfigError{Path: path, Reason: "invalid YAML: " + err.Error()}
		}
		if len(doc.Content) > 0 && doc.Content[0].Kind == yaml.MappingNode {
			mapping := doc.Content[0]
			for i := 0; i+1 < len(mapping.Content); i += 2 {
				keyNode, valueNode := mapping.Content[i], mapping.Content[i+1]
				if keyNode.Kind != yaml.ScalarNode {
					continue
				}
				var value any
				if err := valueNode.Decode(&value); err != nil {
					continue
				}
				values[keyNode.Value] = value
				nodes[keyNode.Value] = valueNode
			}
		}
	}

	if entryName == "" {
		entryName = "main"
	}
	if version == "" {
		version = "1.0.0"
	}

	ep := spec.NewEntryPoint(entryName)
	ep.ShortDescription = "Argument specs generated from " + filepath.Base(path)
	ep.Description = []string{"Automatically generated argument specification from a defaults file."}

	var names []string
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !extract.IsValidRoleVariable(name) {
			continue
		}
		arg := infer.Argument(name, values[name], infer.Existing{}, version, g.varContext)
		if node := nodes[name]; node != nil {
			arg.Default = node
		}
		ep.Options[name] = arg
	}

	g.AddEntryPoint(ep)
	g.Stats.TotalVariables += len(ep.Options)
	g.Stats.NewVariables += len(ep.Options)
	return nil
}

// FromConfigFile builds entry points from an explicit JSON or YAML
// configuration describing the spec directly.
func (g *Generator) FromConfigFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ConfigError{Path: path, Reason: "cannot read file"}
	}

	var config map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return &ConfigError{Path: path, Reason: "invalid JSON: " + err.Error()}
		}
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return &ConfigError{Path: path, Reason: "invalid YAML: " + err.Error()}
		}
	}

	entries, ok := config["entry_points"].(map[string]any)
	if !ok || len(entries) == 0 {
		return &ConfigError{Path: path, Reason: "missing or empty entry_points section"}
	}

	var names []string
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	// main renders first when present
	for i, name := range names {
		if name == "main" && i != 0 {
			names = append([]string{"main"}, append(append([]string{}, names[:i]...), names[i+1:]...)...)
			break
		}
	}

	for _, name := range names {
		entryData, ok := entries[name].(map[string]any)
		if !ok {
			return &ConfigError{Path: path, Reason: "entry point " + name + " is not a mapping"}
		}
		ep, err := entryPointFromConfig(name, entryData)
		if err != nil {
			return &ConfigError{Path: path, Reason: err.Error()}
		}
		g.AddEntryPoint(ep)
		g.Stats.TotalVariables += len(ep.Options)
		g.Stats.NewVariables += len(ep.Options)
	}
	return nil
}

func entryPointFromConfig(name string, data map[string]any) (*spec.EntryPoint, error) {
	ep := spec.NewEntryPoint(name)
	if s, ok := data["short_description"].(string); ok {
		ep.ShortDescription = s
	}
	ep.Description = spec.NormalizeStringList(data["description"])
	ep.Author = spec.NormalizeStringList(data["author"])
	ep.RequiredIf = spec.ConditionGroups(data["required_if"])
	ep.RequiredOneOf = spec.NameGroups(data["required_one_of"])
	ep.MutuallyExclusive = spec.NameGroups(data["mutually_exclusive"])
	ep.RequiredTogether = spec.NameGroups(data["required_together"])

	arguments, _ := data["arguments"].(map[string]any)
	for optName, rawOpt := range arguments {
		optData, ok := rawOpt.(map[string]any)
		if !ok {
			optData = map[string]any{}
		}
		arg := &spec.Argument{Name: optName, Type: types.Str}
		if t, ok := optData["type"].(string); ok && types.IsValid(t) {
			arg.Type = t
		}
		if r, ok := optData["required"].(bool); ok {
			arg.Required = r
		}
		if d, ok := optData["default"]; ok {
			arg.Default = d
		}
		if desc, ok := optData["description"]; ok {
			arg.Description = desc
		}
		if choices, ok := optData["choices"].([]any); ok {
			arg.Choices = choices
		}
		if elements, ok := optData["elements"].(string); ok && types.IsValid(elements) {
			arg.Elements = elements
		}
		if v, ok := optData["version_added"]; ok {
			arg.VersionAdded = versionText(v)
		}
		if nested, ok := optData["options"].(map[string]any); ok {
			arg.Options = nested
		}
		ep.Options[optName] = arg
	}
	return ep, nil
}

func versionText(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case nil:
		return ""
	default:
		node := &yaml.Node{}
		if err := node.Encode(v); err != nil {
			return ""
		}
		return node.Value
	}
}

// ExampleConfig is a starter configuration for the from-config mode.
const ExampleConfig = `---
# Example configuration for argspec-gen generate --from-config
entry_points:
  main:
    short_description: Install and configure the application
    description:
      - Installs the application package and writes its configuration.
    author:
      - Your Name
    arguments:
      app_port:
        type: int
        default: 8080
        description: Port the application listens on
      app_config_path:
        type: path
        default: /etc/app/config.yml
        description: Path to the application configuration file
      app_environment:
        type: str
        required: true
        choices:
          - production
          - staging
          - development
        description: Deployment environment
    required_if:
      - [app_environment, production, [app_config_path]]
...
`
