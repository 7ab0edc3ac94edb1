package spec

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ParseFile reads an argument_specs.yml into full entry point
// structures, for standalone validation of a hand-edited file. The
// returned order lists main first, remaining entry points sorted.
func ParseFile(path string) ([]string, map[string]*EntryPoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	specs, ok := doc["argument_specs"].(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("%s: missing argument_specs mapping", path)
	}

	entryPoints := make(map[string]*EntryPoint, len(specs))
	var order []string
	for name, raw := range specs {
		entryData, ok := raw.(map[string]any)
		if !ok {
			return nil, nil, fmt.Errorf("%s: entry point %q is not a mapping", path, name)
		}
		entryPoints[name] = parseEntryPoint(name, entryData)
		if name != "main" {
			order = append(order, name)
		}
	}
	sort.Strings(order)
	if _, ok := entryPoints["main"]; ok {
		order = append([]string{"main"}, order...)
	}

	return order, entryPoints, nil
}

func parseEntryPoint(name string, data map[string]any) *EntryPoint {
	ep := NewEntryPoint(name)
	if s, ok := data["short_description"].(string); ok {
		ep.ShortDescription = s
	}
	ep.Description = NormalizeStringList(data["description"])
	ep.Author = NormalizeStringList(data["author"])
	ep.RequiredIf = ConditionGroups(data["required_if"])
	ep.RequiredOneOf = NameGroups(data["required_one_of"])
	ep.MutuallyExclusive = NameGroups(data["mutually_exclusive"])
	ep.RequiredTogether = NameGroups(data["required_together"])

	options, _ := data["options"].(map[string]any)
	for optName, rawOpt := range options {
		optData, _ := rawOpt.(map[string]any)
		ep.Options[optName] = parseArgument(optName, optData)
	}
	return ep
}

func parseArgument(name string, data map[string]any) *Argument {
	arg := &Argument{Name: name, Type: "str"}
	if data == nil {
		return arg
	}
	if t, ok := data["type"].(string); ok {
		arg.Type = t
	}
	if r, ok := data["required"].(bool); ok {
		arg.Required = r
	}
	if d, ok := data["default"]; ok {
		arg.Default = d
	}
	if desc, ok := data["description"]; ok {
		arg.Description = desc
	}
	if choices, ok := data["choices"].([]any); ok {
		arg.Choices = choices
	}
	if elements, ok := data["elements"].(string); ok {
		arg.Elements = elements
	}
	if nested, ok := data["options"].(map[string]any); ok {
		arg.Options = nested
	}
	if v, ok := data["version_added"]; ok {
		arg.VersionAdded = versionString(v)
	}
	return arg
}
