package spec

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Render serializes entry points to the argument_specs.yml document
// format: 2-space indent, fixed key order, options sorted by name, a
// blank line after each entry-point block, no anchors or aliases, and
// the document framed by --- and ... markers. Entry points are emitted
// in the given order.
func Render(order []string, entryPoints map[string]*EntryPoint) (string, error) {
	if len(entryPoints) == 0 {
		return "---\nargument_specs: {}\n...\n", nil
	}

	specsNode := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range order {
		ep, ok := entryPoints[name]
		if !ok {
			continue
		}
		node, err := ep.yamlNode()
		if err != nil {
			return "", fmt.Errorf("encoding entry point %q: %w", name, err)
		}
		specsNode.Content = append(specsNode.Content, keyNode(name), node)
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	root.Content = append(root.Content, keyNode("argument_specs"), specsNode)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return "", fmt.Errorf("encoding argument specs: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("closing encoder: %w", err)
	}

	return "---\n" + spaceEntryPointBlocks(buf.String()) + "...\n", nil
}

// spaceEntryPointBlocks inserts a blank line after each entry-point
// block: before every second-level key except the first, and after the
// final block.
func spaceEntryPointBlocks(doc string) string {
	lines := strings.Split(strings.TrimRight(doc, "\n"), "\n")
	var out []string
	seenEntry := false
	for _, line := range lines {
		if isEntryPointKey(line) {
			if seenEntry {
				out = append(out, "")
			}
			seenEntry = true
		}
		out = append(out, line)
	}
	out = append(out, "")
	return strings.Join(out, "\n") + "\n"
}

func isEntryPointKey(line string) bool {
	if !strings.HasPrefix(line, "  ") {
		return false
	}
	rest := line[2:]
	return rest != "" && rest[0] != ' ' && rest[0] != '-' && rest[0] != '#'
}

func (e *EntryPoint) yamlNode() (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	add := func(key string, value any) error {
		v, err := valueNode(value)
		if err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		node.Content = append(node.Content, keyNode(key), v)
		return nil
	}

	if e.ShortDescription != "" {
		if err := add("short_description", e.ShortDescription); err != nil {
			return nil, err
		}
	}
	if len(e.Description) > 0 {
		if err := add("description", e.Description); err != nil {
			return nil, err
		}
	}
	if len(e.Author) > 0 {
		if err := add("author", e.Author); err != nil {
			return nil, err
		}
	}

	if len(e.Options) > 0 {
		names := make([]string, 0, len(e.Options))
		for name := range e.Options {
			names = append(names, name)
		}
		sort.Strings(names)

		opts := &yaml.Node{Kind: yaml.MappingNode}
		for _, name := range names {
			argNode, err := e.Options[name].yamlNode()
			if err != nil {
				return nil, fmt.Errorf("option %q: %w", name, err)
			}
			opts.Content = append(opts.Content, keyNode(name), argNode)
		}
		node.Content = append(node.Content, keyNode("options"), opts)
	}

	if len(e.RequiredIf) > 0 {
		if err := add("required_if", e.RequiredIf); err != nil {
			return nil, err
		}
	}
	if len(e.RequiredOneOf) > 0 {
		if err := add("required_one_of", e.RequiredOneOf); err != nil {
			return nil, err
		}
	}
	if len(e.MutuallyExclusive) > 0 {
		if err := add("mutually_exclusive", e.MutuallyExclusive); err != nil {
			return nil, err
		}
	}
	if len(e.RequiredTogether) > 0 {
		if err := add("required_together", e.RequiredTogether); err != nil {
			return nil, err
		}
	}

	return node, nil
}

func (a *Argument) yamlNode() (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	add := func(key string, value any) error {
		v, err := valueNode(value)
		if err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		node.Content = append(node.Content, keyNode(key), v)
		return nil
	}

	if !isEmptyDescription(a.Description) {
		if err := add("description", a.Description); err != nil {
			return nil, err
		}
	}
	if err := add("type", a.Type); err != nil {
		return nil, err
	}
	if a.Required {
		if err := add("required", true); err != nil {
			return nil, err
		}
	}
	if a.Default != nil {
		if err := add("default", a.Default); err != nil {
			return nil, err
		}
	}
	if len(a.Choices) > 0 {
		if err := add("choices", a.Choices); err != nil {
			return nil, err
		}
	}
	if a.Elements != "" {
		if err := add("elements", a.Elements); err != nil {
			return nil, err
		}
	}
	if len(a.Options) > 0 {
		if err := add("options", a.Options); err != nil {
			return nil, err
		}
	}
	if a.VersionAdded != "" {
		if err := add("version_added", a.VersionAdded); err != nil {
			return nil, err
		}
	}

	return node, nil
}

func isEmptyDescription(desc any) bool {
	switch v := desc.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}
	return false
}

func keyNode(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: key}
}

// valueNode encodes an arbitrary value as a fresh node tree. Building
// each value independently guarantees repeated content is duplicated
// rather than aliased. Values that are already node trees (defaults
// carried over from the role's own files, preserving their key order
// and scalar style) pass through unchanged.
func valueNode(value any) (*yaml.Node, error) {
	if n, ok := value.(*yaml.Node); ok {
		return n, nil
	}
	node := &yaml.Node{}
	if err := node.Encode(value); err != nil {
		return nil, err
	}
	return node, nil
}
