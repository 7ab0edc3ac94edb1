package spec

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"argspecgen/internal/report"
)

// ExistingOption is the preserved slice of a previously generated
// option: its hand-authored description and version tag, plus a marker
// that the option existed at all (so variables that predate version
// tracking stay untagged).
type ExistingOption struct {
	Description  any
	VersionAdded string
	Existing     bool
}

// ExistingEntry is the preserved slice of a previously generated entry
// point. The Has* fields distinguish "present but empty" from absent.
type ExistingEntry struct {
	ShortDescription    string
	HasShortDescription bool
	Description         []string
	HasDescription      bool
	Author              []string
	HasAuthor           bool
	Options             map[string]ExistingOption

	RequiredIf        [][]any
	RequiredOneOf     [][]string
	MutuallyExclusive [][]string
	RequiredTogether  [][]string
}

// Option returns the preserved option record for name, zero-valued
// when the entry point had no such option.
func (e ExistingEntry) Option(name string) ExistingOption {
	if e.Options == nil {
		return ExistingOption{}
	}
	return e.Options[name]
}

// LoadExisting reads a role's meta/argument_specs.yml and reduces it to
// the merge inputs. A missing, empty or malformed file yields an empty
// map; loading never fails the caller.
func LoadExisting(rolePath string, log *report.Logger) map[string]ExistingEntry {
	existing := make(map[string]ExistingEntry)

	specsFile := filepath.Join(rolePath, "meta", "argument_specs.yml")
	data, err := os.ReadFile(specsFile)
	if err != nil {
		return existing
	}
	if strings.TrimSpace(string(data)) == "" {
		return existing
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		log.Verbose("Warning: Could not parse existing specs file %s: %v", specsFile, err)
		return existing
	}

	specs, ok := doc["argument_specs"].(map[string]any)
	if !ok {
		return existing
	}

	for entryName, raw := range specs {
		entryData, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		entry := ExistingEntry{}
		if desc, ok := entryData["description"]; ok {
			entry.Description = NormalizeStringList(desc)
			entry.HasDescription = true
		}
		if short, ok := entryData["short_description"]; ok {
			if s, ok := short.(string); ok {
				entry.ShortDescription = s
			}
			entry.HasShortDescription = true
		}
		if author, ok := entryData["author"]; ok {
			entry.Author = NormalizeStringList(author)
			entry.HasAuthor = true
		}
		entry.RequiredIf = ConditionGroups(entryData["required_if"])
		entry.RequiredOneOf = NameGroups(entryData["required_one_of"])
		entry.MutuallyExclusive = NameGroups(entryData["mutually_exclusive"])
		entry.RequiredTogether = NameGroups(entryData["required_together"])

		if options, ok := entryData["options"].(map[string]any); ok {
			entry.Options = make(map[string]ExistingOption, len(options))
			for optName, rawOpt := range options {
				opt := ExistingOption{Existing: true}
				if optData, ok := rawOpt.(map[string]any); ok {
					if desc, ok := optData["description"]; ok {
						opt.Description = desc
					}
					if v, ok := optData["version_added"]; ok {
						opt.VersionAdded = versionString(v)
					}
				} else {
					log.Debug("Warning: Variable '%s' in existing specs is not properly structured", optName)
				}
				entry.Options[optName] = opt
			}
		}

		existing[entryName] = entry
	}

	log.Debug("Loaded existing specs with %d entry point(s)", len(existing))
	for name, entry := range existing {
		log.Trace("Entry point '%s': %d existing options", name, len(entry.Options))
	}

	return existing
}

// ConditionGroups reads a required_if style value: a list of condition
// rows whose members may be any scalar.
func ConditionGroups(value any) [][]any {
	rows, ok := value.([]any)
	if !ok {
		return nil
	}
	var groups [][]any
	for _, raw := range rows {
		if row, ok := raw.([]any); ok && len(row) > 0 {
			groups = append(groups, row)
		}
	}
	return groups
}

// NameGroups reads a list of parameter-name lists.
func NameGroups(value any) [][]string {
	rows, ok := value.([]any)
	if !ok {
		return nil
	}
	var groups [][]string
	for _, raw := range rows {
		if names := NormalizeStringList(raw); len(names) > 0 {
			groups = append(groups, names)
		}
	}
	return groups
}

// versionString stringifies version values; version numbers sometimes
// parse as floats when unquoted.
func versionString(v any) string {
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
