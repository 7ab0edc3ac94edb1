package generator

import (
	"fmt"
	"sort"
	"strings"

	"argspecgen/internal/extract"
	"argspecgen/internal/infer"
	"argspecgen/internal/role"
	"argspecgen/internal/spec"
	"argspecgen/internal/types"
)

// buildEntryPoint assembles one entry point by merging analysis results
// with whatever a previous spec file already said. Every entry point
// gets the same four passes: defaults, vars, its own task file, then
// everything it includes.
func (g *Generator) buildEntryPoint(roleName, entryName string, a *role.Analysis, prior spec.ExistingEntry) *spec.EntryPoint {
	ep := spec.NewEntryPoint(entryName)

	ep.ShortDescription = g.shortDescription(roleName, entryName, a, prior)
	ep.Description = g.description(roleName, entryName, a, prior)
	if prior.HasAuthor {
		ep.Author = prior.Author
	} else {
		ep.Author = a.Authors
	}

	ep.RequiredIf = prior.RequiredIf
	ep.RequiredOneOf = prior.RequiredOneOf
	ep.MutuallyExclusive = prior.MutuallyExclusive
	ep.RequiredTogether = prior.RequiredTogether

	g.addDefaults(ep, a, prior)
	g.addVars(ep, a, prior)
	g.addFileVariables(ep, entryName, a, prior, fmt.Sprintf("Variable used in %s entry point", entryName))
	g.mergeIncludes(ep, entryName, a, prior)

	g.Log.Verbose("Entry point '%s': %d option(s)", entryName, len(ep.Options))
	return ep
}

func (g *Generator) shortDescription(roleName, entryName string, a *role.Analysis, prior spec.ExistingEntry) string {
	if prior.HasShortDescription && prior.ShortDescription != "" {
		return prior.ShortDescription
	}
	if entryName == "main" && a.MetaShortDescription != "" {
		return a.MetaShortDescription
	}
	return fmt.Sprintf("Auto-generated specs for %s role - %s entry point", roleName, entryName)
}

func (g *Generator) description(roleName, entryName string, a *role.Analysis, prior spec.ExistingEntry) []string {
	if prior.HasDescription && len(prior.Description) > 0 {
		return prior.Description
	}
	if entryName == "main" && len(a.MetaDescription) > 0 {
		return a.MetaDescription
	}
	desc := []string{
		fmt.Sprintf("Automatically generated argument specification for the %s role.", roleName),
		fmt.Sprintf("Entry point: %s", entryName),
	}
	if includes := sortedSet(a.IncludesMap[entryName]); len(includes) > 0 {
		desc = append(desc, fmt.Sprintf("Includes task files: %s", strings.Join(includes, ", ")))
	}
	return desc
}

// addDefaults adds one option per variable in defaults/main.yml.
func (g *Generator) addDefaults(ep *spec.EntryPoint, a *role.Analysis, prior spec.ExistingEntry) {
	var names []string
	for name := range a.Defaults {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !extract.IsValidRoleVariable(name) {
			g.Log.Trace("Skipping invalid variable name: %s", name)
			continue
		}
		arg := infer.Argument(name, a.Defaults[name], existingOf(prior.Option(name)), a.Version, g.varContext)
		if node := a.DefaultNodes[name]; node != nil {
			arg.Default = node
		}
		ep.Options[name] = arg
	}
}

// addVars adds options for variables defined only in vars/main.yml.
// They carry their value as default and are annotated as vars-defined
// unless a hand-authored description is preserved.
func (g *Generator) addVars(ep *spec.EntryPoint, a *role.Analysis, prior spec.ExistingEntry) {
	var names []string
	for name := range a.Vars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, ok := ep.Options[name]; ok {
			continue
		}
		if !extract.IsValidRoleVariable(name) {
			continue
		}
		ex := existingOf(prior.Option(name))
		arg := infer.Argument(name, a.Vars[name], ex, a.Version, g.varContext)
		if !hasPreservedDescription(ex.Description) {
			if s, ok := arg.Description.(string); ok {
				arg.Description = s + " (defined in vars)"
			}
		}
		if node := a.VarNodes[name]; node != nil {
			arg.Default = node
		}
		ep.Options[name] = arg
	}
}

// addFileVariables adds options for variables referenced in one task
// file. The defaults and vars passes have already claimed anything with
// a value, so what remains is required, typed str and described by
// where it was seen.
func (g *Generator) addFileVariables(ep *spec.EntryPoint, stem string, a *role.Analysis, prior spec.ExistingEntry, desc string) {
	for _, name := range sortedSet(a.FileVariables[stem]) {
		g.addUsedVariable(ep, name, a, prior, desc)
	}
}

func (g *Generator) addUsedVariable(ep *spec.EntryPoint, name string, a *role.Analysis, prior spec.ExistingEntry, desc string) {
	if _, ok := ep.Options[name]; ok {
		return
	}
	if !extract.IsValidRoleVariable(name) {
		return
	}

	ex := existingOf(prior.Option(name))
	arg := &spec.Argument{Name: name, Type: types.Str, Required: true}
	if hasPreservedDescription(ex.Description) {
		arg.Description = ex.Description
	} else {
		arg.Description = desc
	}
	arg.VersionAdded = infer.VersionFor(ex, a.Version)
	ep.Options[name] = arg
}

// mergeIncludes folds variables from included task files into the
// entry point: direct includes first, then their transitive includes
// depth-first. A shared visited set keeps include cycles harmless.
func (g *Generator) mergeIncludes(ep *spec.EntryPoint, entryName string, a *role.Analysis, prior spec.ExistingEntry) {
	visited := map[string]bool{entryName: true}

	direct := sortedSet(a.IncludesMap[entryName])
	for _, inc := range direct {
		if visited[inc] {
			continue
		}
		visited[inc] = true
		g.Log.Debug("Merging variables from included file: %s", inc)
		g.addFileVariables(ep, inc, a, prior, fmt.Sprintf("Variable used in included task file: %s.yml", inc))
	}
	for _, inc := range direct {
		g.mergeTransitive(ep, inc, a, prior, visited)
	}
}

func (g *Generator) mergeTransitive(ep *spec.EntryPoint, stem string, a *role.Analysis, prior spec.ExistingEntry, visited map[string]bool) {
	for _, inc := range sortedSet(a.IncludesMap[stem]) {
		if visited[inc] {
			continue
		}
		visited[inc] = true
		g.Log.Debug("Merging variables from included file: %s", inc)
		g.addFileVariables(ep, inc, a, prior, fmt.Sprintf("Variable used in included task file: %s.yml", inc))
		g.mergeTransitive(ep, inc, a, prior, visited)
	}
}

func existingOf(opt spec.ExistingOption) infer.Existing {
	return infer.Existing{
		Description:  opt.Description,
		VersionAdded: opt.VersionAdded,
		Existing:     opt.Existing,
	}
}

func hasPreservedDescription(desc any) bool {
	switch v := desc.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	}
	return true
}

func sortedSet(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
