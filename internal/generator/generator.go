// Package generator orchestrates role analysis, spec merging and file
// output for single roles and whole collections.
package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"argspecgen/internal/extract"
	"argspecgen/internal/report"
	"argspecgen/internal/role"
	"argspecgen/internal/spec"
)

// roleIndicatorDirs mark a directory as an Ansible role.
var roleIndicatorDirs = []string{"tasks", "defaults", "meta", "handlers", "templates", "files"}

// Generator builds argument specs for roles. One Generator can process
// many roles in sequence; per-role state is reset between roles.
type Generator struct {
	Log            *report.Logger
	DryRun         bool
	CollectionMode bool

	EntryPoints map[string]*spec.EntryPoint
	EntryOrder  []string

	ProcessedRoles []string
	Stats          report.Stats

	varContext extract.ContextMap
}

// New returns a Generator writing progress through log.
func New(log *report.Logger) *Generator {
	return &Generator{
		Log:         log,
		EntryPoints: map[string]*spec.EntryPoint{},
		varContext:  extract.ContextMap{},
	}
}

// AddEntryPoint registers an entry point, keeping insertion order for
// rendering.
func (g *Generator) AddEntryPoint(ep *spec.EntryPoint) {
	if _, ok := g.EntryPoints[ep.Name]; !ok {
		g.EntryOrder = append(g.EntryOrder, ep.Name)
	}
	g.EntryPoints[ep.Name] = ep
}

func (g *Generator) reset() {
	g.EntryPoints = map[string]*spec.EntryPoint{}
	g.EntryOrder = nil
	g.varContext = extract.ContextMap{}
}

// IsCollectionRoot reports whether path looks like an Ansible
// collection root: a roles directory plus either a galaxy.yml or at
// least one entry under roles.
func IsCollectionRoot(path string) bool {
	info, err := os.Stat(filepath.Join(path, "roles"))
	if err != nil || !info.IsDir() {
		return false
	}
	if _, err := os.Stat(filepath.Join(path, "galaxy.yml")); err == nil {
		return true
	}
	entries, err := os.ReadDir(filepath.Join(path, "roles"))
	return err == nil && len(entries) > 0
}

// FindRoles lists role directories under collectionPath/roles, sorted
// by name. A directory counts as a role when it contains at least one
// of the standard role subdirectories. Hidden directories are skipped.
func FindRoles(collectionPath string) ([]string, error) {
	rolesDir := filepath.Join(collectionPath, "roles")
	entries, err := os.ReadDir(rolesDir)
	if err != nil {
		return nil, &CollectionNotFoundError{Path: collectionPath}
	}

	var roles []string
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name()[0] == '.' {
			continue
		}
		for _, indicator := range roleIndicatorDirs {
			if info, err := os.Stat(filepath.Join(rolesDir, entry.Name(), indicator)); err == nil && info.IsDir() {
				roles = append(roles, entry.Name())
				break
			}
		}
	}
	sort.Strings(roles)
	return roles, nil
}

// ProcessCollection processes every role in the collection. Failures
// are isolated per role; processing continues and the error count is
// reflected in the stats.
func (g *Generator) ProcessCollection(collectionPath string) error {
	if !IsCollectionRoot(collectionPath) {
		return &CollectionNotFoundError{Path: collectionPath}
	}
	roles, err := FindRoles(collectionPath)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		return &CollectionNotFoundError{Path: collectionPath}
	}

	g.CollectionMode = true
	g.Log.Info("Found %d role(s) to process", len(roles))

	for _, name := range roles {
		rolePath := filepath.Join(collectionPath, "roles", name)
		if err := g.ProcessRole(rolePath); err != nil {
			g.Stats.RolesFailed++
			g.Log.Error("Failed to process role %s: %v", name, err)
		}
	}
	g.Log.SetRole("")
	return nil
}

// ProcessRole analyzes one role, merges with any existing spec and
// writes meta/argument_specs.yml (unless dry-run).
func (g *Generator) ProcessRole(rolePath string) error {
	roleName := filepath.Base(rolePath)
	g.Log.SetRole(roleName)
	g.Log.Info("Processing role: %s", roleName)

	g.reset()

	analysis, err := role.Analyze(rolePath, g.varContext, g.Log)
	if err != nil {
		return err
	}

	existing := spec.LoadExisting(rolePath, g.Log)

	for _, name := range analysis.EntryPoints {
		ep := g.buildEntryPoint(roleName, name, analysis, existing[name])
		g.AddEntryPoint(ep)
	}

	g.countVariables(existing)

	if !g.Validate() {
		g.Log.Error("Validation reported issues for role %s; writing spec anyway", roleName)
		g.Stats.ValidationFailures++
	}

	output, err := g.RenderYAML()
	if err != nil {
		return fmt.Errorf("rendering spec for %s: %w", roleName, err)
	}

	target := filepath.Join(rolePath, "meta", "argument_specs.yml")
	if g.DryRun {
		g.Log.Info("Dry run: would write %s", target)
	} else {
		if err := g.SaveToFile(target, output); err != nil {
			return err
		}
		g.Log.Info("Wrote %s", target)
	}

	g.Stats.RolesProcessed++
	g.ProcessedRoles = append(g.ProcessedRoles, roleName)
	g.Stats.EntryPointsCreated += len(analysis.EntryPoints)
	return nil
}

// countVariables updates the variable counters. An option counts as
// existing when the prior spec already listed it, new otherwise.
func (g *Generator) countVariables(existing map[string]spec.ExistingEntry) {
	for _, name := range g.EntryOrder {
		ep := g.EntryPoints[name]
		prior := existing[name]
		for optName := range ep.Options {
			g.Stats.TotalVariables++
			if prior.Option(optName).Existing {
				g.Stats.ExistingVariables++
			} else {
				g.Stats.NewVariables++
			}
		}
	}
}

// Validate checks every registered entry point.
func (g *Generator) Validate() bool {
	return spec.Validate(g.EntryOrder, g.EntryPoints, g.Log)
}

// RenderYAML serializes the registered entry points.
func (g *Generator) RenderYAML() (string, error) {
	return spec.Render(g.EntryOrder, g.EntryPoints)
}

// SaveToFile writes content to path, creating parent directories.
func (g *Generator) SaveToFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
