// Package spec defines the argument spec data model, loads previously
// generated spec files, validates spec trees and renders them to YAML.
package spec

import "strings"

// Argument is one declared parameter of an entry point.
type Argument struct {
	Name         string
	Type         string
	Required     bool
	Default      any   // nil means no default is emitted
	Choices      []any // ordered list of allowed values
	Description  any   // string or list of strings, reused verbatim when preserved
	Elements     string
	Options      map[string]any // nested schema for structured dict types
	VersionAdded string
}

// EntryPoint is one invocable unit of a role.
type EntryPoint struct {
	Name              string
	ShortDescription  string
	Description       []string
	Author            []string
	Options           map[string]*Argument
	RequiredIf        [][]any
	RequiredOneOf     [][]string
	MutuallyExclusive [][]string
	RequiredTogether  [][]string
}

// NewEntryPoint creates an entry point with an initialized options map.
func NewEntryPoint(name string) *EntryPoint {
	return &EntryPoint{
		Name:    name,
		Options: make(map[string]*Argument),
	}
}

// NormalizeStringList coerces a YAML-decoded value into a list of
// trimmed, non-blank strings. A single string becomes a one-element
// list. Anything else yields nil.
func NormalizeStringList(value any) []string {
	switch v := value.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				if t := strings.TrimSpace(s); t != "" {
					out = append(out, t)
				}
			}
		}
		return out
	case []string:
		var out []string
		for _, s := range v {
			if t := strings.TrimSpace(s); t != "" {
				out = append(out, t)
			}
		}
		return out
	}
	return nil
}
