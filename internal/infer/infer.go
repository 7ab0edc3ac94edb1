// Package infer maps raw default values and variable names to argument
// types and generated descriptions.
package infer

import (
	"strings"

	"argspecgen/internal/extract"
	"argspecgen/internal/spec"
	"argspecgen/internal/types"
)

// Existing carries the preserved fields consulted while inferring one
// argument.
type Existing struct {
	Description  any
	VersionAdded string
	Existing     bool
}

// Argument builds an argument spec from a default value, preserving an
// existing description and version tag when present. Variables new to
// this run are stamped with currentVersion; variables that existed in a
// prior spec without a version stay untagged.
func Argument(name string, value any, ex Existing, currentVersion string, ctx extract.ContextMap) *spec.Argument {
	arg := &spec.Argument{
		Name:    name,
		Type:    TypeOf(name, value),
		Default: value,
	}
	if arg.Type == types.List {
		arg.Elements = listElementType(value)
	}

	if !isEmpty(ex.Description) {
		arg.Description = ex.Description
	} else {
		arg.Description = Describe(name, value, arg.Type, ctx)
	}

	arg.VersionAdded = VersionFor(ex, currentVersion)
	return arg
}

// VersionFor applies the version_added rule: keep a stored version,
// leave grandfathered variables untagged, stamp everything else with
// the current version.
func VersionFor(ex Existing, currentVersion string) string {
	if ex.VersionAdded != "" {
		return ex.VersionAdded
	}
	if ex.Existing {
		return ""
	}
	return currentVersion
}

// TypeOf infers an argument type from a raw default value, falling back
// to a name/value heuristic for strings.
func TypeOf(name string, value any) string {
	switch v := value.(type) {
	case bool:
		return types.Bool
	case int, int8, int16, int32, int64, uint, uint32, uint64:
		return types.Int
	case float32, float64:
		return types.Float
	case []any:
		return types.List
	case map[string]any, map[any]any:
		return types.Dict
	case string:
		return stringType(name, v)
	default:
		return types.Str
	}
}

// listElementType picks the element type by majority vote, ties broken
// by the first-seen type. Booleans count as their own bucket. Empty
// lists default to str.
func listElementType(value any) string {
	list, ok := value.([]any)
	if !ok || len(list) == 0 {
		return types.Str
	}

	counts := make(map[string]int)
	var order []string
	for _, elem := range list {
		var elemType string
		switch elem.(type) {
		case map[string]any, map[any]any:
			elemType = types.Dict
		case bool:
			elemType = types.Bool
		case int, int8, int16, int32, int64, uint, uint32, uint64:
			elemType = types.Int
		case float32, float64:
			elemType = types.Float
		default:
			elemType = types.Str
		}
		if counts[elemType] == 0 {
			order = append(order, elemType)
		}
		counts[elemType]++
	}

	best := order[0]
	for _, t := range order[1:] {
		if counts[t] > counts[best] {
			best = t
		}
	}
	return best
}

// pathNameKeywords and pathValueTokens drive the str-vs-path decision:
// both the name and the value have to look path-like.
var pathNameKeywords = []string{"path", "dir", "directory", "file", "location"}

var pathValueTokens = []string{"home", "tmp", "var", "etc", "usr"}

func stringType(name, value string) string {
	lower := strings.ToLower(name)
	for _, keyword := range pathNameKeywords {
		if strings.Contains(lower, keyword) {
			if strings.HasPrefix(value, "/") || strings.Contains(value, `\`) || containsAnyToken(value, pathValueTokens) {
				return types.Path
			}
			break
		}
	}
	return types.Str
}

func containsAnyToken(value string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(value, token) {
			return true
		}
	}
	return false
}

func isEmpty(desc any) bool {
	switch v := desc.(type) {
	case nil:
		return true
	case string:
		return v == ""
	}
	return false
}
