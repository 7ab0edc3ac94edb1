// Package types defines argument type constants used throughout the application.
package types

// Argument type constants matching the types accepted by Ansible's
// argument spec validator.
const (
	Str   = "str"
	Int   = "int"
	Float = "float"
	Bool  = "bool"
	List  = "list"
	Dict  = "dict"
	Path  = "path"
	Raw   = "raw"
)

// All lists every known argument type in declaration order.
var All = []string{Str, Int, Float, Bool, List, Dict, Path, Raw}

// IsValid reports whether typ is one of the known argument types.
func IsValid(typ string) bool {
	for _, t := range All {
		if typ == t {
			return true
		}
	}
	return false
}
