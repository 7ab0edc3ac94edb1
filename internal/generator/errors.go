package generator

import "fmt"

// CollectionNotFoundError is returned when the collection path does not
// exist or contains no roles directory.
type CollectionNotFoundError struct {
	Path string
}

func (e *CollectionNotFoundError) Error() string {
	return fmt.Sprintf("collection not found at %s", e.Path)
}

// RoleNotFoundError is returned when a named role is not present under
// the collection's roles directory.
type RoleNotFoundError struct {
	Role string
	Path string
}

func (e *RoleNotFoundError) Error() string {
	return fmt.Sprintf("role %q not found at %s", e.Role, e.Path)
}

// ConfigError is returned for unreadable or malformed input files in
// the from-defaults and from-config modes.
type ConfigError struct {
	Path   string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config file %s: %s", e.Path, e.Reason)
}

// ValidationError is returned when a generated or loaded spec fails
// structural validation.
type ValidationError struct {
	Name string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("argument spec validation failed for %q", e.Name)
}
