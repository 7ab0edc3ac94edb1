package infer

import (
	"fmt"
	"strings"

	"argspecgen/internal/extract"
	"argspecgen/internal/types"
)

// phrase pairs a name fragment with its description. Declaration order
// matters: substring matching stops at the first entry that hits.
type phrase struct {
	pattern string
	text    string
}

var descriptionPhrases = []phrase{
	{"enable", "Enable or disable functionality"},
	{"disable", "Disable functionality"},
	{"auth", "Authentication configuration"},
	{"token", "Authentication token"},
	{"key", "Authentication or encryption key"},
	{"secret", "Secret value for authentication"},
	{"cert", "SSL/TLS certificate"},
	{"ssl", "SSL/TLS configuration"},
	{"tls", "TLS configuration"},
	{"password", "Password for authentication"},
	{"user", "Username for authentication"},
	{"admin", "Administrator user or settings"},
	{"port", "Port number for network connection"},
	{"host", "Hostname or IP address"},
	{"address", "Network address"},
	{"url", "URL or web address"},
	{"endpoint", "API endpoint URL"},
	{"proxy", "Proxy server configuration"},
	{"dns", "DNS server or configuration"},
	{"interface", "Network interface"},
	{"bind", "Binding address or interface"},
	{"path", "File or directory path"},
	{"file", "File path"},
	{"dir", "Directory path"},
	{"directory", "Directory path"},
	{"folder", "Directory path"},
	{"location", "File or directory location"},
	{"home", "Home directory path"},
	{"root", "Root directory path"},
	{"base", "Base directory path"},
	{"log", "Log file path or configuration"},
	{"backup", "Backup file or directory path"},
	{"archive", "Archive file path"},
	{"temp", "Temporary directory path"},
	{"cache", "Cache directory path"},
	{"service", "Service name or configuration"},
	{"daemon", "Daemon process configuration"},
	{"process", "Process configuration"},
	{"pid", "Process ID or PID file path"},
	{"uid", "User ID"},
	{"gid", "Group ID"},
	{"owner", "File or resource owner"},
	{"group", "Group name or ID"},
	{"mode", "File permissions or operating mode"},
	{"permission", "Access permissions"},
	{"config", "Configuration settings"},
	{"setting", "Configuration setting"},
	{"option", "Configuration option"},
	{"param", "Parameter value"},
	{"variable", "Variable value"},
	{"value", "Configuration value"},
	{"default", "Default value"},
	{"override", "Override value"},
	{"state", "Desired state of the resource"},
	{"status", "Current status"},
	{"action", "Action to perform"},
	{"operation", "Operation to execute"},
	{"command", "Command to execute"},
	{"script", "Script path or content"},
	{"start", "Start the service or process"},
	{"stop", "Stop the service or process"},
	{"restart", "Restart the service or process"},
	{"reload", "Reload configuration"},
	{"timeout", "Timeout value in seconds"},
	{"retries", "Number of retry attempts"},
	{"delay", "Delay between operations in seconds"},
	{"interval", "Interval between operations"},
	{"frequency", "Frequency of execution"},
	{"schedule", "Schedule configuration"},
	{"cron", "Cron schedule expression"},
	{"debug", "Enable debug mode or output"},
	{"verbose", "Enable verbose output"},
	{"trace", "Enable trace logging"},
	{"force", "Force the operation even if it might cause issues"},
	{"check", "Perform check or validation"},
	{"validate", "Validate configuration or input"},
	{"test", "Test mode or configuration"},
	{"dry_run", "Perform dry run without making changes"},
	{"version", "Version specification"},
	{"package", "Package name or list"},
	{"repo", "Repository configuration"},
	{"repository", "Repository configuration"},
	{"branch", "Git branch name"},
	{"tag", "Version tag"},
	{"release", "Release version"},
	{"data", "Data content or configuration"},
	{"content", "File or resource content"},
	{"template", "Template file or content"},
	{"source", "Source file or URL"},
	{"destination", "Destination path"},
	{"target", "Target location or value"},
	{"output", "Output file or directory"},
	{"input", "Input file or data"},
	{"name", "Name identifier"},
	{"id", "Unique identifier"},
	{"uuid", "Unique identifier (UUID)"},
	{"label", "Label or tag"},
	{"description", "Description text"},
}

// Describe generates a description for a variable from its usage
// context when recorded, the phrase table otherwise, and a structural
// fallback when neither applies. The result carries a value-shape
// suffix describing the default.
func Describe(name string, value any, argType string, ctx extract.ContextMap) string {
	if ctx != nil {
		if best, ok := ctx.Best(name); ok && best.Hint != "" {
			module := best.Module
			if module == "" {
				module = "task"
			}
			return formatByValue(fmt.Sprintf("%s (used in %s)", best.Hint, module), value, argType)
		}
	}

	lower := strings.ToLower(name)
	for _, p := range descriptionPhrases {
		if lower == p.pattern {
			return formatByValue(p.text, value, argType)
		}
	}
	for _, p := range descriptionPhrases {
		if strings.Contains(lower, p.pattern) {
			return formatByValue(p.text, value, argType)
		}
	}

	return fallbackDescription(name, value, argType)
}

// formatByValue appends a suffix describing the default value's shape.
func formatByValue(base string, value any, argType string) string {
	switch v := value.(type) {
	case bool:
		if v {
			return base + " (enabled by default)"
		}
		return base + " (disabled by default)"
	case int, int8, int16, int32, int64, uint, uint32, uint64, float32, float64:
		if argType == types.Int || argType == types.Float {
			return fmt.Sprintf("%s (default: %v)", base, v)
		}
		return base
	case []any:
		switch len(v) {
		case 0:
			return base + " (list, empty by default)"
		case 1:
			return base + " (list with default item)"
		default:
			return fmt.Sprintf("%s (list with %d default items)", base, len(v))
		}
	case map[string]any:
		if len(v) == 0 {
			return base + " (dictionary, empty by default)"
		}
		return base + " (dictionary with default configuration)"
	case map[any]any:
		if len(v) == 0 {
			return base + " (dictionary, empty by default)"
		}
		return base + " (dictionary with default configuration)"
	case string:
		switch {
		case v == "":
			return base + " (empty by default)"
		case len(v) > 50:
			return base + " (configured with default value)"
		default:
			return fmt.Sprintf("%s (default: '%s')", base, v)
		}
	default:
		return base
	}
}

// fallbackDescription decomposes the name when no phrase matched.
func fallbackDescription(name string, value any, argType string) string {
	parts := strings.Split(strings.ReplaceAll(strings.ToLower(name), "-", "_"), "_")
	cleaned := strings.ReplaceAll(strings.ReplaceAll(name, "_", " "), "-", " ")

	if len(parts) > 1 {
		last := parts[len(parts)-1]
		rest := strings.Join(parts[:len(parts)-1], " ")
		switch last {
		case "list", "items", "array":
			return "List of " + rest
		case "config", "conf", "cfg":
			return "Configuration settings for " + rest
		case "enabled", "enable":
			return "Enable " + rest + " functionality"
		case "disabled", "disable":
			return "Disable " + rest + " functionality"
		}
		switch parts[0] {
		case "is", "has", "should", "can":
			return "Whether to " + strings.Join(parts[1:], " ")
		}
	}

	switch argType {
	case types.Bool:
		return "Boolean flag to control " + cleaned
	case types.Int, types.Float:
		return "Numeric value for " + cleaned
	case types.List:
		return "List of " + cleaned + " items"
	case types.Dict:
		return "Configuration dictionary for " + cleaned
	case types.Path:
		return "File system path for " + cleaned
	default:
		return "Configuration value for " + cleaned
	}
}
