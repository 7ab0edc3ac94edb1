// Package report provides leveled progress output and run statistics
// for spec generation.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Verbosity levels. Messages are printed when the logger's verbosity is
// at or above the message level.
const (
	LevelInfo    = 1
	LevelVerbose = 2
	LevelDebug   = 3
	LevelTrace   = 3
)

var titleCaser = cases.Title(language.English)

// Stats accumulates counters across a generation run.
type Stats struct {
	RolesProcessed     int
	RolesFailed        int
	TotalVariables     int
	NewVariables       int
	ExistingVariables  int
	EntryPointsCreated int
	ValidationFailures int
}

// Logger writes progress messages gated by a verbosity level. A role
// label, when set, prefixes every message so collection-wide runs stay
// readable.
type Logger struct {
	Verbosity int
	Role      string

	out io.Writer
	err io.Writer
}

// New creates a Logger writing to stdout/stderr.
func New(verbosity int) *Logger {
	return &Logger{Verbosity: verbosity, out: os.Stdout, err: os.Stderr}
}

// NewWithWriters creates a Logger with explicit writers, used in tests.
func NewWithWriters(verbosity int, out, err io.Writer) *Logger {
	return &Logger{Verbosity: verbosity, out: out, err: err}
}

// SetRole sets the role label prefixed to subsequent messages.
// An empty string clears the prefix.
func (l *Logger) SetRole(role string) {
	l.Role = role
}

func (l *Logger) log(level int, indent, message string) {
	if l.Verbosity < level {
		return
	}
	prefix := ""
	if l.Role != "" {
		prefix = fmt.Sprintf("[%s] ", l.Role)
	}
	fmt.Fprintf(l.out, "%s%s%s\n", prefix, indent, message)
}

// Info logs a basic processing message (shown at -v).
func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, "", fmt.Sprintf(format, args...))
}

// Verbose logs detailed processing information (shown at -vv).
func (l *Logger) Verbose(format string, args ...any) {
	l.log(LevelVerbose, "  ", fmt.Sprintf(format, args...))
}

// Debug logs internal decisions (shown at -vvv).
func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelDebug, "    ", fmt.Sprintf(format, args...))
}

// Trace logs the finest-grained detail (shown at -vvv).
func (l *Logger) Trace(format string, args ...any) {
	l.log(LevelTrace, "      ", fmt.Sprintf(format, args...))
}

// Error logs a message regardless of verbosity.
func (l *Logger) Error(format string, args ...any) {
	prefix := ""
	if l.Role != "" {
		prefix = fmt.Sprintf("[%s] ", l.Role)
	}
	fmt.Fprintf(l.err, "%s%s\n", prefix, fmt.Sprintf(format, args...))
}

// Section prints a banner heading at -v and above.
func (l *Logger) Section(title string) {
	if l.Verbosity < LevelInfo {
		return
	}
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(l.out, "\n%s\n  %s\n%s\n", rule, titleCaser.String(strings.ToLower(title)), rule)
}

// Summary prints the final run statistics. It is shown even without -v
// unless the logger is quiet (negative verbosity).
func (l *Logger) Summary(stats Stats, processedRoles []string) {
	if l.Verbosity < 0 {
		return
	}
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(l.out, "\n%s\n  ARGUMENT SPECS GENERATION SUMMARY\n%s\n", rule, rule)
	fmt.Fprintf(l.out, "Roles processed: %d\n", stats.RolesProcessed)
	if stats.RolesFailed > 0 {
		fmt.Fprintf(l.out, "Roles failed: %d\n", stats.RolesFailed)
	}
	if stats.ValidationFailures > 0 {
		fmt.Fprintf(l.out, "Roles with validation issues: %d\n", stats.ValidationFailures)
	}
	fmt.Fprintf(l.out, "Entry points created: %d\n", stats.EntryPointsCreated)
	fmt.Fprintf(l.out, "Total variables: %d\n", stats.TotalVariables)
	fmt.Fprintf(l.out, "  - New variables: %d\n", stats.NewVariables)
	fmt.Fprintf(l.out, "  - Existing variables: %d\n", stats.ExistingVariables)
	if len(processedRoles) > 0 {
		fmt.Fprintf(l.out, "\nProcessed roles: %s\n", strings.Join(processedRoles, ", "))
	}
	fmt.Fprintln(l.out, rule)
}
