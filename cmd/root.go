package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"argspecgen/internal/report"
)

var (
	collectionPath string
	verbosity      int
	quiet          bool
	dryRun         bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "argspec-gen",
	Short: "Ansible argument specs generator",
	Long: `argspec-gen generates meta/argument_specs.yml files for Ansible roles
by statically analyzing role defaults, vars, task files and templates.

It performs the following core functions:
  - Variable discovery across defaults, vars, tasks and templates
  - Entry point detection from the task include graph
  - Type and description inference from default values
  - Preservation of hand-edited descriptions and version tags`,
	SilenceUsage: true, // Don't print usage on errors unrelated to flags
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&collectionPath, "collection-path", ".", "path to the collection root")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase output verbosity (repeatable)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress informational output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "analyze without writing files")
}

// newLogger builds the logger from the global verbosity flags.
func newLogger() *report.Logger {
	level := verbosity + 1
	if quiet {
		level = -1
	}
	return report.New(level)
}
