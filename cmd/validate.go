package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"argspecgen/internal/generator"
	"argspecgen/internal/spec"
)

var validateCmd = &cobra.Command{
	Use:   "validate [role]",
	Short: "Validate existing argument spec files",
	Long: `Validate meta/argument_specs.yml files without regenerating them.

Checks option types, missing elements declarations and dangling
parameter references in conditional requirement groups.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		var rolePaths []string
		if len(args) > 0 {
			rolePath, err := resolveRole(args[0])
			if err != nil {
				return err
			}
			rolePaths = []string{rolePath}
		} else {
			roles, err := generator.FindRoles(collectionPath)
			if err != nil {
				return err
			}
			for _, name := range roles {
				rolePaths = append(rolePaths, filepath.Join(collectionPath, "roles", name))
			}
		}

		failed := 0
		checked := 0
		for _, rolePath := range rolePaths {
			roleName := filepath.Base(rolePath)
			specsFile := filepath.Join(rolePath, "meta", "argument_specs.yml")
			if _, err := os.Stat(specsFile); os.IsNotExist(err) {
				log.Verbose("Skipping %s: no argument specs file", roleName)
				continue
			}
			checked++
			log.SetRole(roleName)

			order, entryPoints, err := spec.ParseFile(specsFile)
			if err != nil {
				log.Error("%v", err)
				failed++
				continue
			}
			if !spec.Validate(order, entryPoints, log) {
				failed++
				continue
			}
			log.Info("Valid: %d entry point(s)", len(order))
		}
		log.SetRole("")

		if failed > 0 {
			return fmt.Errorf("validation failed for %d of %d spec file(s)", failed, checked)
		}
		log.Info("All %d spec file(s) valid", checked)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
