package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"argspecgen/internal/generator"
)

var (
	fromDefaults string
	fromConfig   string
	entryPoint   string
	outputFile   string
	specVersion  string
)

var generateCmd = &cobra.Command{
	Use:   "generate [role]",
	Short: "Generate argument specs for roles",
	Long: `Generate meta/argument_specs.yml files.

Without a role argument, processes every role in the collection.
With a role argument, processes only that role. The argument may be a
role name under the collection's roles directory or a path to a role.

With --from-defaults or --from-config, generates a spec from a single
input file instead of analyzing a role; the result goes to --output or
stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		gen := generator.New(log)
		gen.DryRun = dryRun

		if fromDefaults != "" && fromConfig != "" {
			return fmt.Errorf("--from-defaults and --from-config are mutually exclusive")
		}

		if fromDefaults != "" {
			if err := gen.FromDefaultsFile(fromDefaults, entryPoint, specVersion); err != nil {
				return err
			}
			return writeRendered(gen)
		}
		if fromConfig != "" {
			if err := gen.FromConfigFile(fromConfig); err != nil {
				return err
			}
			return writeRendered(gen)
		}

		if len(args) > 0 {
			rolePath, err := resolveRole(args[0])
			if err != nil {
				return err
			}
			if err := gen.ProcessRole(rolePath); err != nil {
				return err
			}
			log.SetRole("")
			log.Summary(gen.Stats, gen.ProcessedRoles)
			return validationResult(gen)
		}

		log.Section("generating argument specs")
		if err := gen.ProcessCollection(collectionPath); err != nil {
			return err
		}
		log.Summary(gen.Stats, gen.ProcessedRoles)
		if gen.Stats.RolesFailed > 0 {
			return fmt.Errorf("%d role(s) failed", gen.Stats.RolesFailed)
		}
		return validationResult(gen)
	},
}

// validationResult turns recorded validation issues into a non-zero
// exit after all specs have been written.
func validationResult(gen *generator.Generator) error {
	if gen.Stats.ValidationFailures > 0 {
		return fmt.Errorf("%d role(s) had validation issues", gen.Stats.ValidationFailures)
	}
	return nil
}

func init() {
	generateCmd.Flags().StringVar(&fromDefaults, "from-defaults", "", "generate from a standalone defaults YAML file")
	generateCmd.Flags().StringVar(&fromConfig, "from-config", "", "generate from an explicit JSON/YAML configuration")
	generateCmd.Flags().StringVar(&entryPoint, "entry-point", "main", "entry point name for --from-defaults")
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default stdout for file modes)")
	generateCmd.Flags().StringVar(&specVersion, "spec-version", "", "version to stamp new variables with in file modes")
	rootCmd.AddCommand(generateCmd)
}

// resolveRole maps a role name or path onto a role directory.
func resolveRole(role string) (string, error) {
	if info, err := os.Stat(role); err == nil && info.IsDir() {
		return role, nil
	}
	rolePath := filepath.Join(collectionPath, "roles", role)
	if info, err := os.Stat(rolePath); err == nil && info.IsDir() {
		return rolePath, nil
	}
	return "", &generator.RoleNotFoundError{Role: role, Path: rolePath}
}

// writeRendered validates and emits the in-memory spec for file modes.
func writeRendered(gen *generator.Generator) error {
	if !gen.Validate() {
		source := fromDefaults
		if fromConfig != "" {
			source = fromConfig
		}
		return &generator.ValidationError{Name: source}
	}
	output, err := gen.RenderYAML()
	if err != nil {
		return err
	}
	if outputFile == "" {
		fmt.Print(output)
		return nil
	}
	if dryRun {
		gen.Log.Info("Dry run: would write %s", outputFile)
		return nil
	}
	return gen.SaveToFile(outputFile, output)
}
