package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"argspecgen/internal/generator"
	"argspecgen/internal/interactive"
)

var interactiveOutput string

var interactiveCmd = &cobra.Command{
	Use:   "interactive [role]",
	Short: "Build an argument spec through guided prompts",
	Long: `Build an entry point interactively: the command asks for entry point
metadata, then loops over option definitions until you finish.

With a role argument the result is written to the role's
meta/argument_specs.yml; otherwise it goes to --output or stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		gen := generator.New(log)

		roleName := "role"
		target := interactiveOutput
		if len(args) > 0 {
			rolePath, err := resolveRole(args[0])
			if err != nil {
				return err
			}
			roleName = filepath.Base(rolePath)
			if target == "" {
				target = filepath.Join(rolePath, "meta", "argument_specs.yml")
			}
		}

		ep, err := interactive.Run(roleName)
		if err != nil {
			if errors.Is(err, interactive.ErrCancelled) {
				log.Info("Cancelled, nothing written")
				return nil
			}
			return err
		}

		gen.AddEntryPoint(ep)
		if !gen.Validate() {
			return &generator.ValidationError{Name: ep.Name}
		}
		output, err := gen.RenderYAML()
		if err != nil {
			return err
		}

		if target == "" {
			fmt.Print(output)
			return nil
		}
		if dryRun {
			log.Info("Dry run: would write %s", target)
			return nil
		}
		if err := gen.SaveToFile(target, output); err != nil {
			return err
		}
		log.Info("Wrote %s", target)
		return nil
	},
}

func init() {
	interactiveCmd.Flags().StringVarP(&interactiveOutput, "output", "o", "", "output file (default role meta path or stdout)")
	rootCmd.AddCommand(interactiveCmd)
}
