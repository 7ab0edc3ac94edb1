package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"argspecgen/internal/generator"
)

var exampleConfigOutput string

var exampleConfigCmd = &cobra.Command{
	Use:   "example-config",
	Short: "Print an example configuration for --from-config",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exampleConfigOutput == "" {
			fmt.Print(generator.ExampleConfig)
			return nil
		}
		if err := os.WriteFile(exampleConfigOutput, []byte(generator.ExampleConfig), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", exampleConfigOutput, err)
		}
		fmt.Printf("Wrote %s\n", exampleConfigOutput)
		return nil
	},
}

func init() {
	exampleConfigCmd.Flags().StringVarP(&exampleConfigOutput, "output", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(exampleConfigCmd)
}
