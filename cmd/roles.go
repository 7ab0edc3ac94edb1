package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"argspecgen/internal/generator"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List roles discovered in the collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		roles, err := generator.FindRoles(collectionPath)
		if err != nil {
			return err
		}
		for _, name := range roles {
			specsFile := filepath.Join(collectionPath, "roles", name, "meta", "argument_specs.yml")
			marker := " "
			if _, err := os.Stat(specsFile); err == nil {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, name)
		}
		fmt.Printf("\n%d role(s), * = has argument specs\n", len(roles))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rolesCmd)
}
