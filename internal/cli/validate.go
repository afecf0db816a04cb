package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newValidateCmd creates the validate command.
func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate every model definition in the project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			models, err := loadProject()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d models OK\n", len(models))
			return nil
		},
	}
}
