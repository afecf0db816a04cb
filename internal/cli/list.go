package cli

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// newListCmd creates the list command.
func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List models with their kind and inferred cadence",
		RunE: func(cmd *cobra.Command, _ []string) error {
			models, err := loadProject()
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Model", "Kind", "Cron", "Interval", "Partitioned By", "Owner"})
			for _, m := range models {
				t.AppendRow(table.Row{
					m.Meta.Name(),
					string(m.Meta.Kind().Name()),
					m.Meta.Cron(),
					string(m.Meta.IntervalUnit()),
					strings.Join(m.Meta.PartitionedBy(), ", "),
					m.Meta.Owner(),
				})
			}
			t.Render()
			return nil
		},
	}
}
