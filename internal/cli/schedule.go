package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// newScheduleCmd creates the schedule command.
func newScheduleCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "schedule <model>",
		Short: "Show a model's normalized cadence and firing times around a timestamp",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			models, err := loadProject()
			if err != nil {
				return err
			}

			name := args[0]
			for _, m := range models {
				if m.Meta.Name() != name {
					continue
				}

				ref := at
				if ref == "" {
					ref = time.Now().UTC().Format("2006-01-02 15:04:05")
				}
				next, err := m.Meta.CronNext(ref)
				if err != nil {
					return err
				}
				prev, err := m.Meta.CronPrev(ref)
				if err != nil {
					return err
				}
				floor, err := m.Meta.CronFloor(ref)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "model:           %s\n", m.Meta.Name())
				fmt.Fprintf(out, "cron:            %s\n", m.Meta.Cron())
				fmt.Fprintf(out, "interval unit:   %s\n", m.Meta.IntervalUnit())
				fmt.Fprintf(out, "normalized cron: %s\n", m.Meta.NormalizedCron())
				fmt.Fprintf(out, "at:              %s\n", ref)
				fmt.Fprintf(out, "next:            %v\n", next)
				fmt.Fprintf(out, "prev:            %v\n", prev)
				fmt.Fprintf(out, "floor:           %v\n", floor)
				return nil
			}
			return fmt.Errorf("model %q not found", name)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "reference timestamp (default: now)")
	return cmd
}
