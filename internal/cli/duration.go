package cli

import (
	"fmt"
	"time"

	attendanceService "github.com/cmlabs-hris/attendance-portal/internal/service/attendance"
	"github.com/spf13/cobra"
)

func durationCmd() *cobra.Command {
	var tz string

	cmd := &cobra.Command{
		Use:   "duration <punch-in> <punch-out>",
		Short: "Compute worked time between two timestamps",
		Long: `Compute worked time between two timestamps. Timestamps without an offset
are read in --tz. Prints the roster form and the clock form.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := time.Local
			if tz != "" && tz != "Local" {
				var err error
				if loc, err = time.LoadLocation(tz); err != nil {
					return fmt.Errorf("invalid --tz: %w", err)
				}
			}
			policy := attendanceService.NewPolicy(loc)

			in, err := policy.ParseRequiredTimestamp(args[0])
			if err != nil {
				return fmt.Errorf("punch-in %q: %w", args[0], err)
			}
			out, err := policy.ParseRequiredTimestamp(args[1])
			if err != nil {
				return fmt.Errorf("punch-out %q: %w", args[1], err)
			}

			worked := attendanceService.ComputeWorkedDuration(&in, &out)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", worked.Roster(), worked.Clock())
			return nil
		},
	}
	cmd.Flags().StringVar(&tz, "tz", "Local", "IANA zone for timestamps without an offset")

	return cmd
}
