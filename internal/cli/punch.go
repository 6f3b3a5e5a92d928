package cli

import (
	"fmt"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/attendance"
	"github.com/spf13/cobra"
)

func (c *cli) punchCmd() *cobra.Command {
	var employeeID, reason string

	cmd := &cobra.Command{
		Use:       "punch in|out",
		Short:     "Punch an employee in or out now",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(attendance.PunchIn), string(attendance.PunchOut)},
		RunE: func(cmd *cobra.Command, args []string) error {
			env, ctx, err := c.load(cmd)
			if err != nil {
				return err
			}

			resp, err := env.Services.Attendance.AttemptPunch(ctx, attendance.PunchRequest{
				EmployeeID: employeeID,
				Kind:       attendance.PunchKind(args[0]),
				Reason:     reason,
			})
			if err != nil {
				return err
			}
			if resp.Status == attendance.OutcomeReasonRequired {
				return fmt.Errorf("%s: %w", resp.Classification.Label(), errReasonRequired)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Punch %s recorded: %s\n", args[0], resp.Label)
			if resp.Session != nil {
				if resp.Session.PunchInTime != nil {
					fmt.Fprintf(out, "Punch in:  %s\n", *resp.Session.PunchInTime)
				}
				if resp.Session.PunchOutTime != nil {
					fmt.Fprintf(out, "Punch out: %s\n", *resp.Session.PunchOutTime)
				}
				fmt.Fprintf(out, "Worked:    %s\n", resp.Session.Clock)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&employeeID, "employee", "", "employee id")
	cmd.Flags().StringVar(&reason, "reason", "", "late arrival or early departure reason")
	_ = cmd.MarkFlagRequired("employee")

	return cmd
}
