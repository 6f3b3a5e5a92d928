package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/latereason"
	"github.com/spf13/cobra"
)

func (c *cli) reasonsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reasons",
		Short: "List and moderate late-login reasons",
	}

	var filter latereason.ReasonFilter
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List late-login reasons, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, ctx, err := c.load(cmd)
			if err != nil {
				return err
			}

			filter.IsAdmin = true
			reasons, err := env.Services.LateReason.List(ctx, filter)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tEMPLOYEE\tSUBMITTED\tREASON")
			for _, r := range reasons {
				employee := r.EmployeeName
				if employee == "" {
					employee = r.EmployeeID
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, employee, r.SubmittedAt, r.Label)
			}
			return tw.Flush()
		},
	}
	listCmd.Flags().StringVar(&filter.EmployeeID, "employee", "", "only this employee's reasons")
	listCmd.Flags().StringVar(&filter.State, "state", "", "pending, approved or rejected")

	cmd.AddCommand(listCmd)
	cmd.AddCommand(c.decideCmd("approve", true))
	cmd.AddCommand(c.decideCmd("reject", false))

	return cmd
}

func (c *cli) decideCmd(use string, approved bool) *cobra.Command {
	var decidedBy string

	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: fmt.Sprintf("Mark a late-login reason as %sd", use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, ctx, err := c.load(cmd)
			if err != nil {
				return err
			}

			result, err := env.Services.LateReason.Decide(ctx, latereason.DecideRequest{
				ID:        args[0],
				Approved:  &approved,
				DecidedBy: decidedBy,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Reason %s: %s\n", result.ID, result.Label)
			return nil
		},
	}
	cmd.Flags().StringVar(&decidedBy, "by", "", "id of the deciding admin")

	return cmd
}
