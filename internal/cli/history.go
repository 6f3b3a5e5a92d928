package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/attendance"
	"github.com/spf13/cobra"
)

func (c *cli) historyCmd() *cobra.Command {
	var (
		filter attendance.HistoryFilter
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the attendance sessions recorded on a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, ctx, err := c.load(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			resp, err := env.Services.Attendance.History(ctx, filter)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "EMPLOYEE\tPUNCH IN\tSTATUS\tPUNCH OUT\tSTATUS\tHOURS")
			for _, s := range resp.Sessions {
				name := s.EmployeeName
				if name == "" {
					name = s.EmployeeID
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					name, orDash(s.PunchInTime), orDash(s.PunchInStatus),
					orDash(s.PunchOutTime), orDash(s.PunchOutStatus), s.HoursWorked)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "%d session(s) on %s\n", resp.Total, resp.Date)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Date, "date", "", "day to list as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&filter.EmployeeID, "employee", "", "only this employee id")
	cmd.Flags().StringVar(&filter.Search, "search", "", "case-insensitive employee name or id substring")
	cmd.Flags().StringVar(&filter.Status, "status", "", "punch status filter (All, Late, On Time, Full Day, Left Early)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
