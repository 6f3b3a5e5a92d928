package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/roster"
	"github.com/spf13/cobra"
)

func (c *cli) rosterCmd() *cobra.Command {
	var (
		filter  roster.RosterFilter
		asJSON  bool
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Show today's employee roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, ctx, err := c.load(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if summary {
				s, err := env.Services.Roster.GetSummary(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Total: %d\n", s.Total)
				for _, status := range roster.AllStatuses {
					if n := s.ByStatus[status]; n > 0 {
						fmt.Fprintf(out, "%s: %d\n", status, n)
					}
				}
				return nil
			}

			resp, err := env.Services.Roster.GetRoster(ctx, filter)
			if err != nil {
				return err
			}
			if resp.Warning != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", resp.Warning)
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tEMAIL\tDEPARTMENT\tSTATUS\tLOGIN\tLOGOUT\tHOURS")
			for _, row := range resp.Employees {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					row.Name, row.Email, row.Department, row.Status, row.LastLogin, row.LastLogout, row.HoursWorked)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "%d employee(s)\n", resp.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Search, "search", "", "case-insensitive name or email substring")
	cmd.Flags().StringVar(&filter.Status, "status", "", "status filter (All, Late, On Time, ...)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().BoolVar(&summary, "summary", false, "print per-status counts only")

	return cmd
}
