package cli

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-portal/internal/pkg/jwt"
	"github.com/spf13/cobra"
)

func (c *cli) tokenCmd() *cobra.Command {
	var claims jwt.Claims

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, _, err := c.load(cmd)
			if err != nil {
				return err
			}

			svc := jwt.NewJWTService(env.Config.JWT.Secret, env.Config.JWT.AccessExpiration)
			token, expiresAt, err := svc.GenerateAccessToken(claims)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&claims.EmployeeID, "employee", "", "employee id claim")
	cmd.Flags().StringVar(&claims.Name, "name", "", "display name claim")
	cmd.Flags().BoolVar(&claims.IsAdmin, "admin", false, "grant the is_admin claim")
	_ = cmd.MarkFlagRequired("employee")

	return cmd
}
