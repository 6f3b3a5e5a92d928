package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cmlabs-hris/attendance-portal/internal/app"
	"github.com/cmlabs-hris/attendance-portal/internal/config"
	"github.com/cmlabs-hris/attendance-portal/internal/pkg/upstream"
	"github.com/spf13/cobra"
)

// Env is what the data-bound commands run against.
type Env struct {
	Config   *config.Config
	Services *app.Services
	Close    func()
}

// EnvFactory builds an Env on first use, so commands like duration run without config.
type EnvFactory func(ctx context.Context) (*Env, error)

var errReasonRequired = errors.New("a reason is required for this punch; rerun with --reason")

type cli struct {
	factory EnvFactory
	env     *Env
	token   string
}

func (c *cli) load(cmd *cobra.Command) (*Env, context.Context, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if c.token != "" {
		ctx = upstream.WithToken(ctx, c.token)
	}
	if c.env == nil {
		env, err := c.factory(ctx)
		if err != nil {
			return nil, nil, err
		}
		c.env = env
	}
	return c.env, ctx, nil
}

func (c *cli) close() {
	if c.env != nil && c.env.Close != nil {
		c.env.Close()
	}
}

// Execute runs the attendancectl command tree with args. The Env, if one was
// loaded, is closed once the command returns, whether or not it failed.
func Execute(ctx context.Context, factory EnvFactory, args []string, stdout, stderr io.Writer) error {
	c := &cli{factory: factory}
	defer c.close()

	rootCmd := c.rootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.ExecuteContext(ctx)
}

func (c *cli) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "attendancectl",
		Short: "Operate the attendance portal from the terminal",
		Long: `attendancectl runs attendance portal operations against the configured
data source (upstream REST API or PostgreSQL), the same way the HTTP API does.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&c.token, "token", "", "bearer token forwarded to the upstream API (defaults to UPSTREAM_SERVICE_TOKEN)")

	rootCmd.AddCommand(c.rosterCmd())
	rootCmd.AddCommand(c.punchCmd())
	rootCmd.AddCommand(c.historyCmd())
	rootCmd.AddCommand(c.reasonsCmd())
	rootCmd.AddCommand(c.tokenCmd())
	rootCmd.AddCommand(durationCmd())

	return rootCmd
}

// DefaultEnv loads configuration and gateways from the environment.
func DefaultEnv(ctx context.Context) (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	gateways, err := app.NewGateways(ctx, cfg, loc)
	if err != nil {
		return nil, err
	}
	return &Env{
		Config:   cfg,
		Services: app.NewServices(gateways, loc, nil),
		Close:    gateways.Close,
	}, nil
}
