package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/fastify/org-admin/config"
	"github.com/fastify/org-admin/internal/lifecycle"
	"github.com/fastify/org-admin/internal/registry"
)

// NewCmdOffboard creates the offboard command.
func NewCmdOffboard(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "offboard <username>",
		Short: "Remove a member from all teams",
		Long: `Remove a GitHub user from every team they belong to, on GitHub and on
the npm registry, parking them in the emeritus team. Registry removals
may prompt for a one-time password when the account has 2FA enabled.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, err := newServices(cmd.Context())
			if err != nil {
				return err
			}
			svc.registry = registry.NewNPM()
			return runOffboard(cmd.Context(), svc, cfg, opts, args[0], cmd.OutOrStdout())
		},
	}
}

func runOffboard(ctx context.Context, svc *services, cfg *config.Config, opts *Options, login string, out io.Writer) error {
	orgName, err := resolveOrg(cfg, opts)
	if err != nil {
		return err
	}

	_, teams, err := fetchGraph(ctx, svc, orgName)
	if err != nil {
		return err
	}

	planner := lifecycle.NewPlanner(cfg.EmeritusTeam, cfg.LeadsTeam)
	plan := planner.PlanOffboard(teams, login)

	_, err = applyPlan(ctx, svc, cfg, opts, orgName, plan, out)
	return err
}
