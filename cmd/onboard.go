package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fastify/org-admin/config"
	"github.com/fastify/org-admin/internal/lifecycle"
)

// NewCmdOnboard creates the onboard command.
func NewCmdOnboard(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "onboard <username>",
		Short: "Add a member to one or more teams",
		Long: `Add a GitHub user to the given destination teams. Every requested team
must exist; an unknown team fails the whole request before any change is
made. Teams the user already belongs to are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, err := newServices(cmd.Context())
			if err != nil {
				return err
			}
			return runOnboard(cmd.Context(), svc, cfg, opts, args[0], cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringSliceVarP(&opts.Teams, "team", "t", nil,
		"Destination team slug (repeatable; default from config)")
	return cmd
}

func runOnboard(ctx context.Context, svc *services, cfg *config.Config, opts *Options, login string, out io.Writer) error {
	orgName, err := resolveOrg(cfg, opts)
	if err != nil {
		return err
	}

	targets := opts.Teams
	if len(targets) == 0 {
		targets = cfg.DefaultTeams
	}
	if len(targets) == 0 {
		return fmt.Errorf("no destination teams; pass --team or set default_teams in config")
	}

	_, teams, err := fetchGraph(ctx, svc, orgName)
	if err != nil {
		return err
	}

	planner := lifecycle.NewPlanner(cfg.EmeritusTeam, cfg.LeadsTeam)
	plan, err := planner.PlanTeamJoin(teams, login, targets)
	if err != nil {
		return err
	}

	_, err = applyPlan(ctx, svc, cfg, opts, orgName, plan, out)
	return err
}
