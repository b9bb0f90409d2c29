package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fastify/org-admin/config"
	"github.com/fastify/org-admin/internal/lifecycle"
	"github.com/fastify/org-admin/internal/log"
	"github.com/fastify/org-admin/internal/model"
)

const emeritusIssueTitle = "Move to emeritus members"

// NewCmdEmeritus creates the emeritus command.
func NewCmdEmeritus(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emeritus",
		Short: "Move long-inactive members to the emeritus team",
		Long: `Scan every team member's recent contribution activity and move members
with no contributions inside the inactivity window to the emeritus team,
removing them from all other teams. Team leads and maintainers are never
moved automatically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, err := newServices(cmd.Context())
			if err != nil {
				return err
			}
			return runEmeritus(cmd.Context(), svc, cfg, opts, time.Now(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&opts.MonthsInactiveThreshold, "months-inactive-threshold", 0,
		"Months without contributions before a member is moved (default from config)")
	return cmd
}

func runEmeritus(ctx context.Context, svc *services, cfg *config.Config, opts *Options, now time.Time, out io.Writer) error {
	orgName, err := resolveOrg(cfg, opts)
	if err != nil {
		return err
	}
	threshold := opts.MonthsInactiveThreshold
	if threshold <= 0 {
		threshold = cfg.MonthsInactiveThreshold
	}

	org, teams, err := fetchGraph(ctx, svc, orgName)
	if err != nil {
		return err
	}

	roster := model.BuildRoster(teams)
	logins := roster.Logins()
	log.Info("checking activity", "members", len(logins), "threshold_months", threshold)

	activities, err := svc.graph.FetchActivity(ctx, org, logins, lifecycle.WindowYears(threshold))
	if err != nil {
		return err
	}

	planner := lifecycle.NewPlanner(cfg.EmeritusTeam, cfg.LeadsTeam)
	plan := planner.PlanEmeritusTransition(teams, activities, threshold, now)

	executed, err := applyPlan(ctx, svc, cfg, opts, orgName, plan, out)
	if err != nil {
		return err
	}
	if !executed {
		return nil
	}

	// Leave a paper trail for the org: a tracking issue listing who moved.
	// Issue creation is best effort; the membership changes already landed.
	moved := plan.AddedTo(cfg.EmeritusTeam)
	if len(moved) > 0 && svc.issues != nil {
		body := emeritusIssueBody(moved)
		if err := svc.issues.CreateIssue(ctx, orgName, cfg.AdminRepo, emeritusIssueTitle, body, []string{"question"}); err != nil {
			log.Warn("failed to create tracking issue", "repo", cfg.AdminRepo, "error", err)
		} else {
			log.Info("created tracking issue", "repo", cfg.AdminRepo)
		}
	}
	return nil
}

// emeritusIssueBody lists the moved members, one mention per line.
func emeritusIssueBody(logins []string) string {
	var b strings.Builder
	b.WriteString("The following members had no recent contribution activity and were moved to the emeritus team:\n\n")
	for _, login := range logins {
		fmt.Fprintf(&b, "- @%s\n", login)
	}
	return b.String()
}
