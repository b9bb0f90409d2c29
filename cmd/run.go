package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/fastify/org-admin/config"
	"github.com/fastify/org-admin/internal/ghclient"
	"github.com/fastify/org-admin/internal/lifecycle"
	"github.com/fastify/org-admin/internal/log"
	"github.com/fastify/org-admin/internal/model"
	"github.com/fastify/org-admin/internal/output"
	"github.com/fastify/org-admin/internal/prompt"
)

// services bundles the external capabilities a lifecycle command needs.
// The run helpers take this struct instead of a concrete client so tests
// can drive the full command flow against fakes.
type services struct {
	graph    ghclient.GraphService
	teams    lifecycle.TeamWriter
	registry lifecycle.RegistryWriter
	issues   ghclient.IssueCreator
	prompter lifecycle.Prompter
}

// newServices loads config and builds the real GitHub-backed services.
func newServices(ctx context.Context) (*config.Config, *services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	client, err := ghclient.NewClient(ctx, cfg.GetGitHubToken())
	if err != nil {
		return nil, nil, err
	}

	return cfg, &services{
		graph:    client,
		teams:    client,
		issues:   client,
		prompter: prompt.New(),
	}, nil
}

// resolveOrg picks the organization name from the flag or the config.
func resolveOrg(cfg *config.Config, opts *Options) (string, error) {
	if opts.Org != "" {
		return opts.Org, nil
	}
	if cfg.DefaultOrg != "" {
		return cfg.DefaultOrg, nil
	}
	return "", fmt.Errorf("no organization specified; pass --org or set default_org in config")
}

// fetchGraph retrieves the organization identity and its full team graph.
func fetchGraph(ctx context.Context, svc *services, orgName string) (model.Organization, []model.Team, error) {
	org, err := svc.graph.FetchOrganization(ctx, orgName)
	if err != nil {
		return model.Organization{}, nil, err
	}

	teams, err := svc.graph.FetchTeamGraph(ctx, org)
	if err != nil {
		return model.Organization{}, nil, err
	}

	log.Info("fetched team graph", "org", orgName, "teams", len(teams))
	return org, teams, nil
}

// applyPlan shows the plan, asks for confirmation, executes, and renders the
// report. It returns whether the plan was executed live: an empty plan, a
// dry run, and a declined confirmation all leave the remote untouched and
// report false, so callers must not follow up with mutations of their own.
// A non-nil error means at least one entry failed; operators re-run to
// converge.
func applyPlan(ctx context.Context, svc *services, cfg *config.Config, opts *Options, orgName string, plan lifecycle.Plan, out io.Writer) (bool, error) {
	formatter := output.NewFormatter(output.Format(opts.Format))
	if err := formatter.FormatPlan(plan, out); err != nil {
		return false, err
	}
	if plan.IsEmpty() {
		return false, nil
	}

	executor := lifecycle.NewExecutor(orgName, cfg.Scope(orgName), svc.teams, svc.registry, svc.prompter)

	if opts.DryRun {
		report := executor.Execute(ctx, plan, true)
		return false, formatter.FormatReport(report, out)
	}

	if !opts.Yes {
		ok, err := svc.prompter.Confirm(fmt.Sprintf("Apply %d changes to %s", len(plan.Entries), orgName))
		if err != nil {
			return false, err
		}
		if !ok {
			fmt.Fprintln(out, "Aborted; no changes applied.")
			return false, nil
		}
	}

	report := executor.Execute(ctx, plan, false)

	if err := formatter.FormatReport(report, out); err != nil {
		return true, err
	}
	if !report.Succeeded() {
		return true, fmt.Errorf("%d of %d changes failed", report.Failed, len(plan.Entries))
	}
	return true, nil
}
