package lifecycle

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/fastify/org-admin/internal/log"
)

// Executor applies a reconciliation plan against the external membership
// stores. Members are processed strictly one at a time to stay under the
// remote's throughput limits; only removals belonging to the same member are
// issued concurrently.
type Executor struct {
	org      string
	scope    string
	teams    TeamWriter
	registry RegistryWriter
	prompter Prompter
}

// NewExecutor creates an executor for the given organization. registry may
// be nil to skip package-registry mutations; scope is the registry scope the
// org's teams live under (usually the org name).
func NewExecutor(org, scope string, teams TeamWriter, registry RegistryWriter, prompter Prompter) *Executor {
	return &Executor{
		org:      org,
		scope:    scope,
		teams:    teams,
		registry: registry,
		prompter: prompter,
	}
}

// Execute applies the plan and reports the outcome of every entry. In
// dry-run mode no mutating call is issued and every entry is marked skipped.
// A failed entry never aborts the run; the engine moves on to the next entry
// and the aggregate failure count is surfaced in the report. Nothing is
// rolled back: plans are idempotent, so operators re-run to converge.
func (e *Executor) Execute(ctx context.Context, plan Plan, dryRun bool) ExecutionReport {
	var report ExecutionReport

	if dryRun {
		for _, entry := range plan.Entries {
			report.record(entry, StatusSkipped, nil)
		}
		return report
	}

	for _, login := range plan.Logins() {
		e.applyMember(ctx, login, plan.EntriesFor(login), &report)
	}

	log.Info("plan executed", "applied", report.Applied, "failed", report.Failed)
	return report
}

func (e *Executor) applyMember(ctx context.Context, login string, entries []PlanEntry, report *ExecutionReport) {
	var adds, removes []PlanEntry
	for _, entry := range entries {
		if entry.Action == ActionAddToTeam {
			adds = append(adds, entry)
		} else {
			removes = append(removes, entry)
		}
	}

	for _, entry := range adds {
		if err := e.teams.AddTeamMember(ctx, e.org, entry.TeamSlug, entry.Login); err != nil {
			log.Error("add failed", "login", entry.Login, "team", entry.TeamSlug, "error", err)
			report.record(entry, StatusFailed, err)
			continue
		}
		report.record(entry, StatusApplied, nil)
	}

	// Removals for one member are independent of each other and may run
	// concurrently. The next member does not start until these resolve.
	graphErrs := make([]error, len(removes))
	g, gctx := errgroup.WithContext(ctx)
	for i, entry := range removes {
		i, entry := i, entry
		g.Go(func() error {
			graphErrs[i] = e.teams.RemoveTeamMember(gctx, e.org, entry.TeamSlug, entry.Login)
			return nil
		})
	}
	_ = g.Wait()

	// Registry removals stay sequential: the OTP recovery path prompts the
	// operator and two prompts must never interleave.
	for i, entry := range removes {
		err := graphErrs[i]
		if e.registry != nil {
			if rerr := e.removeFromRegistry(ctx, entry); rerr != nil {
				err = errors.Join(err, rerr)
			}
		}
		if err != nil {
			log.Error("remove failed", "login", entry.Login, "team", entry.TeamSlug, "error", err)
			report.record(entry, StatusFailed, err)
			continue
		}
		report.record(entry, StatusApplied, nil)
	}

	log.Debug("member reconciled", "login", login, "entries", len(entries))
}

// removeFromRegistry removes one member from a registry team, recovering
// from a missing one-time password with a single prompt-and-retry. A second
// failure after the code is submitted is reported as-is.
func (e *Executor) removeFromRegistry(ctx context.Context, entry PlanEntry) error {
	err := e.registry.RemoveTeamMember(ctx, e.scope, entry.TeamSlug, entry.Login, "")
	if err == nil || !errors.Is(err, ErrOTPRequired) {
		return err
	}
	if e.prompter == nil {
		return err
	}

	otp, perr := e.prompter.Input("npm OTP code is required to proceed")
	if perr != nil {
		return errors.Join(err, perr)
	}
	return e.registry.RemoveTeamMember(ctx, e.scope, entry.TeamSlug, entry.Login, otp)
}
