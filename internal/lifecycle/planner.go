package lifecycle

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fastify/org-admin/internal/model"
)

// ErrUnknownTeam is returned when a requested destination team slug does not
// exist in the organization graph. It is a request-level error: no partial
// plan is produced.
var ErrUnknownTeam = errors.New("unknown team")

// Planner computes membership deltas from a graph snapshot. It performs no
// I/O; all decisions are pure functions of its inputs.
type Planner struct {
	emeritusSlug string
	leadsSlug    string
}

// NewPlanner creates a planner with the configured emeritus and leads team
// slugs.
func NewPlanner(emeritusSlug, leadsSlug string) *Planner {
	return &Planner{
		emeritusSlug: emeritusSlug,
		leadsSlug:    leadsSlug,
	}
}

// PlanEmeritusTransition computes the full migration for members whose
// activity fails the recency test: one add to the emeritus team plus one
// removal per team they currently hold. Leads (by team or maintainer role)
// are never planned, and members already in the emeritus team produce no
// entries. Candidates are emitted in sorted login order so identical inputs
// always yield identical plans.
func (p *Planner) PlanEmeritusTransition(teams []model.Team, activities []model.MemberActivity, thresholdMonths int, now time.Time) Plan {
	roster := model.BuildRoster(teams)
	privileged := p.privilegedLogins(teams)

	emeritus := make(map[string]bool)
	if team := model.FindTeam(teams, p.emeritusSlug); team != nil {
		for _, m := range team.Members {
			emeritus[m.Login] = true
		}
	}

	var candidates []string
	for _, activity := range activities {
		login := activity.Login
		if _, known := roster[login]; !known {
			continue
		}
		if !EligibleForEmeritus(activity, thresholdMonths, now) {
			continue
		}
		if privileged[login] || emeritus[login] {
			continue
		}
		candidates = append(candidates, login)
	}
	sort.Strings(candidates)

	var plan Plan
	for _, login := range candidates {
		plan.Entries = append(plan.Entries, PlanEntry{
			Login:    login,
			Action:   ActionAddToTeam,
			TeamSlug: p.emeritusSlug,
		})
		for _, slug := range roster.Teams(login) {
			if slug == p.emeritusSlug {
				continue
			}
			plan.Entries = append(plan.Entries, PlanEntry{
				Login:    login,
				Action:   ActionRemoveFromTeam,
				TeamSlug: slug,
			})
		}
	}

	return plan
}

// PlanTeamJoin plans adding a login to the requested destination teams.
// Every slug must exist in the graph; an unknown slug fails the whole
// request before any entry is produced. Teams the login already belongs to
// are dropped from the plan.
func (p *Planner) PlanTeamJoin(teams []model.Team, login string, targetSlugs []string) (Plan, error) {
	for _, slug := range targetSlugs {
		if model.FindTeam(teams, slug) == nil {
			return Plan{}, fmt.Errorf("%w: %s", ErrUnknownTeam, slug)
		}
	}

	var plan Plan
	seen := make(map[string]bool, len(targetSlugs))
	for _, slug := range targetSlugs {
		if seen[slug] {
			continue
		}
		seen[slug] = true
		if model.FindTeam(teams, slug).HasMember(login) {
			continue
		}
		plan.Entries = append(plan.Entries, PlanEntry{
			Login:    login,
			Action:   ActionAddToTeam,
			TeamSlug: slug,
		})
	}

	return plan, nil
}

// PlanOffboard plans removing a login from every team it belongs to,
// parking the member in the emeritus team when one exists rather than
// dropping them from the graph entirely.
func (p *Planner) PlanOffboard(teams []model.Team, login string) Plan {
	roster := model.BuildRoster(teams)

	var plan Plan
	emeritusTeam := model.FindTeam(teams, p.emeritusSlug)
	if emeritusTeam != nil && !emeritusTeam.HasMember(login) {
		plan.Entries = append(plan.Entries, PlanEntry{
			Login:    login,
			Action:   ActionAddToTeam,
			TeamSlug: p.emeritusSlug,
		})
	}
	for _, slug := range roster.Teams(login) {
		if slug == p.emeritusSlug {
			continue
		}
		plan.Entries = append(plan.Entries, PlanEntry{
			Login:    login,
			Action:   ActionRemoveFromTeam,
			TeamSlug: slug,
		})
	}

	return plan
}

// privilegedLogins collects members that must never be auto-demoted: anyone
// in the leads team, or holding the maintainer role in any team.
func (p *Planner) privilegedLogins(teams []model.Team) map[string]bool {
	privileged := make(map[string]bool)
	for _, team := range teams {
		for _, m := range team.Members {
			if team.Slug == p.leadsSlug || m.Role == model.RoleMaintainer {
				privileged[m.Login] = true
			}
		}
	}
	return privileged
}
