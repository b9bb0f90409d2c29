package lifecycle

// Action is one kind of membership mutation.
type Action string

const (
	ActionAddToTeam      Action = "ADD_TO_TEAM"
	ActionRemoveFromTeam Action = "REMOVE_FROM_TEAM"
)

// PlanEntry is one atomic intended membership mutation: add or remove one
// login from one team.
type PlanEntry struct {
	Login    string
	Action   Action
	TeamSlug string
}

// Plan is an ordered list of membership mutations. Construction is
// deterministic given identical inputs, so re-running a planner against an
// already-converged graph yields an empty plan.
type Plan struct {
	Entries []PlanEntry
}

// IsEmpty reports whether the plan contains no mutations.
func (p Plan) IsEmpty() bool {
	return len(p.Entries) == 0
}

// Logins returns the distinct logins in the plan, in first-appearance order.
// The execution engine serializes work per login.
func (p Plan) Logins() []string {
	seen := make(map[string]bool, len(p.Entries))
	var logins []string
	for _, e := range p.Entries {
		if !seen[e.Login] {
			seen[e.Login] = true
			logins = append(logins, e.Login)
		}
	}
	return logins
}

// EntriesFor returns the plan entries for one login, in plan order.
func (p Plan) EntriesFor(login string) []PlanEntry {
	var entries []PlanEntry
	for _, e := range p.Entries {
		if e.Login == login {
			entries = append(entries, e)
		}
	}
	return entries
}

// AddedTo returns the logins the plan adds to the given team.
func (p Plan) AddedTo(teamSlug string) []string {
	var logins []string
	for _, e := range p.Entries {
		if e.Action == ActionAddToTeam && e.TeamSlug == teamSlug {
			logins = append(logins, e.Login)
		}
	}
	return logins
}

// EntryStatus is the outcome of applying one plan entry.
type EntryStatus string

const (
	StatusApplied EntryStatus = "applied"
	StatusSkipped EntryStatus = "skipped" // dry-run
	StatusFailed  EntryStatus = "failed"
)

// EntryResult records the outcome of one plan entry.
type EntryResult struct {
	Entry  PlanEntry
	Status EntryStatus
	Err    error
}

// ExecutionReport is the per-entry outcome of an executed plan plus a
// global tally. A failed entry is informational only: plans are idempotent
// and operators are expected to re-run until the report converges.
type ExecutionReport struct {
	Results []EntryResult
	Applied int
	Skipped int
	Failed  int
}

func (r *ExecutionReport) record(entry PlanEntry, status EntryStatus, err error) {
	r.Results = append(r.Results, EntryResult{Entry: entry, Status: status, Err: err})
	switch status {
	case StatusApplied:
		r.Applied++
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed++
	}
}

// Succeeded reports whether every entry applied (or was skipped in dry-run).
func (r *ExecutionReport) Succeeded() bool {
	return r.Failed == 0
}
