// Package model defines the organization graph and activity types shared
// across the lifecycle engine.
package model

import "sort"

// Role is a member's role within a team.
type Role string

const (
	RoleMember     Role = "MEMBER"
	RoleMaintainer Role = "MAINTAINER"
)

// Organization is the root identity of a GitHub organization, fetched once
// per run and immutable afterwards.
type Organization struct {
	ID   string
	Name string
}

// TeamMembership is one member's entry in a team roster.
type TeamMembership struct {
	Login string
	Name  string
	Email string
	Role  Role
}

// Team is one team in the organization graph. Members are kept in the order
// the remote returned them.
type Team struct {
	ID          string
	Name        string
	Slug        string
	Description string
	Privacy     string
	Members     []TeamMembership
}

// HasMember reports whether login appears in the team roster.
func (t Team) HasMember(login string) bool {
	for _, m := range t.Members {
		if m.Login == login {
			return true
		}
	}
	return false
}

// FindTeam returns the team with the given slug, or nil if the organization
// has no such team.
func FindTeam(teams []Team, slug string) *Team {
	for i := range teams {
		if teams[i].Slug == slug {
			return &teams[i]
		}
	}
	return nil
}

// Roster is an index from member login to the slugs of every team the member
// currently belongs to. It is built once from a graph snapshot and read-only
// afterwards.
type Roster map[string][]string

// BuildRoster indexes the team graph by member login in a single pass.
// Team slugs are recorded in graph order.
func BuildRoster(teams []Team) Roster {
	roster := make(Roster)
	for _, team := range teams {
		for _, member := range team.Members {
			roster[member.Login] = append(roster[member.Login], team.Slug)
		}
	}
	return roster
}

// Logins returns every known member login, sorted for deterministic
// downstream planning.
func (r Roster) Logins() []string {
	logins := make([]string, 0, len(r))
	for login := range r {
		logins = append(logins, login)
	}
	sort.Strings(logins)
	return logins
}

// Teams returns the slugs of every team the login belongs to, in graph order.
func (r Roster) Teams(login string) []string {
	return r[login]
}
