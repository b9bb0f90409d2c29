// Package ghclient provides GitHub API client functionality for the
// membership lifecycle engine.
package ghclient

import (
	"context"

	"github.com/fastify/org-admin/internal/model"
)

// GraphService defines the read side of the GitHub API: organization
// identity, the paginated team graph, and contribution recency facts.
// This interface enables mocking the remote in unit tests.
type GraphService interface {
	FetchOrganization(ctx context.Context, name string) (model.Organization, error)
	FetchTeamGraph(ctx context.Context, org model.Organization) ([]model.Team, error)
	FetchActivity(ctx context.Context, org model.Organization, logins []string, windowYears int) ([]model.MemberActivity, error)
}

// TeamWriter defines the mutating side of the GitHub API used by the
// execution engine.
type TeamWriter interface {
	AddTeamMember(ctx context.Context, org, teamSlug, login string) error
	RemoveTeamMember(ctx context.Context, org, teamSlug, login string) error
}

// IssueCreator opens tracking issues for proposed membership changes.
type IssueCreator interface {
	CreateIssue(ctx context.Context, owner, repo, title, body string, labels []string) error
}

// Ensure Client implements the capability interfaces.
var (
	_ GraphService = (*Client)(nil)
	_ TeamWriter   = (*Client)(nil)
	_ IssueCreator = (*Client)(nil)
)
