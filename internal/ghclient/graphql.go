package ghclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fastify/org-admin/internal/log"
	"github.com/fastify/org-admin/internal/model"
)

const (
	graphqlEndpoint = "https://api.github.com/graphql"
	// Page size for team graph queries (GitHub's per-page maximum)
	teamPageSize = 100
	// Maximum date range the contributionsCollection query accepts per call
	contributionWindow = 1 // years
)

// graphqlHTTPClient is a configured HTTP client for GraphQL requests with
// connection pooling and keep-alive for reduced latency.
var graphqlHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
	},
	Timeout: 30 * time.Second,
}

// graphqlRequest represents a GraphQL request payload.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphqlResponse represents a generic GraphQL response.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

type graphqlError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

const orgQuery = `
query ($orgName: String!) {
  organization(login: $orgName) {
    id
    name
  }
}`

var teamsQuery = fmt.Sprintf(`
query ($orgName: String!, $cursor: String) {
  organization(login: $orgName) {
    teams(first: %d, after: $cursor) {
      edges {
        node {
          id
          name
          slug
          description
          privacy
          members(first: %d) {
            edges {
              node {
                login
                name
                email
              }
              role
            }
          }
        }
      }
      pageInfo {
        hasNextPage
        endCursor
      }
    }
  }
}`, teamPageSize, teamPageSize)

const contributionsQuery = `
query ($login: String!, $orgID: ID, $from: DateTime!, $to: DateTime!) {
  user(login: $login) {
    login
    contributionsCollection(organizationID: $orgID, from: $from, to: $to) {
      pullRequestContributions(last: 1) {
        nodes {
          occurredAt
        }
      }
      issueContributions(last: 1) {
        nodes {
          occurredAt
        }
      }
      commitContributionsByRepository(maxRepositories: 1) {
        contributions(last: 1, orderBy: {direction: ASC, field: OCCURRED_AT}) {
          nodes {
            occurredAt
          }
        }
      }
    }
  }
}`

// executeGraphQL executes a GraphQL query against GitHub's API. Any GraphQL
// error fails the call: callers depend on complete results, never partial
// graphs.
func (c *Client) executeGraphQL(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	reqBody := graphqlRequest{Query: query, Variables: variables}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GraphQL request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.graphqlURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create GraphQL request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.graphqlHTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GraphQL request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read GraphQL response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GraphQL request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var gqlResp graphqlResponse
	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return nil, fmt.Errorf("failed to parse GraphQL response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		return nil, fmt.Errorf("GraphQL error: %s (%s)", gqlResp.Errors[0].Message, gqlResp.Errors[0].Type)
	}

	return gqlResp.Data, nil
}

// FetchOrganization fetches the root organization identity.
func (c *Client) FetchOrganization(ctx context.Context, name string) (model.Organization, error) {
	data, err := c.executeGraphQL(ctx, orgQuery, map[string]any{"orgName": name})
	if err != nil {
		return model.Organization{}, fmt.Errorf("failed to fetch organization %s: %w", name, err)
	}
	return parseOrganization(data)
}

// FetchTeamGraph fetches every team and its full roster, following the
// opaque teams cursor until the remote reports no further page. Pages are
// concatenated in cursor order; any page failure aborts the whole fetch.
func (c *Client) FetchTeamGraph(ctx context.Context, org model.Organization) ([]model.Team, error) {
	var teams []model.Team
	var cursor *string

	for page := 1; ; page++ {
		variables := map[string]any{"orgName": org.Name}
		if cursor != nil {
			variables["cursor"] = *cursor
		}

		log.Debug("fetching team graph page", "org", org.Name, "page", page)
		data, err := c.executeGraphQL(ctx, teamsQuery, variables)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch team graph page %d: %w", page, err)
		}

		pageTeams, info, err := parseTeamsPage(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse team graph page %d: %w", page, err)
		}
		teams = append(teams, pageTeams...)

		if !info.HasNextPage {
			break
		}
		cursor = &info.EndCursor
	}

	return teams, nil
}

// FetchActivity fetches contribution recency facts for the given logins.
// The remote refuses date ranges over one year, so windowYears is walked as
// descending one-year windows from now. Windows are tried newest first and
// fetching stops at the first window containing any contribution kind; a
// member with no activity in the full range is recorded with all fields
// absent.
func (c *Client) FetchActivity(ctx context.Context, org model.Organization, logins []string, windowYears int) ([]model.MemberActivity, error) {
	if windowYears < 1 {
		windowYears = 1
	}

	activities := make([]model.MemberActivity, 0, len(logins))
	for i, login := range logins {
		log.Progress("Fetching activity %d/%d", i+1, len(logins))

		activity, err := c.fetchMemberActivity(ctx, org, login, windowYears)
		if err != nil {
			return nil, err
		}
		if !activity.HasAny() {
			log.Warn("no contributions found", "login", login, "years", windowYears)
		}
		activities = append(activities, activity)
	}
	log.ProgressDone()

	return activities, nil
}

func (c *Client) fetchMemberActivity(ctx context.Context, org model.Organization, login string, windowYears int) (model.MemberActivity, error) {
	now := time.Now().UTC()

	for window := 0; window < windowYears; window++ {
		to := now.AddDate(-window, 0, 0)
		from := to.AddDate(-contributionWindow, 0, 0)

		variables := map[string]any{
			"login": login,
			"orgID": org.ID,
			"from":  from.Format(time.RFC3339),
			"to":    to.Format(time.RFC3339),
		}

		log.Debug("fetching contributions", "login", login, "from", variables["from"], "to", variables["to"])
		data, err := c.executeGraphQL(ctx, contributionsQuery, variables)
		if err != nil {
			return model.MemberActivity{}, fmt.Errorf("failed to fetch contributions for %s: %w", login, err)
		}

		activity, err := parseActivity(data, login)
		if err != nil {
			return model.MemberActivity{}, fmt.Errorf("failed to parse contributions for %s: %w", login, err)
		}

		// Any contribution in this window proves the member is not stale;
		// older windows carry no further information.
		if activity.HasAny() {
			return activity, nil
		}
	}

	return model.MemberActivity{Login: login}, nil
}

// teamsPageInfo carries the pagination cursor for the team graph query.
type teamsPageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type orgData struct {
	Organization *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"organization"`
}

func parseOrganization(data json.RawMessage) (model.Organization, error) {
	var resp orgData
	if err := json.Unmarshal(data, &resp); err != nil {
		return model.Organization{}, fmt.Errorf("failed to parse organization data: %w", err)
	}
	if resp.Organization == nil {
		return model.Organization{}, fmt.Errorf("organization not found")
	}
	return model.Organization{
		ID:   resp.Organization.ID,
		Name: resp.Organization.Name,
	}, nil
}

type teamsPageData struct {
	Organization *struct {
		Teams struct {
			Edges []struct {
				Node teamNode `json:"node"`
			} `json:"edges"`
			PageInfo teamsPageInfo `json:"pageInfo"`
		} `json:"teams"`
	} `json:"organization"`
}

type teamNode struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Privacy     string `json:"privacy"`
	Members     struct {
		Edges []struct {
			Node struct {
				Login string `json:"login"`
				Name  string `json:"name"`
				Email string `json:"email"`
			} `json:"node"`
			Role string `json:"role"`
		} `json:"edges"`
	} `json:"members"`
}

func parseTeamsPage(data json.RawMessage) ([]model.Team, teamsPageInfo, error) {
	var resp teamsPageData
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, teamsPageInfo{}, fmt.Errorf("failed to parse teams page: %w", err)
	}
	if resp.Organization == nil {
		return nil, teamsPageInfo{}, fmt.Errorf("organization not found")
	}

	teams := make([]model.Team, 0, len(resp.Organization.Teams.Edges))
	for _, edge := range resp.Organization.Teams.Edges {
		node := edge.Node
		team := model.Team{
			ID:          node.ID,
			Name:        node.Name,
			Slug:        node.Slug,
			Description: node.Description,
			Privacy:     node.Privacy,
		}
		for _, m := range node.Members.Edges {
			team.Members = append(team.Members, model.TeamMembership{
				Login: m.Node.Login,
				Name:  m.Node.Name,
				Email: m.Node.Email,
				Role:  model.Role(m.Role),
			})
		}
		teams = append(teams, team)
	}

	return teams, resp.Organization.Teams.PageInfo, nil
}

type contributionsData struct {
	User *struct {
		Login                   string `json:"login"`
		ContributionsCollection struct {
			PullRequestContributions struct {
				Nodes []occurredAtNode `json:"nodes"`
			} `json:"pullRequestContributions"`
			IssueContributions struct {
				Nodes []occurredAtNode `json:"nodes"`
			} `json:"issueContributions"`
			CommitContributionsByRepository []struct {
				Contributions struct {
					Nodes []occurredAtNode `json:"nodes"`
				} `json:"contributions"`
			} `json:"commitContributionsByRepository"`
		} `json:"contributionsCollection"`
	} `json:"user"`
}

type occurredAtNode struct {
	OccurredAt time.Time `json:"occurredAt"`
}

func parseActivity(data json.RawMessage, login string) (model.MemberActivity, error) {
	var resp contributionsData
	if err := json.Unmarshal(data, &resp); err != nil {
		return model.MemberActivity{}, fmt.Errorf("failed to parse contributions data: %w", err)
	}
	if resp.User == nil {
		return model.MemberActivity{}, fmt.Errorf("user %s not found", login)
	}

	activity := model.MemberActivity{Login: resp.User.Login}
	cc := resp.User.ContributionsCollection

	if nodes := cc.PullRequestContributions.Nodes; len(nodes) > 0 {
		t := nodes[0].OccurredAt
		activity.LastPRAt = &t
	}
	if nodes := cc.IssueContributions.Nodes; len(nodes) > 0 {
		t := nodes[0].OccurredAt
		activity.LastIssueAt = &t
	}
	if repos := cc.CommitContributionsByRepository; len(repos) > 0 {
		if nodes := repos[0].Contributions.Nodes; len(nodes) > 0 {
			t := nodes[0].OccurredAt
			activity.LastCommit = &t
		}
	}

	return activity, nil
}
