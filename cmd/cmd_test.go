package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/fastify/org-admin/config"
	"github.com/fastify/org-admin/internal/lifecycle"
	"github.com/fastify/org-admin/internal/model"
)

func init() {
	color.NoColor = true
}

func TestNew(t *testing.T) {
	cmd := New()
	if cmd == nil {
		t.Fatal("New() returned nil")
	}
	if cmd.Use != "org-admin" {
		t.Errorf("expected Use to be 'org-admin', got %q", cmd.Use)
	}
}

func TestNewCmdEmeritus(t *testing.T) {
	opts := &Options{}
	cmd := NewCmdEmeritus(opts)
	if cmd == nil {
		t.Fatal("NewCmdEmeritus() returned nil")
	}
	if cmd.Use != "emeritus" {
		t.Errorf("expected Use to be 'emeritus', got %q", cmd.Use)
	}
}

func TestNewCmdOnboard(t *testing.T) {
	opts := &Options{}
	cmd := NewCmdOnboard(opts)
	if cmd == nil {
		t.Fatal("NewCmdOnboard() returned nil")
	}
	if !strings.HasPrefix(cmd.Use, "onboard") {
		t.Errorf("expected Use to start with 'onboard', got %q", cmd.Use)
	}
}

func TestNewCmdOffboard(t *testing.T) {
	opts := &Options{}
	cmd := NewCmdOffboard(opts)
	if cmd == nil {
		t.Fatal("NewCmdOffboard() returned nil")
	}
	if !strings.HasPrefix(cmd.Use, "offboard") {
		t.Errorf("expected Use to start with 'offboard', got %q", cmd.Use)
	}
}

func TestNewCmdVersion(t *testing.T) {
	cmd := NewCmdVersion()
	if cmd == nil {
		t.Fatal("NewCmdVersion() returned nil")
	}
	if cmd.Use != "version" {
		t.Errorf("expected Use to be 'version', got %q", cmd.Use)
	}
}

func TestNewCmdRateLimit(t *testing.T) {
	cmd := NewCmdRateLimit()
	if cmd == nil {
		t.Fatal("NewCmdRateLimit() returned nil")
	}
	if cmd.Use != "ratelimit" {
		t.Errorf("expected Use to be 'ratelimit', got %q", cmd.Use)
	}
}

func TestSetVersionInfo(t *testing.T) {
	SetVersionInfo("1.0.0", "abc123", "2024-01-01")
	defer SetVersionInfo("dev", "none", "unknown")
	if version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %q", version)
	}
	if commit != "abc123" {
		t.Errorf("expected commit abc123, got %q", commit)
	}
}

// fakeGraph serves a canned organization graph.
type fakeGraph struct {
	org        model.Organization
	teams      []model.Team
	activities []model.MemberActivity
}

func (f *fakeGraph) FetchOrganization(_ context.Context, name string) (model.Organization, error) {
	if name != f.org.Name {
		return model.Organization{}, errors.New("organization not found")
	}
	return f.org, nil
}

func (f *fakeGraph) FetchTeamGraph(_ context.Context, _ model.Organization) ([]model.Team, error) {
	return f.teams, nil
}

func (f *fakeGraph) FetchActivity(_ context.Context, _ model.Organization, _ []string, _ int) ([]model.MemberActivity, error) {
	return f.activities, nil
}

// fakeWriter records team mutations. Removals for one member run
// concurrently, so access is guarded.
type fakeWriter struct {
	mu      sync.Mutex
	added   []string
	removed []string
}

func (f *fakeWriter) AddTeamMember(_ context.Context, _, teamSlug, login string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, login+":"+teamSlug)
	return nil
}

func (f *fakeWriter) RemoveTeamMember(_ context.Context, _, teamSlug, login string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, login+":"+teamSlug)
	return nil
}

// fakeIssues records created issues.
type fakeIssues struct {
	titles []string
	bodies []string
}

func (f *fakeIssues) CreateIssue(_ context.Context, _, _, title, body string, _ []string) error {
	f.titles = append(f.titles, title)
	f.bodies = append(f.bodies, body)
	return nil
}

// fakePrompter answers every confirmation without a terminal.
type fakePrompter struct {
	answer   bool
	confirms int
}

func (f *fakePrompter) Confirm(string) (bool, error) {
	f.confirms++
	return f.answer, nil
}

func (f *fakePrompter) Input(string) (string, error) {
	return "", errors.New("unexpected input prompt")
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultOrg:              "acme",
		MonthsInactiveThreshold: 12,
		EmeritusTeam:            "emeritus",
		LeadsTeam:               "leads",
		AdminRepo:               "org-admin",
	}
}

func member(login string) model.TeamMembership {
	return model.TeamMembership{Login: login, Role: model.RoleMember}
}

func TestRunEmeritusMovesInactiveMembers(t *testing.T) {
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	recent := now.AddDate(0, -2, 0)

	graph := &fakeGraph{
		org: model.Organization{ID: "O1", Name: "acme"},
		teams: []model.Team{
			{Slug: "core", Members: []model.TeamMembership{member("active"), member("idle")}},
			{Slug: "emeritus"},
			{Slug: "leads"},
		},
		activities: []model.MemberActivity{
			{Login: "active", LastPRAt: &recent},
			{Login: "idle"},
		},
	}
	writer := &fakeWriter{}
	issues := &fakeIssues{}
	svc := &services{graph: graph, teams: writer, issues: issues, prompter: &fakePrompter{answer: true}}

	var out bytes.Buffer
	opts := &Options{Yes: true, Format: "table"}
	if err := runEmeritus(context.Background(), svc, testConfig(), opts, now, &out); err != nil {
		t.Fatalf("runEmeritus() error = %v", err)
	}

	wantAdded := []string{"idle:emeritus"}
	if len(writer.added) != 1 || writer.added[0] != wantAdded[0] {
		t.Errorf("added = %v, want %v", writer.added, wantAdded)
	}
	wantRemoved := []string{"idle:core"}
	if len(writer.removed) != 1 || writer.removed[0] != wantRemoved[0] {
		t.Errorf("removed = %v, want %v", writer.removed, wantRemoved)
	}
	if len(issues.titles) != 1 || issues.titles[0] != "Move to emeritus members" {
		t.Errorf("issue titles = %v", issues.titles)
	}
	if !strings.Contains(issues.bodies[0], "- @idle") {
		t.Errorf("issue body missing member mention:\n%s", issues.bodies[0])
	}
}

func TestRunEmeritusDryRunMutatesNothing(t *testing.T) {
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

	graph := &fakeGraph{
		org: model.Organization{ID: "O1", Name: "acme"},
		teams: []model.Team{
			{Slug: "core", Members: []model.TeamMembership{member("idle")}},
		},
		activities: []model.MemberActivity{{Login: "idle"}},
	}
	writer := &fakeWriter{}
	issues := &fakeIssues{}
	svc := &services{graph: graph, teams: writer, issues: issues, prompter: &fakePrompter{}}

	var out bytes.Buffer
	opts := &Options{DryRun: true, Format: "table"}
	if err := runEmeritus(context.Background(), svc, testConfig(), opts, now, &out); err != nil {
		t.Fatalf("runEmeritus() error = %v", err)
	}

	if len(writer.added)+len(writer.removed) != 0 {
		t.Errorf("dry run mutated teams: added=%v removed=%v", writer.added, writer.removed)
	}
	if len(issues.titles) != 0 {
		t.Errorf("dry run created issues: %v", issues.titles)
	}
	if !strings.Contains(out.String(), "idle") {
		t.Errorf("plan preview missing candidate:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "skipped (dry-run)") {
		t.Errorf("dry run report missing skipped entries:\n%s", out.String())
	}
}

func TestRunEmeritusDeclinedConfirmation(t *testing.T) {
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

	graph := &fakeGraph{
		org: model.Organization{ID: "O1", Name: "acme"},
		teams: []model.Team{
			{Slug: "core", Members: []model.TeamMembership{member("idle")}},
		},
		activities: []model.MemberActivity{{Login: "idle"}},
	}
	writer := &fakeWriter{}
	issues := &fakeIssues{}
	prompter := &fakePrompter{answer: false}
	svc := &services{graph: graph, teams: writer, issues: issues, prompter: prompter}

	var out bytes.Buffer
	opts := &Options{Format: "table"}
	if err := runEmeritus(context.Background(), svc, testConfig(), opts, now, &out); err != nil {
		t.Fatalf("runEmeritus() error = %v", err)
	}

	if prompter.confirms != 1 {
		t.Errorf("confirms = %d, want 1", prompter.confirms)
	}
	if len(writer.added)+len(writer.removed) != 0 {
		t.Errorf("declined run mutated teams: added=%v removed=%v", writer.added, writer.removed)
	}
	if len(issues.titles) != 0 {
		t.Errorf("declined run created tracking issues: %v", issues.titles)
	}
	if !strings.Contains(out.String(), "Aborted") {
		t.Errorf("expected abort notice, got:\n%s", out.String())
	}
}

func TestRunOnboardUnknownTeam(t *testing.T) {
	graph := &fakeGraph{
		org:   model.Organization{ID: "O1", Name: "acme"},
		teams: []model.Team{{Slug: "core"}},
	}
	writer := &fakeWriter{}
	svc := &services{graph: graph, teams: writer, prompter: &fakePrompter{answer: true}}

	var out bytes.Buffer
	opts := &Options{Yes: true, Format: "table", Teams: []string{"core", "nope"}}
	err := runOnboard(context.Background(), svc, testConfig(), opts, "newbie", &out)
	if !errors.Is(err, lifecycle.ErrUnknownTeam) {
		t.Fatalf("runOnboard() error = %v, want ErrUnknownTeam", err)
	}
	if len(writer.added) != 0 {
		t.Errorf("failed validation still mutated teams: %v", writer.added)
	}
}

func TestRunOnboardAddsToTeams(t *testing.T) {
	graph := &fakeGraph{
		org: model.Organization{ID: "O1", Name: "acme"},
		teams: []model.Team{
			{Slug: "core"},
			{Slug: "docs", Members: []model.TeamMembership{member("newbie")}},
		},
	}
	writer := &fakeWriter{}
	svc := &services{graph: graph, teams: writer, prompter: &fakePrompter{answer: true}}

	var out bytes.Buffer
	opts := &Options{Yes: true, Format: "table", Teams: []string{"core", "docs"}}
	if err := runOnboard(context.Background(), svc, testConfig(), opts, "newbie", &out); err != nil {
		t.Fatalf("runOnboard() error = %v", err)
	}

	if len(writer.added) != 1 || writer.added[0] != "newbie:core" {
		t.Errorf("added = %v, want [newbie:core]", writer.added)
	}
}

func TestRunOnboardNoTeamsConfigured(t *testing.T) {
	svc := &services{graph: &fakeGraph{}, teams: &fakeWriter{}}
	cfg := testConfig()

	var out bytes.Buffer
	opts := &Options{Yes: true, Format: "table"}
	err := runOnboard(context.Background(), svc, cfg, opts, "newbie", &out)
	if err == nil {
		t.Fatal("expected error when no destination teams are configured")
	}
}

// fakeRegistry records registry removals.
type fakeRegistry struct {
	removed []string
}

func (f *fakeRegistry) RemoveTeamMember(_ context.Context, scope, teamSlug, login, _ string) error {
	f.removed = append(f.removed, scope+"/"+teamSlug+"/"+login)
	return nil
}

func TestRunOffboardRemovesEverywhere(t *testing.T) {
	graph := &fakeGraph{
		org: model.Organization{ID: "O1", Name: "acme"},
		teams: []model.Team{
			{Slug: "core", Members: []model.TeamMembership{member("leaver")}},
			{Slug: "docs", Members: []model.TeamMembership{member("leaver")}},
			{Slug: "emeritus"},
		},
	}
	writer := &fakeWriter{}
	reg := &fakeRegistry{}
	svc := &services{graph: graph, teams: writer, registry: reg, prompter: &fakePrompter{answer: true}}

	var out bytes.Buffer
	opts := &Options{Yes: true, Format: "table"}
	if err := runOffboard(context.Background(), svc, testConfig(), opts, "leaver", &out); err != nil {
		t.Fatalf("runOffboard() error = %v", err)
	}

	if len(writer.added) != 1 || writer.added[0] != "leaver:emeritus" {
		t.Errorf("added = %v, want [leaver:emeritus]", writer.added)
	}
	if len(writer.removed) != 2 {
		t.Errorf("removed = %v, want removals from core and docs", writer.removed)
	}
	if len(reg.removed) != 2 {
		t.Errorf("registry removals = %v, want 2", reg.removed)
	}
}

func TestResolveOrg(t *testing.T) {
	cfg := testConfig()

	org, err := resolveOrg(cfg, &Options{Org: "other"})
	if err != nil || org != "other" {
		t.Errorf("resolveOrg with flag = %q, %v", org, err)
	}

	org, err = resolveOrg(cfg, &Options{})
	if err != nil || org != "acme" {
		t.Errorf("resolveOrg from config = %q, %v", org, err)
	}

	if _, err := resolveOrg(&config.Config{}, &Options{}); err == nil {
		t.Error("expected error when no organization is configured")
	}
}
