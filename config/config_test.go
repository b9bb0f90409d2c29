package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := loadPaths(filepath.Join(dir, "missing.yaml"), filepath.Join(dir, "missing-local.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DefaultOrg != "fastify" {
		t.Errorf("DefaultOrg = %q, want fastify", cfg.DefaultOrg)
	}
	if cfg.MonthsInactiveThreshold != 12 {
		t.Errorf("MonthsInactiveThreshold = %d, want 12", cfg.MonthsInactiveThreshold)
	}
	if cfg.EmeritusTeam != "emeritus" || cfg.LeadsTeam != "leads" {
		t.Errorf("team slugs = %q/%q, want emeritus/leads", cfg.EmeritusTeam, cfg.LeadsTeam)
	}
	if cfg.AdminRepo != "org-admin" {
		t.Errorf("AdminRepo = %q, want org-admin", cfg.AdminRepo)
	}
}

func TestLoadMergesLocalOverGlobal(t *testing.T) {
	dir := t.TempDir()
	global := writeFile(t, dir, "global.yaml", `
default_org: acme
months_inactive_threshold: 24
default_teams:
  - core
`)
	local := writeFile(t, dir, "local.yaml", `
default_org: fastify
default_teams:
  - plugins
  - docs
`)

	cfg, err := loadPaths(global, local)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DefaultOrg != "fastify" {
		t.Errorf("local default_org must win, got %q", cfg.DefaultOrg)
	}
	if cfg.MonthsInactiveThreshold != 24 {
		t.Errorf("unset local value must preserve global, got %d", cfg.MonthsInactiveThreshold)
	}
	if !reflect.DeepEqual(cfg.DefaultTeams, []string{"plugins", "docs"}) {
		t.Errorf("DefaultTeams = %v, want local list", cfg.DefaultTeams)
	}
}

func TestLoadRejectsInvalidThreshold(t *testing.T) {
	dir := t.TempDir()
	global := writeFile(t, dir, "global.yaml", "months_inactive_threshold: -3\n")

	if _, err := loadPaths(global, filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected validation error for negative threshold")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	global := writeFile(t, dir, "global.yaml", "default_org: [broken\n")

	if _, err := loadPaths(global, filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected parse error")
	}
}

func TestScope(t *testing.T) {
	cfg := &Config{}
	if got := cfg.Scope("fastify"); got != "fastify" {
		t.Errorf("Scope() = %q, want org fallback", got)
	}

	cfg.NPMScope = "fastify-npm"
	if got := cfg.Scope("fastify"); got != "fastify-npm" {
		t.Errorf("Scope() = %q, want configured override", got)
	}
}
