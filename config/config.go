// Package config loads the org-admin configuration: a global file in the
// user config directory merged with an optional local override file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults applied when neither config file sets a value.
const (
	DefaultOrg              = "fastify"
	DefaultMonthsThreshold  = 12
	DefaultEmeritusTeamSlug = "emeritus"
	DefaultLeadsTeamSlug    = "leads"
	DefaultAdminRepo        = "org-admin"
)

// Config enumerates the recognized options. Defaults and validation are
// applied once at load time; the rest of the program never re-checks them.
type Config struct {
	DefaultOrg              string   `yaml:"default_org,omitempty"`
	MonthsInactiveThreshold int      `yaml:"months_inactive_threshold,omitempty"`
	EmeritusTeam            string   `yaml:"emeritus_team,omitempty"`
	LeadsTeam               string   `yaml:"leads_team,omitempty"`
	AdminRepo               string   `yaml:"admin_repo,omitempty"`
	DefaultTeams            []string `yaml:"default_teams,omitempty"`
	NPMScope                string   `yaml:"npm_scope,omitempty"`
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".org-admin"
	}
	return filepath.Join(configDir, "org-admin")
}

// ConfigPath returns the path to the global config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".org-admin.yaml"
}

// Load loads the configuration from disk. The global config is read first,
// then any local file is merged on top (local values take precedence), and
// defaults fill whatever remains unset.
func Load() (*Config, error) {
	return loadPaths(ConfigPath(), LocalConfigPath())
}

func loadPaths(globalPath, localPath string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(globalPath); err == nil {
		data, err := os.ReadFile(globalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read global config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse global config file: %w", err)
		}
	}

	if _, err := os.Stat(localPath); err == nil {
		data, err := os.ReadFile(localPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read local config file: %w", err)
		}
		var localCfg Config
		if err := yaml.Unmarshal(data, &localCfg); err != nil {
			return nil, fmt.Errorf("failed to parse local config file: %w", err)
		}
		cfg = mergeConfig(cfg, &localCfg)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeConfig merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	result := *global

	if local.DefaultOrg != "" {
		result.DefaultOrg = local.DefaultOrg
	}
	if local.MonthsInactiveThreshold != 0 {
		result.MonthsInactiveThreshold = local.MonthsInactiveThreshold
	}
	if local.EmeritusTeam != "" {
		result.EmeritusTeam = local.EmeritusTeam
	}
	if local.LeadsTeam != "" {
		result.LeadsTeam = local.LeadsTeam
	}
	if local.AdminRepo != "" {
		result.AdminRepo = local.AdminRepo
	}
	if len(local.DefaultTeams) > 0 {
		result.DefaultTeams = local.DefaultTeams
	}
	if local.NPMScope != "" {
		result.NPMScope = local.NPMScope
	}

	return &result
}

func (c *Config) applyDefaults() {
	if c.DefaultOrg == "" {
		c.DefaultOrg = DefaultOrg
	}
	if c.MonthsInactiveThreshold == 0 {
		c.MonthsInactiveThreshold = DefaultMonthsThreshold
	}
	if c.EmeritusTeam == "" {
		c.EmeritusTeam = DefaultEmeritusTeamSlug
	}
	if c.LeadsTeam == "" {
		c.LeadsTeam = DefaultLeadsTeamSlug
	}
	if c.AdminRepo == "" {
		c.AdminRepo = DefaultAdminRepo
	}
}

func (c *Config) validate() error {
	if c.MonthsInactiveThreshold < 1 {
		return fmt.Errorf("months_inactive_threshold must be positive, got %d", c.MonthsInactiveThreshold)
	}
	return nil
}

// Scope returns the npm scope for the given organization, falling back to
// the org name when no override is configured.
func (c *Config) Scope(org string) string {
	if c.NPMScope != "" {
		return c.NPMScope
	}
	return org
}

// GetGitHubToken returns the GitHub token from the GITHUB_TOKEN environment
// variable. Following 12-factor practice, tokens are only read from the
// environment, never from config files.
func (c *Config) GetGitHubToken() string {
	return os.Getenv("GITHUB_TOKEN")
}
