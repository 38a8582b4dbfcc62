// Package branding provides compile-time identity values for the CLI.
//
// branding.yaml is embedded with //go:embed so a fork can rename the binary,
// its home directory, and the default sync target without touching code.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	TargetDir   string `yaml:"target_dir"`
	RulesTarget string `yaml:"rules_target"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:     "sync-config",
			DisplayName: "sync-config",
			Description: "Sync agent, rule, skill, and tool files into an AI tool's config directory",
			HomeDir:     ".sync-config",
			EnvPrefix:   "SYNC_CONFIG",
			TargetDir:   ".config/opencode",
			RulesTarget: "AGENTS.md",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "sync-config").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory under $HOME holding the CLI's own settings.
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "SYNC_CONFIG").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// TargetDir returns the default sync target, relative to $HOME.
func TargetDir() string { load(); return defaults.TargetDir }

// RulesTarget returns the canonical file name the rules document is synced to.
func RulesTarget() string { load(); return defaults.RulesTarget }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("target") → "SYNC_CONFIG_TARGET".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
