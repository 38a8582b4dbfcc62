package manifest

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"github.com/agentx-labs/sync-config/internal/branding"
	"github.com/gobwas/glob"
)

// LayoutFile is the optional layout override file in the source root.
const LayoutFile = "sync.yaml"

// ErrMissingSource is wrapped by errors for required source paths that do
// not exist.
var ErrMissingSource = errors.New("required source missing")

// Category groups manifest entries by what they are.
type Category string

// Manifest categories, in the order they are materialized.
const (
	CategoryAgents Category = "agents"
	CategoryConfig Category = "config"
	CategoryRules  Category = "rules"
	CategorySkills Category = "skills"
	CategoryTools  Category = "tools"
)

// Categories lists every category in materialization order.
var Categories = []Category{
	CategoryAgents,
	CategoryConfig,
	CategoryRules,
	CategorySkills,
	CategoryTools,
}

// Count renders n with the category's noun, e.g. "17 agents" or "1 rules file".
func (c Category) Count(n int) string {
	var one, many string
	switch c {
	case CategoryAgents:
		one, many = "agent", "agents"
	case CategoryConfig:
		one, many = "config file", "config files"
	case CategoryRules:
		one, many = "rules file", "rules files"
	case CategorySkills:
		one, many = "skill file", "skill files"
	case CategoryTools:
		one, many = "tool", "tools"
	default:
		one, many = string(c), string(c)
	}
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// Entry maps one source file onto its target location.
type Entry struct {
	Category Category
	// Source is the absolute path of the source file.
	Source string
	// Target is slash-separated and relative to the target directory.
	Target string
}

// Manifest is the scanned set of entries for one invocation.
type Manifest struct {
	SourceRoot string
	Layout     *Layout
	Entries    []Entry
}

// ByCategory returns the entries of one category, in manifest order.
func (m *Manifest) ByCategory(c Category) []Entry {
	var out []Entry
	for _, e := range m.Entries {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

// Layout describes where each category lives in the source checkout.
// Paths are relative to the source root.
type Layout struct {
	Requires    string   `yaml:"requires,omitempty"`
	Config      string   `yaml:"config"`
	Rules       string   `yaml:"rules"`
	RulesTarget string   `yaml:"rules_target"`
	Agents      string   `yaml:"agents"`
	Skills      string   `yaml:"skills"`
	Tools       string   `yaml:"tools"`
	Exclude     []string `yaml:"exclude"`
}

// DefaultLayout returns the conventional source layout.
func DefaultLayout() *Layout {
	return &Layout{
		Config:      "opencode.json",
		Rules:       "docs/AGENTS.md",
		RulesTarget: branding.RulesTarget(),
		Agents:      "agents",
		Skills:      "skills",
		Tools:       "tools",
		Exclude:     []string{".DS_Store", ".git", "node_modules", ".gitkeep"},
	}
}

// Excluded reports whether a file or directory name is skipped. Exclude
// entries are glob patterns matched against the base name ("*.swp"); a
// pattern that does not compile only matches itself.
func (l *Layout) Excluded(name string) bool {
	for _, x := range l.Exclude {
		if x == name {
			return true
		}
		g, err := glob.Compile(x)
		if err == nil && g.Match(name) {
			return true
		}
	}
	return false
}

// Target directory names for the directory categories. They are fixed no
// matter where the sources live.
const (
	AgentsTarget = "agents"
	SkillsTarget = "skills"
	ToolsTarget  = "tools"
)

// ConfigTarget returns the target name of the root config file, which keeps
// its own file name.
func (l *Layout) ConfigTarget() string {
	return path.Base(filepath.ToSlash(l.Config))
}

// TargetRoots lists the top-level target paths the synchronizer may write
// to. A backup snapshot covers exactly these.
func (l *Layout) TargetRoots() []string {
	return []string{
		l.RulesTarget,
		l.ConfigTarget(),
		AgentsTarget,
		SkillsTarget,
		ToolsTarget,
	}
}
