// Package plan turns a source manifest and typed options into the list of
// filesystem actions a sync would perform. Compute does no I/O, so the
// mapping from manifest to target paths is testable on its own; the
// syncer package executes the result.
package plan

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/sync-config/internal/manifest"
)

// Mode selects how entries are materialized.
type Mode int

const (
	// ModeCopy duplicates file bytes into the target.
	ModeCopy Mode = iota
	// ModeSymlink links target paths to the source files.
	ModeSymlink
)

// String returns the mode's flag name.
func (m Mode) String() string {
	switch m {
	case ModeCopy:
		return "copy"
	case ModeSymlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// ParseMode parses "copy" or "symlink", case-insensitively. The empty
// string means copy.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "copy":
		return ModeCopy, nil
	case "symlink":
		return ModeSymlink, nil
	default:
		return ModeCopy, fmt.Errorf("unknown sync mode %q (want copy or symlink)", s)
	}
}

// Options are the typed settings of one invocation.
type Options struct {
	TargetDir string
	Mode      Mode
	Backup    bool
}

// Action materializes one manifest entry.
type Action struct {
	Category manifest.Category
	Source   string
	// Target is the absolute (or TargetDir-rooted) destination path.
	Target string
	// Rel is the destination relative to TargetDir, slash-separated.
	Rel  string
	Mode Mode
}

func (a Action) String() string {
	verb := "copy"
	if a.Mode == ModeSymlink {
		verb = "link"
	}
	return fmt.Sprintf("%s %s -> %s", verb, a.Source, a.Target)
}

// Plan is the ordered list of actions for one invocation.
type Plan struct {
	TargetDir string
	Mode      Mode
	Backup    bool
	Actions   []Action
}

// Compute maps every manifest entry onto the target directory.
func Compute(m *manifest.Manifest, opts Options) *Plan {
	p := &Plan{
		TargetDir: opts.TargetDir,
		Mode:      opts.Mode,
		Backup:    opts.Backup,
		Actions:   make([]Action, 0, len(m.Entries)),
	}
	for _, e := range m.Entries {
		p.Actions = append(p.Actions, Action{
			Category: e.Category,
			Source:   e.Source,
			Target:   filepath.Join(opts.TargetDir, filepath.FromSlash(e.Target)),
			Rel:      e.Target,
			Mode:     opts.Mode,
		})
	}
	return p
}

// Counts returns the number of actions per category.
func (p *Plan) Counts() map[manifest.Category]int {
	counts := make(map[manifest.Category]int)
	for _, a := range p.Actions {
		counts[a.Category]++
	}
	return counts
}

// Dirs returns the distinct parent directories the plan writes into, in
// first-use order.
func (p *Plan) Dirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, a := range p.Actions {
		d := filepath.Dir(a.Target)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	return dirs
}
