package syncer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/agentx-labs/sync-config/internal/backup"
	"github.com/agentx-labs/sync-config/internal/logger"
	"github.com/agentx-labs/sync-config/internal/manifest"
	"github.com/agentx-labs/sync-config/internal/plan"
	"github.com/agentx-labs/sync-config/internal/platform"
)

// Options configure one invocation.
type Options struct {
	SourceRoot string
	TargetDir  string
	Mode       plan.Mode
	Backup     bool
	// DryRun computes the plan without touching the target.
	DryRun bool
	// Version is the running CLI version, checked against sync.yaml's
	// requires constraint.
	Version string
}

// Syncer runs syncs for a fixed set of options.
type Syncer struct {
	opts Options
	now  func() time.Time
}

// New returns a Syncer for opts.
func New(opts Options) *Syncer {
	return &Syncer{opts: opts, now: time.Now}
}

// Report describes a completed (or dry) run.
type Report struct {
	Plan     *plan.Plan
	Manifest *manifest.Manifest
	Backup   *backup.Snapshot
	Results  []Result
	DryRun   bool
}

// CategorySummary counts outcomes for one category.
type CategorySummary struct {
	Category  manifest.Category
	Created   int
	Updated   int
	Unchanged int
	Failed    int
}

// Synced is the number of entries now in place.
func (c CategorySummary) Synced() int {
	return c.Created + c.Updated + c.Unchanged
}

// Summary returns per-category outcome counts, in materialization order,
// for categories with at least one entry.
func (r *Report) Summary() []CategorySummary {
	byCat := make(map[manifest.Category]*CategorySummary)
	for _, res := range r.Results {
		s, ok := byCat[res.Action.Category]
		if !ok {
			s = &CategorySummary{Category: res.Action.Category}
			byCat[res.Action.Category] = s
		}
		switch res.Outcome {
		case Created:
			s.Created++
		case Updated:
			s.Updated++
		case Unchanged:
			s.Unchanged++
		case Failed:
			s.Failed++
		}
	}

	var out []CategorySummary
	for _, c := range manifest.Categories {
		if s, ok := byCat[c]; ok {
			out = append(out, *s)
		}
	}
	return out
}

// Prepare loads the layout, scans the source, and computes the plan. It
// never touches the target.
func (s *Syncer) Prepare(ctx context.Context) (*plan.Plan, *manifest.Manifest, error) {
	layout, err := manifest.LoadLayout(s.opts.SourceRoot, s.opts.Version)
	if err != nil {
		return nil, nil, err
	}

	m, err := manifest.Scan(s.opts.SourceRoot, layout)
	if err != nil {
		return nil, nil, err
	}

	targetDir, err := filepath.Abs(s.opts.TargetDir)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving target directory %s: %w", s.opts.TargetDir, err)
	}

	p := plan.Compute(m, plan.Options{
		TargetDir: targetDir,
		Mode:      s.opts.Mode,
		Backup:    s.opts.Backup,
	})

	logger.G(ctx).WithField("source", m.SourceRoot).
		WithField("target", targetDir).
		WithField("entries", len(p.Actions)).
		Debug("computed sync plan")

	return p, m, nil
}

// Run performs a full sync. Source errors and backup errors abort before
// the target is modified. Per-entry failures are returned as a
// *PartialError together with a report covering every entry.
func (s *Syncer) Run(ctx context.Context) (*Report, error) {
	p, m, err := s.Prepare(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{Plan: p, Manifest: m, DryRun: s.opts.DryRun}
	if s.opts.DryRun {
		return report, nil
	}

	if p.Backup {
		snap, err := backup.Create(p.TargetDir, m.Layout.TargetRoots(), s.now())
		if err != nil {
			return nil, fmt.Errorf("backup failed, target left untouched: %w", err)
		}
		if snap != nil {
			logger.G(ctx).WithField("dir", snap.Dir).Info("backed up existing configuration")
		}
		report.Backup = snap
	}

	if err := unlinkDirRoots(ctx, p.TargetDir); err != nil {
		return report, err
	}

	for _, dir := range []string{p.TargetDir, filepath.Join(p.TargetDir, manifest.AgentsTarget)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return report, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	report.Results, err = Apply(ctx, p)
	return report, err
}

// unlinkDirRoots replaces symlinked agents, skills, and tools roots with
// real directories. Entries are written per file, and through such a link
// they would land in the link's destination, possibly the source itself.
// Only the link is removed; its destination is left as it was.
func unlinkDirRoots(ctx context.Context, targetDir string) error {
	for _, root := range []string{manifest.AgentsTarget, manifest.SkillsTarget, manifest.ToolsTarget} {
		path := filepath.Join(targetDir, root)
		linked, err := platform.IsSymlink(path)
		if err != nil {
			return fmt.Errorf("checking %s: %w", path, err)
		}
		if !linked {
			continue
		}
		dest, _ := platform.ReadSymlinkTarget(path)
		if err := platform.RemovePath(path); err != nil {
			return err
		}
		logger.G(ctx).WithField("path", path).WithField("was", dest).
			Info("replaced symlinked directory with a real one")
	}
	return nil
}
