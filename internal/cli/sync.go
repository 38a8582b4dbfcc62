package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/agentx-labs/sync-config/internal/backup"
	"github.com/agentx-labs/sync-config/internal/manifest"
	"github.com/agentx-labs/sync-config/internal/presenter"
	"github.com/agentx-labs/sync-config/internal/syncer"
	"github.com/spf13/cobra"
)

var (
	flagNoBackup bool
	flagDryRun   bool
)

func init() {
	rootCmd.Flags().BoolVar(&flagNoBackup, "no-backup", false, "Skip the timestamped backup of existing target contents")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the sync plan without changing anything")
}

func runSync(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	s := syncer.New(syncer.Options{
		SourceRoot: settings.Source,
		TargetDir:  settings.Target,
		Mode:       settings.Mode,
		Backup:     settings.Backup,
		DryRun:     flagDryRun,
		Version:    buildVersion,
	})

	report, err := s.Run(cmd.Context())
	if report != nil {
		printReport(newPresenter(cmd), report)
	}
	return err
}

func printReport(pr *presenter.Presenter, r *syncer.Report) {
	p := r.Plan
	if r.DryRun {
		printDryRun(pr, r)
		return
	}

	if r.Backup != nil {
		pr.Success("Backed up %s to %s", strings.Join(r.Backup.Items, ", "), r.Backup.Dir)
	}
	for _, s := range r.Summary() {
		if n := s.Synced(); n > 0 {
			pr.Success("Synced %s (%s)", s.Category.Count(n), outcomeDetail(s))
		}
		if s.Failed > 0 {
			pr.Warning("%s could not be synced", s.Category.Count(s.Failed))
		}
	}
	pr.Info("Target: %s (%s)", p.TargetDir, p.Mode)
}

func outcomeDetail(s syncer.CategorySummary) string {
	var parts []string
	if s.Created > 0 {
		parts = append(parts, fmt.Sprintf("%d new", s.Created))
	}
	if s.Updated > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", s.Updated))
	}
	if s.Unchanged > 0 {
		parts = append(parts, fmt.Sprintf("%d unchanged", s.Unchanged))
	}
	return strings.Join(parts, ", ")
}

func printDryRun(pr *presenter.Presenter, r *syncer.Report) {
	p := r.Plan
	pr.Section(fmt.Sprintf("Dry run: %d entries would be synced into %s (%s)", len(p.Actions), p.TargetDir, p.Mode))

	counts := p.Counts()
	for _, c := range manifest.Categories {
		if n := counts[c]; n > 0 {
			pr.Info("  %s", c.Count(n))
		}
	}

	if p.Backup {
		existing, err := backup.Existing(p.TargetDir, r.Manifest.Layout.TargetRoots())
		if err != nil {
			pr.Warning("cannot check target: %v", err)
		} else if len(existing) > 0 {
			pr.Info("Would back up %s first", strings.Join(existing, ", "))
		}
	}

	for _, d := range p.Dirs() {
		if _, err := os.Stat(d); errors.Is(err, fs.ErrNotExist) {
			pr.Info("  mkdir %s", d)
		}
	}
	for _, a := range p.Actions {
		pr.Info("  %s", a)
	}
}
