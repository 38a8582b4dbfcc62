package cli

import (
	"fmt"
	"strings"

	"github.com/agentx-labs/sync-config/internal/syncer"
	"github.com/spf13/cobra"
)

var (
	flagStatusStrict bool
	flagStatusDiff   bool
)

func init() {
	statusCmd.Flags().BoolVar(&flagStatusStrict, "strict", false, "Exit non-zero when any entry is out of sync")
	statusCmd.Flags().BoolVar(&flagStatusDiff, "diff", false, "Show a unified diff for stale copies")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report how the target differs from the source",
	Long: `Compare every entry of the source checkout with the target directory
without changing anything. Each entry is reported as linked, copied,
stale, wrong-mode, or missing for the selected mode.`,
	Args: noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		s := syncer.New(syncer.Options{
			SourceRoot: settings.Source,
			TargetDir:  settings.Target,
			Mode:       settings.Mode,
			Version:    buildVersion,
		})
		p, entries, err := s.Status(cmd.Context())
		if err != nil {
			return err
		}

		pr := newPresenter(cmd)
		pr.Section(fmt.Sprintf("Status of %s (%s):", p.TargetDir, p.Mode))

		drifted := 0
		for _, e := range entries {
			if !e.State.InSync() {
				drifted++
			}
			line := fmt.Sprintf("  %s %-10s %s", statusTag(e.State), e.State, e.Action.Rel)
			if e.Detail != "" {
				line += " (" + e.Detail + ")"
			}
			pr.Info("%s", line)

			if flagStatusDiff {
				diff, err := syncer.Diff(e)
				if err != nil {
					pr.Warning("cannot diff %s: %v", e.Action.Rel, err)
				} else if diff != "" {
					pr.Info("%s", strings.TrimRight(diff, "\n"))
				}
			}
		}

		if drifted == 0 {
			pr.Success("%d entries in sync", len(entries))
			return nil
		}
		pr.Warning("%d of %d entries out of sync; run %s to update", drifted, len(entries), cmd.Root().Name())
		if flagStatusStrict {
			return fmt.Errorf("%d entries out of sync", drifted)
		}
		return nil
	},
}

func statusTag(s syncer.State) string {
	switch s {
	case syncer.StateLinked, syncer.StateCopied:
		return "[ OK ]"
	case syncer.StateMissing:
		return "[MISS]"
	default:
		return "[WARN]"
	}
}
