package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/agentx-labs/sync-config/internal/branding"
	"github.com/agentx-labs/sync-config/internal/config"
	"github.com/agentx-labs/sync-config/internal/logger"
	"github.com/agentx-labs/sync-config/internal/plan"
	"github.com/agentx-labs/sync-config/internal/presenter"
	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagSource    string
	flagTarget    string
	flagSymlink   bool
	flagCopy      bool
	flagLogLevel  string
	flagLogFormat string
	flagQuiet     bool
)

// UsageError marks invalid invocations: unknown flags, stray arguments,
// conflicting options, or unusable settings. They exit with ExitUsage.
type UsageError struct {
	// Cmd, when set, has its usage printed after the error.
	Cmd *cobra.Command
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagSource, "source", "", "Source checkout to sync from (default: current directory)")
	pf.StringVar(&flagTarget, "target", "", "Target configuration directory (default: ~/"+branding.TargetDir()+")")
	pf.BoolVar(&flagSymlink, "symlink", false, "Symlink entries to the source instead of copying them")
	pf.BoolVar(&flagCopy, "copy", false, "Copy entries into the target (default)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default: warn)")
	pf.StringVar(&flagLogFormat, "log-format", "", "Log format: text or json (default: text)")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Print errors only")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Cmd: cmd, Err: err}
	})
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` copies or symlinks the root config file, the rules document, and
the agents, skills, and tools directories of a source checkout into a
target configuration directory.

Existing target contents are backed up to <target>.backup.<timestamp>
first unless --no-backup is given. Files in the target that do not
belong to the source are never touched.`,
	Example: `  ` + branding.CLIName() + `                     copy into ~/` + branding.TargetDir() + `
  ` + branding.CLIName() + ` --symlink           link instead of copy
  ` + branding.CLIName() + ` --dry-run           show what would change
  ` + branding.CLIName() + ` status              report drift`,
	Args:          noArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSync,
}

// usageArgs turns argument validation failures into usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &UsageError{Cmd: cmd, Err: err}
		}
		return nil
	}
}

var noArgs = usageArgs(cobra.NoArgs)

// Execute runs the root command with build info injected via ldflags and
// returns the process exit code.
func Execute(version, commit, date string) int {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return exitCode(rootCmd, rootCmd.ExecuteContext(ctx))
}

func exitCode(cmd *cobra.Command, err error) int {
	if err == nil {
		return ExitOK
	}

	errOut := cmd.ErrOrStderr()
	var usage *UsageError
	if errors.As(err, &usage) {
		fmt.Fprintf(errOut, "error: %v\n", usage.Err)
		if usage.Cmd != nil {
			fmt.Fprintf(errOut, "\n%s", usage.Cmd.UsageString())
		}
		return ExitUsage
	}

	presenter.NewWithOptions(cmd.OutOrStdout(), errOut, presenter.DetectColorMode()).Error(err)
	return ExitFailure
}

// loadSettings resolves flags, environment, and the config file for cmd
// and applies the logging settings.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	flags := cmd.Flags()
	if flags.Changed("symlink") && flags.Changed("copy") {
		return config.Settings{}, &UsageError{Cmd: cmd, Err: errors.New("--symlink and --copy cannot be used together")}
	}

	v := config.New()
	if err := config.Load(v); err != nil {
		return config.Settings{}, &UsageError{Err: err}
	}
	if err := config.BindFlags(v, flags); err != nil {
		return config.Settings{}, err
	}

	switch {
	case flagSymlink:
		v.Set(config.KeyMode, plan.ModeSymlink.String())
	case flagCopy:
		v.Set(config.KeyMode, plan.ModeCopy.String())
	}
	if f := flags.Lookup("no-backup"); f != nil && f.Changed && flagNoBackup {
		v.Set(config.KeyBackup, false)
	}

	settings, err := config.Resolve(v)
	if err != nil {
		return config.Settings{}, &UsageError{Err: err}
	}

	if err := logger.SetLogLevel(settings.LogLevel); err != nil {
		return config.Settings{}, &UsageError{Err: err}
	}
	logger.SetLogFormat(settings.LogFormat)
	logger.SetLogOutput(cmd.ErrOrStderr())

	logger.G(cmd.Context()).
		WithField("source", settings.Source).
		WithField("target", settings.Target).
		WithField("mode", settings.Mode.String()).
		WithField("backup", settings.Backup).
		Debug("resolved settings")

	return settings, nil
}

func newPresenter(cmd *cobra.Command) *presenter.Presenter {
	pr := presenter.NewWithOptions(cmd.OutOrStdout(), cmd.ErrOrStderr(), presenter.DetectColorMode())
	pr.SetQuiet(flagQuiet)
	return pr
}
