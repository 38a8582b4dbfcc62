// Package presenter writes user-facing CLI output: sync summaries,
// warnings, and errors, colored when the terminal supports it.
package presenter

import (
	"fmt"
	"io"
	"os"

	"github.com/agentx-labs/sync-config/internal/branding"
	"github.com/fatih/color"
)

// ColorMode controls colored output.
type ColorMode int

const (
	// ColorAuto lets the color package detect terminal support.
	ColorAuto ColorMode = iota
	// ColorAlways forces color.
	ColorAlways
	// ColorNever disables color.
	ColorNever
)

// Presenter prints to an output and an error stream.
type Presenter struct {
	out   io.Writer
	err   io.Writer
	quiet bool
}

// New returns a presenter on stdout/stderr with the color mode taken from
// the environment.
func New() *Presenter {
	return NewWithOptions(os.Stdout, os.Stderr, DetectColorMode())
}

// NewWithOptions returns a presenter on the given writers.
func NewWithOptions(out, errOut io.Writer, mode ColorMode) *Presenter {
	switch mode {
	case ColorAlways:
		color.NoColor = false
	case ColorNever:
		color.NoColor = true
	}
	return &Presenter{out: out, err: errOut}
}

// DetectColorMode honours NO_COLOR and SYNC_CONFIG_COLOR.
func DetectColorMode() ColorMode {
	if os.Getenv("NO_COLOR") != "" {
		return ColorNever
	}
	switch os.Getenv(branding.EnvVar("COLOR")) {
	case "always", "force":
		return ColorAlways
	case "never", "off":
		return ColorNever
	default:
		return ColorAuto
	}
}

// SetQuiet suppresses everything except errors.
func (p *Presenter) SetQuiet(quiet bool) { p.quiet = quiet }

// IsQuiet reports whether quiet mode is on.
func (p *Presenter) IsQuiet() bool { return p.quiet }

// Out returns the output stream.
func (p *Presenter) Out() io.Writer { return p.out }

// Err returns the error stream.
func (p *Presenter) Err() io.Writer { return p.err }

// Error prints err to the error stream. Never suppressed.
func (p *Presenter) Error(err error) {
	if err == nil {
		return
	}
	color.New(color.FgRed, color.Bold).Fprintf(p.err, "error: %v\n", err)
}

// Success prints a success line.
func (p *Presenter) Success(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	color.New(color.FgGreen).Fprintf(p.out, "✓ %s\n", fmt.Sprintf(format, args...))
}

// Warning prints a warning line to the error stream.
func (p *Presenter) Warning(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	color.New(color.FgYellow).Fprintf(p.err, "warning: %s\n", fmt.Sprintf(format, args...))
}

// Info prints a plain line.
func (p *Presenter) Info(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Section prints a bold heading.
func (p *Presenter) Section(title string) {
	if p.quiet {
		return
	}
	color.New(color.Bold).Fprintln(p.out, title)
}
