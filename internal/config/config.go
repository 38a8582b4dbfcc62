package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/agentx-labs/sync-config/internal/branding"
	"github.com/agentx-labs/sync-config/internal/plan"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys, as used in config.yaml and after the env prefix.
const (
	KeySource    = "source"
	KeyTarget    = "target"
	KeyMode      = "mode"
	KeyBackup    = "backup"
	KeyLogLevel  = "log_level"
	KeyLogFormat = "log_format"
)

// Keys lists every setting accepted by config get/set.
var Keys = []string{KeySource, KeyTarget, KeyMode, KeyBackup, KeyLogLevel, KeyLogFormat}

// Settings are the resolved values for one invocation.
type Settings struct {
	Source    string
	Target    string
	Mode      plan.Mode
	Backup    bool
	LogLevel  string
	LogFormat string
}

// Dir returns the path to the settings directory (~/.sync-config/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.sync-config/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// DefaultTarget returns the default sync target under the user's home.
func DefaultTarget() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.FromSlash(branding.TargetDir())
	}
	return filepath.Join(home, filepath.FromSlash(branding.TargetDir()))
}

// New returns a viper instance reading the config file and environment,
// with defaults for every key. Call Load to read the file.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(FilePath())
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()

	v.SetDefault(KeySource, "")
	v.SetDefault(KeyTarget, DefaultTarget())
	v.SetDefault(KeyMode, plan.ModeCopy.String())
	v.SetDefault(KeyBackup, true)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "text")
	return v
}

// Load reads the config file into v. A missing file is not an error.
func Load(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("reading %s: %w", v.ConfigFileUsed(), err)
}

// BindFlags binds the command-line flags that map one-to-one onto setting
// keys. Flags only take effect when set explicitly.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		KeySource:    "source",
		KeyTarget:    "target",
		KeyLogLevel:  "log-level",
		KeyLogFormat: "log-format",
	}
	for key, name := range bindings {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag --%s: %w", name, err)
		}
	}
	return nil
}

// Resolve validates v and returns typed settings. Relative and
// home-prefixed paths are made absolute; an empty source means the working
// directory.
func Resolve(v *viper.Viper) (Settings, error) {
	mode, err := plan.ParseMode(v.GetString(KeyMode))
	if err != nil {
		return Settings{}, fmt.Errorf("invalid %s: %w", KeyMode, err)
	}

	backup, err := cast.ToBoolE(v.Get(KeyBackup))
	if err != nil {
		return Settings{}, fmt.Errorf("invalid %s %q: want true or false", KeyBackup, v.GetString(KeyBackup))
	}

	level := strings.ToLower(v.GetString(KeyLogLevel))
	if _, err := logrus.ParseLevel(level); err != nil {
		return Settings{}, fmt.Errorf("invalid %s: %w", KeyLogLevel, err)
	}

	format := strings.ToLower(v.GetString(KeyLogFormat))
	if format != "text" && format != "json" {
		return Settings{}, fmt.Errorf("invalid %s %q: want text or json", KeyLogFormat, format)
	}

	source, err := absPath(v.GetString(KeySource))
	if err != nil {
		return Settings{}, err
	}
	target, err := absPath(v.GetString(KeyTarget))
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		Source:    source,
		Target:    target,
		Mode:      mode,
		Backup:    backup,
		LogLevel:  level,
		LogFormat: format,
	}, nil
}

func absPath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding %s: %w", p, err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	if p == "" {
		p = "."
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", p, err)
	}
	return abs, nil
}

// Get returns the effective value of key, or an error for unknown keys.
func Get(v *viper.Viper, key string) (string, error) {
	if !slices.Contains(Keys, key) {
		return "", unknownKey(key)
	}
	return v.GetString(key), nil
}

// Set validates value, stores it under key, and saves the config file.
// Only keys already in the file and the new one are written; defaults and
// environment overrides stay out of it.
func Set(key, value string) error {
	if !slices.Contains(Keys, key) {
		return unknownKey(key)
	}

	var stored any = value
	switch key {
	case KeyMode:
		if _, err := plan.ParseMode(value); err != nil {
			return err
		}
	case KeyBackup:
		b, err := cast.ToBoolE(value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: want true or false", key, value)
		}
		stored = b
	case KeyLogLevel:
		if _, err := logrus.ParseLevel(value); err != nil {
			return err
		}
	case KeyLogFormat:
		if value != "text" && value != "json" {
			return fmt.Errorf("invalid %s %q: want text or json", key, value)
		}
	}

	if err := EnsureDir(); err != nil {
		return err
	}

	file := viper.New()
	file.SetConfigFile(FilePath())
	file.SetConfigType(fileType)
	if err := Load(file); err != nil {
		return err
	}
	file.Set(key, stored)

	if err := file.WriteConfigAs(FilePath()); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func unknownKey(key string) error {
	return fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(Keys, ", "))
}
