package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/gobwas/glob"
	"go.yaml.in/yaml/v3"
)

// LoadLayout returns the source layout for sourceRoot: the defaults,
// overlaid with sync.yaml when the source root has one. The file is
// validated against the layout schema and its requires constraint is checked
// against version.
func LoadLayout(sourceRoot, version string) (*Layout, error) {
	layout := DefaultLayout()

	path := filepath.Join(sourceRoot, LayoutFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return layout, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	if !result.Valid {
		msgs := make([]string, 0, len(result.Issues))
		for _, issue := range result.Issues {
			msgs = append(msgs, issue.String())
		}
		return nil, fmt.Errorf("invalid %s: %s", path, strings.Join(msgs, "; "))
	}

	if err := yaml.Unmarshal(data, layout); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	for _, p := range []string{layout.Config, layout.Rules, layout.Agents, layout.Skills, layout.Tools} {
		if err := checkRelative(p); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", path, err)
		}
	}

	for _, name := range []string{layout.RulesTarget, layout.ConfigTarget()} {
		if err := checkTargetName(name); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", path, err)
		}
	}

	for _, x := range layout.Exclude {
		if _, err := glob.Compile(x); err != nil {
			return nil, fmt.Errorf("invalid %s: exclude pattern %q: %w", path, x, err)
		}
	}

	if err := CheckRequires(layout.Requires, version); err != nil {
		return nil, err
	}

	return layout, nil
}

// checkRelative rejects paths that escape the source root.
func checkRelative(p string) error {
	if filepath.IsAbs(p) {
		return fmt.Errorf("path %q must be relative to the source root", p)
	}
	clean := filepath.ToSlash(filepath.Clean(p))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("path %q escapes the source root", p)
	}
	return nil
}

// checkTargetName rejects file names that would not land inside the target
// directory.
func checkTargetName(name string) error {
	switch name {
	case "", ".", "..", "/":
		return fmt.Errorf("target name %q does not name a file inside the target directory", name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("target name %q must not contain path separators", name)
	}
	return nil
}

// CheckRequires verifies that version satisfies the semver constraint.
// An empty constraint always passes. Development builds ("dev" or any
// unparseable version) skip the check.
func CheckRequires(constraint, version string) error {
	if constraint == "" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("parsing requires constraint %q: %w", constraint, err)
	}

	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return nil
	}

	if !c.Check(v) {
		return fmt.Errorf("source requires CLI version %s, running %s", constraint, version)
	}
	return nil
}
