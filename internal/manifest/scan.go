package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// Scan walks sourceRoot according to layout and returns the manifest.
//
// The rules file and the agents directory are required; their absence is
// reported as ErrMissingSource naming the expected path. The config file and
// the skills and tools directories are optional and silently skipped when
// absent. Any other error reaching a source, such as permission denied, is
// returned as-is: the caller must not touch the target when Scan fails.
func Scan(sourceRoot string, layout *Layout) (*Manifest, error) {
	root, err := filepath.Abs(sourceRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving source root %s: %w", sourceRoot, err)
	}

	m := &Manifest{SourceRoot: root, Layout: layout}

	agents, err := scanFlat(filepath.Join(root, filepath.FromSlash(layout.Agents)), AgentsTarget, CategoryAgents, layout, true)
	if err != nil {
		return nil, err
	}
	m.Entries = append(m.Entries, agents...)

	config, err := scanFile(filepath.Join(root, filepath.FromSlash(layout.Config)), layout.ConfigTarget(), CategoryConfig, false)
	if err != nil {
		return nil, err
	}
	m.Entries = append(m.Entries, config...)

	rules, err := scanFile(filepath.Join(root, filepath.FromSlash(layout.Rules)), layout.RulesTarget, CategoryRules, true)
	if err != nil {
		return nil, err
	}
	m.Entries = append(m.Entries, rules...)

	skills, err := scanSkills(filepath.Join(root, filepath.FromSlash(layout.Skills)), layout)
	if err != nil {
		return nil, err
	}
	m.Entries = append(m.Entries, skills...)

	tools, err := scanFlat(filepath.Join(root, filepath.FromSlash(layout.Tools)), ToolsTarget, CategoryTools, layout, false)
	if err != nil {
		return nil, err
	}
	m.Entries = append(m.Entries, tools...)

	return m, nil
}

// scanFile resolves a single-file entry.
func scanFile(src, target string, cat Category, required bool) ([]Entry, error) {
	info, err := os.Stat(src)
	if errors.Is(err, fs.ErrNotExist) {
		if required {
			return nil, fmt.Errorf("%w: %s file not found at %s", ErrMissingSource, cat, src)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s source %s: %w", cat, src, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s source %s is not a regular file", cat, src)
	}
	if err := checkReadable(src); err != nil {
		return nil, fmt.Errorf("reading %s source %s: %w", cat, src, err)
	}
	return []Entry{{Category: cat, Source: src, Target: target}}, nil
}

// scanFlat collects the regular files directly inside dir. Sub-directories
// are ignored.
func scanFlat(dir, targetDir string, cat Category, layout *Layout, required bool) ([]Entry, error) {
	entries, err := readDir(dir, cat, required)
	if err != nil || entries == nil {
		return nil, err
	}

	var out []Entry
	for _, e := range entries {
		if layout.Excluded(e.Name()) {
			continue
		}
		src := filepath.Join(dir, e.Name())
		// Stat rather than the DirEntry type so symlinked sources count.
		info, err := os.Stat(src)
		if err != nil {
			return nil, fmt.Errorf("reading %s source %s: %w", cat, src, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		if err := checkReadable(src); err != nil {
			return nil, fmt.Errorf("reading %s source %s: %w", cat, src, err)
		}
		out = append(out, Entry{
			Category: cat,
			Source:   src,
			Target:   path.Join(targetDir, e.Name()),
		})
	}
	return out, nil
}

// scanSkills collects every regular file inside each named skill
// sub-directory, keeping paths relative to the skills directory.
func scanSkills(dir string, layout *Layout) ([]Entry, error) {
	entries, err := readDir(dir, CategorySkills, false)
	if err != nil || entries == nil {
		return nil, err
	}

	var out []Entry
	for _, e := range entries {
		if layout.Excluded(e.Name()) {
			continue
		}
		skillDir := filepath.Join(dir, e.Name())
		info, err := os.Stat(skillDir)
		if err != nil {
			return nil, fmt.Errorf("reading skills source %s: %w", skillDir, err)
		}
		if !info.IsDir() {
			continue
		}

		err = filepath.WalkDir(skillDir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if p != skillDir && layout.Excluded(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			info, err := os.Stat(p)
			if err != nil {
				return err
			}
			if !info.Mode().IsRegular() {
				return nil
			}
			if err := checkReadable(p); err != nil {
				return err
			}
			rel, err := filepath.Rel(dir, p)
			if err != nil {
				return err
			}
			out = append(out, Entry{
				Category: CategorySkills,
				Source:   p,
				Target:   path.Join(SkillsTarget, filepath.ToSlash(rel)),
			})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("reading skills source %s: %w", skillDir, err)
		}
	}
	return out, nil
}

// readDir lists dir. A missing optional directory yields (nil, nil).
func readDir(dir string, cat Category, required bool) ([]os.DirEntry, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		if required {
			return nil, fmt.Errorf("%w: %s directory not found at %s", ErrMissingSource, cat, dir)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s source %s: %w", cat, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s source %s is not a directory", cat, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s source %s: %w", cat, dir, err)
	}
	if entries == nil {
		entries = []os.DirEntry{}
	}
	return entries, nil
}

// checkReadable opens path to surface permission errors before any target
// is touched.
func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}
