package syncer

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
	"time"

	"github.com/agentx-labs/sync-config/internal/plan"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	source string
	target string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tmp := t.TempDir()
	f := &fixture{
		source: filepath.Join(tmp, "repo"),
		target: filepath.Join(tmp, "home", ".config", "opencode"),
	}
	f.write(t, "docs/AGENTS.md", "# rules")
	f.write(t, "agents/a.md", "agent a")
	f.write(t, "agents/b.md", "agent b")
	return f
}

func (f *fixture) write(t *testing.T, rel, content string) string {
	t.Helper()
	return writeAt(t, f.source, rel, content)
}

func (f *fixture) writeTarget(t *testing.T, rel, content string) string {
	t.Helper()
	return writeAt(t, f.target, rel, content)
}

func writeAt(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func (f *fixture) syncer(mode plan.Mode, backup bool) *Syncer {
	s := New(Options{
		SourceRoot: f.source,
		TargetDir:  f.target,
		Mode:       mode,
		Backup:     backup,
		Version:    "1.0.0",
	})
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s
}

// snapshotTree records every path under root with its kind and content or
// link target, for comparing whole trees.
func snapshotTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, p)
		info, err := os.Lstat(p)
		if err != nil {
			return err
		}
		switch {
		case info.Mode()&os.ModeSymlink != 0:
			dest, err := os.Readlink(p)
			if err != nil {
				return err
			}
			out[rel] = "link:" + dest
		case info.IsDir():
			out[rel] = "dir"
		default:
			data, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			out[rel] = "file:" + string(data)
		}
		return nil
	})
	require.NoError(t, err)
	return out
}

func backupDirs(t *testing.T, target string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Clean(target) + ".backup.*")
	require.NoError(t, err)
	sort.Strings(matches)
	return matches
}

func skipWithoutSymlinks(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require developer mode on windows")
	}
}
