//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir   string // HOME, so ~/.sync-config never leaks in
	SourceDir string // the checkout being synced
	TargetDir string // the configuration directory being written
}

// setupTestEnv creates isolated temp directories and points HOME at one of
// them. The env vars are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	home := t.TempDir()
	env := &testEnv{
		HomeDir:   home,
		SourceDir: filepath.Join(home, "checkout"),
		TargetDir: filepath.Join(home, ".config", "opencode"),
	}
	t.Setenv("HOME", home)
	return env
}

// setupSource creates a checkout with every category, nested skill files,
// and names that must be excluded.
func setupSource(t *testing.T, sourceDir string) {
	t.Helper()

	writeFile(t, filepath.Join(sourceDir, "opencode.json"), `{"$schema":"https://opencode.ai/config.json"}`+"\n")
	writeFile(t, filepath.Join(sourceDir, "docs", "AGENTS.md"), "# House rules\n")

	writeFile(t, filepath.Join(sourceDir, "agents", "reviewer.md"), "---\ndescription: Reviews code\n---\n")
	writeFile(t, filepath.Join(sourceDir, "agents", "planner.md"), "---\ndescription: Plans work\n---\n")
	writeFile(t, filepath.Join(sourceDir, "agents", ".DS_Store"), "junk")
	writeFile(t, filepath.Join(sourceDir, "agents", ".gitkeep"), "")

	writeFile(t, filepath.Join(sourceDir, "skills", "commit", "SKILL.md"), "# Commit skill\n")
	writeFile(t, filepath.Join(sourceDir, "skills", "commit", "scripts", "lint.sh"), "#!/bin/sh\nexit 0\n")
	writeFile(t, filepath.Join(sourceDir, "skills", "commit", "node_modules", "dep", "index.js"), "")
	writeFile(t, filepath.Join(sourceDir, "skills", "README.md"), "not part of any skill")

	writeFile(t, filepath.Join(sourceDir, "tools", "count.ts"), "export default {}\n")
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the path exists, even as a dangling symlink.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertSymlinkTo fails unless path is a symlink resolving to want.
func assertSymlinkTo(t *testing.T, path, want string) {
	t.Helper()
	info, err := os.Lstat(path)
	if err != nil {
		t.Errorf("expected symlink at %s: %v", path, err)
		return
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Errorf("expected %s to be a symlink, got mode %v", path, info.Mode())
		return
	}
	got, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Errorf("resolving %s: %v", path, err)
		return
	}
	wantResolved, _ := filepath.EvalSymlinks(want)
	if got != wantResolved {
		t.Errorf("%s resolves to %s, want %s", path, got, wantResolved)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
