package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFile creates path (and parents) under root with content.
func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

// newSourceRoot creates a minimal valid source checkout.
func newSourceRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "docs/AGENTS.md", "# rules")
	writeFile(t, root, "agents/a.md", "agent a")
	writeFile(t, root, "agents/b.md", "agent b")
	return root
}

func targets(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Target)
	}
	return out
}
