package syncer

import (
	"fmt"
	"os"

	"github.com/aymanbagabas/go-udiff"
)

// Diff returns a unified diff from the target copy to the source for a
// stale regular file. Other states have nothing to show and yield "".
func Diff(e EntryStatus) (string, error) {
	if e.State != StateStale {
		return "", nil
	}
	info, err := os.Lstat(e.Action.Target)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", nil
	}

	current, err := os.ReadFile(e.Action.Target)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", e.Action.Target, err)
	}
	want, err := os.ReadFile(e.Action.Source)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", e.Action.Source, err)
	}
	return udiff.Unified(e.Action.Target, e.Action.Source, string(current), string(want)), nil
}
