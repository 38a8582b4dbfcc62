// Package backup snapshots the parts of a target directory a sync is about
// to overwrite. A snapshot is a sibling directory named
// <target>.backup.<timestamp>; it is written once and never touched again.
package backup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/agentx-labs/sync-config/internal/platform"
)

// TimestampFormat is the layout of the snapshot directory suffix.
const TimestampFormat = "20060102-150405"

// dirPerm keeps snapshots private; the config file may hold credentials.
const dirPerm os.FileMode = 0700

// Snapshot describes a created backup.
type Snapshot struct {
	Dir string
	// Items are the target roots that were copied, relative to the target.
	Items []string
}

// DirName returns the snapshot directory for targetDir at now.
func DirName(targetDir string, now time.Time) string {
	return filepath.Clean(targetDir) + ".backup." + now.Format(TimestampFormat)
}

// Existing returns the roots that exist under targetDir. Symlinks count,
// even dangling ones.
func Existing(targetDir string, roots []string) ([]string, error) {
	var found []string
	for _, root := range roots {
		_, err := os.Lstat(filepath.Join(targetDir, root))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("checking %s: %w", filepath.Join(targetDir, root), err)
		}
		found = append(found, root)
	}
	return found, nil
}

// Create copies every existing root of targetDir into a new snapshot
// directory. It returns (nil, nil) when none of the roots exist. On any
// error the partial snapshot is removed and the error returned; callers
// must not modify the target in that case.
func Create(targetDir string, roots []string, now time.Time) (*Snapshot, error) {
	items, err := Existing(targetDir, roots)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	dir, err := claimDir(DirName(targetDir, now))
	if err != nil {
		return nil, fmt.Errorf("creating backup directory: %w", err)
	}

	for _, item := range items {
		src := filepath.Join(targetDir, item)
		dst := filepath.Join(dir, item)
		if err := platform.CopyTree(src, dst, nil); err != nil {
			os.RemoveAll(dir)
			return nil, fmt.Errorf("backing up %s: %w", src, err)
		}
	}

	return &Snapshot{Dir: dir, Items: items}, nil
}

// claimDir creates base, or base-2, base-3, ... when an earlier snapshot in
// the same second already holds the name.
func claimDir(base string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(base), 0755); err != nil {
		return "", err
	}
	candidate := base
	for i := 2; ; i++ {
		err := os.Mkdir(candidate, dirPerm)
		if err == nil {
			if err := platform.Chmod(candidate, dirPerm); err != nil {
				os.Remove(candidate)
				return "", err
			}
			return candidate, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", err
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
