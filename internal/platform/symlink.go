package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// CreateSymlink creates link pointing at target. The link path must not
// exist; callers remove any previous artifact with RemovePath first.
func CreateSymlink(target, link string) error {
	if err := os.Symlink(target, link); err != nil {
		if runtime.GOOS == "windows" {
			return fmt.Errorf("creating symlink %s (enable developer mode or use copy mode): %w", link, err)
		}
		return fmt.Errorf("creating symlink %s: %w", link, err)
	}
	return nil
}

// ReadSymlinkTarget returns the raw target of the symlink at path.
func ReadSymlinkTarget(path string) (string, error) {
	return os.Readlink(path)
}

// IsSymlink reports whether path itself is a symlink. A missing path is not
// an error.
func IsSymlink(path string) (bool, error) {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode()&os.ModeSymlink != 0, nil
}

// LinksTo reports whether link is a symlink resolving to target. Relative
// link targets are resolved against the link's directory.
func LinksTo(link, target string) bool {
	dest, err := os.Readlink(link)
	if err != nil {
		return false
	}
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(filepath.Dir(link), dest)
	}
	want, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	return filepath.Clean(dest) == want
}

// RemovePath removes a file, a symlink (never its target), or an empty
// directory. A missing path is not an error. Non-empty directories are left
// in place and reported, so user content is never deleted recursively.
func RemovePath(path string) error {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if info.IsDir() {
			return fmt.Errorf("%s is a non-empty directory, refusing to replace it: %w", path, err)
		}
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

// SameEntry reports whether a and b name the same directory entry once
// symlinks in their parent directories are resolved. The final path
// elements are not followed, so a link to b is not the same entry as b.
func SameEntry(a, b string) bool {
	ra, err := resolveParent(a)
	if err != nil {
		return false
	}
	rb, err := resolveParent(b)
	if err != nil {
		return false
	}
	return ra == rb
}

func resolveParent(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	dir, err := filepath.EvalSymlinks(filepath.Dir(abs))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.Base(abs)), nil
}
