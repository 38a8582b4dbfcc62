package platform

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// CopyFile copies the regular file src to dst, preserving its permission
// bits. The bytes are written to a temporary sibling and renamed into place,
// so a symlink already sitting at dst is replaced rather than written through.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := Chmod(tmpName, info.Mode()); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// SameContent reports whether dst is a regular file (not a symlink) holding
// exactly the bytes of src. A missing dst is not an error.
func SameContent(src, dst string) (bool, error) {
	info, err := os.Lstat(dst)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !info.Mode().IsRegular() {
		return false, nil
	}

	want, err := os.ReadFile(src)
	if err != nil {
		return false, err
	}
	if int64(len(want)) != info.Size() {
		return false, nil
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		return false, err
	}
	return bytes.Equal(want, got), nil
}

// CopyTree recursively copies src to dst. Symlinks are recreated as symlinks
// with the same raw target, so a snapshot records what the tree looked like
// rather than what its links pointed at. Entries for which skip returns true
// are not copied.
func CopyTree(src, dst string, skip func(name string) bool) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		dest, err := os.Readlink(src)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
		return os.Symlink(dest, dst)
	case info.Mode().IsRegular():
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
		return CopyFile(src, dst)
	case !info.IsDir():
		// Sockets, devices and pipes have no place in a config tree.
		return nil
	}

	if err := os.MkdirAll(dst, info.Mode().Perm()); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if skip != nil && skip(entry.Name()) {
			continue
		}
		if err := CopyTree(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name()), skip); err != nil {
			return err
		}
	}
	return nil
}
