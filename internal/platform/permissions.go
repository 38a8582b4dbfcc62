package platform

import (
	"os"
	"runtime"
)

// Chmod sets permission bits on path. Windows has no Unix-style permission
// bits, so it is a no-op there.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode.Perm())
}

// PermMatches reports whether path carries exactly the permission bits of
// mode. Always true on Windows.
func PermMatches(path string, mode os.FileMode) (bool, error) {
	if runtime.GOOS == "windows" {
		return true, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.Mode().Perm() == mode.Perm(), nil
}
