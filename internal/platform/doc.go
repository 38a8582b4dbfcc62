// Package platform provides the filesystem primitives the synchronizer is
// built on: symlink creation and inspection, path removal that refuses to
// recurse, atomic file copies, tree copies for backups, and permission
// management. On Windows, Chmod is a no-op and symlink creation reports a
// hint to fall back to copy mode.
package platform
