// Package syncer materializes a source manifest into a target configuration
// directory. Run performs a full sync: scan, plan, optional backup, then
// apply. Apply is the executor for a computed plan; Status compares a plan
// with what is currently on disk without changing anything.
//
// Every target path is unlinked before the new entry is written, whatever
// the previous run's mode was, so switching between copy and symlink mode
// never writes through a stale link. Files in the target that are not part
// of the manifest are never touched.
package syncer
