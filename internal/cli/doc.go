// Package cli defines the Cobra command tree for sync-config. The root
// command performs the sync; each other file registers one subcommand.
// Commands resolve settings, delegate to the syncer package, and format its
// results.
package cli
