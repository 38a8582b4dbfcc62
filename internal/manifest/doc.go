// Package manifest builds the source manifest: the list of source files to
// materialize and the target path each one lands on. The layout of the source
// checkout defaults to the conventional agents/skills/tools structure and can
// be overridden by a sync.yaml file in the source root, which is validated
// against an embedded JSON Schema and may pin a minimum CLI version.
package manifest
