// Package config resolves sync-config settings from flags, SYNC_CONFIG_*
// environment variables, ~/.sync-config/config.yaml, and built-in defaults,
// in that order of precedence.
package config
