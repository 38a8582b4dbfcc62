package branding

import "testing"

func TestEmbeddedValues(t *testing.T) {
	if got := CLIName(); got != "sync-config" {
		t.Errorf("CLIName() = %q, want %q", got, "sync-config")
	}
	if got := RulesTarget(); got != "AGENTS.md" {
		t.Errorf("RulesTarget() = %q, want %q", got, "AGENTS.md")
	}
	if got := TargetDir(); got == "" {
		t.Error("TargetDir() should not be empty")
	}
}

func TestEnvVar(t *testing.T) {
	tests := []struct {
		suffix string
		want   string
	}{
		{"target", "SYNC_CONFIG_TARGET"},
		{"COLOR", "SYNC_CONFIG_COLOR"},
		{"log_level", "SYNC_CONFIG_LOG_LEVEL"},
	}

	for _, tt := range tests {
		if got := EnvVar(tt.suffix); got != tt.want {
			t.Errorf("EnvVar(%q) = %q, want %q", tt.suffix, got, tt.want)
		}
	}
}
