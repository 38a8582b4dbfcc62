package manifest

import (
	"strings"
	"testing"
)

func TestLoadLayoutDefaults(t *testing.T) {
	root := t.TempDir()

	layout, err := LoadLayout(root, "1.0.0")
	if err != nil {
		t.Fatalf("LoadLayout: %v", err)
	}
	if layout.Rules != "docs/AGENTS.md" {
		t.Errorf("Rules = %q, want docs/AGENTS.md", layout.Rules)
	}
	if layout.RulesTarget != "AGENTS.md" {
		t.Errorf("RulesTarget = %q, want AGENTS.md", layout.RulesTarget)
	}
	if !layout.Excluded(".DS_Store") {
		t.Error(".DS_Store should be excluded by default")
	}
}

func TestLoadLayoutOverrides(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, LayoutFile, `
config: config/settings.json
rules: rules/global.md
agents: prompts/agents
exclude: [README.md]
`)

	layout, err := LoadLayout(root, "1.0.0")
	if err != nil {
		t.Fatalf("LoadLayout: %v", err)
	}
	if layout.Rules != "rules/global.md" {
		t.Errorf("Rules = %q", layout.Rules)
	}
	if layout.Agents != "prompts/agents" {
		t.Errorf("Agents = %q", layout.Agents)
	}
	if layout.Skills != "skills" {
		t.Errorf("Skills should keep its default, got %q", layout.Skills)
	}
	if layout.ConfigTarget() != "settings.json" {
		t.Errorf("ConfigTarget() = %q, want settings.json", layout.ConfigTarget())
	}
	if !layout.Excluded("README.md") || layout.Excluded(".DS_Store") {
		t.Errorf("exclude list should be replaced, got %v", layout.Exclude)
	}
}

func TestLoadLayoutEmptyFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, LayoutFile, "")

	layout, err := LoadLayout(root, "1.0.0")
	if err != nil {
		t.Fatalf("LoadLayout: %v", err)
	}
	if layout.Agents != "agents" {
		t.Errorf("Agents = %q, want default", layout.Agents)
	}
}

func TestLoadLayoutInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "agentz: agents\n", "agentz"},
		{"absolute path", "rules: /etc/AGENTS.md\n", "/rules"},
		{"rules target with slash", "rules_target: sub/AGENTS.md\n", "/rules_target"},
		{"wrong type", "exclude: README.md\n", "/exclude"},
		{"rules target is parent", "rules_target: \"..\"\n", "/rules_target"},
		{"rules target is current dir", "rules_target: \".\"\n", "/rules_target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, root, LayoutFile, tt.content)

			_, err := LoadLayout(root, "1.0.0")
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadLayoutRejectsEscape(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, LayoutFile, "agents: ../elsewhere\n")

	if _, err := LoadLayout(root, "1.0.0"); err == nil {
		t.Fatal("expected error for path escaping the source root")
	}
}

func TestLoadLayoutRejectsTargetsOutsideTarget(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"config resolving to parent", "config: x/..\n"},
		{"config resolving to current dir", "config: x/.\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, root, LayoutFile, tt.content)

			layout, err := LoadLayout(root, "1.0.0")
			if err == nil {
				t.Fatalf("expected error, got target roots %v", layout.TargetRoots())
			}
			if !strings.Contains(err.Error(), "target name") {
				t.Errorf("error %q should name the bad target", err)
			}
		})
	}
}

func TestCheckTargetName(t *testing.T) {
	for _, name := range []string{"", ".", "..", "/", "a/b", `a\b`} {
		if err := checkTargetName(name); err == nil {
			t.Errorf("checkTargetName(%q) should fail", name)
		}
	}
	for _, name := range []string{"AGENTS.md", "opencode.json", ".rules"} {
		if err := checkTargetName(name); err != nil {
			t.Errorf("checkTargetName(%q) = %v", name, err)
		}
	}
}

func TestLoadLayoutRequires(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, LayoutFile, "requires: \">= 2.0.0\"\n")

	if _, err := LoadLayout(root, "1.4.0"); err == nil {
		t.Error("expected error when CLI version is too old")
	}
	if _, err := LoadLayout(root, "v2.1.0"); err != nil {
		t.Errorf("v2.1.0 should satisfy >= 2.0.0: %v", err)
	}
	if _, err := LoadLayout(root, "dev"); err != nil {
		t.Errorf("dev builds skip the version check: %v", err)
	}
}

func TestCheckRequires(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		version    string
		wantErr    bool
	}{
		{"no constraint", "", "0.1.0", false},
		{"satisfied", ">= 0.2.0", "0.3.1", false},
		{"caret satisfied", "^1.2", "1.9.0", false},
		{"too old", ">= 0.2.0", "0.1.9", true},
		{"too new", "< 1.0.0", "1.0.0", true},
		{"v prefix", ">= 1.0.0", "v1.0.0", false},
		{"dev build", ">= 9.0.0", "dev", false},
		{"bad constraint", "not a constraint", "1.0.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRequires(tt.constraint, tt.version)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckRequires(%q, %q) error = %v, wantErr %v", tt.constraint, tt.version, err, tt.wantErr)
			}
		})
	}
}
