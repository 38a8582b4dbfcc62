package plan

import (
	"path/filepath"
	"testing"

	"github.com/agentx-labs/sync-config/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleManifest() *manifest.Manifest {
	return &manifest.Manifest{
		SourceRoot: "/src",
		Layout:     manifest.DefaultLayout(),
		Entries: []manifest.Entry{
			{Category: manifest.CategoryAgents, Source: "/src/agents/a.md", Target: "agents/a.md"},
			{Category: manifest.CategoryAgents, Source: "/src/agents/b.md", Target: "agents/b.md"},
			{Category: manifest.CategoryConfig, Source: "/src/opencode.json", Target: "opencode.json"},
			{Category: manifest.CategoryRules, Source: "/src/docs/RULES.md", Target: "AGENTS.md"},
			{Category: manifest.CategorySkills, Source: "/src/skills/review/SKILL.md", Target: "skills/review/SKILL.md"},
		},
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeCopy, false},
		{"copy", ModeCopy, false},
		{"COPY", ModeCopy, false},
		{"symlink", ModeSymlink, false},
		{" Symlink ", ModeSymlink, false},
		{"link", ModeCopy, true},
		{"hardlink", ModeCopy, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "copy", ModeCopy.String())
	assert.Equal(t, "symlink", ModeSymlink.String())
	assert.Equal(t, "unknown", Mode(42).String())
}

func TestComputeMapsTargets(t *testing.T) {
	target := filepath.Join("home", "u", ".config", "opencode")
	p := Compute(sampleManifest(), Options{TargetDir: target, Mode: ModeSymlink, Backup: true})

	require.Len(t, p.Actions, 5)
	assert.Equal(t, ModeSymlink, p.Mode)
	assert.True(t, p.Backup)

	rules := p.Actions[3]
	assert.Equal(t, manifest.CategoryRules, rules.Category)
	assert.Equal(t, "/src/docs/RULES.md", rules.Source)
	assert.Equal(t, filepath.Join(target, "AGENTS.md"), rules.Target)
	assert.Equal(t, "AGENTS.md", rules.Rel)

	skill := p.Actions[4]
	assert.Equal(t, filepath.Join(target, "skills", "review", "SKILL.md"), skill.Target)

	for _, a := range p.Actions {
		assert.Equal(t, ModeSymlink, a.Mode)
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	opts := Options{TargetDir: "/t", Mode: ModeCopy}
	assert.Equal(t, Compute(sampleManifest(), opts), Compute(sampleManifest(), opts))
}

func TestComputeEmptyManifest(t *testing.T) {
	p := Compute(&manifest.Manifest{}, Options{TargetDir: "/t"})
	assert.Empty(t, p.Actions)
	assert.Empty(t, p.Counts())
}

func TestCounts(t *testing.T) {
	p := Compute(sampleManifest(), Options{TargetDir: "/t"})
	counts := p.Counts()

	assert.Equal(t, 2, counts[manifest.CategoryAgents])
	assert.Equal(t, 1, counts[manifest.CategoryConfig])
	assert.Equal(t, 1, counts[manifest.CategoryRules])
	assert.Equal(t, 1, counts[manifest.CategorySkills])
	assert.Equal(t, 0, counts[manifest.CategoryTools])
}

func TestDirs(t *testing.T) {
	p := Compute(sampleManifest(), Options{TargetDir: "/t"})
	want := []string{
		filepath.Join("/t", "agents"),
		filepath.Clean("/t"),
		filepath.Join("/t", "skills", "review"),
	}
	assert.Equal(t, want, p.Dirs())
}

func TestActionString(t *testing.T) {
	a := Action{Source: "/s/a.md", Target: "/t/a.md", Mode: ModeSymlink}
	assert.Equal(t, "link /s/a.md -> /t/a.md", a.String())
	a.Mode = ModeCopy
	assert.Equal(t, "copy /s/a.md -> /t/a.md", a.String())
}
