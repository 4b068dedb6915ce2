package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearPolicyEnv unsets all policy environment variables so tests see only
// what they set themselves
func clearPolicyEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvCheckBackportLabels, EnvSetMilestone, EnvNoBackport, EnvTagPrefix, EnvLabelPrefix} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearPolicyEnv(t)

	settings, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, CheckOff, settings.CheckBackportLabels)
	assert.Equal(t, MilestoneOff, settings.SetMilestone)
	assert.Equal(t, "no-backport", settings.NoBackport)
	assert.Equal(t, "", settings.TagPrefix)
	assert.Equal(t, "backport-", settings.LabelPrefix)

	assert.False(t, settings.RunCheck())
	assert.False(t, settings.RunMilestone())
	assert.False(t, settings.Overwrite())
}

func TestLoadFromEnv(t *testing.T) {
	clearPolicyEnv(t)
	t.Setenv(EnvCheckBackportLabels, "true")
	t.Setenv(EnvSetMilestone, "overwrite")
	t.Setenv(EnvNoBackport, "skip-backport")
	t.Setenv(EnvTagPrefix, "v")
	t.Setenv(EnvLabelPrefix, "port-")

	settings, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, CheckOn, settings.CheckBackportLabels)
	assert.Equal(t, MilestoneOverwrite, settings.SetMilestone)
	assert.Equal(t, "skip-backport", settings.NoBackport)
	assert.Equal(t, "v", settings.TagPrefix)
	assert.Equal(t, "port-", settings.LabelPrefix)

	assert.True(t, settings.RunCheck())
	assert.True(t, settings.RunMilestone())
	assert.True(t, settings.Overwrite())
}

func TestLoadLowercasesValues(t *testing.T) {
	clearPolicyEnv(t)
	t.Setenv(EnvCheckBackportLabels, "TRUE")
	t.Setenv(EnvSetMilestone, "Overwrite")
	t.Setenv(EnvNoBackport, "No-Backport")

	settings, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, CheckOn, settings.CheckBackportLabels)
	assert.Equal(t, MilestoneOverwrite, settings.SetMilestone)
	assert.Equal(t, "no-backport", settings.NoBackport)
}

func TestLoadInvalidEnumValues(t *testing.T) {
	tests := []struct {
		name      string
		env       string
		value     string
		wantInErr string
	}{
		{
			name:      "bad check value",
			env:       EnvCheckBackportLabels,
			value:     "yes",
			wantInErr: "invalid value for CHECK_BACKPORT_LABELS: yes",
		},
		{
			name:      "bad milestone value",
			env:       EnvSetMilestone,
			value:     "always",
			wantInErr: "invalid value for SET_MILESTONE: always",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearPolicyEnv(t)
			t.Setenv(tt.env, tt.value)

			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantInErr)
		})
	}
}

func TestLoadPolicyFile(t *testing.T) {
	clearPolicyEnv(t)

	policyFile := filepath.Join(t.TempDir(), "policy.yaml")
	content := `check_backport_labels: "true"
set_milestone: "true"
no_backport: exempt
tag_prefix: v
label_prefix: port-
`
	require.NoError(t, os.WriteFile(policyFile, []byte(content), 0600))

	settings, err := Load(policyFile)
	require.NoError(t, err)

	assert.Equal(t, CheckOn, settings.CheckBackportLabels)
	assert.Equal(t, MilestoneSet, settings.SetMilestone)
	assert.Equal(t, "exempt", settings.NoBackport)
	assert.Equal(t, "v", settings.TagPrefix)
	assert.Equal(t, "port-", settings.LabelPrefix)
}

func TestLoadEnvOverridesPolicyFile(t *testing.T) {
	clearPolicyEnv(t)
	t.Setenv(EnvSetMilestone, "overwrite")
	t.Setenv(EnvTagPrefix, "")

	policyFile := filepath.Join(t.TempDir(), "policy.yaml")
	content := `set_milestone: "true"
tag_prefix: v
`
	require.NoError(t, os.WriteFile(policyFile, []byte(content), 0600))

	settings, err := Load(policyFile)
	require.NoError(t, err)

	// Env wins, including an explicitly empty TAG_PREFIX
	assert.Equal(t, MilestoneOverwrite, settings.SetMilestone)
	assert.Equal(t, "", settings.TagPrefix)
}

func TestLoadPolicyFileErrors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		missing   bool
		wantInErr string
	}{
		{
			name:      "file not found",
			missing:   true,
			wantInErr: "failed to read policy file",
		},
		{
			name:      "invalid yaml",
			content:   "set_milestone: [broken",
			wantInErr: "failed to parse policy file",
		},
		{
			name:      "invalid enum in file",
			content:   `set_milestone: "sometimes"`,
			wantInErr: "invalid value for SET_MILESTONE: sometimes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearPolicyEnv(t)

			policyFile := filepath.Join(t.TempDir(), "policy.yaml")
			if !tt.missing {
				require.NoError(t, os.WriteFile(policyFile, []byte(tt.content), 0600))
			}

			_, err := Load(policyFile)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantInErr)
		})
	}
}

func TestWithCheck(t *testing.T) {
	settings := &Settings{CheckBackportLabels: CheckOff, SetMilestone: MilestoneOff}

	forced := settings.WithCheck()

	assert.True(t, forced.RunCheck())
	assert.False(t, settings.RunCheck(), "original settings must not change")
}

func TestWithMilestone(t *testing.T) {
	tests := []struct {
		name string
		mode MilestoneSetting
		want MilestoneSetting
	}{
		{name: "off becomes set", mode: MilestoneOff, want: MilestoneSet},
		{name: "set stays set", mode: MilestoneSet, want: MilestoneSet},
		{name: "overwrite is preserved", mode: MilestoneOverwrite, want: MilestoneOverwrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := &Settings{SetMilestone: tt.mode}

			forced := settings.WithMilestone()

			assert.Equal(t, tt.want, forced.SetMilestone)
			assert.True(t, forced.RunMilestone())
			assert.Equal(t, tt.mode, settings.SetMilestone, "original settings must not change")
		})
	}
}
