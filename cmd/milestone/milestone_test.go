package milestone

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/alan/backport-check/cmd"
	"github.com/alan/backport-check/internal/config"
	"github.com/alan/backport-check/internal/event"
	"github.com/alan/backport-check/internal/github"
	"github.com/sethvargo/go-githubactions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubAssemble(t *testing.T, repo *github.Fake, prLabels []string) cmd.AssembleFunc {
	t.Helper()
	return func(ctx context.Context, settings *config.Settings) (*cmd.Runtime, error) {
		pr, err := cmd.BuildPullRequest(ctx, repo, settings, &event.PullRequest{
			Number: 42,
			Org:    "test-org",
			Repo:   "test-repo",
			Labels: prLabels,
		})
		if err != nil {
			return nil, err
		}
		return &cmd.Runtime{
			Action: githubactions.New(githubactions.WithWriter(&bytes.Buffer{})),
			Repo:   repo,
			PR:     pr,
		}, nil
	}
}

func stubRepo(current *github.Milestone) *github.Fake {
	return &github.Fake{
		Default: "main",
		Labels: []github.Label{
			{Name: "backport-1.2.x", Description: "on-merge: backport to 1.2.x"},
			{Name: "no-backport"},
		},
		Branches: []github.Branch{
			{Name: "main"},
			{Name: "1.2.x"},
		},
		Milestones: []github.Milestone{
			{Number: 1, Title: "1.2.0"},
			{Number: 2, Title: "1.3.0"},
		},
		Issues: map[int]github.Issue{
			42: {Number: 42, Milestone: current},
		},
	}
}

func TestNewMilestoneCmd(t *testing.T) {
	configFile := ""
	cobraCmd := NewMilestoneCmd(&configFile, config.Load, cmd.Assemble)

	assert.NotNil(t, cobraCmd)
	assert.Equal(t, "milestone", cobraCmd.Use)
	assert.NotEmpty(t, cobraCmd.Short)
	assert.NotEmpty(t, cobraCmd.Long)
	assert.NotNil(t, cobraCmd.RunE)
}

func TestMilestoneRunsEvenWhenDisabledInSettings(t *testing.T) {
	// SET_MILESTONE is off, but the milestone verb forces resolution on
	settings := &config.Settings{
		SetMilestone: config.MilestoneOff,
		NoBackport:   "no-backport",
		LabelPrefix:  "backport-",
	}
	load := func(_ string) (*config.Settings, error) { return settings, nil }
	repo := stubRepo(nil)

	err := executeMilestone(context.Background(), "", load, stubAssemble(t, repo, []string{"backport-1.2.x"}))

	require.NoError(t, err)
	require.Len(t, repo.SetCalls, 1)
	assert.Equal(t, github.SetMilestoneCall{IssueNumber: 42, MilestoneNumber: 1}, repo.SetCalls[0])
}

func TestMilestonePreservesOverwriteMode(t *testing.T) {
	settings := &config.Settings{
		SetMilestone: config.MilestoneOverwrite,
		NoBackport:   "no-backport",
		LabelPrefix:  "backport-",
	}
	load := func(_ string) (*config.Settings, error) { return settings, nil }
	repo := stubRepo(&github.Milestone{Number: 2, Title: "1.3.0"})

	err := executeMilestone(context.Background(), "", load, stubAssemble(t, repo, []string{"backport-1.2.x"}))

	require.NoError(t, err)
	require.Len(t, repo.SetCalls, 1)
	assert.Equal(t, 1, repo.SetCalls[0].MilestoneNumber)
}

func TestMilestoneConflictWithoutOverwrite(t *testing.T) {
	settings := &config.Settings{
		SetMilestone: config.MilestoneSet,
		NoBackport:   "no-backport",
		LabelPrefix:  "backport-",
	}
	load := func(_ string) (*config.Settings, error) { return settings, nil }
	repo := stubRepo(&github.Milestone{Number: 2, Title: "1.3.0"})

	err := executeMilestone(context.Background(), "", load, stubAssemble(t, repo, []string{"backport-1.2.x"}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "PR already has milestone: 1.3.0")
	assert.Empty(t, repo.SetCalls)
}

func TestMilestoneSettingsLoadError(t *testing.T) {
	load := func(_ string) (*config.Settings, error) {
		return nil, errors.New("settings load error")
	}

	err := executeMilestone(context.Background(), "", load, stubAssemble(t, stubRepo(nil), nil))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load settings")
}
