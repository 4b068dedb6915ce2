package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/alan/backport-check/internal/config"
	"github.com/alan/backport-check/internal/event"
	"github.com/alan/backport-check/internal/github"
	"github.com/sethvargo/go-githubactions"
)

// Runtime carries everything a policy command needs for one run
type Runtime struct {
	Action *githubactions.Action
	Repo   github.Repository
	PR     *PullRequest
}

// AssembleFunc builds the runtime for a run; tests swap in a stub
type AssembleFunc func(ctx context.Context, settings *config.Settings) (*Runtime, error)

// Assemble reads the Actions context, builds the platform client and
// resolves the pull-request context for the triggering event
func Assemble(ctx context.Context, settings *config.Settings) (*Runtime, error) {
	action := githubactions.New()

	ghCtx, err := action.Context()
	if err != nil {
		return nil, fmt.Errorf("failed to read action context: %w", err)
	}

	ev, err := event.FromContext(ghCtx)
	if err != nil {
		return nil, err
	}

	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, errors.New("GITHUB_TOKEN is not set")
	}
	action.AddMask(token)

	repo := github.NewClient(ctx, token, ev.Org, ev.Repo)

	pr, err := BuildPullRequest(ctx, repo, settings, ev)
	if err != nil {
		return nil, err
	}

	return &Runtime{
		Action: action,
		Repo:   repo,
		PR:     pr,
	}, nil
}
