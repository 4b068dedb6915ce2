// Package cmd defines the shared pull-request context and the policy checks
// run against it.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/alan/backport-check/internal/config"
	"github.com/alan/backport-check/internal/event"
	"github.com/alan/backport-check/internal/github"
	"github.com/alan/backport-check/internal/labels"
	"github.com/sethvargo/go-githubactions"
)

// PullRequest holds everything the policy checks need for one run: the
// resolved binding table for the whole repository, the subset of binding
// names present on the PR, and the PR's tracking issue.
type PullRequest struct {
	Backport map[string]labels.BackportLabel
	Labels   []string
	Issue    github.Issue
}

// BuildPullRequest resolves the repository's backport bindings and filters
// the PR's own labels down to known binding names
func BuildPullRequest(ctx context.Context, repo github.Repository, settings *config.Settings, ev *event.PullRequest) (*PullRequest, error) {
	resolver := labels.NewResolver(repo, settings)

	table, err := resolver.Table(ctx)
	if err != nil {
		return nil, err
	}

	present := make([]string, 0, len(ev.Labels))
	for _, name := range ev.Labels {
		if _, ok := table[name]; ok {
			present = append(present, name)
		}
	}

	issue, err := repo.GetIssue(ctx, ev.Number)
	if err != nil {
		return nil, err
	}

	return &PullRequest{
		Backport: table,
		Labels:   present,
		Issue:    issue,
	}, nil
}

// Check validates that the PR carries exactly one backport disposition:
// one or more backport labels, or the no-backport label alone. No-op when
// the check is disabled.
func (pr *PullRequest) Check(settings *config.Settings, action *githubactions.Action) error {
	if !settings.RunCheck() {
		return nil
	}

	action.Infof("Checking backport labels...")
	action.Infof("    Available backport labels: %v", slices.Sorted(maps.Keys(pr.Backport)))
	action.Infof("    Found backport labels: %v", pr.Labels)

	if len(pr.Labels) == 0 {
		return errors.New("PR requires backport labeling")
	}

	if slices.Contains(pr.Labels, settings.NoBackport) && len(pr.Labels) > 1 {
		return fmt.Errorf("PR has both a %s and backport labels", settings.NoBackport)
	}

	return nil
}

// SetMilestone assigns the calculated milestone to the PR's tracking issue.
// No-op when milestone assignment is disabled. An already-set milestone that
// differs from the calculated one is an error unless overwrite is enabled.
func (pr *PullRequest) SetMilestone(ctx context.Context, repo github.Repository, settings *config.Settings, action *githubactions.Action) error {
	if !settings.RunMilestone() {
		return nil
	}

	action.Infof("Checking milestone...")

	target, err := pr.calculateMilestone(settings)
	if err != nil {
		return err
	}

	current := pr.Issue.Milestone
	if current != nil {
		action.Infof("    Current milestone: %s", current.Title)
	} else {
		action.Infof("    Current milestone: none")
	}
	action.Infof("    Calculated milestone: %s", target.Title)

	if current != nil && current.Number != target.Number && !settings.Overwrite() {
		return fmt.Errorf("PR already has milestone: %s", current.Title)
	}

	action.Infof("    Setting milestone to: %s", target.Title)

	return repo.SetMilestone(ctx, pr.Issue.Number, target.Number)
}

// calculateMilestone picks the nearest upcoming release: the no-backport
// binding's milestone when that label is present, otherwise the lowest
// version across the PR's backport labels. Backporting to the earliest
// branch implies the change lands in every later milestone too.
func (pr *PullRequest) calculateMilestone(settings *config.Settings) (*github.Milestone, error) {
	if slices.Contains(pr.Labels, settings.NoBackport) {
		bound := pr.Backport[settings.NoBackport]
		if bound.Milestone == nil {
			return nil, fmt.Errorf("no milestone resolved for %s", settings.NoBackport)
		}
		return bound.Milestone, nil
	}

	var lowest *labels.BackportLabel
	for _, name := range pr.Labels {
		bound := pr.Backport[name]
		if bound.Version() == nil {
			return nil, fmt.Errorf("no milestone resolved for %s", name)
		}

		if lowest == nil || bound.Version().LessThan(lowest.Version()) {
			lowest = &bound
		}
	}

	if lowest == nil {
		return nil, errors.New("PR has no backport labels to calculate a milestone from")
	}

	return lowest.Milestone, nil
}
