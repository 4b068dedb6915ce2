// Package labels resolves backport labels into their target branches and
// release milestones.
package labels

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/alan/backport-check/internal/config"
	"github.com/alan/backport-check/internal/github"
)

// majorMinor matches the numeric core of branch and milestone names
const majorMinor = `([0-9]+)\.([0-9]+)`

// BackportLabel ties a backport label to its target branch and the release
// milestone a PR carrying it belongs to. Milestone is nil when milestone
// resolution is disabled.
type BackportLabel struct {
	Label     github.Label
	Branch    github.Branch
	Milestone *github.Milestone

	version *semver.Version
}

// Version returns the release version parsed from the milestone title, or nil
// when no milestone is resolved
func (b BackportLabel) Version() *semver.Version {
	return b.version
}

// Resolver derives backport bindings from repository labels
type Resolver struct {
	repo     github.Repository
	settings *config.Settings

	branchPattern    *regexp.Regexp
	milestonePattern *regexp.Regexp
}

// NewResolver creates a resolver for the repository using the configured
// label and tag prefixes
func NewResolver(repo github.Repository, settings *config.Settings) *Resolver {
	tagPrefix := regexp.QuoteMeta(settings.TagPrefix)

	return &Resolver{
		repo:             repo,
		settings:         settings,
		branchPattern:    regexp.MustCompile("^" + tagPrefix + majorMinor + `\.x$`),
		milestonePattern: regexp.MustCompile("^" + tagPrefix + majorMinor + `(\.[0-9]+)?$`),
	}
}

// branchName extracts the backport target branch from a label name of the
// form <prefix>-<branch>
func (r *Resolver) branchName(label github.Label) (string, error) {
	_, name, ok := strings.Cut(label.Name, "-")
	if !ok || !r.branchPattern.MatchString(name) {
		return "", fmt.Errorf("label name: %s does not match expected format", label.Name)
	}

	return name, nil
}

// checkDescription guards against hand-edited label metadata
func checkDescription(label github.Label, branch string) error {
	if label.Description != fmt.Sprintf("on-merge: backport to %s", branch) {
		return fmt.Errorf("label %s has incorrect description", label.Name)
	}

	return nil
}

// branchMilestone picks the greatest open milestone whose title is
// version-shaped and contains titlePrefix. Returns nil without error when
// milestone resolution is disabled.
func (r *Resolver) branchMilestone(ctx context.Context, titlePrefix string) (*github.Milestone, *semver.Version, error) {
	if !r.settings.RunMilestone() {
		return nil, nil, nil
	}

	milestones, err := r.repo.ListOpenMilestones(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list milestones: %w", err)
	}

	var (
		best        *github.Milestone
		bestVersion *semver.Version
	)
	for _, milestone := range milestones {
		if !r.milestonePattern.MatchString(milestone.Title) || !strings.Contains(milestone.Title, titlePrefix) {
			continue
		}

		version, err := semver.NewVersion(strings.TrimPrefix(milestone.Title, r.settings.TagPrefix))
		if err != nil {
			continue
		}

		if bestVersion == nil || version.GreaterThan(bestVersion) {
			best = &github.Milestone{Number: milestone.Number, Title: milestone.Title}
			bestVersion = version
		}
	}

	if best == nil {
		return nil, nil, fmt.Errorf("no milestones found matching: %s", titlePrefix)
	}

	return best, bestVersion, nil
}

// Backport resolves a backport-prefixed repository label into its binding
func (r *Resolver) Backport(ctx context.Context, label github.Label) (BackportLabel, error) {
	name, err := r.branchName(label)
	if err != nil {
		return BackportLabel{}, err
	}

	if err := checkDescription(label, name); err != nil {
		return BackportLabel{}, err
	}

	branch, err := r.repo.GetBranch(ctx, name)
	if err != nil {
		return BackportLabel{}, err
	}

	// A branch "1.3.x" maps to milestones titled "1.3" or "1.3.<patch>"
	titlePrefix, _, _ := strings.Cut(branch.Name, ".x")
	milestone, version, err := r.branchMilestone(ctx, titlePrefix)
	if err != nil {
		return BackportLabel{}, err
	}

	return BackportLabel{Label: label, Branch: branch, Milestone: milestone, version: version}, nil
}

// NoBackport resolves the exemption label: bound to the default branch and
// the next upcoming release (any version-shaped open milestone)
func (r *Resolver) NoBackport(ctx context.Context) (BackportLabel, error) {
	label, err := r.repo.GetLabel(ctx, r.settings.NoBackport)
	if err != nil {
		return BackportLabel{}, err
	}

	defaultBranch, err := r.repo.DefaultBranch(ctx)
	if err != nil {
		return BackportLabel{}, err
	}

	branch, err := r.repo.GetBranch(ctx, defaultBranch)
	if err != nil {
		return BackportLabel{}, err
	}

	milestone, version, err := r.branchMilestone(ctx, "")
	if err != nil {
		return BackportLabel{}, err
	}

	return BackportLabel{Label: label, Branch: branch, Milestone: milestone, version: version}, nil
}

// Table resolves every backport-prefixed label on the repository plus the
// no-backport binding, keyed by label name
func (r *Resolver) Table(ctx context.Context) (map[string]BackportLabel, error) {
	repoLabels, err := r.repo.ListLabels(ctx)
	if err != nil {
		return nil, err
	}

	table := make(map[string]BackportLabel)
	for _, label := range repoLabels {
		if !strings.HasPrefix(label.Name, r.settings.LabelPrefix) {
			continue
		}

		bound, err := r.Backport(ctx, label)
		if err != nil {
			return nil, err
		}
		table[label.Name] = bound
	}

	noBackport, err := r.NoBackport(ctx)
	if err != nil {
		return nil, err
	}
	table[noBackport.Label.Name] = noBackport

	return table, nil
}
