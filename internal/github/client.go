// Package github wraps the GitHub API operations the backport checks consume.
package github

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// Client implements Repository against the GitHub API for a single repository
type Client struct {
	client *github.Client
	org    string
	repo   string
}

// NewClient creates a new GitHub client with token authentication, scoped to
// org/repo
func NewClient(ctx context.Context, token, org, repo string) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		client: github.NewClient(tc),
		org:    org,
		repo:   repo,
	}
}

// paginatedList collects all pages of a list call
func paginatedList[T any](fetch func(page int) ([]T, *github.Response, error)) ([]T, error) {
	var all []T
	page := 0

	for {
		items, resp, err := fetch(page)
		if err != nil {
			return nil, err
		}

		all = append(all, items...)

		if resp.NextPage == 0 {
			break
		}
		page = resp.NextPage
	}

	return all, nil
}

// DefaultBranch returns the name of the repository's default branch
func (c *Client) DefaultBranch(ctx context.Context) (string, error) {
	slog.Debug("GitHub API: Getting repository", "org", c.org, "repo", c.repo)
	repo, _, err := c.client.Repositories.Get(ctx, c.org, c.repo)
	if err != nil {
		return "", fmt.Errorf("failed to get repository: %w", err)
	}

	return repo.GetDefaultBranch(), nil
}

// ListLabels fetches all labels from the repository
func (c *Client) ListLabels(ctx context.Context) ([]Label, error) {
	labels, err := paginatedList(func(page int) ([]*github.Label, *github.Response, error) {
		opts := &github.ListOptions{
			PerPage: 100,
			Page:    page,
		}
		slog.Debug("GitHub API: Listing labels", "org", c.org, "repo", c.repo, "page", page)
		return c.client.Issues.ListLabels(ctx, c.org, c.repo, opts)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}

	var all []Label
	for _, label := range labels {
		all = append(all, Label{
			Name:        label.GetName(),
			Description: label.GetDescription(),
		})
	}

	return all, nil
}

// GetLabel fetches a single label by exact name
func (c *Client) GetLabel(ctx context.Context, name string) (Label, error) {
	slog.Debug("GitHub API: Getting label", "org", c.org, "repo", c.repo, "label", name)
	label, _, err := c.client.Issues.GetLabel(ctx, c.org, c.repo, name)
	if err != nil {
		return Label{}, fmt.Errorf("failed to get label %s: %w", name, err)
	}

	return Label{
		Name:        label.GetName(),
		Description: label.GetDescription(),
	}, nil
}

// ListOpenMilestones fetches all open milestones from the repository
func (c *Client) ListOpenMilestones(ctx context.Context) ([]Milestone, error) {
	milestones, err := paginatedList(func(page int) ([]*github.Milestone, *github.Response, error) {
		opts := &github.MilestoneListOptions{
			State: "open",
			ListOptions: github.ListOptions{
				PerPage: 100,
				Page:    page,
			},
		}
		slog.Debug("GitHub API: Listing open milestones", "org", c.org, "repo", c.repo, "page", page)
		return c.client.Issues.ListMilestones(ctx, c.org, c.repo, opts)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}

	var all []Milestone
	for _, milestone := range milestones {
		all = append(all, Milestone{
			Number: milestone.GetNumber(),
			Title:  milestone.GetTitle(),
		})
	}

	return all, nil
}

// GetBranch fetches a branch by exact name
func (c *Client) GetBranch(ctx context.Context, name string) (Branch, error) {
	slog.Debug("GitHub API: Getting branch", "org", c.org, "repo", c.repo, "branch", name)
	branch, _, err := c.client.Repositories.GetBranch(ctx, c.org, c.repo, name, 0)
	if err != nil {
		return Branch{}, fmt.Errorf("failed to get branch %s: %w", name, err)
	}

	return Branch{Name: branch.GetName()}, nil
}

// GetIssue fetches the issue for a pull request number
func (c *Client) GetIssue(ctx context.Context, number int) (Issue, error) {
	slog.Debug("GitHub API: Getting issue", "org", c.org, "repo", c.repo, "issue", number)
	issue, _, err := c.client.Issues.Get(ctx, c.org, c.repo, number)
	if err != nil {
		return Issue{}, fmt.Errorf("failed to get issue #%d: %w", number, err)
	}

	result := Issue{Number: issue.GetNumber()}
	if issue.Milestone != nil {
		result.Milestone = &Milestone{
			Number: issue.Milestone.GetNumber(),
			Title:  issue.Milestone.GetTitle(),
		}
	}

	return result, nil
}

// SetMilestone writes a milestone onto an issue
func (c *Client) SetMilestone(ctx context.Context, issueNumber, milestoneNumber int) error {
	slog.Debug("GitHub API: Setting milestone", "org", c.org, "repo", c.repo, "issue", issueNumber, "milestone", milestoneNumber)
	_, _, err := c.client.Issues.Edit(ctx, c.org, c.repo, issueNumber, &github.IssueRequest{
		Milestone: github.Int(milestoneNumber),
	})
	if err != nil {
		return fmt.Errorf("failed to set milestone on issue #%d: %w", issueNumber, err)
	}

	return nil
}
