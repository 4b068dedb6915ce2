package github

import (
	"context"
	"fmt"
)

// SetMilestoneCall records a milestone write made against the Fake
type SetMilestoneCall struct {
	IssueNumber     int
	MilestoneNumber int
}

// Fake is an in-memory Repository for tests
type Fake struct {
	Default    string
	Labels     []Label
	Milestones []Milestone
	Branches   []Branch
	Issues     map[int]Issue

	// SetCalls records every SetMilestone call in order
	SetCalls []SetMilestoneCall
	// SetErr, when non-nil, is returned by SetMilestone
	SetErr error
}

// DefaultBranch returns the configured default branch name
func (f *Fake) DefaultBranch(_ context.Context) (string, error) {
	if f.Default == "" {
		return "", fmt.Errorf("no default branch configured")
	}
	return f.Default, nil
}

// ListLabels returns all configured labels
func (f *Fake) ListLabels(_ context.Context) ([]Label, error) {
	return f.Labels, nil
}

// GetLabel returns the configured label with the given name
func (f *Fake) GetLabel(_ context.Context, name string) (Label, error) {
	for _, label := range f.Labels {
		if label.Name == name {
			return label, nil
		}
	}
	return Label{}, fmt.Errorf("failed to get label %s: not found", name)
}

// ListOpenMilestones returns all configured milestones
func (f *Fake) ListOpenMilestones(_ context.Context) ([]Milestone, error) {
	return f.Milestones, nil
}

// GetBranch returns the configured branch with the given name
func (f *Fake) GetBranch(_ context.Context, name string) (Branch, error) {
	for _, branch := range f.Branches {
		if branch.Name == name {
			return branch, nil
		}
	}
	return Branch{}, fmt.Errorf("failed to get branch %s: not found", name)
}

// GetIssue returns the configured issue with the given number
func (f *Fake) GetIssue(_ context.Context, number int) (Issue, error) {
	issue, ok := f.Issues[number]
	if !ok {
		return Issue{}, fmt.Errorf("failed to get issue #%d: not found", number)
	}
	return issue, nil
}

// SetMilestone records the write and updates the issue's milestone
func (f *Fake) SetMilestone(_ context.Context, issueNumber, milestoneNumber int) error {
	if f.SetErr != nil {
		return f.SetErr
	}

	f.SetCalls = append(f.SetCalls, SetMilestoneCall{
		IssueNumber:     issueNumber,
		MilestoneNumber: milestoneNumber,
	})

	issue, ok := f.Issues[issueNumber]
	if !ok {
		return fmt.Errorf("failed to get issue #%d: not found", issueNumber)
	}
	for _, milestone := range f.Milestones {
		if milestone.Number == milestoneNumber {
			issue.Milestone = &milestone
			break
		}
	}
	f.Issues[issueNumber] = issue

	return nil
}
