package github

import "context"

// Repository is the set of hosting-platform operations the policy checks
// consume. The real implementation is Client; tests use Fake.
type Repository interface {
	// DefaultBranch returns the name of the repository's default branch
	DefaultBranch(ctx context.Context) (string, error)
	// ListLabels fetches all labels defined on the repository
	ListLabels(ctx context.Context) ([]Label, error)
	// GetLabel fetches a single label by exact name
	GetLabel(ctx context.Context, name string) (Label, error)
	// ListOpenMilestones fetches all milestones in the open state
	ListOpenMilestones(ctx context.Context) ([]Milestone, error)
	// GetBranch fetches a branch by exact name
	GetBranch(ctx context.Context, name string) (Branch, error)
	// GetIssue fetches the issue for a pull request number
	GetIssue(ctx context.Context, number int) (Issue, error)
	// SetMilestone writes a milestone onto an issue
	SetMilestone(ctx context.Context, issueNumber, milestoneNumber int) error
}
