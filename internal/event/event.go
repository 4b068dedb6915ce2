// Package event reads the pull-request event that triggered the run.
package event

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/sethvargo/go-githubactions"
)

// PullRequest describes the triggering pull-request event
type PullRequest struct {
	Number int
	Org    string
	Repo   string
	Labels []string
}

// FromContext validates the Actions context and decodes the event payload
// from the event path
func FromContext(ghCtx *githubactions.GitHubContext) (*PullRequest, error) {
	payload, err := os.ReadFile(ghCtx.EventPath) //nolint:gosec // Event path is set by the Actions runner
	if err != nil {
		return nil, fmt.Errorf("failed to read event payload: %w", err)
	}

	return Parse(ghCtx.EventName, payload)
}

// Parse decodes a pull-request event payload. Only pull_request and
// pull_request_target events are accepted.
func Parse(name string, payload []byte) (*PullRequest, error) {
	if name != "pull_request" && name != "pull_request_target" {
		return nil, fmt.Errorf("event name: %s is not a pull request event", name)
	}

	var ev github.PullRequestEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("failed to decode event payload: %w", err)
	}

	fullName := ev.GetPullRequest().GetHead().GetRepo().GetFullName()
	org, repo, ok := strings.Cut(fullName, "/")
	if !ok {
		return nil, fmt.Errorf("event payload has no head repository")
	}

	var labels []string
	for _, label := range ev.GetPullRequest().Labels {
		labels = append(labels, label.GetName())
	}

	return &PullRequest{
		Number: ev.GetNumber(),
		Org:    org,
		Repo:   repo,
		Labels: labels,
	}, nil
}
