package github

import (
	"context"
	"testing"
)

func TestNewClient(t *testing.T) {
	ctx := context.Background()

	client := NewClient(ctx, "test-token", "test-org", "test-repo")

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}

	if client.client == nil {
		t.Error("NewClient() client field is nil")
	}

	if client.org != "test-org" || client.repo != "test-repo" {
		t.Errorf("NewClient() repository not set correctly: %s/%s", client.org, client.repo)
	}
}

// Note: Integration tests for the Repository methods would require a real
// GitHub token and network access; the policy logic is tested against Fake
// instead.

func TestFakeImplementsRepository(t *testing.T) {
	var _ Repository = (*Fake)(nil)
	var _ Repository = (*Client)(nil)
}
