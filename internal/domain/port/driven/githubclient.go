// Package driven defines secondary port interfaces for external adapters.
package driven

import (
	"context"

	"github.com/ericfisherdev/commitcheck/internal/domain/model"
)

// GitHubClient defines the driven port for interacting with the GitHub API.
type GitHubClient interface {
	// FetchPullRequests returns the open pull requests of a repository.
	FetchPullRequests(ctx context.Context, repoFullName string) ([]model.PullRequest, error)
	// FetchPullRequest returns a single pull request, including its head SHA.
	FetchPullRequest(ctx context.Context, repoFullName string, prNumber int) (*model.PullRequest, error)
	// FetchCommits returns the commits of a pull request in the order GitHub
	// lists them (oldest first).
	FetchCommits(ctx context.Context, repoFullName string, prNumber int) ([]model.Commit, error)
	// CreateIssueComment adds a PR-level comment (via the Issues API).
	CreateIssueComment(ctx context.Context, repoFullName string, prNumber int, body string) error
}
