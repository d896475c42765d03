package model

// PullRequest represents an open GitHub pull request whose commits are checked.
type PullRequest struct {
	Number       int
	RepoFullName string
	Title        string
	Author       string
	URL          string
	HeadSHA      string // Current head commit SHA; a new head triggers a new check.
}
