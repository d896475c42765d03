package model

// Commit is a single commit of a pull request as supplied by the host.
// Commits are never mutated by the checker.
type Commit struct {
	SHA     string
	Message string
}
