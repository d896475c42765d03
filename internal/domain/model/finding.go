package model

// FindingKind distinguishes why a commit was reported.
type FindingKind string

const (
	FindingNotFound FindingKind = "not_found" // Pattern did not match the commit message.
	FindingBadURL   FindingKind = "bad_url"   // Derived URL did not return 200.
)

// Finding is one detected issue with a commit. URL and StatusCode are only
// set for FindingBadURL.
type Finding struct {
	Kind       FindingKind
	SHA        string
	URL        string
	StatusCode int
}

// Report is the single aggregated comment produced by one check run.
type Report struct {
	Body     string
	Findings []Finding
}
