package model

import "time"

// SkipReason explains why a check run produced no findings without
// inspecting any commit.
type SkipReason string

const (
	SkipNone           SkipReason = ""
	SkipEmptyPattern   SkipReason = "empty_pattern"
	SkipInvalidPattern SkipReason = "invalid_pattern"
)

// CheckRun records one commitcheck execution against a pull request head.
type CheckRun struct {
	ID           int64
	RepoFullName string
	PRNumber     int
	HeadSHA      string
	CommitCount  int
	Findings     []Finding
	ReportBody   string // Empty when the run found nothing.
	Posted       bool   // True if ReportBody was posted as an issue comment.
	SkipReason   SkipReason
	CheckedAt    time.Time
}

// HasReport returns true if the run produced a report.
func (r CheckRun) HasReport() bool {
	return r.ReportBody != ""
}
