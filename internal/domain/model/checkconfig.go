package model

// DefaultReportMessage is the leading line of a report when no custom
// message is configured.
const DefaultReportMessage = "The following commits had issues."

// CheckConfig holds the commitcheck tool options for a repository.
// Pattern and CheckURL may be wrapped in stray single quotes; the checker
// strips them before use.
type CheckConfig struct {
	RepoFullName string // Empty for default (env or file) configuration.
	Pattern      string // Regular expression searched in each commit message.
	CheckURL     string // Optional URL template: {} or {0} for the whole match, {name} for named groups.
	Message      string // Optional report header; DefaultReportMessage when empty.
}

// ReportMessage returns the configured report header or the default.
func (c CheckConfig) ReportMessage() string {
	if c.Message == "" {
		return DefaultReportMessage
	}
	return c.Message
}
