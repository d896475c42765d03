package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/ericfisherdev/commitcheck/internal/domain/model"
	"github.com/ericfisherdev/commitcheck/internal/domain/port/driven"
)

// CommitCheckerName is the tool name used in tool-option tables and logs.
const CommitCheckerName = "commitcheck"

// ErrNoURLChecker is returned when check_url is configured but the checker
// was built without a URLChecker.
var ErrNoURLChecker = errors.New("url checker not configured")

// CommitChecker validates pull request commit messages against a configured
// pattern and optionally verifies that a URL derived from each match returns
// 200. A single CommitChecker may serve concurrent runs: the verified-URL
// cache lives only for the duration of one Run call.
type CommitChecker struct {
	urlChecker driven.URLChecker
}

// NewCommitChecker creates a CommitChecker. urlChecker may be nil if no
// configuration uses check_url.
func NewCommitChecker(urlChecker driven.URLChecker) *CommitChecker {
	return &CommitChecker{urlChecker: urlChecker}
}

// Name returns the tool name.
func (c *CommitChecker) Name() string {
	return CommitCheckerName
}

// CheckDependencies reports whether the tool can run. commitcheck needs no
// external binary, so it always can.
func (c *CommitChecker) CheckDependencies() bool {
	return true
}

// ExecuteCommits runs the check and appends the report, if any, to problems.
func (c *CommitChecker) ExecuteCommits(ctx context.Context, cfg model.CheckConfig, commits []model.Commit, problems *Problems) error {
	report, err := c.Run(ctx, cfg, commits)
	if err != nil {
		return err
	}
	if report != nil {
		problems.Add(*report)
	}
	return nil
}

// Run checks every commit in order and returns the aggregated report, or nil
// when there is nothing to report. An empty or invalid pattern skips the run
// without error. URL check transport failures abort the run.
func (c *CommitChecker) Run(ctx context.Context, cfg model.CheckConfig, commits []model.Commit) (*model.Report, error) {
	pattern := stripQuotes(cfg.Pattern)

	re, reason, err := compilePattern(pattern)
	switch reason {
	case model.SkipEmptyPattern:
		slog.Warn("commit pattern is empty, skipping")
		return nil, nil
	case model.SkipInvalidPattern:
		slog.Warn("commit pattern is invalid, skipping", "pattern", pattern, "error", err)
		return nil, nil
	}

	template := stripQuotes(cfg.CheckURL)
	verified := make(map[string]struct{})

	var findings []model.Finding
	for _, commit := range commits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		finding, err := c.checkCommit(ctx, re, template, commit, verified)
		if err != nil {
			return nil, fmt.Errorf("check commit %s: %w", commit.SHA, err)
		}
		if finding != nil {
			findings = append(findings, *finding)
		}
	}

	if len(findings) == 0 {
		slog.Debug("no bad commit messages", "commits", len(commits))
		return nil, nil
	}

	return &model.Report{
		Body:     buildReportBody(cfg.ReportMessage(), pattern, findings),
		Findings: findings,
	}, nil
}

// PatternSkipReason reports whether Run would skip the given configuration
// before inspecting any commit.
func PatternSkipReason(cfg model.CheckConfig) model.SkipReason {
	_, reason, _ := compilePattern(stripQuotes(cfg.Pattern))
	return reason
}

// checkCommit returns a finding for the commit, or nil if it passes.
// verified holds URLs that already returned 200 during this run.
func (c *CommitChecker) checkCommit(
	ctx context.Context,
	re *regexp.Regexp,
	template string,
	commit model.Commit,
	verified map[string]struct{},
) (*model.Finding, error) {
	loc := re.FindStringSubmatchIndex(commit.Message)
	if loc == nil {
		return &model.Finding{Kind: model.FindingNotFound, SHA: commit.SHA}, nil
	}

	if template == "" {
		return nil, nil
	}

	url, err := deriveURL(re, template, commit.Message, loc)
	if err != nil {
		return nil, err
	}

	if _, ok := verified[url]; ok {
		slog.Debug("url already checked as good", "url", url, "sha", commit.SHA)
		return nil, nil
	}

	if c.urlChecker == nil {
		return nil, ErrNoURLChecker
	}

	status, err := c.urlChecker.Status(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}

	if status != http.StatusOK {
		return &model.Finding{Kind: model.FindingBadURL, SHA: commit.SHA, URL: url, StatusCode: status}, nil
	}

	verified[url] = struct{}{}
	return nil, nil
}

// deriveURL formats the template from a match. Patterns that declare named
// groups bind placeholders by group name; otherwise the whole match fills the
// positional placeholder.
func deriveURL(re *regexp.Regexp, template, message string, loc []int) (string, error) {
	named := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name == "" {
			continue
		}
		// Groups that did not participate in the match format as "".
		if start, end := loc[2*i], loc[2*i+1]; start >= 0 {
			named[name] = message[start:end]
		} else {
			named[name] = ""
		}
	}

	if len(named) > 0 {
		return formatTemplate(template, nil, named)
	}
	return formatTemplate(template, []string{message[loc[0]:loc[1]]}, nil)
}

// compilePattern compiles an already quote-stripped pattern.
func compilePattern(pattern string) (*regexp.Regexp, model.SkipReason, error) {
	if pattern == "" {
		return nil, model.SkipEmptyPattern, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, model.SkipInvalidPattern, err
	}

	return re, model.SkipNone, nil
}

// stripQuotes removes one leading and one trailing single quote, which some
// configuration files leave around pattern and check_url values.
func stripQuotes(s string) string {
	s = strings.TrimPrefix(s, "'")
	return strings.TrimSuffix(s, "'")
}

// buildReportBody renders the comment body. Not-found findings are listed
// before bad-URL findings; each group keeps commit order.
func buildReportBody(message, pattern string, findings []model.Finding) string {
	var notFound, badURL []model.Finding
	for _, f := range findings {
		switch f.Kind {
		case model.FindingNotFound:
			notFound = append(notFound, f)
		case model.FindingBadURL:
			badURL = append(badURL, f)
		}
	}

	var b strings.Builder
	b.WriteString(message)
	b.WriteByte('\n')

	if len(notFound) > 0 {
		fmt.Fprintf(&b, "The pattern %s was not found in:\n", pattern)
		for _, f := range notFound {
			fmt.Fprintf(&b, "* %s\n", f.SHA)
		}
	}

	if len(badURL) > 0 {
		b.WriteString("These commits did not return a 200 response:\n")
		for _, f := range badURL {
			fmt.Fprintf(&b, "* %s requested %s and got a %d response\n", f.SHA, f.URL, f.StatusCode)
		}
	}

	return b.String()
}
