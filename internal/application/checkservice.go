package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/commitcheck/internal/domain/model"
	"github.com/ericfisherdev/commitcheck/internal/domain/port/driven"
)

// CheckService runs the CommitChecker against a pull request: it resolves the
// repository's options, fetches the commits, posts the report as an issue
// comment and records the run.
type CheckService struct {
	ghClient      driven.GitHubClient
	configStore   driven.CheckConfigStore
	runStore      driven.CheckRunStore
	checker       *CommitChecker
	defaultConfig model.CheckConfig
	postComments  bool
}

// NewCheckService creates a new CheckService with all required dependencies.
// defaultConfig applies to repositories without stored options.
func NewCheckService(
	ghClient driven.GitHubClient,
	configStore driven.CheckConfigStore,
	runStore driven.CheckRunStore,
	checker *CommitChecker,
	defaultConfig model.CheckConfig,
	postComments bool,
) *CheckService {
	return &CheckService{
		ghClient:      ghClient,
		configStore:   configStore,
		runStore:      runStore,
		checker:       checker,
		defaultConfig: defaultConfig,
		postComments:  postComments,
	}
}

// ResolveConfig returns the stored options for the repository, or the default
// configuration if none are stored.
func (s *CheckService) ResolveConfig(ctx context.Context, repoFullName string) (model.CheckConfig, error) {
	cfg, err := s.configStore.GetConfig(ctx, repoFullName)
	if err != nil {
		return model.CheckConfig{}, fmt.Errorf("resolve config for %s: %w", repoFullName, err)
	}
	if cfg == nil {
		def := s.defaultConfig
		def.RepoFullName = repoFullName
		return def, nil
	}
	return *cfg, nil
}

// CheckPullRequest checks the commits of one pull request and returns the
// recorded run. A checker failure (for example an unreachable check URL) is
// returned as an error and no run is recorded. A failed comment post leaves
// the run recorded as not posted.
func (s *CheckService) CheckPullRequest(ctx context.Context, repoFullName string, prNumber int) (*model.CheckRun, error) {
	start := time.Now()

	cfg, err := s.ResolveConfig(ctx, repoFullName)
	if err != nil {
		return nil, err
	}

	pr, err := s.ghClient.FetchPullRequest(ctx, repoFullName, prNumber)
	if err != nil {
		return nil, err
	}

	commits, err := s.ghClient.FetchCommits(ctx, repoFullName, prNumber)
	if err != nil {
		return nil, err
	}

	problems := NewProblems()
	if err := s.checker.ExecuteCommits(ctx, cfg, commits, problems); err != nil {
		return nil, fmt.Errorf("commitcheck %s#%d: %w", repoFullName, prNumber, err)
	}

	run := model.CheckRun{
		RepoFullName: repoFullName,
		PRNumber:     prNumber,
		HeadSHA:      pr.HeadSHA,
		CommitCount:  len(commits),
		SkipReason:   PatternSkipReason(cfg),
		CheckedAt:    time.Now().UTC(),
	}

	for _, report := range problems.All() {
		run.Findings = append(run.Findings, report.Findings...)
		run.ReportBody += report.Body
	}

	// Record before posting: a head is commented on at most once.
	id, err := s.runStore.Record(ctx, run)
	if err != nil {
		return nil, err
	}
	run.ID = id

	if run.HasReport() && s.postComments {
		if err := s.ghClient.CreateIssueComment(ctx, repoFullName, prNumber, run.ReportBody); err != nil {
			return nil, err
		}
		run.Posted = true

		if err := s.runStore.MarkPosted(ctx, id); err != nil {
			slog.Error("failed to mark run posted", "run_id", id, "error", err)
		}
	}

	slog.Info("pull request checked",
		"repo", repoFullName,
		"pr", prNumber,
		"title", pr.Title,
		"author", pr.Author,
		"url", pr.URL,
		"head_sha", run.HeadSHA,
		"commits", run.CommitCount,
		"findings", len(run.Findings),
		"posted", run.Posted,
		"skip_reason", string(run.SkipReason),
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return &run, nil
}
