// Package application contains use-case orchestration services.
package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/ericfisherdev/commitcheck/internal/domain/model"
	"github.com/ericfisherdev/commitcheck/internal/domain/port/driven"
)

// refreshRequest represents a manual refresh trigger.
type refreshRequest struct {
	repoFullName string
	done         chan error
}

// pullRequestChecker is the subset of CheckService used by the poll loop.
type pullRequestChecker interface {
	CheckPullRequest(ctx context.Context, repoFullName string, prNumber int) (*model.CheckRun, error)
}

// PollService periodically discovers open pull requests of watched
// repositories and checks those whose head commit has not been checked yet.
type PollService struct {
	ghClient  driven.GitHubClient
	repoStore driven.RepoStore
	runStore  driven.CheckRunStore
	checker   pullRequestChecker
	interval  time.Duration
	refreshCh chan refreshRequest
}

// NewPollService creates a new PollService with all required dependencies.
func NewPollService(
	ghClient driven.GitHubClient,
	repoStore driven.RepoStore,
	runStore driven.CheckRunStore,
	checker pullRequestChecker,
	interval time.Duration,
) *PollService {
	return &PollService{
		ghClient:  ghClient,
		repoStore: repoStore,
		runStore:  runStore,
		checker:   checker,
		interval:  interval,
		refreshCh: make(chan refreshRequest),
	}
}

// Start begins the polling loop. It runs an immediate poll, then polls on the
// configured interval. It also listens for manual refresh requests. Start blocks
// until the context is canceled.
func (s *PollService) Start(ctx context.Context) {
	if err := s.pollAll(ctx); err != nil {
		slog.Error("initial poll failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("poll service stopped")
			return
		case <-ticker.C:
			if err := s.pollAll(ctx); err != nil {
				slog.Error("poll cycle failed", "error", err)
			}
		case req := <-s.refreshCh:
			req.done <- s.pollRepo(ctx, req.repoFullName)
		}
	}
}

// RefreshRepo triggers a poll of one repository, bypassing the polling
// interval. It blocks until the poll completes or the context is canceled.
func (s *PollService) RefreshRepo(ctx context.Context, repoFullName string) error {
	done := make(chan error, 1)
	req := refreshRequest{
		repoFullName: repoFullName,
		done:         done,
	}

	select {
	case s.refreshCh <- req:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pollAll polls all watched repositories.
func (s *PollService) pollAll(ctx context.Context) error {
	start := time.Now()

	repos, err := s.repoStore.ListAll(ctx)
	if err != nil {
		return err
	}

	var pollErrors int
	for _, repo := range repos {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err := s.pollRepo(ctx, repo.FullName); err != nil {
			slog.Error("repo poll failed", "repo", repo.FullName, "error", err)
			pollErrors++
		}
	}

	slog.Info("poll cycle complete",
		"repos", len(repos),
		"errors", pollErrors,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return nil
}

// pollRepo checks every open pull request whose head SHA differs from the
// last recorded run. A failing pull request is logged and does not stop the
// others.
func (s *PollService) pollRepo(ctx context.Context, repoFullName string) error {
	prs, err := s.ghClient.FetchPullRequests(ctx, repoFullName)
	if err != nil {
		return err
	}

	var checked, skippedUnchanged, failed int

	for _, pr := range prs {
		latest, err := s.runStore.LatestForPR(ctx, repoFullName, pr.Number)
		if err != nil {
			slog.Error("latest run lookup failed", "repo", repoFullName, "pr", pr.Number, "error", err)
			failed++
			continue
		}

		if latest != nil && latest.HeadSHA == pr.HeadSHA {
			skippedUnchanged++
			continue
		}

		if _, err := s.checker.CheckPullRequest(ctx, repoFullName, pr.Number); err != nil {
			slog.Error("commit check failed", "repo", repoFullName, "pr", pr.Number, "error", err)
			failed++
			continue
		}
		checked++
	}

	slog.Info("repo polled",
		"repo", repoFullName,
		"open_prs", len(prs),
		"checked", checked,
		"skipped_unchanged", skippedUnchanged,
		"failed", failed,
	)

	return nil
}
