package httphandler_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/ericfisherdev/commitcheck/internal/domain/model"
	"github.com/ericfisherdev/commitcheck/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockRepoStore struct {
	repos     []model.Repository
	err       error
	addErr    error
	removeErr error
	addedRepo model.Repository
}

func (m *mockRepoStore) Add(_ context.Context, repo model.Repository) error {
	m.addedRepo = repo
	return m.addErr
}
func (m *mockRepoStore) Remove(_ context.Context, _ string) error {
	return m.removeErr
}
func (m *mockRepoStore) GetByFullName(_ context.Context, fullName string) (*model.Repository, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.repos {
		if r.FullName == fullName {
			return &r, nil
		}
	}
	return nil, nil
}
func (m *mockRepoStore) ListAll(_ context.Context) ([]model.Repository, error) {
	return m.repos, m.err
}

type mockConfigStore struct {
	configs map[string]model.CheckConfig
	err     error
	setErr  error
	deleted []string
}

func (m *mockConfigStore) GetConfig(_ context.Context, repoFullName string) (*model.CheckConfig, error) {
	if m.err != nil {
		return nil, m.err
	}
	cfg, ok := m.configs[repoFullName]
	if !ok {
		return nil, nil
	}
	return &cfg, nil
}
func (m *mockConfigStore) SetConfig(_ context.Context, cfg model.CheckConfig) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.configs == nil {
		m.configs = make(map[string]model.CheckConfig)
	}
	m.configs[cfg.RepoFullName] = cfg
	return nil
}
func (m *mockConfigStore) DeleteConfig(_ context.Context, repoFullName string) error {
	m.deleted = append(m.deleted, repoFullName)
	delete(m.configs, repoFullName)
	return m.err
}

type mockRunStore struct {
	mu   sync.Mutex
	runs []model.CheckRun
	err  error
}

func (m *mockRunStore) Record(_ context.Context, run model.CheckRun) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run.ID = int64(len(m.runs) + 1)
	m.runs = append(m.runs, run)
	return run.ID, nil
}
func (m *mockRunStore) MarkPosted(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.runs {
		if m.runs[i].ID == id {
			m.runs[i].Posted = true
			return nil
		}
	}
	return fmt.Errorf("mark check run %d posted: %w", id, driven.ErrRunNotFound)
}
func (m *mockRunStore) GetByID(_ context.Context, id int64) (*model.CheckRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.runs {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, fmt.Errorf("get check run %d: %w", id, driven.ErrRunNotFound)
}
func (m *mockRunStore) ListByPR(_ context.Context, repoFullName string, prNumber int) ([]model.CheckRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []model.CheckRun
	for i := len(m.runs) - 1; i >= 0; i-- {
		if m.runs[i].RepoFullName == repoFullName && m.runs[i].PRNumber == prNumber {
			out = append(out, m.runs[i])
		}
	}
	return out, nil
}
func (m *mockRunStore) LatestForPR(ctx context.Context, repoFullName string, prNumber int) (*model.CheckRun, error) {
	runs, err := m.ListByPR(ctx, repoFullName, prNumber)
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return &runs[0], nil
}
func (m *mockRunStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.runs)
}

type mockGitHubClient struct {
	mu       sync.Mutex
	prs      []model.PullRequest
	commits  map[int][]model.Commit
	err      error
	comments []string
}

func (m *mockGitHubClient) FetchPullRequests(_ context.Context, _ string) ([]model.PullRequest, error) {
	return m.prs, m.err
}
func (m *mockGitHubClient) FetchPullRequest(_ context.Context, repoFullName string, prNumber int) (*model.PullRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, pr := range m.prs {
		if pr.Number == prNumber {
			return &pr, nil
		}
	}
	return &model.PullRequest{Number: prNumber, RepoFullName: repoFullName, HeadSHA: "head"}, nil
}
func (m *mockGitHubClient) FetchCommits(_ context.Context, _ string, prNumber int) ([]model.Commit, error) {
	return m.commits[prNumber], m.err
}
func (m *mockGitHubClient) CreateIssueComment(_ context.Context, _ string, _ int, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.comments = append(m.comments, body)
	return nil
}
