package application_test

import (
	"context"
	"net/http"
	"sync"

	"github.com/ericfisherdev/commitcheck/internal/domain/model"
)

// --- Mock implementations shared by service tests ---

type mockGitHubClient struct {
	mu       sync.Mutex
	prs      []model.PullRequest
	commits  map[int][]model.Commit
	fetchErr error
	postErr  error
	comments []postedComment
}

type postedComment struct {
	RepoFullName string
	PRNumber     int
	Body         string
}

func (m *mockGitHubClient) FetchPullRequests(_ context.Context, _ string) ([]model.PullRequest, error) {
	return m.prs, m.fetchErr
}

func (m *mockGitHubClient) FetchPullRequest(_ context.Context, repoFullName string, prNumber int) (*model.PullRequest, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	for _, pr := range m.prs {
		if pr.Number == prNumber {
			return &pr, nil
		}
	}
	return &model.PullRequest{Number: prNumber, RepoFullName: repoFullName}, nil
}

func (m *mockGitHubClient) FetchCommits(_ context.Context, _ string, prNumber int) ([]model.Commit, error) {
	return m.commits[prNumber], m.fetchErr
}

func (m *mockGitHubClient) CreateIssueComment(_ context.Context, repoFullName string, prNumber int, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.postErr != nil {
		return m.postErr
	}
	m.comments = append(m.comments, postedComment{RepoFullName: repoFullName, PRNumber: prNumber, Body: body})
	return nil
}

type mockConfigStore struct {
	configs map[string]model.CheckConfig
	err     error
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
	if m.configs == nil {
		m.configs = make(map[string]model.CheckConfig)
	}
	m.configs[cfg.RepoFullName] = cfg
	return nil
}

func (m *mockConfigStore) DeleteConfig(_ context.Context, repoFullName string) error {
	delete(m.configs, repoFullName)
	return nil
}

type mockRunStore struct {
	mu        sync.Mutex
	runs      []model.CheckRun
	recordErr error
	markErr   error
}

func (m *mockRunStore) Record(_ context.Context, run model.CheckRun) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return 0, m.recordErr
	}
	run.ID = int64(len(m.runs) + 1)
	m.runs = append(m.runs, run)
	return run.ID, nil
}

func (m *mockRunStore) MarkPosted(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markErr != nil {
		return m.markErr
	}
	for i := range m.runs {
		if m.runs[i].ID == id {
			m.runs[i].Posted = true
			return nil
		}
	}
	return nil
}

func (m *mockRunStore) GetByID(_ context.Context, id int64) (*model.CheckRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.runs {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, nil
}

func (m *mockRunStore) ListByPR(_ context.Context, repoFullName string, prNumber int) ([]model.CheckRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.CheckRun
	for i := len(m.runs) - 1; i >= 0; i-- {
		if m.runs[i].RepoFullName == repoFullName && m.runs[i].PRNumber == prNumber {
			out = append(out, m.runs[i])
		}
	}
	return out, nil
}

func (m *mockRunStore) LatestForPR(ctx context.Context, repoFullName string, prNumber int) (*model.CheckRun, error) {
	runs, _ := m.ListByPR(ctx, repoFullName, prNumber)
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

func (m *mockRunStore) all() []model.CheckRun {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.CheckRun, len(m.runs))
	copy(out, m.runs)
	return out
}

type mockRepoStore struct {
	repos []model.Repository
}

func (m *mockRepoStore) Add(_ context.Context, _ model.Repository) error {
	return nil
}

func (m *mockRepoStore) Remove(_ context.Context, _ string) error {
	return nil
}

func (m *mockRepoStore) GetByFullName(_ context.Context, _ string) (*model.Repository, error) {
	return nil, nil
}

func (m *mockRepoStore) ListAll(_ context.Context) ([]model.Repository, error) {
	return m.repos, nil
}

type mockURLChecker struct {
	mu       sync.Mutex
	statuses map[string]int
	calls    []string
}

func (m *mockURLChecker) Status(_ context.Context, url string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, url)
	if status, ok := m.statuses[url]; ok {
		return status, nil
	}
	return http.StatusNotFound, nil
}
