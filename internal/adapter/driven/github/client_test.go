package github_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	ghAdapter "github.com/ericfisherdev/commitcheck/internal/adapter/driven/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler) (*ghAdapter.Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := ghAdapter.NewClientWithHTTPClient(server.Client(), server.URL+"/")
	require.NoError(t, err)

	return client, server
}

// prJSON is a helper struct for building GitHub API pull request responses.
type prJSON struct {
	Number  int      `json:"number"`
	Title   string   `json:"title"`
	State   string   `json:"state"`
	HTMLURL string   `json:"html_url"`
	User    userJSON `json:"user"`
	Head    refJSON  `json:"head"`
	Updated string   `json:"updated_at,omitempty"`
}

type userJSON struct {
	Login string `json:"login"`
}

type refJSON struct {
	Ref string `json:"ref"`
	SHA string `json:"sha,omitempty"`
}

// commitJSON mirrors the pull request commits endpoint payload.
type commitJSON struct {
	SHA    string         `json:"sha"`
	Commit commitBodyJSON `json:"commit"`
}

type commitBodyJSON struct {
	Message string `json:"message"`
}

func TestFetchPullRequests_SinglePage(t *testing.T) {
	prs := []prJSON{
		{
			Number:  42,
			Title:   "Add feature X",
			State:   "open",
			HTMLURL: "https://github.com/owner/repo/pull/42",
			User:    userJSON{Login: "alice"},
			Head:    refJSON{Ref: "feature-x", SHA: "abc123def456"},
			Updated: "2026-01-02T12:00:00Z",
		},
		{
			Number:  43,
			Title:   "Fix bug Y",
			State:   "open",
			User:    userJSON{Login: "bob"},
			Head:    refJSON{Ref: "fix-bug-y", SHA: "fff000"},
			Updated: "2026-01-04T00:00:00Z",
		},
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/repo/pulls", r.URL.Path)
		assert.Equal(t, "open", r.URL.Query().Get("state"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(prs)
	})

	client, _ := newTestClient(t, handler)
	result, err := client.FetchPullRequests(context.Background(), "owner/repo")

	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, 42, result[0].Number)
	assert.Equal(t, "owner/repo", result[0].RepoFullName)
	assert.Equal(t, "Add feature X", result[0].Title)
	assert.Equal(t, "alice", result[0].Author)
	assert.Equal(t, "https://github.com/owner/repo/pull/42", result[0].URL)
	assert.Equal(t, "abc123def456", result[0].HeadSHA, "HeadSHA should be populated from head.sha")

	assert.Equal(t, 43, result[1].Number)
	assert.Equal(t, "bob", result[1].Author)
	assert.Equal(t, "fff000", result[1].HeadSHA)
}

func TestFetchPullRequests_Pagination(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")

		w.Header().Set("Content-Type", "application/json")

		if page == "" || page == "1" {
			// Page 1: include Link header pointing to page 2
			w.Header().Set("Link", fmt.Sprintf(`<%s?page=2>; rel="next"`, "http://"+r.Host+r.URL.Path))
			json.NewEncoder(w).Encode([]prJSON{{Number: 1, Title: "PR One", State: "open"}})
		} else {
			// Page 2: no Link header (last page)
			json.NewEncoder(w).Encode([]prJSON{{Number: 2, Title: "PR Two", State: "open"}})
		}
	})

	client, _ := newTestClient(t, handler)
	result, err := client.FetchPullRequests(context.Background(), "owner/repo")

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, 1, result[0].Number)
	assert.Equal(t, "PR One", result[0].Title)
	assert.Equal(t, 2, result[1].Number)
	assert.Equal(t, "PR Two", result[1].Title)
}

func TestFetchPullRequests_EmptyRepo(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]prJSON{})
	})

	client, _ := newTestClient(t, handler)
	result, err := client.FetchPullRequests(context.Background(), "owner/repo")

	require.NoError(t, err)
	assert.NotNil(t, result, "should return empty slice, not nil")
	assert.Empty(t, result)
}

func TestFetchPullRequests_InvalidRepoName(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be called for invalid repo name")
	})

	client, _ := newTestClient(t, handler)

	tests := []struct {
		name string
		repo string
	}{
		{name: "no slash", repo: "invalid"},
		{name: "empty owner", repo: "/repo"},
		{name: "empty repo", repo: "owner/"},
		{name: "empty string", repo: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.FetchPullRequests(context.Background(), tc.repo)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid repo name")
		})
	}
}

func TestFetchPullRequest(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/repo/pulls/7", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(prJSON{
			Number: 7,
			Title:  "Seven",
			State:  "open",
			User:   userJSON{Login: "carol"},
			Head:   refJSON{Ref: "seven", SHA: "777"},
		})
	})

	client, _ := newTestClient(t, handler)
	pr, err := client.FetchPullRequest(context.Background(), "owner/repo", 7)

	require.NoError(t, err)
	require.NotNil(t, pr)
	assert.Equal(t, 7, pr.Number)
	assert.Equal(t, "carol", pr.Author)
	assert.Equal(t, "777", pr.HeadSHA)
}

func TestFetchPullRequest_NotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
	})

	client, _ := newTestClient(t, handler)
	_, err := client.FetchPullRequest(context.Background(), "owner/repo", 99)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "owner/repo#99")
}

func TestFetchCommits_PaginationKeepsOrder(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/repo/pulls/5/commits", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")

		if page := r.URL.Query().Get("page"); page == "" || page == "1" {
			w.Header().Set("Link", fmt.Sprintf(`<%s?page=2>; rel="next"`, "http://"+r.Host+r.URL.Path))
			json.NewEncoder(w).Encode([]commitJSON{
				{SHA: "6dcb09b5b57875f334f61aebed695e2e4193db5e", Commit: commitBodyJSON{Message: "Fix all the bugs"}},
				{SHA: "aaa111", Commit: commitBodyJSON{Message: "OPS-12 second"}},
			})
			return
		}

		json.NewEncoder(w).Encode([]commitJSON{
			{SHA: "bbb222", Commit: commitBodyJSON{Message: "third\n\nwith body"}},
		})
	})

	client, _ := newTestClient(t, handler)
	commits, err := client.FetchCommits(context.Background(), "owner/repo", 5)

	require.NoError(t, err)
	require.Len(t, commits, 3)
	assert.Equal(t, "6dcb09b5b57875f334f61aebed695e2e4193db5e", commits[0].SHA)
	assert.Equal(t, "Fix all the bugs", commits[0].Message)
	assert.Equal(t, "aaa111", commits[1].SHA)
	assert.Equal(t, "bbb222", commits[2].SHA)
	assert.Equal(t, "third\n\nwith body", commits[2].Message)
}

func TestFetchCommits_Empty(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]commitJSON{})
	})

	client, _ := newTestClient(t, handler)
	commits, err := client.FetchCommits(context.Background(), "owner/repo", 1)

	require.NoError(t, err)
	assert.NotNil(t, commits)
	assert.Empty(t, commits)
}

func TestCreateIssueComment(t *testing.T) {
	var gotBody string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/owner/repo/issues/12/comments", r.URL.Path)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gotBody = payload["body"]

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":1}`))
	})

	client, _ := newTestClient(t, handler)
	err := client.CreateIssueComment(context.Background(), "owner/repo", 12, "The following commits had issues.\n")

	require.NoError(t, err)
	assert.Equal(t, "The following commits had issues.\n", gotBody)
}

func TestCreateIssueComment_Forbidden(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"Resource not accessible by integration"}`))
	})

	client, _ := newTestClient(t, handler)
	err := client.CreateIssueComment(context.Background(), "owner/repo", 12, "body")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating comment on owner/repo#12")
}
