// Package httphandler serves the commitcheck REST API.
package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ericfisherdev/commitcheck/internal/application"
	"github.com/ericfisherdev/commitcheck/internal/domain/model"
	"github.com/ericfisherdev/commitcheck/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	repoStore   driven.RepoStore
	configStore driven.CheckConfigStore
	runStore    driven.CheckRunStore
	checkSvc    *application.CheckService
	pollSvc     *application.PollService
	logger      *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. pollSvc may be
// nil, in which case refresh requests are rejected and newly added
// repositories wait for the next poll cycle.
func NewHandler(
	repoStore driven.RepoStore,
	configStore driven.CheckConfigStore,
	runStore driven.CheckRunStore,
	checkSvc *application.CheckService,
	pollSvc *application.PollService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		repoStore:   repoStore,
		configStore: configStore,
		runStore:    runStore,
		checkSvc:    checkSvc,
		pollSvc:     pollSvc,
		logger:      logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", h.Health)

	mux.HandleFunc("GET /api/v1/repos", h.ListRepos)
	mux.HandleFunc("POST /api/v1/repos", h.AddRepo)
	mux.HandleFunc("DELETE /api/v1/repos/{owner}/{repo}", h.RemoveRepo)
	mux.HandleFunc("POST /api/v1/repos/{owner}/{repo}/refresh", h.RefreshRepo)

	mux.HandleFunc("GET /api/v1/repos/{owner}/{repo}/config", h.GetConfig)
	mux.HandleFunc("PUT /api/v1/repos/{owner}/{repo}/config", h.SetConfig)
	mux.HandleFunc("DELETE /api/v1/repos/{owner}/{repo}/config", h.DeleteConfig)

	mux.HandleFunc("POST /api/v1/repos/{owner}/{repo}/prs/{number}/check", h.CheckPR)
	mux.HandleFunc("GET /api/v1/repos/{owner}/{repo}/prs/{number}/runs", h.ListRuns)
	mux.HandleFunc("GET /api/v1/runs/{id}", h.GetRun)
	mux.HandleFunc("GET /api/v1/runs/{id}/report", h.GetRunReport)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// ListRepos returns all watched repositories.
func (h *Handler) ListRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := h.repoStore.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list repos", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]RepoResponse, 0, len(repos))
	for _, repo := range repos {
		resp = append(resp, toRepoResponse(repo))
	}

	writeJSON(w, http.StatusOK, resp)
}

// AddRepo adds a repository to the watch list and triggers an async refresh
// so its open pull requests are checked without waiting for the next cycle.
func (h *Handler) AddRepo(w http.ResponseWriter, r *http.Request) {
	var req AddRepoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !isValidRepoName(req.FullName) {
		writeError(w, http.StatusBadRequest, "invalid repository name: expected owner/repo format")
		return
	}

	owner, name, _ := strings.Cut(req.FullName, "/")
	repo := model.Repository{
		FullName: req.FullName,
		Owner:    owner,
		Name:     name,
		AddedAt:  time.Now().UTC(),
	}

	if err := h.repoStore.Add(r.Context(), repo); err != nil {
		if errors.Is(err, driven.ErrRepoAlreadyExists) {
			writeError(w, http.StatusConflict, "repository already exists")
			return
		}
		h.logger.Error("failed to add repo", "repo", req.FullName, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// The request context is canceled once the response is sent.
	if h.pollSvc != nil {
		go func() {
			if err := h.pollSvc.RefreshRepo(context.Background(), req.FullName); err != nil {
				h.logger.Error("async repo refresh failed", "repo", req.FullName, "error", err)
			}
		}()
	}

	writeJSON(w, http.StatusCreated, toRepoResponse(repo))
}

// RemoveRepo removes a repository from the watch list.
func (h *Handler) RemoveRepo(w http.ResponseWriter, r *http.Request) {
	fullName := repoFromPath(r)

	if err := h.repoStore.Remove(r.Context(), fullName); err != nil {
		if errors.Is(err, driven.ErrRepoNotFound) {
			writeError(w, http.StatusNotFound, "repository not found")
			return
		}
		h.logger.Error("failed to remove repo", "repo", fullName, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RefreshRepo polls one watched repository immediately and waits for the
// poll to finish.
func (h *Handler) RefreshRepo(w http.ResponseWriter, r *http.Request) {
	fullName := repoFromPath(r)

	if h.pollSvc == nil {
		writeError(w, http.StatusServiceUnavailable, "polling is disabled")
		return
	}

	if !h.requireWatched(w, r, fullName) {
		return
	}

	if err := h.pollSvc.RefreshRepo(r.Context(), fullName); err != nil {
		h.logger.Error("repo refresh failed", "repo", fullName, "error", err)
		writeError(w, http.StatusBadGateway, "refresh failed")
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Status: "refreshed"})
}

// CheckPR runs commitcheck against one pull request and returns the recorded run.
func (h *Handler) CheckPR(w http.ResponseWriter, r *http.Request) {
	fullName := repoFromPath(r)

	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil || number <= 0 {
		writeError(w, http.StatusBadRequest, "invalid PR number")
		return
	}

	run, err := h.checkSvc.CheckPullRequest(r.Context(), fullName, number)
	if err != nil {
		h.logger.Error("pull request check failed", "repo", fullName, "number", number, "error", err)
		writeError(w, http.StatusBadGateway, "check failed")
		return
	}

	writeJSON(w, http.StatusOK, toRunResponse(*run))
}

// ListRuns returns the check history of a pull request, newest first.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	fullName := repoFromPath(r)

	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid PR number")
		return
	}

	runs, err := h.runStore.ListByPR(r.Context(), fullName, number)
	if err != nil {
		h.logger.Error("failed to list runs", "repo", fullName, "number", number, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, toRunResponse(run))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetRun returns a single check run with its findings.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := h.loadRun(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, toRunResponse(*run))
}

// GetRunReport renders the report of a check run as sanitized HTML.
func (h *Handler) GetRunReport(w http.ResponseWriter, r *http.Request) {
	run, ok := h.loadRun(w, r)
	if !ok {
		return
	}

	if !run.HasReport() {
		writeError(w, http.StatusNotFound, "check run has no report")
		return
	}

	page, err := renderReportPage(r.Context(), *run)
	if err != nil {
		h.logger.Error("failed to render report", "run_id", run.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeHTML(w, http.StatusOK, page)
}

// loadRun resolves the {id} path value. It writes the error response and
// returns false when the run cannot be served.
func (h *Handler) loadRun(w http.ResponseWriter, r *http.Request) (*model.CheckRun, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return nil, false
	}

	run, err := h.runStore.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, driven.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "check run not found")
			return nil, false
		}
		h.logger.Error("failed to get run", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}

	return run, true
}

// requireWatched writes a 404 and returns false if fullName is not watched.
func (h *Handler) requireWatched(w http.ResponseWriter, r *http.Request, fullName string) bool {
	repo, err := h.repoStore.GetByFullName(r.Context(), fullName)
	if err != nil {
		h.logger.Error("failed to get repo", "repo", fullName, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return false
	}
	if repo == nil {
		writeError(w, http.StatusNotFound, "repository not found")
		return false
	}
	return true
}

// repoFromPath joins the {owner} and {repo} path values.
func repoFromPath(r *http.Request) string {
	return r.PathValue("owner") + "/" + r.PathValue("repo")
}

// isValidRepoName validates that name is in owner/repo format where each part
// contains only alphanumeric characters, hyphens, dots, or underscores.
func isValidRepoName(name string) bool {
	parts := strings.SplitN(name, "/", 3)
	if len(parts) != 2 {
		return false
	}

	for _, part := range parts {
		if part == "" {
			return false
		}
		for _, ch := range part {
			if !isValidRepoChar(ch) {
				return false
			}
		}
	}

	return true
}

// isValidRepoChar returns true if the rune is allowed in a repository owner or name.
func isValidRepoChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '-' || ch == '.' || ch == '_'
}
