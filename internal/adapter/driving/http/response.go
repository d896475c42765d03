package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/commitcheck/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeHTML writes an HTML document.
func writeHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// StatusResponse acknowledges an action that has no other payload.
type StatusResponse struct {
	Status string `json:"status"`
}

// RepoResponse is the JSON representation of a watched repository.
type RepoResponse struct {
	FullName string `json:"full_name"`
	Owner    string `json:"owner"`
	Name     string `json:"name"`
	AddedAt  string `json:"added_at"`
}

// AddRepoRequest is the JSON body for the add repository endpoint.
type AddRepoRequest struct {
	FullName string `json:"full_name"`
}

// ConfigRequest is the JSON body for the set config endpoint.
type ConfigRequest struct {
	Pattern  string `json:"pattern"`
	CheckURL string `json:"check_url"`
	Message  string `json:"message"`
}

// ConfigResponse is the JSON representation of a repository's commitcheck options.
type ConfigResponse struct {
	Repository string `json:"repository"`
	Pattern    string `json:"pattern"`
	CheckURL   string `json:"check_url"`
	Message    string `json:"message"`
	IsDefault  bool   `json:"is_default"`
}

// FindingResponse is one reported commit.
type FindingResponse struct {
	Kind       string `json:"kind"`
	SHA        string `json:"sha"`
	URL        string `json:"url,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
}

// RunResponse is the JSON representation of a check run.
type RunResponse struct {
	ID          int64             `json:"id"`
	Repository  string            `json:"repository"`
	PRNumber    int               `json:"pr_number"`
	HeadSHA     string            `json:"head_sha"`
	CommitCount int               `json:"commit_count"`
	Findings    []FindingResponse `json:"findings"`
	Report      string            `json:"report"`
	Posted      bool              `json:"posted"`
	SkipReason  string            `json:"skip_reason,omitempty"`
	CheckedAt   string            `json:"checked_at"`
}

// toRepoResponse converts a domain Repository to its JSON response representation.
func toRepoResponse(repo model.Repository) RepoResponse {
	return RepoResponse{
		FullName: repo.FullName,
		Owner:    repo.Owner,
		Name:     repo.Name,
		AddedAt:  repo.AddedAt.UTC().Format(time.RFC3339),
	}
}

func toConfigResponse(cfg model.CheckConfig, isDefault bool) ConfigResponse {
	return ConfigResponse{
		Repository: cfg.RepoFullName,
		Pattern:    cfg.Pattern,
		CheckURL:   cfg.CheckURL,
		Message:    cfg.ReportMessage(),
		IsDefault:  isDefault,
	}
}

// toRunResponse converts a CheckRun. Findings is always a JSON array.
func toRunResponse(run model.CheckRun) RunResponse {
	findings := make([]FindingResponse, 0, len(run.Findings))
	for _, f := range run.Findings {
		findings = append(findings, FindingResponse{
			Kind:       string(f.Kind),
			SHA:        f.SHA,
			URL:        f.URL,
			StatusCode: f.StatusCode,
		})
	}

	return RunResponse{
		ID:          run.ID,
		Repository:  run.RepoFullName,
		PRNumber:    run.PRNumber,
		HeadSHA:     run.HeadSHA,
		CommitCount: run.CommitCount,
		Findings:    findings,
		Report:      run.ReportBody,
		Posted:      run.Posted,
		SkipReason:  string(run.SkipReason),
		CheckedAt:   run.CheckedAt.UTC().Format(time.RFC3339),
	}
}
