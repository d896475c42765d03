package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ericfisherdev/commitcheck/internal/application"
	"github.com/ericfisherdev/commitcheck/internal/domain/model"
	"github.com/ericfisherdev/commitcheck/internal/domain/port/driven"
)

// GetConfig returns the effective commitcheck options of a repository. When
// no options are stored the service defaults are returned with is_default set.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	fullName := repoFromPath(r)

	stored, err := h.configStore.GetConfig(r.Context(), fullName)
	if err != nil {
		h.logger.Error("failed to get config", "repo", fullName, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if stored != nil {
		writeJSON(w, http.StatusOK, toConfigResponse(*stored, false))
		return
	}

	cfg, err := h.checkSvc.ResolveConfig(r.Context(), fullName)
	if err != nil {
		h.logger.Error("failed to resolve config", "repo", fullName, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toConfigResponse(cfg, true))
}

// SetConfig stores the commitcheck options of a watched repository. An empty
// pattern is accepted and disables the check; a pattern that does not
// compile is rejected.
func (h *Handler) SetConfig(w http.ResponseWriter, r *http.Request) {
	fullName := repoFromPath(r)

	var req ConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cfg := model.CheckConfig{
		RepoFullName: fullName,
		Pattern:      req.Pattern,
		CheckURL:     req.CheckURL,
		Message:      req.Message,
	}

	if application.PatternSkipReason(cfg) == model.SkipInvalidPattern {
		writeError(w, http.StatusBadRequest, "pattern is not a valid regular expression")
		return
	}

	if err := h.configStore.SetConfig(r.Context(), cfg); err != nil {
		if errors.Is(err, driven.ErrRepoNotFound) {
			writeError(w, http.StatusNotFound, "repository not found")
			return
		}
		h.logger.Error("failed to set config", "repo", fullName, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toConfigResponse(cfg, false))
}

// DeleteConfig removes stored options so the repository falls back to defaults.
func (h *Handler) DeleteConfig(w http.ResponseWriter, r *http.Request) {
	fullName := repoFromPath(r)

	if err := h.configStore.DeleteConfig(r.Context(), fullName); err != nil {
		h.logger.Error("failed to delete config", "repo", fullName, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
