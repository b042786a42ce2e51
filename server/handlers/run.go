package handlers

import (
	"errors"
	"net/http"

	"github.com/digitalbeing/being/server/runs"
)

// RunHandler handles requests to trigger a pass.
type RunHandler struct {
	runner PassRunner
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(r PassRunner) *RunHandler {
	return &RunHandler{runner: r}
}

// ServeHTTP implements http.Handler. Returns 202 when the pass was started
// and 409 when one is already in progress.
func (h *RunHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.runner.Run(); err != nil {
		if errors.Is(err, runs.ErrPassInProgress) {
			writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
