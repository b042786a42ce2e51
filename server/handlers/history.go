package handlers

import "net/http"

// HistoryHandler serves the pass history, most recent first.
type HistoryHandler struct {
	history HistoryProvider
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(h HistoryProvider) *HistoryHandler {
	return &HistoryHandler{history: h}
}

// ServeHTTP implements http.Handler.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.history.History())
}
