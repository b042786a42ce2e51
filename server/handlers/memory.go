package handlers

import "net/http"

// MemoryHandler serves a snapshot of the shared memory store.
type MemoryHandler struct {
	memory MemoryProvider
}

// NewMemoryHandler creates a new MemoryHandler.
func NewMemoryHandler(m MemoryProvider) *MemoryHandler {
	return &MemoryHandler{memory: m}
}

// ServeHTTP implements http.Handler.
func (h *MemoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.memory.Memory())
}
