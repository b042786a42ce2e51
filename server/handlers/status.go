package handlers

import (
	"net/http"
	"time"

	"github.com/digitalbeing/being/server/runs"
)

// StatusResponse is the consolidated status payload.
type StatusResponse struct {
	Pass    runs.Status `json:"pass"`
	NextRun *time.Time  `json:"next_run,omitempty"`
}

// StatusHandler serves the consolidated daemon status.
type StatusHandler struct {
	status   StatusProvider
	schedule SchedulePeeker // nil when no cron schedule is configured
}

// NewStatusHandler creates a new StatusHandler. schedule may be nil.
func NewStatusHandler(status StatusProvider, schedule SchedulePeeker) *StatusHandler {
	return &StatusHandler{
		status:   status,
		schedule: schedule,
	}
}

// ServeHTTP implements http.Handler.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Pass: h.status.Status(),
	}
	if h.schedule != nil {
		next := h.schedule.NextRun()
		resp.NextRun = &next
	}

	writeJSON(w, http.StatusOK, resp)
}
