// Package runs manages background pass execution for the being daemon:
// starting passes, preventing concurrent ones, and keeping a history of
// completed passes with per-activity logs.
package runs

import (
	"time"

	"github.com/digitalbeing/being/logging"
)

// State represents the current state of pass execution.
type State int

const (
	// StateIdle indicates no pass is running.
	StateIdle State = iota
	// StateRunning indicates a pass is in progress.
	StateRunning
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler.
func (s State) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// ExecutionRecord is the API-facing record of one activity invocation.
type ExecutionRecord struct {
	Activity  string          `json:"activity"`
	Success   bool            `json:"success"`
	Error     string          `json:"error,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Duration  time.Duration   `json:"duration"`
	Logs      []logging.Entry `json:"logs,omitempty"`
}

// Record is one completed pass, as persisted in history.
type Record struct {
	ID         string            `json:"id"`
	StartedAt  *time.Time        `json:"started_at,omitempty"`
	EndedAt    *time.Time        `json:"ended_at,omitempty"`
	Failures   int               `json:"failures"`
	Executions []ExecutionRecord `json:"executions,omitempty"`
}

// Status describes the current or last pass.
type Status struct {
	State      State             `json:"state"`
	PassID     string            `json:"pass_id,omitempty"`
	StartedAt  *time.Time        `json:"started_at,omitempty"`
	EndedAt    *time.Time        `json:"ended_at,omitempty"`
	Failures   int               `json:"failures"`
	Executions []ExecutionRecord `json:"executions,omitempty"`
}
