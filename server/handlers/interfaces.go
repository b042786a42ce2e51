// Package handlers provides HTTP handlers for the being daemon.
//
// Each handler is in its own file and implements http.Handler. Handlers use
// interfaces to access server dependencies, avoiding circular imports.
package handlers

import (
	"time"

	"github.com/digitalbeing/being/memory"
	"github.com/digitalbeing/being/server/runs"
)

// PassRunner can start passes.
type PassRunner interface {
	Run() error
}

// StatusProvider provides access to pass status.
type StatusProvider interface {
	Status() runs.Status
}

// HistoryProvider provides access to pass history.
type HistoryProvider interface {
	History() []runs.Record
}

// MemoryProvider provides a snapshot of shared memory.
type MemoryProvider interface {
	Memory() map[string]memory.Entry
}

// SchedulePeeker reports the next scheduled pass time.
type SchedulePeeker interface {
	NextRun() time.Time
}
