// Package activity defines the capability contract shared by all digital
// being activities and the uniform result type they produce.
//
// An activity is one self-contained unit of automated work. It is prepared
// once via Initialize (credentials, client handles) and then executed one or
// more times. Execution produces a Result; the runner converts any error or
// panic that escapes Execute into a failed Result, so failures never
// propagate past the activity boundary.
package activity

import (
	"context"
	"errors"
	"time"

	"github.com/digitalbeing/being/memory"
)

// Error kinds attached to failed results. Callers classify failures with
// errors.Is rather than by message.
var (
	// ErrInitialization indicates Initialize failed, typically because
	// required configuration or credentials were missing.
	ErrInitialization = errors.New("activity initialization failed")

	// ErrExecution indicates Execute returned an error or panicked.
	ErrExecution = errors.New("activity execution failed")

	// ErrTimeout indicates the activity exceeded its allotted execution time.
	ErrTimeout = errors.New("activity timed out")
)

// Activity is implemented by every unit of work the being can perform.
type Activity interface {
	// Initialize prepares resources such as external client handles.
	// It is called once per pass, before Execute. A failure means the
	// activity is skipped for the pass.
	Initialize(ctx context.Context) error

	// Execute performs the unit of work. It may read from and write to the
	// shared store, and must be safe to invoke repeatedly. Returning an
	// error (or panicking) is recorded by the runner as a failed Result;
	// it never aborts the pass.
	Execute(ctx context.Context, shared *memory.Store) (*Result, error)
}

// Write is a shared-memory write requested by an activity as part of its
// result. The runner persists writes after Execute returns, recording the
// activity as the writer.
type Write struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Result is the uniform outcome record produced by an activity execution.
// A Result is immutable once produced.
type Result struct {
	// Success reports whether the unit of work completed as intended.
	Success bool `json:"success"`

	// Data is the structured payload produced by the activity.
	Data map[string]any `json:"data,omitempty"`

	// Err carries the failure detail when Success is false. It wraps one
	// of the package error kinds so callers can classify it.
	Err error `json:"-"`

	// Timestamp records when the result was produced.
	Timestamp time.Time `json:"timestamp"`

	// Duration is how long Execute took. Filled in by the runner.
	Duration time.Duration `json:"duration"`

	// Memory lists the shared-memory writes the runner should persist on
	// the activity's behalf.
	Memory []Write `json:"memory,omitempty"`
}

// Succeeded creates a successful Result with the given payload.
func Succeeded(data map[string]any) *Result {
	return &Result{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// Failed creates a failed Result carrying the given error.
func Failed(err error) *Result {
	return &Result{
		Success:   false,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// WithMemory returns a copy of the result with the given writes attached.
func (r *Result) WithMemory(writes ...Write) *Result {
	out := *r
	out.Memory = append(append([]Write(nil), r.Memory...), writes...)
	return &out
}

// Error returns the failure message, or an empty string on success.
func (r *Result) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
