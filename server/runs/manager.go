package runs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/digitalbeing/being/logging"
	"github.com/digitalbeing/being/memory"
	"github.com/digitalbeing/being/runner"
)

// ErrPassInProgress is returned when attempting to start a pass while one is
// already running.
var ErrPassInProgress = errors.New("pass already in progress")

// Manager starts passes in the background, prevents concurrent passes, and
// records completed passes in the history store.
type Manager struct {
	logger    *slog.Logger
	runner    *runner.Runner
	collector *logging.Collector
	shared    *memory.Store
	stateFile string
	store     Store

	mu     sync.Mutex
	status Status
}

// Option configures a Manager.
type Option func(*Manager)

// WithStore configures the manager to persist pass history.
func WithStore(store Store) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithMemoryStateFile makes the manager snapshot shared memory to the given
// file after each pass.
func WithMemoryStateFile(path string) Option {
	return func(m *Manager) {
		m.stateFile = path
	}
}

// NewManager creates a Manager. The collector must be the same one the
// runner's logger factory captures into; the manager clears it at the start
// of each pass and attaches its entries to the pass record.
func NewManager(logger *slog.Logger, r *runner.Runner, collector *logging.Collector, shared *memory.Store, opts ...Option) *Manager {
	m := &Manager{
		logger:    logger,
		runner:    r,
		collector: collector,
		shared:    shared,
		store:     NewMemoryStore(),
		status:    Status{State: StateIdle},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run starts a pass in the background. Returns ErrPassInProgress if a pass
// is already running.
func (m *Manager) Run() error {
	if !m.tryStart() {
		return ErrPassInProgress
	}

	m.logger.Info("starting pass")

	go func() {
		pass := m.executePass(context.Background())
		m.finish(pass)
	}()

	return nil
}

// Status returns the current pass status. While a pass is running the
// status carries only the state and start time; execution details are
// attached when the pass finishes.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// IsRunning reports whether a pass is in progress.
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status.State == StateRunning
}

// History returns completed passes, most recent first.
func (m *Manager) History() []Record {
	return m.store.History()
}

// Memory returns a snapshot of the shared memory entries.
func (m *Manager) Memory() map[string]memory.Entry {
	return m.shared.Entries()
}

// tryStart attempts to transition from idle to running.
func (m *Manager) tryStart() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status.State == StateRunning {
		return false
	}

	now := time.Now()
	m.status = Status{
		State:     StateRunning,
		StartedAt: &now,
	}
	return true
}

// executePass clears the log collector and runs one pass.
func (m *Manager) executePass(ctx context.Context) *runner.Pass {
	m.collector.Clear()
	return m.runner.RunPass(ctx)
}

// finish transitions back to idle, records the pass in history, and
// snapshots shared memory when configured.
func (m *Manager) finish(pass *runner.Pass) {
	executions := m.buildExecutions(pass)

	m.mu.Lock()
	endTime := time.Now()
	m.status.State = StateIdle
	m.status.EndedAt = &endTime
	m.status.PassID = pass.ID
	m.status.Failures = pass.Failures()
	m.status.Executions = executions

	record := Record{
		ID:         pass.ID,
		StartedAt:  m.status.StartedAt,
		EndedAt:    m.status.EndedAt,
		Failures:   m.status.Failures,
		Executions: executions,
	}
	m.mu.Unlock()

	m.logger.Info("pass finished", "pass_id", pass.ID, "failures", pass.Failures())

	if err := m.store.Save(record); err != nil {
		m.logger.Error("failed to save pass to history", "error", err)
	}

	if m.stateFile != "" {
		if err := m.shared.SaveFile(m.stateFile); err != nil {
			m.logger.Error("failed to snapshot shared memory", "error", err)
		}
	}
}

// buildExecutions combines pass results with captured per-activity logs.
func (m *Manager) buildExecutions(pass *runner.Pass) []ExecutionRecord {
	logs := m.collector.AllLogs()

	executions := make([]ExecutionRecord, 0, len(pass.Executions))
	for _, exec := range pass.Executions {
		record := ExecutionRecord{
			Activity:  exec.Activity,
			Success:   exec.Result.Success,
			Timestamp: exec.Result.Timestamp,
			Duration:  exec.Result.Duration,
			Logs:      logs[exec.Activity],
		}
		if exec.Result.Err != nil {
			record.Error = exec.Result.Err.Error()
		}
		executions = append(executions, record)
	}
	return executions
}
