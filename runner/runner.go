// Package runner orchestrates one pass over the enabled activities.
//
// A pass walks the registry's enabled activities in declaration order. For
// each one the runner resolves a fresh instance, initializes it, executes it
// with a bounded timeout, persists its requested shared-memory writes, and
// records a structured outcome. No single activity failure aborts the pass.
//
// Activities run sequentially, so shared-memory writes from activity N are
// visible to activity N+1 within the same pass.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/digitalbeing/being/activity"
	"github.com/digitalbeing/being/memory"
	"github.com/digitalbeing/being/metrics"
	"github.com/digitalbeing/being/registry"
)

const (
	defaultActivityTimeout = 2 * time.Minute

	metricActivityRuns     = "activity_runs_total"
	metricActivityDuration = "activity_duration_seconds"
)

// Execution records the outcome of one activity invocation within a pass.
type Execution struct {
	Activity string           `json:"activity"`
	Result   *activity.Result `json:"result"`
}

// Pass summarizes one complete pass over the enabled activities.
type Pass struct {
	ID         string      `json:"id"`
	StartedAt  time.Time   `json:"started_at"`
	EndedAt    time.Time   `json:"ended_at"`
	Executions []Execution `json:"executions"`
}

// Failures returns the number of failed executions in the pass.
func (p *Pass) Failures() int {
	n := 0
	for _, exec := range p.Executions {
		if !exec.Result.Success {
			n++
		}
	}
	return n
}

// LoggerFactory produces the logger handed to each activity invocation.
// The daemon uses it to capture per-activity logs.
type LoggerFactory func(activityName string) *slog.Logger

// Runner executes enabled activities in registry order.
type Runner struct {
	logger        *slog.Logger
	registry      *registry.Registry
	shared        *memory.Store
	timeout       time.Duration
	loggerFactory LoggerFactory

	runsCounter   metrics.CounterVec
	durationGauge metrics.GaugeVec
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout bounds each activity's Execute call.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithLoggerFactory sets the factory used to build per-activity loggers.
func WithLoggerFactory(f LoggerFactory) Option {
	return func(r *Runner) {
		r.loggerFactory = f
	}
}

// New creates a Runner. Activity outcome metrics are registered with reg.
func New(logger *slog.Logger, reg *registry.Registry, shared *memory.Store, metricsReg metrics.Registry, opts ...Option) (*Runner, error) {
	r := &Runner{
		logger:   logger.With("component", "runner"),
		registry: reg,
		shared:   shared,
		timeout:  defaultActivityTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.loggerFactory == nil {
		r.loggerFactory = func(name string) *slog.Logger {
			return r.logger.With("activity", name)
		}
	}

	var err error
	r.runsCounter, err = metricsReg.NewCounterVec(prometheus.CounterOpts{
		Name: metricActivityRuns,
		Help: "Count of activity executions by outcome",
	}, []string{"activity", "status"})
	if err != nil {
		return nil, fmt.Errorf("creating %s metric: %w", metricActivityRuns, err)
	}

	r.durationGauge, err = metricsReg.NewGaugeVec(prometheus.GaugeOpts{
		Name: metricActivityDuration,
		Help: "Duration of the most recent activity execution in seconds",
	}, []string{"activity"})
	if err != nil {
		return nil, fmt.Errorf("creating %s metric: %w", metricActivityDuration, err)
	}

	return r, nil
}

// RunPass executes all enabled activities once, in registry order, and
// returns the pass summary. Individual failures are captured in the summary;
// the pass itself always completes.
func (r *Runner) RunPass(ctx context.Context) *Pass {
	enabled := r.registry.ListEnabled()

	pass := &Pass{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}

	r.logger.Info("pass started", "pass_id", pass.ID, "enabled", len(enabled))

	for _, name := range enabled {
		exec := Execution{
			Activity: name,
			Result:   r.runActivity(ctx, name),
		}
		pass.Executions = append(pass.Executions, exec)
		r.record(name, exec.Result)
	}

	pass.EndedAt = time.Now()
	r.logger.Info("pass completed",
		"pass_id", pass.ID,
		"activities", len(pass.Executions),
		"failures", pass.Failures(),
		"duration", pass.EndedAt.Sub(pass.StartedAt),
	)
	return pass
}

// runActivity resolves, initializes and executes one activity, converting
// every failure mode into a failed Result.
func (r *Runner) runActivity(ctx context.Context, name string) *activity.Result {
	logger := r.loggerFactory(name)

	inst, err := r.registry.Resolve(name, logger)
	if err != nil {
		logger.Error("failed to resolve activity", "error", err)
		return activity.Failed(fmt.Errorf("%w: %v", activity.ErrInitialization, err))
	}

	logger.Debug("initializing activity")
	if err := inst.Initialize(ctx); err != nil {
		logger.Error("activity initialization failed", "error", err)
		return activity.Failed(fmt.Errorf("%w: %v", activity.ErrInitialization, err))
	}

	start := time.Now()
	result := r.execute(ctx, name, inst, logger)
	result.Duration = time.Since(start)
	if result.Timestamp.IsZero() {
		result.Timestamp = time.Now()
	}

	r.persistWrites(name, result, logger)

	if result.Success {
		logger.Info("activity completed", "success", true, "duration", result.Duration)
	} else {
		logger.Error("activity failed", "success", false, "duration", result.Duration, "error", result.Err)
	}
	return result
}

// execute runs Execute with the configured timeout. The call happens in a
// goroutine so a stuck activity cannot block the pass past its deadline; on
// timeout a failed Result with a timeout kind is recorded and the pass
// moves on.
func (r *Runner) execute(ctx context.Context, name string, inst activity.Activity, logger *slog.Logger) *activity.Result {
	execCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type outcome struct {
		result *activity.Result
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", rec)}
			}
		}()
		result, err := inst.Execute(execCtx, r.shared)
		done <- outcome{result: result, err: err}
	}()

	select {
	case <-execCtx.Done():
		logger.Warn("activity timed out", "timeout", r.timeout)
		return activity.Failed(fmt.Errorf("%w after %v", activity.ErrTimeout, r.timeout))
	case out := <-done:
		if out.err != nil {
			if execCtx.Err() != nil {
				return activity.Failed(fmt.Errorf("%w after %v", activity.ErrTimeout, r.timeout))
			}
			return activity.Failed(fmt.Errorf("%w: %v", activity.ErrExecution, out.err))
		}
		if out.result == nil {
			return activity.Failed(fmt.Errorf("%w: activity returned no result", activity.ErrExecution))
		}
		return out.result
	}
}

// persistWrites stores the activity's requested shared-memory writes. A
// rejected value only skips that write; other entries are unaffected.
func (r *Runner) persistWrites(name string, result *activity.Result, logger *slog.Logger) {
	for _, w := range result.Memory {
		if err := r.shared.Set(w.Key, w.Value, name); err != nil {
			logger.Error("failed to persist memory write", "key", w.Key, "error", err)
		}
	}
}

// record updates activity outcome metrics.
func (r *Runner) record(name string, result *activity.Result) {
	status := "success"
	if !result.Success {
		status = "failure"
	}
	r.runsCounter.With(prometheus.Labels{"activity": name, "status": status}).Inc()
	r.durationGauge.With(prometheus.Labels{"activity": name}).Set(result.Duration.Seconds())
}
