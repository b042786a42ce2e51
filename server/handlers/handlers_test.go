package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalbeing/being/memory"
	"github.com/digitalbeing/being/server/runs"
)

type fakeRunner struct {
	err    error
	called int
}

func (f *fakeRunner) Run() error {
	f.called++
	return f.err
}

type fakeStatus struct {
	status runs.Status
}

func (f *fakeStatus) Status() runs.Status { return f.status }

type fakeHistory struct {
	records []runs.Record
}

func (f *fakeHistory) History() []runs.Record { return f.records }

type fakeMemory struct {
	entries map[string]memory.Entry
}

func (f *fakeMemory) Memory() map[string]memory.Entry { return f.entries }

type fakeSchedule struct {
	next time.Time
}

func (f *fakeSchedule) NextRun() time.Time { return f.next }

func TestHandleHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRunHandler_Accepted(t *testing.T) {
	runner := &fakeRunner{}
	rec := httptest.NewRecorder()

	NewRunHandler(runner).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/run", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, runner.called)
}

func TestRunHandler_Conflict(t *testing.T) {
	runner := &fakeRunner{err: runs.ErrPassInProgress}
	rec := httptest.NewRecorder()

	NewRunHandler(runner).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/run", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "in progress")
}

func TestRunHandler_InternalError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("boom")}
	rec := httptest.NewRecorder()

	NewRunHandler(runner).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/run", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStatusHandler(t *testing.T) {
	started := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	status := &fakeStatus{status: runs.Status{
		State:     runs.StateRunning,
		PassID:    "abc",
		StartedAt: &started,
	}}
	rec := httptest.NewRecorder()

	NewStatusHandler(status, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		Pass struct {
			State  string `json:"state"`
			PassID string `json:"pass_id"`
		} `json:"pass"`
		NextRun *time.Time `json:"next_run"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "running", resp.Pass.State)
	assert.Equal(t, "abc", resp.Pass.PassID)
	assert.Nil(t, resp.NextRun)
}

func TestStatusHandler_WithSchedule(t *testing.T) {
	next := time.Date(2026, 8, 1, 16, 0, 0, 0, time.UTC)
	rec := httptest.NewRecorder()

	handler := NewStatusHandler(&fakeStatus{}, &fakeSchedule{next: next})
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.NextRun)
	assert.True(t, next.Equal(*resp.NextRun))
}

func TestHistoryHandler(t *testing.T) {
	started := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	history := &fakeHistory{records: []runs.Record{
		{ID: "newer", StartedAt: &started, Failures: 1},
	}}
	rec := httptest.NewRecorder()

	NewHistoryHandler(history).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var records []runs.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "newer", records[0].ID)
	assert.Equal(t, 1, records[0].Failures)
}

func TestMemoryHandler(t *testing.T) {
	provider := &fakeMemory{entries: map[string]memory.Entry{
		"latest_news": {Key: "latest_news", Value: []any{}, Writer: "fetch_news", WrittenAt: time.Now()},
	}}
	rec := httptest.NewRecorder()

	NewMemoryHandler(provider).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/memory", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var entries map[string]memory.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Contains(t, entries, "latest_news")
	assert.Equal(t, "fetch_news", entries["latest_news"].Writer)
}
