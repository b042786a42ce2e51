package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalbeing/being/server/config"
	"github.com/digitalbeing/being/server/runs"
)

// newTestServer wires a full server against temp config files. Only the
// credential-free mock_tweet activity is enabled, so passes run without
// network access.
func newTestServer(t *testing.T, schedule string) *Server {
	t.Helper()
	dir := t.TempDir()

	constraintsPath := filepath.Join(dir, "constraints.json")
	require.NoError(t, os.WriteFile(constraintsPath, []byte(`{
		"mock_tweet": {"enabled": true},
		"fetch_news": {"enabled": false},
		"post_tweet": {"enabled": false}
	}`), 0644))

	beingConfigPath := filepath.Join(dir, "config.yaml")
	beingConfig := fmt.Sprintf(`
constraints:
  path: %s
memory:
  state_file: %s
logging:
  level: error
  output: %s
`, constraintsPath, filepath.Join(dir, "memory.json"), filepath.Join(dir, "being.log"))
	require.NoError(t, os.WriteFile(beingConfigPath, []byte(beingConfig), 0644))

	srv, err := New(&config.ServerConfig{
		Listener:     config.ListenerConfig{Addr: ":0"},
		Schedule:     schedule,
		HistoryDir:   filepath.Join(dir, "history"),
		HistoryLimit: 10,
		BeingConfig:  beingConfigPath,
	})
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t, "")

	rec := get(t, srv.routes(), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestServer_RunAndStatus(t *testing.T) {
	srv := newTestServer(t, "")
	mux := srv.routes()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/run", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)

	require.Eventually(t, func() bool {
		return !srv.manager.IsRunning()
	}, 5*time.Second, 10*time.Millisecond)

	rec = get(t, mux, "/api/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var status struct {
		Pass struct {
			State      string                 `json:"state"`
			Failures   int                    `json:"failures"`
			Executions []runs.ExecutionRecord `json:"executions"`
		} `json:"pass"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "idle", status.Pass.State)
	assert.Equal(t, 0, status.Pass.Failures)
	require.Len(t, status.Pass.Executions, 1)
	assert.Equal(t, "mock_tweet", status.Pass.Executions[0].Activity)
	assert.True(t, status.Pass.Executions[0].Success)
}

func TestServer_HistoryAndMemoryAfterPass(t *testing.T) {
	srv := newTestServer(t, "")
	mux := srv.routes()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/run", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)

	require.Eventually(t, func() bool {
		return len(srv.manager.History()) == 1
	}, 5*time.Second, 10*time.Millisecond)

	rec = get(t, mux, "/history")
	require.Equal(t, http.StatusOK, rec.Code)
	var records []runs.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)

	rec = get(t, mux, "/memory")
	require.Equal(t, http.StatusOK, rec.Code)
	var entries map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Contains(t, entries, "latest_mock_tweet")
}

func TestServer_Metrics(t *testing.T) {
	srv := newTestServer(t, "")

	rec := get(t, srv.routes(), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, "")

	rec := get(t, srv.routes(), "/run")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNew_InvalidSchedule(t *testing.T) {
	dir := t.TempDir()
	constraintsPath := filepath.Join(dir, "constraints.json")
	require.NoError(t, os.WriteFile(constraintsPath, []byte(`{"mock_tweet": {"enabled": true}}`), 0644))

	beingConfigPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(beingConfigPath, []byte(fmt.Sprintf("constraints:\n  path: %s\n", constraintsPath)), 0644))

	_, err := New(&config.ServerConfig{
		Listener:    config.ListenerConfig{Addr: ":0"},
		Schedule:    "not a schedule",
		BeingConfig: beingConfigPath,
	})
	assert.Error(t, err)
}

func TestNew_MissingConstraints(t *testing.T) {
	dir := t.TempDir()
	beingConfigPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(beingConfigPath, []byte(fmt.Sprintf(
		"constraints:\n  path: %s\n", filepath.Join(dir, "absent.json"))), 0644))

	_, err := New(&config.ServerConfig{
		Listener:    config.ListenerConfig{Addr: ":0"},
		BeingConfig: beingConfigPath,
	})
	assert.Error(t, err)
}
