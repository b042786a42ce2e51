package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	logger, err := New(Config{})
	require.NoError(t, err)
	require.NotNil(t, logger)

	assert.Equal(t, "info", logger.config.Level)
	assert.Equal(t, "json", logger.config.Format)
	assert.Equal(t, "stdout", logger.config.Output)
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"bad level", Config{Level: "verbose"}},
		{"bad format", Config{Format: "xml"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.cfg)
			assert.Error(t, err)
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "being.log")

	logger, err := New(Config{Output: path})
	require.NoError(t, err)

	logger.Info("hello")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"WARN", slog.LevelWarn, false},
		{"trace", slog.LevelInfo, true},
	}

	for _, tc := range tests {
		level, err := parseLevel(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, level, tc.in)
	}
}

func TestCollector(t *testing.T) {
	c := NewCollector()

	c.Add("fetch_news", Entry{Level: "INFO", Message: "fetching news"})
	c.Add("fetch_news", Entry{Level: "INFO", Message: "fetched articles"})
	c.Add("post_tweet", Entry{Level: "ERROR", Message: "rate limited"})

	entries := c.Logs("fetch_news")
	require.Len(t, entries, 2)
	assert.Equal(t, "fetching news", entries[0].Message)

	assert.Nil(t, c.Logs("unknown"))

	all := c.AllLogs()
	assert.Len(t, all, 2)

	c.Clear()
	assert.Empty(t, c.AllLogs())
	assert.Nil(t, c.Logs("fetch_news"))
}

func TestCollector_LogsReturnsCopy(t *testing.T) {
	c := NewCollector()
	c.Add("a", Entry{Message: "original"})

	entries := c.Logs("a")
	entries[0].Message = "tampered"

	assert.Equal(t, "original", c.Logs("a")[0].Message)
}

func TestCapturingHandler(t *testing.T) {
	var buf bytes.Buffer
	underlying := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	collector := NewCollector()

	logger := slog.New(NewCapturingHandler(underlying, collector, "fetch_news"))
	logger.Info("fetching news", "query", "technology", "max_articles", 5)

	entries := collector.Logs("fetch_news")
	require.Len(t, entries, 1)
	assert.Equal(t, "INFO", entries[0].Level)
	assert.Equal(t, "fetching news", entries[0].Message)
	assert.Equal(t, "technology", entries[0].Attributes["query"])
	assert.Equal(t, int64(5), entries[0].Attributes["max_articles"])

	// Forwarded to the underlying handler too.
	var forwarded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &forwarded))
	assert.Equal(t, "fetching news", forwarded["msg"])
}

func TestCapturingHandler_CapturesBelowUnderlyingLevel(t *testing.T) {
	var buf bytes.Buffer
	underlying := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})
	collector := NewCollector()

	logger := slog.New(NewCapturingHandler(underlying, collector, "a"))
	logger.Debug("detail")

	// Captured even though the underlying handler filters it out.
	require.Len(t, collector.Logs("a"), 1)
	assert.Zero(t, buf.Len())
}

func TestCapturingHandler_WithPreservesCapture(t *testing.T) {
	collector := NewCollector()
	underlying := slog.NewTextHandler(&bytes.Buffer{}, nil)

	logger := slog.New(NewCapturingHandler(underlying, collector, "a")).
		With("activity", "a").
		WithGroup("details")
	logger.Info("working", "step", 1)

	entries := collector.Logs("a")
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].Attributes["activity"])
}
