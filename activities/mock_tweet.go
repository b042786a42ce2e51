package activities

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/digitalbeing/being/activity"
	"github.com/digitalbeing/being/memory"
	"github.com/digitalbeing/being/skills"
)

const (
	// KeyLatestMockTweet is the shared-memory key the composed tweet is
	// stored under.
	KeyLatestMockTweet = "latest_mock_tweet"

	defaultMaxTweetLength = 280
	fallbackTweet         = "🤖 Just another day of digital being activities! #DigitalLife"
)

// MockTweet composes a tweet from the most recent news in shared memory
// without posting anywhere. It needs no credentials, which makes it a safe
// default activity for fresh installs.
type MockTweet struct {
	Logger *slog.Logger

	MaxLength int
}

// NewMockTweet builds a MockTweet from constraint options.
func NewMockTweet(options map[string]any, logger *slog.Logger) activity.Activity {
	return &MockTweet{
		Logger:    logger,
		MaxLength: intOption(options, "max_length", defaultMaxTweetLength),
	}
}

// Initialize is a no-op; mock tweeting requires no external resources.
func (a *MockTweet) Initialize(ctx context.Context) error {
	return nil
}

// Execute composes the tweet and stores it under KeyLatestMockTweet.
func (a *MockTweet) Execute(ctx context.Context, shared *memory.Store) (*activity.Result, error) {
	content := a.composeContent(shared)
	content = truncate(content, a.MaxLength)

	a.Logger.Info("mock tweet composed", "length", len([]rune(content)))

	result := activity.Succeeded(map[string]any{
		"content": content,
		"length":  len([]rune(content)),
	})
	return result.WithMemory(activity.Write{
		Key: KeyLatestMockTweet,
		Value: map[string]any{
			"content":   content,
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}), nil
}

// composeContent builds tweet text from the latest news, falling back to a
// canned line when no news is available.
func (a *MockTweet) composeContent(shared *memory.Store) string {
	raw, ok := shared.Get(KeyLatestNews)
	if !ok {
		return fallbackTweet
	}

	var articles []skills.Article
	if err := decodeValue(raw, &articles); err != nil || len(articles) == 0 {
		return fallbackTweet
	}

	title := articles[0].Title
	if title == "" {
		title = "Interesting news"
	}
	return fmt.Sprintf("📰 Latest Update: %s #News", title)
}

// truncate shortens s to at most max runes, ending with an ellipsis when cut.
// Limits too small to fit the ellipsis cut hard instead.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// decodeValue converts a shared-memory value into a typed structure via a
// JSON round trip. Values read back from a persisted snapshot arrive as
// generic maps, so a direct type assertion is not enough.
func decodeValue(raw any, out any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
