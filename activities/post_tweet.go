package activities

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/digitalbeing/being/activity"
	"github.com/digitalbeing/being/memory"
	"github.com/digitalbeing/being/skills"
)

const (
	// PosterAPITokenEnv is the environment variable supplying the posting
	// credential, read once at Initialize.
	PosterAPITokenEnv = "POSTER_API_TOKEN"

	// KeyLatestTweet is the shared-memory key the receipt of the last
	// published post is stored under.
	KeyLatestTweet = "latest_tweet"

	defaultPosterEndpoint = "https://api.social.example.com"
)

// PostTweet publishes the most recently composed tweet from shared memory.
// It posts the content stored by MockTweet, or the fallback line when no
// tweet has been composed this pass.
type PostTweet struct {
	Logger *slog.Logger

	// Poster is the publishing capability. Left nil, Initialize builds an
	// HTTP poster from the endpoint option and the POSTER_API_TOKEN
	// credential.
	Poster skills.TweetPoster

	MaxLength int
	Endpoint  string
}

// NewPostTweet builds a PostTweet from constraint options.
func NewPostTweet(options map[string]any, logger *slog.Logger) activity.Activity {
	return &PostTweet{
		Logger:    logger,
		MaxLength: intOption(options, "max_length", defaultMaxTweetLength),
		Endpoint:  stringOption(options, "endpoint", defaultPosterEndpoint),
	}
}

// Initialize prepares the poster. It fails when no credential is configured.
func (a *PostTweet) Initialize(ctx context.Context) error {
	if a.Poster != nil {
		return nil
	}

	token := os.Getenv(PosterAPITokenEnv)
	poster, err := skills.NewHTTPTweetPoster(a.Endpoint, token)
	if err != nil {
		return fmt.Errorf("tweet poster unavailable (set %s): %w", PosterAPITokenEnv, err)
	}
	a.Poster = poster
	return nil
}

// Execute publishes the tweet and records the receipt in shared memory.
func (a *PostTweet) Execute(ctx context.Context, shared *memory.Store) (*activity.Result, error) {
	content := a.pickContent(shared)
	content = truncate(content, a.MaxLength)

	a.Logger.Info("posting tweet", "length", len([]rune(content)))

	receipt, err := a.Poster.Post(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("posting tweet: %w", err)
	}

	a.Logger.Info("tweet posted", "id", receipt.ID, "url", receipt.URL)

	result := activity.Succeeded(map[string]any{
		"content": content,
		"id":      receipt.ID,
		"url":     receipt.URL,
	})
	return result.WithMemory(activity.Write{Key: KeyLatestTweet, Value: receipt}), nil
}

// pickContent selects the text to publish: the latest composed tweet when
// one exists, otherwise the fallback line.
func (a *PostTweet) pickContent(shared *memory.Store) string {
	raw, ok := shared.Get(KeyLatestMockTweet)
	if !ok {
		return fallbackTweet
	}

	var stored struct {
		Content string `json:"content"`
	}
	if err := decodeValue(raw, &stored); err != nil || stored.Content == "" {
		return fallbackTweet
	}
	return stored.Content
}
