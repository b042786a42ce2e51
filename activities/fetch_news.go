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
	// NewsAPIKeyEnv is the environment variable supplying the news search
	// credential, read once at Initialize.
	NewsAPIKeyEnv = "NEWS_API_KEY"

	// KeyLatestNews is the shared-memory key the fetched articles are
	// stored under, for later activities to build on.
	KeyLatestNews = "latest_news"

	defaultNewsQuery      = "latest technology news"
	defaultMaxArticles    = 5
	defaultNewsEndpoint   = "https://api.news.example.com"
	fetchNewsActivityName = "fetch_news"
)

// FetchNews retrieves current news articles and stores them in shared
// memory under KeyLatestNews.
type FetchNews struct {
	Logger *slog.Logger

	// Source is the news capability. Left nil, Initialize builds an HTTP
	// source from the endpoint option and the NEWS_API_KEY credential.
	Source skills.NewsSource

	Query       string
	MaxArticles int
	Endpoint    string
}

// NewFetchNews builds a FetchNews from constraint options.
func NewFetchNews(options map[string]any, logger *slog.Logger) activity.Activity {
	return &FetchNews{
		Logger:      logger,
		Query:       stringOption(options, "query", defaultNewsQuery),
		MaxArticles: intOption(options, "max_articles", defaultMaxArticles),
		Endpoint:    stringOption(options, "endpoint", defaultNewsEndpoint),
	}
}

// Initialize prepares the news source. It fails when no credential is
// configured, which the runner records as an initialization failure.
func (a *FetchNews) Initialize(ctx context.Context) error {
	if a.Source != nil {
		return nil
	}

	apiKey := os.Getenv(NewsAPIKeyEnv)
	source, err := skills.NewHTTPNewsSource(a.Endpoint, apiKey)
	if err != nil {
		return fmt.Errorf("news source unavailable (set %s): %w", NewsAPIKeyEnv, err)
	}
	a.Source = source
	return nil
}

// Execute fetches articles and requests a shared-memory write of the batch.
func (a *FetchNews) Execute(ctx context.Context, shared *memory.Store) (*activity.Result, error) {
	a.Logger.Info("fetching news", "query", a.Query, "max_articles", a.MaxArticles)

	articles, err := a.Source.Search(ctx, a.Query, a.MaxArticles)
	if err != nil {
		return nil, fmt.Errorf("fetching articles: %w", err)
	}

	a.Logger.Info("fetched articles", "count", len(articles))

	result := activity.Succeeded(map[string]any{
		"articles": articles,
		"count":    len(articles),
	})
	return result.WithMemory(activity.Write{Key: KeyLatestNews, Value: articles}), nil
}
