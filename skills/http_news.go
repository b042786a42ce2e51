package skills

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrMissingAPIKey is returned when a skill is constructed without the
// credential it needs.
var ErrMissingAPIKey = errors.New("missing API key")

const defaultHTTPTimeout = 30 * time.Second

// HTTPNewsSource implements NewsSource against a JSON search endpoint:
// GET {base}/search?q=<query>&limit=<n> with a bearer token. The endpoint
// shape is provider-neutral; the base URL comes from the activity's
// constraint options.
type HTTPNewsSource struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPNewsSource creates a news source for the given endpoint.
// Returns ErrMissingAPIKey when apiKey is empty.
func NewHTTPNewsSource(baseURL, apiKey string) (*HTTPNewsSource, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w for news source", ErrMissingAPIKey)
	}
	return &HTTPNewsSource{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}, nil
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
		Topic   string `json:"topic"`
	} `json:"results"`
}

// Search queries the endpoint and returns up to limit articles.
func (s *HTTPNewsSource) Search(ctx context.Context, query string, limit int) ([]Article, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s&limit=%s",
		s.baseURL, url.QueryEscape(query), strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searching news: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("news search returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	articles := make([]Article, 0, len(parsed.Results))
	for i, result := range parsed.Results {
		if i >= limit {
			break
		}
		topic := result.Topic
		if topic == "" {
			topic = "general"
		}
		articles = append(articles, Article{
			Title:   result.Title,
			Topic:   topic,
			Summary: result.Snippet,
			URL:     result.Link,
		})
	}
	return articles, nil
}
