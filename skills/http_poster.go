package skills

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPTweetPoster implements TweetPoster against a JSON posting endpoint:
// POST {base}/posts with {"text": ...} and a bearer token.
type HTTPTweetPoster struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// NewHTTPTweetPoster creates a poster for the given endpoint.
// Returns ErrMissingAPIKey when apiToken is empty.
func NewHTTPTweetPoster(baseURL, apiToken string) (*HTTPTweetPoster, error) {
	if apiToken == "" {
		return nil, fmt.Errorf("%w for tweet poster", ErrMissingAPIKey)
	}
	return &HTTPTweetPoster{
		baseURL:    baseURL,
		apiToken:   apiToken,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}, nil
}

type postRequest struct {
	Text string `json:"text"`
}

type postResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Post publishes text and returns the receipt.
func (p *HTTPTweetPoster) Post(ctx context.Context, text string) (*PostReceipt, error) {
	body, err := json.Marshal(postRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("encoding post request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/posts", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating post request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting tweet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("post returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed postResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding post response: %w", err)
	}

	return &PostReceipt{
		ID:       parsed.ID,
		URL:      parsed.URL,
		PostedAt: time.Now(),
	}, nil
}
