// Package skills defines the capability interfaces activities depend on
// instead of concrete vendors, plus generic HTTP implementations.
//
// Activities never talk to a specific news or social provider directly; they
// accept a NewsSource or TweetPoster and any implementation satisfying the
// capability will do. Tests substitute in-memory fakes.
package skills

import (
	"context"
	"time"
)

// Article is a single news item returned by a NewsSource.
type Article struct {
	Title   string `json:"title"`
	Topic   string `json:"topic"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
}

// NewsSource fetches news articles matching a query.
type NewsSource interface {
	// Search returns up to limit articles for the query.
	Search(ctx context.Context, query string, limit int) ([]Article, error)
}

// PostReceipt describes a successfully published post.
type PostReceipt struct {
	ID       string    `json:"id"`
	URL      string    `json:"url"`
	PostedAt time.Time `json:"posted_at"`
}

// TweetPoster publishes short posts to a social feed.
type TweetPoster interface {
	// Post publishes text and returns the receipt for the created post.
	Post(ctx context.Context, text string) (*PostReceipt, error)
}
