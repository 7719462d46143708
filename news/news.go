// Package news defines the article model and the retrieval contracts shared
// by the NewsAPI and RSS sources.
package news

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Article is a single feed entry as rendered in the live feed panel.
type Article struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Content     string    `json:"content,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
}

// ErrNoArticles is returned when a search matched zero articles. It is
// distinct from a transport failure: the endpoint answered, there was just
// nothing to read.
var ErrNoArticles = errors.New("no matching articles")

// TransportError carries the status or network failure of a retrieval call
// for display to the user.
type TransportError struct {
	Status string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("news request failed: %v", e.Err)
	}
	return fmt.Sprintf("news request failed: %s", e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Searcher fetches and combines article text for a free-text topic.
type Searcher interface {
	Search(ctx context.Context, topic string) (string, error)
}

// FeedSource fetches recent articles for a category. A category with no
// recent articles yields an empty slice, not an error.
type FeedSource interface {
	FetchFeed(ctx context.Context, category string) ([]Article, error)
}
