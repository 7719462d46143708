// Package rss serves the live feed panel from configured RSS feeds, for
// deployments without a NewsAPI key.
package rss

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/himand/newsgenius/news"
)

// Source maps feed categories to RSS URLs.
type Source struct {
	Feeds  map[string]string
	parser *gofeed.Parser
}

func NewSource(feeds map[string]string) *Source {
	normalized := make(map[string]string, len(feeds))
	for category, feedURL := range feeds {
		normalized[strings.ToLower(category)] = feedURL
	}
	return &Source{Feeds: normalized, parser: gofeed.NewParser()}
}

// FetchFeed parses the RSS feed configured for category and maps its items
// onto the shared article model.
func (s *Source) FetchFeed(ctx context.Context, category string) ([]news.Article, error) {
	feedURL, ok := s.Feeds[strings.ToLower(category)]
	if !ok {
		return nil, fmt.Errorf("no feed configured for category %q", category)
	}

	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, &news.TransportError{Err: err}
	}

	articles := make([]news.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		var a news.Article
		a.Source.Name = feed.Title
		a.Title = item.Title
		a.Description = item.Description
		a.URL = item.Link
		a.Content = item.Content
		if item.PublishedParsed != nil {
			a.PublishedAt = *item.PublishedParsed
		}
		articles = append(articles, a)
	}
	return articles, nil
}
