// Package newsapi implements topic search and the live feed against the
// NewsAPI "everything" endpoint.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/himand/newsgenius/news"
)

type response struct {
	Status       string         `json:"status"`
	TotalResults int            `json:"totalResults"`
	Articles     []news.Article `json:"articles"`
}

// Client talks to NewsAPI. Every call is a fresh round trip: no caching,
// no retries.
type Client struct {
	APIKey      string
	Endpoint    string
	Language    string
	MaxArticles int
	HTTPClient  *http.Client
}

func NewClient(apiKey, endpoint, language string, maxArticles int, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = "https://newsapi.org/v2/everything"
	}
	if language == "" {
		language = "en"
	}
	if maxArticles <= 0 {
		maxArticles = 3
	}
	return &Client{
		APIKey:      apiKey,
		Endpoint:    endpoint,
		Language:    language,
		MaxArticles: maxArticles,
		HTTPClient:  &http.Client{Timeout: timeout},
	}
}

// Search fetches relevance-sorted articles for topic and combines the first
// MaxArticles into one text block. Full content is preferred over the
// description; articles carrying neither contribute nothing. Zero matches is
// news.ErrNoArticles.
func (c *Client) Search(ctx context.Context, topic string) (string, error) {
	articles, err := c.query(ctx, topic, "relevancy")
	if err != nil {
		return "", err
	}
	if len(articles) == 0 {
		return "", news.ErrNoArticles
	}

	var combined strings.Builder
	for i, article := range articles {
		if i >= c.MaxArticles {
			break
		}
		content := article.Content
		if content == "" {
			content = article.Description
		}
		combined.WriteString(content)
		combined.WriteString("\n\n")
	}
	return strings.TrimSpace(combined.String()), nil
}

// FetchFeed fetches recency-sorted articles for a category. The caller is
// responsible for truncating the list for display.
func (c *Client) FetchFeed(ctx context.Context, category string) ([]news.Article, error) {
	return c.query(ctx, category, "publishedAt")
}

func (c *Client) query(ctx context.Context, q, sortBy string) ([]news.Article, error) {
	params := url.Values{}
	params.Add("q", q)
	params.Add("language", c.Language)
	params.Add("sortBy", sortBy)
	params.Add("apiKey", c.APIKey)

	reqURL := fmt.Sprintf("%s?%s", c.Endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &news.TransportError{Err: err}
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &news.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &news.TransportError{Status: fmt.Sprintf("%s - %s", resp.Status, strings.TrimSpace(string(body)))}
	}

	var result response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &news.TransportError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return result.Articles, nil
}
