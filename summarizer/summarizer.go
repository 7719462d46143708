// Package summarizer renders article text into the fixed news-assistant
// prompt and hands it to an LLM provider.
package summarizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/himand/newsgenius/provider"
)

const articlePrompt = "You are a news assistant. Summarize the following article in simple language, within 150 words:\n\n%s\n\nSummary:"

const topicPrompt = "You are a news assistant. Based on the following information, provide a concise summary for the topic in simple language, within 150 words:\n\n%s\n\nSummary:"

// Summarizer wraps an LLM provider with the fixed prompt templates. The
// 150-word bound is a prompt instruction only; output length is not
// validated or truncated.
type Summarizer struct {
	provider provider.Provider
}

// New refuses a nil provider so a missing LLM configuration fails fast
// rather than on every call.
func New(p provider.Provider) (*Summarizer, error) {
	if p == nil {
		return nil, errors.New("summarizer: provider is nil")
	}
	return &Summarizer{provider: p}, nil
}

// SummarizeArticle summarizes a full article text pasted by the user.
func (s *Summarizer) SummarizeArticle(ctx context.Context, content string) (string, error) {
	return s.complete(ctx, fmt.Sprintf(articlePrompt, content))
}

// SummarizeTopic summarizes combined search results for a topic.
func (s *Summarizer) SummarizeTopic(ctx context.Context, content string) (string, error) {
	return s.complete(ctx, fmt.Sprintf(topicPrompt, content))
}

func (s *Summarizer) complete(ctx context.Context, prompt string) (string, error) {
	summary, err := s.provider.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("summarization failed: %w", err)
	}
	return summary, nil
}
