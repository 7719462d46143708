package server

import "github.com/himand/newsgenius/news"

// HTTPError is the unified error body returned by the JSON error handler.
type HTTPError struct {
	Error string `json:"error"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type MeResponse struct {
	Username string `json:"username"`
}

// SummarizeRequest carries the user's topic and/or pasted article. A
// non-empty article takes priority over the topic.
type SummarizeRequest struct {
	Topic   string `json:"topic"`
	Article string `json:"article"`
}

// SummaryResponse bundles the summary with labels derived from that exact
// text. The labels are never served stale relative to the summary or to
// each other.
type SummaryResponse struct {
	Summary      string `json:"summary"`
	Sentiment    string `json:"sentiment"`
	Subjectivity string `json:"subjectivity"`
}

type RecognizeResponse struct {
	Topic string `json:"topic"`
}

type SpeechResponse struct {
	AudioURL string `json:"audio_url"`
}

type ExportResponse struct {
	DocumentURL string `json:"document_url"`
}

type FeedResponse struct {
	Articles []news.Article `json:"articles"`
}
