package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/himand/newsgenius/news"
	"github.com/himand/newsgenius/sentiment"
	"github.com/himand/newsgenius/session"
	"github.com/himand/newsgenius/session/inmemory"
	"github.com/himand/newsgenius/speech"
	"github.com/himand/newsgenius/summarizer"
)

type fakeSearcher struct {
	content   string
	err       error
	calls     int
	lastTopic string
}

func (f *fakeSearcher) Search(ctx context.Context, topic string) (string, error) {
	f.calls++
	f.lastTopic = topic
	return f.content, f.err
}

type fakeFeed struct {
	articles []news.Article
	err      error
}

func (f *fakeFeed) FetchFeed(ctx context.Context, category string) ([]news.Article, error) {
	return f.articles, f.err
}

type fakeProvider struct {
	prompt string
	reply  string
	err    error
	calls  int
}

func (f *fakeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.reply, f.err
}

type fixture struct {
	handler  *SummaryHandler
	store    *inmemory.Store
	searcher *fakeSearcher
	provider *fakeProvider
	feed     *fakeFeed
	id       string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := inmemory.NewStore()
	id, err := store.Create(context.Background(), session.State{Username: "admin"}, time.Hour)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	searcher := &fakeSearcher{content: "A\n\nB\n\nC"}
	fp := &fakeProvider{reply: "a plain factual summary of the topic"}
	summ, err := summarizer.New(fp)
	if err != nil {
		t.Fatalf("summarizer.New: %v", err)
	}
	feed := &fakeFeed{}
	return &fixture{
		handler: &SummaryHandler{
			Sessions:   store,
			Searcher:   searcher,
			Feed:       feed,
			Summarizer: summ,
			Classifier: sentiment.NewClassifier(),
			FeedLimit:  5,
		},
		store:    store,
		searcher: searcher,
		provider: fp,
		feed:     feed,
		id:       id,
	}
}

func (f *fixture) request(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.Set("session_id", f.id)
	return ctx, rec
}

func TestSummarizePastedArticleTakesPriority(t *testing.T) {
	e := echo.New()
	f := newFixture(t)

	ctx, rec := f.request(e, http.MethodPost, "/api/summarize",
		`{"topic":"climate policy","article":"the full pasted article text"}`)
	if err := f.handler.summarize(ctx); err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if f.searcher.calls != 0 {
		t.Fatalf("searcher called %d times for a pasted article", f.searcher.calls)
	}
	if !strings.Contains(f.provider.prompt, "the full pasted article text") {
		t.Fatalf("prompt = %q", f.provider.prompt)
	}

	var resp SummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Summary != f.provider.reply {
		t.Fatalf("summary = %q", resp.Summary)
	}
	// labels must be the ones derived from the returned summary text
	wantSent, wantSubj := sentiment.NewClassifier().Classify(resp.Summary)
	if resp.Sentiment != string(wantSent) || resp.Subjectivity != string(wantSubj) {
		t.Fatalf("labels = %s/%s, want %s/%s", resp.Sentiment, resp.Subjectivity, wantSent, wantSubj)
	}

	state, _ := f.store.Get(context.Background(), f.id)
	if state.Summary != resp.Summary {
		t.Fatalf("session summary = %q", state.Summary)
	}
}

func TestSummarizeTopicGoesThroughSearch(t *testing.T) {
	e := echo.New()
	f := newFixture(t)

	ctx, rec := f.request(e, http.MethodPost, "/api/summarize", `{"topic":"climate policy"}`)
	if err := f.handler.summarize(ctx); err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if f.searcher.calls != 1 || f.searcher.lastTopic != "climate policy" {
		t.Fatalf("searcher calls = %d topic = %q", f.searcher.calls, f.searcher.lastTopic)
	}
	if !strings.Contains(f.provider.prompt, "A\n\nB\n\nC") {
		t.Fatalf("combined content not handed to summarizer: %q", f.provider.prompt)
	}
}

func TestSummarizeBothEmptyDoesNothing(t *testing.T) {
	e := echo.New()
	f := newFixture(t)

	ctx, _ := f.request(e, http.MethodPost, "/api/summarize", `{"topic":"  ","article":"\n"}`)
	err := f.handler.summarize(ctx)
	httpErr := new(echo.HTTPError)
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400", err)
	}
	if f.searcher.calls != 0 || f.provider.calls != 0 {
		t.Fatal("no network or LLM call may happen when both inputs are empty")
	}
	state, _ := f.store.Get(context.Background(), f.id)
	if state.Summary != "" {
		t.Fatalf("summary = %q, want empty", state.Summary)
	}
}

func TestSummarizeNoArticlesIsNotFound(t *testing.T) {
	e := echo.New()
	f := newFixture(t)
	f.searcher.err = news.ErrNoArticles

	ctx, _ := f.request(e, http.MethodPost, "/api/summarize", `{"topic":"obscure topic"}`)
	err := f.handler.summarize(ctx)
	httpErr := new(echo.HTTPError)
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusNotFound {
		t.Fatalf("err = %v, want 404", err)
	}
	if f.provider.calls != 0 {
		t.Fatal("summarizer must not run without content")
	}
}

func TestSummarizeTransportErrorIsBadGateway(t *testing.T) {
	e := echo.New()
	f := newFixture(t)
	f.searcher.err = &news.TransportError{Status: "429 Too Many Requests"}

	ctx, _ := f.request(e, http.MethodPost, "/api/summarize", `{"topic":"anything"}`)
	err := f.handler.summarize(ctx)
	httpErr := new(echo.HTTPError)
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadGateway {
		t.Fatalf("err = %v, want 502", err)
	}
}

func TestSummarizeProviderFailureLeavesSummaryEmpty(t *testing.T) {
	e := echo.New()
	f := newFixture(t)
	f.provider.err = errors.New("model unavailable")

	// seed an old summary to prove the failure clears it
	state, _ := f.store.Get(context.Background(), f.id)
	state.Summary = "stale"
	if err := f.store.Save(context.Background(), f.id, state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ctx, _ := f.request(e, http.MethodPost, "/api/summarize", `{"article":"some text"}`)
	err := f.handler.summarize(ctx)
	httpErr := new(echo.HTTPError)
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadGateway {
		t.Fatalf("err = %v, want 502", err)
	}
	state, _ = f.store.Get(context.Background(), f.id)
	if state.Summary != "" {
		t.Fatalf("summary = %q, want empty after failure", state.Summary)
	}
}

func TestSummarizeExtractFailureLeavesSummaryEmpty(t *testing.T) {
	e := echo.New()
	f := newFixture(t)
	f.handler.Extract = func(ctx context.Context, pageURL string) (string, error) {
		return "", errors.New("page unreachable")
	}

	// seed an old summary to prove the failure clears it
	state, _ := f.store.Get(context.Background(), f.id)
	state.Summary = "stale"
	if err := f.store.Save(context.Background(), f.id, state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ctx, _ := f.request(e, http.MethodPost, "/api/summarize", `{"article":"https://example.org/story"}`)
	err := f.handler.summarize(ctx)
	httpErr := new(echo.HTTPError)
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadGateway {
		t.Fatalf("err = %v, want 502", err)
	}
	if f.provider.calls != 0 {
		t.Fatal("summarizer must not run without extracted content")
	}
	state, _ = f.store.Get(context.Background(), f.id)
	if state.Summary != "" {
		t.Fatalf("summary = %q, want empty after failed extraction", state.Summary)
	}
}

func TestSummarizeDisabledWithoutProvider(t *testing.T) {
	e := echo.New()
	f := newFixture(t)
	f.handler.Summarizer = nil

	ctx, _ := f.request(e, http.MethodPost, "/api/summarize", `{"topic":"anything"}`)
	err := f.handler.summarize(ctx)
	httpErr := new(echo.HTTPError)
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusServiceUnavailable {
		t.Fatalf("err = %v, want 503", err)
	}
}

func TestFeedRendersFirstFive(t *testing.T) {
	e := echo.New()
	f := newFixture(t)
	for i := 0; i < 7; i++ {
		var a news.Article
		a.Title = string(rune('a' + i))
		f.feed.articles = append(f.feed.articles, a)
	}

	ctx, rec := f.request(e, http.MethodGet, "/api/feed?category=sports", "")
	if err := f.handler.feed(ctx); err != nil {
		t.Fatalf("feed: %v", err)
	}

	var resp FeedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Articles) != 5 {
		t.Fatalf("len(articles) = %d, want 5", len(resp.Articles))
	}
	if resp.Articles[0].Title != "a" || resp.Articles[4].Title != "e" {
		t.Fatalf("order not preserved: %+v", resp.Articles)
	}
}

func TestFeedEmptyCategoryIsFine(t *testing.T) {
	e := echo.New()
	f := newFixture(t)

	ctx, rec := f.request(e, http.MethodGet, "/api/feed", "")
	if err := f.handler.feed(ctx); err != nil {
		t.Fatalf("feed: %v", err)
	}
	var resp FeedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Articles == nil || len(resp.Articles) != 0 {
		t.Fatalf("articles = %#v, want empty slice", resp.Articles)
	}
}

func TestExpiredSessionIsUnauthorized(t *testing.T) {
	e := echo.New()
	f := newFixture(t)
	_ = f.store.Delete(context.Background(), f.id)

	ctx, _ := f.request(e, http.MethodPost, "/api/summarize", `{"topic":"x"}`)
	err := f.handler.summarize(ctx)
	httpErr := new(echo.HTTPError)
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
}

func TestSpeakWithoutSummary(t *testing.T) {
	e := echo.New()
	f := newFixture(t)
	f.handler.Synthesizer = nopSynthesizer{}

	ctx, _ := f.request(e, http.MethodPost, "/api/speech", "")
	err := f.handler.speak(ctx)
	httpErr := new(echo.HTTPError)
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400", err)
	}
}

type fakeRecognizer struct {
	text string
	err  error
}

func (f fakeRecognizer) Recognize(ctx context.Context, audio io.Reader) (string, error) {
	return f.text, f.err
}

func TestRecognizeStoresVoiceTopic(t *testing.T) {
	e := echo.New()
	f := newFixture(t)
	f.handler.Recognizer = fakeRecognizer{text: "operation sindoor"}

	ctx, rec := f.request(e, http.MethodPost, "/api/voice/recognize", "")
	if err := f.handler.recognize(ctx); err != nil {
		t.Fatalf("recognize: %v", err)
	}
	var resp RecognizeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Topic != "operation sindoor" {
		t.Fatalf("topic = %q", resp.Topic)
	}
	state, _ := f.store.Get(context.Background(), f.id)
	if state.VoiceTopic != "operation sindoor" {
		t.Fatalf("session voice topic = %q", state.VoiceTopic)
	}
}

func TestRecognizeFailureKindsStayDistinct(t *testing.T) {
	e := echo.New()
	f := newFixture(t)

	cases := []struct {
		err  error
		code int
	}{
		{speech.ErrNoSpeech, http.StatusRequestTimeout},
		{speech.ErrUnintelligible, http.StatusUnprocessableEntity},
		{errors.New("service down"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		f.handler.Recognizer = fakeRecognizer{err: tc.err}
		ctx, _ := f.request(e, http.MethodPost, "/api/voice/recognize", "")
		err := f.handler.recognize(ctx)
		httpErr := new(echo.HTTPError)
		if !errors.As(err, &httpErr) || httpErr.Code != tc.code {
			t.Fatalf("recognize with %v = %v, want %d", tc.err, err, tc.code)
		}
	}
}

type nopSynthesizer struct{}

func (nopSynthesizer) Synthesize(ctx context.Context, text string) (*speech.Audio, error) {
	return nil, nil
}
