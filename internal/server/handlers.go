package server

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/himand/newsgenius/news"
	"github.com/himand/newsgenius/pdfexport"
	"github.com/himand/newsgenius/sentiment"
	"github.com/himand/newsgenius/session"
	"github.com/himand/newsgenius/speech"
	"github.com/himand/newsgenius/summarizer"
)

// SummaryHandler orchestrates one user action per request: topic or pasted
// text in, summary plus labels out, with speech/PDF/feed as side panels.
// Collaborators left nil disable their feature with a 503 instead of
// failing at startup.
type SummaryHandler struct {
	Sessions    session.Store
	Searcher    news.Searcher
	Feed        news.FeedSource
	Summarizer  *summarizer.Summarizer
	Classifier  *sentiment.Classifier
	Recognizer  speech.Recognizer
	Synthesizer speech.Synthesizer
	Exporter    *pdfexport.Exporter
	// Extract pulls readable text out of a pasted URL. Nil means pasted
	// URLs are summarized as literal text.
	Extract   func(ctx context.Context, pageURL string) (string, error)
	FeedLimit int
	Logger    *log.Logger
}

func (h *SummaryHandler) Register(g *echo.Group) {
	g.GET("/me", h.me)
	g.POST("/summarize", instrument("summarize", h.summarize))
	g.POST("/voice/recognize", instrument("recognize", h.recognize))
	g.POST("/speech", instrument("speak", h.speak))
	g.POST("/export/pdf", instrument("export_pdf", h.exportPDF))
	g.GET("/feed", instrument("feed", h.feed))
}

func instrument(action string, fn echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := fn(c)
		observe(action, err)
		return err
	}
}

// state loads the session for the authenticated request.
func (h *SummaryHandler) state(c echo.Context) (string, session.State, error) {
	id, _ := c.Get("session_id").(string)
	state, err := h.Sessions.Get(c.Request().Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		return "", session.State{}, echo.NewHTTPError(http.StatusUnauthorized, "session expired")
	}
	if err != nil {
		return "", session.State{}, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return id, state, nil
}

func (h *SummaryHandler) me(c echo.Context) error {
	_, state, err := h.state(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MeResponse{Username: state.Username})
}

// summarize runs the full pipeline: pasted article text wins over the
// topic; a topic goes through news search first; the summary and both
// labels are derived together and stored on the session.
func (h *SummaryHandler) summarize(c echo.Context) error {
	var req SummarizeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	id, state, err := h.state(c)
	if err != nil {
		return err
	}

	article := strings.TrimSpace(req.Article)
	topic := strings.TrimSpace(req.Topic)
	if article == "" && topic == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "enter or speak a topic, or paste an article first")
	}
	if h.Summarizer == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "summarizer is not configured")
	}

	// any earlier summary is stale the moment a new request starts
	state.Summary = ""

	ctx := c.Request().Context()
	var summaryText string
	if article != "" {
		content := article
		if h.Extract != nil && looksLikeURL(article) {
			content, err = h.Extract(ctx, article)
			if err != nil {
				_ = h.Sessions.Save(ctx, id, state)
				return echo.NewHTTPError(http.StatusBadGateway, "could not extract article: "+err.Error())
			}
		}
		summaryText, err = h.Summarizer.SummarizeArticle(ctx, content)
	} else {
		if h.Logger != nil {
			h.Logger.Printf("searching and summarizing topic %q", topic)
		}
		var content string
		content, err = h.Searcher.Search(ctx, topic)
		if errors.Is(err, news.ErrNoArticles) {
			_ = h.Sessions.Save(ctx, id, state)
			return echo.NewHTTPError(http.StatusNotFound, "no relevant news articles found for topic '"+topic+"'")
		}
		if err != nil {
			_ = h.Sessions.Save(ctx, id, state)
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		}
		summaryText, err = h.Summarizer.SummarizeTopic(ctx, content)
	}
	if err != nil {
		_ = h.Sessions.Save(ctx, id, state)
		return echo.NewHTTPError(http.StatusBadGateway, "error during summarization: "+err.Error())
	}

	// both labels come from the summary text just produced
	sentimentLabel, subjectivityLabel := h.Classifier.Classify(summaryText)

	state.Summary = summaryText
	if err := h.Sessions.Save(ctx, id, state); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, SummaryResponse{
		Summary:      summaryText,
		Sentiment:    string(sentimentLabel),
		Subjectivity: string(subjectivityLabel),
	})
}

// recognize converts uploaded audio to a topic string and remembers it on
// the session so the UI can offer it for editing.
func (h *SummaryHandler) recognize(c echo.Context) error {
	if h.Recognizer == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "voice input is not configured")
	}
	id, state, err := h.state(c)
	if err != nil {
		return err
	}

	var audio io.Reader = c.Request().Body
	if file, err := c.FormFile("audio"); err == nil {
		f, err := file.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		defer f.Close()
		audio = f
	}

	ctx := c.Request().Context()
	topic, err := h.Recognizer.Recognize(ctx, audio)
	switch {
	case errors.Is(err, speech.ErrNoSpeech):
		return echo.NewHTTPError(http.StatusRequestTimeout, "no speech detected within the time limit")
	case errors.Is(err, speech.ErrUnintelligible):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "speech recognition could not understand audio")
	case err != nil:
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	state.VoiceTopic = topic
	if err := h.Sessions.Save(ctx, id, state); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, RecognizeResponse{Topic: topic})
}

// speak synthesizes the current session summary to an mp3 artifact.
func (h *SummaryHandler) speak(c echo.Context) error {
	if h.Synthesizer == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "speech output is not configured")
	}
	_, state, err := h.state(c)
	if err != nil {
		return err
	}
	if state.Summary == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "no summary to speak")
	}

	audio, err := h.Synthesizer.Synthesize(c.Request().Context(), state.Summary)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "error generating speech: "+err.Error())
	}
	return c.JSON(http.StatusOK, SpeechResponse{AudioURL: "/artifacts/" + audio.FileName})
}

// exportPDF renders the current session summary as a downloadable PDF.
func (h *SummaryHandler) exportPDF(c echo.Context) error {
	_, state, err := h.state(c)
	if err != nil {
		return err
	}
	if state.Summary == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "no summary to export")
	}

	doc, err := h.Exporter.Export(state.Summary)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "error creating pdf: "+err.Error())
	}
	return c.JSON(http.StatusOK, ExportResponse{DocumentURL: "/artifacts/" + doc.FileName})
}

// feed returns the live feed panel for a category, truncated for display.
func (h *SummaryHandler) feed(c echo.Context) error {
	if _, _, err := h.state(c); err != nil {
		return err
	}
	category := c.QueryParam("category")
	if category == "" {
		category = "general"
	}

	articles, err := h.Feed.FetchFeed(c.Request().Context(), strings.ToLower(category))
	if err != nil {
		var te *news.TransportError
		if errors.As(err, &te) {
			return echo.NewHTTPError(http.StatusBadGateway, "failed to fetch news: "+te.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	limit := h.FeedLimit
	if limit <= 0 {
		limit = 5
	}
	if len(articles) > limit {
		articles = articles[:limit]
	}
	if articles == nil {
		articles = []news.Article{}
	}
	return c.JSON(http.StatusOK, FeedResponse{Articles: articles})
}

func looksLikeURL(s string) bool {
	if strings.ContainsAny(s, " \t\n") {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
