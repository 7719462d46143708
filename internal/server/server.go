package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/himand/newsgenius/config"
	"github.com/himand/newsgenius/news"
	"github.com/himand/newsgenius/news/newsapi"
	"github.com/himand/newsgenius/news/rss"
	"github.com/himand/newsgenius/pdfexport"
	"github.com/himand/newsgenius/provider/gemini"
	"github.com/himand/newsgenius/sentiment"
	"github.com/himand/newsgenius/session"
	"github.com/himand/newsgenius/session/inmemory"
	"github.com/himand/newsgenius/session/redisstore"
	"github.com/himand/newsgenius/speech"
	"github.com/himand/newsgenius/summarizer"
)

// Run wires the collaborators from config and serves the JSON API.
func Run(cfg *config.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, HTTPError{Error: msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Cookie", "Authorization"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	pipeLogger := log.New(log.Writer(), "[PIPE] ", log.LstdFlags)

	// session store: redis when configured, in-memory otherwise
	var sessions session.Store
	if cfg.Storage.Redis.Host != "" {
		rs := redisstore.NewStore(
			fmt.Sprintf("%s:%s", cfg.Storage.Redis.Host, cfg.Storage.Redis.Port),
			cfg.Storage.Redis.Password, cfg.Storage.Redis.DB)
		if err := rs.Ping(context.Background()); err != nil {
			return fmt.Errorf("redis connection failed (%s:%s): %w", cfg.Storage.Redis.Host, cfg.Storage.Redis.Port, err)
		}
		sessions = rs
	} else {
		sessions = inmemory.NewStore()
	}

	newsClient := newsapi.NewClient(
		cfg.NewsAPI.APIKey, cfg.NewsAPI.Endpoint, cfg.NewsAPI.Language,
		cfg.NewsAPI.MaxArticles, cfg.NewsAPI.Timeout)

	var feed news.FeedSource = newsClient
	if cfg.Feed.Source == "rss" {
		feed = rss.NewSource(cfg.Feed.RSS)
	}

	// a missing LLM credential disables summarize for the whole run rather
	// than crashing or failing per call
	var summ *summarizer.Summarizer
	if cfg.Providers.Gemini.APIKey != "" {
		llm, err := gemini.NewClient(
			cfg.Providers.Gemini.APIKey, cfg.Providers.Gemini.Model, cfg.Providers.Gemini.Endpoint,
			cfg.Providers.Gemini.Temperature, cfg.Providers.Gemini.MaxTokens, cfg.Providers.Gemini.Timeout)
		if err != nil {
			return err
		}
		summ, err = summarizer.New(llm)
		if err != nil {
			return err
		}
	} else {
		pipeLogger.Printf("gemini api key not configured; summarize feature disabled")
	}

	var recognizer speech.Recognizer
	if cfg.Speech.Recognition.Endpoint != "" {
		recognizer = speech.NewHTTPRecognizer(
			cfg.Speech.Recognition.Endpoint, cfg.Speech.Recognition.APIKey,
			cfg.Speech.Recognition.Language, cfg.Speech.Recognition.Timeout)
	} else {
		pipeLogger.Printf("recognition endpoint not configured; voice input disabled")
	}

	var synthesizer speech.Synthesizer
	if cfg.Speech.TTS.Endpoint != "" {
		synthesizer = speech.NewHTTPSynthesizer(
			cfg.Speech.TTS.Endpoint, cfg.Speech.TTS.APIKey, cfg.Speech.TTS.Language,
			cfg.Speech.TTS.Slow, cfg.Artifacts.Dir, cfg.Speech.TTS.Timeout)
	} else {
		pipeLogger.Printf("tts endpoint not configured; speech output disabled")
	}

	if err := os.MkdirAll(cfg.Artifacts.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifacts dir: %w", err)
	}
	e.Static("/artifacts", cfg.Artifacts.Dir)

	api := e.Group("/api")

	auth := &AuthHandler{
		Sessions: sessions,
		Verifier: VerifierFromConfig(cfg.Auth),
		Secret:   []byte(cfg.Auth.JWTSecret),
		TTL:      cfg.Auth.SessionTTL,
	}
	auth.Register(api.Group("/auth"))

	protected := api.Group("")
	protected.Use(func(next echo.HandlerFunc) echo.HandlerFunc { return withAuth(next, auth.Secret) })

	sh := &SummaryHandler{
		Sessions:    sessions,
		Searcher:    newsClient,
		Feed:        feed,
		Summarizer:  summ,
		Classifier:  sentiment.NewClassifier(),
		Recognizer:  recognizer,
		Synthesizer: synthesizer,
		Exporter:    pdfexport.NewExporter(cfg.Artifacts.Dir),
		Extract: func(ctx context.Context, pageURL string) (string, error) {
			article, err := readability.FromURL(pageURL, 30*time.Second)
			if err != nil {
				return "", err
			}
			return article.TextContent, nil
		},
		FeedLimit: cfg.Feed.Limit,
		Logger:    pipeLogger,
	}
	sh.Register(protected)

	addr := cfg.General.Listen
	if addr == "" {
		addr = ":8501"
	}
	baseLogger.Printf("listening on %s", addr)
	return e.Start(addr)
}
