package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// HTTPSynthesizer fetches MP3 audio for a text from a translate-style TTS
// endpoint and writes it to the artifacts directory. Artifacts are kept for
// playback and never cleaned up.
type HTTPSynthesizer struct {
	Endpoint   string
	APIKey     string
	Language   string
	Slow       bool
	Dir        string
	HTTPClient *http.Client
}

func NewHTTPSynthesizer(endpoint, apiKey, language string, slow bool, dir string, timeout time.Duration) *HTTPSynthesizer {
	if language == "" {
		language = "en"
	}
	return &HTTPSynthesizer{
		Endpoint:   endpoint,
		APIKey:     apiKey,
		Language:   language,
		Slow:       slow,
		Dir:        dir,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Synthesize converts text to an mp3 artifact. Empty input is an error.
func (s *HTTPSynthesizer) Synthesize(ctx context.Context, text string) (*Audio, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("no text provided to speak")
	}

	params := url.Values{}
	params.Add("ie", "UTF-8")
	params.Add("q", text)
	params.Add("tl", s.Language)
	params.Add("client", "tw-ob")
	if s.Slow {
		params.Add("ttsspeed", "0.3")
	}
	if s.APIKey != "" {
		params.Add("key", s.APIKey)
	}

	reqURL := fmt.Sprintf("%s?%s", s.Endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("synthesis service error: %s", resp.Status)
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifacts dir: %w", err)
	}
	fileName := fmt.Sprintf("summary-%s.mp3", uuid.NewString())
	path := filepath.Join(s.Dir, fileName)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return nil, fmt.Errorf("failed to write audio file: %w", err)
	}
	return &Audio{FileName: fileName, Path: path, Format: "mp3"}, nil
}
