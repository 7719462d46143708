package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPRecognizer posts captured audio to an external recognition service.
// The service answers 200 with a transcript, 422 when the audio could not be
// decoded, and a transcript-less 200 when no speech was detected.
type HTTPRecognizer struct {
	Endpoint   string
	APIKey     string
	Language   string
	HTTPClient *http.Client
}

type recognizeResponse struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

func NewHTTPRecognizer(endpoint, apiKey, language string, timeout time.Duration) *HTTPRecognizer {
	if language == "" {
		language = "en-US"
	}
	return &HTTPRecognizer{
		Endpoint:   endpoint,
		APIKey:     apiKey,
		Language:   language,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Recognize sends the audio and returns the transcript. The three failure
// kinds stay distinct: ErrNoSpeech, ErrUnintelligible, and service errors.
func (r *HTTPRecognizer) Recognize(ctx context.Context, audio io.Reader) (string, error) {
	params := url.Values{}
	params.Add("language", r.Language)
	if r.APIKey != "" {
		params.Add("key", r.APIKey)
	}

	reqURL := fmt.Sprintf("%s?%s", r.Endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, audio)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("recognition service unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return "", ErrUnintelligible
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("recognition service error: %s - %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var result recognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	transcript := strings.TrimSpace(result.Transcript)
	if transcript == "" {
		return "", ErrNoSpeech
	}
	return transcript, nil
}
