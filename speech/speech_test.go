package speech

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

func TestRecognizeReturnsTranscript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("language"); got != "en-US" {
			t.Errorf("language = %q, want en-US", got)
		}
		w.Write([]byte(`{"transcript":"operation sindoor","confidence":0.94}`))
	}))
	defer srv.Close()

	rec := NewHTTPRecognizer(srv.URL, "key", "en-US", 5*time.Second)
	got, err := rec.Recognize(context.Background(), strings.NewReader("fake-audio"))
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if got != "operation sindoor" {
		t.Fatalf("transcript = %q", got)
	}
}

func TestRecognizeEmptyTranscriptIsNoSpeech(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"transcript":""}`))
	}))
	defer srv.Close()

	rec := NewHTTPRecognizer(srv.URL, "", "", 5*time.Second)
	_, err := rec.Recognize(context.Background(), strings.NewReader("silence"))
	if !errors.Is(err, ErrNoSpeech) {
		t.Fatalf("err = %v, want ErrNoSpeech", err)
	}
}

func TestRecognizeUnintelligible(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	rec := NewHTTPRecognizer(srv.URL, "", "", 5*time.Second)
	_, err := rec.Recognize(context.Background(), strings.NewReader("mumble"))
	if !errors.Is(err, ErrUnintelligible) {
		t.Fatalf("err = %v, want ErrUnintelligible", err)
	}
}

func TestRecognizeServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	rec := NewHTTPRecognizer(srv.URL, "", "", 5*time.Second)
	_, err := rec.Recognize(context.Background(), strings.NewReader("audio"))
	if err == nil || errors.Is(err, ErrNoSpeech) || errors.Is(err, ErrUnintelligible) {
		t.Fatalf("err = %v, want a plain service error", err)
	}
}

func TestSynthesizeWritesArtifact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "hello world" {
			t.Errorf("q = %q", got)
		}
		w.Write([]byte("ID3-fake-mp3-bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	syn := NewHTTPSynthesizer(srv.URL, "", "en", false, dir, 5*time.Second)
	audio, err := syn.Synthesize(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if audio.Format != "mp3" || !strings.HasSuffix(audio.FileName, ".mp3") {
		t.Fatalf("unexpected audio handle: %+v", audio)
	}
	data, err := os.ReadFile(audio.Path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "ID3-fake-mp3-bytes" {
		t.Fatalf("artifact content = %q", data)
	}
}

func TestSynthesizeEmptyTextFails(t *testing.T) {
	syn := NewHTTPSynthesizer("http://unused", "", "en", false, t.TempDir(), time.Second)
	if _, err := syn.Synthesize(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty text")
	}
}
