// Package speech wraps the external speech-to-text and text-to-speech
// collaborators. Recognition failures are explicit error kinds, never empty
// strings masquerading as success.
package speech

import (
	"context"
	"errors"
	"io"
)

// ErrNoSpeech is returned when the audio contained no detectable speech.
var ErrNoSpeech = errors.New("no speech detected")

// ErrUnintelligible is returned when audio was captured but could not be
// decoded to text.
var ErrUnintelligible = errors.New("could not understand audio")

// Audio is a synthesized speech artifact written to working storage.
type Audio struct {
	FileName string
	Path     string
	Format   string
}

// Recognizer converts captured audio to text.
type Recognizer interface {
	Recognize(ctx context.Context, audio io.Reader) (string, error)
}

// Synthesizer converts text to a playable audio artifact.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*Audio, error)
}
