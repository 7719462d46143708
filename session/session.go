// Package session holds the ephemeral per-login state: who is logged in,
// the last summary, and the last voice-recognized topic. Nothing here
// persists beyond the session TTL.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// State is the per-session mutable state. Logout discards the whole record,
// which is the explicit reset.
type State struct {
	Username   string `json:"username"`
	Summary    string `json:"summary"`
	VoiceTopic string `json:"voice_topic"`
}

// Store interface for session management
type Store interface {
	Create(ctx context.Context, state State, ttl time.Duration) (string, error)
	Get(ctx context.Context, id string) (State, error)
	Save(ctx context.Context, id string, state State) error
	Delete(ctx context.Context, id string) error
}
