package server

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/himand/newsgenius/config"
)

// CredentialVerifier checks a username/password pair. The interface exists
// so the fixed-pair check can later be swapped for a real user store.
type CredentialVerifier interface {
	Verify(username, password string) bool
}

// StaticVerifier compares against the single fixed credential pair from
// config, as plain string equality.
type StaticVerifier struct {
	Username string
	Password string
}

func (v StaticVerifier) Verify(username, password string) bool {
	return username == v.Username && password == v.Password
}

// BcryptVerifier checks the password against a bcrypt hash, for deployments
// that refuse a plaintext password in config.
type BcryptVerifier struct {
	Username string
	Hash     []byte
}

func (v BcryptVerifier) Verify(username, password string) bool {
	if username != v.Username {
		return false
	}
	return bcrypt.CompareHashAndPassword(v.Hash, []byte(password)) == nil
}

// VerifierFromConfig prefers the bcrypt hash when both are configured.
func VerifierFromConfig(cfg config.AuthConfig) CredentialVerifier {
	if cfg.PasswordBcrypt != "" {
		return BcryptVerifier{Username: cfg.Username, Hash: []byte(cfg.PasswordBcrypt)}
	}
	return StaticVerifier{Username: cfg.Username, Password: cfg.Password}
}
