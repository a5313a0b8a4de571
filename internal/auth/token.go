package auth

import (
	"sync"
	"time"

	"github.com/fivetwenty-io/ghostctl/internal/constants"
)

// Token is a signed admin token. A new Token is created for every regeneration.
type Token struct {
	AccessToken string
	TokenType   string
	KeyID       string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// Valid reports whether the token can still be sent, keeping the expiration buffer.
func (t *Token) Valid() bool {
	return t.ValidFor(time.Now(), constants.TokenExpirationBuffer)
}

// ValidFor reports whether more than margin remains before the token expires at now.
// Tokens without an expiry are never valid.
func (t *Token) ValidFor(now time.Time, margin time.Duration) bool {
	if t == nil || t.AccessToken == "" || t.ExpiresAt.IsZero() {
		return false
	}

	return now.Add(margin).Before(t.ExpiresAt)
}

// String hides the signed value.
func (t *Token) String() string {
	if t == nil {
		return "<nil>"
	}

	return t.TokenType + " " + constants.RedactedValue + " (kid " + t.KeyID + ", expires " + t.ExpiresAt.Format(time.RFC3339) + ")"
}

// TokenStore provides thread-safe token storage.
type TokenStore struct {
	mu    sync.RWMutex
	token *Token
}

// NewTokenStore creates a new token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the current token.
func (s *TokenStore) Get() *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Set updates the stored token.
func (s *TokenStore) Set(token *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}

// Clear removes the stored token.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
}
