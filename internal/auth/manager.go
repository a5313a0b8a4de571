package auth

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fivetwenty-io/ghostctl/internal/constants"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// TokenManager hands out admin tokens to the HTTP layer.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) error
}

// JWTTokenManager caches the latest generated token and regenerates it
// once less than the expiration buffer remains.
type JWTTokenManager struct {
	generator *Generator
	store     *TokenStore
	buffer    time.Duration
	mutex     sync.Mutex

	hits        atomic.Int64
	misses      atomic.Int64
	generations atomic.Int64
}

// NewJWTTokenManager creates a token manager backed by generator.
func NewJWTTokenManager(generator *Generator) *JWTTokenManager {
	return &JWTTokenManager{
		generator: generator,
		store:     NewTokenStore(),
		buffer:    constants.TokenExpirationBuffer,
	}
}

// NewJWTTokenManagerFromKey parses an admin key and builds a manager for it.
func NewJWTTokenManagerFromKey(adminKey string, opts ...GeneratorOption) (*JWTTokenManager, error) {
	credential, err := ParseCredential(adminKey)
	if err != nil {
		return nil, err
	}

	return NewJWTTokenManager(NewGenerator(credential, opts...)), nil
}

// SetExpirationBuffer changes the remaining lifetime below which a token is regenerated.
func (m *JWTTokenManager) SetExpirationBuffer(buffer time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.buffer = buffer
}

// GetToken returns a cached token or signs a new one.
func (m *JWTTokenManager) GetToken(ctx context.Context) (string, error) {
	err := ctx.Err()
	if err != nil {
		return "", fmt.Errorf("getting admin token: %w", err)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	token := m.store.Get()
	if token.ValidFor(m.generator.Now(), m.buffer) {
		m.hits.Add(1)

		return token.AccessToken, nil
	}

	m.misses.Add(1)

	token, err = m.generate()
	if err != nil {
		return "", err
	}

	return token.AccessToken, nil
}

// RefreshToken discards the cached token and signs a new one.
func (m *JWTTokenManager) RefreshToken(ctx context.Context) error {
	err := ctx.Err()
	if err != nil {
		return fmt.Errorf("refreshing admin token: %w", err)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.store.Clear()

	_, err = m.generate()

	return err
}

// IsTokenExpiringSoon returns true if the token expires within the given duration.
func (m *JWTTokenManager) IsTokenExpiringSoon(within time.Duration) bool {
	return !m.store.Get().ValidFor(m.generator.Now(), within)
}

// GetTokenExpiry returns the current token's expiration time.
func (m *JWTTokenManager) GetTokenExpiry() time.Time {
	token := m.store.Get()
	if token == nil {
		return time.Time{}
	}

	return token.ExpiresAt
}

// KeyID returns the identifier of the managed credential.
func (m *JWTTokenManager) KeyID() string {
	return m.generator.KeyID()
}

// Stats returns token cache counters.
func (m *JWTTokenManager) Stats() ghost.TokenStats {
	return ghost.TokenStats{
		Hits:        m.hits.Load(),
		Misses:      m.misses.Load(),
		Generations: m.generations.Load(),
		ExpiresAt:   m.GetTokenExpiry(),
	}
}

func (m *JWTTokenManager) generate() (*Token, error) {
	token, err := m.generator.Generate()
	if err != nil {
		return nil, err
	}

	m.generations.Add(1)
	m.store.Set(token)

	return token, nil
}
