package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/ghostctl/internal/auth"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

type movingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *movingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *movingClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func TestJWTTokenManager_CachesUntilBuffer(t *testing.T) {
	t.Parallel()

	clock := &movingClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}

	manager, err := auth.NewJWTTokenManagerFromKey(testKey, auth.WithClock(clock.Now))
	require.NoError(t, err)

	ctx := context.Background()

	first, err := manager.GetToken(ctx)
	require.NoError(t, err)

	clock.Advance(4 * time.Minute)

	second, err := manager.GetToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// 25s left, inside the 30s buffer
	clock.Advance(35 * time.Second)

	third, err := manager.GetToken(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)

	stats := manager.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
	assert.Equal(t, int64(2), stats.Generations)
	assert.Equal(t, clock.Now().Truncate(time.Second).Add(5*time.Minute), stats.ExpiresAt)
}

func TestJWTTokenManager_RefreshToken(t *testing.T) {
	t.Parallel()

	clock := &movingClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}

	manager, err := auth.NewJWTTokenManagerFromKey(testKey, auth.WithClock(clock.Now))
	require.NoError(t, err)

	ctx := context.Background()

	first, err := manager.GetToken(ctx)
	require.NoError(t, err)

	clock.Advance(time.Second)
	require.NoError(t, manager.RefreshToken(ctx))

	second, err := manager.GetToken(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, int64(2), manager.Stats().Generations)
}

func TestJWTTokenManager_ExpiringSoon(t *testing.T) {
	t.Parallel()

	clock := &movingClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}

	manager, err := auth.NewJWTTokenManagerFromKey(testKey, auth.WithClock(clock.Now))
	require.NoError(t, err)

	assert.True(t, manager.IsTokenExpiringSoon(time.Second))
	assert.True(t, manager.GetTokenExpiry().IsZero())

	_, err = manager.GetToken(context.Background())
	require.NoError(t, err)

	assert.False(t, manager.IsTokenExpiringSoon(time.Minute))
	assert.True(t, manager.IsTokenExpiringSoon(6*time.Minute))
	assert.Equal(t, testKeyID, manager.KeyID())
}

func TestJWTTokenManager_Errors(t *testing.T) {
	t.Parallel()

	_, err := auth.NewJWTTokenManagerFromKey("no-separator")

	var formatErr *ghost.CredentialFormatError
	require.ErrorAs(t, err, &formatErr)

	manager, err := auth.NewJWTTokenManagerFromKey(testKey)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = manager.GetToken(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, manager.RefreshToken(ctx), context.Canceled)
}

func TestJWTTokenManager_Concurrent(t *testing.T) {
	t.Parallel()

	manager, err := auth.NewJWTTokenManagerFromKey(testKey)
	require.NoError(t, err)

	var wg sync.WaitGroup

	tokens := make([]string, 8)

	for i := range tokens {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			token, err := manager.GetToken(context.Background())
			assert.NoError(t, err)

			tokens[i] = token
		}(i)
	}

	wg.Wait()

	for _, token := range tokens {
		assert.Equal(t, tokens[0], token)
	}

	assert.Equal(t, int64(1), manager.Stats().Generations)
}
