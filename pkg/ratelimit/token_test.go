package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenLimiter_Wait(t *testing.T) {
	limiter := NewTokenLimiter(100)

	require.NoError(t, limiter.Wait(context.Background(), 40))
	assert.Equal(t, 60, limiter.GetRemaining())

	require.NoError(t, limiter.Wait(context.Background(), 60))
	assert.Equal(t, 0, limiter.GetRemaining())
}

func TestTokenLimiter_WaitCancelled(t *testing.T) {
	limiter := NewTokenLimiter(10)
	require.NoError(t, limiter.Wait(context.Background(), 10))

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx, 10)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
