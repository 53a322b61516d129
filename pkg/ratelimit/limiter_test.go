package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucketBurst(t *testing.T) {
	tb := NewTokenBucket(1, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, tb.Allow(), "token %d should be available", i+1)
	}
	assert.False(t, tb.Allow(), "burst should be exhausted")
}

func TestTokenBucketNormalisesArguments(t *testing.T) {
	tb := NewTokenBucket(0, 0)
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
}

func TestWaitHonoursContext(t *testing.T) {
	tb := NewTokenBucket(1, 1)
	require.True(t, tb.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := tb.Wait(ctx)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestUnlimited(t *testing.T) {
	tb := Unlimited()
	for i := 0; i < 100; i++ {
		require.NoError(t, tb.Wait(context.Background()))
	}
}
