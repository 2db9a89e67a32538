package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowConsumesBurst(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("congress", 3, 0.001))
	}
	assert.False(t, l.Allow("congress", 3, 0.001), "bucket exhausted")
}

func TestKeysAreIndependent(t *testing.T) {
	l := New()
	require.True(t, l.Allow("congress", 1, 0.001))
	require.False(t, l.Allow("congress", 1, 0.001))
	assert.True(t, l.Allow("marketdata", 1, 0.001), "other provider unaffected")
}

func TestAllowRefills(t *testing.T) {
	l := New()
	require.True(t, l.Allow("k", 1, 100)) // refills a token in ~10ms
	require.False(t, l.Allow("k", 1, 100))

	time.Sleep(30 * time.Millisecond)
	assert.True(t, l.Allow("k", 1, 100))
}

func TestWaitHonorsContext(t *testing.T) {
	l := New()
	require.True(t, l.Allow("k", 1, 0.001))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx, "k", 1, 0.001)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
