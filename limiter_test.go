package contentapi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoginLimiterBurst(t *testing.T) {
	l := newLoginLimiter(0.0, 3)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		require.True(t, l.Allow("10.0.0.1"), "attempt %d within burst", i+1)
	}
	require.False(t, l.Allow("10.0.0.1"))
}

func TestLoginLimiterKeyedPerIP(t *testing.T) {
	l := newLoginLimiter(0.0, 1)
	defer l.Stop()

	require.True(t, l.Allow("10.0.0.1"))
	require.False(t, l.Allow("10.0.0.1"))
	require.True(t, l.Allow("10.0.0.2"), "a drained bucket must not affect other clients")
}

func TestLoginLimiterStopIdempotent(t *testing.T) {
	l := newLoginLimiter(1, 1)
	l.Stop()
	l.Stop()
}
