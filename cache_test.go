package contentapi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSummaryCacheServesStaleUntilInvalidated(t *testing.T) {
	store := newTestStore(t)
	cache := newSummaryCache(store, time.Hour)
	ctx := context.Background()

	posts, err := cache.List(ctx)
	require.NoError(t, err)
	require.Empty(t, posts)

	require.NoError(t, store.InsertPost(ctx, testPost("cached", time.Now().UTC())))

	// Within the TTL the cache keeps serving the old snapshot.
	posts, err = cache.List(ctx)
	require.NoError(t, err)
	require.Empty(t, posts)

	cache.Invalidate()
	posts, err = cache.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, "cached", posts[0].Slug)
}

func TestSummaryCacheExpires(t *testing.T) {
	store := newTestStore(t)
	cache := newSummaryCache(store, 10*time.Millisecond)
	ctx := context.Background()

	_, err := cache.List(ctx)
	require.NoError(t, err)

	require.NoError(t, store.InsertPost(ctx, testPost("fresh", time.Now().UTC())))
	time.Sleep(20 * time.Millisecond)

	posts, err := cache.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
}
