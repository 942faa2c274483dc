package contentapi

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testPost(slug string, created time.Time) BlogPost {
	return BlogPost{
		ID:            uuid.NewString(),
		Title:         "Title for " + slug,
		Slug:          slug,
		Content:       "content body",
		Excerpt:       "excerpt",
		FeaturedImage: slug + ".png",
		Author:        "A",
		Tags:          []string{"go", "web"},
		Status:        StatusPublished,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func TestInsertAndGetPost(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	p := testPost("first-post", now)
	require.NoError(t, s.InsertPost(ctx, p))

	got, err := s.GetPostByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Title, got.Title)
	assert.Equal(t, p.Slug, got.Slug)
	assert.Equal(t, p.Content, got.Content)
	assert.Equal(t, p.FeaturedImage, got.FeaturedImage)
	assert.Equal(t, []string{"go", "web"}, got.Tags)
	assert.Equal(t, StatusPublished, got.Status)
	assert.EqualValues(t, 0, got.Views)
	assert.True(t, got.CreatedAt.Equal(now))
}

func TestInsertPostDuplicateSlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertPost(ctx, testPost("same-slug", time.Now().UTC())))
	err := s.InsertPost(ctx, testPost("same-slug", time.Now().UTC()))
	assert.ErrorIs(t, err, ErrDuplicateSlug)

	// Exactly one post holds the slug.
	posts, err := s.ListPublished(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestGetPostBySlugIncrementsViews(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := testPost("counted", time.Now().UTC())
	require.NoError(t, s.InsertPost(ctx, p))

	got, err := s.GetPostBySlug(ctx, "counted")
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Views)

	got, err = s.GetPostBySlug(ctx, "counted")
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.Views)
}

func TestGetPostBySlugConcurrentViews(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := testPost("hot-post", time.Now().UTC())
	require.NoError(t, s.InsertPost(ctx, p))

	const readers = 50
	var wg sync.WaitGroup
	errs := make(chan error, readers)
	for range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.GetPostBySlug(ctx, "hot-post"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent read failed: %v", err)
	}

	got, err := s.GetPostByID(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, readers, got.Views, "no increment may be lost")
}

func TestGetPostBySlugNotFoundAndDrafts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetPostBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	draft := testPost("hidden-draft", time.Now().UTC())
	draft.Status = StatusDraft
	require.NoError(t, s.InsertPost(ctx, draft))

	_, err = s.GetPostBySlug(ctx, "hidden-draft")
	assert.ErrorIs(t, err, ErrNotFound, "drafts are invisible to the public surface")

	// And the failed lookups must not have bumped anything.
	got, err := s.GetPostByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, got.Views)
}

func TestListPublished(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	oldest := testPost("oldest", base.Add(-2*time.Hour))
	middle := testPost("middle", base.Add(-time.Hour))
	newest := testPost("newest", base)
	draft := testPost("a-draft", base.Add(time.Hour))
	draft.Status = StatusDraft
	for _, p := range []BlogPost{oldest, newest, draft, middle} {
		require.NoError(t, s.InsertPost(ctx, p))
	}

	got, err := s.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "newest", got[0].Slug)
	assert.Equal(t, "middle", got[1].Slug)
	assert.Equal(t, "oldest", got[2].Slug)
	for _, p := range got {
		assert.NotEmpty(t, p.Excerpt)
		assert.Equal(t, []string{"go", "web"}, p.Tags)
	}
}

func TestUpdatePost(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := testPost("original", time.Now().UTC())
	require.NoError(t, s.InsertPost(ctx, p))

	p.Title = "New Title"
	p.Slug = "new-title"
	p.Tags = []string{"updated"}
	p.UpdatedAt = time.Now().UTC()
	require.NoError(t, s.UpdatePost(ctx, p))

	got, err := s.GetPostByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Title", got.Title)
	assert.Equal(t, "new-title", got.Slug)
	assert.Equal(t, []string{"updated"}, got.Tags)
}

func TestUpdatePostErrors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	missing := testPost("nowhere", time.Now().UTC())
	assert.ErrorIs(t, s.UpdatePost(ctx, missing), ErrNotFound)

	a := testPost("post-a", time.Now().UTC())
	b := testPost("post-b", time.Now().UTC())
	require.NoError(t, s.InsertPost(ctx, a))
	require.NoError(t, s.InsertPost(ctx, b))

	b.Slug = "post-a"
	assert.ErrorIs(t, s.UpdatePost(ctx, b), ErrDuplicateSlug)
}

func TestDeletePost(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := testPost("doomed", time.Now().UTC())
	require.NoError(t, s.InsertPost(ctx, p))
	require.NoError(t, s.DeletePost(ctx, p.ID))

	_, err := s.GetPostBySlug(ctx, "doomed")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeletePost(ctx, p.ID), ErrNotFound)
}

func TestTagRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := testPost("tagged", time.Now().UTC())
	p.Tags = []string{"Go", "Web Dev", "go"} // case and duplicates preserved
	require.NoError(t, s.InsertPost(ctx, p))

	got, err := s.GetPostByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Web Dev", "go"}, got.Tags)

	empty := testPost("untagged", time.Now().UTC())
	empty.Tags = nil
	require.NoError(t, s.InsertPost(ctx, empty))
	got, err = s.GetPostByID(ctx, empty.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}

func TestParseTagList(t *testing.T) {
	assert.Equal(t, []string{"go", "web"}, ParseTagList("go, web"))
	assert.Equal(t, []string{"a", "b", "a"}, ParseTagList("a,b,a"))
	assert.Equal(t, []string{"solo"}, ParseTagList("  solo  "))
	assert.Nil(t, ParseTagList(""))
	assert.Nil(t, ParseTagList(" , , "))
}
