package contentapi

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Blog post status values. Drafts are invisible to the public surface.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// timeLayout is how timestamps are stored; RFC3339 in UTC sorts
// lexicographically, so ORDER BY created_at DESC is chronological.
const timeLayout = time.RFC3339Nano

// BlogPost is a full post record, including the content body.
type BlogPost struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Content       string    `json:"content"`
	Excerpt       string    `json:"excerpt"`
	FeaturedImage string    `json:"featuredImage"`
	Author        string    `json:"author"`
	Tags          []string  `json:"tags"`
	Status        string    `json:"status"`
	Views         int64     `json:"views"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// BlogSummary is the listing projection: everything the index page needs,
// minus the content body.
type BlogSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Excerpt       string    `json:"excerpt"`
	FeaturedImage string    `json:"featuredImage"`
	Author        string    `json:"author"`
	Tags          []string  `json:"tags"`
	Views         int64     `json:"views"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ListPublished returns summaries of all published posts, newest first.
func (s *Store) ListPublished(ctx context.Context) ([]BlogSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, slug, excerpt, featured_image, author, tags, views, created_at
		FROM posts WHERE status = 'published' ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []BlogSummary
	for rows.Next() {
		var p BlogSummary
		var tags, created string
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.FeaturedImage, &p.Author, &tags, &p.Views, &created); err != nil {
			return nil, err
		}
		p.Tags = ParseTags(tags)
		if p.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetPostBySlug returns a single published post by slug. As an observable
// side effect it increments the post's view counter; the increment is a
// single UPDATE so concurrent readers never lose counts.
func (s *Store) GetPostBySlug(ctx context.Context, slug string) (BlogPost, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE posts SET views = views + 1 WHERE slug = ? AND status = 'published'`, slug)
	if err != nil {
		return BlogPost{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return BlogPost{}, err
	}
	if n == 0 {
		return BlogPost{}, ErrNotFound
	}
	return s.getPost(ctx, "slug", slug)
}

// GetPostByID returns a post by id regardless of status (for admin
// mutations). No view increment.
func (s *Store) GetPostByID(ctx context.Context, id string) (BlogPost, error) {
	return s.getPost(ctx, "id", id)
}

func (s *Store) getPost(ctx context.Context, column, key string) (BlogPost, error) {
	var p BlogPost
	var tags, created, updated string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, slug, content, excerpt, featured_image, author, tags, status, views, created_at, updated_at
		FROM posts WHERE `+column+` = ?`, key).
		Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.FeaturedImage, &p.Author, &tags, &p.Status, &p.Views, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return BlogPost{}, ErrNotFound
	}
	if err != nil {
		return BlogPost{}, err
	}
	p.Tags = ParseTags(tags)
	if p.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return BlogPost{}, err
	}
	if p.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
		return BlogPost{}, err
	}
	return p, nil
}

// InsertPost persists a new post. A slug collision surfaces as
// ErrDuplicateSlug; the UNIQUE constraint is the only uniqueness check.
func (s *Store) InsertPost(ctx context.Context, p BlogPost) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (id, title, slug, content, excerpt, featured_image, author, tags, status, views, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Slug, p.Content, p.Excerpt, p.FeaturedImage, p.Author,
		encodeTags(p.Tags), p.Status, p.Views,
		p.CreatedAt.UTC().Format(timeLayout), p.UpdatedAt.UTC().Format(timeLayout))
	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	return err
}

// UpdatePost replaces the mutable fields of an existing post. The view
// counter and creation time are never touched here.
func (s *Store) UpdatePost(ctx context.Context, p BlogPost) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE posts SET title = ?, slug = ?, content = ?, excerpt = ?, featured_image = ?, author = ?, tags = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		p.Title, p.Slug, p.Content, p.Excerpt, p.FeaturedImage, p.Author,
		encodeTags(p.Tags), p.Status, p.UpdatedAt.UTC().Format(timeLayout), p.ID)
	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePost removes a post record by id.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
