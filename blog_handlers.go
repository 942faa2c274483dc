package contentapi

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// maxUploadSize caps the featured image at 5 MiB, matching what the admin UI
// enforces client-side.
const maxUploadSize = 5 << 20

var (
	allowedImageTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/gif":  true,
	}
	allowedImageExts = map[string]bool{
		".jpeg": true,
		".jpg":  true,
		".png":  true,
		".gif":  true,
	}
)

// errNoUpload distinguishes "no file attached" from a malformed upload.
var errNoUpload = errors.New("no file uploaded")

type blogForm struct {
	Title   string `form:"title" validate:"required"`
	Content string `form:"content" validate:"required"`
	Excerpt string `form:"excerpt" validate:"required"`
	Author  string `form:"author" validate:"required"`
	Tags    string `form:"tags"`
	Status  string `form:"status" validate:"omitempty,oneof=draft published"`
}

func (a *App) handleListBlogs(c echo.Context) error {
	posts, err := a.cache.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusOK, posts)
}

func (a *App) handleGetBlog(c echo.Context) error {
	post, err := a.Store.GetPostBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return respondError(c, notFound("Blog post not found"))
		}
		return respondError(c, err)
	}
	return respondData(c, http.StatusOK, post)
}

func (a *App) handleCreateBlog(c echo.Context) error {
	var f blogForm
	if err := c.Bind(&f); err != nil {
		return respondError(c, validationf("invalid form data"))
	}
	if err := a.validate.Struct(&f); err != nil {
		return respondError(c, validationError(err))
	}

	data, originalName, err := readUpload(c, "featuredImage")
	if errors.Is(err, errNoUpload) {
		return respondError(c, validationf("featured image is required"))
	}
	if err != nil {
		return respondError(c, err)
	}

	slug := Slugify(f.Title)
	if slug == "" {
		return respondError(c, validationf("title must contain at least one letter or number"))
	}
	status := f.Status
	if status == "" {
		status = StatusPublished
	}

	// Asset first, record second: a failed write must leave no dangling
	// reference, and a failed insert cleans up the just-written file.
	filename, err := a.Assets.Store(data, originalName)
	if err != nil {
		return respondError(c, err)
	}

	now := time.Now().UTC()
	post := BlogPost{
		ID:            uuid.NewString(),
		Title:         f.Title,
		Slug:          slug,
		Content:       f.Content,
		Excerpt:       f.Excerpt,
		FeaturedImage: filename,
		Author:        f.Author,
		Tags:          ParseTagList(f.Tags),
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := a.Store.InsertPost(c.Request().Context(), post); err != nil {
		if derr := a.Assets.Delete(filename); derr != nil {
			a.Logger.Warn("orphan cleanup failed", "asset", filename, "error", derr)
		}
		return respondError(c, err)
	}
	a.cache.Invalidate()
	return respondData(c, http.StatusCreated, post)
}

func (a *App) handleUpdateBlog(c echo.Context) error {
	id := c.Param("id")
	unlock := a.locks.lock(id)
	defer unlock()

	ctx := c.Request().Context()
	post, err := a.Store.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return respondError(c, notFound("Blog post not found"))
		}
		return respondError(c, err)
	}

	// Partial overlay: only fields present in the form are replaced, and a
	// required field may not be blanked.
	for _, fld := range []struct {
		name string
		dst  *string
	}{
		{"title", &post.Title},
		{"content", &post.Content},
		{"excerpt", &post.Excerpt},
		{"author", &post.Author},
	} {
		if v, ok := formField(c, fld.name); ok {
			if v == "" {
				return respondError(c, validationf("%s cannot be empty", fld.name))
			}
			*fld.dst = v
		}
	}
	if v, ok := formField(c, "tags"); ok {
		post.Tags = ParseTagList(v)
	}
	if v, ok := formField(c, "status"); ok && v != "" {
		if v != StatusDraft && v != StatusPublished {
			return respondError(c, validationf("status must be one of: draft published"))
		}
		post.Status = v
	}

	// The slug follows the title on every update unless frozen, so editing a
	// title changes the post's public URL.
	if !a.Config.FreezeSlugs {
		slug := Slugify(post.Title)
		if slug == "" {
			return respondError(c, validationf("title must contain at least one letter or number"))
		}
		post.Slug = slug
	}

	oldImage := post.FeaturedImage
	newImage := ""
	data, originalName, err := readUpload(c, "featuredImage")
	switch {
	case errors.Is(err, errNoUpload):
		// keep the current image
	case err != nil:
		return respondError(c, err)
	default:
		newImage, err = a.Assets.Store(data, originalName)
		if err != nil {
			return respondError(c, err)
		}
		post.FeaturedImage = newImage
	}

	post.UpdatedAt = time.Now().UTC()
	if err := a.Store.UpdatePost(ctx, post); err != nil {
		if newImage != "" {
			if derr := a.Assets.Delete(newImage); derr != nil {
				a.Logger.Warn("orphan cleanup failed", "asset", newImage, "error", derr)
			}
		}
		return respondError(c, err)
	}

	// Remove the superseded file only after the metadata write is confirmed;
	// a failure here leaves a stray file, never a dangling reference.
	if newImage != "" && oldImage != "" && oldImage != newImage {
		if derr := a.Assets.Delete(oldImage); derr != nil {
			a.Logger.Warn("superseded asset removal failed", "asset", oldImage, "error", derr)
		}
	}
	a.cache.Invalidate()
	return respondData(c, http.StatusOK, post)
}

func (a *App) handleDeleteBlog(c echo.Context) error {
	id := c.Param("id")
	unlock := a.locks.lock(id)
	defer unlock()

	ctx := c.Request().Context()
	post, err := a.Store.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return respondError(c, notFound("Blog post not found"))
		}
		return respondError(c, err)
	}
	if err := a.Store.DeletePost(ctx, id); err != nil {
		return respondError(c, err)
	}
	// Record first, asset second: best-effort, a stray file beats a record
	// pointing at nothing.
	if post.FeaturedImage != "" {
		if derr := a.Assets.Delete(post.FeaturedImage); derr != nil {
			a.Logger.Warn("asset removal failed", "asset", post.FeaturedImage, "error", derr)
		}
	}
	a.cache.Invalidate()
	return respondData(c, http.StatusOK, map[string]any{})
}

// readUpload pulls a validated image out of the multipart form: present,
// within the size cap, and an allowed image type by both declared
// content-type and extension. The handler layer is the upload collaborator;
// the stores never see an unvetted blob.
func readUpload(c echo.Context, field string) ([]byte, string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, "", errNoUpload
		}
		return nil, "", validationf("invalid upload: %v", err)
	}
	if fh.Size > maxUploadSize {
		return nil, "", validationf("image exceeds the 5 MB limit")
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	contentType := fh.Header.Get("Content-Type")
	if !allowedImageExts[ext] || !allowedImageTypes[contentType] {
		return nil, "", validationf("only image files are allowed (jpeg, jpg, png, gif)")
	}
	src, err := fh.Open()
	if err != nil {
		return nil, "", validationf("invalid upload: %v", err)
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", validationf("invalid upload: %v", err)
	}
	return data, fh.Filename, nil
}

// formField reports whether a form field was present in the request, so
// updates can distinguish "not supplied" from "supplied empty".
func formField(c echo.Context, name string) (string, bool) {
	params, err := c.FormParams()
	if err != nil {
		return "", false
	}
	vals, ok := params[name]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return strings.TrimSpace(vals[0]), true
}
