package contentapi

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "image/gif"
	_ "image/png"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/image/draw"
)

const (
	thumbWidth  = 400
	jpegQuality = 80
)

// AssetStore owns the on-disk lifecycle of post images. Each post references
// exactly one stored file; filenames are unique per write (timestamp plus
// random component), so two stores never collide. The store does no locking;
// callers serialize replace/delete sequences on the same post.
type AssetStore struct {
	dir    string
	logger *slog.Logger
}

// NewAssetStore creates the uploads directory if needed.
func NewAssetStore(dir string, logger *slog.Logger) (*AssetStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &AssetStore{dir: dir, logger: logger}, nil
}

// Dir returns the directory assets are written to.
func (a *AssetStore) Dir() string { return a.dir }

// Store writes data under a fresh collision-resistant filename, keeping the
// original extension, and returns the filename. A thumbnail is generated
// best-effort alongside. On write failure nothing is kept and the caller must
// not record the filename.
func (a *AssetStore) Store(data []byte, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), gonanoid.Must(9), ext)
	if err := os.WriteFile(filepath.Join(a.dir, name), data, 0o644); err != nil {
		return "", &WriteError{Op: "write", Filename: name, Err: err}
	}
	a.writeThumbnail(name, data)
	return name, nil
}

// Delete removes a stored file and its thumbnail. A missing file is not an
// error, so deletes are idempotent.
func (a *AssetStore) Delete(name string) error {
	name = filepath.Base(name)
	for _, f := range []string{name, thumbName(name)} {
		if err := os.Remove(filepath.Join(a.dir, f)); err != nil && !os.IsNotExist(err) {
			return &WriteError{Op: "delete", Filename: f, Err: err}
		}
	}
	return nil
}

// Exists reports whether a stored file is present on disk.
func (a *AssetStore) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(a.dir, filepath.Base(name)))
	return err == nil
}

func thumbName(name string) string {
	return name + ".thumb.jpg"
}

// writeThumbnail decodes the image and writes a downscaled JPEG next to it.
// Failures are logged and swallowed: the original upload has already been
// validated and stored, and a missing thumbnail degrades the listing page,
// not the post.
func (a *AssetStore) writeThumbnail(name string, data []byte) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		a.logger.Warn("thumbnail decode failed", "asset", name, "error", err)
		return
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > thumbWidth {
		newH := h * thumbWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, thumbWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		a.logger.Warn("thumbnail encode failed", "asset", name, "error", err)
		return
	}
	if err := os.WriteFile(filepath.Join(a.dir, thumbName(name)), buf.Bytes(), 0o644); err != nil {
		a.logger.Warn("thumbnail write failed", "asset", name, "error", err)
	}
}
