package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// Upload folders.
const (
	FolderUsers = "users"
	FolderItems = "items"
)

// DefaultExtension is used when the payload carries no recognizable MIME type.
const DefaultExtension = "jpg"

var dataURLPattern = regexp.MustCompile(`^data:(image/[\w.+-]+);`)

// extensions maps declared MIME types to file extensions.
var extensions = map[string]string{
	"image/jpeg":    "jpg",
	"image/png":     "png",
	"image/gif":     "gif",
	"image/webp":    "webp",
	"image/svg+xml": "svg",
}

// Materializer writes inline base64 images below Root and serves them under
// URLPrefix.
type Materializer struct {
	Root      string
	URLPrefix string
}

// NewMaterializer returns a Materializer for the uploads directory root,
// published under /uploads.
func NewMaterializer(root string) *Materializer {
	return &Materializer{Root: root, URLPrefix: "/uploads"}
}

// Init creates the upload folders.
func (m *Materializer) Init() error {
	for _, folder := range []string{FolderUsers, FolderItems} {
		if err := os.MkdirAll(filepath.Join(m.Root, folder), 0o755); err != nil {
			return fmt.Errorf("creating upload folder %s: %w", folder, err)
		}
	}
	return nil
}

// Extension returns the file extension for a payload's declared MIME type.
func Extension(payload string) string {
	if !strings.HasPrefix(payload, "data:") {
		return DefaultExtension
	}
	match := dataURLPattern.FindStringSubmatch(payload)
	if match == nil {
		return DefaultExtension
	}
	if ext, ok := extensions[strings.ToLower(match[1])]; ok {
		return ext
	}
	return DefaultExtension
}

// Save decodes payload (a data URL or bare base64) and writes it to
// <Root>/<folder>/<baseName>.<ext>. It returns the public path, or false if
// the payload is empty or anything fails.
func (m *Materializer) Save(payload, folder, baseName string) (string, bool) {
	if payload == "" || !safeName(folder) || !safeName(baseName) {
		return "", false
	}

	encoded := payload
	if i := strings.LastIndex(payload, ";base64,"); i >= 0 {
		encoded = payload[i+len(";base64,"):]
	}
	data, err := decodeBase64(encoded)
	if err != nil || len(data) == 0 {
		slog.Warn("discarding undecodable image payload", "folder", folder, "name", baseName)
		return "", false
	}

	ext := Extension(payload)
	if ext == "jpg" || ext == "png" {
		if processed, err := Process(bytes.NewReader(data)); err == nil {
			data = processed
		}
	}

	filename := baseName + "." + ext
	dir := filepath.Join(m.Root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Error("failed to create upload folder", "folder", folder, "error", err)
		return "", false
	}
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		slog.Error("failed to save image", "folder", folder, "name", filename, "error", err)
		return "", false
	}

	return path.Join(m.URLPrefix, folder, filename), true
}

// Replacement is an image written ahead of the record update that points at
// it. Both methods are no-ops on a nil Replacement.
type Replacement struct {
	m    *Materializer
	Path string
}

// Replace saves payload as the new image for baseName. It returns nil if the
// payload is empty or could not be saved, in which case the record keeps its
// current image.
func (m *Materializer) Replace(payload, folder, baseName string) *Replacement {
	saved, ok := m.Save(payload, folder, baseName)
	if !ok {
		return nil
	}
	return &Replacement{m: m, Path: saved}
}

// Commit removes the image the record pointed at before the update.
func (r *Replacement) Commit(previous string) {
	if r != nil && previous != r.Path {
		r.m.Delete(previous)
	}
}

// Rollback removes the new image after a failed update.
func (r *Replacement) Rollback(previous string) {
	if r != nil && previous != r.Path {
		r.m.Delete(r.Path)
	}
}

// Delete removes a previously saved image. Remote URLs and paths outside the
// uploads root are ignored.
func (m *Materializer) Delete(publicPath string) {
	if publicPath == "" || strings.HasPrefix(publicPath, "http") {
		return
	}

	rel, ok := strings.CutPrefix(publicPath, m.URLPrefix+"/")
	if !ok {
		return
	}
	full := filepath.Join(m.Root, filepath.FromSlash(rel))
	if r, err := filepath.Rel(m.Root, full); err != nil || r == "." || strings.HasPrefix(r, "..") {
		slog.Warn("refusing to delete file outside uploads", "path", publicPath)
		return
	}

	if err := os.Remove(full); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Error("failed to delete file", "path", publicPath, "error", err)
		}
		return
	}
	slog.Info("deleted file", "path", publicPath)
}

func safeName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

// decodeBase64 accepts padded and unpadded, standard and URL-safe input.
func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)

	var lastErr error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding,
	} {
		data, err := enc.DecodeString(s)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
