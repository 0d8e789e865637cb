package web

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
)

// IndexPage is served for the site root.
const IndexPage = "login.html"

// NewRouter serves the HTML pages in publicDir and the uploaded images in
// uploadsDir under /uploads/.
func NewRouter(publicDir, uploadsDir string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		page := filepath.Join(publicDir, IndexPage)
		if _, err := os.Stat(page); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				slog.Error("failed to stat index page", "path", page, "error", err)
			}
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, page)
	})

	uploads := http.StripPrefix("/uploads/", http.FileServer(filesOnly{http.Dir(uploadsDir)}))
	mux.Handle("GET /uploads/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		uploads.ServeHTTP(w, r)
	}))

	mux.Handle("GET /", http.FileServer(filesOnly{http.Dir(publicDir)}))

	return mux
}

// filesOnly hides directories so the file servers never render listings.
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}
