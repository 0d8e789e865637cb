package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Collection names a persisted document.
type Collection string

// Collections.
const (
	Users      Collection = "users"
	Items      Collection = "items"
	Activities Collection = "activities"
	Settings   Collection = "settings"
)

// collectionOrder is the fixed lock order.
var collectionOrder = []Collection{Users, Items, Activities, Settings}

// Backend loads and saves whole collection documents.
type Backend interface {
	// Load returns the raw document, or nil if it does not exist.
	Load(ctx context.Context, c Collection) ([]byte, error)
	// Save replaces all given documents.
	Save(ctx context.Context, docs map[Collection][]byte) error
}

// FileBackend keeps every collection in <Dir>/<collection>.json.
type FileBackend struct {
	Dir string
}

// NewFileBackend returns a backend rooted at dir.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{Dir: dir}
}

// Init creates the data directory and seeds missing collections with an empty array.
func (b *FileBackend) Init() error {
	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	for _, c := range collectionOrder {
		path := b.path(c)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
				return fmt.Errorf("seeding %s: %w", c, err)
			}
		}
	}
	return nil
}

func (b *FileBackend) path(c Collection) string {
	return filepath.Join(b.Dir, string(c)+".json")
}

// Load implements Backend.
func (b *FileBackend) Load(_ context.Context, c Collection) ([]byte, error) {
	data, err := os.ReadFile(b.path(c))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", c, err)
	}
	return data, nil
}

// Save implements Backend. All documents are written to temp files first and
// only renamed into place once every write succeeded.
func (b *FileBackend) Save(_ context.Context, docs map[Collection][]byte) error {
	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	temps := make(map[Collection]string, len(docs))
	cleanup := func() {
		for _, tmp := range temps {
			os.Remove(tmp)
		}
	}

	for _, c := range collectionOrder {
		data, ok := docs[c]
		if !ok {
			continue
		}
		tmp, err := writeTemp(b.Dir, c, data)
		if err != nil {
			cleanup()
			return err
		}
		temps[c] = tmp
	}

	for _, c := range collectionOrder {
		tmp, ok := temps[c]
		if !ok {
			continue
		}
		if err := os.Rename(tmp, b.path(c)); err != nil {
			cleanup()
			return fmt.Errorf("replacing %s: %w", c, err)
		}
		delete(temps, c)
	}
	return nil
}

func writeTemp(dir string, c Collection, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, "."+string(c)+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file for %s: %w", c, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing %s: %w", c, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("closing %s: %w", c, err)
	}
	return f.Name(), nil
}
