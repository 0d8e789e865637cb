package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/erazemk/zaloga/internal/model"
)

// Store serializes access to the collections of a Backend. Every
// read-modify-write cycle holds the write lock of each collection it touches,
// so concurrent requests cannot overwrite each other's changes.
type Store struct {
	backend Backend
	locks   map[Collection]*sync.RWMutex

	// Now stamps new records. Defaults to time.Now.
	Now func() time.Time
}

// New returns a Store backed by backend.
func New(backend Backend) *Store {
	locks := make(map[Collection]*sync.RWMutex, len(collectionOrder))
	for _, c := range collectionOrder {
		locks[c] = &sync.RWMutex{}
	}
	return &Store{backend: backend, locks: locks, Now: time.Now}
}

// Tx holds the loaded collections during View or Update. Only the collections
// requested by the caller are populated.
type Tx struct {
	Users      []model.User
	Items      []model.Item
	Activities []model.Activity
	Settings   []model.Setting

	// unreadable holds records that failed to decode. They are written back
	// as they were so a save never drops them.
	unreadable map[Collection][]json.RawMessage
	// absent lists collections whose document does not exist.
	absent map[Collection]bool
}

// View loads cols under read locks and calls fn. Nothing is written back.
func (s *Store) View(ctx context.Context, fn func(tx *Tx) error, cols ...Collection) error {
	cols, err := normalize(cols)
	if err != nil {
		return err
	}

	for _, c := range cols {
		s.locks[c].RLock()
	}
	defer func() {
		for _, c := range cols {
			s.locks[c].RUnlock()
		}
	}()

	tx, err := s.load(ctx, cols)
	if err != nil {
		return err
	}
	return fn(tx)
}

// Update loads cols under write locks, calls fn and saves every loaded
// collection together. If fn returns an error nothing is saved.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error, cols ...Collection) error {
	cols, err := normalize(cols)
	if err != nil {
		return err
	}

	for _, c := range cols {
		s.locks[c].Lock()
	}
	defer func() {
		for _, c := range cols {
			s.locks[c].Unlock()
		}
	}()

	tx, err := s.load(ctx, cols)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		return err
	}

	docs := make(map[Collection][]byte, len(cols))
	for _, c := range cols {
		data, err := tx.encode(c)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", c, err)
		}
		docs[c] = data
	}

	if err := s.backend.Save(ctx, docs); err != nil {
		return fmt.Errorf("saving collections: %w", err)
	}
	return nil
}

// normalize deduplicates cols and sorts them into lock order.
func normalize(cols []Collection) ([]Collection, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("no collections requested")
	}
	out := make([]Collection, 0, len(cols))
	for _, c := range collectionOrder {
		if slices.Contains(cols, c) {
			out = append(out, c)
		}
	}
	for _, c := range cols {
		if !slices.Contains(collectionOrder, c) {
			return nil, fmt.Errorf("unknown collection %q", c)
		}
	}
	return out, nil
}

func (s *Store) load(ctx context.Context, cols []Collection) (*Tx, error) {
	raw := make([][]byte, len(cols))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range cols {
		g.Go(func() error {
			data, err := s.backend.Load(gctx, c)
			if err != nil {
				return fmt.Errorf("loading %s: %w", c, err)
			}
			raw[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tx := &Tx{
		unreadable: make(map[Collection][]json.RawMessage),
		absent:     make(map[Collection]bool),
	}
	for i, c := range cols {
		if raw[i] == nil {
			tx.absent[c] = true
		}
		var bad []json.RawMessage
		switch c {
		case Users:
			tx.Users, bad = decode[model.User](c, raw[i])
		case Items:
			tx.Items, bad = decode[model.Item](c, raw[i])
		case Activities:
			tx.Activities, bad = decode[model.Activity](c, raw[i])
		case Settings:
			tx.Settings, bad = decode[model.Setting](c, raw[i])
		}
		if len(bad) > 0 {
			tx.unreadable[c] = bad
		}
	}
	return tx, nil
}

func (tx *Tx) encode(c Collection) ([]byte, error) {
	bad := tx.unreadable[c]
	switch c {
	case Users:
		return encode(tx.Users, bad)
	case Items:
		return encode(tx.Items, bad)
	case Activities:
		return encode(tx.Activities, bad)
	case Settings:
		return encode(tx.Settings, bad)
	}
	return nil, fmt.Errorf("unknown collection %q", c)
}

// decode parses a collection document. A missing, empty or corrupt document
// yields an empty collection; corruption is logged. Records are decoded one by
// one: a record that fails is logged and returned separately, untouched.
func decode[T any](c Collection, data []byte) ([]T, []json.RawMessage) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		slog.Error("failed to parse collection, treating it as empty", "collection", c, "error", err)
		return []T{}, nil
	}

	records := make([]T, 0, len(docs))
	var bad []json.RawMessage
	for i, doc := range docs {
		var record T
		if err := json.Unmarshal(doc, &record); err != nil {
			slog.Warn("skipping unreadable record", "collection", c, "index", i, "error", err)
			bad = append(bad, doc)
			continue
		}
		records = append(records, record)
	}
	return records, bad
}

// encode writes records followed by any unreadable records kept from load.
func encode[T any](records []T, bad []json.RawMessage) ([]byte, error) {
	if len(bad) == 0 {
		if records == nil {
			records = []T{}
		}
		return json.MarshalIndent(records, "", "  ")
	}
	out := make([]any, 0, len(records)+len(bad))
	for _, r := range records {
		out = append(out, r)
	}
	for _, r := range bad {
		out = append(out, r)
	}
	return json.MarshalIndent(out, "", "  ")
}
