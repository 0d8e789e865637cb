package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteBackend keeps every collection as one row of the documents table.
type SQLiteBackend struct {
	DB *sql.DB
}

// NewSQLiteBackend returns a backend using db. The schema must already exist.
func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{DB: db}
}

// Load implements Backend.
func (b *SQLiteBackend) Load(ctx context.Context, c Collection) ([]byte, error) {
	var body string
	err := b.DB.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE name = ?`, string(c),
	).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", c, err)
	}
	return []byte(body), nil
}

// Save implements Backend. All documents are written in one transaction.
func (b *SQLiteBackend) Save(ctx context.Context, docs map[Collection][]byte) error {
	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, c := range collectionOrder {
		data, ok := docs[c]
		if !ok {
			continue
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO documents (name, body, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			 ON CONFLICT (name) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP`,
			string(c), string(data),
		)
		if err != nil {
			return fmt.Errorf("saving %s: %w", c, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing documents: %w", err)
	}
	return nil
}
