package store

import (
	"context"
	"fmt"
)

// CopyResult counts the records copied by Copy. Skipped lists the collections
// src does not have, which are left untouched in dst.
type CopyResult struct {
	Users      int
	Items      int
	Activities int
	Settings   int
	Skipped    []Collection
}

// Copy replaces the collections in dst with the ones present in src.
func Copy(ctx context.Context, dst, src *Store) (*CopyResult, error) {
	var snapshot Tx
	err := src.View(ctx, func(tx *Tx) error {
		snapshot = *tx
		return nil
	}, collectionOrder...)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}

	result := &CopyResult{}
	var cols []Collection
	for _, c := range collectionOrder {
		if snapshot.absent[c] {
			result.Skipped = append(result.Skipped, c)
			continue
		}
		cols = append(cols, c)
	}
	if len(cols) == 0 {
		return result, nil
	}

	err = dst.Update(ctx, func(tx *Tx) error {
		for _, c := range cols {
			switch c {
			case Users:
				tx.Users, result.Users = snapshot.Users, len(snapshot.Users)
			case Items:
				tx.Items, result.Items = snapshot.Items, len(snapshot.Items)
			case Activities:
				tx.Activities, result.Activities = snapshot.Activities, len(snapshot.Activities)
			case Settings:
				tx.Settings, result.Settings = snapshot.Settings, len(snapshot.Settings)
			}
			tx.unreadable[c] = snapshot.unreadable[c]
		}
		return nil
	}, cols...)
	if err != nil {
		return nil, fmt.Errorf("writing destination: %w", err)
	}
	return result, nil
}
