package store

import (
	"context"
	"slices"

	"github.com/erazemk/zaloga/internal/model"
)

// CreateItem stores a new item.
func (s *Store) CreateItem(ctx context.Context, item *model.Item) error {
	if item.Stock < 0 {
		return ErrNegativeStock
	}
	return s.Update(ctx, func(tx *Tx) error {
		tx.Items = append(tx.Items, *item)
		return nil
	}, Items)
}

// GetItem returns an item owned by userID, or nil if none exists.
func (s *Store) GetItem(ctx context.Context, userID, id string) (*model.Item, error) {
	var found *model.Item
	err := s.View(ctx, func(tx *Tx) error {
		if i := itemIndex(tx.Items, userID, id); i >= 0 {
			item := tx.Items[i]
			found = &item
		}
		return nil
	}, Items)
	return found, err
}

// ListItems returns all items owned by userID.
func (s *Store) ListItems(ctx context.Context, userID string) ([]model.Item, error) {
	items := []model.Item{}
	err := s.View(ctx, func(tx *Tx) error {
		for _, item := range tx.Items {
			if item.UserID == userID {
				items = append(items, item)
			}
		}
		return nil
	}, Items)
	return items, err
}

// UpdateItem applies fn to an item owned by userID and saves the result.
// The ID, owner and date added cannot be changed.
func (s *Store) UpdateItem(ctx context.Context, userID, id string, fn func(item *model.Item) error) (*model.Item, error) {
	var updated model.Item
	err := s.Update(ctx, func(tx *Tx) error {
		i := itemIndex(tx.Items, userID, id)
		if i < 0 {
			return ErrNotFound
		}

		item := tx.Items[i]
		if err := fn(&item); err != nil {
			return err
		}
		item.ID = tx.Items[i].ID
		item.UserID = tx.Items[i].UserID
		item.DateAdded = tx.Items[i].DateAdded
		if item.Stock < 0 {
			return ErrNegativeStock
		}

		tx.Items[i] = item
		updated = item
		return nil
	}, Items)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteItem removes an item owned by userID and every activity recorded
// against it. It returns the removed item.
func (s *Store) DeleteItem(ctx context.Context, userID, id string) (*model.Item, error) {
	var removed model.Item
	err := s.Update(ctx, func(tx *Tx) error {
		i := itemIndex(tx.Items, userID, id)
		if i < 0 {
			return ErrNotFound
		}
		removed = tx.Items[i]
		tx.Items = slices.Delete(tx.Items, i, i+1)
		tx.Activities = slices.DeleteFunc(tx.Activities, func(a model.Activity) bool {
			return a.ItemID == id
		})
		return nil
	}, Items, Activities)
	if err != nil {
		return nil, err
	}
	return &removed, nil
}

func itemIndex(items []model.Item, userID, id string) int {
	return slices.IndexFunc(items, func(item model.Item) bool {
		return item.ID == id && item.UserID == userID
	})
}
