package store

import (
	"context"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/erazemk/zaloga/internal/model"
)

// Movement describes a stock decrement requested by a sale or a loss.
type Movement struct {
	ItemID   string
	Quantity int
	Amount   decimal.Decimal
	LossType *string
}

// RecordSale decrements an item's stock and appends a sale activity.
func (s *Store) RecordSale(ctx context.Context, userID string, m Movement) (*model.Activity, error) {
	m.LossType = nil
	return s.record(ctx, userID, model.ActivitySale, m)
}

// RecordLoss decrements an item's stock and appends a loss activity.
func (s *Store) RecordLoss(ctx context.Context, userID string, m Movement) (*model.Activity, error) {
	return s.record(ctx, userID, model.ActivityLoss, m)
}

// record checks stock and writes the item and the new activity together. On
// any error neither collection changes.
func (s *Store) record(ctx context.Context, userID, kind string, m Movement) (*model.Activity, error) {
	if m.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var activity model.Activity
	err := s.Update(ctx, func(tx *Tx) error {
		i := itemIndex(tx.Items, userID, m.ItemID)
		if i < 0 {
			return ErrNotFound
		}

		item := &tx.Items[i]
		if int(item.Stock) < m.Quantity {
			return ErrInsufficientStock
		}
		item.Stock -= model.Count(m.Quantity)

		activity = model.Activity{
			ID:       model.NewID(),
			UserID:   userID,
			ItemID:   item.ID,
			ItemName: item.Name,
			Type:     kind,
			LossType: m.LossType,
			Quantity: model.Count(m.Quantity),
			Amount:   m.Amount,
			Date:     s.Now().UTC(),
		}
		tx.Activities = append(tx.Activities, activity)
		return nil
	}, Items, Activities)
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

// ListActivities returns the user's activities, newest first.
func (s *Store) ListActivities(ctx context.Context, userID string) ([]model.Activity, error) {
	activities := []model.Activity{}
	err := s.View(ctx, func(tx *Tx) error {
		for _, a := range tx.Activities {
			if a.UserID == userID {
				activities = append(activities, a)
			}
		}
		return nil
	}, Activities)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(activities, func(a, b model.Activity) int {
		return b.Date.Compare(a.Date)
	})
	return activities, nil
}

// Snapshot returns the full item catalog and activity log as one consistent view.
func (s *Store) Snapshot(ctx context.Context) ([]model.Item, []model.Activity, error) {
	var (
		items      []model.Item
		activities []model.Activity
	)
	err := s.View(ctx, func(tx *Tx) error {
		items = tx.Items
		activities = tx.Activities
		return nil
	}, Items, Activities)
	return items, activities, err
}
