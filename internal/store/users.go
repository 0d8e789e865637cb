package store

import (
	"context"
	"slices"

	"github.com/erazemk/zaloga/internal/model"
)

// CreateUser stores a new user. Emails are unique.
func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	return s.Update(ctx, func(tx *Tx) error {
		for _, existing := range tx.Users {
			if existing.Email == u.Email {
				return ErrEmailTaken
			}
		}
		tx.Users = append(tx.Users, *u)
		return nil
	}, Users)
}

// GetUser returns a user by ID, or nil if none exists.
func (s *Store) GetUser(ctx context.Context, id string) (*model.User, error) {
	var found *model.User
	err := s.View(ctx, func(tx *Tx) error {
		if i := userIndex(tx.Users, id); i >= 0 {
			u := tx.Users[i]
			found = &u
		}
		return nil
	}, Users)
	return found, err
}

// GetUserByEmail returns a user by email, or nil if none exists.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var found *model.User
	err := s.View(ctx, func(tx *Tx) error {
		for _, u := range tx.Users {
			if u.Email == email {
				found = &u
				break
			}
		}
		return nil
	}, Users)
	return found, err
}

// ListUsers returns all users in registration order.
func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := s.View(ctx, func(tx *Tx) error {
		users = tx.Users
		return nil
	}, Users)
	return users, err
}

// UpdateUser applies fn to the user with the given ID and saves the result.
// The ID and creation time cannot be changed.
func (s *Store) UpdateUser(ctx context.Context, id string, fn func(u *model.User) error) (*model.User, error) {
	var updated model.User
	err := s.Update(ctx, func(tx *Tx) error {
		i := userIndex(tx.Users, id)
		if i < 0 {
			return ErrNotFound
		}

		u := tx.Users[i]
		if err := fn(&u); err != nil {
			return err
		}
		u.ID = tx.Users[i].ID
		u.CreatedAt = tx.Users[i].CreatedAt

		for j, other := range tx.Users {
			if j != i && other.Email == u.Email {
				return ErrEmailTaken
			}
		}

		tx.Users[i] = u
		updated = u
		return nil
	}, Users)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteUser removes a user together with their items and activities. It
// returns the removed user and items so their files can be cleaned up.
func (s *Store) DeleteUser(ctx context.Context, id string) (*model.User, []model.Item, error) {
	var (
		removed model.User
		items   []model.Item
	)
	err := s.Update(ctx, func(tx *Tx) error {
		i := userIndex(tx.Users, id)
		if i < 0 {
			return ErrNotFound
		}
		removed = tx.Users[i]
		tx.Users = slices.Delete(tx.Users, i, i+1)

		tx.Items = slices.DeleteFunc(tx.Items, func(item model.Item) bool {
			if item.UserID == id {
				items = append(items, item)
				return true
			}
			return false
		})
		tx.Activities = slices.DeleteFunc(tx.Activities, func(a model.Activity) bool {
			return a.UserID == id
		})
		return nil
	}, Users, Items, Activities)
	if err != nil {
		return nil, nil, err
	}
	return &removed, items, nil
}

func userIndex(users []model.User, id string) int {
	return slices.IndexFunc(users, func(u model.User) bool { return u.ID == id })
}
