package store

import "errors"

var (
	// ErrNotFound is returned when a record does not exist or belongs to another user.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned when another user already registered the email.
	ErrEmailTaken = errors.New("user already exists")

	// ErrInsufficientStock is returned when a sale or loss exceeds the item's stock.
	ErrInsufficientStock = errors.New("not enough stock available")

	// ErrInvalidQuantity is returned for non-positive activity quantities.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrNegativeStock is returned when an update would leave stock below zero.
	ErrNegativeStock = errors.New("stock cannot be negative")
)
