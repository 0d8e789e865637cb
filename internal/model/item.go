package model

import "time"

// Item is a catalog entry owned by a single user. Extra holds pass-through
// members such as price or category.
type Item struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Stock     Count     `json:"stock"`
	ItemImage *string   `json:"itemImage"`
	DateAdded time.Time `json:"dateAdded"`

	Extra map[string]any `json:"-"`
}

var itemFields = map[string]bool{
	"id": true, "userId": true, "name": true, "stock": true, "itemImage": true, "dateAdded": true,
}

type itemJSON Item

// MarshalJSON implements json.Marshaler.
func (i Item) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(itemJSON(i), i.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *Item) UnmarshalJSON(data []byte) error {
	var known itemJSON
	extra, err := unmarshalWithExtra(data, &known, itemFields)
	if err != nil {
		return err
	}
	*i = Item(known)
	i.Extra = extra
	return nil
}

// Image returns the item's image path, or "" when it has none.
func (i *Item) Image() string {
	if i.ItemImage == nil {
		return ""
	}
	return *i.ItemImage
}
