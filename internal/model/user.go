package model

import "time"

// DefaultProfilePic is used when a user registers without a picture.
const DefaultProfilePic = "https://via.placeholder.com/150"

// User is a registered account. Any profile member without a dedicated field
// (address, phone, ...) is kept in Extra and stored flat alongside the rest.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email"`
	Password     string    `json:"password,omitempty"`
	ProfilePic   string    `json:"profilePic,omitempty"`
	BusinessName string    `json:"businessName,omitempty"`
	BusinessType string    `json:"businessType,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`

	Extra map[string]any `json:"-"`
}

var userFields = map[string]bool{
	"id": true, "name": true, "email": true, "password": true, "profilePic": true,
	"businessName": true, "businessType": true, "createdAt": true,
}

type userJSON User

// MarshalJSON implements json.Marshaler.
func (u User) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(userJSON(u), u.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *User) UnmarshalJSON(data []byte) error {
	var known userJSON
	extra, err := unmarshalWithExtra(data, &known, userFields)
	if err != nil {
		return err
	}
	*u = User(known)
	u.Extra = extra
	return nil
}

// Public returns a copy of u without the password.
func (u User) Public() User {
	u.Password = ""
	return u
}
