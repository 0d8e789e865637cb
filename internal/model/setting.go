package model

// Setting is a server-wide key/value pair.
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Setting keys.
const (
	SettingJWTSecret = "jwt_secret"
)
