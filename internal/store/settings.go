package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/erazemk/zaloga/internal/model"
)

// JWTSecret returns the token signing secret, generating and storing one on
// first use.
func (s *Store) JWTSecret(ctx context.Context) (string, error) {
	var secret string
	err := s.Update(ctx, func(tx *Tx) error {
		for _, setting := range tx.Settings {
			if setting.Key == model.SettingJWTSecret && setting.Value != "" {
				secret = setting.Value
				return nil
			}
		}

		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("generating jwt secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
		tx.Settings = append(tx.Settings, model.Setting{Key: model.SettingJWTSecret, Value: secret})
		return nil
	}, Settings)
	if err != nil {
		return "", err
	}
	return secret, nil
}
