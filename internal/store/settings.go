package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrSettingNotFound signals the key has no stored value.
var ErrSettingNotFound = errors.New("setting not found")

// Setting returns the stored value for a key, or ErrSettingNotFound.
func (s *Store) Setting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value
		FROM settings
		WHERE key = $1
	`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrSettingNotFound
		}
		return "", fmt.Errorf("lookup setting: %w", err)
	}
	return value, nil
}

// SetSetting stores a value under a key, overwriting any previous value.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value
	`, key, value); err != nil {
		return fmt.Errorf("store setting: %w", err)
	}
	return nil
}
