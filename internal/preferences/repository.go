// Package preferences persists UI state (view filters, language, theme) in
// the preferences database. Each preference lives under its own key and is
// stored as a msgpack blob.
package preferences

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrNotFound is returned when a key has never been stored
var ErrNotFound = errors.New("preference not found")

// Repository handles raw key-value access to the preferences table
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new preferences repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "preferences").Logger(),
	}
}

// Get decodes the value stored under key into v.
// Returns ErrNotFound if the key doesn't exist.
func (r *Repository) Get(key string, v any) error {
	var blob []byte
	err := r.db.QueryRow("SELECT value FROM preferences WHERE key = ?", key).Scan(&blob)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get preference %s: %w", key, err)
	}
	if err := msgpack.Unmarshal(blob, v); err != nil {
		return fmt.Errorf("failed to decode preference %s: %w", key, err)
	}
	return nil
}

// Set encodes v and stores it under key, replacing any previous value
func (r *Repository) Set(key string, v any) error {
	blob, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode preference %s: %w", key, err)
	}

	_, err = r.db.Exec(`
		INSERT INTO preferences (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, blob, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to set preference %s: %w", key, err)
	}

	r.log.Debug().Str("key", key).Msg("Preference saved")
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (r *Repository) Delete(key string) error {
	if _, err := r.db.Exec("DELETE FROM preferences WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete preference %s: %w", key, err)
	}
	return nil
}

// Keys lists every stored key
func (r *Repository) Keys() ([]string, error) {
	rows, err := r.db.Query("SELECT key FROM preferences ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			r.log.Warn().Err(err).Msg("Failed to scan preference row")
			continue
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating preferences: %w", err)
	}
	return keys, nil
}
