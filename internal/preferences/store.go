package preferences

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/GeekNeuron/OpenPos/internal/database"
	"github.com/GeekNeuron/OpenPos/internal/positions"
)

// Storage keys
const (
	KeyView     = "ui_preferences"
	KeyLanguage = "language"
	KeyTheme    = "theme"
)

// View is the persisted filter/search/sort state
type View struct {
	TypeFilter   string `msgpack:"typeFilter"`
	SymbolSearch string `msgpack:"symbolSearch"`
	SortBy       string `msgpack:"sortBy"`
}

// DefaultView shows everything in API order
func DefaultView() View {
	return View{
		TypeFilter: positions.FilterAll,
		SortBy:     string(positions.SortDefault),
	}
}

// Sanitize replaces values that no longer map to a known filter or sort key
func (v View) Sanitize() View {
	known := false
	for _, f := range positions.TypeFilters() {
		if f == v.TypeFilter {
			known = true
			break
		}
	}
	if !known {
		v.TypeFilter = positions.FilterAll
	}
	key, _ := positions.ParseSortKey(v.SortBy)
	v.SortBy = string(key)
	return v
}

// Store exposes typed preferences on top of Repository.
// Read failures fall back to defaults; a broken store never blocks the UI.
type Store struct {
	repo *Repository
	db   *database.DB
	log  zerolog.Logger
}

// NewStore wraps an existing repository
func NewStore(repo *Repository, log zerolog.Logger) *Store {
	return &Store{repo: repo, log: log.With().Str("component", "preferences").Logger()}
}

// Open opens (and migrates) <dataDir>/preferences.db and checks that it responds
func Open(ctx context.Context, dataDir string, log zerolog.Logger) (*Store, error) {
	db, err := database.New(database.Config{
		Path: filepath.Join(dataDir, "preferences.db"),
		Name: "preferences",
	})
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate preferences database: %w", err)
	}
	if err := db.QuickCheck(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("preferences database %s is not responding: %w", db.Name(), err)
	}
	log.Debug().Str("database", db.Name()).Str("path", db.Path()).Msg("Preferences database ready")

	s := NewStore(NewRepository(db.Conn(), log), log)
	s.db = db
	return s, nil
}

// Close closes the database if the store opened it
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Reset deletes every stored preference and returns the keys it removed
func (s *Store) Reset() ([]string, error) {
	keys, err := s.repo.Keys()
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		if err := s.repo.Delete(key); err != nil {
			return nil, err
		}
	}
	s.log.Info().Strs("keys", keys).Msg("Preferences reset")
	return keys, nil
}

// LoadView returns the stored view, or DefaultView when none is stored
func (s *Store) LoadView() View {
	var v View
	if err := s.repo.Get(KeyView, &v); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn().Err(err).Msg("Failed to load view preferences, using defaults")
		}
		return DefaultView()
	}
	return v.Sanitize()
}

// SaveView persists the view
func (s *Store) SaveView(v View) error {
	return s.repo.Set(KeyView, v)
}

// Language returns the stored language or fallback
func (s *Store) Language(fallback string) string {
	return s.getString(KeyLanguage, fallback)
}

// SetLanguage persists the language
func (s *Store) SetLanguage(lang string) error {
	return s.repo.Set(KeyLanguage, lang)
}

// Theme returns the stored theme name or fallback
func (s *Store) Theme(fallback string) string {
	return s.getString(KeyTheme, fallback)
}

// SetTheme persists the theme name
func (s *Store) SetTheme(name string) error {
	return s.repo.Set(KeyTheme, name)
}

func (s *Store) getString(key, fallback string) string {
	var v string
	if err := s.repo.Get(key, &v); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn().Err(err).Str("key", key).Msg("Failed to load preference, using fallback")
		}
		return fallback
	}
	if v == "" {
		return fallback
	}
	return v
}
