package testing

import (
	"context"
	"sync"

	"github.com/GeekNeuron/OpenPos/internal/preferences"
)

// MockFetcher is a mock implementation of app.Fetcher for testing
type MockFetcher struct {
	mu      sync.Mutex
	records []any
	err     error
	calls   int
}

// NewMockFetcher creates a fetcher that returns records
func NewMockFetcher(records ...any) *MockFetcher {
	return &MockFetcher{records: records}
}

// SetRecords sets the records to return
func (m *MockFetcher) SetRecords(records []any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = records
}

// SetError sets the error to return
func (m *MockFetcher) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times FetchPositions was called
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// FetchPositions returns the configured records or error
func (m *MockFetcher) FetchPositions(ctx context.Context) ([]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.records, nil
}

// MockPreferences is an in-memory stand-in for preferences.Store
type MockPreferences struct {
	mu       sync.Mutex
	views    []preferences.View
	language string
	theme    string
	err      error
}

// NewMockPreferences creates an empty preference store
func NewMockPreferences() *MockPreferences {
	return &MockPreferences{}
}

// SetError makes every subsequent write fail with err
func (m *MockPreferences) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SaveView records v
func (m *MockPreferences) SaveView(v preferences.View) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views = append(m.views, v)
	return m.err
}

// SetLanguage records lang
func (m *MockPreferences) SetLanguage(lang string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.language = lang
	return m.err
}

// SetTheme records name
func (m *MockPreferences) SetTheme(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.theme = name
	return m.err
}

// Views returns every saved view, oldest first
func (m *MockPreferences) Views() []preferences.View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]preferences.View(nil), m.views...)
}

// LastView returns the most recently saved view
func (m *MockPreferences) LastView() (preferences.View, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.views) == 0 {
		return preferences.View{}, false
	}
	return m.views[len(m.views)-1], true
}

// Language returns the last language written
func (m *MockPreferences) Language() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.language
}

// Theme returns the last theme written
func (m *MockPreferences) Theme() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.theme
}
