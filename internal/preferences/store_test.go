package preferences

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(context.Background(), dir, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, dir
}

func TestLoadView_DefaultsWhenEmpty(t *testing.T) {
	s, _ := openTestStore(t)
	assert.Equal(t, View{TypeFilter: "all", SymbolSearch: "", SortBy: "default"}, s.LoadView())
}

func TestSaveView_RoundTripAcrossReopen(t *testing.T) {
	s, dir := openTestStore(t)
	want := View{TypeFilter: "short", SymbolSearch: "eth", SortBy: "entryPrice-desc"}
	require.NoError(t, s.SaveView(want))
	require.NoError(t, s.Close())

	reopened, err := Open(context.Background(), dir, zerolog.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, want, reopened.LoadView())
}

func TestSaveView_Overwrites(t *testing.T) {
	s, _ := openTestStore(t)
	require.NoError(t, s.SaveView(View{TypeFilter: "long", SortBy: "symbol-asc"}))
	require.NoError(t, s.SaveView(View{TypeFilter: "sell", SortBy: "timestamp-asc"}))

	assert.Equal(t, "sell", s.LoadView().TypeFilter)
	assert.Equal(t, "timestamp-asc", s.LoadView().SortBy)
}

func TestLoadView_SanitizesUnknownValues(t *testing.T) {
	s, _ := openTestStore(t)
	require.NoError(t, s.SaveView(View{TypeFilter: "hedge", SymbolSearch: "btc", SortBy: "volume-asc"}))

	got := s.LoadView()
	assert.Equal(t, "all", got.TypeFilter)
	assert.Equal(t, "btc", got.SymbolSearch)
	assert.Equal(t, "default", got.SortBy)
}

func TestLoadView_CorruptBlobFallsBack(t *testing.T) {
	s, _ := openTestStore(t)
	_, err := s.repo.db.Exec("INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, 0)", KeyView, []byte{0xff, 0x00})
	require.NoError(t, err)

	assert.Equal(t, DefaultView(), s.LoadView())
}

func TestViewIsStoredAsMsgpackObject(t *testing.T) {
	s, _ := openTestStore(t)
	require.NoError(t, s.SaveView(View{TypeFilter: "long", SymbolSearch: "sol", SortBy: "symbol-desc"}))

	var blob []byte
	require.NoError(t, s.repo.db.QueryRow("SELECT value FROM preferences WHERE key = ?", KeyView).Scan(&blob))

	var decoded map[string]string
	require.NoError(t, msgpack.Unmarshal(blob, &decoded))
	assert.Equal(t, map[string]string{"typeFilter": "long", "symbolSearch": "sol", "sortBy": "symbol-desc"}, decoded)
}

func TestLanguageAndTheme(t *testing.T) {
	s, _ := openTestStore(t)
	assert.Equal(t, "en", s.Language("en"))
	assert.Equal(t, "dark", s.Theme("dark"))

	require.NoError(t, s.SetLanguage("fa"))
	require.NoError(t, s.SetTheme("light"))
	assert.Equal(t, "fa", s.Language("en"))
	assert.Equal(t, "light", s.Theme("dark"))
}

func TestRepository_KeysAndDelete(t *testing.T) {
	s, _ := openTestStore(t)
	require.NoError(t, s.SetTheme("light"))
	require.NoError(t, s.SetLanguage("en"))

	keys, err := s.repo.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{KeyLanguage, KeyTheme}, keys)

	require.NoError(t, s.repo.Delete(KeyTheme))
	require.NoError(t, s.repo.Delete("never-stored"))
	var v string
	assert.ErrorIs(t, s.repo.Get(KeyTheme, &v), ErrNotFound)
}

func TestOpen_CancelledContextFails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Open(ctx, t.TempDir(), zerolog.Nop())
	assert.Error(t, err)
}

func TestReset_ClearsEveryKey(t *testing.T) {
	s, _ := openTestStore(t)
	require.NoError(t, s.SaveView(View{TypeFilter: "long", SortBy: "symbol-asc"}))
	require.NoError(t, s.SetTheme("light"))
	require.NoError(t, s.SetLanguage("fa"))

	removed, err := s.Reset()
	require.NoError(t, err)
	assert.Equal(t, []string{KeyLanguage, KeyTheme, KeyView}, removed)

	assert.Equal(t, DefaultView(), s.LoadView())
	assert.Equal(t, "dark", s.Theme("dark"))
	assert.Equal(t, "en", s.Language("en"))

	removed, err = s.Reset()
	require.NoError(t, err)
	assert.Empty(t, removed)
}
