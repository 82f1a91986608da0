package app

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GeekNeuron/OpenPos/internal/clients/positionapi"
	"github.com/GeekNeuron/OpenPos/internal/domain"
	"github.com/GeekNeuron/OpenPos/internal/positions"
	"github.com/GeekNeuron/OpenPos/internal/preferences"
	"github.com/GeekNeuron/OpenPos/internal/render"
	testingpkg "github.com/GeekNeuron/OpenPos/internal/testing"
)

func fptr(v float64) *float64 { return &v }

func TestLoad_AllValid(t *testing.T) {
	res, err := Load(context.Background(), testingpkg.NewMockFetcher(
		testingpkg.RawPosition("BTCUSDT", "long", 100),
		testingpkg.RawPosition("ETHUSDT", "short", 50),
	), zerolog.Nop())

	require.NoError(t, err)
	assert.Len(t, res.Positions, 2)
	assert.Equal(t, 2, res.Total)
	assert.False(t, res.Partial())
}

func TestLoad_PartialInvalid(t *testing.T) {
	res, err := Load(context.Background(), testingpkg.NewMockFetcher(
		testingpkg.RawPosition("BTCUSDT", "long", 100),
		testingpkg.RawPosition("BAD", "hold", 1),
		"not an object",
	), zerolog.Nop())

	require.NoError(t, err)
	assert.Len(t, res.Positions, 1)
	assert.Equal(t, 2, res.Invalid)
	assert.True(t, res.Partial())
	assert.Contains(t, res.Errors[0], "Position 2 (BAD)")
}

func TestLoad_AllInvalid(t *testing.T) {
	_, err := Load(context.Background(), testingpkg.NewMockFetcher(
		testingpkg.RawPosition("", "long", 1),
		testingpkg.RawPosition("X", "hold", 1),
	), zerolog.Nop())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllInvalid)

	key, vars := MessageKey(err)
	assert.Equal(t, "error.allInvalid", key)
	assert.Equal(t, "2", vars["total"])
}

func TestLoad_EmptyIsNotAnError(t *testing.T) {
	fetcher := testingpkg.NewMockFetcher()
	fetcher.SetRecords([]any{})
	res, err := Load(context.Background(), fetcher, zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, res.Positions)
	assert.Equal(t, 0, res.Total)
}

func TestLoad_FetchErrorBypassesValidation(t *testing.T) {
	fetchErr := &positionapi.ClientError{Status: 404}
	fetcher := testingpkg.NewMockFetcher()
	fetcher.SetError(fetchErr)
	_, err := Load(context.Background(), fetcher, zerolog.Nop())
	assert.Same(t, fetchErr, err)
	assert.Equal(t, 1, fetcher.Calls())
}

func TestMessageKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		key  string
		vars map[string]string
	}{
		{"unauthorized", &positionapi.ClientError{Status: 401}, "error.unauthorized", nil},
		{"forbidden", &positionapi.ClientError{Status: 403}, "error.unauthorized", nil},
		{"not found", &positionapi.ClientError{Status: 404}, "error.notFound", nil},
		{"other 4xx", &positionapi.ClientError{Status: 422}, "error.client", map[string]string{"status": "422"}},
		{"server exhausted", &positionapi.ExhaustedRetriesError{Attempts: 3, Last: &positionapi.ServerError{Status: 503}}, "error.server", map[string]string{"attempts": "3"}},
		{"network exhausted", &positionapi.ExhaustedRetriesError{Attempts: 3, Last: &positionapi.NetworkError{Err: errors.New("refused")}}, "error.network", map[string]string{"attempts": "3"}},
		{"malformed exhausted", &positionapi.ExhaustedRetriesError{Attempts: 3, Last: &positionapi.MalformedResponseError{Reason: "object"}}, "error.malformed", nil},
		{"unknown", errors.New("boom"), "error.unknown", map[string]string{"error": "boom"}},
		{"nil", nil, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, vars := MessageKey(tt.err)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.vars, vars)
		})
	}
}

func newTestState(saver ViewSaver) *State {
	return NewState(render.NewController(15, nil), nil, preferences.DefaultView(), saver, zerolog.Nop())
}

func TestState_FetchGenerations(t *testing.T) {
	s := newTestState(nil)
	first := s.BeginFetch()
	second := s.BeginFetch()

	assert.False(t, s.Accept(first))
	assert.True(t, s.Accept(second))

	_, ok := s.SetPositions(first, []domain.Position{{Symbol: "OLD", Type: "long"}})
	assert.False(t, ok)
	assert.Empty(t, s.Positions())

	es, ok := s.SetPositions(second, []domain.Position{{Symbol: "NEW", Type: "long"}})
	assert.True(t, ok)
	assert.False(t, es.Empty)
	assert.Equal(t, "NEW", s.Positions()[0].Symbol)
}

func TestState_ViewChangesResetControllerAndPersist(t *testing.T) {
	saver := testingpkg.NewMockPreferences()
	s := newTestState(saver)

	_, ok := s.SetPositions(s.BeginFetch(), testingpkg.NewGeneratedPositions(40))
	require.True(t, ok)

	ctrl := s.Controller()
	ctrl.RenderNextBatch()
	ctrl.RenderNextBatch()
	assert.Equal(t, 30, ctrl.Cursor())

	es, err := s.SetTypeFilter("short")
	require.NoError(t, err)
	assert.False(t, es.Empty)
	assert.Equal(t, 20, es.Total)
	assert.Equal(t, 0, ctrl.Cursor())

	es, err = s.SetSort(positions.SortEntryPriceDesc)
	require.NoError(t, err)
	displayed := s.Displayed()
	require.Len(t, displayed, 20)
	assert.Equal(t, 139.0, displayed[0].EntryPrice)

	es, err = s.SetSearch("zzz")
	require.NoError(t, err)
	assert.True(t, es.Empty)
	assert.Equal(t, render.FilteredOut, es.Reason)

	require.Len(t, saver.Views(), 3)
	last, _ := saver.LastView()
	assert.Equal(t, preferences.View{TypeFilter: "short", SymbolSearch: "zzz", SortBy: "entryPrice-desc"}, last)
}

func TestState_SaveFailureStillApplies(t *testing.T) {
	saver := testingpkg.NewMockPreferences()
	saver.SetError(errors.New("disk full"))
	s := newTestState(saver)
	_, ok := s.SetPositions(s.BeginFetch(), []domain.Position{{Symbol: "A", Type: "buy"}, {Symbol: "B", Type: "sell"}})
	require.True(t, ok)

	es, err := s.SetTypeFilter("sell")
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, 1, es.Total)
	assert.Equal(t, "sell", s.View().TypeFilter)
}

func TestState_NoDataVersusFiltered(t *testing.T) {
	s := newTestState(nil)
	es, ok := s.SetPositions(s.BeginFetch(), nil)
	require.True(t, ok)
	assert.True(t, es.Empty)
	assert.Equal(t, render.NoData, es.Reason)
}

func TestState_UnknownSortFallsBackToDefault(t *testing.T) {
	s := newTestState(nil)
	_, _ = s.SetPositions(s.BeginFetch(), []domain.Position{{Symbol: "B", Type: "long"}, {Symbol: "A", Type: "long"}})

	_, err := s.SetSort(positions.SortKey("volume-asc"))
	require.NoError(t, err)
	assert.Equal(t, "default", s.View().SortBy)
	assert.Equal(t, "B", s.Displayed()[0].Symbol)
}

func TestSummarize(t *testing.T) {
	list := []domain.Position{
		{Symbol: "A", Type: "long", EntryPrice: 10, Amount: 2, PnL: fptr(5), Leverage: fptr(10)},
		{Symbol: "B", Type: "SELL", EntryPrice: 4, Amount: 1, PnL: fptr(-2)},
		{Symbol: "C", Type: "buy", EntryPrice: 1, Amount: 1, Leverage: fptr(20)},
	}

	s := Summarize(list, 5)
	assert.Equal(t, 3, s.Shown)
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 2, s.Long)
	assert.Equal(t, 1, s.Short)
	assert.True(t, s.HasPnL)
	assert.InDelta(t, 3.0, s.TotalPnL, 1e-9)
	assert.True(t, s.HasLeverage)
	assert.InDelta(t, 15.0, s.MeanLeverage, 1e-9)
	assert.InDelta(t, 25.0, s.Notional, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, 0)
	assert.False(t, s.HasPnL)
	assert.False(t, s.HasLeverage)
	assert.Zero(t, s.Notional)
}
