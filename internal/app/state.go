package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/GeekNeuron/OpenPos/internal/domain"
	"github.com/GeekNeuron/OpenPos/internal/positions"
	"github.com/GeekNeuron/OpenPos/internal/preferences"
	"github.com/GeekNeuron/OpenPos/internal/render"
)

// ViewSaver persists view preferences. *preferences.Store satisfies it.
type ViewSaver interface {
	SaveView(preferences.View) error
}

// State holds the fetched positions, the active view preferences and the
// render controller fed from them.
type State struct {
	mu         sync.Mutex
	fetchGen   uint64
	positions  []domain.Position
	displayed  []domain.Position
	view       preferences.View
	sorter     *positions.Sorter
	controller *render.Controller
	saver      ViewSaver
	log        zerolog.Logger
}

// NewState creates the state. saver may be nil, in which case view changes
// are not persisted.
func NewState(controller *render.Controller, sorter *positions.Sorter, view preferences.View, saver ViewSaver, log zerolog.Logger) *State {
	if sorter == nil {
		sorter = positions.SorterFor("en")
	}
	return &State{
		view:       view.Sanitize(),
		sorter:     sorter,
		controller: controller,
		saver:      saver,
		log:        log.With().Str("component", "state").Logger(),
	}
}

// Controller returns the render controller
func (s *State) Controller() *render.Controller {
	return s.controller
}

// BeginFetch starts a new fetch generation and returns its token
func (s *State) BeginFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchGen++
	return s.fetchGen
}

// Accept reports whether token belongs to the newest started fetch
func (s *State) Accept(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return token == s.fetchGen
}

// SetPositions replaces the position list if token is still current, then
// re-applies the view. Stale results are dropped and ok is false.
func (s *State) SetPositions(token uint64, list []domain.Position) (es render.EmptyState, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.fetchGen {
		s.log.Debug().Uint64("token", token).Uint64("current", s.fetchGen).Msg("Discarding stale fetch result")
		return render.EmptyState{}, false
	}
	s.positions = append([]domain.Position(nil), list...)
	return s.applyLocked(), true
}

// Positions returns every accepted position from the latest fetch
func (s *State) Positions() []domain.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Position(nil), s.positions...)
}

// Displayed returns the filtered and sorted display list
func (s *State) Displayed() []domain.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Position(nil), s.displayed...)
}

// View returns the active view preferences
func (s *State) View() preferences.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// SetTypeFilter changes the type filter. The returned error only reports a
// failure to persist; the new view is applied regardless.
func (s *State) SetTypeFilter(filter string) (render.EmptyState, error) {
	return s.update(func(v *preferences.View) { v.TypeFilter = filter })
}

// SetSearch changes the symbol search term
func (s *State) SetSearch(term string) (render.EmptyState, error) {
	return s.update(func(v *preferences.View) { v.SymbolSearch = term })
}

// SetSort changes the sort key
func (s *State) SetSort(key positions.SortKey) (render.EmptyState, error) {
	return s.update(func(v *preferences.View) { v.SortBy = string(key) })
}

// SetSorter swaps the collation used for symbol sorting and re-applies the view
func (s *State) SetSorter(sorter *positions.Sorter) render.EmptyState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sorter = sorter
	return s.applyLocked()
}

// Apply re-runs filter and sort over the current positions
func (s *State) Apply() render.EmptyState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked()
}

func (s *State) update(change func(*preferences.View)) (render.EmptyState, error) {
	s.mu.Lock()
	next := s.view
	change(&next)
	s.view = next.Sanitize()
	es := s.applyLocked()
	view := s.view
	s.mu.Unlock()

	if s.saver == nil {
		return es, nil
	}
	if err := s.saver.SaveView(view); err != nil {
		s.log.Warn().Err(err).Msg("Failed to persist view preferences")
		return es, err
	}
	return es, nil
}

func (s *State) applyLocked() render.EmptyState {
	key, _ := positions.ParseSortKey(s.view.SortBy)
	filtered := positions.Filter(s.positions, s.view.TypeFilter, s.view.SymbolSearch)
	s.displayed = s.sorter.Sort(filtered, key)
	return s.controller.Reset(s.displayed, len(s.positions))
}
