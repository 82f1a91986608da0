package ui

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/GeekNeuron/OpenPos/internal/i18n"
	"github.com/GeekNeuron/OpenPos/internal/positions"
	"github.com/GeekNeuron/OpenPos/internal/render"
	"github.com/GeekNeuron/OpenPos/internal/theme"
)

// nearEndThreshold is how far down the rendered content counts as "near the end"
const nearEndThreshold = 0.9

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	forward := false

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.maxWidth > 0 && m.width > m.maxWidth {
			m.width = m.maxWidth
		}
		if m.maxHeight > 0 && m.height > m.maxHeight {
			m.height = m.maxHeight
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, m.height)
			m.ready = true
		}
		m.help.Width = m.width
		m.contentDirty = true

	case tea.KeyMsg:
		if m.searching && !key.Matches(msg, keys.Interrupt) {
			cmds = append(cmds, m.updateSearch(msg))
			break
		}
		cmd, handled := m.handleKey(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if !handled {
			forward = true
		}

	case tea.MouseMsg:
		forward = true

	case RefreshMsg:
		cmds = append(cmds, m.startFetch())

	case positionsMsg:
		if !m.state.Accept(msg.token) {
			m.log.Debug().Uint64("token", msg.token).Msg("Ignoring stale fetch result")
			break
		}
		m.loading = false
		m.retryNote = ""
		if msg.err != nil {
			if errors.Is(msg.err, context.Canceled) {
				break
			}
			m.err = msg.err
			m.contentDirty = true
			break
		}
		m.err = nil
		m.lastUpdated = time.Now()
		if es, ok := m.state.SetPositions(msg.token, msg.result.Positions); ok {
			m.onReset(es)
		}
		if msg.result.Partial() {
			cmds = append(cmds, m.showToast(m.tr.T("toast.partialInvalid", map[string]string{
				"count": strconv.Itoa(msg.result.Invalid),
				"total": strconv.Itoa(msg.result.Total),
			})))
		}

	case progressMsg:
		if m.state.Accept(msg.FetchID) {
			m.retryNote = m.tr.T("app.retrying", map[string]string{
				"attempt": strconv.Itoa(msg.Attempt),
				"max":     strconv.Itoa(msg.MaxRetries),
				"delay":   msg.Delay.String(),
			})
		}
		cmds = append(cmds, waitProgress(m.progress))

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.ready {
		m.layout()
		if m.contentDirty {
			m.rebuildContent()
			m.contentDirty = false
		}
		if forward {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
		m.fillNearEnd()
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes a key outside search mode. handled is false for keys
// the viewport should see (scrolling).
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Quit):
		if m.cancelFetch != nil {
			m.cancelFetch()
		}
		return tea.Quit, true

	case key.Matches(msg, keys.Refresh):
		return m.startFetch(), true

	case key.Matches(msg, keys.Type):
		es, err := m.state.SetTypeFilter(positions.NextTypeFilter(m.state.View().TypeFilter))
		m.onReset(es)
		return m.saveFailed(err), true

	case key.Matches(msg, keys.Sort):
		current, _ := positions.ParseSortKey(m.state.View().SortBy)
		es, err := m.state.SetSort(current.Next())
		m.onReset(es)
		return m.saveFailed(err), true

	case key.Matches(msg, keys.Search):
		m.searching = true
		return m.search.Focus(), true

	case key.Matches(msg, keys.More):
		m.loadMore()
		return nil, true

	case key.Matches(msg, keys.Theme):
		m.th = theme.Toggle(m.th)
		m.applyTheme()
		m.contentDirty = true
		var err error
		if m.settings != nil {
			err = m.settings.SetTheme(m.th.Name)
		}
		if cmd := m.saveFailed(err); cmd != nil {
			return cmd, true
		}
		return m.showToast(m.tr.T("toast.themeChanged", map[string]string{"theme": m.th.Name})), true

	case key.Matches(msg, keys.Language):
		m.tr = i18n.New(i18n.Next(m.tr.Language()))
		m.search.Placeholder = m.tr.T("search.placeholder", nil)
		m.onReset(m.state.SetSorter(positions.SorterFor(m.tr.Language())))
		var err error
		if m.settings != nil {
			err = m.settings.SetLanguage(m.tr.Language())
		}
		if cmd := m.saveFailed(err); cmd != nil {
			return cmd, true
		}
		return m.showToast(m.tr.T("toast.languageChanged", nil)), true

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil, true

	case key.Matches(msg, keys.Back):
		if m.state.View().SymbolSearch != "" {
			m.search.SetValue("")
			es, err := m.state.SetSearch("")
			m.onReset(es)
			return m.saveFailed(err), true
		}
		return nil, true
	}
	return nil, false
}

// updateSearch feeds a key to the search box and re-filters on change
func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Confirm):
		m.searching = false
		m.search.Blur()
		return nil
	case key.Matches(msg, keys.Back):
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
	}

	var cmd tea.Cmd
	if m.searching {
		m.search, cmd = m.search.Update(msg)
	}

	if m.search.Value() == m.state.View().SymbolSearch {
		return cmd
	}
	es, err := m.state.SetSearch(m.search.Value())
	m.onReset(es)
	return tea.Batch(cmd, m.saveFailed(err))
}

// onReset records a new display list generation and renders its first batch
func (m *Model) onReset(es render.EmptyState) {
	m.empty = es
	m.gen = es.Generation
	if !es.Empty {
		m.state.Controller().RenderNextBatch()
	}
	m.contentDirty = true
	m.scrollTop = true
}

// loadMore renders the next batch of the current generation
func (m *Model) loadMore() {
	if _, ok := m.state.Controller().NearEnd(m.gen); ok {
		m.contentDirty = true
	}
}

// fillNearEnd keeps rendering batches while the viewport sits near the end
// of the rendered content
func (m *Model) fillNearEnd() {
	if m.err != nil || m.empty.Empty {
		return
	}
	ctrl := m.state.Controller()
	for ctrl.HasMore() && m.nearEnd() {
		if _, ok := ctrl.NearEnd(m.gen); !ok {
			return
		}
		m.rebuildContent()
	}
}

func (m Model) nearEnd() bool {
	return m.viewport.AtBottom() || m.viewport.ScrollPercent() >= nearEndThreshold
}

func (m *Model) saveFailed(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	m.log.Warn().Err(err).Msg("Failed to save preferences")
	return m.showToast(m.tr.T("toast.saveFailed", nil))
}
