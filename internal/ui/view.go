package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/GeekNeuron/OpenPos/internal/app"
	"github.com/GeekNeuron/OpenPos/internal/domain"
	"github.com/GeekNeuron/OpenPos/internal/i18n"
	"github.com/GeekNeuron/OpenPos/internal/positions"
	"github.com/GeekNeuron/OpenPos/internal/render"
	"github.com/GeekNeuron/OpenPos/internal/theme"
)

func (m Model) View() string {
	if !m.ready {
		return "\n  " + m.tr.T("app.loading", nil)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		lipgloss.NewStyle().Height(m.viewport.Height).Render(m.viewBody()),
		m.viewFooter(),
	)
}

// layout sizes the viewport to whatever the header and footer leave over
func (m *Model) layout() {
	h := m.height - lipgloss.Height(m.viewHeader()) - lipgloss.Height(m.viewFooter())
	if h < 3 {
		h = 3
	}
	m.viewport.Width = m.width
	m.viewport.Height = h
}

func (m *Model) rebuildContent() {
	ctrl := m.state.Controller()
	items := ctrl.Rendered()

	cards := make([]string, 0, len(items)+1)
	for _, p := range items {
		cards = append(cards, m.renderCard(p))
	}

	muted := lipgloss.NewStyle().Foreground(m.th.Muted).Padding(0, 2)
	if ctrl.HasMore() {
		remaining := ctrl.Len() - ctrl.Cursor()
		cards = append(cards, muted.Render(m.tr.T("list.more", map[string]string{"remaining": m.tr.FormatInt(remaining)})))
	} else if len(items) > 0 {
		cards = append(cards, muted.Render(m.tr.T("list.end", nil)))
	}

	m.viewport.SetContent(strings.Join(cards, "\n"))
	if m.scrollTop {
		m.viewport.GotoTop()
		m.scrollTop = false
	}
}

// applyTheme restyles the bubbles components after a theme change
func (m *Model) applyTheme() {
	t := m.th
	m.search.PromptStyle = lipgloss.NewStyle().Foreground(t.Primary)
	m.search.TextStyle = lipgloss.NewStyle().Foreground(t.Text)
	m.search.PlaceholderStyle = lipgloss.NewStyle().Foreground(t.Muted)
	m.spinner.Style = lipgloss.NewStyle().Foreground(t.Accent)

	m.help.Styles.ShortKey = lipgloss.NewStyle().Foreground(t.Primary)
	m.help.Styles.ShortDesc = lipgloss.NewStyle().Foreground(t.Muted)
	m.help.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(t.Border)
	m.help.Styles.FullKey = lipgloss.NewStyle().Foreground(t.Primary)
	m.help.Styles.FullDesc = lipgloss.NewStyle().Foreground(t.Muted)
	m.help.Styles.FullSeparator = lipgloss.NewStyle().Foreground(t.Border)
}

func (m Model) viewHeader() string {
	t := m.th
	pad := lipgloss.NewStyle().Padding(0, 2)

	title := lipgloss.NewStyle().Bold(true).Render(theme.GradientText(m.tr.T("app.title", nil), t.Primary, t.Accent))
	url := lipgloss.NewStyle().Foreground(t.Muted).Render(m.apiURL)

	var status string
	switch {
	case m.retryNote != "":
		status = lipgloss.NewStyle().Foreground(t.Warning).Render(m.spinner.View() + " " + m.retryNote)
	case m.loading:
		status = m.spinner.View() + " " + lipgloss.NewStyle().Foreground(t.Subtext).Render(m.tr.T("app.loading", nil))
	case !m.lastUpdated.IsZero():
		status = lipgloss.NewStyle().Foreground(t.Muted).Render(
			m.tr.T("app.refreshed", map[string]string{"time": m.lastUpdated.Format("15:04:05")}))
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", url)
	gap := m.width - 4 - lipgloss.Width(top) - lipgloss.Width(status)
	if gap < 2 {
		gap = 2
	}
	top = top + strings.Repeat(" ", gap) + status

	toast := " "
	if m.toast != "" {
		toast = lipgloss.NewStyle().Foreground(t.Warning).Render(m.toast)
	}

	return pad.Render(lipgloss.JoinVertical(lipgloss.Left,
		top,
		m.viewControls(),
		m.viewSummary(),
		toast,
	))
}

func (m Model) viewControls() string {
	t := m.th
	view := m.state.View()
	label := lipgloss.NewStyle().Foreground(t.Subtext)
	active := lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Underline(true)
	inactive := lipgloss.NewStyle().Foreground(t.Muted)

	chips := make([]string, 0, len(positions.TypeFilters()))
	for _, f := range positions.TypeFilters() {
		name := f
		if f == positions.FilterAll {
			name = m.tr.T("filter.all", nil)
		}
		if f == view.TypeFilter {
			chips = append(chips, active.Render(name))
		} else {
			chips = append(chips, inactive.Render(name))
		}
	}

	var search string
	switch {
	case m.searching:
		search = m.search.View()
	case view.SymbolSearch != "":
		search = lipgloss.NewStyle().Foreground(t.Text).Render(view.SymbolSearch)
	default:
		search = inactive.Render(m.tr.T("search.placeholder", nil))
	}

	return strings.Join([]string{
		label.Render(m.tr.T("filter.label", nil)+":") + " " + strings.Join(chips, " "),
		label.Render(m.tr.T("search.label", nil)+":") + " " + search,
		label.Render(m.tr.T("sort.label", nil)+":") + " " + active.Render(view.SortBy),
	}, "   ")
}

func (m Model) viewSummary() string {
	t := m.th
	s := app.Summarize(m.state.Displayed(), len(m.state.Positions()))
	muted := lipgloss.NewStyle().Foreground(t.Subtext)

	parts := []string{
		muted.Render(m.tr.T("summary.shown", map[string]string{
			"shown": m.tr.FormatInt(s.Shown),
			"total": m.tr.FormatInt(s.Total),
		})),
		muted.Render(m.tr.T("summary.split", map[string]string{
			"long":  m.tr.FormatInt(s.Long),
			"short": m.tr.FormatInt(s.Short),
		})),
	}
	if s.HasPnL {
		parts = append(parts, lipgloss.NewStyle().Foreground(m.signColor(s.TotalPnL)).Render(
			m.tr.T("summary.pnl", map[string]string{"pnl": formatSigned(m.tr, s.TotalPnL, 2)})))
	}
	if s.HasLeverage {
		parts = append(parts, muted.Render(m.tr.T("summary.leverage", map[string]string{
			"leverage": m.tr.FormatNumber(s.MeanLeverage, 1),
		})))
	}
	return strings.Join(parts, "  ·  ")
}

func (m Model) viewBody() string {
	t := m.th
	center := lipgloss.NewStyle().Width(m.width).Padding(1, 2)

	switch {
	case m.err != nil:
		msgKey, vars := app.MessageKey(m.err)
		width := m.width - 4
		if width > 80 {
			width = 80
		}
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Error).
			Foreground(t.Error).
			Padding(1, 2).
			Width(width)
		hint := lipgloss.NewStyle().Foreground(t.Muted).Render(keys.Refresh.Help().Key + " " + keys.Refresh.Help().Desc)
		return center.Render(box.Render(m.tr.T(msgKey, vars) + "\n\n" + hint))

	case m.empty.Empty:
		msgKey := "empty.noData"
		if m.empty.Reason == render.FilteredOut {
			msgKey = "empty.filtered"
		}
		return center.Foreground(t.Muted).Render(m.tr.T(msgKey, nil))

	case m.loading && m.state.Controller().Len() == 0:
		return center.Render(m.spinner.View() + " " + lipgloss.NewStyle().Foreground(t.Subtext).Render(m.tr.T("app.loading", nil)))
	}

	return m.viewport.View()
}

func (m Model) viewFooter() string {
	return lipgloss.NewStyle().Padding(0, 2).Render(m.help.View(keys))
}

func (m Model) renderCard(p domain.Position) string {
	t := m.th
	width := m.width - 4
	if width < 20 {
		width = 20
	}

	sideColor := t.Error
	if p.IsBullish() {
		sideColor = t.Success
	}

	symbol := lipgloss.NewStyle().Bold(true).Foreground(sideColor).Render(p.Symbol)
	badge := lipgloss.NewStyle().
		Foreground(t.Text).
		Background(sideColor).
		Padding(0, 1).
		Render(strings.ToUpper(p.NormalizedType()))
	head := symbol + " " + badge
	if p.BaseAsset != nil || p.QuoteAsset != nil {
		head += " " + lipgloss.NewStyle().Foreground(t.Muted).Render(pair(p))
	}

	label := lipgloss.NewStyle().Foreground(t.Subtext)
	value := lipgloss.NewStyle().Foreground(t.Text)
	field := func(key, v string, style lipgloss.Style) string {
		return label.Render(m.tr.T(key, nil)+": ") + style.Render(v)
	}

	fields := []string{
		field("card.entry", m.tr.FormatNumber(p.EntryPrice, priceDecimals(p.EntryPrice)), value),
		field("card.amount", m.tr.FormatNumber(p.Amount, priceDecimals(p.Amount)), value),
	}
	if p.Leverage != nil {
		fields = append(fields, field("card.leverage", m.tr.FormatNumber(*p.Leverage, 0)+"x", value))
	}
	if p.PnL != nil {
		fields = append(fields, field("card.pnl", formatSigned(m.tr, *p.PnL, 2),
			lipgloss.NewStyle().Foreground(m.signColor(*p.PnL))))
	}

	lines := []string{head, strings.Join(fields, "   ")}

	var meta []string
	if p.User != nil {
		meta = append(meta, field("card.user", *p.User, value))
	}
	if opened, ok := p.OpenedAt(); ok {
		meta = append(meta, field("card.opened", opened.Format("2006-01-02 15:04"), value))
	}
	if len(meta) > 0 {
		lines = append(lines, strings.Join(meta, "   "))
	}

	align := lipgloss.Left
	if m.tr.RTL() {
		align = lipgloss.Right
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1).
		Width(width).
		Align(align).
		Render(strings.Join(lines, "\n"))

	return lipgloss.NewStyle().Padding(0, 2).Render(card)
}

func (m Model) signColor(v float64) lipgloss.Color {
	switch {
	case v > 0:
		return m.th.Success
	case v < 0:
		return m.th.Error
	default:
		return m.th.Subtext
	}
}

func pair(p domain.Position) string {
	base, quote := "?", "?"
	if p.BaseAsset != nil {
		base = *p.BaseAsset
	}
	if p.QuoteAsset != nil {
		quote = *p.QuoteAsset
	}
	return base + "/" + quote
}

// priceDecimals shows sub-unit prices with more precision
func priceDecimals(v float64) int {
	if v != 0 && math.Abs(v) < 1 {
		return 6
	}
	return 2
}

func formatSigned(tr *i18n.Translator, v float64, decimals int) string {
	s := tr.FormatNumber(v, decimals)
	if v > 0 {
		return "+" + s
	}
	return s
}

// plainNumber formats without locale grouping for machine-friendly output
func plainNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprint(v)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
