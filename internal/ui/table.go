package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/GeekNeuron/OpenPos/internal/domain"
	"github.com/GeekNeuron/OpenPos/internal/i18n"
)

// RenderTable renders positions as a plain bordered table for non-interactive
// output. Missing optional fields show as "-".
func RenderTable(list []domain.Position, tr *i18n.Translator) string {
	headers := []string{
		"Symbol",
		tr.T("filter.label", nil),
		tr.T("card.entry", nil),
		tr.T("card.amount", nil),
		tr.T("card.leverage", nil),
		tr.T("card.pnl", nil),
		tr.T("card.user", nil),
		tr.T("card.opened", nil),
	}

	rows := make([][]string, 0, len(list))
	for _, p := range list {
		rows = append(rows, []string{
			p.Symbol,
			p.NormalizedType(),
			plainNumber(p.EntryPrice),
			plainNumber(p.Amount),
			optNumber(p.Leverage),
			optNumber(p.PnL),
			optString(p.User),
			optTime(p),
		})
	}

	bold := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return bold
			}
			return cell
		})

	return strings.TrimRight(t.String(), "\n") + "\n"
}

func optNumber(v *float64) string {
	if v == nil {
		return "-"
	}
	return plainNumber(*v)
}

func optString(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}

func optTime(p domain.Position) string {
	t, ok := p.OpenedAt()
	if !ok {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
