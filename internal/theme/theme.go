package theme

import (
	"fmt"
	"math"
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// Theme names as stored in preferences.
const (
	NameDark  = "dark"
	NameLight = "light"
)

// Theme holds the semantic color palette for the entire TUI.
type Theme struct {
	Name    string
	Border  lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color
	Subtext lipgloss.Color
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color
}

func fromFlavor(name string, f catppuccin.Flavor) Theme {
	c := func(col catppuccin.Color) lipgloss.Color { return lipgloss.Color(col.Hex) }
	return Theme{
		Name:    name,
		Border:  c(f.Surface2()),
		Muted:   c(f.Overlay0()),
		Text:    c(f.Text()),
		Subtext: c(f.Subtext0()),
		Primary: c(f.Blue()),
		Accent:  c(f.Mauve()),
		Success: c(f.Green()),
		Warning: c(f.Peach()),
		Error:   c(f.Red()),
		Info:    c(f.Sky()),
	}
}

// Dark is Catppuccin Mocha.
var Dark = fromFlavor(NameDark, catppuccin.Mocha)

// Light is Catppuccin Latte.
var Light = fromFlavor(NameLight, catppuccin.Latte)

// Default theme.
var Default = Dark

// ByName returns the named theme, falling back to Default.
func ByName(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameLight:
		return Light
	case NameDark:
		return Dark
	default:
		return Default
	}
}

// Toggle flips between dark and light.
func Toggle(t Theme) Theme {
	if t.Name == NameLight {
		return Dark
	}
	return Light
}

// GradientText applies a horizontal color gradient across each line of text.
func GradientText(text string, from, to lipgloss.Color) string {
	fr, fg, fb := hexToRGB(string(from))
	tr, tg, tb := hexToRGB(string(to))

	lines := strings.Split(text, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		runes := []rune(line)
		n := len(runes)
		if n == 0 {
			result = append(result, "")
			continue
		}

		var sb strings.Builder
		for i, r := range runes {
			t := 0.0
			if n > 1 {
				t = float64(i) / float64(n-1)
			}
			cr := uint8(math.Round(float64(fr) + t*float64(int(tr)-int(fr))))
			cg := uint8(math.Round(float64(fg) + t*float64(int(tg)-int(fg))))
			cb := uint8(math.Round(float64(fb) + t*float64(int(tb)-int(fb))))

			color := lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", cr, cg, cb))
			sb.WriteString(lipgloss.NewStyle().Foreground(color).Render(string(r)))
		}
		result = append(result, sb.String())
	}
	return strings.Join(result, "\n")
}

func hexToRGB(hex string) (uint8, uint8, uint8) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0
	}
	return r, g, b
}
