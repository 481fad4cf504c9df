package tui

import (
	"github.com/charmbracelet/lipgloss"

	"tripmap/internal/mapview"
)

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	errFg     = lipgloss.Color("#EF4444")
	borderCol = lipgloss.Color("#243141")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	errStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(errFg).Padding(0, 1)
)

// colorBase styles the overlay geometry drawn under the route layers.
// It is a canvas-only color; the renderer never emits it.
const colorBase = mapview.Color("base")

// routeFg maps the renderer's semantic colors to terminal colors. The
// legend and the canvas share this table so they can never disagree.
var routeFg = map[mapview.Color]lipgloss.Color{
	colorBase:           lipgloss.Color("#3B4A5E"),
	mapview.ColorRed:    lipgloss.Color("#EF4444"),
	mapview.ColorBlue:   lipgloss.Color("#3B82F6"),
	mapview.ColorGreen:  lipgloss.Color("#22C55E"),
	mapview.ColorPurple: lipgloss.Color("#A855F7"),
	mapview.ColorOrange: lipgloss.Color("#F97316"),
	mapview.ColorStay:   lipgloss.Color("#FBBF24"),
}

var routeStyles = func() map[mapview.Color][2]lipgloss.Style {
	m := make(map[mapview.Color][2]lipgloss.Style, len(routeFg))
	for c, fg := range routeFg {
		m[c] = [2]lipgloss.Style{
			lipgloss.NewStyle().Foreground(fg),
			lipgloss.NewStyle().Foreground(fg).Bold(true),
		}
	}
	return m
}()

// routeStyle returns the style for a route color; bold marks primitives
// on the active layer.
func routeStyle(c mapview.Color, bold bool) lipgloss.Style {
	s, ok := routeStyles[c]
	if !ok {
		return appStyle
	}
	if bold {
		return s[1]
	}
	return s[0]
}
