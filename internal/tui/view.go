package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tripmap/internal/mapview"
	"tripmap/internal/travel"
)

const (
	headerHeight = 1
	footerHeight = 2
	sidebarWidth = 34
)

// layoutSizes carries the frame geometry shared by View and the mouse
// handler, so hit-testing and rendering agree on where the map starts.
type layoutSizes struct {
	contentW, contentH int
	sidebarW           int
	mapW, mapH         int
	mapX, mapY         int
}

func (m Model) layout() layoutSizes {
	var ls layoutSizes
	ls.contentW = max(10, m.width)
	ls.contentH = max(4, m.height-headerHeight-footerHeight)
	gap := 0
	if m.showTimeline {
		ls.sidebarW = sidebarWidth
		gap = 1
	}
	ls.mapW = max(10, ls.contentW-ls.sidebarW-gap)
	ls.mapH = ls.contentH
	ls.mapX = ls.sidebarW + gap
	ls.mapY = headerHeight
	return ls
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	ls := m.layout()

	body := m.renderMap(ls)
	if m.showTimeline {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(ls), " ", body)
	}

	ui := lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(ls), body, m.renderFooter(ls))
	return appStyle.Width(ls.contentW).Height(m.height).Render(ui)
}

func (m Model) renderHeader(ls layoutSizes) string {
	title := " tripmap"
	if trip := m.ctl.Trip(); trip != nil {
		title += " ─ " + trip.Name
	}
	left := titleStyle.Render(title + " ")
	right := dimStyle.Render(fmt.Sprintf(" %s · z%.0f ", m.ctl.Mode(), m.canvas.Zoom()))
	pad := max(0, ls.contentW-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", pad) + right
}

// renderSidebar stacks the timeline over the detail panel for the
// displayed item, when there is one.
func (m Model) renderSidebar(ls layoutSizes) string {
	listH := ls.contentH
	detail := ""
	if di := m.ctl.DisplayItem(); di != nil {
		detail = boxStyle.Width(ls.sidebarW - 2).Render(detailText(di))
		listH = max(4, ls.contentH-lipgloss.Height(detail))
	}
	m.timeline.SetSize(ls.sidebarW-2, listH)
	col := lipgloss.NewStyle().Width(ls.sidebarW).Height(listH).Render(m.timeline.View())
	if detail == "" {
		return col
	}
	return lipgloss.JoinVertical(lipgloss.Left, col, detail)
}

// renderMap draws the canvas, or whichever panel currently replaces
// it: an error box, the trip selector, or the albums table.
func (m Model) renderMap(ls layoutSizes) string {
	switch {
	case m.errText != "":
		box := errStyle.MaxWidth(ls.mapW - 2).Render(
			"error: " + m.errText + "\n\n" + dimStyle.Render("r reload · esc dismiss"))
		return lipgloss.Place(ls.mapW, ls.mapH, lipgloss.Center, lipgloss.Center, box)

	case m.showTrips:
		box := boxStyle.Render(m.tripList.View())
		return lipgloss.Place(ls.mapW, ls.mapH, lipgloss.Center, lipgloss.Center, box)

	case m.showAlbums:
		m.albumsTbl.SetWidth(min(64, ls.mapW-4))
		m.albumsTbl.SetHeight(min(14, ls.mapH-2))
		box := boxStyle.Render(m.albumsTbl.View())
		return lipgloss.Place(ls.mapW, ls.mapH, lipgloss.Center, lipgloss.Center, box)
	}
	return lipgloss.NewStyle().Width(ls.mapW).Height(ls.mapH).Render(m.canvas.View())
}

func (m Model) renderFooter(ls layoutSizes) string {
	status := " " + m.status
	if m.loading {
		status = " " + m.spin.View() + status
	}
	left := dimStyle.Render(status)
	coords := ""
	if m.hovering {
		coords = dimStyle.Render(fmt.Sprintf("lat=%.4f lng=%.4f ", m.hoverPos[0], m.hoverPos[1]))
	}
	pad := max(0, ls.contentW-lipgloss.Width(left)-lipgloss.Width(coords))
	row1 := left + strings.Repeat(" ", pad) + coords

	row2 := m.renderLegend()
	if m.helpVisible {
		row2 = m.renderHelp()
	}
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func (m Model) renderHelp() string {
	keys := []string{
		"↑↓ timeline",
		"←→ pan",
		"+/- zoom",
		"enter select",
		"space focus",
		"esc close",
		"1/2/3 view",
		"tab sidebar",
		"b base",
		"t trips",
		"a albums",
		"r reload",
		"h help",
		"q quit",
	}
	return dimStyle.Render(" " + strings.Join(keys, "  "))
}

func (m Model) renderLegend() string {
	parts := make([]string, 0, 6)
	for _, t := range []travel.SegmentType{
		travel.TypeFlight, travel.TypeTrain, travel.TypeShuttle, travel.TypeWalk, travel.TypeBus,
	} {
		parts = append(parts, routeStyle(mapview.RouteColor(t), false).Render("━")+" "+dimStyle.Render(string(t)))
	}
	parts = append(parts, routeStyle(mapview.ColorStay, false).Render("⌂")+" "+dimStyle.Render("stay"))
	return " " + strings.Join(parts, "  ")
}
