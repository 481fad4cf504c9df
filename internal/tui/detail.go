package tui

import (
	"fmt"
	"strings"

	table "github.com/charmbracelet/bubbles/table"

	"tripmap/internal/geo"
	"tripmap/internal/travel"
	"tripmap/internal/travel/client"
)

// detailText builds the popup body for the display item.
func detailText(item travel.Item) string {
	switch v := item.(type) {
	case *travel.Segment:
		lines := []string{v.Label(), "date: " + v.Date}
		if km, err := geo.Distance(v.Origin.Coordinates, v.Destination.Coordinates); err == nil {
			lines = append(lines, fmt.Sprintf("distance: %.0f km", km))
		}
		if v.International() {
			lines = append(lines, "international")
		}
		return strings.Join(lines, "\n")
	case *travel.Stay:
		lines := []string{v.Location, fmt.Sprintf("dates: %s to %s", v.DateStart, v.DateEnd)}
		if v.Notes != "" {
			lines = append(lines, v.Notes)
		}
		return strings.Join(lines, "\n")
	}
	return ""
}

// itemStatus is the one-line footer summary of the display item.
func itemStatus(item travel.Item) string {
	switch v := item.(type) {
	case *travel.Segment:
		return v.Date + "  " + v.Label()
	case *travel.Stay:
		return v.DateStart + "  " + v.Location
	}
	return ""
}

// albumTable maps albums and media to table columns and rows.
func albumTable(albums []client.Album, media []client.Media) ([]table.Column, []table.Row) {
	cols := []table.Column{
		{Title: "kind", Width: 6},
		{Title: "detail", Width: 40},
		{Title: "when", Width: 12},
	}
	rows := make([]table.Row, 0, len(media))
	for _, m := range media {
		detail := m.Caption
		if detail == "" {
			detail = m.URL
		}
		rows = append(rows, table.Row{m.Kind, detail, m.TakenAt})
	}
	if len(rows) == 0 {
		name := "album"
		if len(albums) > 0 {
			name = albums[0].Name
		}
		rows = append(rows, table.Row{"", "no media in " + name, ""})
	}
	return cols, rows
}
