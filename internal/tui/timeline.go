package tui

import (
	"fmt"

	list "github.com/charmbracelet/bubbles/list"

	"tripmap/internal/travel"
)

// timelineEntry adapts a trip item for the timeline list.
type timelineEntry struct {
	item  travel.Item
	title string
	desc  string
}

func (e timelineEntry) Title() string       { return e.title }
func (e timelineEntry) Description() string { return e.desc }
func (e timelineEntry) FilterValue() string { return e.title }

// timelineEntries builds the date-ordered timeline for a trip.
func timelineEntries(trip *travel.Trip) []list.Item {
	if trip == nil {
		return nil
	}
	items := trip.Items()
	entries := make([]list.Item, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case *travel.Segment:
			entries = append(entries, timelineEntry{
				item:  it,
				title: fmt.Sprintf("%s  %s", v.Date, v.Label()),
				desc:  string(v.Type),
			})
		case *travel.Stay:
			entries = append(entries, timelineEntry{
				item:  it,
				title: fmt.Sprintf("%s  %s", v.DateStart, v.Location),
				desc:  "stay",
			})
		}
	}
	return entries
}

// tripEntry adapts a trip summary for the trip selector.
type tripEntry struct {
	id    string
	title string
	desc  string
}

func (e tripEntry) Title() string       { return e.title }
func (e tripEntry) Description() string { return e.desc }
func (e tripEntry) FilterValue() string { return e.title }

func tripEntries(trips []*travel.Trip) []list.Item {
	entries := make([]list.Item, 0, len(trips))
	for _, t := range trips {
		entries = append(entries, tripEntry{
			id:    t.ID,
			title: t.Name,
			desc:  fmt.Sprintf("%s to %s", t.Dates.Start, t.Dates.End),
		})
	}
	return entries
}
