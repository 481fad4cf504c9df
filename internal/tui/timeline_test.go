package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripmap/internal/travel"
)

func TestTimelineEntriesMergeSegmentsAndStays(t *testing.T) {
	trip, err := travel.LoadFile("../travel/testdata/japan2025.json")
	require.NoError(t, err)

	entries := timelineEntries(trip)
	require.Len(t, entries, 20)

	first, ok := entries[0].(timelineEntry)
	require.True(t, ok)
	assert.Equal(t, "2025-04-12  United 815: Washington National (DCA) to Chicago O'Hare (ORD)", first.Title())
	assert.Equal(t, "flight", first.Description())
	assert.Equal(t, "segment-1", first.item.ItemKey())

	// The first stay lands after the two legs that reach it.
	stay, ok := entries[4].(timelineEntry)
	require.True(t, ok)
	assert.Equal(t, "2025-04-13  Hotel Ryumeikan Tokyo", stay.Title())
	assert.Equal(t, "stay", stay.Description())
	assert.Equal(t, "stay-hotel-ryumeikan-tokyo", stay.item.ItemKey())

	last, ok := entries[19].(timelineEntry)
	require.True(t, ok)
	assert.Equal(t, "segment-15", last.item.ItemKey())
	assert.Equal(t, "flight", last.Description())
}

func TestTimelineEntryFilterValue(t *testing.T) {
	e := timelineEntry{title: "2025-04-16  Satoyama Jujo"}
	assert.Equal(t, e.Title(), e.FilterValue())
}

func TestTripEntries(t *testing.T) {
	trips := []*travel.Trip{
		{ID: "a1", Name: "Japan 2025", Dates: travel.DateRange{Start: "2025-04-12", End: "2025-04-26"}},
		{ID: "b2", Name: "Brittany 2024", Dates: travel.DateRange{Start: "2024-06-02", End: "2024-06-14"}},
	}
	entries := tripEntries(trips)
	require.Len(t, entries, 2)

	e, ok := entries[0].(tripEntry)
	require.True(t, ok)
	assert.Equal(t, "a1", e.id)
	assert.Equal(t, "Japan 2025", e.Title())
	assert.Equal(t, "2025-04-12 to 2025-04-26", e.Description())
}
