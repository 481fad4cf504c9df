package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tripmap/internal/travel"
	"tripmap/internal/travel/client"
)

// tickEvery drives viewport animation steps and the controller's
// deferred-render flush.
const tickEvery = 60 * time.Millisecond

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(tickEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type tripsMsg struct{ trips []*travel.Trip }

type tripMsg struct{ trip *travel.Trip }

type albumsMsg struct {
	itemKey string
	albums  []client.Album
	media   []client.Media
}

type errMsg struct{ err error }

func fetchTrips(api *client.Client) tea.Cmd {
	return func() tea.Msg {
		trips, err := api.Trips(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return tripsMsg{trips}
	}
}

func fetchTrip(api *client.Client, id string) tea.Cmd {
	return func() tea.Msg {
		trip, err := api.Trip(context.Background(), id)
		if err != nil {
			return errMsg{err}
		}
		return tripMsg{trip}
	}
}

// fetchAlbums loads the albums for a timeline item, creating the
// default album when the item has none, plus the media of the first
// album.
func fetchAlbums(api *client.Client, tripID string, item travel.Item) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		albums, err := api.AlbumsForItem(ctx, tripID, item)
		if err != nil {
			return errMsg{err}
		}
		if len(albums) == 0 {
			a, err := api.EnsureDefaultAlbum(ctx, tripID, item)
			if err != nil {
				return errMsg{err}
			}
			albums = []client.Album{*a}
		}
		media := albums[0].Media
		if len(media) == 0 {
			media, err = api.MediaForAlbum(ctx, albums[0].ID)
			if err != nil {
				return errMsg{err}
			}
		}
		return albumsMsg{itemKey: item.ItemKey(), albums: albums, media: media}
	}
}
