package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripmap/internal/geo"
	"tripmap/internal/travel"
)

// Segments arrive out of date order on purpose: the client must hand
// back a normalized trip.
const tripJSON = `{
	"_id": "6631a0f1c2d3e4f5a6b7c8d9",
	"name": "Japan 2025",
	"dates": {"start": "2025-04-12", "end": "2025-04-26"},
	"segments": [
		{
			"id": "2", "date": "2025-04-13", "type": "train", "transport": "Narita Express",
			"origin": {"name": "Narita", "code": "NRT", "coordinates": [35.7653, 140.3856]},
			"destination": {"name": "Tokyo Station", "coordinates": [35.6812, 139.7671]}
		},
		{
			"id": "1", "date": "2025-04-12", "type": "flight", "transport": "UA 881",
			"origin": {"name": "Chicago O'Hare", "code": "ORD", "coordinates": [41.9742, -87.9073]},
			"destination": {"name": "Narita", "code": "NRT", "coordinates": [35.7653, 140.3856]}
		}
	],
	"stays": [
		{
			"location": "Hotel Ryumeikan Tokyo", "coordinates": [35.679, 139.7649],
			"dateStart": "2025-04-13", "dateEnd": "2025-04-16"
		}
	]
}`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, 0, zerolog.Nop())
	require.NoError(t, err)
	return c
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	t.Parallel()

	_, err := New("://nope", 0, zerolog.Nop())
	require.Error(t, err)
}

func TestTripFetchNormalizes(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/trips/6631a0f1c2d3e4f5a6b7c8d9", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(tripJSON))
	}))

	trip, err := c.Trip(context.Background(), "6631a0f1c2d3e4f5a6b7c8d9")
	require.NoError(t, err)
	require.Len(t, trip.Segments, 2)
	assert.Equal(t, "1", trip.Segments[0].ID, "segments sorted by date after fetch")
	assert.Equal(t, "2", trip.Segments[1].ID)
	require.Len(t, trip.Stays, 1)
	assert.Equal(t, "Japan 2025", trip.Name)
}

func TestTripFetchRejectsUnknownSegmentType(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"_id": "x", "name": "Broken", "dates": {"start": "2025-01-01", "end": "2025-01-02"},
			"segments": [{
				"id": "1", "date": "2025-01-01", "type": "boat",
				"origin": {"name": "A", "coordinates": [0, 0]},
				"destination": {"name": "B", "coordinates": [1, 1]}
			}],
			"stays": []
		}`))
	}))

	_, err := c.Trip(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown type "boat"`)
}

func TestTripsList(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/trips", r.URL.Path)
		w.Write([]byte(`[
			{"_id": "a", "name": "Japan 2025", "dates": {"start": "2025-04-12", "end": "2025-04-26"}},
			{"_id": "b", "name": "Iceland 2024", "dates": {"start": "2024-06-01", "end": "2024-06-10"}}
		]`))
	}))

	trips, err := c.Trips(context.Background())
	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.Equal(t, "Japan 2025", trips[0].Name)
	assert.Equal(t, "b", trips[1].ID)
}

func TestStatusErrorWrapsSentinel(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := c.Trips(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Contains(t, err.Error(), "status 500")
}

func TestDecodeErrorWrapsSentinel(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))

	_, err := c.Trips(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestUpdateTrip(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/trips/6631a0f1c2d3e4f5a6b7c8d9", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in travel.Trip
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Japan 2025 (final)", in.Name)

		require.NoError(t, json.NewEncoder(w).Encode(&in))
	}))

	var trip travel.Trip
	require.NoError(t, json.Unmarshal([]byte(tripJSON), &trip))
	trip.Name = "Japan 2025 (final)"

	out, err := c.UpdateTrip(context.Background(), &trip)
	require.NoError(t, err)
	assert.Equal(t, "Japan 2025 (final)", out.Name)
	assert.Equal(t, "1", out.Segments[0].ID, "server copy normalized too")
}

func TestAlbumEndpoints(t *testing.T) {
	t.Parallel()

	stay := &travel.Stay{
		Location:    "Satoyama Jujo",
		Coordinates: geo.LatLng{Lat: 37.0415, Lng: 138.8772},
		DateStart:   "2025-04-15",
		DateEnd:     "2025-04-17",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/albums/trip/trip-1/stay/stay-satoyama-jujo", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"_id": "alb-1", "tripId": "trip-1", "itemType": "stay", "itemId": "stay-satoyama-jujo", "name": "Default"}]`))
	})
	mux.HandleFunc("POST /api/albums/default/trip-1/stay/stay-satoyama-jujo", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"_id": "alb-1", "tripId": "trip-1", "itemType": "stay", "itemId": "stay-satoyama-jujo", "name": "Default"}`))
	})
	mux.HandleFunc("GET /api/albums/alb-1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"_id": "alb-1", "tripId": "trip-1", "itemType": "stay", "itemId": "stay-satoyama-jujo",
			"name": "Default",
			"media": [{"_id": "m-1", "albumId": "alb-1", "kind": "note", "caption": "Incredible onsen."}]
		}`))
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	albums, err := c.AlbumsForItem(ctx, "trip-1", stay)
	require.NoError(t, err)
	require.Len(t, albums, 1)
	assert.Equal(t, "alb-1", albums[0].ID)

	album, err := c.EnsureDefaultAlbum(ctx, "trip-1", stay)
	require.NoError(t, err)
	assert.Equal(t, "Default", album.Name)

	full, err := c.Album(ctx, "alb-1")
	require.NoError(t, err)
	require.Len(t, full.Media, 1)
	assert.Equal(t, "note", full.Media[0].Kind)
	assert.Equal(t, "Incredible onsen.", full.Media[0].Caption)
}

func TestMediaEndpoints(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/media/album/alb-1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"_id": "m-1", "albumId": "alb-1", "kind": "photo", "url": "https://img.example/1.jpg"}]`))
	})
	mux.HandleFunc("POST /api/media", func(w http.ResponseWriter, r *http.Request) {
		var in Media
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.ID = "m-2"
		require.NoError(t, json.NewEncoder(w).Encode(&in))
	})
	mux.HandleFunc("PUT /api/media/m-2", func(w http.ResponseWriter, r *http.Request) {
		var in Media
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.NoError(t, json.NewEncoder(w).Encode(&in))
	})
	mux.HandleFunc("DELETE /api/media/m-2", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	media, err := c.MediaForAlbum(ctx, "alb-1")
	require.NoError(t, err)
	require.Len(t, media, 1)
	assert.Equal(t, "photo", media[0].Kind)

	created, err := c.CreateMedia(ctx, Media{AlbumID: "alb-1", Kind: "note", Caption: "Arrived."})
	require.NoError(t, err)
	assert.Equal(t, "m-2", created.ID)

	created.Caption = "Arrived after dark."
	updated, err := c.UpdateMedia(ctx, *created)
	require.NoError(t, err)
	assert.Equal(t, "Arrived after dark.", updated.Caption)

	require.NoError(t, c.DeleteMedia(ctx, "m-2"))
}

func TestCancelledContext(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Trips(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)
}
