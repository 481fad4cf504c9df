// Package client talks to the trips/albums/media backend over JSON
// HTTP. The core never calls it directly; the UI fetches through it and
// hands the results to the controller. File upload (the backend's
// multipart endpoint) is not supported here.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"tripmap/internal/travel"
)

// DefaultBaseURL is where the backend listens when nothing is
// configured.
const DefaultBaseURL = "http://localhost:5000"

const defaultTimeout = 10 * time.Second

// ErrFetchFailed wraps every transport, status and decode failure so
// the UI can map any of them to its error overlay.
var ErrFetchFailed = errors.New("client: request failed")

// Album groups media for one timeline item.
type Album struct {
	ID       string  `json:"_id,omitempty"`
	TripID   string  `json:"tripId"`
	ItemType string  `json:"itemType"`
	ItemID   string  `json:"itemId"`
	Name     string  `json:"name"`
	Media    []Media `json:"media,omitempty"`
}

// Media is one album entry: a photo by URL, or a text note carried in
// the caption.
type Media struct {
	ID      string `json:"_id,omitempty"`
	AlbumID string `json:"albumId"`
	Kind    string `json:"kind"`
	URL     string `json:"url,omitempty"`
	Caption string `json:"caption,omitempty"`
	TakenAt string `json:"takenAt,omitempty"`
}

// Client is the backend API client. Safe for concurrent use.
type Client struct {
	base *url.URL
	http *http.Client
	log  zerolog.Logger
}

// New builds a client over baseURL, falling back to DefaultBaseURL and
// a 10s timeout when unset.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: bad base url %q: %w", baseURL, err)
	}
	return &Client{
		base: u,
		http: &http.Client{Timeout: timeout},
		log:  log,
	}, nil
}

// Trips lists every trip. Entries may be summaries; fetch the full trip
// by id before rendering it.
func (c *Client) Trips(ctx context.Context) ([]*travel.Trip, error) {
	var trips []*travel.Trip
	if err := c.do(ctx, http.MethodGet, "/api/trips", nil, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

// Trip fetches one trip ready for rendering.
func (c *Client) Trip(ctx context.Context, id string) (*travel.Trip, error) {
	var t travel.Trip
	if err := c.do(ctx, http.MethodGet, "/api/trips/"+url.PathEscape(id), nil, &t); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	t.Normalize()
	return &t, nil
}

// UpdateTrip PUTs the trip and returns the server's copy. Callers
// re-fetch afterwards so the in-memory trip always comes from one
// place.
func (c *Client) UpdateTrip(ctx context.Context, trip *travel.Trip) (*travel.Trip, error) {
	var out travel.Trip
	err := c.do(ctx, http.MethodPut, "/api/trips/"+url.PathEscape(trip.ID), trip, &out)
	if err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	out.Normalize()
	return &out, nil
}

// AlbumsForItem lists the albums attached to a timeline item.
func (c *Client) AlbumsForItem(ctx context.Context, tripID string, item travel.Item) ([]Album, error) {
	path := "/api/albums/trip/" + url.PathEscape(tripID) +
		"/" + item.ItemType() + "/" + url.PathEscape(item.ItemID())
	var albums []Album
	if err := c.do(ctx, http.MethodGet, path, nil, &albums); err != nil {
		return nil, err
	}
	return albums, nil
}

// EnsureDefaultAlbum creates (or returns) the item's default album.
func (c *Client) EnsureDefaultAlbum(ctx context.Context, tripID string, item travel.Item) (*Album, error) {
	path := "/api/albums/default/" + url.PathEscape(tripID) +
		"/" + item.ItemType() + "/" + url.PathEscape(item.ItemID())
	var album Album
	if err := c.do(ctx, http.MethodPost, path, nil, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// Album fetches one album with its media embedded.
func (c *Client) Album(ctx context.Context, id string) (*Album, error) {
	var album Album
	if err := c.do(ctx, http.MethodGet, "/api/albums/"+url.PathEscape(id), nil, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// MediaForAlbum lists an album's media.
func (c *Client) MediaForAlbum(ctx context.Context, albumID string) ([]Media, error) {
	var media []Media
	if err := c.do(ctx, http.MethodGet, "/api/media/album/"+url.PathEscape(albumID), nil, &media); err != nil {
		return nil, err
	}
	return media, nil
}

// CreateMedia adds a photo or note to an album.
func (c *Client) CreateMedia(ctx context.Context, m Media) (*Media, error) {
	var out Media
	if err := c.do(ctx, http.MethodPost, "/api/media", m, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMedia rewrites a media entry.
func (c *Client) UpdateMedia(ctx context.Context, m Media) (*Media, error) {
	var out Media
	if err := c.do(ctx, http.MethodPut, "/api/media/"+url.PathEscape(m.ID), m, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMedia removes a media entry.
func (c *Client) DeleteMedia(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/media/"+url.PathEscape(id), nil, nil)
}

// do runs one JSON round trip. in is marshalled when non-nil; the
// response decodes into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: marshal %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	u := strings.TrimRight(c.base.String(), "/") + path
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("client: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug().Str("method", method).Str("path", path).Msg("api request")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrFetchFailed, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s: status %d", ErrFetchFailed, method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: decode: %v", ErrFetchFailed, method, path, err)
	}
	return nil
}
