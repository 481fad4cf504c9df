// Package travel holds the itinerary domain model: trips made of dated
// transportation segments and accommodation stays, plus the focus region
// a trip's map view centres on. The wire format (route files and the
// trips API) uses [lat, lng] coordinate tuples and string dates.
package travel

import (
	"fmt"
	"sort"
	"strings"

	"tripmap/internal/geo"
)

// SegmentType classifies a transportation segment. The type picks the
// draw layer and route color.
type SegmentType string

const (
	TypeFlight  SegmentType = "flight"
	TypeTrain   SegmentType = "train"
	TypeShuttle SegmentType = "shuttle"
	TypeWalk    SegmentType = "walk"
	TypeBus     SegmentType = "bus"
)

// Scale marks a flight as domestic or international in the source data.
// Unset is allowed; see Segment.International.
type Scale string

const (
	ScaleDomestic      Scale = "domestic"
	ScaleInternational Scale = "international"
)

// IntlFlightKm is the great-circle length above which an unlabelled
// flight is treated as international.
const IntlFlightKm = 3000.0

// Endpoint is one end of a segment: a station, airport or address.
type Endpoint struct {
	Name        string     `json:"name"`
	Code        string     `json:"code,omitempty"`
	Coordinates geo.LatLng `json:"coordinates"`
}

// Label renders the endpoint for popups and the timeline, as
// "Name (CODE)" when a code is present.
func (e Endpoint) Label() string {
	if e.Code != "" {
		return e.Name + " (" + e.Code + ")"
	}
	return e.Name
}

// Segment is one leg of travel on a given date. IDs are opaque strings
// unique within a trip.
type Segment struct {
	ID          string      `json:"id"`
	Date        string      `json:"date"`
	Type        SegmentType `json:"type"`
	Transport   string      `json:"transport,omitempty"`
	Scale       Scale       `json:"scale,omitempty"`
	Origin      Endpoint    `json:"origin"`
	Destination Endpoint    `json:"destination"`
}

// International reports whether the segment is an international flight.
// The Scale field decides when set; otherwise any flight longer than
// IntlFlightKm qualifies. Non-flights are never international.
func (s *Segment) International() bool {
	if s.Type != TypeFlight {
		return false
	}
	switch s.Scale {
	case ScaleInternational:
		return true
	case ScaleDomestic:
		return false
	}
	km, err := geo.Distance(s.Origin.Coordinates, s.Destination.Coordinates)
	if err != nil {
		return false
	}
	return km > IntlFlightKm
}

// Label renders the segment for popups and the timeline.
func (s *Segment) Label() string {
	head := s.Transport
	if head == "" {
		head = strings.ToUpper(string(s.Type[:1])) + string(s.Type[1:])
	}
	return head + ": " + s.Origin.Label() + " to " + s.Destination.Label()
}

// Stay is an accommodation with a date range. The backend assigns an
// _id; hand-written route files may omit it, so Key derives a stable
// fallback from the location name.
type Stay struct {
	ID          string     `json:"_id,omitempty"`
	Location    string     `json:"location"`
	Coordinates geo.LatLng `json:"coordinates"`
	DateStart   string     `json:"dateStart"`
	DateEnd     string     `json:"dateEnd"`
	Notes       string     `json:"notes,omitempty"`
}

// Key is the stay's identity everywhere: the backend _id when present,
// otherwise "stay-" plus the slugified location. Both layer lookups and
// album paths use this one function.
func (s *Stay) Key() string {
	if s.ID != "" {
		return s.ID
	}
	return "stay-" + Slug(s.Location)
}

// Slug lowercases s and collapses every run of non-alphanumeric
// characters into a single hyphen, trimming hyphens at both ends.
func Slug(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DateRange is a trip's inclusive start/end, as YYYY-MM-DD strings.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Trip is a complete itinerary. Refreshes replace the whole value; item
// identity across refreshes goes through Item keys, never pointers.
type Trip struct {
	ID       string     `json:"_id,omitempty"`
	Name     string     `json:"name"`
	Dates    DateRange  `json:"dates"`
	Segments []*Segment `json:"segments"`
	Stays    []*Stay    `json:"stays"`
	Region   *Region    `json:"region,omitempty"`
}

// Normalize puts segments in date order (stable, so same-day legs keep
// their file order) and stays in DateStart order.
func (t *Trip) Normalize() {
	sort.SliceStable(t.Segments, func(i, j int) bool {
		return t.Segments[i].Date < t.Segments[j].Date
	})
	sort.SliceStable(t.Stays, func(i, j int) bool {
		return t.Stays[i].DateStart < t.Stays[j].DateStart
	})
}

// Validate rejects segment types outside the closed set. The renderer
// maps types to layers and colors and treats an unknown type as a
// programming error, so unknown types must not get past decoding.
// Coordinates are not validated here: bad coordinates are skipped at
// draw time, never fatal.
func (t *Trip) Validate() error {
	for _, s := range t.Segments {
		switch s.Type {
		case TypeFlight, TypeTrain, TypeShuttle, TypeWalk, TypeBus:
		default:
			return fmt.Errorf("travel: segment %s: unknown type %q", s.ID, s.Type)
		}
	}
	return nil
}

// Item returns the trip's item with the given key, or nil. Used to
// rebind selection after a refresh replaces every pointer.
func (t *Trip) Item(key string) Item {
	for _, s := range t.Segments {
		if s.ItemKey() == key {
			return s
		}
	}
	for _, s := range t.Stays {
		if s.ItemKey() == key {
			return s
		}
	}
	return nil
}

// Items returns segments and stays merged in timeline order: by date,
// with a segment preceding a stay that starts the same day.
func (t *Trip) Items() []Item {
	items := make([]Item, 0, len(t.Segments)+len(t.Stays))
	for _, s := range t.Segments {
		items = append(items, s)
	}
	for _, s := range t.Stays {
		items = append(items, s)
	}
	sort.SliceStable(items, func(i, j int) bool {
		di, dj := itemDate(items[i]), itemDate(items[j])
		if di != dj {
			return di < dj
		}
		_, iStay := items[i].(*Stay)
		_, jStay := items[j].(*Stay)
		return !iStay && jStay
	})
	return items
}

func itemDate(it Item) string {
	switch v := it.(type) {
	case *Segment:
		return v.Date
	case *Stay:
		return v.DateStart
	}
	return ""
}

// NearbySegments returns segments with an endpoint within window
// degrees of the stay on both axes. The scan is axis-aligned on
// purpose: it mirrors how the focused-stay view picks its context
// routes, and at stay scale the difference from a geodesic test is
// invisible.
func (t *Trip) NearbySegments(stay *Stay, window float64) []*Segment {
	var out []*Segment
	for _, s := range t.Segments {
		if near(s.Origin.Coordinates, stay.Coordinates, window) ||
			near(s.Destination.Coordinates, stay.Coordinates, window) {
			out = append(out, s)
		}
	}
	return out
}

func near(a, b geo.LatLng, window float64) bool {
	return abs(a.Lat-b.Lat) <= window && abs(a.Lng-b.Lng) <= window
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
