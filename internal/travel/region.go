package travel

import (
	"fmt"

	"github.com/goccy/go-json"

	"tripmap/internal/geo"
)

// Region is the focus area a trip's region mode frames: a bounding box
// for membership tests plus the viewpoint to fly to. Route files encode
// bounds as [[southLat, westLng], [northLat, eastLng]].
type Region struct {
	Name   string
	Bounds geo.Bounds
	Center geo.LatLng
	Zoom   float64
}

// Contains reports whether p lies strictly inside the region. Edges are
// excluded: a point sitting exactly on the boundary is not "in" the
// region for route selection.
func (r Region) Contains(p geo.LatLng) bool {
	return p.Lat > r.Bounds.MinLat && p.Lat < r.Bounds.MaxLat &&
		p.Lng > r.Bounds.MinLng && p.Lng < r.Bounds.MaxLng
}

type regionJSON struct {
	Name   string        `json:"name"`
	Bounds [2]geo.LatLng `json:"bounds"`
	Center geo.LatLng    `json:"center"`
	Zoom   float64       `json:"zoom"`
}

func (r Region) MarshalJSON() ([]byte, error) {
	return json.Marshal(regionJSON{
		Name: r.Name,
		Bounds: [2]geo.LatLng{
			{Lat: r.Bounds.MinLat, Lng: r.Bounds.MinLng},
			{Lat: r.Bounds.MaxLat, Lng: r.Bounds.MaxLng},
		},
		Center: r.Center,
		Zoom:   r.Zoom,
	})
}

func (r *Region) UnmarshalJSON(b []byte) error {
	var raw regionJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("travel: bad region: %w", err)
	}
	sw, ne := raw.Bounds[0], raw.Bounds[1]
	if sw.Lat > ne.Lat || sw.Lng > ne.Lng {
		return fmt.Errorf("travel: region %q bounds are not [southwest, northeast]", raw.Name)
	}
	*r = Region{
		Name:   raw.Name,
		Bounds: geo.Bounds{MinLat: sw.Lat, MinLng: sw.Lng, MaxLat: ne.Lat, MaxLng: ne.Lng},
		Center: raw.Center,
		Zoom:   raw.Zoom,
	}
	return nil
}

// FocusRegion returns the trip's region, deriving one when the data
// carries none: the box around every endpoint and stay, padded a
// degree, at a country-scale zoom.
func (t *Trip) FocusRegion() Region {
	if t.Region != nil {
		return *t.Region
	}
	var pts []geo.LatLng
	for _, s := range t.Segments {
		pts = append(pts, s.Origin.Coordinates, s.Destination.Coordinates)
	}
	for _, s := range t.Stays {
		pts = append(pts, s.Coordinates)
	}
	b := geo.BoundsOf(pts...).Pad(1)
	return Region{
		Name:   t.Name,
		Bounds: b,
		Center: b.Center(),
		Zoom:   6,
	}
}
