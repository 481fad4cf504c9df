// Package geo provides the coordinate primitives for route rendering:
// great-circle distance and interpolation on a spherical Earth, bounding
// boxes that stay contiguous across the antimeridian, and the world-copy
// longitude offsets used when drawing a wrapped world map.
package geo

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean Earth radius used for all distance math.
const EarthRadiusKm = 6371.0

// ErrBadCoordinate reports a latitude outside [-90,90] or a longitude
// outside [-180,180] passed to a primitive that requires canonical input.
var ErrBadCoordinate = errors.New("geo: coordinate out of range")

// LatLng is a position in degrees. Canonical positions keep longitude in
// [-180,180]; unwrapped polylines and world copies deliberately step
// outside that range, so only input validation enforces it.
type LatLng struct {
	Lat float64
	Lng float64
}

// Check reports ErrBadCoordinate when p is outside the canonical ranges.
func (p LatLng) Check() error {
	if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("%w: (%.5f, %.5f)", ErrBadCoordinate, p.Lat, p.Lng)
	}
	return nil
}

func checkAll(pts ...LatLng) error {
	for _, p := range pts {
		if err := p.Check(); err != nil {
			return err
		}
	}
	return nil
}

// MarshalJSON encodes the position as a [lat, lng] tuple. Route files and
// the trips API use tuple order, not GeoJSON's [lng, lat].
func (p LatLng) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Lat, p.Lng})
}

// UnmarshalJSON decodes a [lat, lng] tuple.
func (p *LatLng) UnmarshalJSON(b []byte) error {
	var tuple []float64
	if err := json.Unmarshal(b, &tuple); err != nil {
		return fmt.Errorf("geo: coordinate must be a [lat, lng] tuple: %w", err)
	}
	if len(tuple) != 2 {
		return fmt.Errorf("geo: coordinate tuple has %d elements, want 2", len(tuple))
	}
	p.Lat, p.Lng = tuple[0], tuple[1]
	return nil
}

// Distance returns the great-circle distance between a and b in
// kilometres. Identical points yield zero; antipodal points yield half
// the Earth's circumference.
func Distance(a, b LatLng) (float64, error) {
	if err := checkAll(a, b); err != nil {
		return 0, err
	}
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lng)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lng)
	return p1.Distance(p2).Radians() * EarthRadiusKm, nil
}
