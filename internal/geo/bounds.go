package geo

import "math"

// Bounds is a latitude/longitude box. MaxLng may exceed 180 when the box
// spans the antimeridian; consumers project world copies, so an
// out-of-range east edge is meaningful, not an error.
type Bounds struct {
	MinLat, MinLng float64
	MaxLat, MaxLng float64
}

// BoundsOf accumulates a box over pts. Empty input yields the zero box.
func BoundsOf(pts ...LatLng) Bounds {
	if len(pts) == 0 {
		return Bounds{}
	}
	b := Bounds{
		MinLat: pts[0].Lat, MaxLat: pts[0].Lat,
		MinLng: pts[0].Lng, MaxLng: pts[0].Lng,
	}
	for _, p := range pts[1:] {
		b = b.Extend(p)
	}
	return b
}

// PairBounds returns the box covering endpoints a and b, shifting the
// western longitude by +360 when the raw difference exceeds 180 degrees
// so the box spans the antimeridian instead of wrapping the long way
// around the globe. The resulting longitudinal span never exceeds 180.
func PairBounds(a, b LatLng) (Bounds, error) {
	if err := checkAll(a, b); err != nil {
		return Bounds{}, err
	}
	lng1, lng2 := a.Lng, b.Lng
	if math.Abs(lng1-lng2) > 180 {
		if lng1 < lng2 {
			lng1 += 360
		} else {
			lng2 += 360
		}
	}
	return Bounds{
		MinLat: math.Min(a.Lat, b.Lat),
		MaxLat: math.Max(a.Lat, b.Lat),
		MinLng: math.Min(lng1, lng2),
		MaxLng: math.Max(lng1, lng2),
	}, nil
}

// Extend grows the box to include p.
func (b Bounds) Extend(p LatLng) Bounds {
	if p.Lat < b.MinLat {
		b.MinLat = p.Lat
	}
	if p.Lat > b.MaxLat {
		b.MaxLat = p.Lat
	}
	if p.Lng < b.MinLng {
		b.MinLng = p.Lng
	}
	if p.Lng > b.MaxLng {
		b.MaxLng = p.Lng
	}
	return b
}

// Union grows the box to include o.
func (b Bounds) Union(o Bounds) Bounds {
	return b.Extend(LatLng{Lat: o.MinLat, Lng: o.MinLng}).
		Extend(LatLng{Lat: o.MaxLat, Lng: o.MaxLng})
}

// Pad grows the box by d degrees on every side.
func (b Bounds) Pad(d float64) Bounds {
	return Bounds{
		MinLat: b.MinLat - d, MinLng: b.MinLng - d,
		MaxLat: b.MaxLat + d, MaxLng: b.MaxLng + d,
	}
}

// Center returns the midpoint of the box.
func (b Bounds) Center() LatLng {
	return LatLng{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lng: (b.MinLng + b.MaxLng) / 2,
	}
}

// LatSpan returns the box height in degrees.
func (b Bounds) LatSpan() float64 { return b.MaxLat - b.MinLat }

// LngSpan returns the box width in degrees.
func (b Bounds) LngSpan() float64 { return b.MaxLng - b.MinLng }

// Contains reports whether p lies inside the box, edges included.
func (b Bounds) Contains(p LatLng) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}
