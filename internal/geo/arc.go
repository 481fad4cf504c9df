package geo

import "github.com/golang/geo/s2"

// DefaultArcSteps is the subdivision count for flight arcs. High enough
// that the curve reads as smooth on a braille canvas, low enough that a
// render of every flight in a trip stays cheap.
const DefaultArcSteps = 64

// WorldOffsets are the longitude shifts of the three world copies drawn
// side by side, west to east. Drawing every primitive at each offset
// keeps routes visible while the viewport pans across the antimeridian.
var WorldOffsets = [3]float64{-360, 0, 360}

// Arc returns steps+1 positions along the great circle from a to b,
// including both endpoints. When a equals b every position is a. For
// antipodal endpoints the branch s2 picks is used; any consistent branch
// draws correctly. Longitudes in the result are raw (wrapped); callers
// that need a continuous polyline should pass it through Unwrap.
func Arc(a, b LatLng, steps int) ([]LatLng, error) {
	if err := checkAll(a, b); err != nil {
		return nil, err
	}
	if steps < 1 {
		steps = 1
	}
	pa := s2.PointFromLatLng(s2.LatLngFromDegrees(a.Lat, a.Lng))
	pb := s2.PointFromLatLng(s2.LatLngFromDegrees(b.Lat, b.Lng))

	pts := make([]LatLng, 0, steps+1)
	pts = append(pts, a)
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		ll := s2.LatLngFromPoint(s2.Interpolate(t, pa, pb))
		pts = append(pts, LatLng{Lat: ll.Lat.Degrees(), Lng: ll.Lng.Degrees()})
	}
	pts = append(pts, b)
	return pts, nil
}

// Unwrap adjusts longitudes in place-order so consecutive points never
// jump by more than 180 degrees, producing a polyline that crosses the
// antimeridian continuously instead of snapping across the map. The
// first point keeps its input longitude; later points may leave
// [-180,180].
func Unwrap(pts []LatLng) []LatLng {
	if len(pts) == 0 {
		return nil
	}
	out := make([]LatLng, len(pts))
	out[0] = pts[0]
	for i := 1; i < len(pts); i++ {
		lng := pts[i].Lng
		for lng-out[i-1].Lng > 180 {
			lng -= 360
		}
		for lng-out[i-1].Lng < -180 {
			lng += 360
		}
		out[i] = LatLng{Lat: pts[i].Lat, Lng: lng}
	}
	return out
}

// Shift returns pts with every longitude moved by deg. Used with
// WorldOffsets to draw the three world copies.
func Shift(pts []LatLng, deg float64) []LatLng {
	out := make([]LatLng, len(pts))
	for i, p := range pts {
		out[i] = LatLng{Lat: p.Lat, Lng: p.Lng + deg}
	}
	return out
}
