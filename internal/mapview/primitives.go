package mapview

import (
	"fmt"

	"tripmap/internal/geo"
	"tripmap/internal/travel"
)

// Color is a semantic route color. The terminal styles map these to
// concrete lipgloss colors; the legend shows the same names.
type Color string

const (
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorPurple Color = "purple"
	ColorOrange Color = "orange"
	ColorStay   Color = "amber"
)

// Line weights and opacities for route polylines. Highlighted values
// apply only to primitives drawn on the active layer.
const (
	WeightNormal      = 2
	WeightHighlighted = 4

	OpacityNormal      = 0.7
	OpacityHighlighted = 0.8
)

// RouteColor returns the fixed color for a segment type. The set of
// types is closed; an unknown type is a programming error.
func RouteColor(t travel.SegmentType) Color {
	switch t {
	case travel.TypeFlight:
		return ColorRed
	case travel.TypeTrain:
		return ColorBlue
	case travel.TypeShuttle:
		return ColorGreen
	case travel.TypeWalk:
		return ColorPurple
	case travel.TypeBus:
		return ColorOrange
	}
	panic(fmt.Sprintf("mapview: no route color for segment type %q", t))
}

// Polyline is a drawable route. Points may leave [-180,180] in
// longitude: world copies and unwrapped antimeridian crossings do.
type Polyline struct {
	Points  []geo.LatLng
	Color   Color
	Weight  int
	Opacity float64
	Popup   string
	// Key is the owning item's key, for hit-testing back to the
	// timeline.
	Key string
}

// MarkerKind picks the glyph a marker renders with.
type MarkerKind string

const (
	MarkerEndpoint MarkerKind = "endpoint"
	MarkerStay     MarkerKind = "stay"
)

// Marker is a drawable point of interest.
type Marker struct {
	At    geo.LatLng
	Kind  MarkerKind
	Color Color
	Popup string
	Key   string
}
