// Package mapview is the map view controller: the layer registry the
// renderer draws into, the renderer that turns a trip and a selection
// into polylines and markers, and the orchestrator that owns the
// mode/selection state machine and frames the viewport. The package is
// UI-agnostic; the terminal canvas plugs in behind the Map interface.
package mapview

import (
	"tripmap/internal/geo"
)

// Mode selects what a render draws and how the viewport is framed.
type Mode string

const (
	// ModeWorld shows the whole world: international flight arcs and
	// every stay.
	ModeWorld Mode = "world"
	// ModeRegion shows the trip's focus region and the routes inside it.
	ModeRegion Mode = "region"
	// ModeLocal frames a single display item.
	ModeLocal Mode = "local"
)

// WorldCenter and WorldZoom are the fixed world-mode viewpoint.
var WorldCenter = geo.LatLng{Lat: 30, Lng: 0}

const WorldZoom = 2.0

// FitOptions tune a FitBounds call. Padding is in virtual pixels of a
// 1024-px-wide viewport; the map implementation scales it to its own
// resolution. Zoom limits of zero mean unlimited.
type FitOptions struct {
	PadX    int
	PadY    int
	MaxZoom float64
	MinZoom float64
	Animate bool
}

// Map is the geographic surface the controller drives. Implementations
// render the layer registry however they like; the controller only
// moves the viewport and asks for zoom math.
type Map interface {
	// SetView moves the viewport to a center and zoom.
	SetView(center geo.LatLng, zoom float64, animate bool)
	// FitBounds frames b subject to opts.
	FitBounds(b geo.Bounds, opts FitOptions)
	// BoundsZoom returns the zoom FitBounds would settle on, without
	// moving the viewport.
	BoundsZoom(b geo.Bounds, opts FitOptions) float64
	// Zoom returns the current zoom, or the target zoom while a
	// transition is in flight.
	Zoom() float64
	// InvalidateSize tells the map its container may have changed size.
	InvalidateSize()
}
