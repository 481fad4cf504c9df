package mapview

import (
	"fmt"
	"math"
	"time"

	"tripmap/internal/geo"
	"tripmap/internal/travel"
)

// StayFrameDeg is the half-size of the box framed around a focused
// stay, about a kilometre.
const StayFrameDeg = 0.009

// NearbyWindowDeg is the axis-aligned window of the focused-stay scan
// for context segments.
const NearbyWindowDeg = 0.01

// FitRule is one row of the framing table: how much padding to keep
// around an item and how far the fit may zoom. Zero limits mean
// unlimited.
type FitRule struct {
	PadX    int
	PadY    int
	MaxZoom float64
	MinZoom float64
}

// The framing table. Kept as data so adding a segment kind is a row,
// not a branch.
var (
	fitIntlFlight = FitRule{PadX: 100, PadY: 100, MaxZoom: 3}
	fitFlight     = FitRule{PadX: 50, PadY: 50, MaxZoom: 7}
	fitShortHop   = FitRule{PadX: 100, PadY: 100, MaxZoom: 14, MinZoom: 12}
	fitGround     = FitRule{PadX: 50, PadY: 50, MaxZoom: 10, MinZoom: 8}
	fitStay       = FitRule{PadX: 50, PadY: 50, MaxZoom: 15}
)

// RuleFor returns the framing rule for an item.
func RuleFor(item travel.Item) FitRule {
	switch it := item.(type) {
	case *travel.Segment:
		switch it.Type {
		case travel.TypeFlight:
			if it.International() {
				return fitIntlFlight
			}
			return fitFlight
		case travel.TypeWalk, travel.TypeShuttle:
			return fitShortHop
		case travel.TypeTrain, travel.TypeBus:
			return fitGround
		}
		panic(fmt.Sprintf("mapview: no framing rule for segment type %q", it.Type))
	case *travel.Stay:
		return fitStay
	}
	panic(fmt.Sprintf("mapview: no framing rule for item %T", item))
}

// ItemBounds returns the box local mode frames for an item. Segment
// bounds are antimeridian-aware; stay bounds are the small box around
// the point.
func ItemBounds(item travel.Item) (geo.Bounds, error) {
	switch it := item.(type) {
	case *travel.Segment:
		return geo.PairBounds(it.Origin.Coordinates, it.Destination.Coordinates)
	case *travel.Stay:
		if err := it.Coordinates.Check(); err != nil {
			return geo.Bounds{}, err
		}
		return geo.BoundsOf(it.Coordinates).Pad(StayFrameDeg), nil
	}
	return geo.Bounds{}, fmt.Errorf("mapview: no bounds for item %T", item)
}

// FitDebounceWindow is how long a repeated fit for the same item is
// considered a duplicate.
const FitDebounceWindow = time.Second

// fitZoomTolerance: a repeat fit is redundant when the viewport is
// already within this many zoom levels of the target.
const fitZoomTolerance = 1.0

// Debouncer collapses fitBounds thrash: a second fit for the same item
// within the window is suppressed when the viewport already sits within
// tolerance of the target zoom. Flights are never suppressed; their
// framing jumps are always intentional.
type Debouncer struct {
	lastTime time.Time
	lastKey  string
}

// ShouldFit decides whether a fit proceeds, recording it when it does.
// Suppressed fits do not extend the window.
func (d *Debouncer) ShouldFit(now time.Time, key string, flight bool, currentZoom, targetZoom float64) bool {
	if !flight &&
		key == d.lastKey &&
		now.Sub(d.lastTime) < FitDebounceWindow &&
		math.Abs(currentZoom-targetZoom) <= fitZoomTolerance {
		return false
	}
	d.lastTime = now
	d.lastKey = key
	return true
}

// Reset forgets the last fit, forcing the next one through.
func (d *Debouncer) Reset() {
	d.lastTime = time.Time{}
	d.lastKey = ""
}
