package mapview

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"tripmap/internal/geo"
	"tripmap/internal/travel"
)

// RenderError wraps a panic recovered inside a render pass. The guard
// still releases; the orchestrator surfaces the error to the UI.
type RenderError struct {
	Cause any
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("mapview: render panicked: %v", e.Cause)
}

// Renderer turns (trip, mode, display item) into polylines and markers
// on the registry's layers. Render is idempotent: equal inputs produce
// equal primitives, because every pass starts from ClearAll.
type Renderer struct {
	reg      *Registry
	arcSteps int
	log      zerolog.Logger
}

// NewRenderer wires a renderer to its registry. arcSteps controls
// flight-arc smoothness; pass 0 for the default.
func NewRenderer(reg *Registry, arcSteps int, log zerolog.Logger) *Renderer {
	if arcSteps <= 0 {
		arcSteps = geo.DefaultArcSteps
	}
	return &Renderer{reg: reg, arcSteps: arcSteps, log: log}
}

// Render redraws every layer for the given state. It returns
// ErrLayerUnavailable before the map is ready, a *RenderError when a
// draw panics, and nil otherwise. Bad coordinates never fail a render;
// the offending geometry is skipped and logged.
func (r *Renderer) Render(trip *travel.Trip, mode Mode, item travel.Item) (err error) {
	if !r.reg.Attached() {
		return ErrLayerUnavailable
	}
	switch mode {
	case ModeWorld, ModeRegion, ModeLocal:
	default:
		return fmt.Errorf("mapview: unknown mode %q", mode)
	}

	defer func() {
		if p := recover(); p != nil {
			err = &RenderError{Cause: p}
		}
	}()

	r.reg.ClearAll()
	if trip == nil {
		return nil
	}

	switch mode {
	case ModeWorld:
		r.renderWorld(trip, item)
	case ModeRegion:
		r.renderRegion(trip, item)
	case ModeLocal:
		r.renderLocal(trip, item)
	}
	return nil
}

// renderWorld draws international flight arcs, one marker per unique
// airport across all flights, and every stay.
func (r *Renderer) renderWorld(trip *travel.Trip, display travel.Item) {
	for _, s := range trip.Segments {
		if s.Type != travel.TypeFlight || !s.International() {
			continue
		}
		pts, err := r.segmentPath(s)
		if err != nil {
			r.skip(s, err)
			continue
		}
		layer, highlighted := r.segmentLayer(s, display)
		r.addRoute(layer, s, pts, highlighted)
	}

	seen := make(map[string]bool)
	for _, s := range trip.Segments {
		if s.Type != travel.TypeFlight {
			continue
		}
		for _, e := range []travel.Endpoint{s.Origin, s.Destination} {
			key := coordKey(e.Coordinates)
			if seen[key] {
				continue
			}
			seen[key] = true
			r.addMarker(r.reg.Layer(LayerFlights), e.Coordinates,
				MarkerEndpoint, ColorRed, e.Label(), s.ItemKey())
		}
	}

	r.renderStays(trip, display)
}

// renderRegion draws the routes inside the trip's focus region and
// every stay. A segment belongs to the region when its origin lies
// inside; a flight must also terminate inside, so an intercontinental
// departure does not smear an arc across the overview.
func (r *Renderer) renderRegion(trip *travel.Trip, display travel.Item) {
	region := trip.FocusRegion()
	for _, s := range trip.Segments {
		if !region.Contains(s.Origin.Coordinates) {
			continue
		}
		if s.Type == travel.TypeFlight && !region.Contains(s.Destination.Coordinates) {
			continue
		}
		pts, err := r.segmentPath(s)
		if err != nil {
			r.skip(s, err)
			continue
		}
		layer, highlighted := r.segmentLayer(s, display)
		r.addRoute(layer, s, pts, highlighted)
		if s.Type != travel.TypeFlight {
			r.addMarker(layer, s.Origin.Coordinates,
				MarkerEndpoint, RouteColor(s.Type), s.Origin.Label(), s.ItemKey())
			r.addMarker(layer, s.Destination.Coordinates,
				MarkerEndpoint, RouteColor(s.Type), s.Destination.Label(), s.ItemKey())
		}
	}

	r.renderStays(trip, display)
}

// renderLocal draws only the display item: a segment highlighted on the
// active layer with both endpoint markers, or a stay marker plus its
// nearby context segments non-highlighted on their type layers. A nil
// item (detail just closed) leaves the map empty.
func (r *Renderer) renderLocal(trip *travel.Trip, item travel.Item) {
	active := r.reg.Layer(LayerActive)

	switch it := item.(type) {
	case *travel.Segment:
		pts, err := r.segmentPath(it)
		if err != nil {
			r.skip(it, err)
			return
		}
		r.addRoute(active, it, pts, true)
		r.addMarker(active, it.Origin.Coordinates,
			MarkerEndpoint, RouteColor(it.Type), it.Origin.Label(), it.ItemKey())
		r.addMarker(active, it.Destination.Coordinates,
			MarkerEndpoint, RouteColor(it.Type), it.Destination.Label(), it.ItemKey())

	case *travel.Stay:
		r.addMarker(active, it.Coordinates, MarkerStay, ColorStay, stayPopup(it), it.ItemKey())

		for _, s := range trip.NearbySegments(it, NearbyWindowDeg) {
			pts, err := r.segmentPath(s)
			if err != nil {
				r.skip(s, err)
				continue
			}
			layer := r.reg.Layer(LayerForType(s.Type))
			r.addRoute(layer, s, pts, false)
			for _, e := range []travel.Endpoint{s.Origin, s.Destination} {
				if coincides(e.Coordinates, it.Coordinates) {
					continue
				}
				r.addMarker(layer, e.Coordinates,
					MarkerEndpoint, RouteColor(s.Type), e.Label(), s.ItemKey())
			}
		}
	}
}

func (r *Renderer) renderStays(trip *travel.Trip, display travel.Item) {
	for _, st := range trip.Stays {
		layer := r.reg.Layer(LayerStays)
		if display != nil && display.ItemKey() == st.ItemKey() {
			layer = r.reg.Layer(LayerActive)
		}
		r.addMarker(layer, st.Coordinates, MarkerStay, ColorStay, stayPopup(st), st.ItemKey())
	}
}

// segmentLayer picks the draw group: the active layer (highlighted)
// when the segment is the display item, its type layer otherwise.
func (r *Renderer) segmentLayer(s *travel.Segment, display travel.Item) (*Layer, bool) {
	if display != nil && display.ItemKey() == s.ItemKey() {
		return r.reg.Layer(LayerActive), true
	}
	return r.reg.Layer(LayerForType(s.Type)), false
}

// segmentPath returns the segment's drawable path, longitudinally
// continuous: a great-circle arc for flights, the straight pair
// otherwise.
func (r *Renderer) segmentPath(s *travel.Segment) ([]geo.LatLng, error) {
	o, d := s.Origin.Coordinates, s.Destination.Coordinates
	if s.Type == travel.TypeFlight {
		arc, err := geo.Arc(o, d, r.arcSteps)
		if err != nil {
			return nil, err
		}
		return geo.Unwrap(arc), nil
	}
	if err := o.Check(); err != nil {
		return nil, err
	}
	if err := d.Check(); err != nil {
		return nil, err
	}
	return geo.Unwrap([]geo.LatLng{o, d}), nil
}

// addRoute draws a continuous path across the three world copies.
func (r *Renderer) addRoute(l *Layer, s *travel.Segment, pts []geo.LatLng, highlighted bool) {
	weight, opacity := WeightNormal, OpacityNormal
	if highlighted {
		weight, opacity = WeightHighlighted, OpacityHighlighted
	}
	for _, off := range geo.WorldOffsets {
		l.AddPolyline(Polyline{
			Points:  geo.Shift(pts, off),
			Color:   RouteColor(s.Type),
			Weight:  weight,
			Opacity: opacity,
			Popup:   s.Label(),
			Key:     s.ItemKey(),
		})
	}
}

// addMarker draws a point across the three world copies, skipping and
// logging invalid coordinates.
func (r *Renderer) addMarker(l *Layer, at geo.LatLng, kind MarkerKind, color Color, popup, key string) {
	if err := at.Check(); err != nil {
		r.log.Warn().Err(err).Str("item", key).Msg("skipping marker with bad coordinates")
		return
	}
	for _, off := range geo.WorldOffsets {
		l.AddMarker(Marker{
			At:    geo.LatLng{Lat: at.Lat, Lng: at.Lng + off},
			Kind:  kind,
			Color: color,
			Popup: popup,
			Key:   key,
		})
	}
}

func (r *Renderer) skip(s *travel.Segment, err error) {
	r.log.Warn().Err(err).Str("segment", s.ID).Msg("skipping segment with bad coordinates")
}

func stayPopup(s *travel.Stay) string {
	out := s.Location
	if s.Notes != "" {
		out += "\n" + s.Notes
	}
	return out + "\n" + s.DateStart + " to " + s.DateEnd
}

func coordKey(p geo.LatLng) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," +
		strconv.FormatFloat(p.Lng, 'f', -1, 64)
}

func coincides(a, b geo.LatLng) bool {
	const eps = 1e-9
	return abs(a.Lat-b.Lat) < eps && abs(a.Lng-b.Lng) < eps
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
