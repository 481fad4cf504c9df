package mapview

import (
	"errors"
	"fmt"

	"tripmap/internal/travel"
)

// ErrLayerUnavailable reports a render attempted before the registry was
// attached to a live map. The orchestrator retries on MapReady.
var ErrLayerUnavailable = errors.New("mapview: layers not attached to a map")

// LayerName identifies a draw group. The set is closed: one layer per
// transport kind, one for stays, one for the active (selected) item.
type LayerName string

const (
	LayerFlights  LayerName = "flights"
	LayerTrains   LayerName = "trains"
	LayerShuttles LayerName = "shuttles"
	LayerWalks    LayerName = "walks"
	LayerBuses    LayerName = "buses"
	LayerStays    LayerName = "stays"
	LayerActive   LayerName = "active"
)

// LayerNames lists every layer in z-order; active draws on top.
var LayerNames = [...]LayerName{
	LayerFlights,
	LayerTrains,
	LayerShuttles,
	LayerWalks,
	LayerBuses,
	LayerStays,
	LayerActive,
}

// LayerForType returns the draw group for a segment type. Unknown types
// are a programming error.
func LayerForType(t travel.SegmentType) LayerName {
	switch t {
	case travel.TypeFlight:
		return LayerFlights
	case travel.TypeTrain:
		return LayerTrains
	case travel.TypeShuttle:
		return LayerShuttles
	case travel.TypeWalk:
		return LayerWalks
	case travel.TypeBus:
		return LayerBuses
	}
	panic(fmt.Sprintf("mapview: no layer for segment type %q", t))
}

// Layer is one draw group. Only the renderer writes to layers, and only
// inside a guarded render; the canvas reads them when compositing.
type Layer struct {
	reg       *Registry
	name      LayerName
	polylines []Polyline
	markers   []Marker
}

// Name returns the layer's registry name.
func (l *Layer) Name() LayerName { return l.name }

// AddPolyline appends a route to the group.
func (l *Layer) AddPolyline(p Polyline) {
	l.polylines = append(l.polylines, p)
	l.reg.rev++
}

// AddMarker appends a point of interest to the group.
func (l *Layer) AddMarker(m Marker) {
	l.markers = append(l.markers, m)
	l.reg.rev++
}

// Polylines returns the group's routes. Callers must not mutate.
func (l *Layer) Polylines() []Polyline { return l.polylines }

// Markers returns the group's points. Callers must not mutate.
func (l *Layer) Markers() []Marker { return l.markers }

func (l *Layer) clear() {
	l.polylines = l.polylines[:0]
	l.markers = l.markers[:0]
}

// Registry owns the closed set of draw groups. Groups are created up
// front and attached once when the map becomes available; they share
// the map's lifetime. Lookup of an unknown name panics.
type Registry struct {
	layers   map[LayerName]*Layer
	attached bool
	rev      uint64
}

// NewRegistry creates all draw groups, detached.
func NewRegistry() *Registry {
	r := &Registry{layers: make(map[LayerName]*Layer, len(LayerNames))}
	for _, name := range LayerNames {
		r.layers[name] = &Layer{reg: r, name: name}
	}
	return r
}

// Attach marks the map as available. Idempotent.
func (r *Registry) Attach() { r.attached = true }

// Attached reports whether the groups are live on a map.
func (r *Registry) Attached() bool { return r.attached }

// Layer returns the named draw group. The name set is closed; asking
// for anything else is a programming error and panics.
func (r *Registry) Layer(name LayerName) *Layer {
	l, ok := r.layers[name]
	if !ok {
		panic(fmt.Sprintf("mapview: unknown layer %q", name))
	}
	return l
}

// ClearAll empties every group. The groups remain attached.
func (r *Registry) ClearAll() {
	for _, l := range r.layers {
		l.clear()
	}
	r.rev++
}

// Dispose empties every group and detaches them, for map teardown.
func (r *Registry) Dispose() {
	r.ClearAll()
	r.attached = false
}

// Rev increments on every mutation. Canvases use it to invalidate
// rasterization caches.
func (r *Registry) Rev() uint64 { return r.rev }
