package tui

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripmap/internal/geo"
	"tripmap/internal/mapview"
	"tripmap/internal/overlay"
)

func newTestCanvas(t *testing.T, w, h int) (*Canvas, *mapview.Registry) {
	t.Helper()
	reg := mapview.NewRegistry()
	reg.Attach()
	c := NewCanvas(reg, zerolog.Nop())
	c.SetSize(w, h)
	return c, reg
}

func containsBraille(s string) bool {
	for _, r := range s {
		if r >= 0x2801 && r <= 0x28FF {
			return true
		}
	}
	return false
}

func TestBoundsZoom(t *testing.T) {
	world := geo.BoundsOf(geo.LatLng{Lat: -60, Lng: -180}, geo.LatLng{Lat: 75, Lng: 180})
	japan := geo.BoundsOf(geo.LatLng{Lat: 24, Lng: 123}, geo.LatLng{Lat: 45, Lng: 146})
	point := geo.BoundsOf(geo.LatLng{Lat: 35.68, Lng: 139.77})

	tests := []struct {
		name string
		b    geo.Bounds
		opts mapview.FitOptions
		want float64
	}{
		{"world fits at the world zoom", world, mapview.FitOptions{}, 2},
		{"padding costs a level", world, mapview.FitOptions{PadX: 50, PadY: 50}, 1},
		{"country bounds", japan, mapview.FitOptions{PadX: 50, PadY: 50}, 5},
		{"max zoom caps", japan, mapview.FitOptions{PadX: 50, PadY: 50, MaxZoom: 4}, 4},
		{"min zoom floors", japan, mapview.FitOptions{PadX: 50, PadY: 50, MinZoom: 7}, 7},
		{"degenerate bounds hit the ceiling", point, mapview.FitOptions{}, 18},
		{"degenerate bounds respect max zoom", point, mapview.FitOptions{MaxZoom: 15}, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCanvas(t, 80, 24)
			assert.InDelta(t, tt.want, c.BoundsZoom(tt.b, tt.opts), 1e-9)
		})
	}
}

func TestSetViewSnapsWithoutAnimation(t *testing.T) {
	c, _ := newTestCanvas(t, 80, 24)
	tokyo := geo.LatLng{Lat: 35.68, Lng: 139.77}
	c.SetView(tokyo, 8, false)
	assert.Equal(t, tokyo, c.Center())
	assert.Equal(t, 8.0, c.Zoom())
	assert.False(t, c.Step())
}

func TestSetViewAnimatesOverTicks(t *testing.T) {
	c, _ := newTestCanvas(t, 80, 24)
	c.SetView(geo.LatLng{}, 2, false)
	target := geo.LatLng{Lat: 35, Lng: 139}
	c.SetView(target, 10, true)

	assert.Equal(t, 10.0, c.Zoom(), "Zoom reports the target while in flight")
	assert.Equal(t, geo.LatLng{}, c.Center(), "center moves only on ticks")

	steps := 0
	for c.Step() {
		steps++
		require.LessOrEqual(t, steps, animSteps, "transition must terminate")
	}
	assert.Equal(t, animSteps-1, steps)
	assert.Equal(t, target, c.Center())
	assert.Equal(t, 10.0, c.Zoom())
}

func TestSetViewSnapsBeforeFirstSize(t *testing.T) {
	c := NewCanvas(mapview.NewRegistry(), zerolog.Nop())
	target := geo.LatLng{Lat: 35, Lng: 139}
	c.SetView(target, 10, true)
	assert.Equal(t, target, c.Center())
	assert.False(t, c.Step())
}

func TestSetViewClampsZoom(t *testing.T) {
	c, _ := newTestCanvas(t, 80, 24)
	c.SetView(geo.LatLng{}, 25, false)
	assert.Equal(t, maxCanvasZoom, c.Zoom())
	c.SetView(geo.LatLng{}, -3, false)
	assert.Equal(t, 0.0, c.Zoom())
}

func TestPanCancelsTransition(t *testing.T) {
	c, _ := newTestCanvas(t, 80, 24)
	c.SetView(geo.LatLng{}, 2, false)
	c.SetView(geo.LatLng{Lat: 35, Lng: 139}, 10, true)

	c.Pan(2, 0)
	assert.False(t, c.Step(), "a manual pan cancels the transition")
	// Two cells are four dots; at zoom 2 on a 160-dot canvas that is 9
	// degrees of longitude.
	assert.InDelta(t, 9.0, c.Center().Lng, 1e-9)
	assert.InDelta(t, 0.0, c.Center().Lat, 1e-9)
}

func TestZoomByTargetsCurrentGoal(t *testing.T) {
	c, _ := newTestCanvas(t, 80, 24)
	c.SetView(geo.LatLng{}, 5, false)
	c.ZoomBy(1)
	c.ZoomBy(1)
	assert.Equal(t, 7.0, c.Zoom(), "repeated nudges stack on the in-flight target")
	for c.Step() {
	}
	assert.Equal(t, 7.0, c.Zoom())
}

func TestLatLngAtInvertsProjection(t *testing.T) {
	c, _ := newTestCanvas(t, 80, 24)
	tokyo := geo.LatLng{Lat: 35.68, Lng: 139.77}
	c.SetView(tokyo, 10, false)

	p, ok := c.LatLngAt(40, 12)
	require.True(t, ok)
	assert.InDelta(t, tokyo.Lat, p.Lat, 0.05)
	assert.InDelta(t, tokyo.Lng, p.Lng, 0.05)

	_, ok = NewCanvas(mapview.NewRegistry(), zerolog.Nop()).LatLngAt(0, 0)
	assert.False(t, ok, "no coordinates before the first size")
}

func TestWrapLng(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{180, 180},
		{-180, -180},
		{190, -170},
		{-190, 170},
		{360, 0},
		{541, -179},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, wrapLng(tt.in), 1e-9)
	}
}

func TestViewDrawsRoutesAndMarkers(t *testing.T) {
	c, reg := newTestCanvas(t, 40, 12)
	center := geo.LatLng{Lat: 35, Lng: 139}
	c.SetView(center, 6, false)

	blank := c.View()
	assert.False(t, containsBraille(blank))

	reg.Layer(mapview.LayerTrains).AddPolyline(mapview.Polyline{
		Points: []geo.LatLng{{Lat: 35, Lng: 138}, {Lat: 35, Lng: 140}},
		Color:  mapview.ColorBlue,
		Weight: mapview.WeightNormal,
		Key:    "segment-3",
	})
	withRoute := c.View()
	assert.True(t, containsBraille(withRoute))
	assert.NotEqual(t, blank, withRoute)

	reg.Layer(mapview.LayerStays).AddMarker(mapview.Marker{
		At:    center,
		Kind:  mapview.MarkerStay,
		Color: mapview.ColorStay,
		Key:   "stay-x",
	})
	assert.Contains(t, c.View(), "⌂")
}

func TestViewCachesUntilRegistryChanges(t *testing.T) {
	c, reg := newTestCanvas(t, 40, 12)
	c.SetView(geo.LatLng{Lat: 35, Lng: 139}, 6, false)

	first := c.View()
	assert.Equal(t, first, c.View())

	reg.Layer(mapview.LayerWalks).AddPolyline(mapview.Polyline{
		Points: []geo.LatLng{{Lat: 34, Lng: 139}, {Lat: 36, Lng: 139}},
		Color:  mapview.ColorPurple,
		Weight: mapview.WeightNormal,
		Key:    "segment-4",
	})
	assert.NotEqual(t, first, c.View(), "registry changes invalidate the raster")
}

func TestViewEmptyBeforeFirstSize(t *testing.T) {
	c := NewCanvas(mapview.NewRegistry(), zerolog.Nop())
	assert.Equal(t, "", c.View())
}

func TestHitTest(t *testing.T) {
	c, reg := newTestCanvas(t, 40, 12)
	center := geo.LatLng{Lat: 35, Lng: 139}
	c.SetView(center, 8, false)

	reg.Layer(mapview.LayerStays).AddMarker(mapview.Marker{
		At:    center,
		Kind:  mapview.MarkerStay,
		Color: mapview.ColorStay,
		Key:   "stay-center",
	})
	assert.Equal(t, "stay-center", c.HitTest(20, 6))
	assert.Equal(t, "", c.HitTest(2, 2), "far cells miss")

	// The active layer wins a tie at the same spot.
	reg.Layer(mapview.LayerActive).AddPolyline(mapview.Polyline{
		Points: []geo.LatLng{center, {Lat: 35, Lng: 139.5}},
		Color:  mapview.ColorRed,
		Weight: mapview.WeightHighlighted,
		Key:    "segment-9",
	})
	assert.Equal(t, "segment-9", c.HitTest(20, 6))
}

func TestHitTestIgnoresKeylessAndDetached(t *testing.T) {
	c, reg := newTestCanvas(t, 40, 12)
	center := geo.LatLng{Lat: 35, Lng: 139}
	c.SetView(center, 8, false)
	reg.Layer(mapview.LayerFlights).AddPolyline(mapview.Polyline{
		Points: []geo.LatLng{center, {Lat: 36, Lng: 140}},
		Color:  mapview.ColorRed,
	})
	assert.Equal(t, "", c.HitTest(20, 6), "keyless primitives are not hit targets")

	detached := NewCanvas(mapview.NewRegistry(), zerolog.Nop())
	detached.SetSize(40, 12)
	assert.Equal(t, "", detached.HitTest(20, 6))
}

func TestBaseLayerDrawsUnderRoutes(t *testing.T) {
	c, _ := newTestCanvas(t, 40, 12)
	c.SetView(geo.LatLng{Lat: 35, Lng: 139}, 6, false)
	assert.False(t, c.HasBase())

	blank := c.View()
	c.SetBase(&overlay.Data{Lines: [][]geo.LatLng{
		{{Lat: 34, Lng: 137}, {Lat: 36, Lng: 141}},
	}})
	assert.True(t, c.HasBase())
	withBase := c.View()
	assert.True(t, containsBraille(withBase))
	assert.NotEqual(t, blank, withBase)

	assert.False(t, c.ToggleBase())
	assert.Equal(t, blank, c.View(), "hidden base leaves a blank map")
	assert.True(t, c.ToggleBase())
	assert.Equal(t, withBase, c.View())
}

func TestSetBaseIgnoresEmptyOverlay(t *testing.T) {
	c, _ := newTestCanvas(t, 40, 12)
	c.SetBase(&overlay.Data{})
	assert.False(t, c.HasBase())
	assert.False(t, c.ToggleBase(), "nothing to toggle without an overlay")
}
