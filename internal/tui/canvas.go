package tui

import (
	"math"
	"strings"

	"github.com/rs/zerolog"

	"tripmap/internal/geo"
	"tripmap/internal/mapview"
	"tripmap/internal/overlay"
)

// Canvas is the terminal implementation of mapview.Map: an
// equirectangular projection rasterized onto a braille dot grid, two
// dots wide and four tall per cell. The controller moves the viewport;
// the canvas reads the layer registry and draws whatever is there.
//
// Zoom z shows 1440/2^z degrees of longitude across the canvas, so
// zoom 2 frames the whole world and each +1 halves the visible span.
// Dots are close to square on common terminal fonts, so the same
// dots-per-degree scale serves both axes.
type Canvas struct {
	reg *mapview.Registry
	log zerolog.Logger

	w, h int // cells

	center geo.LatLng
	zoom   float64

	// base is reference geometry (coastlines, borders) drawn dimly
	// underneath the route layers.
	base        *overlay.Data
	baseVisible bool

	anim  *transition
	cache raster
}

const (
	dotsPerCellX = 2
	dotsPerCellY = 4

	// worldDotSpan is the longitude span, in degrees, that one canvas
	// width covers at zoom 0.
	worldDotSpan = 1440.0

	// virtualViewportPx is the reference width FitOptions padding is
	// expressed in.
	virtualViewportPx = 1024.0

	maxCanvasZoom = 18.0

	// animSteps is how many ticks a viewport transition takes.
	animSteps = 5
)

type transition struct {
	fromCenter geo.LatLng
	fromZoom   float64
	toCenter   geo.LatLng
	toZoom     float64
	step       int
}

type raster struct {
	valid  bool
	rev    uint64
	w, h   int
	center geo.LatLng
	zoom   float64
	out    string
}

// NewCanvas builds a canvas over the registry, parked at the world
// view until the controller says otherwise.
func NewCanvas(reg *mapview.Registry, log zerolog.Logger) *Canvas {
	return &Canvas{
		reg:    reg,
		log:    log.With().Str("component", "canvas").Logger(),
		center: mapview.WorldCenter,
		zoom:   mapview.WorldZoom,
	}
}

// SetBase installs the base overlay, drawn underneath the route
// layers. A nil or empty overlay clears it.
func (c *Canvas) SetBase(d *overlay.Data) {
	if d.Empty() {
		d = nil
	}
	c.base = d
	c.baseVisible = d != nil
	c.cache.valid = false
}

// HasBase reports whether an overlay is installed.
func (c *Canvas) HasBase() bool { return c.base != nil }

// ToggleBase flips overlay visibility and returns the new state.
func (c *Canvas) ToggleBase() bool {
	c.baseVisible = !c.baseVisible && c.base != nil
	c.cache.valid = false
	return c.baseVisible
}

// SetSize resizes the canvas to w x h cells.
func (c *Canvas) SetSize(w, h int) {
	if w == c.w && h == c.h {
		return
	}
	c.w, c.h = w, h
	c.cache.valid = false
}

// Size returns the canvas size in cells.
func (c *Canvas) Size() (int, int) { return c.w, c.h }

// Center returns the current viewport center.
func (c *Canvas) Center() geo.LatLng { return c.center }

// SetView moves the viewport. Animated moves ease over a few ticks; a
// newer move silently replaces one still in flight.
func (c *Canvas) SetView(center geo.LatLng, zoom float64, animate bool) {
	zoom = clampZoom(zoom, 0, maxCanvasZoom)
	if !animate || c.w == 0 {
		c.center, c.zoom = center, zoom
		c.anim = nil
		c.cache.valid = false
		return
	}
	c.anim = &transition{
		fromCenter: c.center,
		fromZoom:   c.zoom,
		toCenter:   center,
		toZoom:     zoom,
	}
}

// FitBounds frames b subject to opts.
func (c *Canvas) FitBounds(b geo.Bounds, opts mapview.FitOptions) {
	c.SetView(b.Center(), c.BoundsZoom(b, opts), opts.Animate)
}

// BoundsZoom returns the integer zoom at which b fits the canvas with
// the requested padding, clamped to the opts limits.
func (c *Canvas) BoundsZoom(b geo.Bounds, opts mapview.FitOptions) float64 {
	wd := float64(max(c.w, 1) * dotsPerCellX)
	hd := float64(max(c.h, 1) * dotsPerCellY)

	// One virtual pixel is wd/virtualViewportPx dots.
	px := wd / virtualViewportPx
	availX := math.Max(wd-2*float64(opts.PadX)*px, 1)
	availY := math.Max(hd-2*float64(opts.PadY)*px, 1)

	z := maxCanvasZoom
	if span := b.LngSpan(); span > 0 {
		z = math.Min(z, math.Log2(availX*worldDotSpan/(span*wd)))
	}
	if span := b.LatSpan(); span > 0 {
		z = math.Min(z, math.Log2(availY*worldDotSpan/(span*wd)))
	}
	z = math.Floor(z)

	if opts.MaxZoom > 0 {
		z = math.Min(z, opts.MaxZoom)
	}
	z = math.Max(z, opts.MinZoom)
	return clampZoom(z, 0, maxCanvasZoom)
}

// Zoom returns the current zoom, or the target zoom while a transition
// is in flight.
func (c *Canvas) Zoom() float64 {
	if c.anim != nil {
		return c.anim.toZoom
	}
	return c.zoom
}

// InvalidateSize drops the cached raster so the next View reprojects.
func (c *Canvas) InvalidateSize() { c.cache.valid = false }

// Step advances an in-flight transition by one tick and reports whether
// the canvas is still animating.
func (c *Canvas) Step() bool {
	a := c.anim
	if a == nil {
		return false
	}
	a.step++
	t := float64(a.step) / float64(animSteps)
	t = 1 - (1-t)*(1-t) // ease out
	c.center = geo.LatLng{
		Lat: a.fromCenter.Lat + (a.toCenter.Lat-a.fromCenter.Lat)*t,
		Lng: a.fromCenter.Lng + (a.toCenter.Lng-a.fromCenter.Lng)*t,
	}
	c.zoom = a.fromZoom + (a.toZoom-a.fromZoom)*t
	c.cache.valid = false
	if a.step >= animSteps {
		c.center, c.zoom = a.toCenter, a.toZoom
		c.anim = nil
		return false
	}
	return true
}

// Pan shifts the viewport by whole cells. Manual moves cancel any
// transition in flight.
func (c *Canvas) Pan(dxCells, dyCells int) {
	if c.w == 0 {
		return
	}
	dpd := c.dotsPerDeg()
	c.anim = nil
	c.center = geo.LatLng{
		Lat: c.center.Lat - float64(dyCells*dotsPerCellY)/dpd,
		Lng: c.center.Lng + float64(dxCells*dotsPerCellX)/dpd,
	}
	c.cache.valid = false
}

// ZoomBy nudges the zoom by delta levels around the current center.
func (c *Canvas) ZoomBy(delta float64) {
	c.SetView(c.center, c.Zoom()+delta, true)
}

// LatLngAt inverts the projection for a cell coordinate, for the hover
// readout. Longitude is normalized into [-180, 180].
func (c *Canvas) LatLngAt(cellX, cellY int) (geo.LatLng, bool) {
	if c.w == 0 || c.h == 0 {
		return geo.LatLng{}, false
	}
	dpd := c.dotsPerDeg()
	wd := float64(c.w * dotsPerCellX)
	hd := float64(c.h * dotsPerCellY)
	dx := float64(cellX*dotsPerCellX) + 0.5
	dy := float64(cellY*dotsPerCellY) + 1.5
	p := geo.LatLng{
		Lat: c.center.Lat - (dy-hd/2)/dpd,
		Lng: wrapLng(c.center.Lng + (dx-wd/2)/dpd),
	}
	return p, true
}

// HitTest returns the item key of the primitive nearest to a cell, or
// "" when nothing is within reach. Layers are scanned top-down so the
// active layer wins ties.
func (c *Canvas) HitTest(cellX, cellY int) string {
	if c.w == 0 || !c.reg.Attached() {
		return ""
	}
	const reachDots = 6
	hx := cellX*dotsPerCellX + 1
	hy := cellY*dotsPerCellY + 2

	best := reachDots*reachDots + 1
	bestKey := ""
	consider := func(p geo.LatLng, key string) {
		if key == "" {
			return
		}
		x, y := c.project(p)
		dx, dy := x-hx, y-hy
		if d := dx*dx + dy*dy; d < best {
			best = d
			bestKey = key
		}
	}
	for i := len(mapview.LayerNames) - 1; i >= 0; i-- {
		layer := c.reg.Layer(mapview.LayerNames[i])
		for _, mk := range layer.Markers() {
			consider(mk.At, mk.Key)
		}
		for _, pl := range layer.Polylines() {
			for _, p := range pl.Points {
				consider(p, pl.Key)
			}
		}
	}
	return bestKey
}

// View rasterizes the registry at the current viewport. The result is
// cached against the registry revision and the view parameters.
func (c *Canvas) View() string {
	if c.w <= 0 || c.h <= 0 {
		return ""
	}
	rev := c.reg.Rev()
	if c.cache.valid && c.cache.rev == rev &&
		c.cache.w == c.w && c.cache.h == c.h &&
		c.cache.center == c.center && c.cache.zoom == c.zoom {
		return c.cache.out
	}
	out := c.rasterize()
	c.cache = raster{
		valid:  true,
		rev:    rev,
		w:      c.w,
		h:      c.h,
		center: c.center,
		zoom:   c.zoom,
		out:    out,
	}
	return out
}

type cell struct {
	r     rune
	color mapview.Color // "" means default foreground
	bold  bool
}

func (c *Canvas) rasterize() string {
	grid := newDotGrid(c.w, c.h)
	cells := make([][]cell, c.h)
	for y := range cells {
		cells[y] = make([]cell, c.w)
		for x := range cells[y] {
			cells[y][x] = cell{r: ' '}
		}
	}

	if c.baseVisible && c.base != nil {
		for _, line := range c.base.Lines {
			for _, off := range geo.WorldOffsets {
				c.strokePath(grid, geo.Shift(line, off), colorBase, false, false)
			}
		}
		for _, p := range c.base.Points {
			for _, off := range geo.WorldOffsets {
				x, y := c.project(geo.LatLng{Lat: p.Lat, Lng: p.Lng + off})
				grid.set(x, y, colorBase, false)
			}
		}
	}

	if c.reg.Attached() {
		for _, name := range mapview.LayerNames {
			layer := c.reg.Layer(name)
			bold := name == mapview.LayerActive
			for _, pl := range layer.Polylines() {
				c.strokePolyline(grid, pl, bold)
			}
		}
		for y := 0; y < c.h; y++ {
			for x := 0; x < c.w; x++ {
				if m := grid.mask[y][x]; m != 0 {
					cells[y][x] = cell{
						r:     rune(0x2800 + int(m)),
						color: grid.color[y][x],
						bold:  grid.bold[y][x],
					}
				}
			}
		}
		// Markers sit above route lines.
		for _, name := range mapview.LayerNames {
			layer := c.reg.Layer(name)
			bold := name == mapview.LayerActive
			for _, mk := range layer.Markers() {
				c.placeMarker(cells, mk, bold)
			}
		}
	}

	var b strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		writeRow(&b, cells[y])
	}
	return b.String()
}

// writeRow groups runs of equally styled cells into one render call.
func writeRow(b *strings.Builder, row []cell) {
	for x := 0; x < len(row); {
		col, bold := row[x].color, row[x].bold
		var run strings.Builder
		for x < len(row) && row[x].color == col && row[x].bold == bold {
			run.WriteRune(row[x].r)
			x++
		}
		if col == "" {
			b.WriteString(run.String())
		} else {
			b.WriteString(routeStyle(col, bold).Render(run.String()))
		}
	}
}

func (c *Canvas) strokePolyline(grid *dotGrid, pl mapview.Polyline, bold bool) {
	c.strokePath(grid, pl.Points, pl.Color, bold, pl.Weight >= mapview.WeightHighlighted)
}

func (c *Canvas) strokePath(grid *dotGrid, pts []geo.LatLng, color mapview.Color, bold, thick bool) {
	wd := float64(c.w * dotsPerCellX)
	hd := float64(c.h * dotsPerCellY)

	var prev geo.LatLng
	for i, p := range pts {
		if i == 0 {
			prev = p
			continue
		}
		x0, y0 := c.projectF(prev)
		x1, y1 := c.projectF(p)
		prev = p
		cx0, cy0, cx1, cy1, ok := clipSegment(x0, y0, x1, y1, wd, hd)
		if !ok {
			continue
		}
		ax, ay := int(math.Round(cx0)), int(math.Round(cy0))
		bx, by := int(math.Round(cx1)), int(math.Round(cy1))
		grid.line(ax, ay, bx, by, color, bold)
		if thick {
			grid.line(ax, ay+1, bx, by+1, color, bold)
		}
	}
}

func (c *Canvas) placeMarker(cells [][]cell, mk mapview.Marker, bold bool) {
	x, y := c.project(mk.At)
	cx, cy := x/dotsPerCellX, y/dotsPerCellY
	if cx < 0 || cx >= c.w || cy < 0 || cy >= c.h {
		return
	}
	glyph := '●'
	if mk.Kind == mapview.MarkerStay {
		glyph = '⌂'
	}
	cells[cy][cx] = cell{r: glyph, color: mk.Color, bold: bold}
}

func (c *Canvas) dotsPerDeg() float64 {
	wd := float64(c.w * dotsPerCellX)
	return wd * math.Exp2(c.zoom) / worldDotSpan
}

// project maps a coordinate to integer dot coordinates.
func (c *Canvas) project(p geo.LatLng) (int, int) {
	x, y := c.projectF(p)
	return int(math.Round(x)), int(math.Round(y))
}

func (c *Canvas) projectF(p geo.LatLng) (float64, float64) {
	dpd := c.dotsPerDeg()
	wd := float64(c.w * dotsPerCellX)
	hd := float64(c.h * dotsPerCellY)
	x := (p.Lng-c.center.Lng)*dpd + wd/2
	y := (c.center.Lat-p.Lat)*dpd + hd/2
	return x, y
}

// clipSegment clips a segment to the dot viewport (with a one-dot
// margin) using Liang-Barsky. World copies put endpoints very far off
// screen at high zoom; drawing unclipped would walk millions of dots.
func clipSegment(x0, y0, x1, y1, wd, hd float64) (float64, float64, float64, float64, bool) {
	const margin = 1.0
	minX, minY := -margin, -margin
	maxX, maxY := wd+margin, hd+margin

	dx := x1 - x0
	dy := y1 - y0
	t0, t1 := 0.0, 1.0

	clip := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return false
			}
			if r < t1 {
				t1 = r
			}
		}
		return true
	}

	if !clip(-dx, x0-minX) || !clip(dx, maxX-x0) ||
		!clip(-dy, y0-minY) || !clip(dy, maxY-y0) {
		return 0, 0, 0, 0, false
	}
	nx0 := x0 + t0*dx
	ny0 := y0 + t0*dy
	nx1 := x0 + t1*dx
	ny1 := y0 + t1*dy
	return nx0, ny0, nx1, ny1, true
}

func clampZoom(z, lo, hi float64) float64 {
	return math.Min(math.Max(z, lo), hi)
}

func wrapLng(lng float64) float64 {
	for lng > 180 {
		lng -= 360
	}
	for lng < -180 {
		lng += 360
	}
	return lng
}
