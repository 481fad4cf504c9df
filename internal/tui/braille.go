package tui

import "tripmap/internal/mapview"

// dotGrid is a braille drawing surface: every terminal cell holds a 2x4
// microgrid of dots. Cells remember the color and weight of the last
// primitive that touched them, so layers drawn later win the cell.
type dotGrid struct {
	w, h  int       // in cells
	mask  [][]uint8 // per-cell 8-bit braille mask
	color [][]mapview.Color
	bold  [][]bool
}

func newDotGrid(w, h int) *dotGrid {
	g := &dotGrid{
		w:     w,
		h:     h,
		mask:  make([][]uint8, h),
		color: make([][]mapview.Color, h),
		bold:  make([][]bool, h),
	}
	for i := 0; i < h; i++ {
		g.mask[i] = make([]uint8, w)
		g.color[i] = make([]mapview.Color, w)
		g.bold[i] = make([]bool, w)
	}
	return g
}

// set lights a micro-pixel at dot coords (2x4 per cell).
func (g *dotGrid) set(dx, dy int, col mapview.Color, bold bool) {
	if dx < 0 || dy < 0 {
		return
	}
	cx, rx := dx/2, dx%2
	cy, ry := dy/4, dy%4
	if cy >= g.h || cx >= g.w {
		return
	}
	var bit uint8
	if rx == 0 {
		switch ry {
		case 0:
			bit = 0x01
		case 1:
			bit = 0x02
		case 2:
			bit = 0x04
		case 3:
			bit = 0x40
		}
	} else {
		switch ry {
		case 0:
			bit = 0x08
		case 1:
			bit = 0x10
		case 2:
			bit = 0x20
		case 3:
			bit = 0x80
		}
	}
	g.mask[cy][cx] |= bit
	g.color[cy][cx] = col
	g.bold[cy][cx] = bold
}

// line draws a Bresenham line on the dot grid.
func (g *dotGrid) line(x0, y0, x1, y1 int, col mapview.Color, bold bool) {
	dx := iabs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -iabs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		g.set(x0, y0, col, bold)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func iabs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
