// Package overlay loads reference geometry from local files: coastlines,
// borders or waypoints to draw dimly underneath the route layers. The map
// controller never sees overlay data; it belongs to the canvas alone.
//
// Supported formats: GeoJSON, WKT, KML and CSV. Polygons load as closed
// outlines; the canvas strokes, it does not fill.
package overlay

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tripmap/internal/geo"
)

// ErrUnsupported reports a file extension none of the parsers claim.
var ErrUnsupported = errors.New("overlay: unsupported file format")

// Data is the parsed overlay: polylines to stroke and standalone points.
// Coordinates are canonical (lng in [-180,180]); the canvas shifts world
// copies itself.
type Data struct {
	Lines  [][]geo.LatLng
	Points []geo.LatLng
}

// Empty reports whether there is nothing to draw.
func (d *Data) Empty() bool {
	return d == nil || (len(d.Lines) == 0 && len(d.Points) == 0)
}

// Bounds returns the box covering every vertex. Empty data yields the
// zero box.
func (d *Data) Bounds() geo.Bounds {
	var pts []geo.LatLng
	pts = append(pts, d.Points...)
	for _, l := range d.Lines {
		pts = append(pts, l...)
	}
	return geo.BoundsOf(pts...)
}

func (d *Data) addLine(pts []geo.LatLng) {
	if len(pts) >= 2 {
		d.Lines = append(d.Lines, pts)
	}
}

// Load reads the file at path, picking the parser by extension:
// .geojson/.json, .wkt, .kml, .csv.
func Load(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("overlay: read %s: %w", path, err)
	}
	var d *Data
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		d, err = ParseGeoJSON(raw)
	case ".wkt":
		d, err = ParseWKT(string(raw))
	case ".kml":
		d, err = ParseKML(raw)
	case ".csv":
		d, err = ParseCSV(raw)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("overlay: %s: %w", path, err)
	}
	if d.Empty() {
		return nil, fmt.Errorf("overlay: %s: no geometry found", path)
	}
	return d, nil
}
