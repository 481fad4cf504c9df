package overlay

import (
	"fmt"

	"github.com/goccy/go-json"

	"tripmap/internal/geo"
)

// geoNode covers every GeoJSON object in one shape: collections carry
// Features or Geometries, features carry a Geometry, concrete geometries
// carry Coordinates whose nesting depth depends on Type.
type geoNode struct {
	Type        string          `json:"type"`
	Features    []geoNode       `json:"features"`
	Geometry    *geoNode        `json:"geometry"`
	Geometries  []geoNode       `json:"geometries"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// ParseGeoJSON extracts points and line work from a GeoJSON document.
// GeoJSON positions are [lng, lat(, alt)]; they come out as LatLng.
// Polygon rings load as closed lines.
func ParseGeoJSON(raw []byte) (*Data, error) {
	var root geoNode
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}
	d := &Data{}
	if err := d.walkGeoJSON(&root); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Data) walkGeoJSON(n *geoNode) error {
	switch n.Type {
	case "FeatureCollection":
		for i := range n.Features {
			if err := d.walkGeoJSON(&n.Features[i]); err != nil {
				return err
			}
		}
	case "Feature":
		if n.Geometry != nil {
			return d.walkGeoJSON(n.Geometry)
		}
	case "GeometryCollection":
		for i := range n.Geometries {
			if err := d.walkGeoJSON(&n.Geometries[i]); err != nil {
				return err
			}
		}
	case "Point":
		var pos []float64
		if err := json.Unmarshal(n.Coordinates, &pos); err != nil {
			return fmt.Errorf("decode point: %w", err)
		}
		p, err := position(pos)
		if err != nil {
			return err
		}
		d.Points = append(d.Points, p)
	case "MultiPoint":
		pts, err := positions(n.Coordinates)
		if err != nil {
			return err
		}
		d.Points = append(d.Points, pts...)
	case "LineString":
		pts, err := positions(n.Coordinates)
		if err != nil {
			return err
		}
		d.addLine(pts)
	case "MultiLineString", "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(n.Coordinates, &rings); err != nil {
			return fmt.Errorf("decode %s: %w", n.Type, err)
		}
		for _, ring := range rings {
			pts, err := convert(ring)
			if err != nil {
				return err
			}
			d.addLine(pts)
		}
	case "MultiPolygon":
		var polys [][][][]float64
		if err := json.Unmarshal(n.Coordinates, &polys); err != nil {
			return fmt.Errorf("decode multipolygon: %w", err)
		}
		for _, poly := range polys {
			for _, ring := range poly {
				pts, err := convert(ring)
				if err != nil {
					return err
				}
				d.addLine(pts)
			}
		}
	default:
		return fmt.Errorf("unknown geojson type %q", n.Type)
	}
	return nil
}

func positions(raw json.RawMessage) ([]geo.LatLng, error) {
	var coords [][]float64
	if err := json.Unmarshal(raw, &coords); err != nil {
		return nil, fmt.Errorf("decode coordinates: %w", err)
	}
	return convert(coords)
}

func convert(coords [][]float64) ([]geo.LatLng, error) {
	pts := make([]geo.LatLng, 0, len(coords))
	for _, pos := range coords {
		p, err := position(pos)
		if err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	return pts, nil
}

func position(pos []float64) (geo.LatLng, error) {
	if len(pos) < 2 {
		return geo.LatLng{}, fmt.Errorf("position has %d elements, want at least 2", len(pos))
	}
	return geo.LatLng{Lat: pos[1], Lng: pos[0]}, nil
}
