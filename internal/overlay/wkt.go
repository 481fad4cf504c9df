package overlay

import (
	"fmt"
	"strconv"
	"strings"

	"tripmap/internal/geo"
)

// ParseWKT parses the common WKT geometry types: POINT, MULTIPOINT,
// LINESTRING, MULTILINESTRING, POLYGON and MULTIPOLYGON. WKT axis order
// is x y, so lng before lat. A file may hold several geometries
// separated by newlines or semicolons.
func ParseWKT(raw string) (*Data, error) {
	d := &Data{}
	for _, stmt := range strings.FieldsFunc(raw, func(r rune) bool { return r == '\n' || r == ';' }) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if err := d.parseWKTGeometry(stmt); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Data) parseWKTGeometry(s string) error {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return fmt.Errorf("malformed wkt %q", s)
	}
	kind := strings.ToUpper(strings.TrimSpace(s[:open]))
	body := s[open+1 : len(s)-1]

	switch kind {
	case "POINT":
		p, err := wktCoord(body)
		if err != nil {
			return err
		}
		d.Points = append(d.Points, p)
	case "MULTIPOINT":
		for _, part := range splitTop(body) {
			p, err := wktCoord(strings.Trim(strings.TrimSpace(part), "()"))
			if err != nil {
				return err
			}
			d.Points = append(d.Points, p)
		}
	case "LINESTRING":
		pts, err := wktCoords(body)
		if err != nil {
			return err
		}
		d.addLine(pts)
	case "POLYGON", "MULTILINESTRING":
		for _, ring := range splitTop(body) {
			pts, err := wktCoords(strings.Trim(strings.TrimSpace(ring), "()"))
			if err != nil {
				return err
			}
			d.addLine(pts)
		}
	case "MULTIPOLYGON":
		for _, poly := range splitTop(body) {
			poly = strings.TrimSpace(poly)
			poly = strings.TrimPrefix(poly, "(")
			poly = strings.TrimSuffix(poly, ")")
			for _, ring := range splitTop(poly) {
				pts, err := wktCoords(strings.Trim(strings.TrimSpace(ring), "()"))
				if err != nil {
					return err
				}
				d.addLine(pts)
			}
		}
	default:
		return fmt.Errorf("unknown wkt type %q", kind)
	}
	return nil
}

// splitTop splits on commas at parenthesis depth zero.
func splitTop(s string) []string {
	var out []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	return append(out, s[start:])
}

func wktCoords(body string) ([]geo.LatLng, error) {
	parts := splitTop(body)
	pts := make([]geo.LatLng, 0, len(parts))
	for _, part := range parts {
		p, err := wktCoord(part)
		if err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	return pts, nil
}

func wktCoord(s string) (geo.LatLng, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) < 2 {
		return geo.LatLng{}, fmt.Errorf("wkt coordinate %q needs x and y", s)
	}
	lng, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return geo.LatLng{}, fmt.Errorf("wkt coordinate %q: %w", s, err)
	}
	lat, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return geo.LatLng{}, fmt.Errorf("wkt coordinate %q: %w", s, err)
	}
	return geo.LatLng{Lat: lat, Lng: lng}, nil
}
