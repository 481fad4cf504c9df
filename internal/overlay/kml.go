package overlay

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"tripmap/internal/geo"
)

type kmlGeometry struct {
	Coordinates string `xml:"coordinates"`
}

type kmlRing struct {
	LinearRing kmlGeometry `xml:"LinearRing"`
}

type kmlPlacemark struct {
	Point      *kmlGeometry  `xml:"Point"`
	LineString []kmlGeometry `xml:"LineString"`
	Outer      []kmlRing     `xml:"Polygon>outerBoundaryIs"`
}

type kmlDoc struct {
	Placemarks []kmlPlacemark `xml:"Document>Placemark"`
	// Placemarks directly under <kml> or inside folders.
	Loose  []kmlPlacemark `xml:"Placemark"`
	Folder []kmlPlacemark `xml:"Document>Folder>Placemark"`
}

// ParseKML extracts placemark points, paths and polygon outlines. KML
// coordinates are "lon,lat[,alt]" tuples separated by whitespace;
// altitude is ignored. Inner polygon boundaries are ignored too: the
// overlay strokes outlines, holes would just add noise.
func ParseKML(raw []byte) (*Data, error) {
	var doc kmlDoc
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode kml: %w", err)
	}
	d := &Data{}
	for _, group := range [][]kmlPlacemark{doc.Placemarks, doc.Loose, doc.Folder} {
		for _, pm := range group {
			if pm.Point != nil {
				pts, err := kmlCoords(pm.Point.Coordinates)
				if err != nil {
					return nil, err
				}
				d.Points = append(d.Points, pts...)
			}
			for _, ls := range pm.LineString {
				pts, err := kmlCoords(ls.Coordinates)
				if err != nil {
					return nil, err
				}
				d.addLine(pts)
			}
			for _, ring := range pm.Outer {
				pts, err := kmlCoords(ring.LinearRing.Coordinates)
				if err != nil {
					return nil, err
				}
				d.addLine(pts)
			}
		}
	}
	return d, nil
}

func kmlCoords(s string) ([]geo.LatLng, error) {
	var pts []geo.LatLng
	for _, tuple := range strings.Fields(s) {
		parts := strings.Split(tuple, ",")
		if len(parts) < 2 {
			return nil, fmt.Errorf("kml coordinate %q needs lon,lat", tuple)
		}
		lng, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("kml coordinate %q: %w", tuple, err)
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("kml coordinate %q: %w", tuple, err)
		}
		pts = append(pts, geo.LatLng{Lat: lat, Lng: lng})
	}
	return pts, nil
}
