package overlay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripmap/internal/geo"
)

func TestParseGeoJSONFeatureCollection(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [139.77, 35.68]}},
			{"type": "Feature", "geometry": {"type": "LineString",
				"coordinates": [[139.77, 35.68], [135.76, 34.99]]}},
			{"type": "Feature", "geometry": {"type": "Polygon",
				"coordinates": [[[127, 30], [146, 30], [146, 46], [127, 46], [127, 30]]]}}
		]
	}`)
	d, err := ParseGeoJSON(raw)
	require.NoError(t, err)

	require.Len(t, d.Points, 1)
	assert.Equal(t, geo.LatLng{Lat: 35.68, Lng: 139.77}, d.Points[0], "positions convert from [lng, lat]")

	require.Len(t, d.Lines, 2, "one linestring plus one polygon ring")
	assert.Equal(t, geo.LatLng{Lat: 34.99, Lng: 135.76}, d.Lines[0][1])
	assert.Len(t, d.Lines[1], 5, "polygon ring stays closed")
}

func TestParseGeoJSONBareGeometry(t *testing.T) {
	t.Parallel()

	d, err := ParseGeoJSON([]byte(`{"type": "MultiPolygon",
		"coordinates": [[[[0, 0], [1, 0], [1, 1], [0, 0]]], [[[10, 10], [11, 10], [11, 11], [10, 10]]]]}`))
	require.NoError(t, err)
	assert.Len(t, d.Lines, 2)

	_, err = ParseGeoJSON([]byte(`{"type": "Squiggle"}`))
	assert.Error(t, err)
}

func TestParseWKT(t *testing.T) {
	t.Parallel()

	d, err := ParseWKT(`POINT(140.39 35.77)
LINESTRING(139.77 35.68, 135.76 34.99, 136.65 36.58)
POLYGON((127 30, 146 30, 146 46, 127 30), (130 32, 131 32, 130 33, 130 32))`)
	require.NoError(t, err)

	require.Len(t, d.Points, 1)
	assert.Equal(t, geo.LatLng{Lat: 35.77, Lng: 140.39}, d.Points[0], "wkt order is x y, lng before lat")

	require.Len(t, d.Lines, 3, "linestring plus two polygon rings")
	assert.Len(t, d.Lines[0], 3)

	_, err = ParseWKT("TRIANGLE((0 0, 1 1, 2 0))")
	assert.Error(t, err)

	_, err = ParseWKT("POINT 140.39 35.77")
	assert.Error(t, err)
}

func TestParseWKTMultis(t *testing.T) {
	t.Parallel()

	d, err := ParseWKT("MULTIPOINT((10 40), (40 30)); MULTIPOLYGON(((0 0, 1 0, 1 1, 0 0)), ((5 5, 6 5, 6 6, 5 5)))")
	require.NoError(t, err)
	assert.Len(t, d.Points, 2)
	assert.Len(t, d.Lines, 2)
	assert.Equal(t, geo.LatLng{Lat: 40, Lng: 10}, d.Points[0])
}

func TestParseKML(t *testing.T) {
	t.Parallel()

	raw := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Placemark>
      <Point><coordinates>139.77,35.68,0</coordinates></Point>
    </Placemark>
    <Placemark>
      <LineString><coordinates>
        139.77,35.68 135.76,34.99
      </coordinates></LineString>
    </Placemark>
    <Placemark>
      <Polygon><outerBoundaryIs><LinearRing>
        <coordinates>127,30 146,30 146,46 127,30</coordinates>
      </LinearRing></outerBoundaryIs></Polygon>
    </Placemark>
  </Document>
</kml>`)
	d, err := ParseKML(raw)
	require.NoError(t, err)

	require.Len(t, d.Points, 1)
	assert.Equal(t, geo.LatLng{Lat: 35.68, Lng: 139.77}, d.Points[0], "altitude is dropped")
	require.Len(t, d.Lines, 2)
	assert.Len(t, d.Lines[1], 4)
}

func TestParseCSV(t *testing.T) {
	t.Parallel()

	d, err := ParseCSV([]byte("name,Latitude,Longitude\nNRT,35.77,140.39\nORD,41.97,-87.91\nbad,x,y\n"))
	require.NoError(t, err)
	require.Len(t, d.Points, 2, "unparsable rows are skipped")
	assert.Equal(t, geo.LatLng{Lat: 41.97, Lng: -87.91}, d.Points[1])

	_, err = ParseCSV([]byte("a,b\n1,2\n"))
	assert.Error(t, err, "no coordinate columns")
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "coast.wkt")
	require.NoError(t, os.WriteFile(path, []byte("LINESTRING(0 0, 10 10)"), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.False(t, d.Empty())

	b := d.Bounds()
	assert.Equal(t, 10.0, b.MaxLat)
	assert.Equal(t, 0.0, b.MinLng)

	_, err = Load(filepath.Join(dir, "missing.wkt"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "coast.shp")
	require.NoError(t, os.WriteFile(bad, []byte("x"), 0o644))
	_, err = Load(bad)
	assert.ErrorIs(t, err, ErrUnsupported)

	empty := filepath.Join(dir, "empty.wkt")
	require.NoError(t, os.WriteFile(empty, []byte(""), 0o644))
	_, err = Load(empty)
	assert.Error(t, err, "a file with no geometry is rejected")
}
