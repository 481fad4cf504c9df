package overlay

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tripmap/internal/geo"
)

// ParseCSV reads waypoint rows from a CSV with latitude and longitude
// columns. Column names are matched case-insensitively: lat, latitude
// or y, and lng, lon, long, longitude or x. Rows with unparsable
// numbers are skipped.
func ParseCSV(raw []byte) (*Data, error) {
	r := csv.NewReader(bytes.NewReader(raw))
	r.TrimLeadingSpace = true
	recs, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}
	if len(recs) < 2 {
		return nil, errors.New("csv has no data rows")
	}

	latIdx, lngIdx := -1, -1
	for i, col := range recs[0] {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "lat", "latitude", "y":
			latIdx = i
		case "lng", "lon", "long", "longitude", "x":
			lngIdx = i
		}
	}
	if latIdx < 0 || lngIdx < 0 {
		return nil, errors.New("csv has no latitude/longitude columns")
	}

	d := &Data{}
	for _, rec := range recs[1:] {
		if latIdx >= len(rec) || lngIdx >= len(rec) {
			continue
		}
		lat, err1 := strconv.ParseFloat(strings.TrimSpace(rec[latIdx]), 64)
		lng, err2 := strconv.ParseFloat(strings.TrimSpace(rec[lngIdx]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		d.Points = append(d.Points, geo.LatLng{Lat: lat, Lng: lng})
	}
	return d, nil
}
