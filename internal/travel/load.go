package travel

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// Decode reads one trip from JSON, rejects unrenderable data and
// normalizes ordering.
func Decode(r io.Reader) (*Trip, error) {
	var t Trip
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("travel: decode trip: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	t.Normalize()
	return &t, nil
}

// LoadFile reads a trip from a local route file, the offline path used
// by --route.
func LoadFile(path string) (*Trip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("travel: open route file: %w", err)
	}
	defer f.Close()

	t, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("travel: %s: %w", path, err)
	}
	return t, nil
}
