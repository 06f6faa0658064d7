// Package globeio serializes point sets into the flat JSON array format
// consumed by the WebGL globe viewer, plus index files for its navigation
// timeline and optional CSV/parquet exports of the raw point sets.
package globeio

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"globe-tools/gridtools"
	"globe-tools/tracktools"
)

// Entry is one (label, flat-numeric-array) pair of a globe artifact. The
// flat array is lat0, lon0, mag0, lat1, lon1, mag1, ...
type Entry struct {
	Label string
	Flat  []float64
}

// MarshalJSON emits the viewer's wire form: ["label",[numbers...]].
func (e Entry) MarshalJSON() ([]byte, error) {
	flat := e.Flat
	if flat == nil {
		flat = []float64{}
	}
	return json.Marshal([]any{e.Label, flat})
}

// WriteGlobe writes a globe artifact as compact JSON.
func WriteGlobe(path string, entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal globe artifact: %w", err)
	}
	return writeFile(path, data)
}

// FlattenPoints lays grid points out in the viewer's lat, lon, magnitude order.
func FlattenPoints(points []gridtools.Point) []float64 {
	flat := make([]float64, 0, 3*len(points))
	for _, p := range points {
		flat = append(flat, p.Lat, p.Lon, p.Value)
	}
	return flat
}

// FlattenTrack lays track samples out in lat, lon, magnitude order. Note the
// axis swap: tracks store longitude first.
func FlattenTrack(track []tracktools.Sample) []float64 {
	flat := make([]float64, 0, 3*len(track))
	for _, s := range track {
		flat = append(flat, s.Lat, s.Lon, s.Magnitude)
	}
	return flat
}

func writeFile(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Error(err)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", path, err)
	}
	return nil
}
