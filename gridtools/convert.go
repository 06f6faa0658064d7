package gridtools

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrEmptyDataset signals that no valid points remained after filtering.
// Callers processing multiple files should log it and move on to the next.
var ErrEmptyDataset = errors.New("no valid points after filtering")

// Point is one output sample: a coordinate pair and its normalized value.
type Point struct {
	Lat   float64
	Lon   float64
	Value float64
}

// Options controls the grid to point-list conversion.
type Options struct {
	// SubsampleFactor keeps every k-th row and column. Values below 2
	// keep the full grid.
	SubsampleFactor int
	// MaxPoints caps the emitted point count. When the valid point count
	// exceeds it, an unbiased random sample of exactly MaxPoints is drawn
	// without replacement. Zero or negative means no cap.
	MaxPoints int
	// Rand is the random source used for point sampling. Inject a seeded
	// source for reproducible output; nil falls back to a time-seeded one.
	Rand *rand.Rand
}

// Stats summarizes a conversion for logging and index metadata.
type Stats struct {
	ValidPoints   int
	EmittedPoints int
	RawMin        float64
	RawMax        float64
	P5            float64
	P95           float64
	NormMin       float64
	NormMax       float64
}

// Convert flattens a scalar grid into a normalized point list.
//
// The grid is stride-subsampled, expanded into every (lat, lon) pair, and
// filtered of invalid cells, preserving row-major order. Remaining values are
// mapped linearly onto [0,1] between their 5th and 95th percentiles, clamping
// outside that range. If the valid point count exceeds opts.MaxPoints, a
// random sample of exactly MaxPoints is kept, in ascending grid order.
func Convert(grid *ScalarGrid, opts Options) ([]Point, Stats, error) {
	sub := grid.Subsample(opts.SubsampleFactor)
	logrus.Debugf("subsampled grid from %dx%d to %dx%d",
		len(grid.Lats), len(grid.Lons), len(sub.Lats), len(sub.Lons))

	points := flatten(sub)
	if len(points) == 0 {
		return nil, Stats{}, fmt.Errorf("grid of %dx%d cells: %w",
			len(grid.Lats), len(grid.Lons), ErrEmptyDataset)
	}
	stats := Stats{ValidPoints: len(points)}

	if opts.MaxPoints > 0 && len(points) > opts.MaxPoints {
		points = samplePoints(points, opts.MaxPoints, opts.Rand)
		logrus.Infof("sampled down to %d points", len(points))
	}
	stats.EmittedPoints = len(points)

	raw := make([]float64, len(points))
	for i, p := range points {
		raw[i] = p.Value
	}
	stats.RawMin = floats.Min(raw)
	stats.RawMax = floats.Max(raw)

	stats.P5, stats.P95 = percentileBounds(raw)
	for i := range points {
		points[i].Value = normalize(points[i].Value, stats.P5, stats.P95)
	}

	norm := make([]float64, len(points))
	for i, p := range points {
		norm[i] = p.Value
	}
	stats.NormMin = floats.Min(norm)
	stats.NormMax = floats.Max(norm)

	return points, stats, nil
}

// flatten expands the grid into (lat, lon, value) triples in row-major
// order, dropping invalid cells.
func flatten(g *ScalarGrid) []Point {
	points := make([]Point, 0, len(g.Values))
	for i, lat := range g.Lats {
		for j, lon := range g.Lons {
			if !g.Valid(i, j) {
				continue
			}
			points = append(points, Point{Lat: lat, Lon: lon, Value: g.At(i, j)})
		}
	}
	return points
}

// percentileBounds returns the 5th and 95th percentiles of values,
// linearly interpolated.
func percentileBounds(values []float64) (p5, p95 float64) {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	p5 = stat.Quantile(0.05, stat.LinInterp, sorted, nil)
	p95 = stat.Quantile(0.95, stat.LinInterp, sorted, nil)
	return p5, p95
}

// normalize maps v linearly onto [0,1] between lo and hi, clamping outside
// the range. A collapsed range maps every value to 0.5 rather than dividing
// by zero.
func normalize(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0.5
	}
	n := (v - lo) / (hi - lo)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// samplePoints draws n points without replacement. The selected indices are
// emitted in ascending order so output ordering stays deterministic for a
// seeded source.
func samplePoints(points []Point, n int, rng *rand.Rand) []Point {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	idx := rng.Perm(len(points))[:n]
	sort.Ints(idx)

	out := make([]Point, n)
	for i, j := range idx {
		out[i] = points[j]
	}
	return out
}
