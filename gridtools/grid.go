package gridtools

import "math"

// ScalarGrid is a rectangular field of scalar measurements with parallel
// latitude and longitude axes. Values is row-major with latitude as the
// outer dimension, so Values[i*len(Lons)+j] belongs to (Lats[i], Lons[j]).
// Invalid or masked cells hold NaN.
type ScalarGrid struct {
	Lats   []float64
	Lons   []float64
	Values []float64
}

// At returns the value at row i (latitude index) and column j (longitude index).
func (g *ScalarGrid) At(i, j int) float64 {
	return g.Values[i*len(g.Lons)+j]
}

// Valid reports whether the cell at (i, j) holds a real measurement.
func (g *ScalarGrid) Valid(i, j int) bool {
	return !math.IsNaN(g.At(i, j))
}

// Subsample retains every k-th row and column, producing a coarser grid.
// The selection is a pure stride, so the same grid and factor always yield
// the identical subset. Factors below 2 return a copy of the full grid.
func (g *ScalarGrid) Subsample(k int) *ScalarGrid {
	if k < 1 {
		k = 1
	}
	lats := stride(g.Lats, k)
	lons := stride(g.Lons, k)

	values := make([]float64, 0, len(lats)*len(lons))
	for i := 0; i < len(g.Lats); i += k {
		for j := 0; j < len(g.Lons); j += k {
			values = append(values, g.At(i, j))
		}
	}
	return &ScalarGrid{Lats: lats, Lons: lons, Values: values}
}

func stride(xs []float64, k int) []float64 {
	out := make([]float64, 0, (len(xs)+k-1)/k)
	for i := 0; i < len(xs); i += k {
		out = append(out, xs[i])
	}
	return out
}
