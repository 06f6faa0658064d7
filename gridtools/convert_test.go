package gridtools

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rampGrid builds an M x N grid with the given axes and values 0..M*N-1.
func rampGrid(lats, lons []float64) *ScalarGrid {
	values := make([]float64, len(lats)*len(lons))
	for i := range values {
		values[i] = float64(i)
	}
	return &ScalarGrid{Lats: lats, Lons: lons, Values: values}
}

func axis(start, step float64, n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = start + float64(i)*step
	}
	return xs
}

func TestConvertKeepsAllPointsUnderBudget(t *testing.T) {
	grid := rampGrid(axis(-40, 10, 5), axis(0, 10, 4))

	points, stats, err := Convert(grid, Options{SubsampleFactor: 1, MaxPoints: 1000})
	require.NoError(t, err)

	assert.Len(t, points, 20)
	assert.Equal(t, 20, stats.ValidPoints)
	assert.Equal(t, 20, stats.EmittedPoints)
}

func TestConvertCapsPointBudget(t *testing.T) {
	grid := rampGrid(axis(-80, 2, 80), axis(-170, 4, 80))
	rng := rand.New(rand.NewSource(42))

	points, stats, err := Convert(grid, Options{SubsampleFactor: 1, MaxPoints: 100, Rand: rng})
	require.NoError(t, err)

	assert.Len(t, points, 100)
	assert.Equal(t, 80*80, stats.ValidPoints)
	assert.Equal(t, 100, stats.EmittedPoints)
}

func TestConvertSamplingDeterministicWithSeed(t *testing.T) {
	grid := rampGrid(axis(-80, 2, 50), axis(-170, 4, 50))

	first, _, err := Convert(grid, Options{MaxPoints: 200, Rand: rand.New(rand.NewSource(7))})
	require.NoError(t, err)
	second, _, err := Convert(grid, Options{MaxPoints: 200, Rand: rand.New(rand.NewSource(7))})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestConvertNormalizationClampsAtPercentiles(t *testing.T) {
	grid := rampGrid(axis(-45, 1, 100), axis(0, 1, 1))

	points, stats, err := Convert(grid, Options{SubsampleFactor: 1})
	require.NoError(t, err)
	require.Len(t, points, 100)

	assert.Less(t, stats.P5, stats.P95)
	for i, p := range points {
		raw := float64(i) // row-major ramp keeps point order aligned with values
		assert.GreaterOrEqual(t, p.Value, 0.0)
		assert.LessOrEqual(t, p.Value, 1.0)
		if raw <= stats.P5 {
			assert.Equalf(t, 0.0, p.Value, "value %v at or below p5 %v", raw, stats.P5)
		}
		if raw >= stats.P95 {
			assert.Equalf(t, 1.0, p.Value, "value %v at or above p95 %v", raw, stats.P95)
		}
	}
	assert.Equal(t, 0.0, stats.NormMin)
	assert.Equal(t, 1.0, stats.NormMax)
}

func TestConvertDegenerateNormalization(t *testing.T) {
	grid := &ScalarGrid{
		Lats:   axis(0, 1, 3),
		Lons:   axis(0, 1, 3),
		Values: []float64{2, 2, 2, 2, 2, 2, 2, 2, 2},
	}

	points, _, err := Convert(grid, Options{})
	require.NoError(t, err)
	for _, p := range points {
		assert.Equal(t, 0.5, p.Value)
	}
}

func TestConvertEmptyGrid(t *testing.T) {
	grid := &ScalarGrid{
		Lats:   axis(0, 1, 2),
		Lons:   axis(0, 1, 2),
		Values: []float64{math.NaN(), math.NaN(), math.NaN(), math.NaN()},
	}

	_, _, err := Convert(grid, Options{})
	assert.True(t, errors.Is(err, ErrEmptyDataset))
}

func TestConvertPreservesRowMajorOrder(t *testing.T) {
	grid := &ScalarGrid{
		Lats:   []float64{10, 20},
		Lons:   []float64{100, 110},
		Values: []float64{1, math.NaN(), 3, 4},
	}

	points, _, err := Convert(grid, Options{})
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, [2]float64{10, 100}, [2]float64{points[0].Lat, points[0].Lon})
	assert.Equal(t, [2]float64{20, 100}, [2]float64{points[1].Lat, points[1].Lon})
	assert.Equal(t, [2]float64{20, 110}, [2]float64{points[2].Lat, points[2].Lon})
}

// End-to-end scenario from the viewer conversion contract: a 10x10 grid with
// 30% invalid cells and a generous budget emits exactly the 70 valid points.
func TestConvertEndToEnd(t *testing.T) {
	lats := axis(-90, 20, 10)
	lons := axis(-180, 40, 10)
	values := make([]float64, 100)
	for i := range values {
		if i%10 < 3 { // 30 of 100 cells invalid
			values[i] = math.NaN()
			continue
		}
		values[i] = float64(i)
	}
	grid := &ScalarGrid{Lats: lats, Lons: lons, Values: values}

	points, stats, err := Convert(grid, Options{SubsampleFactor: 1, MaxPoints: 1000})
	require.NoError(t, err)

	assert.Len(t, points, 70)
	assert.Equal(t, 70, stats.ValidPoints)
	for _, p := range points {
		assert.GreaterOrEqual(t, p.Value, 0.0)
		assert.LessOrEqual(t, p.Value, 1.0)
	}
}
