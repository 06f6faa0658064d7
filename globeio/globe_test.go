package globeio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"globe-tools/gridtools"
	"globe-tools/tracktools"
)

func TestEntryMarshalsToWireFormat(t *testing.T) {
	entry := Entry{Label: "Spring_2003", Flat: []float64{21.5, -89.5, 0.75}}
	data, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.JSONEq(t, `["Spring_2003",[21.5,-89.5,0.75]]`, string(data))
}

func TestEntryMarshalsEmptyFlat(t *testing.T) {
	data, err := json.Marshal(Entry{Label: "empty"})
	require.NoError(t, err)
	assert.Equal(t, `["empty",[]]`, string(data))
}

func TestWriteGlobeCompact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	entries := []Entry{
		{Label: "a", Flat: []float64{1, 2, 3}},
		{Label: "b", Flat: []float64{4, 5, 6}},
	}
	require.NoError(t, WriteGlobe(path, entries))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[["a",[1,2,3]],["b",[4,5,6]]]`, string(data))
}

func TestFlattenPoints(t *testing.T) {
	points := []gridtools.Point{
		{Lat: 10, Lon: 20, Value: 0.1},
		{Lat: 30, Lon: 40, Value: 0.9},
	}
	assert.Equal(t, []float64{10, 20, 0.1, 30, 40, 0.9}, FlattenPoints(points))
}

func TestFlattenTrackSwapsAxes(t *testing.T) {
	track := []tracktools.Sample{
		{Lon: -89.5, Lat: 21.4, Magnitude: 1.0},
	}
	assert.Equal(t, []float64{21.4, -89.5, 1.0}, FlattenTrack(track))
}

func TestWriteSeasonalIndexThreeYears(t *testing.T) {
	seasons := []string{"spring", "summer", "autumn", "winter"}
	var periods []SeasonalPeriod
	for year := 2003; year <= 2005; year++ {
		for _, season := range seasons {
			periods = append(periods, SeasonalPeriod{
				Year:        year,
				Season:      season,
				Filename:    fmt.Sprintf("chlorophyll_%d_%s.json", year, season),
				DisplayName: fmt.Sprintf("%s %d", season, year),
				PointCount:  100,
			})
		}
	}
	idx := SeasonalIndex{
		TotalPeriods: len(periods),
		YearRange:    [2]int{2003, 2005},
		Seasons:      seasons,
		TimeSeries:   periods,
	}

	path := filepath.Join(t.TempDir(), "time_series_index.json")
	require.NoError(t, WriteSeasonalIndex(path, idx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got SeasonalIndex
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, 12, got.TotalPeriods)
	require.Len(t, got.TimeSeries, 12)
	assert.Equal(t, "chlorophyll_2003_spring.json", got.TimeSeries[0].Filename)
	assert.Equal(t, "chlorophyll_2005_winter.json", got.TimeSeries[11].Filename)
	assert.Equal(t, [2]int{2003, 2005}, got.YearRange)
}

func TestWriteCompleteDataset(t *testing.T) {
	base := time.Date(2009, 5, 1, 0, 0, 0, 0, time.UTC)
	individuals := []tracktools.Individual{
		{
			ID:    "A1",
			Name:  "Whale Shark A1",
			Color: [3]uint8{234, 71, 71},
			Track: []tracktools.Sample{
				{Lon: -89.5, Lat: 21.4, Magnitude: 1.0, Time: base},
				{Lon: -89.4, Lat: 21.5, Magnitude: 1.0, Time: base.Add(24 * time.Hour)},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "tracks_complete.json")
	require.NoError(t, WriteCompleteDataset(path, individuals, base, base.Add(24*time.Hour)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got CompleteDataset
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, 1, got.TotalIndividuals)
	assert.Equal(t, 2, got.TotalPoints)
	require.Len(t, got.Individuals, 1)
	rec := got.Individuals[0]
	assert.Equal(t, "A1", rec.ID)
	assert.Equal(t, [3]uint8{234, 71, 71}, rec.Color)
	require.Len(t, rec.Tracks, 2)
	assert.Equal(t, [4]float64{-89.5, 21.4, 1.0, float64(base.Unix())}, rec.Tracks[0])
}

func TestWriteBucketGlobe(t *testing.T) {
	bucket := tracktools.TemporalBucket{
		Period:      "2009-05",
		DisplayName: "May 2009",
		Individuals: []tracktools.BucketTrack{
			{
				ID:   "A1",
				Name: "Whale Shark A1",
				Track: []tracktools.Sample{
					{Lon: -89.5, Lat: 21.4, Magnitude: 1.0},
				},
			},
		},
		TotalPoints: 1,
	}

	path := filepath.Join(t.TempDir(), "tracks_2009-05.json")
	require.NoError(t, WriteBucketGlobe(path, bucket))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[["Whale Shark A1 - May 2009",[21.4,-89.5,1]]]`, string(data))
}

func TestWritePointsCSV(t *testing.T) {
	points := []gridtools.Point{{Lat: 1, Lon: 2, Value: 0.5}}
	path := filepath.Join(t.TempDir(), "points.csv")
	require.NoError(t, WritePointsCSV(points, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "lat,lon,value\n1,2,0.5\n", string(data))
}
