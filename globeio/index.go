package globeio

import (
	"encoding/json"
	"fmt"
)

// SeasonalPeriod describes one emitted seasonal artifact.
type SeasonalPeriod struct {
	Year        int    `json:"year"`
	Season      string `json:"season"`
	Filename    string `json:"filename"`
	DisplayName string `json:"display_name"`
	PointCount  int    `json:"point_count"`
}

// SeasonalIndex enumerates a seasonal time series so the viewer can build
// its navigation timeline without opening every artifact.
type SeasonalIndex struct {
	TotalPeriods int              `json:"total_periods"`
	YearRange    [2]int           `json:"year_range"`
	Seasons      []string         `json:"seasons"`
	TimeSeries   []SeasonalPeriod `json:"time_series"`
}

// TimeRange bounds a dataset in ISO-8601 timestamps.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// TrackPeriod describes one emitted monthly or yearly track artifact.
type TrackPeriod struct {
	Period          string `json:"period"`
	DisplayName     string `json:"display_name"`
	Filename        string `json:"filename"`
	TotalPoints     int    `json:"total_points"`
	IndividualCount int    `json:"individual_count"`
}

// TracksIndex enumerates the monthly and yearly track partitions.
type TracksIndex struct {
	TimeRange TimeRange     `json:"time_range"`
	Monthly   []TrackPeriod `json:"monthly"`
	Yearly    []TrackPeriod `json:"yearly"`
}

// WriteSeasonalIndex writes the seasonal navigation index. Indexes are
// indented; they are small and read by humans as often as by the viewer.
func WriteSeasonalIndex(path string, idx SeasonalIndex) error {
	return writeIndented(path, idx)
}

// WriteTracksIndex writes the track navigation index.
func WriteTracksIndex(path string, idx TracksIndex) error {
	return writeIndented(path, idx)
}

func writeIndented(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	return writeFile(path, data)
}
