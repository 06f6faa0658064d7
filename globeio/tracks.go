package globeio

import (
	"encoding/json"
	"fmt"
	"time"

	"globe-tools/tracktools"
)

// IndividualRecord is the complete-dataset form of one individual. Tracks
// keep the raw lon, lat, magnitude, unix-timestamp quadruples so the viewer
// can animate within a period.
type IndividualRecord struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Color       [3]uint8     `json:"color"`
	Tracks      [][4]float64 `json:"tracks"`
	TotalPoints int          `json:"total_points"`
	DateRange   [2]string    `json:"date_range"`
}

// CompleteDataset is the single-file form of the whole track set.
type CompleteDataset struct {
	Individuals      []IndividualRecord `json:"individuals"`
	TimeRange        TimeRange          `json:"time_range"`
	TotalIndividuals int                `json:"total_individuals"`
	TotalPoints      int                `json:"total_points"`
}

// WriteCompleteDataset writes every individual's full track to one compact
// JSON file.
func WriteCompleteDataset(path string, individuals []tracktools.Individual, start, end time.Time) error {
	ds := CompleteDataset{
		TimeRange:        TimeRange{Start: start.Format(time.RFC3339), End: end.Format(time.RFC3339)},
		TotalIndividuals: len(individuals),
	}
	for _, in := range individuals {
		rec := IndividualRecord{
			ID:          in.ID,
			Name:        in.Name,
			Color:       in.Color,
			Tracks:      make([][4]float64, 0, len(in.Track)),
			TotalPoints: len(in.Track),
			DateRange: [2]string{
				in.StartTime().Format(time.RFC3339),
				in.EndTime().Format(time.RFC3339),
			},
		}
		for _, s := range in.Track {
			rec.Tracks = append(rec.Tracks, [4]float64{s.Lon, s.Lat, s.Magnitude, float64(s.Time.Unix())})
		}
		ds.Individuals = append(ds.Individuals, rec)
		ds.TotalPoints += len(in.Track)
	}

	data, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("marshal complete dataset: %w", err)
	}
	return writeFile(path, data)
}

// WriteBucketGlobe writes one temporal bucket as a globe artifact with an
// entry per contributing individual.
func WriteBucketGlobe(path string, bucket tracktools.TemporalBucket) error {
	entries := make([]Entry, 0, len(bucket.Individuals))
	for _, bt := range bucket.Individuals {
		entries = append(entries, Entry{
			Label: fmt.Sprintf("%s - %s", bt.Name, bucket.DisplayName),
			Flat:  FlattenTrack(bt.Track),
		})
	}
	return WriteGlobe(path, entries)
}
