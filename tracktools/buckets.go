package tracktools

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"globe-tools/gridtools"
)

// TemporalBucket is one calendar window of the combined track set. It holds,
// for each contributing individual, the subsequence of its track falling in
// [Start, End). Windows with no points are never emitted.
type TemporalBucket struct {
	Period      string
	DisplayName string
	Start       time.Time
	End         time.Time
	Individuals []BucketTrack
	TotalPoints int
}

// BucketTrack is an individual's contribution to one bucket.
type BucketTrack struct {
	ID    string
	Name  string
	Color [3]uint8
	Track []Sample
}

// Buckets partitions the full track set by calendar month and calendar year.
type Buckets struct {
	Monthly []TemporalBucket
	Yearly  []TemporalBucket
	Start   time.Time
	End     time.Time
}

// BucketTracks re-buckets the combined track set into monthly and yearly
// calendar windows spanning the earliest to latest timestamp. Every retained
// point lands in exactly one monthly and one yearly bucket.
func BucketTracks(individuals []Individual) (Buckets, error) {
	if len(individuals) == 0 {
		return Buckets{}, fmt.Errorf("no individuals to bucket: %w", gridtools.ErrEmptyDataset)
	}

	start, end := timeSpan(individuals)
	logrus.Infof("bucketing %d individuals from %s to %s",
		len(individuals), start.Format(time.DateOnly), end.Format(time.DateOnly))

	buckets := Buckets{Start: start, End: end}

	monthStart := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for cur := monthStart; !cur.After(end); cur = cur.AddDate(0, 1, 0) {
		next := cur.AddDate(0, 1, 0)
		if b, ok := collectWindow(individuals, cur, next, cur.Format("2006-01"), cur.Format("January 2006")); ok {
			buckets.Monthly = append(buckets.Monthly, b)
		}
	}

	yearStart := time.Date(start.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	for cur := yearStart; !cur.After(end); cur = cur.AddDate(1, 0, 0) {
		next := cur.AddDate(1, 0, 0)
		if b, ok := collectWindow(individuals, cur, next, cur.Format("2006"), cur.Format("2006")); ok {
			buckets.Yearly = append(buckets.Yearly, b)
		}
	}

	logrus.Infof("created %d monthly and %d yearly buckets", len(buckets.Monthly), len(buckets.Yearly))
	return buckets, nil
}

func timeSpan(individuals []Individual) (start, end time.Time) {
	start = individuals[0].StartTime()
	end = individuals[0].EndTime()
	for _, in := range individuals[1:] {
		if in.StartTime().Before(start) {
			start = in.StartTime()
		}
		if in.EndTime().After(end) {
			end = in.EndTime()
		}
	}
	return start, end
}

// collectWindow gathers each individual's in-range subsequence for the
// window [start, next). Reports false for windows with no points.
func collectWindow(individuals []Individual, start, next time.Time, period, displayName string) (TemporalBucket, bool) {
	bucket := TemporalBucket{
		Period:      period,
		DisplayName: displayName,
		Start:       start,
		End:         next,
	}
	for _, in := range individuals {
		var sub []Sample
		for _, s := range in.Track {
			if !s.Time.Before(start) && s.Time.Before(next) {
				sub = append(sub, s)
			}
		}
		if len(sub) == 0 {
			continue
		}
		bucket.Individuals = append(bucket.Individuals, BucketTrack{
			ID:    in.ID,
			Name:  in.Name,
			Color: in.Color,
			Track: sub,
		})
		bucket.TotalPoints += len(sub)
	}
	return bucket, bucket.TotalPoints > 0
}
