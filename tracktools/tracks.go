package tracktools

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang/geo/s2"
	"github.com/sirupsen/logrus"

	"globe-tools/gridtools"
)

// Movebank GPS exports carry these columns; others are ignored.
const (
	colIdentifier = "individual-local-identifier"
	colTimestamp  = "timestamp"
	colLongitude  = "location-long"
	colLatitude   = "location-lat"
	colVisible    = "visible"
	colSensorType = "sensor-type"
)

const gpsSensorTag = "gps"

var timestampLayouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Sample is one position fix. Magnitude is a constant placeholder for GPS
// fixes; the viewer uses it as point intensity.
type Sample struct {
	Lon       float64
	Lat       float64
	Magnitude float64
	Time      time.Time
}

// Individual is one tracked animal: identifier, display name, an assigned
// display color and its track, ordered by ascending timestamp.
type Individual struct {
	ID    string
	Name  string
	Color [3]uint8
	Track []Sample
}

// StartTime and EndTime report the track's time span. The track is sorted,
// so these are the first and last samples.
func (in *Individual) StartTime() time.Time { return in.Track[0].Time }
func (in *Individual) EndTime() time.Time   { return in.Track[len(in.Track)-1].Time }

// LogRow is one retained row of the tracking log.
type LogRow struct {
	ID   string
	Time time.Time
	Lon  float64
	Lat  float64
}

// ReadLog parses a Movebank-style tracking CSV. Only rows that are visible,
// tagged as GPS fixes, and carry a valid coordinate pair are kept; all other
// rows are dropped silently. Returns an error only for unreadable input or a
// header missing required columns.
func ReadLog(r io.Reader) ([]LogRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read tracking log header: %w", err)
	}
	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []LogRow
	dropped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logrus.Warnf("skipping unreadable row: %v", err)
			dropped++
			continue
		}
		row, ok := parseRow(record, cols)
		if !ok {
			dropped++
			continue
		}
		rows = append(rows, row)
	}

	logrus.Infof("loaded %d GPS tracking points (%d rows dropped)", len(rows), dropped)
	return rows, nil
}

func indexColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colIdentifier, colTimestamp, colLongitude, colLatitude, colVisible, colSensorType} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("tracking log missing column %q", required)
		}
	}
	return cols, nil
}

func parseRow(record []string, cols map[string]int) (LogRow, bool) {
	field := func(name string) string {
		i := cols[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	if !strings.EqualFold(field(colVisible), "true") {
		return LogRow{}, false
	}
	if !strings.EqualFold(field(colSensorType), gpsSensorTag) {
		return LogRow{}, false
	}

	lon, err := strconv.ParseFloat(field(colLongitude), 64)
	if err != nil {
		return LogRow{}, false
	}
	lat, err := strconv.ParseFloat(field(colLatitude), 64)
	if err != nil {
		return LogRow{}, false
	}
	if !s2.LatLngFromDegrees(lat, lon).IsValid() {
		return LogRow{}, false
	}

	ts, ok := parseTimestamp(field(colTimestamp))
	if !ok {
		return LogRow{}, false
	}

	id := field(colIdentifier)
	if id == "" {
		return LogRow{}, false
	}
	return LogRow{ID: id, Time: ts, Lon: lon, Lat: lat}, true
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

// BuildIndividuals groups retained rows by identifier, sorts each track by
// ascending timestamp (stable, preserving input order for ties), and assigns
// each individual a deterministic display color. Identifiers are ordered
// lexicographically so colors are stable across runs for identical input.
func BuildIndividuals(rows []LogRow, namePrefix string) ([]Individual, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("tracking log: %w", gridtools.ErrEmptyDataset)
	}

	byID := make(map[string][]Sample)
	for _, row := range rows {
		byID[row.ID] = append(byID[row.ID], Sample{
			Lon:       row.Lon,
			Lat:       row.Lat,
			Magnitude: 1.0,
			Time:      row.Time,
		})
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	individuals := make([]Individual, 0, len(ids))
	for i, id := range ids {
		track := byID[id]
		sort.SliceStable(track, func(a, b int) bool {
			return track[a].Time.Before(track[b].Time)
		})
		individuals = append(individuals, Individual{
			ID:    id,
			Name:  strings.TrimSpace(namePrefix + " " + id),
			Color: trackColor(i, len(ids)),
			Track: track,
		})
		logrus.Debugf("%s: %d points from %s to %s",
			id, len(track), track[0].Time.Format(time.DateOnly), track[len(track)-1].Time.Format(time.DateOnly))
	}
	return individuals, nil
}
