package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"globe-tools/globeio"
	"globe-tools/tracktools"
)

var tracksNamePrefix string
var tracksStrict bool

// tracksCmd represents the tracks command
var tracksCmd = &cobra.Command{
	Use:   "tracks [opts] [input.csv] [output_dir]",
	Short: "Convert a GPS tracking log to temporal globe JSON datasets",
	Long: `Convert a Movebank-style GPS tracking CSV into globe JSON datasets:
	a complete per-individual track file, monthly and yearly partitions
	under monthly/ and yearly/, and a time_series_index.json.

	Each individual gets a deterministic display color from evenly spaced
	hues. Rows that are not visible GPS fixes with valid coordinates are
	dropped silently.

	Write failures on individual artifacts are logged and the remaining
	artifacts are still attempted; the command exits 0 unless --strict.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		setLogLevels()
		return runTracks(args[0], args[1])
	},
}

func runTracks(input, outputDir string) error {
	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open tracking log: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Error(err)
		}
	}()

	rows, err := tracktools.ReadLog(f)
	if err != nil {
		return err
	}
	individuals, err := tracktools.BuildIndividuals(rows, tracksNamePrefix)
	if err != nil {
		return err
	}
	buckets, err := tracktools.BucketTracks(individuals)
	if err != nil {
		return err
	}

	for _, dir := range []string{outputDir, filepath.Join(outputDir, "monthly"), filepath.Join(outputDir, "yearly")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	failures := 0
	completePath := filepath.Join(outputDir, "tracks_complete.json")
	if err := globeio.WriteCompleteDataset(completePath, individuals, buckets.Start, buckets.End); err != nil {
		logrus.Errorf("writing complete dataset: %v", err)
		failures++
	} else {
		logrus.Infof("saved complete dataset: %s", completePath)
	}

	idx := globeio.TracksIndex{
		TimeRange: globeio.TimeRange{
			Start: buckets.Start.Format("2006-01-02T15:04:05Z07:00"),
			End:   buckets.End.Format("2006-01-02T15:04:05Z07:00"),
		},
	}

	for _, bucket := range buckets.Monthly {
		// Index filenames keep forward slashes; the viewer joins them as URLs.
		filename := fmt.Sprintf("monthly/tracks_%s.json", bucket.Period)
		if err := globeio.WriteBucketGlobe(filepath.Join(outputDir, filepath.FromSlash(filename)), bucket); err != nil {
			logrus.Errorf("writing %s: %v", filename, err)
			failures++
			continue
		}
		idx.Monthly = append(idx.Monthly, globeio.TrackPeriod{
			Period:          bucket.Period,
			DisplayName:     bucket.DisplayName,
			Filename:        filename,
			TotalPoints:     bucket.TotalPoints,
			IndividualCount: len(bucket.Individuals),
		})
	}
	for _, bucket := range buckets.Yearly {
		filename := fmt.Sprintf("yearly/tracks_%s.json", bucket.Period)
		if err := globeio.WriteBucketGlobe(filepath.Join(outputDir, filepath.FromSlash(filename)), bucket); err != nil {
			logrus.Errorf("writing %s: %v", filename, err)
			failures++
			continue
		}
		idx.Yearly = append(idx.Yearly, globeio.TrackPeriod{
			Period:          bucket.Period,
			DisplayName:     bucket.DisplayName,
			Filename:        filename,
			TotalPoints:     bucket.TotalPoints,
			IndividualCount: len(bucket.Individuals),
		})
	}

	indexPath := filepath.Join(outputDir, "time_series_index.json")
	if err := globeio.WriteTracksIndex(indexPath, idx); err != nil {
		logrus.Errorf("writing index: %v", err)
		failures++
	}

	logrus.Infof("individuals: %d, points: %d, monthly datasets: %d, yearly datasets: %d, failures: %d",
		len(individuals), len(rows), len(buckets.Monthly), len(buckets.Yearly), failures)
	if tracksStrict && failures > 0 {
		return fmt.Errorf("%d artifacts failed to write", failures)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(tracksCmd)

	tracksCmd.Flags().StringVar(&tracksNamePrefix, "name-prefix", "Whale Shark", "Display name prefix for individuals")
	tracksCmd.Flags().BoolVar(&tracksStrict, "strict", false, "Exit non-zero when any artifact fails to write")
}
