package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"globe-tools/globeio"
	"globe-tools/gridio"
	"globe-tools/gridtools"
)

var seasonalSubsample int
var seasonalMaxPoints int
var seasonalSeed int64
var seasonalValueVar string
var seasonalLatVar string
var seasonalLonVar string
var seasonalStrict bool

// yearRe extracts the year from yearly-composite filenames such as
// AQUA_MODIS.20030101_20031231.L3m.YR.CHL.chlor_a.9km.nc.
var yearRe = regexp.MustCompile(`(\d{4})0101_\d{8}`)

// seasonalCmd represents the seasonal command
var seasonalCmd = &cobra.Command{
	Use:   "seasonal [opts] [input_dir] [output_dir]",
	Short: "Convert yearly gridded datasets to a seasonal globe time series",
	Long: `Convert a directory of yearly NetCDF composites into four synthetic
	seasonal globe JSON artifacts per year, plus a time_series_index.json
	for the viewer's navigation timeline.

	Seasons are simulated from latitude patterns since only yearly averages
	exist; this is an approximation, not a physical derivation.

	A failure on one input file is logged and does not stop the batch. The
	command exits 0 even with partial failures unless --strict is set.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		setLogLevels()
		return runSeasonal(args[0], args[1])
	},
}

func runSeasonal(inputDir, outputDir string) error {
	files, err := filepath.Glob(filepath.Join(inputDir, "*.nc"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .nc files found in %s", inputDir)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	sort.Strings(files)

	var periods []globeio.SeasonalPeriod
	var years []int
	failures := 0
	for _, file := range files {
		m := yearRe.FindStringSubmatch(filepath.Base(file))
		if m == nil {
			logrus.Warnf("cannot extract year from %s, skipping", filepath.Base(file))
			continue
		}
		year, _ := strconv.Atoi(m[1])

		filePeriods, err := convertYear(file, outputDir, year)
		if err != nil {
			logrus.Errorf("processing %s: %v", filepath.Base(file), err)
			failures++
			continue
		}
		periods = append(periods, filePeriods...)
		years = append(years, year)
	}

	if len(years) == 0 {
		return fmt.Errorf("no yearly datasets converted from %s", inputDir)
	}

	sort.Ints(years)
	idx := globeio.SeasonalIndex{
		TotalPeriods: len(periods),
		YearRange:    [2]int{years[0], years[len(years)-1]},
		Seasons:      seasonNames(),
		TimeSeries:   periods,
	}
	indexPath := filepath.Join(outputDir, "time_series_index.json")
	if err := globeio.WriteSeasonalIndex(indexPath, idx); err != nil {
		logrus.Errorf("writing index: %v", err)
		failures++
	}

	logrus.Infof("years processed: %d (%d-%d), seasonal files: %d, failures: %d",
		len(years), years[0], years[len(years)-1], len(periods), failures)
	if seasonalStrict && failures > 0 {
		return fmt.Errorf("%d of %d input files failed", failures, len(files))
	}
	return nil
}

// convertYear turns one yearly composite into four seasonal artifacts and
// returns their index descriptors in season order.
func convertYear(file, outputDir string, year int) ([]globeio.SeasonalPeriod, error) {
	grid, err := gridio.ReadNetCDF(file, gridio.NetCDFOptions{
		LatVar:   seasonalLatVar,
		LonVar:   seasonalLonVar,
		ValueVar: seasonalValueVar,
	})
	if err != nil {
		return nil, err
	}

	// Offsetting the seed by the year keeps output reproducible per file
	// no matter which subset of years is being processed.
	rng := newRand(0)
	if seasonalSeed != 0 {
		rng = newRand(seasonalSeed + int64(year))
	}

	points, stats, err := gridtools.Convert(grid, gridtools.Options{
		SubsampleFactor: seasonalSubsample,
		MaxPoints:       seasonalMaxPoints,
		Rand:            rng,
	})
	if err != nil {
		return nil, err
	}
	logrus.Infof("year %d: %d valid points, emitting %d", year, stats.ValidPoints, stats.EmittedPoints)

	seasons := gridtools.Synthesize(points, year, rng)

	var periods []globeio.SeasonalPeriod
	for _, profile := range gridtools.SeasonProfiles {
		artifact := seasons[profile.Name]
		filename := fmt.Sprintf("chlorophyll_%d_%s.json", year, strings.ToLower(profile.Name))

		entry := globeio.Entry{
			Label: fmt.Sprintf("%s_%d", profile.Name, year),
			Flat:  globeio.FlattenPoints(artifact.Points),
		}
		if err := globeio.WriteGlobe(filepath.Join(outputDir, filename), []globeio.Entry{entry}); err != nil {
			return nil, err
		}
		logrus.Infof("  saved %s %d: %d points (range %.3f - %.3f)",
			profile.Name, year, len(artifact.Points), artifact.Min, artifact.Max)

		periods = append(periods, globeio.SeasonalPeriod{
			Year:        year,
			Season:      strings.ToLower(profile.Name),
			Filename:    filename,
			DisplayName: fmt.Sprintf("%s %d", profile.Name, year),
			PointCount:  len(artifact.Points),
		})
	}
	return periods, nil
}

func seasonNames() []string {
	names := make([]string, 0, len(gridtools.SeasonProfiles))
	for _, p := range gridtools.SeasonProfiles {
		names = append(names, strings.ToLower(p.Name))
	}
	return names
}

func init() {
	rootCmd.AddCommand(seasonalCmd)

	seasonalCmd.Flags().IntVarP(&seasonalSubsample, "subsample", "s", 4, "Keep every k-th row and column of the grid")
	seasonalCmd.Flags().IntVarP(&seasonalMaxPoints, "max-points", "m", 30000, "Point budget per year")
	seasonalCmd.Flags().Int64Var(&seasonalSeed, "seed", 0, "Random seed for sampling and jitter, 0 seeds from the clock")
	seasonalCmd.Flags().StringVar(&seasonalValueVar, "var", "chlor_a", "Scalar variable name")
	seasonalCmd.Flags().StringVar(&seasonalLatVar, "lat-var", "lat", "Latitude axis variable name")
	seasonalCmd.Flags().StringVar(&seasonalLonVar, "lon-var", "lon", "Longitude axis variable name")
	seasonalCmd.Flags().BoolVar(&seasonalStrict, "strict", false, "Exit non-zero when any input file fails")
}
