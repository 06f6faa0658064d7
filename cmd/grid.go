// Package cmd /*
package cmd

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"globe-tools/globeio"
	"globe-tools/gridio"
	"globe-tools/gridtools"
)

var gridSubsample int
var gridMaxPoints int
var gridSeed int64
var gridValueVar string
var gridLatVar string
var gridLonVar string
var gridLabel string
var gridPointsFormat string

// gridCmd represents the grid command
var gridCmd = &cobra.Command{
	Use:   "grid [opts] [dataset] [output.json]",
	Short: "Convert a gridded scalar dataset to a globe JSON artifact",
	Long: `Convert a gridded scalar dataset (NetCDF, or any georeferenced
	raster GDAL can open) to a flat globe JSON point artifact.

	The grid is stride-subsampled, masked cells are dropped, values are
	normalized between their 5th and 95th percentiles, and the point count
	is capped by random sampling.

	Options:
		--subsample:     Keep every k-th row and column of the grid.
		--max-points:    Point budget; excess points are randomly sampled away.
		--seed:          Seed for the sampling random source. 0 seeds from the clock.
		--points-format: Also export the point set as csv or parquet next to the JSON.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		setLogLevels()
		return runGrid(args[0], args[1])
	},
}

func runGrid(input, output string) error {
	grid, err := readGrid(input)
	if err != nil {
		return err
	}

	points, stats, err := gridtools.Convert(grid, gridtools.Options{
		SubsampleFactor: gridSubsample,
		MaxPoints:       gridMaxPoints,
		Rand:            newRand(gridSeed),
	})
	if err != nil {
		return err
	}

	logrus.Infof("valid ocean points: %d, emitted: %d", stats.ValidPoints, stats.EmittedPoints)
	logrus.Infof("original data range: %.4f - %.4f", stats.RawMin, stats.RawMax)
	logrus.Infof("normalization range: %.4f - %.4f", stats.P5, stats.P95)
	logrus.Infof("normalized range: %.3f - %.3f", stats.NormMin, stats.NormMax)

	entry := globeio.Entry{Label: gridLabel, Flat: globeio.FlattenPoints(points)}
	if err := globeio.WriteGlobe(output, []globeio.Entry{entry}); err != nil {
		return err
	}
	logrus.Infof("saved %s", output)

	return writePointsSidecar(points, output)
}

func readGrid(input string) (*gridtools.ScalarGrid, error) {
	if strings.EqualFold(filepath.Ext(input), ".nc") {
		return gridio.ReadNetCDF(input, gridio.NetCDFOptions{
			LatVar:   gridLatVar,
			LonVar:   gridLonVar,
			ValueVar: gridValueVar,
		})
	}
	return gridio.ReadRaster(input)
}

func writePointsSidecar(points []gridtools.Point, output string) error {
	base := strings.TrimSuffix(output, filepath.Ext(output))
	switch gridPointsFormat {
	case "none", "":
		return nil
	case "csv":
		return globeio.WritePointsCSV(points, base+".csv")
	case "parquet":
		return globeio.WritePointsParquet(points, base+".parquet")
	default:
		return fmt.Errorf("unknown points format %q, choose from: none, csv, parquet", gridPointsFormat)
	}
}

// newRand builds the injectable random source shared by the converters.
// A zero seed falls back to the clock, making output non-reproducible.
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func init() {
	rootCmd.AddCommand(gridCmd)

	gridCmd.Flags().IntVarP(&gridSubsample, "subsample", "s", 4, "Keep every k-th row and column of the grid")
	gridCmd.Flags().IntVarP(&gridMaxPoints, "max-points", "m", 50000, "Point budget for web performance")
	gridCmd.Flags().Int64Var(&gridSeed, "seed", 0, "Random seed for point sampling, 0 seeds from the clock")
	gridCmd.Flags().StringVar(&gridValueVar, "var", "chlor_a", "Scalar variable name in NetCDF inputs")
	gridCmd.Flags().StringVar(&gridLatVar, "lat-var", "lat", "Latitude axis variable name in NetCDF inputs")
	gridCmd.Flags().StringVar(&gridLonVar, "lon-var", "lon", "Longitude axis variable name in NetCDF inputs")
	gridCmd.Flags().StringVar(&gridLabel, "label", "Chlorophyll_MODIS", "Label of the emitted globe entry")
	gridCmd.Flags().StringVar(&gridPointsFormat, "points-format", "none", "Sidecar point export: none, csv or parquet")
}
