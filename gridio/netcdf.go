// Package gridio loads gridded scalar datasets into a gridtools.ScalarGrid.
// Two sources are supported: NetCDF files with named coordinate axes, and
// georeferenced rasters read through GDAL.
package gridio

import (
	"fmt"
	"math"

	"github.com/fhs/go-netcdf/netcdf"
	"github.com/sirupsen/logrus"

	"globe-tools/gridtools"
)

// NetCDFOptions names the variables to read from a NetCDF dataset.
type NetCDFOptions struct {
	LatVar   string
	LonVar   string
	ValueVar string
}

// ReadNetCDF loads a 2D scalar variable and its coordinate axes from a
// NetCDF file. Cells equal to the variable's fill or missing value become
// NaN. A leading time dimension of length 1 is squeezed away.
func ReadNetCDF(path string, opts NetCDFOptions) (*gridtools.ScalarGrid, error) {
	ds, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer ds.Close()

	lats, err := readAxis(ds, opts.LatVar)
	if err != nil {
		return nil, err
	}
	lons, err := readAxis(ds, opts.LonVar)
	if err != nil {
		return nil, err
	}

	v, err := ds.Var(opts.ValueVar)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", opts.ValueVar, err)
	}
	dims, err := v.LenDims()
	if err != nil {
		return nil, fmt.Errorf("variable %q dimensions: %w", opts.ValueVar, err)
	}
	if len(dims) == 3 && dims[0] == 1 {
		dims = dims[1:]
	}
	if len(dims) != 2 || dims[0] != uint64(len(lats)) || dims[1] != uint64(len(lons)) {
		return nil, fmt.Errorf("variable %q has shape %v, want [%d %d]",
			opts.ValueVar, dims, len(lats), len(lons))
	}

	values, err := netcdf.GetFloat64s(v)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", opts.ValueVar, err)
	}
	maskFill(values, v)

	logrus.Infof("loaded %s: %dx%d grid, lat %.2f..%.2f, lon %.2f..%.2f",
		path, len(lats), len(lons), lats[0], lats[len(lats)-1], lons[0], lons[len(lons)-1])
	return &gridtools.ScalarGrid{Lats: lats, Lons: lons, Values: values}, nil
}

func readAxis(ds netcdf.Dataset, name string) ([]float64, error) {
	v, err := ds.Var(name)
	if err != nil {
		return nil, fmt.Errorf("axis variable %q: %w", name, err)
	}
	vals, err := netcdf.GetFloat64s(v)
	if err != nil {
		return nil, fmt.Errorf("read axis %q: %w", name, err)
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("axis %q is empty", name)
	}
	return vals, nil
}

// maskFill replaces fill-value cells with NaN. Both the CF _FillValue and
// the older missing_value convention are honored.
func maskFill(values []float64, v netcdf.Var) {
	for _, attr := range []string{"_FillValue", "missing_value"} {
		fv, err := netcdf.GetFloat64s(v.Attr(attr))
		if err != nil || len(fv) == 0 {
			continue
		}
		for i, val := range values {
			if val == fv[0] {
				values[i] = math.NaN()
			}
		}
	}
}
