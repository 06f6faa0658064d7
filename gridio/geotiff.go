package gridio

import (
	"fmt"
	"math"

	"github.com/airbusgeo/godal"
	"github.com/sirupsen/logrus"

	"globe-tools/gridtools"
)

// ReadRaster loads the first band of a georeferenced raster through GDAL,
// synthesizing latitude and longitude axes at pixel centers from the
// geotransform. NoData cells become NaN. The raster must be in a geographic
// coordinate system for the axes to be meaningful.
func ReadRaster(path string) (*gridtools.ScalarGrid, error) {
	godal.RegisterAll()

	ds, err := godal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := ds.Close(); cerr != nil {
			logrus.Error(cerr)
		}
	}()

	gt, err := ds.GeoTransform()
	if err != nil {
		return nil, fmt.Errorf("geotransform of %s: %w", path, err)
	}
	originLat, originLon := gt[3], gt[0]
	xRes, yRes := gt[1], gt[5]

	bands := ds.Bands()
	if len(bands) == 0 {
		return nil, fmt.Errorf("%s has no raster bands", path)
	}
	band := bands[0]
	struc := band.Structure()

	lats := make([]float64, struc.SizeY)
	for i := range lats {
		lats[i] = originLat + (float64(i)+0.5)*yRes
	}
	lons := make([]float64, struc.SizeX)
	for j := range lons {
		lons[j] = originLon + (float64(j)+0.5)*xRes
	}

	values := make([]float64, struc.SizeX*struc.SizeY)
	if err := band.Read(0, 0, values, struc.SizeX, struc.SizeY); err != nil {
		return nil, fmt.Errorf("read band of %s: %w", path, err)
	}

	noData, ok := band.NoData()
	if !ok {
		logrus.Warnf("%s: NoData not set, treating all cells as valid", path)
	} else {
		for i, v := range values {
			if v == noData {
				values[i] = math.NaN()
			}
		}
	}

	logrus.Infof("loaded %s: %dx%d raster grid", path, struc.SizeY, struc.SizeX)
	return &gridtools.ScalarGrid{Lats: lats, Lons: lons, Values: values}, nil
}
