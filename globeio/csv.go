package globeio

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"globe-tools/gridtools"
)

// WritePointsCSV writes a point set as lat,lon,value rows for analysis
// outside the viewer.
func WritePointsCSV(points []gridtools.Point, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Error(err)
		}
	}()

	if _, err := f.WriteString("lat,lon,value\n"); err != nil {
		return err
	}

	for i, p := range points {
		if i%10000 == 0 {
			logrus.Debugf("writing point %d", i)
		}
		if _, err := f.WriteString(fmt.Sprintf("%v,%v,%v\n", p.Lat, p.Lon, p.Value)); err != nil {
			return err
		}
	}
	if err = f.Sync(); err != nil {
		return err
	}
	return nil
}
