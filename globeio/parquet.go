package globeio

import (
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/sirupsen/logrus"

	"globe-tools/gridtools"
)

const parquetRowGroupSize = 10000

// PointRow is the parquet schema for exported points.
type PointRow struct {
	Lat   float64 `parquet:"lat, type=DOUBLE"`
	Lon   float64 `parquet:"lon, type=DOUBLE"`
	Value float64 `parquet:"value, type=DOUBLE"`
}

// WritePointsParquet writes a point set as a snappy-compressed parquet file
// for analysis outside the viewer. Rows are flushed in fixed-size groups to
// bound memory on large point sets.
func WritePointsParquet(points []gridtools.Point, path string) error {
	output, err := os.Create(path)
	if err != nil {
		return err
	}

	schema := parquet.SchemaOf(new(PointRow))
	writer := parquet.NewGenericWriter[PointRow](output, schema, parquet.Compression(&parquet.Snappy))
	defer func() {
		if err := writer.Close(); err != nil {
			logrus.Error(err)
		}
		if err := output.Close(); err != nil {
			logrus.Error(err)
		}
	}()

	buf := make([]PointRow, 0, parquetRowGroupSize)
	for i, p := range points {
		buf = append(buf, PointRow{Lat: p.Lat, Lon: p.Lon, Value: p.Value})
		if len(buf) == parquetRowGroupSize || i == len(points)-1 {
			if _, err := writer.Write(buf); err != nil {
				return err
			}
			if err := writer.Flush(); err != nil {
				return err
			}
			buf = buf[:0]
		}
	}
	return nil
}
