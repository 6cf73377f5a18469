package geo

import (
	da "github.com/lintang-b-s/storenav/pkg/datastructure"
	"github.com/twpayne/go-polyline"
)

// pixel coordinates are integral, so scale 1 keeps the encoding exact. pairs are (x, y).
var pixelCodec = polyline.Codec{Dim: 2, Scale: 1}

// PolylineFromPath encodes a cell path with the google polyline algorithm.
func PolylineFromPath(path []da.Coordinate) string {
	coords := make([][]float64, len(path))
	for i, c := range path {
		coords[i] = []float64{float64(c.GetX()), float64(c.GetY())}
	}
	return string(pixelCodec.EncodeCoords(nil, coords))
}

func PathFromPolyline(s string) ([]da.Coordinate, error) {
	coords, _, err := pixelCodec.DecodeCoords([]byte(s))
	if err != nil {
		return nil, err
	}
	path := make([]da.Coordinate, len(coords))
	for i, c := range coords {
		path[i] = da.NewCoordinateF(c[0], c[1])
	}
	return path, nil
}
