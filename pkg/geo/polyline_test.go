package geo

import (
	"testing"

	da "github.com/lintang-b-s/storenav/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolylineRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		path []da.Coordinate
	}{
		{"empty", []da.Coordinate{}},
		{"single cell", []da.Coordinate{da.NewCoordinate(12, 7)}},
		{"staircase", []da.Coordinate{
			da.NewCoordinate(0, 0), da.NewCoordinate(1, 1), da.NewCoordinate(2, 1),
			da.NewCoordinate(3, 2), da.NewCoordinate(1200, 900),
		}},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			enc := PolylineFromPath(tt.path)
			got, err := PathFromPolyline(enc)
			require.NoError(t, err)
			assert.Equal(t, tt.path, got)
		})
	}
}

func TestPathFromPolylineInvalid(t *testing.T) {
	_, err := PathFromPolyline("_")
	assert.Error(t, err)
}
