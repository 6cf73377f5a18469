package navmesh

import (
	da "github.com/lintang-b-s/storenav/pkg/datastructure"
	"gonum.org/v1/gonum/floats"
)

// ObstacleProfile number of obstacle cells in every column of the mask.
func ObstacleProfile(mask *da.WalkabilityMask) []float64 {
	w, h := mask.GetWidth(), mask.GetHeight()
	profile := make([]float64, w)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if !mask.IsWalkable(x, y) {
				profile[x]++
			}
		}
	}
	return profile
}

// LocalMinima strict local minima of profile scanned left to right; a minimum closer than minDist to the
// previously accepted one is dropped.
func LocalMinima(profile []float64, minDist int) []int {
	mins := make([]int, 0)
	last := -1 << 30
	for x := 1; x < len(profile)-1; x++ {
		if profile[x] < profile[x-1] && profile[x] < profile[x+1] {
			if x-last >= minDist {
				mins = append(mins, x)
				last = x
			}
		}
	}
	return mins
}

// EvenlySpaced expected columns strictly inside [0, width-1], i.e. linspace(0, width-1, expected+2) without
// its endpoints, truncated to int.
func EvenlySpaced(width, expected int) []int {
	if expected <= 0 {
		return []int{}
	}
	span := make([]float64, expected+2)
	floats.Span(span, 0, float64(width-1))
	cols := make([]int, expected)
	for i := range cols {
		cols[i] = int(span[i+1])
	}
	return cols
}

// FindCorridors smooths profile and returns its local minima. when the number of minima differs from expected
// it falls back to evenly spaced columns and reports fallback=true.
func FindCorridors(profile []float64, expected, minDist, smoothKsize int) (corridors []int, fallback bool) {
	smoothed := smoothProfile(profile, smoothKsize)
	mins := LocalMinima(smoothed, minDist)
	if len(mins) != expected {
		return EvenlySpaced(len(profile), expected), true
	}
	return mins, false
}

// widestRow row with the largest distance to an obstacle in column x, first one on ties.
func widestRow(dist *raster, x int) int {
	col := dist.column(x)
	if len(col) == 0 {
		return 0
	}
	return floats.MaxIdx(col)
}
