package navmesh

import (
	"image"
	"math"
	"math/rand"
	"testing"

	da "github.com/lintang-b-s/storenav/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// matFromRows 8-bit Mat with 255 for '#' and 0 elsewhere.
func matFromRows(t *testing.T, rows []string) gocv.Mat {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, len(rows[0]), len(rows)))
	for y, r := range rows {
		for x, c := range r {
			if c == '#' {
				img.Pix[y*img.Stride+x] = 255
			}
		}
	}
	m, err := gocv.ImageGrayToMatGray(img)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func isSet(m gocv.Mat, x, y int) bool {
	return m.GetUCharAt(y, x) != 0
}

func TestCloseGapsBridgesNarrowGap(t *testing.T) {
	edges := matFromRows(t, []string{
		"..........",
		"..........",
		"..###.##..",
		"..........",
		"..........",
	})

	closed := closeGaps(edges, 3)
	defer closed.Close()
	// the single pixel gap at (5,2) is filled, nothing else grows
	for x := 2; x <= 7; x++ {
		assert.True(t, isSet(closed, x, 2), "x=%d", x)
	}
	assert.False(t, isSet(closed, 4, 1))
	assert.False(t, isSet(closed, 1, 2))
	assert.False(t, isSet(closed, 8, 2))

	same := closeGaps(edges, 1)
	defer same.Close()
	for y := 0; y < edges.Rows(); y++ {
		for x := 0; x < edges.Cols(); x++ {
			assert.Equal(t, isSet(edges, x, y), isSet(same, x, y), "(%d,%d)", x, y)
		}
	}
}

func TestRemoveSmallObstacles(t *testing.T) {
	obstacle := matFromRows(t, []string{
		"##......#",
		"##.......",
		"..#......",
		"......###",
		"......###",
	})

	// the diagonal pixel (2,2) joins the top-left block, so only the lone pixel at (8,0) is below 5
	removed := removeSmallObstacles(obstacle, 5)
	assert.Equal(t, 1, removed)
	assert.False(t, isSet(obstacle, 8, 0))
	assert.True(t, isSet(obstacle, 2, 2))
	assert.True(t, isSet(obstacle, 0, 0))
	assert.True(t, isSet(obstacle, 8, 4))

	assert.Equal(t, 0, removeSmallObstacles(obstacle, 1))
}

func bruteForceDistance(m *da.WalkabilityMask) []float64 {
	w, h := m.GetWidth(), m.GetHeight()
	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !m.IsWalkable(x, y) {
				continue
			}
			best := math.Inf(1)
			for oy := 0; oy < h; oy++ {
				for ox := 0; ox < w; ox++ {
					if !m.IsWalkable(ox, oy) {
						best = math.Min(best, math.Hypot(float64(x-ox), float64(y-oy)))
					}
				}
			}
			out[y*w+x] = best
		}
	}
	return out
}

func TestDistanceTransformApproximatesEuclidean(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 10; trial++ {
		w, h := 5+rng.Intn(15), 5+rng.Intn(15)
		cells := make([]bool, w*h)
		for i := range cells {
			cells[i] = rng.Float64() > 0.1
		}
		cells[0] = false
		m := da.NewWalkabilityMask(w, h, cells)

		got, err := distanceTransform(m)
		require.NoError(t, err)
		require.Equal(t, w, got.width)
		require.Equal(t, h, got.height)

		want := bruteForceDistance(m)
		for i := range want {
			if want[i] == 0 {
				assert.Zero(t, got.pix[i], "trial %d cell %d", trial, i)
				continue
			}
			// the 3x3 mask overestimates diagonals and underestimates straight runs by a few percent
			assert.InDelta(t, want[i], got.pix[i], 0.1*want[i]+0.1, "trial %d cell %d", trial, i)
		}
	}
}

func TestSmoothProfile(t *testing.T) {
	flat := make([]float64, 30)
	for i := range flat {
		flat[i] = 80
	}
	for _, v := range smoothProfile(flat, 5) {
		assert.InDelta(t, 80.0, v, 1e-4)
	}

	peak := make([]float64, 21)
	peak[10] = 100
	smoothed := smoothProfile(peak, 5)
	assert.Less(t, smoothed[10], 100.0)
	assert.Greater(t, smoothed[10], smoothed[9])
	assert.InDelta(t, smoothed[9], smoothed[11], 1e-4)
	assert.Zero(t, smoothed[0])

	assert.Equal(t, peak, smoothProfile(peak, 1))
	assert.Empty(t, smoothProfile(nil, 51))
}

func TestDetectEdgesFindsStep(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 10; x < 20; x++ {
			img.Pix[y*img.Stride+x] = 255
		}
	}
	src, err := gocv.ImageGrayToMatGray(img)
	require.NoError(t, err)
	defer src.Close()

	edges := detectEdges(src, 50, 150)
	defer edges.Close()
	for y := 0; y < 10; y++ {
		row := 0
		for x := 0; x < 20; x++ {
			if isSet(edges, x, y) {
				row++
				assert.InDelta(t, 9.5, float64(x), 1.0, "edge far from the step at row %d", y)
			}
		}
		assert.Equal(t, 1, row, "row %d must have exactly one edge pixel", y)
	}

	flat, err := gocv.ImageGrayToMatGray(image.NewGray(image.Rect(0, 0, 8, 8)))
	require.NoError(t, err)
	defer flat.Close()
	none := detectEdges(flat, 50, 150)
	defer none.Close()
	assert.Zero(t, gocv.CountNonZero(none))
}

func TestMaskMatRoundTrip(t *testing.T) {
	mask := da.NewWalkabilityMaskFromRows([][]bool{
		{true, false, true},
		{true, true, false},
	})
	m, err := matFromMask(mask)
	require.NoError(t, err)
	defer m.Close()
	assert.True(t, maskFromMat(m).Equal(mask))
}
