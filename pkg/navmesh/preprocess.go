package navmesh

import (
	"fmt"
	"image"

	"github.com/lintang-b-s/storenav/pkg"
	"github.com/lintang-b-s/storenav/pkg/config"
	da "github.com/lintang-b-s/storenav/pkg/datastructure"
	"gocv.io/x/gocv"
)

// BuildMask blur -> canny -> closing -> threshold, then obstacle specks smaller than MinComponentArea are cleared.
// 255 in the returned mask is walkable.
func BuildMask(gray *image.Gray, cfg config.NavmeshConfig) (*da.WalkabilityMask, error) {
	src, err := gocv.ImageGrayToMatGray(gray)
	if err != nil {
		return nil, fmt.Errorf("convert store raster: %w", err)
	}
	defer src.Close()

	edges := detectEdges(src, cfg.CannyLow, cfg.CannyHigh)
	defer edges.Close()

	closed := closeGaps(edges, cfg.MorphKernel)
	defer closed.Close()

	obstacle := gocv.NewMat()
	defer obstacle.Close()
	gocv.Threshold(closed, &obstacle, 0, 255, gocv.ThresholdBinary)

	removeSmallObstacles(obstacle, cfg.MinComponentArea)

	walkable := gocv.NewMat()
	defer walkable.Close()
	gocv.BitwiseNot(obstacle, &walkable)

	return maskFromMat(walkable), nil
}

// detectEdges 5x5 gaussian blur followed by canny with L1 gradients.
func detectEdges(src gocv.Mat, low, high float64) gocv.Mat {
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(src, &blurred, image.Pt(pkg.GAUSSIAN_KSIZE, pkg.GAUSSIAN_KSIZE), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	gocv.Canny(blurred, &edges, float32(low), float32(high))
	return edges
}

// closeGaps morphological closing with a ksize x ksize rectangle, bridges gaps between edge fragments.
func closeGaps(edges gocv.Mat, ksize int) gocv.Mat {
	closed := gocv.NewMat()
	if ksize <= 1 {
		edges.CopyTo(&closed)
		return closed
	}
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(ksize, ksize))
	defer kernel.Close()
	gocv.MorphologyEx(edges, &closed, gocv.MorphClose, kernel)
	return closed
}

// removeSmallObstacles zeroes every 8-connected non-zero component of obstacle with area < minArea. returns the
// number of components removed.
func removeSmallObstacles(obstacle gocv.Mat, minArea int) int {
	labels := gocv.NewMat()
	defer labels.Close()
	stats := gocv.NewMat()
	defer stats.Close()
	centroids := gocv.NewMat()
	defer centroids.Close()

	n := gocv.ConnectedComponentsWithStats(obstacle, &labels, &stats, &centroids)

	small := make([]bool, n)
	removed := 0
	for i := 1; i < n; i++ {
		if int(stats.GetIntAt(i, int(gocv.CC_STAT_AREA))) < minArea {
			small[i] = true
			removed++
		}
	}
	if removed == 0 {
		return 0
	}

	for y := 0; y < obstacle.Rows(); y++ {
		for x := 0; x < obstacle.Cols(); x++ {
			if l := labels.GetIntAt(y, x); l > 0 && small[l] {
				obstacle.SetUCharAt(y, x, 0)
			}
		}
	}
	return removed
}

func maskFromMat(m gocv.Mat) *da.WalkabilityMask {
	w, h := m.Cols(), m.Rows()
	cells := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cells[y*w+x] = m.GetUCharAt(y, x) != 0
		}
	}
	return da.NewWalkabilityMask(w, h, cells)
}

func matFromMask(mask *da.WalkabilityMask) (gocv.Mat, error) {
	return gocv.ImageGrayToMatGray(mask.ToGray())
}
