package navmesh

import (
	"fmt"
	"image"

	da "github.com/lintang-b-s/storenav/pkg/datastructure"
	"gocv.io/x/gocv"
)

// raster float plane copied out of a gocv Mat, row-major.
type raster struct {
	width  int
	height int
	pix    []float64
}

func (r *raster) at(x, y int) float64 {
	return r.pix[y*r.width+x]
}

// column copies column x.
func (r *raster) column(x int) []float64 {
	col := make([]float64, r.height)
	for y := 0; y < r.height; y++ {
		col[y] = r.pix[y*r.width+x]
	}
	return col
}

// distanceTransform L2 distance (3x3 mask) from every walkable cell to the nearest obstacle, 0 on obstacles.
func distanceTransform(mask *da.WalkabilityMask) (*raster, error) {
	src, err := matFromMask(mask)
	if err != nil {
		return nil, fmt.Errorf("convert walkability mask: %w", err)
	}
	defer src.Close()

	dist := gocv.NewMat()
	defer dist.Close()
	labels := gocv.NewMat()
	defer labels.Close()
	gocv.DistanceTransform(src, &dist, &labels, gocv.DistL2, gocv.DistanceMask3, gocv.DistanceLabelCComp)

	out := &raster{width: dist.Cols(), height: dist.Rows(), pix: make([]float64, dist.Cols()*dist.Rows())}
	for y := 0; y < out.height; y++ {
		for x := 0; x < out.width; x++ {
			out.pix[y*out.width+x] = float64(dist.GetFloatAt(y, x))
		}
	}
	return out, nil
}

// smoothProfile gaussian smoothing of a column profile with a ksize x 1 kernel, reflect101 borders.
func smoothProfile(profile []float64, ksize int) []float64 {
	out := make([]float64, len(profile))
	if ksize <= 1 || len(profile) == 0 {
		copy(out, profile)
		return out
	}
	if ksize%2 == 0 {
		ksize++
	}

	src := gocv.NewMatWithSize(1, len(profile), gocv.MatTypeCV32F)
	defer src.Close()
	for x, v := range profile {
		src.SetFloatAt(0, x, float32(v))
	}

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.GaussianBlur(src, &dst, image.Pt(ksize, 1), 0, 0, gocv.BorderReflect101)

	for x := range out {
		out[x] = float64(dst.GetFloatAt(0, x))
	}
	return out
}
