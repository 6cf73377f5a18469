package render

import (
	"image"
	"image/png"
	"io"

	"github.com/fogleman/gg"
	da "github.com/lintang-b-s/storenav/pkg/datastructure"
	"github.com/lintang-b-s/storenav/pkg/engine/routing"
	"github.com/lintang-b-s/storenav/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

const (
	legWidth     = 3
	markerRadius = 4
)

// RouteRenderer draws a solved route over the store raster.
type RouteRenderer struct {
	pathfinder routing.Pathfinder
	stops      *da.StopTable
	face       font.Face
	log        *zap.Logger
}

func NewRouteRenderer(pathfinder routing.Pathfinder, stops *da.StopTable, log *zap.Logger) *RouteRenderer {
	return &RouteRenderer{
		pathfinder: pathfinder,
		stops:      stops,
		face:       basicfont.Face7x13,
		log:        log,
	}
}

// Render copies base into a new RGBA image (base is never modified), draws every leg path in red and then
// every stop as a blue disc with its label. legs without a path are skipped; their markers are still drawn.
func (rr *RouteRenderer) Render(base image.Image, route routing.Route) (*image.RGBA, error) {
	coords := make([]da.Coordinate, len(route))
	for i, label := range route {
		c, ok := rr.stops.Get(label)
		if !ok {
			return nil, util.WrapErrorf(routing.ErrUnknownStop, util.ErrBadParamInput, "unknown stop %q", label)
		}
		coords[i] = c
	}

	b := base.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), base, b.Min, draw.Src)

	dc := gg.NewContextForRGBA(img)
	dc.SetLineWidth(legWidth)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	for i := 0; i+1 < len(coords); i++ {
		_, path := rr.pathfinder.ShortestPath(coords[i], coords[i+1])
		if len(path) == 0 {
			rr.log.Debug("skipping unreachable leg", zap.String("from", string(route[i])),
				zap.String("to", string(route[i+1])))
			continue
		}
		strokePath(dc, path)
	}

	dc.SetFontFace(rr.face)
	for i, c := range coords {
		x, y := center(c)
		dc.SetRGB(0, 0, 1)
		dc.DrawCircle(x, y, markerRadius)
		dc.Fill()

		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(string(route[i]), x+markerRadius+2, y-markerRadius-2, 0, 1)
	}
	return img, nil
}

// strokePath one red polyline through the cell centres of path.
func strokePath(dc *gg.Context, path []da.Coordinate) {
	dc.SetRGB(1, 0, 0)
	if len(path) == 1 {
		x, y := center(path[0])
		dc.DrawCircle(x, y, legWidth/2.0)
		dc.Fill()
		return
	}
	dc.MoveTo(center(path[0]))
	for _, p := range path[1:] {
		dc.LineTo(center(p))
	}
	dc.Stroke()
}

// center of cell c in canvas coordinates.
func center(c da.Coordinate) (float64, float64) {
	return float64(c.GetX()) + 0.5, float64(c.GetY()) + 0.5
}

func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
