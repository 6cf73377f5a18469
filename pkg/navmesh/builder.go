package navmesh

import (
	"errors"
	"fmt"
	"image"
	"strconv"

	"github.com/lintang-b-s/storenav/pkg"
	"github.com/lintang-b-s/storenav/pkg/config"
	da "github.com/lintang-b-s/storenav/pkg/datastructure"
	"github.com/lintang-b-s/storenav/pkg/util"
	"go.uber.org/zap"
)

var (
	ErrSourceRasterMissing = errors.New("source store raster not found")
)

// Builder turns a grayscale store raster into a walkability mask plus a stop table.
type Builder struct {
	cfg config.NavmeshConfig
	log *zap.Logger
}

func NewBuilder(cfg config.NavmeshConfig, log *zap.Logger) *Builder {
	return &Builder{cfg: cfg, log: log}
}

// Result of one build.
type Result struct {
	Mask      *da.WalkabilityMask
	Stops     *da.StopTable
	Corridors []int
	Fallback  bool
	Skipped   bool
}

// Build runs the whole pipeline and writes the mask PNG and nav.json. when both artifacts already exist the build
// is skipped; a single leftover artifact is overwritten.
func (b *Builder) Build() (*Result, error) {
	if da.FileExists(b.cfg.MaskPath) && da.FileExists(b.cfg.NavPath) {
		b.log.Info("navmesh already built; remove files to rebuild",
			zap.String("mask", b.cfg.MaskPath), zap.String("nav", b.cfg.NavPath))
		return &Result{Skipped: true}, nil
	}
	if !da.FileExists(b.cfg.StoreImagePath) {
		return nil, fmt.Errorf("%w: %s", ErrSourceRasterMissing, b.cfg.StoreImagePath)
	}

	gray, err := da.ReadGrayImage(b.cfg.StoreImagePath)
	if err != nil {
		return nil, err
	}

	keywords, err := LoadAisleKeywords(b.cfg.KeywordsPath)
	if err != nil {
		return nil, fmt.Errorf("load aisle keywords: %w", err)
	}
	hint, err := LoadLayoutHint(b.cfg.LayoutPath)
	if err != nil {
		return nil, fmt.Errorf("load layout hint: %w", err)
	}

	res, err := b.BuildFromImage(gray, AisleIds(keywords), hint)
	if err != nil {
		return nil, err
	}

	if err := res.Mask.WriteMask(b.cfg.MaskPath); err != nil {
		return nil, fmt.Errorf("write mask: %w", err)
	}
	nf := da.NewNavFile(b.cfg.StoreImagePath, b.cfg.MaskPath, res.Stops,
		da.NavMeta{Notes: "auto-generated", Version: pkg.NAVMESH_VERSION})
	if err := nf.WriteNavFile(b.cfg.NavPath); err != nil {
		return nil, fmt.Errorf("write nav file: %w", err)
	}

	b.log.Info("navmesh built",
		zap.Int("corridors", len(res.Corridors)), zap.Int("aisles", len(keywords)),
		zap.Int("stops", res.Stops.Len()),
		zap.String("mask", b.cfg.MaskPath), zap.String("nav", b.cfg.NavPath))
	return res, nil
}

// BuildFromImage is the in-memory part of Build. aisleIds are the expected aisle numbers, ascending.
func (b *Builder) BuildFromImage(gray *image.Gray, aisleIds []int, hint *LayoutHint) (*Result, error) {
	mask, err := BuildMask(gray, b.cfg)
	if err != nil {
		return nil, err
	}
	dist, err := distanceTransform(mask)
	if err != nil {
		return nil, err
	}

	corridors, fallback := FindCorridors(ObstacleProfile(mask), len(aisleIds), b.cfg.PeakMinDist, pkg.PROFILE_KSIZE)
	if fallback {
		b.log.Warn("corridor count mismatch; using even spacing",
			zap.Int("expected", len(aisleIds)), zap.Ints("corridors", corridors))
	}

	// corridors are ascending in x; descending layouts put the highest aisle in the leftmost corridor
	ordered := make([]int, len(aisleIds))
	copy(ordered, aisleIds)
	if Direction(hint, aisleIds) == -1 {
		util.ReverseInPlace(ordered)
	}

	entries := make([]da.StopEntry, 0, len(ordered)+5)
	for i := 0; i < len(ordered) && i < len(corridors); i++ {
		x := corridors[i]
		entries = append(entries, da.NewStopEntry(da.StopLabel(strconv.Itoa(ordered[i])),
			da.NewCoordinate(x, widestRow(dist, x))))
	}

	entries = append(entries, b.boundaryStops(mask, dist)...)

	stops, err := da.NewStopTable(entries, mask.GetWidth(), mask.GetHeight())
	if err != nil {
		return nil, err
	}
	return &Result{Mask: mask, Stops: stops, Corridors: corridors, Fallback: fallback}, nil
}

// boundaryStops Entrance/Produce/Bakery on the entrance edge, Frozen/Dairy on the opposite one.
// a stop whose edge band or snap neighbourhood has no walkable cell is left out.
func (b *Builder) boundaryStops(mask *da.WalkabilityMask, dist *raster) []da.StopEntry {
	entries := make([]da.StopEntry, 0, 5)
	edge := b.cfg.EntranceEdge

	snapFrom := func(label da.StopLabel, anchor da.Coordinate, e pkg.Edge, offset int) {
		n := nudge(anchor, e, offset)
		c, ok := nearestWalkable(mask, dist, n.GetX(), n.GetY())
		if !ok {
			b.log.Warn("no walkable cell near boundary stop", zap.String("label", string(label)),
				zap.Int("x", n.GetX()), zap.Int("y", n.GetY()))
			return
		}
		entries = append(entries, da.NewStopEntry(label, c))
	}

	if entrance, ok := edgePoint(dist, mask, edge); ok {
		entries = append(entries, da.NewStopEntry(pkg.ENTRANCE, entrance))
		snapFrom(pkg.PRODUCE, entrance, edge, pkg.PRODUCE_NUDGE)
		snapFrom(pkg.BAKERY, entrance, edge, pkg.BAKERY_NUDGE)
	} else {
		b.log.Warn("entrance edge has no walkable cell", zap.String("edge", edge.String()))
	}

	opp := edge.Opposite()
	if frozen, ok := edgePoint(dist, mask, opp); ok {
		entries = append(entries, da.NewStopEntry(pkg.FROZEN, frozen))
		snapFrom(pkg.DAIRY, frozen, opp, pkg.DAIRY_NUDGE)
	} else {
		b.log.Warn("opposite edge has no walkable cell", zap.String("edge", opp.String()))
	}
	return entries
}
