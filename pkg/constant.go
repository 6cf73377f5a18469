package pkg

import "math"

// enum of boundary edge of the floor plan
type Edge uint8

const (
	TOP Edge = iota
	BOTTOM
	LEFT
	RIGHT
	UNKNOWN_EDGE
)

var INF_WEIGHT = math.Inf(1)

const (
	SQRT2 = math.Sqrt2

	CANNY_LOW          = 50.0
	CANNY_HIGH         = 150.0
	GAUSSIAN_KSIZE     = 5
	MORPH_KERNEL       = 9
	MIN_COMPONENT_AREA = 500
	PEAK_MIN_DIST      = 40
	PROFILE_KSIZE      = 51
	EDGE_MARGIN_DIV    = 20 // boundary band = dim / 20
	SNAP_MAX_RADIUS    = 20

	PRODUCE_NUDGE = 50
	BAKERY_NUDGE  = 100
	DAIRY_NUDGE   = 100

	NAVMESH_VERSION = 1
	TWO_OPT_PASSES  = 1
)

// department stop labels placed by boundary search
const (
	ENTRANCE = "Entrance"
	PRODUCE  = "Produce"
	BAKERY   = "Bakery"
	FROZEN   = "Frozen"
	DAIRY    = "Dairy"

	UNKNOWN_LABEL = "Unknown"
)

func GetEdge(edge string) Edge {
	switch edge {
	case "top":
		return TOP
	case "bottom":
		return BOTTOM
	case "left":
		return LEFT
	case "right":
		return RIGHT
	default:
		return UNKNOWN_EDGE
	}
}

func (e Edge) String() string {
	switch e {
	case TOP:
		return "top"
	case BOTTOM:
		return "bottom"
	case LEFT:
		return "left"
	case RIGHT:
		return "right"
	default:
		return "unknown"
	}
}

// Opposite. edge facing e across the floor plan
func (e Edge) Opposite() Edge {
	switch e {
	case TOP:
		return BOTTOM
	case BOTTOM:
		return TOP
	case LEFT:
		return RIGHT
	case RIGHT:
		return LEFT
	default:
		return UNKNOWN_EDGE
	}
}
