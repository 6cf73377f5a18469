package routing

import (
	da "github.com/lintang-b-s/storenav/pkg/datastructure"
)

// Pathfinder implementations must be safe for concurrent queries (DistanceCache.Prewarm fans out).
type Pathfinder interface {
	ShortestPath(s, t da.Coordinate) (float64, []da.Coordinate)
}

type DistanceOracle interface {
	Distance(a, b da.StopLabel) (float64, error)
}

type CacheStore interface {
	Load() (map[PairKey]Distance, error)
	Save(entries map[PairKey]Distance) error
}

// LabelResolver maps free-text shopping items to stop labels, "Unknown" when nothing matches.
type LabelResolver interface {
	Resolve(items []string) []da.StopLabel
}
