package routing

import (
	"github.com/lintang-b-s/storenav/pkg"
	da "github.com/lintang-b-s/storenav/pkg/datastructure"
)

func removeDuplicates[T comparable](arr []T) []T {
	set := make(map[T]struct{})
	newarr := make([]T, 0, len(arr))

	for _, v := range arr {
		if _, ok := set[v]; !ok {
			set[v] = struct{}{}
			newarr = append(newarr, v)
		}
	}
	return newarr
}

// DefaultStart picks Entrance, then Produce, then the first requested stop.
func DefaultStart(stops *da.StopTable, requested []da.StopLabel) da.StopLabel {
	if stops.Contains(pkg.ENTRANCE) {
		return pkg.ENTRANCE
	}
	if stops.Contains(pkg.PRODUCE) {
		return pkg.PRODUCE
	}
	if len(requested) > 0 {
		return requested[0]
	}
	return pkg.ENTRANCE
}

// FilterResolved drops the "Unknown" label produced by the item resolver and removes duplicates.
func FilterResolved(labels []da.StopLabel) []da.StopLabel {
	out := make([]da.StopLabel, 0, len(labels))
	for _, l := range labels {
		if l == pkg.UNKNOWN_LABEL || l == "" {
			continue
		}
		out = append(out, l)
	}
	return removeDuplicates(out)
}
