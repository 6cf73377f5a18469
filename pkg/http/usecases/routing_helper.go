package usecases

import (
	"github.com/lintang-b-s/storenav/pkg"
	da "github.com/lintang-b-s/storenav/pkg/datastructure"
	"github.com/lintang-b-s/storenav/pkg/engine/routing"
	"github.com/lintang-b-s/storenav/pkg/util"
)

// resolve merges explicit stop labels with the labels resolved from items, dropping "Unknown" and duplicates.
// items that resolved to "Unknown" are returned so the caller can report them.
func (rs *RoutingService) resolve(stops, items []string) ([]da.StopLabel, []string, error) {
	labels := make([]da.StopLabel, 0, len(stops)+len(items))
	for _, s := range stops {
		labels = append(labels, da.StopLabel(s))
	}

	unresolved := make([]string, 0)
	if len(items) > 0 {
		resolver := rs.engine.GetResolver()
		if resolver == nil {
			return nil, nil, util.WrapErrorf(ErrResolverUnavailable, util.ErrBadParamInput,
				"cannot resolve %d items without a keyword file", len(items))
		}
		for i, l := range resolver.Resolve(items) {
			if l == pkg.UNKNOWN_LABEL {
				unresolved = append(unresolved, items[i])
				continue
			}
			labels = append(labels, l)
		}
	}

	labels = routing.FilterResolved(labels)
	if len(labels) == 0 {
		return nil, unresolved, util.WrapErrorf(ErrNoStops, util.ErrBadParamInput, "nothing to route")
	}
	return labels, unresolved, nil
}

func (rs *RoutingService) checkKnown(labels []da.StopLabel) error {
	stops := rs.engine.GetStops()
	for _, l := range labels {
		if !stops.Contains(l) {
			return util.WrapErrorf(routing.ErrUnknownStop, util.ErrNotFound, "unknown stop %q", l)
		}
	}
	return nil
}
