package aggregate

import (
	"sort"

	"github.com/AutoScopePT/autoscope-mvp/engine/domain"
)

// SortPinnedDesc orders groups for the pinned-selection charts: the group
// matching pinned always sorts first regardless of its metric value, and the
// rest sort descending by the active metric. Groups with no metric (price
// mode, no price data) go last. The sort is stable so equal groups keep
// their first-seen order.
func SortPinnedDesc(groups []Group, pinned string, mode domain.Mode) {
	sort.SliceStable(groups, func(i, j int) bool {
		if pinned != "" {
			if groups[i].Key.Label == pinned {
				return groups[j].Key.Label != pinned
			}
			if groups[j].Key.Label == pinned {
				return false
			}
		}
		return metricLess(groups[j], groups[i], mode)
	})
}

// SortByMetricDesc orders groups descending by the active metric, no pin.
func SortByMetricDesc(groups []Group, mode domain.Mode) {
	SortPinnedDesc(groups, "", mode)
}

// SortByKeyAsc orders groups ascending by key: numerically for bucketed
// keys, lexically for labels. The line chart reads buckets left to right.
func SortByKeyAsc(groups []Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Key, groups[j].Key
		if a.Numeric && b.Numeric {
			return a.Value < b.Value
		}
		return a.Label < b.Label
	})
}

func metricLess(a, b Group, mode domain.Mode) bool {
	av, aok := Metric(a, mode)
	bv, bok := Metric(b, mode)
	if aok != bok {
		return !aok // missing metric sorts below any value
	}
	return av < bv
}
