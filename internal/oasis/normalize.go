package oasis

import (
	"sort"

	"oasis-proxy/internal/model"
)

// Normalize sorts every series by interval_start_gmt. OASIS timestamps are
// fixed-format, so string order is time order. The sort is stable and in
// place; reports is returned for convenience.
func Normalize(reports model.Reports) model.Reports {
	for _, items := range reports {
		for _, entries := range items {
			sort.SliceStable(entries, func(i, j int) bool {
				return entries[i].IntervalStartGMT < entries[j].IntervalStartGMT
			})
		}
	}
	return reports
}
