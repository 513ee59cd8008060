package export

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"oasis-proxy/internal/model"
)

// WriteReportCSV flattens a report to one row per entry, ordered by group,
// data item, then the series order.
func WriteReportCSV(out io.Writer, r *model.Report) error {
	w := csv.NewWriter(out)

	header := []string{
		"report",
		"mkt_type",
		"uom",
		"group",
		"data_item",
		"interval",
		"interval_start_gmt",
		"value",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, group := range sortedKeys(r.Reports) {
		items := r.Reports[group]
		for _, item := range sortedKeys(items) {
			for _, e := range items[item] {
				row := []string{
					r.Header.Report,
					r.Header.MarketType,
					r.Header.UOM,
					group,
					item,
					fmtInterval(e.Interval),
					e.IntervalStartGMT,
					e.Value,
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
	}

	w.Flush()
	return w.Error()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func fmtInterval(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
