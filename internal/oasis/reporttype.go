package oasis

import "sort"

// ReportType is the OASIS queryname a report was requested with.
type ReportType string

const (
	ReportSystemLoad       ReportType = "ENE_SLRS"
	ReportLMP              ReportType = "PRC_LMP"
	ReportIntervalLMP      ReportType = "PRC_INTVL_LMP"
	ReportTransmissionLoss ReportType = "ENE_TRANS_LOSS"
)

// Update intervals in milliseconds, keyed by MKT_TYPE.
var updateIntervals = map[string]int64{
	"RTM": 5 * 60 * 1000,
	"DAM": 60 * 60 * 1000,
	"RTD": 5 * 60 * 1000,
}

// UpdateInterval returns the refresh interval for a market type.
func UpdateInterval(marketType string) (int64, error) {
	ms, ok := updateIntervals[marketType]
	if !ok {
		return 0, &UnknownMarketTypeError{MarketType: marketType}
	}
	return ms, nil
}

// strategy describes how one report family is walked into Reports.
type strategy struct {
	description string
	// groupBy is the REPORT_DATA child holding the group key.
	groupBy string
	// aliases maps raw DATA_ITEM values to labels. Nil means labels are the
	// raw values.
	aliases map[string]string
	// withInterval emits INTERVAL_NUM on every entry.
	withInterval bool
	// filterTotals drops the totals group unless the caller asked for it.
	filterTotals bool
}

func (s strategy) label(reportType ReportType, dataItem string) (string, error) {
	if s.aliases == nil {
		return dataItem, nil
	}
	label, ok := s.aliases[dataItem]
	if !ok {
		return "", &UnknownDataItemError{ReportType: reportType, DataItem: dataItem}
	}
	return label, nil
}

var systemLoadAliases = map[string]string{
	"ISO_TOT_EXP_MW": "Export",
	"ISO_TOT_GEN_MW": "Generation",
	"ISO_TOT_IMP_MW": "Import",
	"TOT_EXP_MW":     "Export",
	"TOT_GEN_MW":     "Generation",
	"TOT_IMP_MW":     "Import",
	"TOT_LOAD_MW":    "Load",
}

var lmpAliases = map[string]string{
	"LMP_PRC":      "LMP",
	"LMP_CONG_PRC": "Congestion",
	"LMP_ENE_PRC":  "Energy",
	"LMP_LOSS_PRC": "Loss",
	"LMP_GHG_PRC":  "Greenhouse Gas",
}

var lmpStrategy = strategy{
	description:  "Locational marginal prices and their components per pricing node.",
	groupBy:      "RESOURCE_NAME",
	aliases:      lmpAliases,
	withInterval: true,
}

var strategies = map[ReportType]strategy{
	ReportSystemLoad: {
		description:  "System load and resource schedules per TAC area.",
		groupBy:      "RESOURCE_NAME",
		aliases:      systemLoadAliases,
		withInterval: true,
		filterTotals: true,
	},
	ReportLMP:         lmpStrategy,
	ReportIntervalLMP: lmpStrategy,
	ReportTransmissionLoss: {
		description: "Transmission losses per balancing authority area.",
		groupBy:     "BAA_ID",
	},
}

// ReportTypeInfo describes a supported report type.
type ReportTypeInfo struct {
	Type        ReportType
	Description string
	GroupBy     string
	DataItems   []string // labels; empty when raw DATA_ITEM values are used
	Version     string
}

// SupportedReportTypes lists the report types with an extraction strategy,
// ordered by name.
func SupportedReportTypes() []ReportTypeInfo {
	out := make([]ReportTypeInfo, 0, len(strategies))
	for rt, s := range strategies {
		out = append(out, ReportTypeInfo{
			Type:        rt,
			Description: s.description,
			GroupBy:     s.groupBy,
			DataItems:   labels(s.aliases),
			Version:     versionFor(string(rt)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

func labels(aliases map[string]string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, l := range aliases {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	sort.Strings(out)
	return out
}
