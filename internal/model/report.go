package model

// Header is the report metadata read from the OASIS REPORT_HEADER element.
//
// Example:
//
//	{"report": "ENE_SLRS", "mkt_type": "RTM", "uom": "MW", "update_interval": 300000}
type Header struct {
	Report     string `json:"report"`
	MarketType string `json:"mkt_type"`
	// Some reports (e.g. ENE_TRANS_LOSS) carry no unit of measure.
	UOM string `json:"uom,omitempty"`
	// Milliseconds between upstream refreshes for this market.
	UpdateInterval int64 `json:"update_interval"`
}

// Entry is one data point of a report series.
// Interval is nil for report types that do not number their intervals.
type Entry struct {
	Interval         *int   `json:"interval,omitempty"`
	IntervalStartGMT string `json:"interval_start_gmt"`
	Value            string `json:"value"`
}

// Reports groups entries by group key (resource, price node or balancing
// authority) and then by data-item label.
type Reports map[string]map[string][]Entry

// Add appends e to the series at group/item, creating it if needed.
func (r Reports) Add(group, item string, e Entry) {
	items, ok := r[group]
	if !ok {
		items = map[string][]Entry{}
		r[group] = items
	}
	items[item] = append(items[item], e)
}

// Report is the normalized response returned to callers.
type Report struct {
	Header  Header  `json:"header"`
	Reports Reports `json:"reports"`
}
