package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"oasis-proxy/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(n int) *int { return &n }

func TestWriteReportCSV(t *testing.T) {
	r := &model.Report{
		Header:  model.Header{Report: "ENE_SLRS", MarketType: "RTM", UOM: "MW", UpdateInterval: 300000},
		Reports: model.Reports{},
	}
	r.Reports.Add("TAC_SCE", "Load", model.Entry{Interval: intp(1), IntervalStartGMT: "t1", Value: "5"})
	r.Reports.Add("TAC_PGE", "Load", model.Entry{Interval: intp(1), IntervalStartGMT: "t1", Value: "3"})
	r.Reports.Add("TAC_PGE", "Export", model.Entry{IntervalStartGMT: "t1", Value: "1"})

	var buf bytes.Buffer
	require.NoError(t, WriteReportCSV(&buf, r))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{"report", "mkt_type", "uom", "group", "data_item", "interval", "interval_start_gmt", "value"}, rows[0])
	assert.Equal(t, []string{"ENE_SLRS", "RTM", "MW", "TAC_PGE", "Export", "", "t1", "1"}, rows[1])
	assert.Equal(t, []string{"ENE_SLRS", "RTM", "MW", "TAC_PGE", "Load", "1", "t1", "3"}, rows[2])
	assert.Equal(t, "TAC_SCE", rows[3][3])
}

func TestWriteReportCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportCSV(&buf, &model.Report{}))
	assert.Equal(t, "report,mkt_type,uom,group,data_item,interval,interval_start_gmt,value\n", buf.String())
}
