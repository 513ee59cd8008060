package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"oasis-proxy/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *model.Report {
	one := 1
	return &model.Report{
		Header: model.Header{Report: "ENE_SLRS", MarketType: "RTM", UOM: "MW", UpdateInterval: 300000},
		Reports: model.Reports{"TAC_PGE": {"Load": {
			{Interval: &one, IntervalStartGMT: "2021-08-18T07:00:00-00:00", Value: "8500"},
		}}},
	}
}

func TestWriteReportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	require.NoError(t, writeReport(path, sampleReport()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var got model.Report
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "8500", got.Reports["TAC_PGE"]["Load"][0].Value)
}

func TestWriteReportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, writeReport(path, sampleReport()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "report,mkt_type,uom,group,data_item"))
	assert.Contains(t, lines[1], "TAC_PGE,Load,1,2021-08-18T07:00:00-00:00,8500")
}

func TestWriteReportSurfacesWriteErrors(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	assert.Error(t, writeReport("/dev/full", sampleReport()))
}
