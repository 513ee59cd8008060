package oasis

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const reportNS = "http://www.caiso.com/soa/OASISReport_v1.xsd"

// row is one REPORT_DATA element; empty fields are omitted.
type row struct {
	dataItem, resource, baa, intervalNum, start, value string
}

func reportXML(header string, rows ...row) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<OASISReport xmlns="` + reportNS + `">`)
	b.WriteString(`<MessageHeader><TimeDate>2021-08-19T00:00:00-00:00</TimeDate><Source>OASIS</Source></MessageHeader>`)
	b.WriteString(`<MessagePayload><RTO><name>CAISO</name><REPORT_ITEM>`)
	b.WriteString(header)
	for _, r := range rows {
		b.WriteString("<REPORT_DATA>")
		if r.dataItem != "" {
			fmt.Fprintf(&b, "<DATA_ITEM>%s</DATA_ITEM>", r.dataItem)
		}
		if r.resource != "" {
			fmt.Fprintf(&b, "<RESOURCE_NAME>%s</RESOURCE_NAME>", r.resource)
		}
		if r.baa != "" {
			fmt.Fprintf(&b, "<BAA_ID>%s</BAA_ID>", r.baa)
		}
		b.WriteString("<OPR_DATE>2021-08-18</OPR_DATE>")
		if r.intervalNum != "" {
			fmt.Fprintf(&b, "<INTERVAL_NUM>%s</INTERVAL_NUM>", r.intervalNum)
		}
		if r.start != "" {
			fmt.Fprintf(&b, "<INTERVAL_START_GMT>%s</INTERVAL_START_GMT>", r.start)
		}
		if r.value != "" {
			fmt.Fprintf(&b, "<VALUE>%s</VALUE>", r.value)
		}
		b.WriteString("</REPORT_DATA>")
	}
	b.WriteString(`</REPORT_ITEM></RTO></MessagePayload></OASISReport>`)
	return b.String()
}

func reportHeader(report, mkt, uom string) string {
	h := "<REPORT_HEADER><SYSTEM>OASIS</SYSTEM><TZ>PPT</TZ>"
	h += "<REPORT>" + report + "</REPORT>"
	h += "<MKT_TYPE>" + mkt + "</MKT_TYPE>"
	if uom != "" {
		h += "<UOM>" + uom + "</UOM>"
	}
	h += "<INTERVAL>ENDING</INTERVAL><SEC_PER_INTERVAL>300</SEC_PER_INTERVAL></REPORT_HEADER>"
	return h
}

const rejectionXML = `<?xml version="1.0" encoding="UTF-8"?>
<m:OASISReport xmlns:m="http://www.caiso.com/soa/OASISReport_v1.xsd">
<m:MessagePayload><m:RTO><m:name>CAISO</m:name><m:ERROR>
<m:ERR_CODE>1000</m:ERR_CODE>
<m:ERR_DESC>No data returned for the specified selection</m:ERR_DESC>
</m:ERROR></m:RTO></m:MessagePayload></m:OASISReport>`

// latin1 relabels a generated document as ISO-8859-1. Callers put the
// single-byte encoding of any non-ASCII text in the document themselves.
func latin1(doc string) string {
	return strings.Replace(doc, `encoding="UTF-8"`, `encoding="ISO-8859-1"`, 1)
}

func zipBytes(t *testing.T, name, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
