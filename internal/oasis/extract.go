package oasis

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"

	"oasis-proxy/internal/model"

	"golang.org/x/net/html/charset"
)

// element is a REPORT_HEADER or REPORT_DATA record: a flat list of
// single-text children.
type element struct {
	Children []field `xml:",any"`
}

type field struct {
	XMLName xml.Name
	Text    string `xml:",chardata"`
}

// find returns the text of the first child with the given qualified name.
func (e *element) find(name xml.Name) (string, bool) {
	for _, c := range e.Children {
		if c.XMLName == name {
			return strings.TrimSpace(c.Text), true
		}
	}
	return "", false
}

// IsSupported reports whether reportType has an extraction strategy.
// Unsupported types still extract a header but no report data.
func IsSupported(reportType ReportType) bool {
	_, ok := strategies[reportType]
	return ok
}

// Extract parses an OASIS report file. The header is read from the first
// REPORT_HEADER; every REPORT_DATA is grouped according to the strategy of
// reportType. Element names are qualified with the namespace of the root
// element. Entries are returned in document order; see Normalize.
func Extract(r io.Reader, reportType ReportType, includeTotals bool) (model.Header, model.Reports, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	x := extractor{
		reportType:    reportType,
		includeTotals: includeTotals,
		reports:       model.Reports{},
	}
	x.strategy, x.supported = strategies[reportType]

	var (
		header     model.Header
		haveHeader bool
		rootSeen   bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.Header{}, nil, &MalformedReportError{Reason: "decode xml", Err: err}
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !rootSeen {
			rootSeen = true
			x.ns = se.Name.Space
			continue
		}

		switch se.Name {
		case x.name("REPORT_HEADER"):
			if haveHeader {
				if err := dec.Skip(); err != nil {
					return model.Header{}, nil, &MalformedReportError{Reason: "decode xml", Err: err}
				}
				continue
			}
			var el element
			if err := dec.DecodeElement(&el, &se); err != nil {
				return model.Header{}, nil, &MalformedReportError{Reason: "decode REPORT_HEADER", Err: err}
			}
			header, err = x.header(&el)
			if err != nil {
				return model.Header{}, nil, err
			}
			haveHeader = true
		case x.name("REPORT_DATA"):
			if !x.supported {
				if err := dec.Skip(); err != nil {
					return model.Header{}, nil, &MalformedReportError{Reason: "decode xml", Err: err}
				}
				continue
			}
			var el element
			if err := dec.DecodeElement(&el, &se); err != nil {
				return model.Header{}, nil, &MalformedReportError{Reason: "decode REPORT_DATA", Err: err}
			}
			if err := x.entry(&el); err != nil {
				return model.Header{}, nil, err
			}
		}
	}

	if !rootSeen {
		return model.Header{}, nil, &MalformedReportError{Reason: "empty document"}
	}
	if !haveHeader {
		return model.Header{}, nil, &MalformedReportError{Reason: "no REPORT_HEADER element"}
	}
	return header, x.reports, nil
}

type extractor struct {
	ns            string
	reportType    ReportType
	includeTotals bool
	strategy      strategy
	supported     bool
	reports       model.Reports
}

func (x *extractor) name(local string) xml.Name {
	return xml.Name{Space: x.ns, Local: local}
}

func (x *extractor) require(el *element, parent, local string) (string, error) {
	v, ok := el.find(x.name(local))
	if !ok {
		return "", &MalformedReportError{Reason: parent + " has no " + local}
	}
	return v, nil
}

func (x *extractor) header(el *element) (model.Header, error) {
	report, err := x.require(el, "REPORT_HEADER", "REPORT")
	if err != nil {
		return model.Header{}, err
	}
	mkt, err := x.require(el, "REPORT_HEADER", "MKT_TYPE")
	if err != nil {
		return model.Header{}, err
	}
	interval, err := UpdateInterval(mkt)
	if err != nil {
		return model.Header{}, err
	}
	h := model.Header{
		Report:         report,
		MarketType:     mkt,
		UpdateInterval: interval,
	}
	// some reports (e.g. ENE_TRANS_LOSS) do not include a UOM
	if uom, ok := el.find(x.name("UOM")); ok {
		h.UOM = uom
	}
	return h, nil
}

func (x *extractor) entry(el *element) error {
	s := x.strategy

	group, err := x.require(el, "REPORT_DATA", s.groupBy)
	if err != nil {
		return err
	}
	if s.filterTotals && !x.includeTotals && group == model.TotalsMarker {
		return nil
	}

	raw, err := x.require(el, "REPORT_DATA", "DATA_ITEM")
	if err != nil {
		return err
	}
	item, err := s.label(x.reportType, raw)
	if err != nil {
		return err
	}

	var e model.Entry
	if e.IntervalStartGMT, err = x.require(el, "REPORT_DATA", "INTERVAL_START_GMT"); err != nil {
		return err
	}
	if e.Value, err = x.require(el, "REPORT_DATA", "VALUE"); err != nil {
		return err
	}
	if s.withInterval {
		text, err := x.require(el, "REPORT_DATA", "INTERVAL_NUM")
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			return &MalformedReportError{Reason: "INTERVAL_NUM " + strconv.Quote(text), Err: err}
		}
		e.Interval = &n
	}

	x.reports.Add(group, item, e)
	return nil
}
