package oasis

import (
	"fmt"
	"strings"
)

// MissingFieldError is returned when a request lacks a required field.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing start date, end date, or query name (missing: %s)", strings.Join(e.Fields, ", "))
}

// ReservedFieldError is returned when a request sets a parameter the
// builder owns, such as version.
type ReservedFieldError struct {
	Field string
}

func (e *ReservedFieldError) Error() string {
	return fmt.Sprintf("field %q is set by the proxy and cannot be supplied", e.Field)
}

// FetchError wraps any failure to obtain a readable archive from OASIS.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: upstream returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// InvalidResponseError means OASIS answered with its rejection file instead
// of a report. Code and Description come from that file when present.
type InvalidResponseError struct {
	Code        string
	Description string
}

func (e *InvalidResponseError) Error() string {
	msg := "Invalid response from CAISO API. Please check request and try again."
	if e.Description != "" {
		msg += " " + e.Description
		if e.Code != "" {
			msg += " (code " + e.Code + ")"
		}
	}
	return msg
}

// UnknownMarketTypeError is returned for a MKT_TYPE with no update interval.
type UnknownMarketTypeError struct {
	MarketType string
}

func (e *UnknownMarketTypeError) Error() string {
	return fmt.Sprintf("unknown market type %q", e.MarketType)
}

// UnknownDataItemError is returned when a DATA_ITEM has no alias for its report type.
type UnknownDataItemError struct {
	ReportType ReportType
	DataItem   string
}

func (e *UnknownDataItemError) Error() string {
	return fmt.Sprintf("unknown data item %q for report %s", e.DataItem, e.ReportType)
}

// MalformedReportError is returned when the report file does not have the
// expected structure.
type MalformedReportError struct {
	Reason string
	Err    error
}

func (e *MalformedReportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed report: %s: %v", e.Reason, e.Err)
	}
	return "malformed report: " + e.Reason
}

func (e *MalformedReportError) Unwrap() error {
	return e.Err
}
