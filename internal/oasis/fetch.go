package oasis

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"oasis-proxy/internal/metrics"

	"golang.org/x/net/html/charset"
)

const (
	// InvalidRequestFile is the archive entry OASIS returns when it rejects a query.
	InvalidRequestFile = "INVALID_REQUEST.xml"

	DefaultTimeout         = 30 * time.Second
	DefaultMaxArchiveBytes = 64 << 20
	defaultUserAgent       = "oasis-proxy/1.0"
)

// Client fetches report archives from OASIS.
type Client struct {
	HTTP            *http.Client
	MaxArchiveBytes int64
	UserAgent       string
	Logger          *slog.Logger
}

// NewClient creates a client with the given request timeout.
// A zero timeout means DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		HTTP: &http.Client{
			Timeout: timeout,
		},
		MaxArchiveBytes: DefaultMaxArchiveBytes,
		UserAgent:       defaultUserAgent,
		Logger:          slog.Default().With("component", "oasis"),
	}
}

// Archive is an in-memory zip returned by OASIS.
type Archive struct {
	zr *zip.Reader
}

// OpenArchive reads raw zip bytes. The archive must hold at least one entry.
func OpenArchive(raw []byte) (*Archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("decode archive: %w", err)
	}
	if len(zr.File) == 0 {
		return nil, errors.New("archive has no entries")
	}
	return &Archive{zr: zr}, nil
}

// Name returns the name of the primary entry.
func (a *Archive) Name() string {
	return a.zr.File[0].Name
}

// OpenPrimaryEntry opens the first entry of the archive. If OASIS rejected
// the query the entry is its rejection file and an *InvalidResponseError is
// returned instead.
func (a *Archive) OpenPrimaryEntry() (io.ReadCloser, error) {
	f := a.zr.File[0]
	if f.Name == InvalidRequestFile {
		invalid := &InvalidResponseError{}
		if rc, err := f.Open(); err == nil {
			invalid.Code, invalid.Description = readRejection(rc)
			rc.Close()
		}
		return nil, invalid
	}
	rc, err := f.Open()
	if err != nil {
		return nil, &MalformedReportError{Reason: "open " + f.Name, Err: err}
	}
	return rc, nil
}

// readRejection pulls ERR_CODE and ERR_DESC out of a rejection file.
// Missing or unreadable values come back empty.
func readRejection(r io.Reader) (code, desc string) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	for {
		tok, err := dec.Token()
		if err != nil {
			return code, desc
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		var text string
		switch se.Name.Local {
		case "ERR_CODE":
			if dec.DecodeElement(&text, &se) == nil && code == "" {
				code = text
			}
		case "ERR_DESC":
			if dec.DecodeElement(&text, &se) == nil && desc == "" {
				desc = text
			}
		}
		if code != "" && desc != "" {
			return code, desc
		}
	}
}

// Fetch downloads the archive at url. Every failure to produce a readable
// archive is returned as a *FetchError.
func (c *Client) Fetch(ctx context.Context, url string) (*Archive, error) {
	log := c.logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("transport_error").Inc()
		return nil, &FetchError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/zip")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	log.Info("upstream request", "url", url)
	start := time.Now()
	resp, err := c.httpClient().Do(req)
	duration := time.Since(start)
	metrics.UpstreamDuration.Observe(duration.Seconds())
	if err != nil {
		log.Warn("upstream request failed", "url", url, "duration", duration, "error", err)
		metrics.UpstreamRequests.WithLabelValues("transport_error").Inc()
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	log.Info("upstream response", "status", resp.StatusCode, "duration", duration)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamRequests.WithLabelValues("bad_status").Inc()
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	limit := c.MaxArchiveBytes
	if limit <= 0 {
		limit = DefaultMaxArchiveBytes
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("transport_error").Inc()
		return nil, &FetchError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(raw)) > limit {
		metrics.UpstreamRequests.WithLabelValues("bad_archive").Inc()
		return nil, &FetchError{URL: url, Err: fmt.Errorf("archive exceeds %d bytes", limit)}
	}

	archive, err := OpenArchive(raw)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("bad_archive").Inc()
		return nil, &FetchError{URL: url, Err: err}
	}

	metrics.UpstreamRequests.WithLabelValues("ok").Inc()
	log.Info("upstream archive received", "entry", archive.Name(), "bytes", len(raw))
	return archive, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return &http.Client{Timeout: DefaultTimeout}
	}
	return c.HTTP
}

func (c *Client) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
