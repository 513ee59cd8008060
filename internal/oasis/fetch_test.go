package oasis

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveBytes(t *testing.T, status int, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-zip-compressed")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchOpensPrimaryEntry(t *testing.T) {
	doc := systemLoadXML()
	srv := serveBytes(t, http.StatusOK, zipBytes(t, "20210818_20210819_ENE_SLRS_RTM_20210819_00_00_00_v1.xml", doc))

	archive, err := NewClient(time.Second).Fetch(context.Background(), srv.URL+"/oasisapi/SingleZip?queryname=ENE_SLRS")
	require.NoError(t, err)

	rc, err := archive.OpenPrimaryEntry()
	require.NoError(t, err)
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, doc, string(raw))
}

func TestFetchSendsQuery(t *testing.T) {
	var gotQuery, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAgent = r.UserAgent()
		_, _ = w.Write(zipBytes(t, "report.xml", systemLoadXML()))
	}))
	defer srv.Close()

	_, err := NewClient(time.Second).Fetch(context.Background(), srv.URL+"?queryname=ENE_SLRS&version=1")
	require.NoError(t, err)
	assert.Equal(t, "queryname=ENE_SLRS&version=1", gotQuery)
	assert.Equal(t, defaultUserAgent, gotAgent)
}

func TestFetchInvalidRequest(t *testing.T) {
	srv := serveBytes(t, http.StatusOK, zipBytes(t, InvalidRequestFile, rejectionXML))

	archive, err := NewClient(time.Second).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	_, err = archive.OpenPrimaryEntry()
	var invalid *InvalidResponseError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "1000", invalid.Code)
	assert.Equal(t, "No data returned for the specified selection", invalid.Description)
	assert.Contains(t, err.Error(), "Please check request and try again.")
	assert.Contains(t, err.Error(), "No data returned")
}

func TestInvalidRequestLatin1(t *testing.T) {
	doc := latin1(strings.Replace(rejectionXML, "No data returned for the specified selection", "Fecha inv\xe1lida", 1))
	archive, err := OpenArchive(zipBytes(t, InvalidRequestFile, doc))
	require.NoError(t, err)

	_, err = archive.OpenPrimaryEntry()
	var invalid *InvalidResponseError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "1000", invalid.Code)
	assert.Equal(t, "Fecha inválida", invalid.Description)
}

func TestInvalidRequestWithoutDetails(t *testing.T) {
	archive, err := OpenArchive(zipBytes(t, InvalidRequestFile, "garbage"))
	require.NoError(t, err)

	_, err = archive.OpenPrimaryEntry()
	var invalid *InvalidResponseError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "Invalid response from CAISO API. Please check request and try again.", err.Error())
}

func TestFetchErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   []byte
	}{
		{"server error", http.StatusInternalServerError, []byte("oops")},
		{"not a zip", http.StatusOK, []byte("<html>maintenance</html>")},
		{"empty body", http.StatusOK, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := serveBytes(t, tc.status, tc.body)
			_, err := NewClient(time.Second).Fetch(context.Background(), srv.URL)
			var fetchErr *FetchError
			require.True(t, errors.As(err, &fetchErr), "got %v", err)
			assert.Equal(t, srv.URL, fetchErr.URL)
		})
	}
}

func TestFetchStatusCode(t *testing.T) {
	srv := serveBytes(t, http.StatusServiceUnavailable, nil)
	_, err := NewClient(time.Second).Fetch(context.Background(), srv.URL)
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusServiceUnavailable, fetchErr.StatusCode)
}

func TestFetchArchiveTooLarge(t *testing.T) {
	srv := serveBytes(t, http.StatusOK, zipBytes(t, "report.xml", systemLoadXML()))
	client := NewClient(time.Second)
	client.MaxArchiveBytes = 16

	_, err := client.Fetch(context.Background(), srv.URL)
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Contains(t, err.Error(), "exceeds")
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewClient(50*time.Millisecond).Fetch(context.Background(), srv.URL)
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Zero(t, fetchErr.StatusCode)
}

func TestFetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(time.Second).Fetch(context.Background(), url)
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
}
