package mirror

import (
	"net/http"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waymirror/waymirror/internal/config"
	"github.com/waymirror/waymirror/internal/models"
)

func TestRunnerCompletesAllCapturesAndPropagatesFirstError(t *testing.T) {
	out := t.TempDir()
	opts := config.Options{OutputRoot: out, Concurrency: 2}

	transport := httpmock.NewMockTransport()
	fetcher := NewFetcher(&http.Client{Transport: transport}, "test-agent", nil, nil)
	fetcher.backoffUnit = time.Millisecond
	downloader := NewDownloader(fetcher, opts, nil, nil)
	runner := NewRunner(downloader, opts, nil, nil)

	captures := []models.Capture{
		{Timestamp: "20200101000000", Original: "https://example.com/", MimeType: "text/html"},
		{Timestamp: "20210101000000", Original: "https://example.com/", MimeType: "text/html"},
		{Timestamp: "20220101000000", Original: "https://example.com/", MimeType: "text/html"},
	}

	transport.RegisterResponder(http.MethodGet,
		"https://web.archive.org/web/20200101000000id_/https://example.com/",
		httpmock.NewStringResponder(200, "<html></html>"))
	transport.RegisterResponder(http.MethodGet,
		"https://web.archive.org/web/20210101000000id_/https://example.com/",
		httpmock.NewStringResponder(500, "boom"))
	transport.RegisterResponder(http.MethodGet,
		"https://web.archive.org/web/20220101000000id_/https://example.com/",
		httpmock.NewStringResponder(200, "<html></html>"))

	var mu sync.Mutex
	completed := 0
	failed := 0

	err := runner.Run(captures, func(_ models.Capture, err error) {
		mu.Lock()
		defer mu.Unlock()
		completed++
		if err != nil {
			failed++
		}
	})

	require.Error(t, err, "a capture-level failure surfaces from the run")
	assert.Equal(t, 3, completed, "all queued work runs to completion")
	assert.Equal(t, 1, failed)

	assert.FileExists(t, filepath.Join(out, "20200101000000", "index.html"))
	assert.FileExists(t, filepath.Join(out, "20220101000000", "index.html"))
	assert.NoFileExists(t, filepath.Join(out, "20210101000000", "index.html"))
}

func TestRunnerToleratesDuplicateCaptures(t *testing.T) {
	out := t.TempDir()
	opts := config.Options{OutputRoot: out, Concurrency: 2}

	transport := httpmock.NewMockTransport()
	fetcher := NewFetcher(&http.Client{Transport: transport}, "test-agent", nil, nil)
	fetcher.backoffUnit = time.Millisecond
	downloader := NewDownloader(fetcher, opts, nil, nil)
	runner := NewRunner(downloader, opts, nil, nil)

	capture := models.Capture{Timestamp: "20200101000000", Original: "https://example.com/", MimeType: "text/html"}
	transport.RegisterResponder(http.MethodGet,
		"https://web.archive.org/web/20200101000000id_/https://example.com/",
		httpmock.NewStringResponder(200, "<html></html>"))

	err := runner.Run([]models.Capture{capture, capture}, nil)
	require.NoError(t, err, "duplicate index rows must be tolerated without erroring")
}
