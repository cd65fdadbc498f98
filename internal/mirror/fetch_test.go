package mirror

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(t *testing.T) (*Fetcher, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	f := NewFetcher(&http.Client{Transport: transport}, "test-agent", nil, nil)
	f.backoffUnit = time.Millisecond
	return f, transport
}

func TestFetcherStreamsBodyToDestination(t *testing.T) {
	f, transport := newTestFetcher(t)
	out := t.TempDir()

	transport.RegisterResponder(http.MethodGet,
		"https://web.archive.org/web/20200101000000id_/https://example.com/",
		httpmock.NewStringResponder(200, "<html>hello</html>"))

	err := f.Download(out, "20200101000000", "https://example.com/")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "20200101000000", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html>hello</html>", string(data))
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestFetcherSkipsExistingDestination(t *testing.T) {
	f, transport := newTestFetcher(t)
	out := t.TempDir()

	dest := filepath.Join(out, "20200101000000", "index.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0o755))
	require.NoError(t, os.WriteFile(dest, []byte("previous run"), 0o644))

	err := f.Download(out, "20200101000000", "https://example.com/")
	require.NoError(t, err)

	assert.Equal(t, 0, transport.GetTotalCallCount(), "resume must issue zero requests")
	data, _ := os.ReadFile(dest)
	assert.Equal(t, "previous run", string(data), "existing file must not be re-validated")
}

func TestFetcherRetriesNon2xxThenSucceeds(t *testing.T) {
	f, transport := newTestFetcher(t)
	out := t.TempDir()

	calls := 0
	transport.RegisterResponder(http.MethodGet,
		"https://web.archive.org/web/20200101000000im_/https://example.com/a.png",
		func(req *http.Request) (*http.Response, error) {
			calls++
			if calls < 3 {
				return httpmock.NewStringResponse(503, "busy"), nil
			}
			return httpmock.NewStringResponse(200, "png-bytes"), nil
		})

	err := f.Download(out, "20200101000000", "https://example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	data, err := os.ReadFile(filepath.Join(out, "20200101000000", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestFetcherExhaustsRetries(t *testing.T) {
	f, transport := newTestFetcher(t)
	out := t.TempDir()

	replayURL := "https://web.archive.org/web/20200101000000id_/https://example.com/gone"
	transport.RegisterResponder(http.MethodGet, replayURL,
		httpmock.NewStringResponder(404, "not archived"))

	err := f.Download(out, "20200101000000", "https://example.com/gone")

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 404, fetchErr.StatusCode)
	assert.Equal(t, replayURL, fetchErr.URL)
	assert.Equal(t, 3, transport.GetTotalCallCount(), "exactly 3 attempts")

	_, statErr := os.Stat(filepath.Join(out, "20200101000000", "gone"))
	assert.True(t, os.IsNotExist(statErr), "no file written on failure")
}

func TestFetcherDoesNotRetryTransportErrors(t *testing.T) {
	f, transport := newTestFetcher(t)
	out := t.TempDir()

	transport.RegisterResponder(http.MethodGet,
		"https://web.archive.org/web/20200101000000id_/https://example.com/",
		httpmock.NewErrorResponder(assert.AnError))

	err := f.Download(out, "20200101000000", "https://example.com/")
	require.Error(t, err)
	assert.Equal(t, 1, transport.GetTotalCallCount(), "transport failures are not retried")
}

func TestFetcherSeenCacheShortCircuits(t *testing.T) {
	f, transport := newTestFetcher(t)
	out := t.TempDir()

	transport.RegisterResponder(http.MethodGet,
		"https://web.archive.org/web/20200101000000im_/https://example.com/logo.png",
		httpmock.NewStringResponder(200, "logo"))

	require.NoError(t, f.Download(out, "20200101000000", "https://example.com/logo.png"))
	require.NoError(t, f.Download(out, "20200101000000", "https://example.com/logo.png"))
	assert.Equal(t, 1, transport.GetTotalCallCount())
}
