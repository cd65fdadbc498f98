package mirror

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	maxAttempts = 3

	// seenCacheSize bounds the per-run cache of completed destinations.
	// Shared assets (logos, stylesheets) recur on most pages of a site, so
	// remembering them saves a stat per recurrence.
	seenCacheSize = 8192
)

// FetchError reports a resource GET that exhausted all retry attempts.
type FetchError struct {
	StatusCode int
	URL        string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed with status %d: %s", e.StatusCode, e.URL)
}

// Fetcher performs retried, resumable downloads of single archived resources
// to their mapped destination paths.
type Fetcher struct {
	client    *http.Client
	userAgent string
	logger    *log.Logger
	metrics   *Metrics

	// backoffUnit scales the linear retry delay (attempt x unit). Tests
	// shrink it; production uses one second per the archive's tolerance.
	backoffUnit time.Duration

	seen *lru.Cache[string, struct{}]
}

// NewFetcher creates a fetcher. A nil client falls back to
// http.DefaultClient; metrics may be nil.
func NewFetcher(client *http.Client, userAgent string, logger *log.Logger, metrics *Metrics) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	seen, _ := lru.New[string, struct{}](seenCacheSize)
	return &Fetcher{
		client:      client,
		userAgent:   userAgent,
		logger:      logger,
		metrics:     metrics,
		backoffUnit: time.Second,
		seen:        seen,
	}
}

// Download fetches one capture of original into its destination under
// outputRoot. A destination that already exists is never re-fetched or
// re-validated: a prior run's successful write stands. Non-2xx responses are
// retried up to maxAttempts with linear backoff; transport-level failures
// are not retried and fail the operation as-is. The response body streams
// straight to disk.
func (f *Fetcher) Download(outputRoot, timestamp, original string) error {
	dest, err := TargetPath(outputRoot, timestamp, original)
	if err != nil {
		return err
	}

	if f.seen.Contains(dest) {
		f.metrics.IncFetch("skipped")
		return nil
	}
	if _, err := os.Stat(dest); err == nil {
		f.seen.Add(dest, struct{}{})
		f.metrics.IncFetch("skipped")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	replayURL := WaybackURL(original, timestamp)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequest(http.MethodGet, replayURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", f.userAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			f.metrics.IncFetch("failed")
			return fmt.Errorf("request failed: %w", err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			err := f.stream(resp.Body, dest)
			resp.Body.Close()
			if err != nil {
				f.metrics.IncFetch("failed")
				return err
			}
			f.seen.Add(dest, struct{}{})
			f.metrics.IncFetch("ok")
			f.logger.Debug("fetched", "url", original, "dest", dest, "attempt", attempt)
			return nil
		}

		resp.Body.Close()
		if attempt == maxAttempts {
			f.metrics.IncFetch("failed")
			return &FetchError{StatusCode: resp.StatusCode, URL: replayURL}
		}
		f.metrics.IncRetries()
		f.logger.Debug("retrying", "url", replayURL, "status", resp.StatusCode, "attempt", attempt)
		time.Sleep(time.Duration(attempt) * f.backoffUnit)
	}
	return nil // unreachable; the loop always returns
}

// stream copies the body to dest without buffering the whole payload. A
// partial file from a mid-stream failure is removed so the existence check
// stays an honest resume marker.
func (f *Fetcher) stream(body io.Reader, dest string) error {
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, body); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("stream to %s failed: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return fmt.Errorf("failed to close %s: %w", dest, err)
	}
	return nil
}
