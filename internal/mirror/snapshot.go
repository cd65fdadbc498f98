package mirror

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/waymirror/waymirror/internal/config"
	"github.com/waymirror/waymirror/internal/models"
)

const debugFileName = "debug.json"

// Downloader mirrors one capture at a time: the page itself, then every
// asset the page's HTML references, fanned out under a bounded queue.
type Downloader struct {
	fetcher *Fetcher
	opts    config.Options
	logger  *log.Logger
	metrics *Metrics
}

// NewDownloader creates a snapshot downloader over an existing fetcher.
func NewDownloader(fetcher *Fetcher, opts config.Options, logger *log.Logger, metrics *Metrics) *Downloader {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Downloader{fetcher: fetcher, opts: opts, logger: logger, metrics: metrics}
}

// DownloadSnapshot mirrors one capture. A page fetch that exhausts its
// retries is fatal to this capture and propagates; asset fetches swallow
// their own failures, so a broken image never fails its page. When the page
// cannot be read back for asset discovery the capture still counts as
// complete.
func (d *Downloader) DownloadSnapshot(capture models.Capture) error {
	dest, err := TargetPath(d.opts.OutputRoot, capture.Timestamp, capture.Original)
	if err != nil {
		return err
	}

	if err := d.fetcher.Download(d.opts.OutputRoot, capture.Timestamp, capture.Original); err != nil {
		return fmt.Errorf("page fetch: %w", err)
	}

	// Debug capture keeps the raw archive output intact, so the rewrite pass
	// only runs without it.
	if d.opts.Rewrite && !d.opts.Debug && looksLikeHTML(capture.MimeType) {
		if err := stripReplayPrefixes(dest, capture.Timestamp); err != nil {
			return fmt.Errorf("rewrite: %w", err)
		}
	}

	if d.opts.Debug {
		if err := appendDebugRecord(d.opts.OutputRoot, capture); err != nil {
			return fmt.Errorf("debug record: %w", err)
		}
	}

	assets, ok := d.discoverAssets(dest, capture)
	if !ok {
		return nil
	}
	d.metrics.AddAssets(len(assets))

	var g errgroup.Group
	// Narrower than the page-level queue on purpose: one page's asset burst
	// should not monopolize the archive.
	g.SetLimit(assetConcurrency(d.opts.Concurrency))
	for _, asset := range assets {
		g.Go(func() error {
			if err := d.fetcher.Download(d.opts.OutputRoot, capture.Timestamp, asset); err != nil {
				d.logger.Warn("asset fetch failed", "url", asset, "err", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// discoverAssets reads the mirrored page back and extracts the asset URLs to
// fetch, already narrowed to the page's hostname unless external assets are
// requested. The second return value distinguishes "discovery ran" from
// "page unreadable, discovery skipped" so callers and tests can tell a
// zero-asset page from a skipped one.
func (d *Downloader) discoverAssets(dest string, capture models.Capture) ([]string, bool) {
	data, err := os.ReadFile(dest)
	if err != nil {
		d.logger.Debug("asset discovery skipped", "dest", dest, "err", err)
		return nil, false
	}

	pageURL, err := url.Parse(capture.Original)
	if err != nil {
		return nil, false
	}

	discovered := ExtractAssetURLs(string(data), capture.Original)
	if d.opts.IncludeExternal {
		return discovered, true
	}

	var sameHost []string
	for _, asset := range discovered {
		parsed, err := url.Parse(asset)
		if err != nil {
			continue
		}
		if parsed.Hostname() == pageURL.Hostname() {
			sameHost = append(sameHost, asset)
		}
	}
	return sameHost, true
}

// assetConcurrency clamps the configured concurrency into [2, 10] for the
// per-page asset queue.
func assetConcurrency(n int) int {
	if n < 2 {
		return 2
	}
	if n > 10 {
		return 10
	}
	return n
}

func looksLikeHTML(mimeType string) bool {
	return mimeType == "" || strings.Contains(mimeType, "html")
}

// stripReplayPrefixes removes the archive's timestamp+identity-modifier URL
// prefix from embedded links, leaving the mirror locally browsable. This is
// a textual substitution, not an HTML-aware rewrite, matching how the replay
// layer injected the prefixes in the first place.
func stripReplayPrefixes(path, timestamp string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	prefixes := []string{
		"https://web.archive.org/web/" + timestamp + ModifierIdentity + "/",
		"http://web.archive.org/web/" + timestamp + ModifierIdentity + "/",
		"//web.archive.org/web/" + timestamp + ModifierIdentity + "/",
		"/web/" + timestamp + ModifierIdentity + "/",
	}

	rewritten := data
	for _, prefix := range prefixes {
		rewritten = bytes.ReplaceAll(rewritten, []byte(prefix), nil)
	}
	if bytes.Equal(rewritten, data) {
		return nil
	}
	return os.WriteFile(path, rewritten, 0o644)
}

type debugRecord struct {
	Timestamp string `json:"timestamp"`
	Original  string `json:"original"`
	MimeType  string `json:"mimetype"`
}

// appendDebugRecord appends one JSON line for the capture to the timestamp
// directory's debug.json. The file accumulates one line per processed
// capture across the whole run. Write failures propagate; there is no retry.
func appendDebugRecord(outputRoot string, capture models.Capture) error {
	dir := filepath.Join(outputRoot, capture.Timestamp)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, debugFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	line, err := json.Marshal(debugRecord{
		Timestamp: capture.Timestamp,
		Original:  capture.Original,
		MimeType:  capture.MimeType,
	})
	if err != nil {
		return err
	}
	_, err = f.Write(append(line, '\n'))
	return err
}
