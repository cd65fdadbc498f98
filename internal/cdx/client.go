package cdx

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/waymirror/waymirror/internal/config"
	"github.com/waymirror/waymirror/internal/models"
)

const (
	// Endpoint is the Wayback Machine capture-index ("CDX") search API.
	Endpoint = "https://web.archive.org/cdx/search/cdx"

	queryTimeout = 180 * time.Second // large sites can take a while to enumerate
)

// QueryError reports a non-2xx response from the CDX endpoint. Index
// queries are never retried; this is fatal to the run.
type QueryError struct {
	StatusCode int
	Status     string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("cdx query returned %s", e.Status)
}

// Client issues capture-index queries against the Wayback Machine.
type Client struct {
	httpClient *http.Client
	userAgent  string
	logger     *log.Logger
}

// NewClient creates a CDX client. A nil httpClient gets a default with a
// generous timeout.
func NewClient(httpClient *http.Client, userAgent string, logger *log.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: queryTimeout}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{httpClient: httpClient, userAgent: userAgent, logger: logger}
}

// BuildQuery constructs the raw query string for a capture listing of
// rootURL. matchType=exact restricts results to the exact URL rather than
// its subtree, and the statuscode filter drops redirects and errors. Unless
// opts.NoDedup is set, collapse=digest merges consecutive byte-identical
// captures so they are not mirrored twice. From/To bounds are appended
// verbatim when present.
func BuildQuery(rootURL string, opts config.Options) string {
	params := url.Values{}
	params.Set("url", strings.TrimSpace(rootURL))
	params.Set("output", "json")
	params.Set("filter", "statuscode:200")
	params.Set("fl", "timestamp,original,mimetype")
	params.Set("matchType", "exact")
	if !opts.NoDedup {
		params.Set("collapse", "digest")
	}
	if opts.From != "" {
		params.Set("from", opts.From)
	}
	if opts.To != "" {
		params.Set("to", opts.To)
	}
	return params.Encode()
}

// ListCaptures fetches every capture of rootURL matching opts, in the order
// the index returns them. Duplicate (timestamp, original) rows are kept;
// callers tolerate them downstream. A non-2xx response yields *QueryError.
func (c *Client) ListCaptures(rootURL string, opts config.Options) ([]models.Capture, error) {
	rawURL := Endpoint + "?" + BuildQuery(rootURL, opts)

	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Referer", "https://web.archive.org/")
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cdx request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &QueryError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	// Setting Accept-Encoding ourselves disables the transport's transparent
	// decompression, so handle gzip here.
	var reader io.Reader = resp.Body
	if strings.Contains(strings.ToLower(resp.Header.Get("Content-Encoding")), "gzip") {
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		reader = gzReader
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read cdx response: %w", err)
	}

	captures, err := parseCaptures(body)
	if err != nil {
		return nil, err
	}
	c.logger.Info("cdx listing fetched", "url", rootURL, "captures", len(captures))
	return captures, nil
}

// parseCaptures decodes the rows-of-columns JSON body. The first row is the
// field-name header and is discarded; remaining rows map positionally to
// timestamp, original and (optionally) mimetype.
func parseCaptures(body []byte) ([]models.Capture, error) {
	var rows [][]string
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse cdx JSON: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	captures := make([]models.Capture, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}
		capture := models.Capture{
			Timestamp: row[0],
			Original:  row[1],
		}
		if len(row) > 2 && row[2] != "" && row[2] != "-" {
			capture.MimeType = row[2]
		}
		captures = append(captures, capture)
	}
	return captures, nil
}
