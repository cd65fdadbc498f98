package models

import "fmt"

// Capture is one row from a Wayback Machine CDX index query: a single
// recorded fetch of a URL, identified by the archive's capture time and the
// URL as it existed at capture time.
type Capture struct {
	Timestamp string // 14-digit format: YYYYMMDDhhmmss, treated as opaque
	Original  string // the captured resource's own URL, not the replay URL
	MimeType  string // optional; empty when the index reports "-" or nothing
}

// Label renders a capture for interactive selection lists,
// e.g. "2020-01-01 00:00:00  text/html".
func (c Capture) Label() string {
	ts := c.Timestamp
	if len(ts) != 14 {
		return ts
	}
	label := fmt.Sprintf("%s-%s-%s %s:%s:%s",
		ts[0:4], ts[4:6], ts[6:8], ts[8:10], ts[10:12], ts[12:14])
	if c.MimeType != "" {
		label += "  " + c.MimeType
	}
	return label
}
