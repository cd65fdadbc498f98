package mirror

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// TargetPath maps a capture onto its on-disk destination:
// <outputRoot>/<timestamp>/<url-path-with-leading-slash-stripped>. A path
// ending in "/" (or an empty path) gains a synthetic index.html leaf so page
// roots map to real filenames. Content is keyed purely by URL path, not
// hostname: same-origin mirroring is the common case, and nesting everything
// under one per-timestamp directory keeps the mirror browsable in place.
//
// Known limitation: URLs differing only in query string or fragment collapse
// to the same destination. The first writer for a destination wins; later
// writers are skipped by the Fetcher's existence check.
func TargetPath(outputRoot, timestamp, original string) (string, error) {
	parsed, err := url.Parse(original)
	if err != nil {
		return "", fmt.Errorf("unparseable capture URL %q: %w", original, err)
	}

	p := parsed.Path
	if p == "" || strings.HasSuffix(p, "/") {
		p += "index.html"
	}
	p = strings.TrimPrefix(p, "/")

	return filepath.Join(outputRoot, timestamp, filepath.FromSlash(p)), nil
}
