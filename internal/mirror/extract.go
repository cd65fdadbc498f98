package mirror

import (
	"net/url"
	"regexp"
	"strings"
)

// Attribute scanning is a deliberate textual pass, not a DOM parse: archived
// markup is frequently malformed and we only need candidate URLs, not
// structure. srcset is handled separately because each comma-separated
// descriptor carries a URL plus an optional width/resolution suffix.
var (
	srcHrefPattern = regexp.MustCompile(`(?i)\b(?:src|href)\s*=\s*["']([^"']+)["']`)
	srcsetPattern  = regexp.MustCompile(`(?i)\bsrcset\s*=\s*["']([^"']+)["']`)
)

// ExtractAssetURLs scans raw HTML for src=, href= and srcset= attribute
// values and resolves each candidate against base. Malformed candidates are
// dropped; only URLs that resolve to http or https survive, and data: and
// javascript: values are excluded outright. The result is a set: duplicates
// collapsed, first-seen order preserved for determinism.
func ExtractAssetURLs(html, base string) []string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil
	}

	var candidates []string
	for _, m := range srcHrefPattern.FindAllStringSubmatch(html, -1) {
		candidates = append(candidates, m[1])
	}
	for _, m := range srcsetPattern.FindAllStringSubmatch(html, -1) {
		// Each descriptor is "<url> <descriptor>?"; only the URL matters.
		for _, descriptor := range strings.Split(m[1], ",") {
			fields := strings.Fields(descriptor)
			if len(fields) > 0 {
				candidates = append(candidates, fields[0])
			}
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	var assets []string
	for _, candidate := range candidates {
		resolved, ok := resolveCandidate(baseURL, candidate)
		if !ok {
			continue
		}
		if _, dup := seen[resolved]; dup {
			continue
		}
		seen[resolved] = struct{}{}
		assets = append(assets, resolved)
	}
	return assets
}

// resolveCandidate turns one attribute value into an absolute http(s) URL,
// reporting false for anything unusable.
func resolveCandidate(base *url.URL, candidate string) (string, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return "", false
	}

	lower := strings.ToLower(candidate)
	if strings.HasPrefix(lower, "data:") || strings.HasPrefix(lower, "javascript:") {
		return "", false
	}

	ref, err := url.Parse(candidate)
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	return resolved.String(), true
}
