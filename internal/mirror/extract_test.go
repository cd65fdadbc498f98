package mirror

import (
	"slices"
	"strings"
	"testing"
)

func TestExtractAssetURLsResolvesAgainstBase(t *testing.T) {
	html := `<a href="about/">About</a> <img src="/img/logo.png"> <script src="app.js"></script>`
	assets := ExtractAssetURLs(html, "https://example.com/page/index.html")

	for _, want := range []string{
		"https://example.com/page/about/",
		"https://example.com/img/logo.png",
		"https://example.com/page/app.js",
	} {
		if !slices.Contains(assets, want) {
			t.Errorf("missing %q in %v", want, assets)
		}
	}
}

func TestExtractAssetURLsExcludesNonFetchableSchemes(t *testing.T) {
	html := `<img src="data:image/png;base64,AAAA">
		<a href="javascript:void(0)">x</a>
		<a href="JavaScript:alert(1)">y</a>
		<a href="mailto:a@b.c">z</a>
		<img src="/real.png">`
	assets := ExtractAssetURLs(html, "https://example.com/")

	if len(assets) != 1 || assets[0] != "https://example.com/real.png" {
		t.Fatalf("expected only the real asset, got %v", assets)
	}
	for _, a := range assets {
		lower := strings.ToLower(a)
		if strings.HasPrefix(lower, "data:") || strings.HasPrefix(lower, "javascript:") {
			t.Errorf("forbidden scheme leaked: %q", a)
		}
	}
}

func TestExtractAssetURLsSrcsetFirstTokenOnly(t *testing.T) {
	html := `<img srcset="/img/1x.png 1x, /img/2x.png 2x">`
	assets := ExtractAssetURLs(html, "https://example.com/")

	want := []string{
		"https://example.com/img/1x.png",
		"https://example.com/img/2x.png",
	}
	for _, w := range want {
		if !slices.Contains(assets, w) {
			t.Errorf("missing %q in %v", w, assets)
		}
	}
	for _, a := range assets {
		if strings.Contains(a, " ") || strings.HasSuffix(a, "1x") || strings.HasSuffix(a, "2x") {
			t.Errorf("descriptor suffix leaked into URL: %q", a)
		}
	}
}

func TestExtractAssetURLsProtocolRelative(t *testing.T) {
	html := `<script src="//cdn.example.net/lib.js"></script>`
	assets := ExtractAssetURLs(html, "https://example.com/")

	if !slices.Contains(assets, "https://cdn.example.net/lib.js") {
		t.Errorf("protocol-relative URL not resolved: %v", assets)
	}
}

func TestExtractAssetURLsDeduplicates(t *testing.T) {
	html := `<img src="/a.png"><img src="/a.png"><link href="/a.png">`
	assets := ExtractAssetURLs(html, "https://example.com/")

	if len(assets) != 1 {
		t.Errorf("expected deduplicated set, got %v", assets)
	}
}

func TestExtractAssetURLsDropsMalformedCandidates(t *testing.T) {
	html := `<a href="http://%zz/broken">x</a><img src="/ok.png">`
	assets := ExtractAssetURLs(html, "https://example.com/")

	if !slices.Contains(assets, "https://example.com/ok.png") {
		t.Errorf("valid asset lost: %v", assets)
	}
	if len(assets) != 1 {
		t.Errorf("malformed candidate should be dropped silently, got %v", assets)
	}
}
