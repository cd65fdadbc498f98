package cdx

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// RootDomain extracts the registrable root domain from a URL or hostname,
// handling multi-part TLDs like .co.uk. Used to derive the default output
// directory for a mirror run.
//
// Examples:
//   - "https://blog.example.com/" -> "example.com"
//   - "example.co.uk" -> "example.co.uk"
func RootDomain(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("empty input")
	}

	if strings.Contains(input, "://") {
		parsed, err := url.Parse(input)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		input = parsed.Hostname()
	}
	input = strings.TrimSuffix(input, ".")

	root, err := publicsuffix.EffectiveTLDPlusOne(input)
	if err != nil {
		return "", fmt.Errorf("failed to extract root domain: %w", err)
	}
	return root, nil
}
