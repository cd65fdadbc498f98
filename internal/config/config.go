package config

import (
	"fmt"
	"os"
	"strconv"
)

// Options is the closed set of knobs the download pipeline consumes. It is
// built once at startup and passed by value into every component entry
// point; nothing in the pipeline mutates it or reads configuration from
// anywhere else.
type Options struct {
	OutputRoot      string // root directory for mirrored snapshots
	Concurrency     int    // page-level download slots
	From            string // inclusive 8-digit YYYYMMDD lower bound, optional
	To              string // inclusive 8-digit YYYYMMDD upper bound, optional
	Rewrite         bool   // strip archive replay prefixes from mirrored HTML
	Debug           bool   // append capture metadata to debug.json per snapshot dir
	IncludeExternal bool   // also fetch assets hosted off the page's hostname
	NoDedup         bool   // skip the CDX digest collapse (keep byte-identical captures)
	MetricsAddr     string // optional listen address for /metrics, e.g. ":9090"
	UserAgent       string
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Default returns options with environment-backed defaults. Flags parsed in
// cmd override these afterwards.
func Default() Options {
	return Options{
		OutputRoot:  envString("WAYMIRROR_OUTPUT", ""),
		Concurrency: envInt("WAYMIRROR_CONCURRENCY", 10),
		MetricsAddr: envString("WAYMIRROR_METRICS_ADDR", ""),
		UserAgent:   envString("WAYMIRROR_USER_AGENT", defaultUserAgent),
	}
}

// Validate ensures the options are coherent before the pipeline starts.
func (o Options) Validate() error {
	if o.OutputRoot == "" {
		return fmt.Errorf("output root cannot be empty")
	}
	if o.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive")
	}
	if err := validateDateBound("from", o.From); err != nil {
		return err
	}
	if err := validateDateBound("to", o.To); err != nil {
		return err
	}
	if o.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	return nil
}

// validateDateBound accepts either an absent bound or an 8-digit YYYYMMDD
// prefix, the only forms the CDX API takes verbatim.
func validateDateBound(name, value string) error {
	if value == "" {
		return nil
	}
	if len(value) != 8 {
		return fmt.Errorf("%s must be an 8-digit YYYYMMDD date, got %q", name, value)
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return fmt.Errorf("%s must be an 8-digit YYYYMMDD date, got %q", name, value)
		}
	}
	return nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
