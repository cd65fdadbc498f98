package config

import (
	"strings"
	"testing"
)

func validOptions() Options {
	o := Default()
	o.OutputRoot = "websites/example.com"
	return o
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr string
	}{
		{"valid defaults", func(o *Options) {}, ""},
		{"empty output root", func(o *Options) { o.OutputRoot = "" }, "output root"},
		{"zero concurrency", func(o *Options) { o.Concurrency = 0 }, "concurrency"},
		{"negative concurrency", func(o *Options) { o.Concurrency = -1 }, "concurrency"},
		{"short from", func(o *Options) { o.From = "2020" }, "from"},
		{"non-digit to", func(o *Options) { o.To = "2020010a" }, "to"},
		{"valid bounds", func(o *Options) { o.From = "20190101"; o.To = "20201231" }, ""},
		{"empty user agent", func(o *Options) { o.UserAgent = "" }, "user agent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := validOptions()
			tt.mutate(&opts)
			err := opts.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultReadsEnvironment(t *testing.T) {
	t.Setenv("WAYMIRROR_CONCURRENCY", "4")
	t.Setenv("WAYMIRROR_OUTPUT", "mirrors")

	opts := Default()
	if opts.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", opts.Concurrency)
	}
	if opts.OutputRoot != "mirrors" {
		t.Errorf("OutputRoot = %q, want %q", opts.OutputRoot, "mirrors")
	}
}

func TestDefaultIgnoresInvalidEnvironment(t *testing.T) {
	t.Setenv("WAYMIRROR_CONCURRENCY", "lots")

	opts := Default()
	if opts.Concurrency != 10 {
		t.Errorf("Concurrency = %d, want fallback 10", opts.Concurrency)
	}
}
