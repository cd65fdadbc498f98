// Debug tool to exercise the CDX index query directly
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/waymirror/waymirror/internal/cdx"
	"github.com/waymirror/waymirror/internal/config"
)

func main() {
	rootURL := "https://example.com/"
	if len(os.Args) > 1 {
		rootURL = os.Args[1]
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
	})

	opts := config.Default()
	fmt.Printf("Testing CDX listing for: %s\n", rootURL)
	fmt.Printf("Query: %s\n", cdx.BuildQuery(rootURL, opts))

	client := cdx.NewClient(nil, opts.UserAgent, logger)
	captures, err := client.ListCaptures(rootURL, opts)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Captures: %d\n", len(captures))
	for i, c := range captures {
		if i >= 5 {
			fmt.Printf("  ... and %d more\n", len(captures)-5)
			break
		}
		fmt.Printf("  %d. %s %s (%s)\n", i+1, c.Timestamp, c.Original, c.MimeType)
	}
}
