package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	huhspinner "github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/waymirror/waymirror/internal/cdx"
	"github.com/waymirror/waymirror/internal/config"
	"github.com/waymirror/waymirror/internal/deploy"
	"github.com/waymirror/waymirror/internal/mirror"
	"github.com/waymirror/waymirror/internal/models"
	"github.com/waymirror/waymirror/internal/ui"
)

func main() {
	ui.ShowSplash()

	// Load .env if present (silently ignore if not found)
	_ = godotenv.Load()

	opts := config.Default()

	outFlag := flag.String("out", opts.OutputRoot, "Output directory (default: websites/<rootdomain>)")
	concurrencyFlag := flag.Int("c", opts.Concurrency, "Page-level download concurrency")
	fromFlag := flag.String("from", "", "Inclusive lower date bound, YYYYMMDD")
	toFlag := flag.String("to", "", "Inclusive upper date bound, YYYYMMDD")
	rewriteFlag := flag.Bool("rewrite", false, "Strip archive replay prefixes from mirrored HTML")
	debugFlag := flag.Bool("debug", false, "Append capture metadata to debug.json per snapshot")
	externalFlag := flag.Bool("external", false, "Also fetch assets hosted off the page's hostname")
	noDedupFlag := flag.Bool("no-dedup", false, "Keep byte-identical consecutive captures")
	allFlag := flag.Bool("all", false, "Mirror every capture without interactive selection")
	listFlag := flag.Bool("list", false, "List captures and exit without downloading")
	deployFlag := flag.Bool("deploy", false, "Deploy the newest mirrored snapshot via the Netlify CLI")
	prodFlag := flag.Bool("prod", false, "Promote the deploy to production (with -deploy)")
	metricsFlag := flag.String("metrics", opts.MetricsAddr, "Listen address for Prometheus /metrics (optional)")
	verboseFlag := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	if flag.NArg() != 1 {
		ui.PrintError("usage: waymirror [flags] <url>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	rootURL := flag.Arg(0)

	opts.Concurrency = *concurrencyFlag
	opts.From = *fromFlag
	opts.To = *toFlag
	opts.Rewrite = *rewriteFlag
	opts.Debug = *debugFlag
	opts.IncludeExternal = *externalFlag
	opts.NoDedup = *noDedupFlag
	opts.MetricsAddr = *metricsFlag
	opts.OutputRoot = *outFlag
	if opts.OutputRoot == "" {
		root, err := cdx.RootDomain(rootURL)
		if err != nil {
			ui.PrintError(fmt.Sprintf("Cannot derive output directory from %q: %v", rootURL, err))
			os.Exit(1)
		}
		opts.OutputRoot = filepath.Join("websites", root)
	}

	if err := opts.Validate(); err != nil {
		ui.PrintError(err.Error())
		os.Exit(2)
	}

	level := log.InfoLevel
	if *verboseFlag {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})

	metrics := mirror.NewMetrics()
	if opts.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(opts.MetricsAddr, mux); err != nil {
				logger.Warn("metrics listener stopped", "addr", opts.MetricsAddr, "err", err)
			}
		}()
	}

	client := cdx.NewClient(nil, opts.UserAgent, logger)

	var captures []models.Capture
	var listErr error
	if err := ui.RunWithSpinner("Querying capture index...", func() {
		captures, listErr = client.ListCaptures(rootURL, opts)
	}); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
	if listErr != nil {
		var queryErr *cdx.QueryError
		if errors.As(listErr, &queryErr) {
			ui.PrintError(fmt.Sprintf("Capture index rejected the query: %s", queryErr.Status))
		} else {
			ui.PrintError(listErr.Error())
		}
		os.Exit(1)
	}
	if len(captures) == 0 {
		ui.PrintError(fmt.Sprintf("No captures found for %s", rootURL))
		os.Exit(1)
	}
	ui.PrintSuccess(fmt.Sprintf("Found %d capture(s) of %s", len(captures), rootURL))

	if *listFlag {
		for _, c := range captures {
			fmt.Printf("  %s  %s\n", c.Timestamp, c.Original)
		}
		return
	}

	selected := captures
	if !*allFlag {
		var err error
		selected, err = ui.SelectCaptures(captures)
		if err != nil {
			ui.PrintError(err.Error())
			os.Exit(1)
		}
		if len(selected) == 0 {
			ui.PrintError("Nothing selected")
			return
		}
		confirmed, err := ui.ConfirmDownload(len(selected), opts.OutputRoot)
		if err != nil || !confirmed {
			return
		}
	}

	fetcher := mirror.NewFetcher(&http.Client{}, opts.UserAgent, logger, metrics)
	downloader := mirror.NewDownloader(fetcher, opts, logger, metrics)
	runner := mirror.NewRunner(downloader, opts, logger, metrics)

	runErr := ui.RunWithProgress(len(selected), func(report func(error)) error {
		return runner.Run(selected, func(_ models.Capture, err error) {
			report(err)
		})
	})
	if runErr != nil {
		ui.PrintError(fmt.Sprintf("Mirror finished with errors: %v", runErr))
		os.Exit(1)
	}
	ui.PrintSuccess(fmt.Sprintf("Mirrored %d snapshot(s) into %s", len(selected), opts.OutputRoot))

	if *deployFlag {
		if err := deploySnapshot(selected, opts.OutputRoot, *prodFlag); err != nil {
			ui.PrintError(err.Error())
			os.Exit(1)
		}
	}
}

// deploySnapshot publishes the newest selected snapshot directory. Timestamps
// are 14-digit strings, so lexicographic order is chronological order.
func deploySnapshot(selected []models.Capture, outputRoot string, prod bool) error {
	newest := ""
	for _, c := range selected {
		if c.Timestamp > newest {
			newest = c.Timestamp
		}
	}
	if newest == "" {
		return fmt.Errorf("no snapshot to deploy")
	}
	dir := filepath.Join(outputRoot, newest)

	if err := deploy.CLIAvailable(); err != nil {
		return err
	}
	ctx := context.Background()
	if err := deploy.LoggedIn(ctx); err != nil {
		return err
	}

	confirmed, err := ui.ConfirmDeploy(dir, prod)
	if err != nil || !confirmed {
		return err
	}
	if err := deploy.WriteConfig(dir); err != nil {
		return err
	}

	var deployErr error
	if err := huhspinner.New().
		Title("Deploying " + dir + "...").
		Action(func() { deployErr = deploy.Deploy(ctx, dir, prod) }).
		Run(); err != nil {
		return err
	}
	if deployErr != nil {
		return deployErr
	}
	ui.PrintSuccess("Deployed " + dir)
	return nil
}
