package mirror

import (
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/waymirror/waymirror/internal/config"
	"github.com/waymirror/waymirror/internal/models"
)

// Runner drives the page-level queue: one task per selected capture, bounded
// by the configured concurrency, submitted in FIFO order. All queued work
// runs to completion; the first capture-level error is returned after the
// queue drains. There is no cancellation or per-task timeout.
type Runner struct {
	downloader  *Downloader
	concurrency int
	logger      *log.Logger
	metrics     *Metrics
}

// NewRunner creates a runner over a downloader.
func NewRunner(downloader *Downloader, opts config.Options, logger *log.Logger, metrics *Metrics) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		downloader:  downloader,
		concurrency: opts.Concurrency,
		logger:      logger,
		metrics:     metrics,
	}
}

// Run downloads every capture. onDone, when non-nil, fires once per
// completed capture (success or failure) and may be called from concurrent
// goroutines; it is how the caller observes progress.
func (r *Runner) Run(captures []models.Capture, onDone func(models.Capture, error)) error {
	var g errgroup.Group
	g.SetLimit(r.concurrency)

	for _, capture := range captures {
		g.Go(func() error {
			err := r.downloader.DownloadSnapshot(capture)
			if err != nil {
				r.metrics.IncCapture("failed")
				r.logger.Error("capture failed", "timestamp", capture.Timestamp, "url", capture.Original, "err", err)
			} else {
				r.metrics.IncCapture("ok")
				r.logger.Info("capture mirrored", "timestamp", capture.Timestamp, "url", capture.Original)
			}
			if onDone != nil {
				onDone(capture, err)
			}
			return err
		})
	}
	return g.Wait()
}
