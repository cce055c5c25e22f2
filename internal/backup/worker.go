package backup

import (
	"bytes"
	"context"
	"time"

	"github.com/BruksfildServices01/studio-manager/internal/logger"
	"github.com/BruksfildServices01/studio-manager/internal/metrics"
	"github.com/BruksfildServices01/studio-manager/internal/spreadsheet"
	"github.com/BruksfildServices01/studio-manager/internal/store"
)

// Worker exports the store to a sink on a fixed interval.
type Worker struct {
	store    *store.Store
	sink     Sink
	interval time.Duration
	log      logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewWorker(st *store.Store, sink Sink, interval time.Duration, log logger.Logger, m *metrics.Metrics) *Worker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if log == nil {
		log = logger.Discard()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Worker{
		store:    st,
		sink:     sink,
		interval: interval,
		log:      log,
		metrics:  m,
		now:      time.Now,
	}
}

// FileName is the backup name for instant t.
func FileName(t time.Time) string {
	return "studio-" + t.UTC().Format("20060102T150405Z") + ".xlsx"
}

// RunOnce writes one backup and returns its name.
func (w *Worker) RunOnce(ctx context.Context) (string, error) {
	var buf bytes.Buffer
	if err := spreadsheet.Export(ctx, w.store, &buf); err != nil {
		w.metrics.Backups.WithLabelValues("failed").Inc()
		return "", err
	}

	name := FileName(w.now())
	if err := w.sink.Put(ctx, name, buf.Bytes()); err != nil {
		w.metrics.Backups.WithLabelValues("failed").Inc()
		return "", err
	}

	w.metrics.Backups.WithLabelValues("ok").Inc()
	w.log.Info("backup written", logger.Fields{
		"sink":  w.sink.String(),
		"name":  name,
		"bytes": buf.Len(),
	})
	return name, nil
}

// Run backs up every interval until ctx is cancelled. Failures are logged
// and retried on the next tick.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil {
				w.log.Error("backup failed", logger.Fields{"sink": w.sink.String(), "error": err})
			}
		}
	}
}
