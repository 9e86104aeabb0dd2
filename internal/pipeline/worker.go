package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docoutline/internal/pathstore"
)

// Publisher receives finished outlines. *pathstore.Client satisfies it.
type Publisher interface {
	PublishDocument(ctx context.Context, rec pathstore.DocumentRecord) error
}

// Worker processes a single outline job.
type Worker struct {
	extractor *Extractor
	publisher Publisher
	log       *slog.Logger

	// publishSem bounds concurrent publishes across all workers.
	publishSem chan struct{}
	backoff    func(int) time.Duration
}

// NewWorker creates a worker. publisher may be nil, in which case outlines
// are only kept on the job.
func NewWorker(ex *Extractor, publisher Publisher, log *slog.Logger, publishSem chan struct{}) *Worker {
	if publishSem == nil {
		publishSem = make(chan struct{}, 1)
	}
	return &Worker{
		extractor:  ex,
		publisher:  publisher,
		log:        log,
		publishSem: publishSem,
		backoff:    Backoff,
	}
}

// Process runs extraction and publishing for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "file", job.Filename)

	job.SetStatus(StatusParsing, "parsing")
	ex, err := w.extractor.Extract(ctx, job.Filename, job.FileData())
	if err != nil {
		log.Error("extraction failed", "error", err)
		job.AddError(err.Error())
		job.SetFileData(nil)
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	job.SetExtraction(ex)
	log.Info("outline extracted",
		"source", ex.Source,
		"entries", len(ex.Outline.Outline),
		"cached", ex.Cached,
		"duration_ms", ex.Duration.Milliseconds())

	if w.publisher == nil {
		job.SetStatus(StatusCompleted, "done")
		return
	}

	job.SetStatus(StatusPublishing, "publishing")
	rec := pathstore.DocumentRecord{
		DocID:       job.DocID,
		Filename:    job.Filename,
		ContentHash: ex.ContentHash,
		Source:      ex.Source,
		Title:       ex.Outline.Title,
		Outline:     ex.Outline.Outline,
		CreatedAt:   job.CreatedAt,
	}

	select {
	case w.publishSem <- struct{}{}:
	case <-ctx.Done():
		job.AddError(fmt.Sprintf("publish: %s", ctx.Err()))
		job.SetStatus(StatusPartial, "done")
		return
	}
	err = retry(ctx, log, w.backoff, func() error {
		return w.publisher.PublishDocument(ctx, rec)
	})
	<-w.publishSem

	if err != nil {
		log.Error("publish failed", "error", err)
		job.AddError(fmt.Sprintf("publish: %s", err))
		job.SetStatus(StatusPartial, "done")
		return
	}
	job.MarkPublished()
	job.SetStatus(StatusCompleted, "done")
}
