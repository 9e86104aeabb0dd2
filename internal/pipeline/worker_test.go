package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dgallion1/docoutline/internal/cache"
	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pathstore"
)

const sampleMarkdown = `# Handbook

Welcome text.

## Getting Started

Some content.

### Installation

Steps.

## Reference

More content.
`

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testExtractor(t *testing.T, c OutlineCache) *Extractor {
	t.Helper()
	return NewExtractor(outline.NewBuilder(outline.DefaultOptions(), nil), c, nil, testLogger())
}

type fakePublisher struct {
	mu       sync.Mutex
	failures int
	err      error
	calls    int
	records  []pathstore.DocumentRecord
}

func (p *fakePublisher) PublishDocument(_ context.Context, rec pathstore.DocumentRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.calls <= p.failures {
		return p.err
	}
	p.records = append(p.records, rec)
	return nil
}

func noBackoff(int) time.Duration { return 0 }

func TestExtractor_Markdown(t *testing.T) {
	ex := testExtractor(t, nil)
	got, err := ex.Extract(context.Background(), "handbook.md", []byte(sampleMarkdown))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Source != outline.SourceToc {
		t.Errorf("expected toc source, got %q", got.Source)
	}
	want := []outline.Entry{
		{Level: outline.H1, Text: "Handbook", Page: 1},
		{Level: outline.H2, Text: "Getting Started", Page: 1},
		{Level: outline.H3, Text: "Installation", Page: 1},
		{Level: outline.H2, Text: "Reference", Page: 1},
	}
	if len(got.Outline.Outline) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), got.Outline.Outline)
	}
	for i, w := range want {
		if got.Outline.Outline[i] != w {
			t.Errorf("entry[%d]: expected %+v, got %+v", i, w, got.Outline.Outline[i])
		}
	}
	if got.Cached || got.Pages != 1 || got.Lines == 0 {
		t.Errorf("unexpected extraction details %+v", got)
	}
	if got.ContentHash != ContentHashHex([]byte(sampleMarkdown)) {
		t.Errorf("unexpected content hash %q", got.ContentHash)
	}
	if ex.Stats().Snapshot().Processed != 1 {
		t.Errorf("expected one processed document")
	}
}

func TestExtractor_UsesCache(t *testing.T) {
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	defer c.Close()

	ex := testExtractor(t, c)
	first, err := ex.Extract(context.Background(), "handbook.md", []byte(sampleMarkdown))
	if err != nil {
		t.Fatalf("first extract: %v", err)
	}
	second, err := ex.Extract(context.Background(), "copy.md", []byte(sampleMarkdown))
	if err != nil {
		t.Fatalf("second extract: %v", err)
	}
	if first.Cached || !second.Cached {
		t.Fatalf("expected second extraction to hit cache, got %v %v", first.Cached, second.Cached)
	}
	if len(second.Outline.Outline) != len(first.Outline.Outline) || second.Outline.Title != first.Outline.Title {
		t.Errorf("cached outline differs: %+v vs %+v", second.Outline, first.Outline)
	}
	if second.Source != outline.SourceToc {
		t.Errorf("expected cached source toc, got %q", second.Source)
	}
	if ex.Stats().Snapshot().CacheHits != 1 {
		t.Errorf("expected one cache hit")
	}
}

func TestExtractor_CacheKeepsFileNameAndFormatApart(t *testing.T) {
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	defer c.Close()
	ex := testExtractor(t, c)
	ctx := context.Background()
	plain := []byte("meeting minutes follow below\nnothing here stands out from the rest\n")

	first, err := ex.Extract(ctx, "alpha_report.txt", plain)
	if err != nil {
		t.Fatalf("first extract: %v", err)
	}
	second, err := ex.Extract(ctx, "beta_notes.txt", plain)
	if err != nil {
		t.Fatalf("second extract: %v", err)
	}
	if first.Outline.Title != "alpha report" || first.TitleSource != outline.TitleFromFileName {
		t.Fatalf("expected file name title, got %q from %q", first.Outline.Title, first.TitleSource)
	}
	if !second.Cached {
		t.Fatalf("expected cache hit for identical bytes and format")
	}
	if second.Outline.Title != "beta notes" {
		t.Errorf("expected title from second file name, got %q", second.Outline.Title)
	}
	if first.Outline.Title != "alpha report" {
		t.Errorf("cache hit modified the first result's title: %q", first.Outline.Title)
	}
	if second.TitleSource != first.TitleSource || second.Pages != first.Pages ||
		second.Lines != first.Lines || second.Candidates != first.Candidates {
		t.Errorf("cached diagnostics differ: %+v vs %+v", second, first)
	}

	if _, err := ex.Extract(ctx, "beta_notes.md", []byte(sampleMarkdown)); err != nil {
		t.Fatalf("markdown extract: %v", err)
	}
	asText, err := ex.Extract(ctx, "gamma.TXT", []byte(sampleMarkdown))
	if err != nil {
		t.Fatalf("text extract: %v", err)
	}
	if asText.Cached {
		t.Errorf("expected a different format to miss the cache")
	}
	if asText.Source == outline.SourceToc {
		t.Errorf("plain text must not reuse the markdown table of contents")
	}
}

func TestExtractor_Errors(t *testing.T) {
	ex := testExtractor(t, nil)

	_, err := ex.Extract(context.Background(), "data.xlsx", []byte("x"))
	if !errors.Is(err, parser.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	_, err = ex.Extract(context.Background(), "broken.pdf", []byte("not a pdf"))
	if !errors.Is(err, parser.ErrUnreadableDocument) {
		t.Errorf("expected ErrUnreadableDocument, got %v", err)
	}
	if ex.Stats().Snapshot().Failed != 2 {
		t.Errorf("expected two failures, got %+v", ex.Stats().Snapshot())
	}
}

func TestWorker_CompletesWithoutPublisher(t *testing.T) {
	w := NewWorker(testExtractor(t, nil), nil, testLogger(), nil)
	job := NewJob("handbook.md", []byte(sampleMarkdown))

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q (%v)", snap.Status, snap.Progress.Errors)
	}
	if snap.Progress.Published {
		t.Error("expected unpublished job")
	}
	if snap.Progress.Entries != 4 || job.Outline() == nil {
		t.Errorf("expected 4 entries, got %+v", snap.Progress)
	}
}

func TestWorker_PublishesRecord(t *testing.T) {
	pub := &fakePublisher{}
	w := NewWorker(testExtractor(t, nil), pub, testLogger(), nil)
	job := NewJob("handbook.md", []byte(sampleMarkdown))

	w.Process(context.Background(), job)

	if job.Snapshot().Status != StatusCompleted || !job.Snapshot().Progress.Published {
		t.Fatalf("expected published completed job, got %+v", job.Snapshot())
	}
	if len(pub.records) != 1 {
		t.Fatalf("expected one record, got %d", len(pub.records))
	}
	rec := pub.records[0]
	if rec.DocID != job.DocID || rec.Filename != "handbook.md" || rec.Source != outline.SourceToc {
		t.Errorf("unexpected record %+v", rec)
	}
	if len(rec.Outline) != 4 {
		t.Errorf("expected 4 outline entries, got %d", len(rec.Outline))
	}
}

func TestWorker_RetriesTransientPublishErrors(t *testing.T) {
	pub := &fakePublisher{failures: 2, err: &pathstore.RetryableError{StatusCode: 503, Message: "busy"}}
	w := NewWorker(testExtractor(t, nil), pub, testLogger(), nil)
	w.backoff = noBackoff
	job := NewJob("handbook.md", []byte(sampleMarkdown))

	w.Process(context.Background(), job)

	if job.Snapshot().Status != StatusCompleted {
		t.Fatalf("expected completed after retries, got %+v", job.Snapshot())
	}
	if pub.calls != 3 {
		t.Errorf("expected 3 publish calls, got %d", pub.calls)
	}
}

func TestWorker_PublishFailureIsPartial(t *testing.T) {
	pub := &fakePublisher{failures: 10, err: &pathstore.RetryableError{StatusCode: 500, Message: "down"}}
	w := NewWorker(testExtractor(t, nil), pub, testLogger(), nil)
	w.backoff = noBackoff
	job := NewJob("handbook.md", []byte(sampleMarkdown))

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusPartial {
		t.Fatalf("expected partial, got %q", snap.Status)
	}
	if pub.calls != MaxRetries {
		t.Errorf("expected %d publish calls, got %d", MaxRetries, pub.calls)
	}
	if len(snap.Progress.Errors) != 1 || job.Outline() == nil {
		t.Errorf("expected outline kept with one error, got %+v", snap.Progress)
	}
}

func TestWorker_PermanentPublishErrorNotRetried(t *testing.T) {
	pub := &fakePublisher{failures: 10, err: &pathstore.StatusError{StatusCode: 400, Message: "bad"}}
	w := NewWorker(testExtractor(t, nil), pub, testLogger(), nil)
	w.backoff = noBackoff
	job := NewJob("handbook.md", []byte(sampleMarkdown))

	w.Process(context.Background(), job)

	if job.Snapshot().Status != StatusPartial {
		t.Fatalf("expected partial, got %q", job.Snapshot().Status)
	}
	if pub.calls != 1 {
		t.Errorf("expected a single publish call, got %d", pub.calls)
	}
}

func TestWorker_UnsupportedFormatFails(t *testing.T) {
	w := NewWorker(testExtractor(t, nil), nil, testLogger(), nil)
	job := NewJob("sheet.xlsx", []byte("x"))

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "parsing" {
		t.Fatalf("expected failed in parsing, got %q/%q", snap.Status, snap.Phase)
	}
	if len(snap.Progress.Errors) != 1 {
		t.Errorf("expected one error, got %v", snap.Progress.Errors)
	}
	if job.FileData() != nil {
		t.Error("expected file data released")
	}
}

func TestRetry_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := retry(ctx, testLogger(), func(int) time.Duration { return time.Hour }, func() error {
		calls++
		cancel()
		return &pathstore.RetryableError{Message: "transport"}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestOrchestrator_ProcessesJobs(t *testing.T) {
	cfg := config.Config{WorkerCount: 2, MaxQueueSize: 10, MaxConcurrentPublish: 2, JobTTL: time.Hour}
	pub := &fakePublisher{}
	o := NewOrchestrator(cfg, testExtractor(t, nil), pub, testLogger())
	o.Start(context.Background())
	defer o.Stop()

	var jobs []*Job
	for range 3 {
		job := NewJob("handbook.md", []byte(sampleMarkdown))
		if err := o.Submit(job); err != nil {
			t.Fatalf("submit: %v", err)
		}
		jobs = append(jobs, job)
	}

	deadline := time.Now().Add(5 * time.Second)
	for _, job := range jobs {
		for !job.Snapshot().Status.Terminal() {
			if time.Now().After(deadline) {
				t.Fatalf("job %s did not finish: %+v", job.ID, job.Snapshot())
			}
			time.Sleep(10 * time.Millisecond)
		}
		if job.Snapshot().Status != StatusCompleted {
			t.Errorf("job %s: expected completed, got %q", job.ID, job.Snapshot().Status)
		}
		if o.GetJob(job.ID) != job {
			t.Errorf("job %s not tracked", job.ID)
		}
	}
	if !o.Publishing() {
		t.Error("expected publishing to be enabled")
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}
	o := NewOrchestrator(cfg, testExtractor(t, nil), nil, testLogger())
	// Not started: nothing drains the queue.

	if err := o.Submit(NewJob("a.md", []byte("# A"))); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	job := NewJob("b.md", []byte("# B"))
	if err := o.Submit(job); err == nil {
		t.Fatal("expected queue full error")
	}
	if job.Snapshot().Status != StatusFailed || job.Snapshot().Phase != "queue_full" {
		t.Errorf("unexpected job state %+v", job.Snapshot())
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
	if o.Publishing() {
		t.Error("expected publishing disabled")
	}
}
