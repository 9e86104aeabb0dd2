package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/docoutline/internal/cache"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
)

// OutlineCache is the subset of the SQLite cache the pipeline uses.
type OutlineCache interface {
	Get(ctx context.Context, key cache.Key) (*cache.Entry, error)
	Put(ctx context.Context, e *cache.Entry) error
}

// Extraction is the outcome of running one document through the engine.
type Extraction struct {
	Outline     *outline.Outline
	Source      outline.Source
	TitleSource outline.TitleSource
	ContentHash string
	Cached      bool
	Pages       int
	Lines       int
	Candidates  int
	Duration    time.Duration
}

// Extractor turns document bytes into an outline, consulting the cache first.
// It is safe for concurrent use.
type Extractor struct {
	builder *outline.Builder
	cache   OutlineCache
	stats   *Stats
	log     *slog.Logger
	fp      string
}

// NewExtractor wires the engine. cache may be nil; nil stats and log get
// defaults.
func NewExtractor(builder *outline.Builder, c OutlineCache, stats *Stats, log *slog.Logger) *Extractor {
	if stats == nil {
		stats = NewStats(time.Hour)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Extractor{
		builder: builder,
		cache:   c,
		stats:   stats,
		log:     log,
		fp:      builder.Options().Fingerprint(),
	}
}

// Stats returns the extractor's processing statistics.
func (e *Extractor) Stats() *Stats { return e.stats }

// Extract parses data according to filename's extension and builds its
// outline. Parse failures wrap parser.ErrUnreadableDocument or
// parser.ErrUnsupportedFormat.
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (*Extraction, error) {
	start := time.Now()
	hash := ContentHashHex(data)
	log := e.log.With("file", filename, "content_hash", hash[:12])

	key := cache.Key{
		ContentHash: hash,
		Format:      strings.ToLower(filepath.Ext(filename)),
		Options:     e.fp,
	}

	if e.cache != nil {
		entry, err := e.cache.Get(ctx, key)
		if err != nil {
			log.Warn("cache lookup failed, extracting", "error", err)
		} else if entry != nil {
			e.stats.RecordCacheHit()
			log.Debug("outline served from cache")
			return fromCache(entry, filename, time.Since(start)), nil
		}
	}

	p, err := parser.ForFile(filename)
	if err != nil {
		e.stats.RecordFailure()
		return nil, err
	}
	doc, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		e.stats.RecordFailure()
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	res, err := e.builder.Build(doc)
	if err != nil {
		e.stats.RecordFailure()
		return nil, fmt.Errorf("build outline for %s: %w", filename, err)
	}

	elapsed := time.Since(start)
	e.stats.Record(elapsed.Milliseconds())

	if e.cache != nil {
		err := e.cache.Put(ctx, &cache.Entry{
			Key:         key,
			Filename:    filename,
			Source:      res.Source,
			TitleSource: res.TitleSource,
			Outline:     res.Outline,
			Pages:       doc.PageCount,
			Lines:       len(doc.Lines),
			Candidates:  res.Candidates,
		})
		if err != nil {
			log.Warn("cache write failed", "error", err)
		}
	}

	return &Extraction{
		Outline:     res.Outline,
		Source:      res.Source,
		TitleSource: res.TitleSource,
		ContentHash: hash,
		Pages:       doc.PageCount,
		Lines:       len(doc.Lines),
		Candidates:  res.Candidates,
		Duration:    elapsed,
	}, nil
}

// fromCache rebuilds an Extraction from a cache entry. A title that came from
// the file name is derived again from filename.
func fromCache(entry *cache.Entry, filename string, elapsed time.Duration) *Extraction {
	o := *entry.Outline
	if entry.TitleSource == outline.TitleFromFileName {
		o.Title = outline.FileNameTitle(filename)
	}
	return &Extraction{
		Outline:     &o,
		Source:      entry.Source,
		TitleSource: entry.TitleSource,
		ContentHash: entry.ContentHash,
		Cached:      true,
		Pages:       entry.Pages,
		Lines:       entry.Lines,
		Candidates:  entry.Candidates,
		Duration:    elapsed,
	}
}
