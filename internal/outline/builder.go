package outline

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/docoutline/internal/docmodel"
)

// Builder runs the extraction engine. It keeps no per-document state, so one
// Builder may serve concurrent callers.
type Builder struct {
	opts Options
	log  *slog.Logger
}

// NewBuilder returns a Builder using opts. A nil logger discards output.
func NewBuilder(opts Options, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Builder{opts: opts, log: log}
}

// Options returns the builder's tuning.
func (b *Builder) Options() Options { return b.opts }

// Build produces the outline for doc, preferring its embedded table of
// contents.
func (b *Builder) Build(doc *docmodel.Document) (*Result, error) {
	if doc == nil {
		return nil, errors.New("build outline: nil document")
	}
	log := b.log.With("file", doc.FileName)

	entries, err := ExtractToc(doc, b.opts)
	switch {
	case err == nil:
		profile := Profile(doc, b.opts)
		title := ResolveTitle(doc, profile, nil, b.opts)
		log.Debug("outline from table of contents", "entries", len(entries), "title_source", title.Source)
		return &Result{
			Outline:     &Outline{Title: title.Text, Outline: entries},
			Source:      SourceToc,
			Profile:     profile,
			TitleSource: title.Source,
		}, nil
	case errors.Is(err, ErrInvalidTocReference):
		log.Debug("table of contents rejected", "error", err)
	case !errors.Is(err, ErrNoToc):
		return nil, fmt.Errorf("extract toc: %w", err)
	}

	if len(doc.Lines) == 0 {
		return &Result{
			Outline:     &Outline{Title: FileNameTitle(doc.FileName), Outline: []Entry{}},
			Source:      SourceEmpty,
			TitleSource: TitleFromFileName,
		}, nil
	}

	profile := Profile(doc, b.opts)
	cands := Classify(doc, profile, b.opts)
	title := ResolveTitle(doc, profile, cands, b.opts)
	out := Deduplicate(cands, title, b.opts)
	log.Debug("outline from typography",
		"body_size", profile.BodySize,
		"tiers", len(profile.Tiers),
		"candidates", len(cands),
		"entries", len(out),
		"title_source", title.Source,
	)
	return &Result{
		Outline:     &Outline{Title: title.Text, Outline: out},
		Source:      SourceHeuristic,
		Profile:     profile,
		TitleSource: title.Source,
		Candidates:  len(cands),
	}, nil
}
