package outline

import (
	"errors"
	"fmt"

	"github.com/dgallion1/docoutline/internal/docmodel"
)

var (
	// ErrNoToc means the document carries no usable table of contents.
	ErrNoToc = errors.New("no embedded table of contents")
	// ErrInvalidTocReference means an entry points outside the document.
	ErrInvalidTocReference = errors.New("table of contents references a page outside the document")
)

// ExtractToc converts the document's embedded table of contents into outline
// entries. Any error means the heuristic path should run instead.
func ExtractToc(doc *docmodel.Document, opts Options) ([]Entry, error) {
	if doc == nil || len(doc.Toc) == 0 {
		return nil, ErrNoToc
	}

	entries := make([]Entry, 0, len(doc.Toc))
	for i, te := range doc.Toc {
		if te.Page < 1 || te.Page > doc.PageCount {
			return nil, fmt.Errorf("entry %d %q page %d of %d: %w", i, te.Title, te.Page, doc.PageCount, ErrInvalidTocReference)
		}
		text := CleanText(te.Title)
		if text == "" {
			continue
		}
		level := Level(te.Level)
		switch {
		case te.Level < 1:
			level = H1
		case level > MaxLevel:
			if opts.TocDepth == DropDeepEntries {
				continue
			}
			level = MaxLevel
		}
		entries = append(entries, Entry{Level: level, Text: text, Page: te.Page})
	}
	if len(entries) == 0 {
		return nil, ErrNoToc
	}
	return entries, nil
}
