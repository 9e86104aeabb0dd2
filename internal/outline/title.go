package outline

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docoutline/internal/docmodel"
)

// TitleSource records which link of the title chain produced the title.
type TitleSource string

const (
	TitleFromMetadata  TitleSource = "metadata"
	TitleFromFirstPage TitleSource = "first_page"
	TitleFromFileName  TitleSource = "filename"
)

// Title is a resolved document title. PageIndex is -1 when the title does not
// come from a page of the document.
type Title struct {
	Text      string
	PageIndex int
	Source    TitleSource
}

// titleInput is what every link of the chain may look at.
type titleInput struct {
	doc     *docmodel.Document
	profile FontProfile
	claimed map[int]bool // line indexes the classifier owns outright
	opts    Options
}

type titleFunc func(in titleInput) (Title, bool)

// titleChain is tried in order; the first link that succeeds wins.
var titleChain = []titleFunc{
	titleFromMetadata,
	titleFromFirstPage,
}

// ResolveTitle runs the title chain. It never returns an empty title: the
// file name is the last resort.
func ResolveTitle(doc *docmodel.Document, profile FontProfile, cands []HeadingCandidate, opts Options) Title {
	in := titleInput{doc: doc, profile: profile, claimed: claimedLines(cands), opts: opts}
	if doc != nil {
		for _, fn := range titleChain {
			if t, ok := fn(in); ok {
				return t
			}
		}
	}
	name := ""
	if doc != nil {
		name = doc.FileName
	}
	return Title{Text: FileNameTitle(name), PageIndex: -1, Source: TitleFromFileName}
}

// claimedLines returns the lines whose heading evidence outranks title
// candidacy: a font tier and a numbering pattern both fired.
func claimedLines(cands []HeadingCandidate) map[int]bool {
	claimed := make(map[int]bool)
	for _, c := range cands {
		if c.Signals.Has(SignalFontTier | SignalNumbering) {
			claimed[c.LineIndex] = true
		}
	}
	return claimed
}

var producerPrefixes = []string{
	"microsoft word - ",
	"microsoft powerpoint - ",
	"microsoft excel - ",
}

func titleFromMetadata(in titleInput) (Title, bool) {
	t := CleanText(in.doc.Metadata.Title)
	lower := strings.ToLower(t)
	for _, p := range producerPrefixes {
		if strings.HasPrefix(lower, p) {
			t = strings.TrimSpace(t[len(p):])
			break
		}
	}
	if t == "" || strings.EqualFold(t, "untitled") {
		return Title{}, false
	}
	return Title{Text: t, PageIndex: 0, Source: TitleFromMetadata}, true
}

// titleFromFirstPage picks the largest line on the first page when it towers
// over body text, and appends the lines of the same size directly below it.
func titleFromFirstPage(in titleInput) (Title, bool) {
	body := in.profile.BodySize
	if body <= 0 {
		return Title{}, false
	}

	best := -1
	for i, l := range in.doc.Lines {
		if l.PageIndex != 0 {
			continue
		}
		if CleanText(l.Text) == "" {
			continue
		}
		if best < 0 || l.FontSize > in.doc.Lines[best].FontSize {
			best = i
		}
	}
	if best < 0 {
		return Title{}, false
	}
	first := in.doc.Lines[best]
	if first.FontSize < body*in.opts.TitleMargin || in.claimed[best] {
		return Title{}, false
	}

	parts := []string{CleanText(first.Text)}
	// Runs split off to the left on the same row.
	for i := best - 1; i >= 0; i-- {
		l := in.doc.Lines[i]
		if l.PageIndex != first.PageIndex || in.claimed[i] || !sameTitleRow(l, first) {
			break
		}
		if text := CleanText(l.Text); text != "" {
			parts = append([]string{text}, parts...)
		}
	}
	prev := first
	for i := best + 1; i < len(in.doc.Lines); i++ {
		next := in.doc.Lines[i]
		if next.PageIndex != first.PageIndex || in.claimed[i] {
			break
		}
		if math.Abs(next.FontSize-first.FontSize) > 0.1 {
			break
		}
		if next.BBox.Y0-prev.BBox.Y1 > first.FontSize {
			break
		}
		if text := CleanText(next.Text); text != "" {
			parts = append(parts, text)
		}
		prev = next
	}
	return Title{Text: strings.Join(parts, " "), PageIndex: first.PageIndex, Source: TitleFromFirstPage}, true
}

// sameTitleRow reports whether l is set in first's size on first's row.
func sameTitleRow(l, first docmodel.TextLine) bool {
	if math.Abs(l.FontSize-first.FontSize) > 0.1 {
		return false
	}
	return math.Abs(l.BBox.Y0-first.BBox.Y0) <= first.FontSize/2 && l.BBox.X1 <= first.BBox.X0
}

// FileNameTitle derives a title from a file name: the directory and extension
// are stripped and separators become spaces.
func FileNameTitle(name string) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(base)
	if t := CleanText(base); t != "" {
		return t
	}
	return "Untitled"
}
