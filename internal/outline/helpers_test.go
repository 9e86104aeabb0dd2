package outline

import (
	"strings"

	"github.com/dgallion1/docoutline/internal/docmodel"
)

const (
	testPageWidth  = 612.0
	testPageHeight = 792.0
)

// textLine builds a left-aligned line whose top edge sits at y.
func textLine(text string, page int, size float64, bold bool, y float64) docmodel.TextLine {
	w := float64(len([]rune(text))) * size * 0.5
	return docmodel.TextLine{
		Text:       text,
		PageIndex:  page,
		FontSize:   size,
		FontName:   "Helvetica",
		Bold:       bold,
		BBox:       docmodel.BBox{X0: 72, Y0: y, X1: 72 + w, Y1: y + size},
		PageWidth:  testPageWidth,
		PageHeight: testPageHeight,
	}
}

// centered moves a line so it sits in the middle of the page.
func centered(l docmodel.TextLine) docmodel.TextLine {
	w := l.BBox.Width()
	l.BBox.X0 = (l.PageWidth - w) / 2
	l.BBox.X1 = l.BBox.X0 + w
	return l
}

const bodyText = "the quick brown fox jumps over the lazy dog while the report continues at length"

// bodyLines returns n body paragraphs starting at y, one line every 14pt.
func bodyLines(page, n int, y float64) []docmodel.TextLine {
	out := make([]docmodel.TextLine, n)
	for i := range out {
		out[i] = textLine(bodyText, page, 10, false, y+float64(i)*14)
	}
	return out
}

func lines(groups ...[]docmodel.TextLine) []docmodel.TextLine {
	var out []docmodel.TextLine
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func one(l docmodel.TextLine) []docmodel.TextLine { return []docmodel.TextLine{l} }

func candidate(text string, page int, level Level, size float64, y float64, lineIndex int) HeadingCandidate {
	l := textLine(text, page, size, true, y)
	return HeadingCandidate{
		Text:      text,
		PageIndex: page,
		Level:     level,
		Score:     5,
		BBox:      l.BBox,
		FontSize:  size,
		Bold:      true,
		Signals:   SignalFontTier | SignalBold,
		LineIndex: lineIndex,
	}
}

func texts(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Text
	}
	return out
}

func longCaps(n int) string {
	return strings.Repeat("LOREM ", n/6+1)[:n]
}
