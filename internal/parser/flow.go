package parser

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/docmodel"
)

// Synthetic font sizes for formats without real typography. Heading sizes are
// indexed by level.
var headingSizes = [...]float64{0, 24, 18, 15, 13, 12, 11}

const (
	bodySize  = 10.0
	titleSize = 28.0
	margin    = 72.0
)

// flow lays out the blocks of a structured document on synthetic letter-size
// pages, so those formats feed the same engine as PDF. Headings also become
// table of contents entries.
type flow struct {
	doc  *docmodel.Document
	page int
	y    float64
}

func newFlow(filename string) *flow {
	return &flow{doc: &docmodel.Document{FileName: filename}, y: margin}
}

func (f *flow) title(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if f.doc.Metadata.Title == "" {
		f.doc.Metadata.Title = text
	}
	f.add(text, titleSize, true)
}

func (f *flow) heading(level int, text string) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return
	}
	if level < 1 {
		level = 1
	}
	size := headingSizes[len(headingSizes)-1]
	if level < len(headingSizes) {
		size = headingSizes[level]
	}
	f.fit(size)
	f.doc.Toc = append(f.doc.Toc, docmodel.TocEntry{Level: level, Title: text, Page: f.page + 1})
	f.add(text, size, true)
}

// paragraph adds one body line per non-blank input line.
func (f *flow) paragraph(text string) {
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			f.add(l, bodySize, false)
		}
	}
}

// fit starts a new page when a line of the given size would cross the
// bottom margin.
func (f *flow) fit(size float64) {
	if f.y+size > defaultPageHeight-margin {
		f.page++
		f.y = margin
	}
}

func (f *flow) add(text string, size float64, bold bool) {
	f.fit(size)
	w := math.Min(float64(utf8.RuneCountInString(text))*size*0.5, defaultPageWidth-2*margin)
	f.doc.Lines = append(f.doc.Lines, docmodel.TextLine{
		Text:       text,
		PageIndex:  f.page,
		FontSize:   size,
		Bold:       bold,
		BBox:       docmodel.BBox{X0: margin, Y0: f.y, X1: margin + w, Y1: f.y + size},
		PageWidth:  defaultPageWidth,
		PageHeight: defaultPageHeight,
	})
	f.y += size * 1.4
}

func (f *flow) finish() *docmodel.Document {
	f.doc.PageCount = f.page + 1
	return f.doc
}
