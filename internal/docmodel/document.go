package docmodel

import "sort"

// Document is the fully materialized input to outline extraction.
type Document struct {
	FileName  string     // Source file name, used as the last-resort title
	PageCount int        // Number of pages in the source document
	Lines     []TextLine // All text lines, page-major, top to bottom
	Toc       []TocEntry // Embedded table of contents (may be empty)
	Metadata  Metadata
}

// Metadata holds document-level properties read from the source file.
type Metadata struct {
	Title   string
	Author  string
	Subject string
}

// TocEntry is one (level, title, page) triple from an embedded table of contents.
type TocEntry struct {
	Level int    // 1 = top level
	Title string // Entry text as stored in the document
	Page  int    // 1-based page number
}

// TextLine is a run of text sharing one font size on one visual line.
type TextLine struct {
	Text       string
	PageIndex  int // 0-based
	FontSize   float64
	FontName   string
	Bold       bool
	Italic     bool
	BBox       BBox
	PageWidth  float64
	PageHeight float64
}

// BBox is a bounding box in page coordinates with a top-left origin.
// Y0 is the top edge and Y1 the bottom edge.
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// Width returns the horizontal extent of the box.
func (b BBox) Width() float64 { return b.X1 - b.X0 }

// Height returns the vertical extent of the box.
func (b BBox) Height() float64 { return b.Y1 - b.Y0 }

// CenterX returns the horizontal midpoint.
func (b BBox) CenterX() float64 { return (b.X0 + b.X1) / 2 }

// Overlaps reports whether the two boxes intersect.
func (b BBox) Overlaps(o BBox) bool {
	return b.X0 < o.X1 && o.X0 < b.X1 && b.Y0 < o.Y1 && o.Y0 < b.Y1
}

// IsEmpty reports whether the document has no text lines.
func (d *Document) IsEmpty() bool {
	return d == nil || len(d.Lines) == 0
}

// PageLines returns the lines on the given 0-based page.
func (d *Document) PageLines(page int) []TextLine {
	var out []TextLine
	for _, l := range d.Lines {
		if l.PageIndex == page {
			out = append(out, l)
		}
	}
	return out
}

// SortLines orders lines by page, then top edge, then left edge.
func SortLines(lines []TextLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if a.PageIndex != b.PageIndex {
			return a.PageIndex < b.PageIndex
		}
		if a.BBox.Y0 != b.BBox.Y0 {
			return a.BBox.Y0 < b.BBox.Y0
		}
		return a.BBox.X0 < b.BBox.X0
	})
}
