package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/docmodel"
)

// TextParser handles plain text files. Form feeds separate pages; every
// non-blank line becomes a body-size text line, so headings are found by
// numbering and casing alone.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*docmodel.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	doc := &docmodel.Document{FileName: filename, PageCount: 1}
	page := 0
	y := margin
	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), "\f")
		for i, part := range parts {
			if i > 0 {
				page++
				y = margin
			}
			line := strings.TrimSpace(part)
			if line == "" {
				continue
			}
			w := float64(utf8.RuneCountInString(line)) * bodySize * 0.5
			doc.Lines = append(doc.Lines, docmodel.TextLine{
				Text:       line,
				PageIndex:  page,
				FontSize:   bodySize,
				BBox:       docmodel.BBox{X0: margin, Y0: y, X1: margin + w, Y1: y + bodySize},
				PageWidth:  defaultPageWidth,
				PageHeight: defaultPageHeight,
			})
			y += bodySize * 1.4
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	doc.PageCount = page + 1
	return doc, nil
}
