package parser

import (
	"bytes"
	"fmt"
	"io"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/dgallion1/docoutline/internal/docmodel"
)

const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// PDFParser extracts positioned text lines with ledongthuc/pdf and the
// bookmark tree with pdfcpu.
type PDFParser struct{}

func (p *PDFParser) Parse(r io.Reader, filename string) (doc *docmodel.Document, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	defer func() {
		if rec := recover(); rec != nil {
			doc = nil
			err = unreadable("pdf reader panic", fmt.Errorf("%v", rec))
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, unreadable("open pdf", err)
	}
	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, unreadable("pdf has no pages", nil)
	}

	doc = &docmodel.Document{
		FileName:  filename,
		PageCount: numPages,
		Metadata:  pdfMetadata(reader),
		Toc:       pdfBookmarks(data),
	}

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		doc.Lines = append(doc.Lines, pageLines(page, i-1)...)
	}
	return doc, nil
}

// pageLines extracts one page. A page whose content stream the library cannot
// interpret contributes no lines instead of failing the whole document.
func pageLines(page pdflib.Page, index int) (out []docmodel.TextLine) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	w, h := mediaBox(page)
	return assembleLines(page.Content().Text, index, w, h)
}

// mediaBox returns the page size, following inherited MediaBox entries up
// the page tree.
func mediaBox(page pdflib.Page) (float64, float64) {
	v := page.V
	for depth := 0; depth < 32 && !v.IsNull(); depth++ {
		box := v.Key("MediaBox")
		if box.Kind() == pdflib.Array && box.Len() == 4 {
			w := box.Index(2).Float64() - box.Index(0).Float64()
			h := box.Index(3).Float64() - box.Index(1).Float64()
			if w > 0 && h > 0 {
				return w, h
			}
		}
		v = v.Key("Parent")
	}
	return defaultPageWidth, defaultPageHeight
}

func pdfMetadata(reader *pdflib.Reader) docmodel.Metadata {
	info := reader.Trailer().Key("Info")
	if info.IsNull() {
		return docmodel.Metadata{}
	}
	return docmodel.Metadata{
		Title:   info.Key("Title").Text(),
		Author:  info.Key("Author").Text(),
		Subject: info.Key("Subject").Text(),
	}
}

// pdfBookmarks flattens the outline tree into depth-first (level, title,
// page) entries. A document without a readable outline yields nil.
func pdfBookmarks(data []byte) (toc []docmodel.TocEntry) {
	defer func() {
		if recover() != nil {
			toc = nil
		}
	}()

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil
	}
	bookmarks, err := pdfcpu.Bookmarks(ctx)
	if err != nil {
		return nil
	}

	var walk func(bs []pdfcpu.Bookmark, level int)
	walk = func(bs []pdfcpu.Bookmark, level int) {
		for _, b := range bs {
			toc = append(toc, docmodel.TocEntry{Level: level, Title: b.Title, Page: b.PageFrom})
			walk(b.Kids, level+1)
		}
	}
	walk(bookmarks, 1)
	return toc
}
