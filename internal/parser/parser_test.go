package parser

import (
	"errors"
	"testing"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		name string
		want any
	}{
		{"a.pdf", &PDFParser{}},
		{"A.PDF", &PDFParser{}},
		{"b.md", &MarkdownParser{}},
		{"b.markdown", &MarkdownParser{}},
		{"c.htm", &HTMLParser{}},
		{"d.docx", &DOCXParser{}},
		{"e.txt", &TextParser{}},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.name)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if got, want := typeName(p), typeName(tt.want); got != want {
			t.Errorf("%s: expected %s, got %s", tt.name, want, got)
		}
	}

	for _, name := range []string{"sheet.csv", "image.png", "noext"} {
		if _, err := ForFile(name); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%s: expected ErrUnsupportedFormat, got %v", name, err)
		}
		if IsSupportedExtension(name) {
			t.Errorf("%s: should not be supported", name)
		}
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *PDFParser:
		return "pdf"
	case *MarkdownParser:
		return "markdown"
	case *HTMLParser:
		return "html"
	case *DOCXParser:
		return "docx"
	case *TextParser:
		return "text"
	}
	return "unknown"
}

func TestDocxHeadingLevel(t *testing.T) {
	tests := map[string]int{"heading1": 1, "heading3": 3, "heading9": 9, "heading": 0, "heading10": 0, "title": 0, "": 0}
	for style, want := range tests {
		if got := docxHeadingLevel(style); got != want {
			t.Errorf("%q: expected %d, got %d", style, want, got)
		}
	}
}
