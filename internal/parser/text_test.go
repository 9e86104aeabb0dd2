package parser

import (
	"strings"
	"testing"
)

func TestTextParser_OneLinePerRow(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"First paragraph line one.",
		"First paragraph line two.",
		"Second paragraph.",
		"Third paragraph.",
	}
	got := lineTexts(doc)
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(got), got)
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("line[%d]: expected %q, got %q", i, w, got[i])
		}
	}
	for i := 1; i < len(doc.Lines); i++ {
		if doc.Lines[i].BBox.Y0 <= doc.Lines[i-1].BBox.Y0 {
			t.Errorf("line[%d] not below line[%d]", i, i-1)
		}
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.FileName != "empty.txt" {
		t.Errorf("expected file name %q, got %q", "empty.txt", doc.FileName)
	}
	if doc.PageCount != 1 || !doc.IsEmpty() {
		t.Errorf("expected one empty page, got %d pages, %d lines", doc.PageCount, len(doc.Lines))
	}
}

func TestTextParser_FormFeedStartsPage(t *testing.T) {
	input := "Page one text.\n\fPage two text.\nMore on two.\n\f\fPage four."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "paged.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.PageCount != 4 {
		t.Fatalf("expected 4 pages, got %d", doc.PageCount)
	}
	wantPages := []int{0, 1, 1, 3}
	for i, w := range wantPages {
		if doc.Lines[i].PageIndex != w {
			t.Errorf("line[%d] %q: expected page %d, got %d", i, doc.Lines[i].Text, w, doc.Lines[i].PageIndex)
		}
	}
	if doc.Lines[1].BBox.Y0 != doc.Lines[0].BBox.Y0 {
		t.Errorf("expected each page to start at the top margin")
	}
}

func TestTextParser_WhitespaceOnlyLines(t *testing.T) {
	input := "Para one.\n   \n\t\nPara two."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(doc.Lines))
	}
	if doc.Lines[0].FontSize != doc.Lines[1].FontSize {
		t.Errorf("expected uniform body size")
	}
}
