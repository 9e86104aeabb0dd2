package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_TitleAndHeadings(t *testing.T) {
	input := `<html><head><title>Field Guide</title><style>h1{}</style></head>
<body>
<nav><a href="/">Home</a></nav>
<h1>Birds</h1>
<p>Birds have <b>feathers</b>.</p>
<h2>Owls</h2>
<p>Owls hunt at night.<br>Mostly.</p>
<ul><li>Barn owl</li><li>Snowy owl</li></ul>
<h5>Footnote</h5>
<script>var x = 1;</script>
</body></html>`

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "guide.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Metadata.Title != "Field Guide" {
		t.Errorf("expected metadata title %q, got %q", "Field Guide", doc.Metadata.Title)
	}

	wantToc := []struct {
		level int
		title string
	}{{1, "Birds"}, {2, "Owls"}, {5, "Footnote"}}
	if len(doc.Toc) != len(wantToc) {
		t.Fatalf("expected %d toc entries, got %+v", len(wantToc), doc.Toc)
	}
	for i, w := range wantToc {
		if doc.Toc[i].Level != w.level || doc.Toc[i].Title != w.title || doc.Toc[i].Page != 1 {
			t.Errorf("toc[%d]: expected %d %q, got %+v", i, w.level, w.title, doc.Toc[i])
		}
	}

	all := strings.Join(lineTexts(doc), "|")
	for _, want := range []string{"Birds have feathers.", "Owls hunt at night.", "Mostly.", "Barn owl", "Snowy owl"} {
		if !strings.Contains(all, want) {
			t.Errorf("expected %q among lines, got %q", want, all)
		}
	}
	for _, unwanted := range []string{"Home", "var x"} {
		if strings.Contains(all, unwanted) {
			t.Errorf("did not expect %q among lines, got %q", unwanted, all)
		}
	}
}

func TestHeadingLevel(t *testing.T) {
	tests := map[string]int{"h1": 1, "h3": 3, "h6": 6, "h7": 0, "hr": 0, "p": 0, "header": 0}
	for tag, want := range tests {
		if got := headingLevel(tag); got != want {
			t.Errorf("%s: expected %d, got %d", tag, want, got)
		}
	}
}
