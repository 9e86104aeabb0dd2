package parser

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/dgallion1/docoutline/internal/docmodel"
)

// assembleLines groups positioned glyphs into visual lines. Glyphs share a row
// when their baselines are within tolerance; a row is split into separate
// lines where the font size changes or a wide horizontal gap opens.
// PDF coordinates are bottom-up; the returned boxes are top-down.
func assembleLines(glyphs []pdflib.Text, page int, pageW, pageH float64) []docmodel.TextLine {
	var kept []pdflib.Text
	for _, g := range glyphs {
		if g.FontSize > 0 && g.S != "" {
			kept = append(kept, g)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Y != kept[j].Y {
			return kept[i].Y > kept[j].Y
		}
		return kept[i].X < kept[j].X
	})

	var rows [][]pdflib.Text
	var cur []pdflib.Text
	for _, g := range kept {
		if len(cur) > 0 {
			base := cur[0]
			tol := math.Max(2, 0.25*base.FontSize)
			if math.Abs(g.Y-base.Y) > tol {
				rows = append(rows, cur)
				cur = nil
			}
		}
		cur = append(cur, g)
	}
	rows = append(rows, cur)

	var out []docmodel.TextLine
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
		for _, run := range splitRuns(row) {
			if line, ok := buildLine(run, page, pageW, pageH); ok {
				out = append(out, line)
			}
		}
	}
	return out
}

// splitRuns cuts a row at font size changes and wide gaps.
func splitRuns(row []pdflib.Text) [][]pdflib.Text {
	var runs [][]pdflib.Text
	start := 0
	for i := 1; i < len(row); i++ {
		prev, g := row[i-1], row[i]
		gap := g.X - glyphRight(prev)
		if math.Abs(g.FontSize-prev.FontSize) > 0.5 || gap > 3*prev.FontSize {
			runs = append(runs, row[start:i])
			start = i
		}
	}
	return append(runs, row[start:])
}

func buildLine(run []pdflib.Text, page int, pageW, pageH float64) (docmodel.TextLine, bool) {
	var sb strings.Builder
	fonts := make(map[string]int)
	sizes := make(map[float64]int)
	x0, x1 := math.Inf(1), math.Inf(-1)
	yLow, yHigh := math.Inf(1), math.Inf(-1)

	for i, g := range run {
		if i > 0 && g.X-glyphRight(run[i-1]) > 0.15*g.FontSize {
			sb.WriteByte(' ')
		}
		sb.WriteString(g.S)

		n := utf8.RuneCountInString(g.S)
		fonts[g.Font] += n
		sizes[g.FontSize] += n
		x0 = math.Min(x0, g.X)
		x1 = math.Max(x1, glyphRight(g))
		yLow = math.Min(yLow, g.Y)
		yHigh = math.Max(yHigh, g.Y+g.FontSize)
	}

	text := strings.Join(strings.Fields(sb.String()), " ")
	if text == "" {
		return docmodel.TextLine{}, false
	}

	font := dominant(fonts)
	bold, italic := fontStyle(font)
	return docmodel.TextLine{
		Text:       text,
		PageIndex:  page,
		FontSize:   dominant(sizes),
		FontName:   baseFontName(font),
		Bold:       bold,
		Italic:     italic,
		BBox:       docmodel.BBox{X0: x0, Y0: pageH - yHigh, X1: x1, Y1: pageH - yLow},
		PageWidth:  pageW,
		PageHeight: pageH,
	}, true
}

// glyphRight is the right edge of a glyph, estimating a width when the
// library reports none.
func glyphRight(g pdflib.Text) float64 {
	w := g.W
	if w <= 0 {
		w = float64(utf8.RuneCountInString(g.S)) * g.FontSize * 0.5
	}
	return g.X + w
}

// dominant returns the key with the largest count; ties go to the smallest key.
func dominant[K string | float64](counts map[K]int) K {
	var best K
	bestN := -1
	for k, n := range counts {
		if n > bestN || (n == bestN && k < best) {
			best, bestN = k, n
		}
	}
	return best
}

// baseFontName strips a subset tag such as "ABCDEF+" from a PostScript name.
func baseFontName(name string) string {
	if len(name) > 7 && name[6] == '+' && strings.ToUpper(name[:6]) == name[:6] {
		return name[7:]
	}
	return name
}

// fontStyle infers bold and italic from the font name.
func fontStyle(name string) (bold, italic bool) {
	lower := strings.ToLower(baseFontName(name))
	for _, w := range []string{"bold", "black", "heavy", "semibold", "demibold"} {
		if strings.Contains(lower, w) {
			bold = true
			break
		}
	}
	italic = strings.Contains(lower, "italic") || strings.Contains(lower, "oblique")
	return bold, italic
}
