package outline

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/docmodel"
)

// Signal is a bitset of the evidence that fired for a line.
type Signal uint8

const (
	SignalFontTier Signal = 1 << iota
	SignalBold
	SignalItalic
	SignalNumbering
	SignalCasing
	SignalCentered
	SignalLongCaps
)

// Has reports whether all bits of s2 are set.
func (s Signal) Has(s2 Signal) bool { return s&s2 == s2 }

func (s Signal) String() string {
	names := []struct {
		bit  Signal
		name string
	}{
		{SignalFontTier, "font_tier"},
		{SignalBold, "bold"},
		{SignalItalic, "italic"},
		{SignalNumbering, "numbering"},
		{SignalCasing, "casing"},
		{SignalCentered, "centered"},
		{SignalLongCaps, "long_caps"},
	}
	var parts []string
	for _, n := range names {
		if s.Has(n.bit) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// evidence is what a single scoring function contributes.
type evidence struct {
	score  float64
	signal Signal
	level  Level // LevelNone when the signal says nothing about depth
}

// scoreFontTier matches the line's size against the profile tiers.
func scoreFontTier(line docmodel.TextLine, p FontProfile, opts Options) evidence {
	level, ok := p.TierFor(line.FontSize, opts.MatchTolerance)
	if !ok {
		return evidence{}
	}
	return evidence{score: opts.Weights.FontTier, signal: SignalFontTier, level: level}
}

// scoreStyling rewards bold; italic counts only when the line is not bold.
func scoreStyling(line docmodel.TextLine, opts Options) evidence {
	switch {
	case line.Bold:
		return evidence{score: opts.Weights.Bold, signal: SignalBold}
	case line.Italic:
		return evidence{score: opts.Weights.Italic, signal: SignalItalic}
	}
	return evidence{}
}

var (
	decimalNumbering = regexp.MustCompile(`^(\d+(?:\.\d+)*)\.?\s`)
	letterNumbering  = regexp.MustCompile(`^[A-Z]\.\s`)
	romanNumbering   = regexp.MustCompile(`^[IVXLC]+\.\s`)
	keywordNumbering = regexp.MustCompile(`(?i)^(chapter|section|part|appendix)\b`)
)

// numberingDepth returns the nesting depth implied by a heading number prefix,
// or 0 when text carries none.
func numberingDepth(text string) int {
	if m := decimalNumbering.FindStringSubmatch(text); m != nil {
		return strings.Count(m[1], ".") + 1
	}
	if letterNumbering.MatchString(text) || romanNumbering.MatchString(text) || keywordNumbering.MatchString(text) {
		return 1
	}
	return 0
}

// scoreNumbering rewards heading-numbering conventions and derives a level
// from their depth.
func scoreNumbering(text string, opts Options) evidence {
	depth := numberingDepth(text)
	if depth == 0 {
		return evidence{}
	}
	return evidence{score: opts.Weights.Numbering, signal: SignalNumbering, level: levelForDepth(depth)}
}

// scoreCasing rewards short all-caps or title-case lines and penalizes long
// all-caps ones.
func scoreCasing(text string, opts Options) evidence {
	n := utf8.RuneCountInString(text)
	caps := isAllCaps(text)
	if caps && n >= opts.ShortLineLength {
		return evidence{score: -opts.Weights.LongCapsPenalty, signal: SignalLongCaps}
	}
	if n < opts.ShortLineLength && (caps || isTitleCase(text)) {
		return evidence{score: opts.Weights.Casing, signal: SignalCasing}
	}
	return evidence{}
}

// scorePosition rewards lines centred on the page.
func scorePosition(line docmodel.TextLine, opts Options) evidence {
	if line.PageWidth <= 0 {
		return evidence{}
	}
	mid := line.PageWidth / 2
	if math.Abs(line.BBox.CenterX()-mid) <= line.PageWidth*opts.CenterTolerance {
		return evidence{score: opts.Weights.Centered, signal: SignalCentered}
	}
	return evidence{}
}

// withinLength reports whether text is short enough to be a heading at all.
func withinLength(text string, opts Options) bool {
	return utf8.RuneCountInString(text) <= opts.MaxHeadingLength
}
