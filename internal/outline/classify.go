package outline

import (
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/docmodel"
)

// Classify scores every line of doc and returns the heading candidates in
// reading order.
func Classify(doc *docmodel.Document, profile FontProfile, opts Options) []HeadingCandidate {
	if doc == nil {
		return nil
	}
	var out []HeadingCandidate
	for i, line := range doc.Lines {
		if c, ok := classifyLine(line, profile, opts); ok {
			c.LineIndex = i
			out = append(out, c)
		}
	}
	return out
}

// classifyLine combines the individual signals for one line. A line needs a
// score above the threshold and a level from either the font tier or the
// numbering; the tier wins when both are present.
func classifyLine(line docmodel.TextLine, profile FontProfile, opts Options) (HeadingCandidate, bool) {
	text := CleanText(line.Text)
	if utf8.RuneCountInString(text) < opts.MinHeadingLength {
		return HeadingCandidate{}, false
	}
	if !withinLength(text, opts) {
		return HeadingCandidate{}, false
	}

	tier := scoreFontTier(line, profile, opts)
	numbering := scoreNumbering(text, opts)
	all := []evidence{
		tier,
		scoreStyling(line, opts),
		numbering,
		scoreCasing(text, opts),
		scorePosition(line, opts),
	}

	var score float64
	var signals Signal
	for _, e := range all {
		score += e.score
		signals |= e.signal
	}

	level := tier.level
	if level == LevelNone {
		level = numbering.level
	}
	if level == LevelNone || score <= opts.AcceptThreshold {
		return HeadingCandidate{}, false
	}

	return HeadingCandidate{
		Text:      text,
		PageIndex: line.PageIndex,
		Level:     level,
		Score:     score,
		BBox:      line.BBox,
		FontSize:  line.FontSize,
		Bold:      line.Bold,
		Signals:   signals,
	}, true
}
