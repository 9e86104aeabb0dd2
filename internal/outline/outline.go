// Package outline turns a docmodel.Document into a title plus an ordered list
// of H1–H3 headings. An embedded table of contents is preferred; without one a
// typography-driven classifier finds the headings.
package outline

import (
	"encoding/json"
	"fmt"

	"github.com/dgallion1/docoutline/internal/docmodel"
)

// Level is an output heading level.
type Level int

const (
	LevelNone Level = iota
	H1
	H2
	H3
)

// MaxLevel is the deepest level the outline contract represents.
const MaxLevel = H3

func (l Level) String() string {
	switch l {
	case H1:
		return "H1"
	case H2:
		return "H2"
	case H3:
		return "H3"
	default:
		return "none"
	}
}

// Valid reports whether l is one of H1, H2, H3.
func (l Level) Valid() bool { return l >= H1 && l <= MaxLevel }

func (l Level) MarshalJSON() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid heading level %d", int(l))
	}
	return json.Marshal(l.String())
}

func (l *Level) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "H1":
		*l = H1
	case "H2":
		*l = H2
	case "H3":
		*l = H3
	default:
		return fmt.Errorf("unknown heading level %q", s)
	}
	return nil
}

// levelForDepth maps a 1-based nesting depth onto H1..H3, folding deeper
// depths into H3.
func levelForDepth(depth int) Level {
	switch {
	case depth <= 1:
		return H1
	case depth == 2:
		return H2
	default:
		return H3
	}
}

// Entry is one finalized outline heading. Page is 1-based.
type Entry struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Outline is the per-document output record.
type Outline struct {
	Title   string  `json:"title"`
	Outline []Entry `json:"outline"`
}

// Source identifies which path of the engine produced an outline.
type Source string

const (
	SourceToc       Source = "toc"
	SourceHeuristic Source = "heuristic"
	SourceEmpty     Source = "empty"
)

// Result is the outline plus the diagnostics the builder collected on the way.
type Result struct {
	Outline     *Outline
	Source      Source
	Profile     FontProfile
	TitleSource TitleSource
	Candidates  int // heading candidates before deduplication
}

// HeadingCandidate is a line provisionally classified as a heading.
type HeadingCandidate struct {
	Text      string
	PageIndex int
	Level     Level
	Score     float64
	BBox      docmodel.BBox
	FontSize  float64
	Bold      bool
	Signals   Signal
	LineIndex int // index into Document.Lines of the first line
}

// Entry converts the candidate into its public form.
func (c HeadingCandidate) Entry() Entry {
	return Entry{Level: c.Level, Text: c.Text, Page: c.PageIndex + 1}
}
