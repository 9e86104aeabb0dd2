package outline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// TocDepthPolicy controls what happens to ToC entries nested deeper than H3.
type TocDepthPolicy int

const (
	// ClampDeepEntries reports deeper entries as H3.
	ClampDeepEntries TocDepthPolicy = iota
	// DropDeepEntries omits deeper entries.
	DropDeepEntries
)

func (p TocDepthPolicy) String() string {
	if p == DropDeepEntries {
		return "drop"
	}
	return "clamp"
}

// ParseTocDepthPolicy accepts "clamp" or "drop" (case-insensitive).
func ParseTocDepthPolicy(s string) (TocDepthPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clamp":
		return ClampDeepEntries, nil
	case "drop":
		return DropDeepEntries, nil
	}
	return ClampDeepEntries, fmt.Errorf("unknown toc depth policy %q", s)
}

// Weights are the additive contributions of each classifier signal.
type Weights struct {
	FontTier        float64
	Bold            float64
	Italic          float64
	Numbering       float64
	Casing          float64
	LongCapsPenalty float64 // subtracted
	Centered        float64
}

// Options tunes the heuristic path. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	Weights         Weights
	AcceptThreshold float64 // a candidate's score must exceed this

	MinHeadingLength int // runes; shorter lines are ignored
	MaxHeadingLength int // runes; longer lines are rejected outright
	ShortLineLength  int // runes; casing bonus applies below this

	TierMargin       float64 // relative margin over body size for tier candidates
	ClusterTolerance float64 // points; sizes closer than this share a tier
	MatchTolerance   float64 // points; slack when matching a line to a tier
	CenterTolerance  float64 // fraction of page width

	TitleMargin         float64 // title font must be >= body * TitleMargin
	RepeatPageThreshold int     // running-header suppression; 0 disables

	TocDepth TocDepthPolicy
}

// DefaultOptions returns the tuned defaults.
func DefaultOptions() Options {
	return Options{
		Weights: Weights{
			FontTier:        3.0,
			Bold:            1.5,
			Italic:          0.5,
			Numbering:       2.0,
			Casing:          0.6,
			LongCapsPenalty: 1.0,
			Centered:        0.5,
		},
		AcceptThreshold:     2.5,
		MinHeadingLength:    3,
		MaxHeadingLength:    150,
		ShortLineLength:     80,
		TierMargin:          0.05,
		ClusterTolerance:    0.5,
		MatchTolerance:      0.5,
		CenterTolerance:     0.05,
		TitleMargin:         1.5,
		RepeatPageThreshold: 3,
		TocDepth:            ClampDeepEntries,
	}
}

// Validate rejects option sets that would make the classifier meaningless.
func (o Options) Validate() error {
	if o.MaxHeadingLength <= 0 {
		return fmt.Errorf("max heading length must be positive, got %d", o.MaxHeadingLength)
	}
	if o.MinHeadingLength > o.MaxHeadingLength {
		return fmt.Errorf("min heading length %d exceeds max %d", o.MinHeadingLength, o.MaxHeadingLength)
	}
	if o.TierMargin < 0 || o.ClusterTolerance < 0 || o.MatchTolerance < 0 {
		return fmt.Errorf("tolerances must not be negative")
	}
	if o.TitleMargin < 1 {
		return fmt.Errorf("title margin must be at least 1, got %g", o.TitleMargin)
	}
	return nil
}

// Fingerprint identifies an option set, so cached outlines are only reused
// under the tuning that produced them.
func (o Options) Fingerprint() string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%+v", o)))
	return hex.EncodeToString(sum[:8])
}
