package outline

import (
	"math"
	"sort"
	"unicode/utf8"
)

// Deduplicate merges split headings, drops the title's own line, suppresses
// running headers and removes adjacent repeats. The result is ordered by page
// and then top edge.
func Deduplicate(cands []HeadingCandidate, title Title, opts Options) []Entry {
	merged := mergeSplit(cands, opts)
	merged = dropTitle(merged, title)
	merged = suppressRunningHeaders(merged, opts.RepeatPageThreshold)

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].PageIndex != merged[j].PageIndex {
			return merged[i].PageIndex < merged[j].PageIndex
		}
		return merged[i].BBox.Y0 < merged[j].BBox.Y0
	})

	entries := make([]Entry, 0, len(merged))
	var prevKey string
	for i, c := range merged {
		key := normalizeKey(c.Text)
		if i > 0 && key == prevKey && c.Level == merged[i-1].Level && c.PageIndex == merged[i-1].PageIndex {
			continue
		}
		prevKey = key
		entries = append(entries, c.Entry())
	}
	return entries
}

// mergeSplit joins consecutive candidates that are pieces of one heading.
func mergeSplit(cands []HeadingCandidate, opts Options) []HeadingCandidate {
	if len(cands) == 0 {
		return nil
	}
	out := make([]HeadingCandidate, 0, len(cands))
	cur := cands[0]
	last := cands[0]
	for _, next := range cands[1:] {
		if continues(last, next, opts) &&
			utf8.RuneCountInString(cur.Text)+1+utf8.RuneCountInString(next.Text) <= opts.MaxHeadingLength {
			cur.Text += " " + next.Text
			cur.Score = math.Max(cur.Score, next.Score)
			cur.Signals |= next.Signals
			last = next
			continue
		}
		out = append(out, cur)
		cur, last = next, next
	}
	return append(out, cur)
}

// continues reports whether next reads as the continuation of prev.
func continues(prev, next HeadingCandidate, opts Options) bool {
	if next.LineIndex != prev.LineIndex+1 || next.PageIndex != prev.PageIndex {
		return false
	}
	if next.Level != prev.Level || next.Bold != prev.Bold {
		return false
	}
	if math.Abs(next.FontSize-prev.FontSize) > opts.MatchTolerance {
		return false
	}
	if numberingDepth(next.Text) > 0 {
		return false
	}

	size := math.Max(prev.FontSize, next.FontSize)
	a, b := prev.BBox, next.BBox
	if a.Overlaps(b) {
		return true
	}
	sameRow := math.Abs(a.Y0-b.Y0) <= size/2 && b.X0-a.X1 <= size
	if sameRow {
		return true
	}
	gap := b.Y0 - a.Y1
	return gap >= -size/2 && gap <= 0.6*size
}

func dropTitle(cands []HeadingCandidate, title Title) []HeadingCandidate {
	if title.PageIndex < 0 {
		return cands
	}
	key := normalizeKey(title.Text)
	out := cands[:0]
	for _, c := range cands {
		if c.PageIndex == title.PageIndex && normalizeKey(c.Text) == key {
			continue
		}
		out = append(out, c)
	}
	return out
}

// suppressRunningHeaders keeps only the first occurrence of any text that
// shows up on threshold or more distinct pages.
func suppressRunningHeaders(cands []HeadingCandidate, threshold int) []HeadingCandidate {
	if threshold <= 0 {
		return cands
	}
	pages := make(map[string]map[int]bool)
	for _, c := range cands {
		key := normalizeKey(c.Text)
		if pages[key] == nil {
			pages[key] = make(map[int]bool)
		}
		pages[key][c.PageIndex] = true
	}

	seen := make(map[string]bool)
	out := cands[:0]
	for _, c := range cands {
		key := normalizeKey(c.Text)
		if len(pages[key]) >= threshold {
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		out = append(out, c)
	}
	return out
}
