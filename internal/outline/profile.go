package outline

import (
	"math"
	"sort"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/docmodel"
)

// Tier is a band of font sizes that maps to one heading level.
type Tier struct {
	Size  float64 // representative (most heavily weighted) size
	Min   float64
	Max   float64
	Level Level
}

// Contains reports whether size falls within the tier widened by tol.
func (t Tier) Contains(size, tol float64) bool {
	return size >= t.Min-tol && size <= t.Max+tol
}

// FontProfile is the document's typographic baseline and heading tiers.
// Tiers are ordered by strictly decreasing size. Sizes at or below Floor
// never match a tier, however wide the match tolerance.
type FontProfile struct {
	BodySize float64
	Floor    float64
	Tiers    []Tier
}

// TierFor returns the level of the first tier that contains size.
func (p FontProfile) TierFor(size, tol float64) (Level, bool) {
	if size <= p.Floor {
		return LevelNone, false
	}
	for _, t := range p.Tiers {
		if t.Contains(size, tol) {
			return t.Level, true
		}
	}
	return LevelNone, false
}

// SizeSample is one observation for the profiler: a font size weighted by
// the number of characters set in it.
type SizeSample struct {
	Size   float64
	Weight int
}

// Profile builds the font profile for a document.
func Profile(doc *docmodel.Document, opts Options) FontProfile {
	if doc == nil {
		return FontProfile{}
	}
	samples := make([]SizeSample, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		n := utf8.RuneCountInString(l.Text)
		if n == 0 || l.FontSize <= 0 {
			continue
		}
		samples = append(samples, SizeSample{Size: l.FontSize, Weight: n})
	}
	return ProfileSizes(samples, opts)
}

// ProfileSizes computes a FontProfile from weighted size samples. It holds no
// state between calls.
func ProfileSizes(samples []SizeSample, opts Options) FontProfile {
	weights := make(map[float64]int)
	for _, s := range samples {
		if s.Size <= 0 || s.Weight <= 0 {
			continue
		}
		weights[roundSize(s.Size)] += s.Weight
	}
	if len(weights) == 0 {
		return FontProfile{}
	}

	sizes := make([]float64, 0, len(weights))
	for size := range weights {
		sizes = append(sizes, size)
	}
	sort.Float64s(sizes)

	// Ascending iteration with a strict comparison breaks ties toward the
	// smaller size.
	body := sizes[0]
	for _, size := range sizes[1:] {
		if weights[size] > weights[body] {
			body = size
		}
	}

	profile := FontProfile{BodySize: body}
	if len(sizes) < 2 {
		return profile
	}

	threshold := body * (1 + opts.TierMargin)
	profile.Floor = threshold
	var larger []float64
	for _, size := range sizes {
		if size > threshold {
			larger = append(larger, size)
		}
	}

	clusters := clusterSizes(larger, opts.ClusterTolerance)
	// Largest first.
	sort.Slice(clusters, func(i, j int) bool { return clusters[i][0] > clusters[j][0] })

	for i, c := range clusters {
		if i >= int(MaxLevel) {
			// Fold anything smaller into the last tier.
			last := &profile.Tiers[len(profile.Tiers)-1]
			last.Min = math.Min(last.Min, c[len(c)-1])
			continue
		}
		profile.Tiers = append(profile.Tiers, Tier{
			Size:  heaviest(c, weights),
			Min:   c[len(c)-1],
			Max:   c[0],
			Level: Level(i + 1),
		})
	}
	return profile
}

// clusterSizes groups ascending sizes so that neighbours closer than tol share
// a cluster. Each returned cluster is sorted descending.
func clusterSizes(sorted []float64, tol float64) [][]float64 {
	var clusters [][]float64
	var cur []float64
	for i, size := range sorted {
		if i > 0 && size-sorted[i-1] > tol+1e-9 {
			clusters = append(clusters, reversed(cur))
			cur = nil
		}
		cur = append(cur, size)
	}
	if len(cur) > 0 {
		clusters = append(clusters, reversed(cur))
	}
	return clusters
}

func heaviest(cluster []float64, weights map[float64]int) float64 {
	best := cluster[0]
	for _, size := range cluster[1:] {
		if weights[size] > weights[best] {
			best = size
		}
	}
	return best
}

func reversed(in []float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}

func roundSize(size float64) float64 {
	return math.Round(size*10) / 10
}
