package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docoutline/internal/docmodel"
)

func TestProfileSizes_SingleSizeHasNoTiers(t *testing.T) {
	p := ProfileSizes([]SizeSample{{Size: 11, Weight: 500}, {Size: 11.02, Weight: 20}}, DefaultOptions())
	assert.Equal(t, 11.0, p.BodySize)
	assert.Empty(t, p.Tiers)
}

func TestProfileSizes_TieGoesToSmallerSize(t *testing.T) {
	p := ProfileSizes([]SizeSample{{Size: 12, Weight: 50}, {Size: 10, Weight: 50}}, DefaultOptions())
	assert.Equal(t, 10.0, p.BodySize)
	require.Len(t, p.Tiers, 1)
	assert.Equal(t, 12.0, p.Tiers[0].Size)
	assert.Equal(t, H1, p.Tiers[0].Level)
}

func TestProfileSizes_BodyWeightedByCharacters(t *testing.T) {
	// Many short large fragments lose to a few long body lines.
	samples := []SizeSample{{Size: 10, Weight: 900}}
	for i := 0; i < 40; i++ {
		samples = append(samples, SizeSample{Size: 14, Weight: 5})
	}
	p := ProfileSizes(samples, DefaultOptions())
	assert.Equal(t, 10.0, p.BodySize)
}

func TestProfileSizes_MarginExcludesNearBodySizes(t *testing.T) {
	p := ProfileSizes([]SizeSample{{Size: 10, Weight: 500}, {Size: 10.4, Weight: 30}}, DefaultOptions())
	assert.Empty(t, p.Tiers)
}

func TestProfileSizes_NearbySizesShareTier(t *testing.T) {
	p := ProfileSizes([]SizeSample{
		{Size: 10, Weight: 1000},
		{Size: 18, Weight: 40},
		{Size: 18.3, Weight: 10},
		{Size: 14, Weight: 30},
	}, DefaultOptions())

	require.Len(t, p.Tiers, 2)
	assert.Equal(t, 18.0, p.Tiers[0].Size)
	assert.Equal(t, 18.0, p.Tiers[0].Min)
	assert.Equal(t, 18.3, p.Tiers[0].Max)
	assert.Equal(t, 14.0, p.Tiers[1].Size)
}

func TestProfileSizes_DeepTiersFoldIntoH3(t *testing.T) {
	p := ProfileSizes([]SizeSample{
		{Size: 10, Weight: 1000},
		{Size: 24, Weight: 10},
		{Size: 18, Weight: 10},
		{Size: 14, Weight: 10},
		{Size: 12, Weight: 10},
	}, DefaultOptions())

	require.Len(t, p.Tiers, 3)
	assert.Equal(t, []float64{24, 18, 14}, []float64{p.Tiers[0].Size, p.Tiers[1].Size, p.Tiers[2].Size})
	assert.Equal(t, 12.0, p.Tiers[2].Min)

	level, ok := p.TierFor(12, DefaultOptions().MatchTolerance)
	require.True(t, ok)
	assert.Equal(t, H3, level)
}

func TestProfileSizes_Invariants(t *testing.T) {
	dists := [][]SizeSample{
		nil,
		{{Size: 9, Weight: 1}},
		{{Size: 8, Weight: 10}, {Size: 30, Weight: 10}, {Size: 9, Weight: 400}},
		{{Size: 12, Weight: 100}, {Size: 12.4, Weight: 90}, {Size: 12.8, Weight: 80}, {Size: 13.2, Weight: 70}, {Size: 20, Weight: 5}},
		{{Size: 10, Weight: 300}, {Size: 11, Weight: 3}, {Size: 13, Weight: 3}, {Size: 15, Weight: 3}, {Size: 17, Weight: 3}, {Size: 19, Weight: 3}},
		{{Size: 36, Weight: 500}, {Size: 10, Weight: 20}},
	}
	for _, d := range dists {
		p := ProfileSizes(d, DefaultOptions())
		assert.LessOrEqual(t, len(p.Tiers), 3)
		for i, tier := range p.Tiers {
			assert.LessOrEqual(t, p.BodySize, tier.Size)
			assert.Equal(t, Level(i+1), tier.Level)
			if i > 0 {
				assert.Less(t, tier.Size, p.Tiers[i-1].Size)
			}
		}
	}
}

func TestProfile_SkipsEmptyLines(t *testing.T) {
	doc := &docmodel.Document{Lines: lines(
		bodyLines(0, 3, 100),
		one(textLine("", 0, 40, false, 10)),
		one(textLine("Heading", 0, 16, true, 60)),
	)}
	p := Profile(doc, DefaultOptions())
	assert.Equal(t, 10.0, p.BodySize)
	require.Len(t, p.Tiers, 1)
	assert.Equal(t, 16.0, p.Tiers[0].Size)
}
