package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/docoutline/internal/outline"
)

// engineFile is the on-disk form of outline.Options. Fields left out of the
// file keep their defaults.
type engineFile struct {
	Weights struct {
		FontTier        *float64 `toml:"font_tier" yaml:"font_tier"`
		Bold            *float64 `toml:"bold" yaml:"bold"`
		Italic          *float64 `toml:"italic" yaml:"italic"`
		Numbering       *float64 `toml:"numbering" yaml:"numbering"`
		Casing          *float64 `toml:"casing" yaml:"casing"`
		LongCapsPenalty *float64 `toml:"long_caps_penalty" yaml:"long_caps_penalty"`
		Centered        *float64 `toml:"centered" yaml:"centered"`
	} `toml:"weights" yaml:"weights"`

	AcceptThreshold     *float64 `toml:"accept_threshold" yaml:"accept_threshold"`
	MinHeadingLength    *int     `toml:"min_heading_length" yaml:"min_heading_length"`
	MaxHeadingLength    *int     `toml:"max_heading_length" yaml:"max_heading_length"`
	ShortLineLength     *int     `toml:"short_line_length" yaml:"short_line_length"`
	TierMargin          *float64 `toml:"tier_margin" yaml:"tier_margin"`
	ClusterTolerance    *float64 `toml:"cluster_tolerance" yaml:"cluster_tolerance"`
	MatchTolerance      *float64 `toml:"match_tolerance" yaml:"match_tolerance"`
	CenterTolerance     *float64 `toml:"center_tolerance" yaml:"center_tolerance"`
	TitleMargin         *float64 `toml:"title_margin" yaml:"title_margin"`
	RepeatPageThreshold *int     `toml:"repeat_page_threshold" yaml:"repeat_page_threshold"`
	TocDepth            string   `toml:"toc_depth" yaml:"toc_depth"`
}

// LoadEngineOptions reads a TOML or YAML tuning file over the defaults.
func LoadEngineOptions(path string) (outline.Options, error) {
	opts := outline.DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read engine config: %w", err)
	}

	var f engineFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &f)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	default:
		return opts, fmt.Errorf("engine config %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return opts, fmt.Errorf("parse engine config %s: %w", path, err)
	}

	if err := f.apply(&opts); err != nil {
		return opts, fmt.Errorf("engine config %s: %w", path, err)
	}
	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("engine config %s: %w", path, err)
	}
	return opts, nil
}

func (f engineFile) apply(o *outline.Options) error {
	setFloat(&o.Weights.FontTier, f.Weights.FontTier)
	setFloat(&o.Weights.Bold, f.Weights.Bold)
	setFloat(&o.Weights.Italic, f.Weights.Italic)
	setFloat(&o.Weights.Numbering, f.Weights.Numbering)
	setFloat(&o.Weights.Casing, f.Weights.Casing)
	setFloat(&o.Weights.LongCapsPenalty, f.Weights.LongCapsPenalty)
	setFloat(&o.Weights.Centered, f.Weights.Centered)

	setFloat(&o.AcceptThreshold, f.AcceptThreshold)
	setInt(&o.MinHeadingLength, f.MinHeadingLength)
	setInt(&o.MaxHeadingLength, f.MaxHeadingLength)
	setInt(&o.ShortLineLength, f.ShortLineLength)
	setFloat(&o.TierMargin, f.TierMargin)
	setFloat(&o.ClusterTolerance, f.ClusterTolerance)
	setFloat(&o.MatchTolerance, f.MatchTolerance)
	setFloat(&o.CenterTolerance, f.CenterTolerance)
	setFloat(&o.TitleMargin, f.TitleMargin)
	setInt(&o.RepeatPageThreshold, f.RepeatPageThreshold)

	if f.TocDepth != "" {
		policy, err := outline.ParseTocDepthPolicy(f.TocDepth)
		if err != nil {
			return err
		}
		o.TocDepth = policy
	}
	return nil
}

func setFloat(dst, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst, v *int) {
	if v != nil {
		*dst = *v
	}
}
