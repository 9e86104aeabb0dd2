// Package cli implements the docoutline command-line interface.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/cache"
	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "docoutline",
	Short: "Extract title and heading outlines from documents",
	Long: `docoutline reads PDF, Markdown, HTML, DOCX and plain text documents and
produces their title plus an H1-H3 outline with 1-based page numbers.

Engine tuning comes from ENGINE_CONFIG (TOML or YAML) and TOC_DEPTH_POLICY.
Set CACHE_PATH to reuse outlines of documents seen before.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newLogger writes text logs to w, at debug level with --verbose.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newExtractor builds an extractor from the environment. The returned close
// function releases the cache, if one was opened.
func newExtractor(log *slog.Logger) (*pipeline.Extractor, func(), error) {
	cfg := config.Load()
	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, nil, fmt.Errorf("engine options: %w", err)
	}
	builder := outline.NewBuilder(opts, log)

	if cfg.CachePath == "" {
		return pipeline.NewExtractor(builder, nil, nil, log), func() {}, nil
	}
	c, err := cache.Open(cfg.CachePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open cache: %w", err)
	}
	return pipeline.NewExtractor(builder, c, nil, log), func() { c.Close() }, nil
}
