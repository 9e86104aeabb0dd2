// Package batch extracts outlines for every supported document in a
// directory and writes one JSON file per document.
package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

// Result describes the outcome for one input file.
type Result struct {
	Input    string
	Output   string
	Source   outline.Source
	Entries  int
	Cached   bool
	Duration time.Duration
	Err      error
}

// Summary aggregates a directory run.
type Summary struct {
	Processed int
	Failed    int
	Duration  time.Duration
	Results   []Result
}

// Runner processes input files with a bounded number of workers.
type Runner struct {
	extractor *pipeline.Extractor
	outputDir string
	workers   int
	log       *slog.Logger
}

func NewRunner(ex *pipeline.Extractor, outputDir string, workers int, log *slog.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Runner{extractor: ex, outputDir: outputDir, workers: workers, log: log}
}

// Run processes every supported file directly inside inputDir. A failing
// document is logged and counted; it does not stop the run.
func (r *Runner) Run(ctx context.Context, inputDir string) (Summary, error) {
	start := time.Now()
	files, err := ListInputs(inputDir)
	if err != nil {
		return Summary{}, err
	}
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create output dir: %w", err)
	}
	r.log.Info("batch started", "input_dir", inputDir, "files", len(files), "workers", r.workers)

	results := make([]Result, len(files))
	sem := make(chan struct{}, r.workers)
	var wg sync.WaitGroup
	for i, path := range files {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return Summary{}, ctx.Err()
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = r.ProcessFile(ctx, path)
		}()
	}
	wg.Wait()

	sum := Summary{Results: results, Duration: time.Since(start)}
	for _, res := range results {
		if res.Err != nil {
			sum.Failed++
		} else {
			sum.Processed++
		}
	}
	r.log.Info("batch finished",
		"processed", sum.Processed,
		"failed", sum.Failed,
		"duration_ms", sum.Duration.Milliseconds())
	return sum, nil
}

// ProcessFile extracts the outline of one file and writes it to the output
// directory as <stem>.json.
func (r *Runner) ProcessFile(ctx context.Context, path string) Result {
	start := time.Now()
	res := Result{Input: path}
	log := r.log.With("file", filepath.Base(path))

	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("read %s: %w", path, err)
		log.Error("read failed", "error", err)
		return res
	}

	ex, err := r.extractor.Extract(ctx, filepath.Base(path), data)
	if err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		log.Error("extraction failed", "error", err, "duration_ms", res.Duration.Milliseconds())
		return res
	}

	res.Output = OutputPath(r.outputDir, path)
	if err := writeFile(res.Output, ex.Outline); err != nil {
		res.Err = err
		log.Error("write failed", "output", res.Output, "error", err)
		return res
	}

	res.Source = ex.Source
	res.Entries = len(ex.Outline.Outline)
	res.Cached = ex.Cached
	res.Duration = time.Since(start)
	log.Info("outline written",
		"output", filepath.Base(res.Output),
		"source", res.Source,
		"entries", res.Entries,
		"cached", res.Cached,
		"duration_ms", res.Duration.Milliseconds())
	return res
}

// ListInputs returns the supported files directly inside dir, sorted by name.
// Hidden files are skipped.
func ListInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !isInput(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func isInput(name string) bool {
	return !strings.HasPrefix(name, ".") && parser.IsSupportedExtension(name)
}

// OutputPath maps an input file to <outputDir>/<stem>.json.
func OutputPath(outputDir, input string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, stem+".json")
}

// WriteOutline encodes o with four-space indentation, leaving non-ASCII and
// HTML characters unescaped.
func WriteOutline(w io.Writer, o *outline.Outline) error {
	if o == nil {
		return errors.New("write outline: nil outline")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return enc.Encode(o)
}

// writeFile writes through a temp file so readers never see partial output.
func writeFile(path string, o *outline.Outline) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".outline-*.json")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	if err := WriteOutline(tmp, o); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}
