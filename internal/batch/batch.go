// Package batch runs the recognition pipeline over a list of image files.
// Each file is processed independently; a failing file is reported and never
// aborts the remaining work.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/textlift/textlift/internal/pipeline"
)

// FileResult is the outcome for one input file.
type FileResult struct {
	Path       string
	OutputPath string // set when a .txt file was written
	Text       string
	Err        error
}

// Result summarizes a batch run.
type Result struct {
	Files    []FileResult
	Duration time.Duration
}

// Failed returns the number of files that did not produce output.
func (r *Result) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

// Run processes each input path through the pipeline and emits output per
// the configuration. Results are reported in input order regardless of the
// worker count. The returned error covers setup problems only; per-file
// failures are carried in the result.
func Run(ctx context.Context, pl *pipeline.Pipeline, paths []string, cfg Config) (*Result, error) {
	if pl == nil {
		return nil, errors.New("batch: pipeline is required")
	}
	if len(paths) == 0 {
		return nil, errors.New("batch: no input files provided")
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	start := time.Now()
	files := processFiles(ctx, pl, paths, cfg.Workers)
	result := &Result{Files: files, Duration: time.Since(start)}

	for i := range result.Files {
		emit(&result.Files[i], cfg)
	}
	return result, nil
}

// processFiles fans paths out over a bounded worker pool and collects
// results indexed by input position.
func processFiles(ctx context.Context, pl *pipeline.Pipeline, paths []string, workers int) []FileResult {
	results := make([]FileResult, len(paths))
	if workers > len(paths) {
		workers = len(paths)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = processFile(ctx, pl, paths[i])
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// processFile reads one file and runs recognition over it.
func processFile(ctx context.Context, pl *pipeline.Pipeline, path string) FileResult {
	res := FileResult{Path: path}

	data, err := os.ReadFile(path) //nolint:gosec // G304: reading a user-provided input file is expected
	if err != nil {
		res.Err = fmt.Errorf("read %s: %w", path, err)
		return res
	}

	out, err := pl.Process(ctx, data)
	if err != nil {
		res.Err = fmt.Errorf("recognize %s: %w", path, err)
		return res
	}

	res.Text = out.Text
	return res
}

// emit writes one file's outcome to stdout or a sibling .txt file.
func emit(f *FileResult, cfg Config) {
	if f.Err != nil {
		slog.Warn("file failed", "file", f.Path, "error", f.Err)
		_, _ = fmt.Fprintf(cfg.Stderr, "%s: %v\n", f.Path, f.Err)
		return
	}

	if !cfg.WriteTextFiles {
		_, _ = fmt.Fprint(cfg.Stdout, f.Text)
		return
	}

	outPath := textFilePath(f.Path)
	if err := os.WriteFile(outPath, []byte(f.Text), 0o600); err != nil {
		f.Err = fmt.Errorf("write %s: %w", outPath, err)
		_, _ = fmt.Fprintf(cfg.Stderr, "%s: %v\n", f.Path, f.Err)
		return
	}
	f.OutputPath = outPath
	_, _ = fmt.Fprintf(cfg.Stdout, "%s --> %s\n", f.Path, outPath)
}

// textFilePath returns the sibling .txt path for an input file: same
// directory, same base name, .txt extension.
func textFilePath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".txt"
}
