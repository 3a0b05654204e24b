// Package batch converts several statement files in parallel on a bounded
// worker pool. Each file is an independent pipeline run.
package batch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/insightdelivered/idn-statement-reader/internal/extractor"
	"github.com/insightdelivered/idn-statement-reader/internal/models"
	"github.com/insightdelivered/idn-statement-reader/internal/statement"
	"github.com/insightdelivered/idn-statement-reader/internal/writer"
)

// Options control how each file is read and written.
type Options struct {
	// Format forces a layout for every file.
	Format models.Format
	// Output is the output path; only valid with a single input.
	Output string
	// OutFormat is "xlsx" or "csv".
	OutFormat     string
	IncludeHeader bool
	// TextInput treats inputs as already-extracted text instead of PDFs.
	TextInput bool
}

// FileResult is the outcome for one input file.
type FileResult struct {
	Input  string
	Output string
	Result *statement.Result
	Err    error
}

// Runner owns the worker pool.
type Runner struct {
	pool      *ants.Pool
	processor *statement.Processor
	log       *slog.Logger
	opts      Options
}

// NewRunner creates a runner with size workers.
func NewRunner(size int, p *statement.Processor, log *slog.Logger, opts Options) (*Runner, error) {
	if opts.Output != "" && opts.OutFormat == "" {
		opts.OutFormat = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.Output)), ".")
	}
	if opts.OutFormat != "xlsx" && opts.OutFormat != "csv" {
		return nil, fmt.Errorf("unsupported output format %q: use xlsx or csv", opts.OutFormat)
	}

	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &Runner{pool: pool, processor: p, log: log, opts: opts}, nil
}

// Run converts every path and returns the results in input order.
func (r *Runner) Run(paths []string) []FileResult {
	results := make([]FileResult, len(paths))
	if r.opts.Output != "" && len(paths) > 1 {
		for i, p := range paths {
			results[i] = FileResult{Input: p, Err: fmt.Errorf("-output can only be used with a single input file")}
		}
		return results
	}

	var wg sync.WaitGroup
	for i, path := range paths {
		i, path := i, path
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			results[i] = r.convert(path)
		})
		if err != nil {
			wg.Done()
			r.log.Error("failed to submit file to worker pool", "input", path, "error", err)
			results[i] = FileResult{Input: path, Err: fmt.Errorf("submit: %w", err)}
		}
	}
	wg.Wait()
	return results
}

// Release shuts the worker pool down.
func (r *Runner) Release() {
	r.log.Debug("shutting down worker pool", "running_workers", r.pool.Running())
	r.pool.Release()
}

func (r *Runner) convert(path string) (fr FileResult) {
	fr.Input = path
	defer func() {
		if rec := recover(); rec != nil {
			fr.Err = fmt.Errorf("conversion crashed: %v", rec)
		}
	}()

	if _, err := os.Stat(path); err != nil {
		fr.Err = fmt.Errorf("input file not found: %s", path)
		return fr
	}

	text, err := r.readText(path)
	if err != nil {
		fr.Err = err
		return fr
	}

	fr.Result = r.processor.Process(statement.Document{Name: path, Text: text, Format: r.opts.Format})

	fr.Output = r.opts.Output
	if fr.Output == "" {
		fr.Output = strings.TrimSuffix(path, filepath.Ext(path)) + "." + r.opts.OutFormat
	}
	if err := r.write(fr.Output, fr.Result); err != nil {
		fr.Err = err
	}
	return fr
}

func (r *Runner) readText(path string) (string, error) {
	if r.opts.TextInput {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return string(data), nil
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".pdf" {
		return "", fmt.Errorf("expected .pdf file, got %q (use -text for extracted text)", ext)
	}
	text, err := extractor.Extract(path)
	if err != nil {
		return "", fmt.Errorf("PDF extraction failed: %w", err)
	}
	return text, nil
}

func (r *Runner) write(path string, res *statement.Result) error {
	if r.opts.OutFormat == "csv" {
		w := &writer.CSVWriter{IncludeHeader: r.opts.IncludeHeader}
		if err := w.WriteToFile(path, res); err != nil {
			return fmt.Errorf("CSV write failed: %w", err)
		}
		return nil
	}
	if err := (&writer.WorkbookWriter{}).WriteToFile(path, res); err != nil {
		return fmt.Errorf("workbook write failed: %w", err)
	}
	return nil
}
