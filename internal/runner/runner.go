// Package runner processes batches of parser documents concurrently.
package runner

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/analyzer"
	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/models"
)

// ProcessingError represents an error that occurred while processing one
// document.
type ProcessingError struct {
	Path string
	Err  error
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// ProcessingErrors collects multiple document processing errors.
type ProcessingErrors struct {
	Errors []ProcessingError
	mu     sync.Mutex
}

// Add appends an error to the collection (thread-safe).
func (e *ProcessingErrors) Add(path string, err error) {
	e.mu.Lock()
	e.Errors = append(e.Errors, ProcessingError{Path: path, Err: err})
	e.mu.Unlock()
}

// HasErrors returns true if any errors were collected.
func (e *ProcessingErrors) HasErrors() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors) > 0
}

// Error implements the error interface.
func (e *ProcessingErrors) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d documents failed (first: %v)", len(e.Errors), e.Errors[0])
}

// DefaultWorkerMultiplier is applied to NumCPU for the worker count. The
// workload mixes file reads with CPU-bound analysis, so oversubscribing
// keeps the pool busy during I/O.
const DefaultWorkerMultiplier = 2

// ProgressFunc is called after each document finishes, pass or fail.
type ProgressFunc func()

// Runner fans analysis of parser documents out over a worker pool.
type Runner struct {
	engine     *analyzer.Engine
	maxWorkers int
	maxDocSize int64
	onProgress ProgressFunc
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers sets the worker count. Zero or negative selects the default.
func WithWorkers(n int) Option {
	return func(r *Runner) { r.maxWorkers = n }
}

// WithMaxDocSize rejects documents larger than n bytes before decoding.
func WithMaxDocSize(n int64) Option {
	return func(r *Runner) { r.maxDocSize = n }
}

// WithProgress registers a per-document completion callback.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Runner) { r.onProgress = fn }
}

// New creates a batch runner around an analysis engine.
func New(engine *analyzer.Engine, opts ...Option) *Runner {
	r := &Runner{engine: engine}
	for _, opt := range opts {
		opt(r)
	}
	if r.maxWorkers <= 0 {
		r.maxWorkers = runtime.NumCPU() * DefaultWorkerMultiplier
	}
	return r
}

// Run analyzes every document path. Individual failures never stop the
// batch; they come back in ProcessingErrors alongside whatever results
// completed. Results are ordered by path so a batch is reproducible.
// Cancelling the context abandons documents not yet started.
func (r *Runner) Run(ctx context.Context, paths []string) ([]*models.AnalysisResult, *ProcessingErrors) {
	if len(paths) == 0 {
		return nil, nil
	}

	results := make([]*models.AnalysisResult, len(paths))
	errs := &ProcessingErrors{}

	p := pool.New().WithMaxGoroutines(r.maxWorkers).WithContext(ctx)
	for i, path := range paths {
		p.Go(func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				errs.Add(path, ctx.Err())
				r.tick()
				return ctx.Err()
			default:
			}

			result, err := r.analyzeFile(ctx, path)
			if err != nil {
				errs.Add(path, err)
				r.tick()
				return nil
			}

			results[i] = result
			r.tick()
			return nil
		})
	}
	_ = p.Wait()

	ordered := make([]*models.AnalysisResult, 0, len(paths))
	for _, res := range results {
		if res != nil {
			ordered = append(ordered, res)
		}
	}
	sort.SliceStable(errs.Errors, func(i, j int) bool {
		return errs.Errors[i].Path < errs.Errors[j].Path
	})

	if !errs.HasErrors() {
		return ordered, nil
	}
	return ordered, errs
}

func (r *Runner) analyzeFile(ctx context.Context, path string) (*models.AnalysisResult, error) {
	if r.maxDocSize > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if info.Size() > r.maxDocSize {
			return nil, fmt.Errorf("document is %d bytes, limit is %d", info.Size(), r.maxDocSize)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return r.engine.AnalyzeDocument(ctx, data)
}

func (r *Runner) tick() {
	if r.onProgress != nil {
		r.onProgress()
	}
}
