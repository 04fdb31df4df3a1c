package analyzer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sourcegraph/conc"

	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/analyzer/callgraph"
	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/analyzer/controlflow"
	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/analyzer/data"
	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/analyzer/metrics"
	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/analyzer/quality"
	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/analyzer/structure"
	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/ast"
	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/benchmark"
	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/models"
)

var (
	_ Analyzer[*models.StructureReport]   = (*structure.Analyzer)(nil)
	_ Analyzer[*models.ControlFlowReport] = (*controlflow.Analyzer)(nil)
	_ Analyzer[*models.DataReport]        = (*data.Analyzer)(nil)
	_ Analyzer[*models.CallGraphReport]   = (*callgraph.Analyzer)(nil)
)

// ErrNilProgram is the one fatal input condition: there is nothing to
// analyze. Every other failure degrades into issues on a partial result.
var ErrNilProgram = errors.New("analyzer: program has no root")

// Engine runs the full pipeline: the four independent analyzers in
// parallel, then metrics aggregation, then benchmark evaluation.
type Engine struct {
	structure   *structure.Analyzer
	controlflow *controlflow.Analyzer
	data        *data.Analyzer
	callgraph   *callgraph.Analyzer
	metrics     *metrics.Analyzer
	quality     *quality.Evaluator
}

// EngineOption configures an Engine.
type EngineOption func(*engineConfig)

type engineConfig struct {
	definitions    []models.MetricDefinition
	criticalDegree int
	cutoff         float64
	tolerance      float64
}

// WithBenchmarks replaces the built-in benchmark definitions.
func WithBenchmarks(defs []models.MetricDefinition) EngineOption {
	return func(c *engineConfig) {
		if len(defs) > 0 {
			c.definitions = defs
		}
	}
}

// WithCriticalItemDegree sets the data item degree cutoff.
func WithCriticalItemDegree(n int) EngineOption {
	return func(c *engineConfig) { c.criticalDegree = n }
}

// WithRecommendationCutoff sets the score below which quality evaluation
// emits a recommendation.
func WithRecommendationCutoff(v float64) EngineOption {
	return func(c *engineConfig) { c.cutoff = v }
}

// WithTargetTolerance sets the relative target distance that still rates
// excellent.
func WithTargetTolerance(v float64) EngineOption {
	return func(c *engineConfig) { c.tolerance = v }
}

// NewEngine wires the pipeline.
func NewEngine(opts ...EngineOption) *Engine {
	cfg := &engineConfig{
		definitions: benchmark.Defaults(),
		cutoff:      -1,
		tolerance:   -1,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var dataOpts []data.Option
	if cfg.criticalDegree > 0 {
		dataOpts = append(dataOpts, data.WithCriticalDegree(cfg.criticalDegree))
	}
	var qualityOpts []quality.Option
	if cfg.cutoff >= 0 {
		qualityOpts = append(qualityOpts, quality.WithRecommendationCutoff(cfg.cutoff))
	}
	if cfg.tolerance >= 0 {
		qualityOpts = append(qualityOpts, quality.WithTargetTolerance(cfg.tolerance))
	}

	return &Engine{
		structure:   structure.New(),
		controlflow: controlflow.New(),
		data:        data.New(dataOpts...),
		callgraph:   callgraph.New(),
		metrics:     metrics.New(),
		quality:     quality.New(cfg.definitions, qualityOpts...),
	}
}

// phase holds one sub-analysis outcome. Results merge in a fixed order
// after the parallel phase, so the same input always produces the same
// result regardless of scheduling.
type phase[T any] struct {
	name   string
	report T
	issues []models.Issue
	err    error
}

// run executes one analyzer, converting a panic into an error so a single
// misbehaving analysis degrades the result instead of killing the batch.
func run[T any](p *phase[T], fn func() (T, []models.Issue, error)) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				p.err = fmt.Errorf("%s analysis panicked: %v", p.name, r)
			}
		}()
		p.report, p.issues, p.err = fn()
	}
}

// Analyze runs the pipeline on one program. The returned error is non-nil
// only for fatal input; analysis failures and cancellation are reflected
// in the result's status. Issues is never nil.
func (e *Engine) Analyze(ctx context.Context, program *ast.Program) (*models.AnalysisResult, error) {
	if program == nil || program.Root == nil {
		return nil, ErrNilProgram
	}

	result := &models.AnalysisResult{
		ProgramName: program.Name,
		Status:      models.StatusSuccess,
		Issues:      []models.Issue{},
	}

	structPhase := &phase[*models.StructureReport]{name: "structure"}
	flowPhase := &phase[*models.ControlFlowReport]{name: "control-flow"}
	dataPhase := &phase[*models.DataReport]{name: "data"}
	callPhase := &phase[*models.CallGraphReport]{name: "call-graph"}

	var wg conc.WaitGroup
	wg.Go(run(structPhase, func() (*models.StructureReport, []models.Issue, error) {
		return e.structure.Analyze(ctx, program)
	}))
	wg.Go(run(flowPhase, func() (*models.ControlFlowReport, []models.Issue, error) {
		return e.controlflow.Analyze(ctx, program)
	}))
	wg.Go(run(dataPhase, func() (*models.DataReport, []models.Issue, error) {
		return e.data.Analyze(ctx, program)
	}))
	wg.Go(run(callPhase, func() (*models.CallGraphReport, []models.Issue, error) {
		return e.callgraph.Analyze(ctx, program)
	}))
	wg.Wait()

	result.Structure = structPhase.report
	result.ControlFlow = flowPhase.report
	result.Data = dataPhase.report
	result.CallGraph = callPhase.report
	mergePhase(result, structPhase)
	mergePhase(result, flowPhase)
	mergePhase(result, dataPhase)
	mergePhase(result, callPhase)

	if ctx.Err() != nil {
		result.Status = models.StatusCancelled
		return result, nil
	}

	flow := flowPhase.report
	if flow == nil {
		flow = &models.ControlFlowReport{}
	}
	metricsPhase := &phase[*models.MetricsReport]{name: "metrics"}
	run(metricsPhase, func() (*models.MetricsReport, []models.Issue, error) {
		return e.metrics.Analyze(ctx, program, flow)
	})()
	result.Metrics = metricsPhase.report
	mergePhase(result, metricsPhase)

	if ctx.Err() != nil {
		result.Status = models.StatusCancelled
		return result, nil
	}

	if metricsPhase.report != nil {
		qualityPhase := &phase[*models.QualityReport]{name: "quality"}
		run(qualityPhase, func() (*models.QualityReport, []models.Issue, error) {
			return e.quality.Analyze(ctx, metricsPhase.report)
		})()
		result.Quality = qualityPhase.report
		mergePhase(result, qualityPhase)
	}

	return result, nil
}

// AnalyzeDocument decodes a raw parser document and analyzes it.
func (e *Engine) AnalyzeDocument(ctx context.Context, doc []byte) (*models.AnalysisResult, error) {
	program, err := ast.Decode(doc)
	if err != nil {
		return nil, err
	}
	return e.Analyze(ctx, program)
}

func mergePhase[T any](result *models.AnalysisResult, p *phase[T]) {
	result.Issues = append(result.Issues, p.issues...)
	if p.err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", p.name, p.err))
		result.Status = models.StatusPartial
	}
}
