// Package quality scores the aggregate metrics against externally supplied
// benchmark definitions and produces ranked improvement recommendations.
package quality

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/models"
)

const (
	defaultCutoff    = 0.7
	defaultTolerance = 0.1
)

// Evaluator scores metric values against benchmark definitions.
type Evaluator struct {
	definitions []models.MetricDefinition
	cutoff      float64
	tolerance   float64
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithRecommendationCutoff overrides the score below which a metric gets a
// recommendation.
func WithRecommendationCutoff(c float64) Option {
	return func(e *Evaluator) {
		if c >= 0 && c <= 1 {
			e.cutoff = c
		}
	}
}

// WithTargetTolerance overrides the relative distance from target that
// still rates excellent.
func WithTargetTolerance(t float64) Option {
	return func(e *Evaluator) {
		if t >= 0 {
			e.tolerance = t
		}
	}
}

// New creates an evaluator over the given benchmark definitions.
func New(definitions []models.MetricDefinition, opts ...Option) *Evaluator {
	e := &Evaluator{
		definitions: definitions,
		cutoff:      defaultCutoff,
		tolerance:   defaultTolerance,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze scores every definition that has a computed value. Definitions
// whose metric is unavailable are skipped; the metrics analyzer already
// reported why.
func (e *Evaluator) Analyze(ctx context.Context, metrics *models.MetricsReport) (*models.QualityReport, []models.Issue, error) {
	report := &models.QualityReport{
		CategoryScores: make(map[models.MetricCategory]float64),
	}

	values := metrics.Values()
	for _, def := range e.definitions {
		value, ok := values[def.Name]
		if !ok {
			continue
		}
		result := e.evaluate(def, value)
		report.Evaluations = append(report.Evaluations, result)

		if result.Score < e.cutoff {
			severity := severityFor(result.Level)
			report.Recommendations = append(report.Recommendations, models.Recommendation{
				Metric:       def.Name,
				Severity:     severity,
				CurrentValue: value,
				TargetValue:  def.Target,
				Score:        result.Score,
				Suggestion:   suggestionFor(def.Name, severity),
			})
		}
	}

	e.scoreCategories(report)
	sortRecommendations(report.Recommendations)
	return report, nil, nil
}

// evaluate normalizes a value to [0,1] with clipped-linear scaling: exactly
// on target is 1.0, at the min or max bound is 0.0, linear in between.
func (e *Evaluator) evaluate(def models.MetricDefinition, value float64) models.EvaluationResult {
	score := normalize(def, value)
	result := models.EvaluationResult{
		MetricName:     def.Name,
		ActualValue:    value,
		BenchmarkValue: def.Target,
		Score:          score,
		Level:          e.levelFor(def, value, score),
	}
	if result.Level == models.LevelCritical || result.Level == models.LevelWarning {
		result.Details = fmt.Sprintf("%s is %.2f against a target of %.2f", def.Name, value, def.Target)
	}
	return result
}

// levelFor grades a value. Outside [min,max] is always critical. Inside
// the bounds, a value further from target than the tolerance allows is a
// warning; the unbounded side scores 1.0 and is never warned. The rest
// splits by score band.
func (e *Evaluator) levelFor(def models.MetricDefinition, value, score float64) models.EvaluationLevel {
	if outOfBounds(def, value) {
		return models.LevelCritical
	}
	if score < 1 && !withinTolerance(def.Target, value, e.tolerance) {
		return models.LevelWarning
	}
	switch {
	case score >= 0.9:
		return models.LevelExcellent
	case score >= 0.7:
		return models.LevelGood
	default:
		return models.LevelAcceptable
	}
}

func outOfBounds(def models.MetricDefinition, value float64) bool {
	if def.Min != nil && value < *def.Min {
		return true
	}
	if def.Max != nil && value > *def.Max {
		return true
	}
	return false
}

func normalize(def models.MetricDefinition, value float64) float64 {
	switch {
	case value == def.Target:
		return 1.0
	case value > def.Target && def.Max != nil:
		span := *def.Max - def.Target
		if span <= 0 {
			return 0
		}
		return clamp01((*def.Max - value) / span)
	case value < def.Target && def.Min != nil:
		span := def.Target - *def.Min
		if span <= 0 {
			return 0
		}
		return clamp01((value - *def.Min) / span)
	default:
		// Unbounded on this side: being past target without a bound is
		// not penalized.
		return 1.0
	}
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

func withinTolerance(target, value, tolerance float64) bool {
	scale := math.Max(math.Abs(target), 1)
	return math.Abs(value-target) <= tolerance*scale
}

func severityFor(level models.EvaluationLevel) models.Severity {
	switch level {
	case models.LevelCritical:
		return models.SeverityCritical
	case models.LevelWarning:
		return models.SeverityWarning
	default:
		return models.SeverityInfo
	}
}

// scoreCategories computes the weighted mean score per category and the
// overall score as the unweighted mean across categories.
func (e *Evaluator) scoreCategories(report *models.QualityReport) {
	weightsByDef := make(map[string]models.MetricDefinition, len(e.definitions))
	for _, def := range e.definitions {
		weightsByDef[def.Name] = def
	}

	scores := make(map[models.MetricCategory][]float64)
	weights := make(map[models.MetricCategory][]float64)
	var order []models.MetricCategory
	for _, ev := range report.Evaluations {
		def := weightsByDef[ev.MetricName]
		w := def.Weight
		if w <= 0 {
			w = 1
		}
		if _, seen := scores[def.Category]; !seen {
			order = append(order, def.Category)
		}
		scores[def.Category] = append(scores[def.Category], ev.Score)
		weights[def.Category] = append(weights[def.Category], w)
	}

	// Categories are folded in evaluation order so the float summation,
	// and with it the result fingerprint, is stable across runs.
	var categoryScores []float64
	for _, category := range order {
		mean := stat.Mean(scores[category], weights[category])
		report.CategoryScores[category] = mean
		categoryScores = append(categoryScores, mean)
	}
	if len(categoryScores) > 0 {
		report.OverallScore = stat.Mean(categoryScores, nil)
	}
}

func sortRecommendations(recs []models.Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Severity != recs[j].Severity {
			return recs[i].Severity.Rank() > recs[j].Severity.Rank()
		}
		return recs[i].Score < recs[j].Score
	})
}

// suggestions keys improvement text by metric name and severity, so a
// critical result reads more urgently than a warning on the same metric.
// Anything unlisted falls back to a generic message.
var suggestions = map[string]map[models.Severity]string{
	"cyclomatic_complexity": {
		models.SeverityCritical: "restructure the program: split large paragraphs and replace nested IF chains with EVALUATE",
		models.SeverityWarning:  "reduce branching by consolidating related conditions into EVALUATE statements",
	},
	"cognitive_complexity": {
		models.SeverityCritical: "extract deeply nested logic into separately performed paragraphs",
		models.SeverityWarning:  "flatten nested conditions where a single EVALUATE would do",
	},
	"max_nesting_depth": {
		models.SeverityCritical: "extract nested blocks into separately performed paragraphs",
		models.SeverityWarning:  "limit nesting by handling error cases first and exiting early",
	},
	"maintainability_index": {
		models.SeverityCritical: "prioritize restructuring: reduce paragraph size and document working storage",
		models.SeverityWarning:  "reduce paragraph size and document working storage",
	},
	"comment_ratio": {
		models.SeverityCritical: "add header comments to every division and to complex paragraphs",
		models.SeverityWarning:  "add comments to the least documented paragraphs",
	},
	"lines_of_code": {
		models.SeverityCritical: "split the program into smaller members connected by CALL",
		models.SeverityWarning:  "move self-contained sections into called subprograms",
	},
	"decision_density": {
		models.SeverityCritical: "consolidate related conditions into EVALUATE statements",
		models.SeverityWarning:  "replace repeated condition checks with level-88 condition names",
	},
	"halstead_volume": {
		models.SeverityCritical: "remove duplicated statement blocks and factor shared logic into paragraphs",
		models.SeverityWarning:  "factor repeated statement sequences into performed paragraphs",
	},
	"halstead_effort": {
		models.SeverityCritical: "split computation-heavy paragraphs and reuse intermediate results",
		models.SeverityWarning:  "simplify compound computations by storing intermediate results",
	},
}

func suggestionFor(metric string, severity models.Severity) string {
	if bySeverity, ok := suggestions[metric]; ok {
		if s, ok := bySeverity[severity]; ok {
			return s
		}
	}
	return fmt.Sprintf("review %s against the benchmark target", metric)
}
