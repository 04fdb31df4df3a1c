package quality

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/models"
)

func ptr(v float64) *float64 { return &v }

func defs() []models.MetricDefinition {
	return []models.MetricDefinition{
		{
			Name:     "cyclomatic_complexity",
			Category: models.CategoryComplexity,
			Min:      ptr(1),
			Max:      ptr(50),
			Target:   10,
			Weight:   2,
		},
		{
			Name:     "max_nesting_depth",
			Category: models.CategoryComplexity,
			Min:      ptr(0),
			Max:      ptr(10),
			Target:   3,
			Weight:   1,
		},
		{
			Name:     "comment_ratio",
			Category: models.CategoryDocumentation,
			Min:      ptr(0),
			Target:   0.2,
			Weight:   1,
		},
	}
}

func report(cyclomatic, nesting int, commentRatio float64) *models.MetricsReport {
	return &models.MetricsReport{
		CyclomaticComplexity: cyclomatic,
		MaxNestingDepth:      nesting,
		CommentRatio:         commentRatio,
		LinesOfCode:          100,
	}
}

func evaluation(t *testing.T, r *models.QualityReport, metric string) models.EvaluationResult {
	t.Helper()
	for _, ev := range r.Evaluations {
		if ev.MetricName == metric {
			return ev
		}
	}
	t.Fatalf("no evaluation for %s", metric)
	return models.EvaluationResult{}
}

func TestExactTargetScoresPerfect(t *testing.T) {
	r, _, err := New(defs()).Analyze(context.Background(), report(10, 3, 0.2))
	require.NoError(t, err)

	for _, metric := range []string{"cyclomatic_complexity", "max_nesting_depth", "comment_ratio"} {
		ev := evaluation(t, r, metric)
		assert.Equal(t, 1.0, ev.Score, "%s at target", metric)
		assert.Equal(t, models.LevelExcellent, ev.Level, "%s at target", metric)
	}
	assert.Equal(t, 1.0, r.OverallScore)
	assert.Empty(t, r.Recommendations)
}

func TestClippedLinearScaling(t *testing.T) {
	// Cyclomatic 30 sits halfway between target 10 and max 50: within the
	// bounds but far past the tolerance, so it scores 0.5 and warns.
	r, _, err := New(defs()).Analyze(context.Background(), report(30, 3, 0.2))
	require.NoError(t, err)

	ev := evaluation(t, r, "cyclomatic_complexity")
	assert.InDelta(t, 0.5, ev.Score, 1e-9)
	assert.Equal(t, models.LevelWarning, ev.Level)
}

func TestOutsideBoundsIsCritical(t *testing.T) {
	r, _, err := New(defs()).Analyze(context.Background(), report(80, 3, 0.2))
	require.NoError(t, err)

	ev := evaluation(t, r, "cyclomatic_complexity")
	assert.Equal(t, 0.0, ev.Score, "past the max bound")
	assert.Equal(t, models.LevelCritical, ev.Level)
}

func TestInBoundsLowScoreIsWarningNotCritical(t *testing.T) {
	// A value near the far bound scores badly, but as long as it sits
	// inside [min,max] it must never rate critical.
	low := []models.MetricDefinition{{
		Name:     "cyclomatic_complexity",
		Category: models.CategoryComplexity,
		Min:      ptr(0),
		Max:      ptr(200),
		Target:   100,
		Weight:   1,
	}}
	r, _, err := New(low).Analyze(context.Background(), report(10, 0, 0))
	require.NoError(t, err)

	ev := evaluation(t, r, "cyclomatic_complexity")
	assert.InDelta(t, 0.1, ev.Score, 1e-9)
	assert.Equal(t, models.LevelWarning, ev.Level)
}

func TestUnboundedSideNotPenalized(t *testing.T) {
	// comment_ratio has no max; exceeding the target is fine and must not
	// warn either.
	r, _, err := New(defs()).Analyze(context.Background(), report(10, 3, 0.5))
	require.NoError(t, err)

	ev := evaluation(t, r, "comment_ratio")
	assert.Equal(t, 1.0, ev.Score)
	assert.Equal(t, models.LevelExcellent, ev.Level)
}

func TestRecommendationsSortedBySeverityThenGap(t *testing.T) {
	// Cyclomatic 80 is outside the bound (critical); nesting 8 is in
	// bounds past tolerance (warning).
	r, _, err := New(defs()).Analyze(context.Background(), report(80, 8, 0.2))
	require.NoError(t, err)

	require.Len(t, r.Recommendations, 2)
	assert.Equal(t, "cyclomatic_complexity", r.Recommendations[0].Metric)
	assert.Equal(t, models.SeverityCritical, r.Recommendations[0].Severity)
	assert.Equal(t, models.SeverityWarning, r.Recommendations[1].Severity)
	assert.NotEmpty(t, r.Recommendations[0].Suggestion)
}

func TestSuggestionVariesBySeverity(t *testing.T) {
	critical, _, err := New(defs()).Analyze(context.Background(), report(80, 3, 0.2))
	require.NoError(t, err)
	warned, _, err := New(defs()).Analyze(context.Background(), report(30, 3, 0.2))
	require.NoError(t, err)

	require.Len(t, critical.Recommendations, 1)
	require.Len(t, warned.Recommendations, 1)
	assert.NotEqual(t, critical.Recommendations[0].Suggestion, warned.Recommendations[0].Suggestion,
		"critical and warning texts for the same metric must differ")
}

func TestUnknownMetricFallsBackToGenericSuggestion(t *testing.T) {
	got := suggestionFor("data_fan_out", models.SeverityWarning)
	assert.Contains(t, got, "data_fan_out")
}

func TestUnavailableMetricSkipped(t *testing.T) {
	m := report(10, 3, 0.2)
	m.Unavailable = []string{"cyclomatic_complexity"}

	r, _, err := New(defs()).Analyze(context.Background(), m)
	require.NoError(t, err)

	for _, ev := range r.Evaluations {
		assert.NotEqual(t, "cyclomatic_complexity", ev.MetricName, "unavailable metric must not be evaluated")
	}
}

func TestWeightedCategoryScores(t *testing.T) {
	// Weight 2 on cyclomatic (score 0.5), weight 1 on nesting (score 1.0):
	// complexity category = (2*0.5 + 1*1.0) / 3.
	r, _, err := New(defs()).Analyze(context.Background(), report(30, 3, 0.2))
	require.NoError(t, err)

	want := (2*0.5 + 1*1.0) / 3.0
	assert.InDelta(t, want, r.CategoryScores[models.CategoryComplexity], 1e-9)
}

func TestOverallScoreStableAcrossRuns(t *testing.T) {
	m := report(30, 8, 0.05)
	first, _, err := New(defs()).Analyze(context.Background(), m)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		r, _, err := New(defs()).Analyze(context.Background(), m)
		require.NoError(t, err)
		if math.Float64bits(r.OverallScore) != math.Float64bits(first.OverallScore) {
			t.Fatalf("run %d: OverallScore = %v, want %v", i, r.OverallScore, first.OverallScore)
		}
	}
}

func TestTargetToleranceRatesExcellent(t *testing.T) {
	// Cyclomatic 11 is within 10% of target 10, even though linear scaling
	// alone would score it below 1.
	r, _, err := New(defs()).Analyze(context.Background(), report(11, 3, 0.2))
	require.NoError(t, err)

	ev := evaluation(t, r, "cyclomatic_complexity")
	assert.Equal(t, models.LevelExcellent, ev.Level)
}
