package models

// MetricCategory groups benchmark metrics for category scoring.
type MetricCategory string

const (
	CategoryComplexity      MetricCategory = "complexity"
	CategoryMaintainability MetricCategory = "maintainability"
	CategoryReadability     MetricCategory = "readability"
	CategoryTestability     MetricCategory = "testability"
	CategoryModularity      MetricCategory = "modularity"
	CategoryDocumentation   MetricCategory = "documentation"
)

// MetricDefinition is one externally supplied benchmark criterion. The
// engine treats definitions as values; where they come from is the
// caller's concern.
type MetricDefinition struct {
	Name     string         `json:"name" yaml:"name" koanf:"name"`
	Category MetricCategory `json:"category" yaml:"category" koanf:"category"`
	Min      *float64       `json:"min,omitempty" yaml:"min,omitempty" koanf:"min"`
	Max      *float64       `json:"max,omitempty" yaml:"max,omitempty" koanf:"max"`
	Target   float64        `json:"target" yaml:"target" koanf:"target"`
	Weight   float64        `json:"weight" yaml:"weight" koanf:"weight"`
}

// EvaluationLevel classifies a metric against its benchmark.
type EvaluationLevel string

const (
	LevelCritical   EvaluationLevel = "critical"
	LevelWarning    EvaluationLevel = "warning"
	LevelAcceptable EvaluationLevel = "acceptable"
	LevelGood       EvaluationLevel = "good"
	LevelExcellent  EvaluationLevel = "excellent"
)

// EvaluationResult is one metric scored against its definition.
type EvaluationResult struct {
	MetricName     string          `json:"metric_name"`
	ActualValue    float64         `json:"actual_value"`
	BenchmarkValue float64         `json:"benchmark_value"`
	Level          EvaluationLevel `json:"level"`
	Score          float64         `json:"score"` // [0,1]
	Details        string          `json:"details,omitempty"`
}

// Recommendation is one improvement suggestion for an underperforming
// metric, ordered by severity then score gap.
type Recommendation struct {
	Metric       string   `json:"metric"`
	Severity     Severity `json:"severity"`
	CurrentValue float64  `json:"current_value"`
	TargetValue  float64  `json:"target_value"`
	Score        float64  `json:"score"`
	Suggestion   string   `json:"suggestion"`
}

// QualityReport is the benchmark evaluator's result.
type QualityReport struct {
	Evaluations     []EvaluationResult         `json:"evaluations"`
	CategoryScores  map[MetricCategory]float64 `json:"category_scores"`
	OverallScore    float64                    `json:"overall_score"`
	Recommendations []Recommendation           `json:"recommendations"`
}
