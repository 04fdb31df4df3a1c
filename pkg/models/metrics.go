package models

import "math"

// HalsteadMetrics are the software science counts and their derivations.
// Statement verbs count as operators, operand tokens as operands.
type HalsteadMetrics struct {
	OperatorsUnique int     `json:"operators_unique"` // n1: distinct operators
	OperandsUnique  int     `json:"operands_unique"`  // n2: distinct operands
	OperatorsTotal  int     `json:"operators_total"`  // N1: total operators
	OperandsTotal   int     `json:"operands_total"`   // N2: total operands
	Vocabulary      int     `json:"vocabulary"`       // n = n1 + n2
	Length          int     `json:"length"`           // N = N1 + N2
	Volume          float64 `json:"volume"`           // V = N * log2(n)
	Difficulty      float64 `json:"difficulty"`       // D = (n1/2) * (N2/n2)
	Effort          float64 `json:"effort"`           // E = D * V
	Time            float64 `json:"time"`             // T = E / 18 (seconds)
	Bugs            float64 `json:"bugs"`             // B = E^(2/3) / 3000
}

// NewHalsteadMetrics derives the full metric set from base counts.
func NewHalsteadMetrics(operatorsUnique, operandsUnique, operatorsTotal, operandsTotal int) HalsteadMetrics {
	h := HalsteadMetrics{
		OperatorsUnique: operatorsUnique,
		OperandsUnique:  operandsUnique,
		OperatorsTotal:  operatorsTotal,
		OperandsTotal:   operandsTotal,
	}
	h.Vocabulary = h.OperatorsUnique + h.OperandsUnique
	h.Length = h.OperatorsTotal + h.OperandsTotal

	if h.Vocabulary > 0 {
		h.Volume = float64(h.Length) * math.Log2(float64(h.Vocabulary))
	}
	// Guard n2 = 0: a program with no operands has no difficulty.
	if h.OperandsUnique > 0 {
		h.Difficulty = (float64(h.OperatorsUnique) / 2.0) *
			(float64(h.OperandsTotal) / float64(h.OperandsUnique))
	}
	h.Effort = h.Difficulty * h.Volume
	h.Time = h.Effort / 18.0
	if h.Effort > 0 {
		h.Bugs = math.Pow(h.Effort, 2.0/3.0) / 3000.0
	}
	return h
}

// MetricsReport is the aggregator's result. Unavailable lists metrics a
// malformed input blocked; their zero values are not meaningful.
type MetricsReport struct {
	LinesOfCode          int             `json:"lines_of_code"`
	CommentRatio         float64         `json:"comment_ratio"`
	CyclomaticComplexity int             `json:"cyclomatic_complexity"`
	CognitiveComplexity  int             `json:"cognitive_complexity"`
	MaxNestingDepth      int             `json:"max_nesting_depth"`
	DecisionDensity      float64         `json:"decision_density"`
	Halstead             HalsteadMetrics `json:"halstead"`
	MaintainabilityIndex float64         `json:"maintainability_index"`
	Unavailable          []string        `json:"unavailable,omitempty"`
}

// Available reports whether the named metric was computed.
func (m *MetricsReport) Available(name string) bool {
	for _, u := range m.Unavailable {
		if u == name {
			return false
		}
	}
	return true
}

// Values flattens the report into the name -> value map the benchmark
// evaluator consumes. Unavailable metrics are omitted.
func (m *MetricsReport) Values() map[string]float64 {
	all := map[string]float64{
		"lines_of_code":         float64(m.LinesOfCode),
		"comment_ratio":         m.CommentRatio,
		"cyclomatic_complexity": float64(m.CyclomaticComplexity),
		"cognitive_complexity":  float64(m.CognitiveComplexity),
		"max_nesting_depth":     float64(m.MaxNestingDepth),
		"decision_density":      m.DecisionDensity,
		"halstead_volume":       m.Halstead.Volume,
		"halstead_difficulty":   m.Halstead.Difficulty,
		"halstead_effort":       m.Halstead.Effort,
		"maintainability_index": m.MaintainabilityIndex,
	}
	for name := range all {
		if !m.Available(name) {
			delete(all, name)
		}
	}
	return all
}
