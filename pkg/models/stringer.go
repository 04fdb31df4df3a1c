package models

// String methods for the custom string types. Required for toon
// serialization, which uses fmt.Stringer.

// IssueKind
func (k IssueKind) String() string { return string(k) }

// Severity
func (s Severity) String() string { return string(s) }

// FlowEdgeKind
func (k FlowEdgeKind) String() string { return string(k) }

// DependencyKind
func (k DependencyKind) String() string { return string(k) }

// MetricCategory
func (c MetricCategory) String() string { return string(c) }

// EvaluationLevel
func (l EvaluationLevel) String() string { return string(l) }

// AnalysisStatus
func (s AnalysisStatus) String() string { return string(s) }
