// Package models holds the plain, JSON-serializable results produced by the
// analysis engine. Records reference each other by name only and never point
// back into the syntax tree, so a result can outlive its input and be stored
// by any repository.
package models

// IssueKind is the failure taxonomy for non-fatal analysis problems.
type IssueKind string

const (
	IssueStructuralViolation IssueKind = "structural-violation"
	IssueDataModelViolation  IssueKind = "data-model-violation"
	IssueComputationError    IssueKind = "computation-error"
	IssueUnresolvedCall      IssueKind = "unresolved-call"
	IssueCycle               IssueKind = "cycle"
)

// Severity orders issues for reporting.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// severityRank supports sorting; higher is worse.
var severityRank = map[Severity]int{
	SeverityInfo:     0,
	SeverityWarning:  1,
	SeverityError:    2,
	SeverityCritical: 3,
}

// Rank returns the numeric ordering of a severity, higher meaning worse.
func (s Severity) Rank() int {
	return severityRank[s]
}

// Issue is one recorded, non-fatal analysis problem. Sub-analyzers degrade
// to issues instead of failing the call.
type Issue struct {
	Kind     IssueKind `json:"kind"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	Subject  string    `json:"subject,omitempty"`
	Line     int       `json:"line,omitempty"`
}
