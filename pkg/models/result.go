package models

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// AnalysisStatus is the overall outcome of one analyze call.
type AnalysisStatus string

const (
	StatusSuccess   AnalysisStatus = "success"
	StatusPartial   AnalysisStatus = "partial"
	StatusCancelled AnalysisStatus = "cancelled"
	StatusFailed    AnalysisStatus = "failed"
)

// AnalysisResult aggregates every sub-analysis for one program. It is a
// plain value: serializable, AST-free, and safe to persist as-is. Issues
// is always non-nil so degraded partial results stay reviewable.
type AnalysisResult struct {
	ProgramName string             `json:"program_name"`
	Status      AnalysisStatus     `json:"status"`
	Structure   *StructureReport   `json:"structure,omitempty"`
	ControlFlow *ControlFlowReport `json:"control_flow,omitempty"`
	Data        *DataReport        `json:"data,omitempty"`
	CallGraph   *CallGraphReport   `json:"call_graph,omitempty"`
	Metrics     *MetricsReport     `json:"metrics,omitempty"`
	Quality     *QualityReport     `json:"quality,omitempty"`
	Issues      []Issue            `json:"issues"`
	Errors      []string           `json:"errors,omitempty"`
}

// Fingerprint hashes the canonical JSON form of the result. Identical
// (AST, config) inputs produce identical fingerprints, which lets a task
// runner detect redundant retries without field-by-field comparison.
func (r *AnalysisResult) Fingerprint() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}

// AddIssue appends an issue, keeping the slice non-nil from birth.
func (r *AnalysisResult) AddIssue(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

// HasIssue reports whether any issue of the given kind was recorded.
func (r *AnalysisResult) HasIssue(kind IssueKind) bool {
	for _, i := range r.Issues {
		if i.Kind == kind {
			return true
		}
	}
	return false
}
