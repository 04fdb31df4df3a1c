// Package analyzer orchestrates the sub-analyzers over one immutable
// syntax tree and assembles their partial results into a models.AnalysisResult.
package analyzer

import (
	"context"

	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/ast"
	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/models"
)

// Analyzer is the capability interface every analysis kind implements.
// Implementations only read the tree and share no mutable state, so the
// engine may run them concurrently.
type Analyzer[T any] interface {
	// Analyze derives a partial result from the program. Non-fatal
	// problems come back as issues; an error is reserved for conditions
	// that made the whole partial result meaningless.
	Analyze(ctx context.Context, program *ast.Program) (T, []models.Issue, error)
}
