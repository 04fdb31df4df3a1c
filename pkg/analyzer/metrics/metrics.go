// Package metrics aggregates program-level quality metrics from the tree
// and the control-flow analysis: size, Halstead software science, cognitive
// complexity and the maintainability index.
package metrics

import (
	"context"
	"fmt"
	"math"

	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/ast"
	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/models"
)

// Analyzer computes the aggregate metrics report. It consumes the
// control-flow report rather than recomputing decisions, so the two never
// disagree on cyclomatic complexity.
type Analyzer struct{}

// New creates a metrics aggregator.
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze computes every metric it can. A metric that cannot be derived
// from this input lands in Unavailable with a computation-error issue; the
// rest of the report is still valid.
func (a *Analyzer) Analyze(ctx context.Context, program *ast.Program, flow *models.ControlFlowReport) (*models.MetricsReport, []models.Issue, error) {
	report := &models.MetricsReport{}
	var issues []models.Issue

	report.LinesOfCode = linesOfCode(program.Root)
	report.CommentRatio = commentRatio(program.Root, report.LinesOfCode)
	report.CyclomaticComplexity = flow.Metrics.CyclomaticComplexity
	report.MaxNestingDepth = flow.Metrics.MaxNestingDepth
	report.DecisionDensity = flow.Metrics.DecisionDensity
	report.CognitiveComplexity = cognitiveComplexity(program.Root)
	report.Halstead = halstead(program.Root)

	mi, err := maintainabilityIndex(report)
	if err != nil {
		report.Unavailable = append(report.Unavailable, "maintainability_index")
		issues = append(issues, models.Issue{
			Kind:     models.IssueComputationError,
			Severity: models.SeverityWarning,
			Message:  fmt.Sprintf("maintainability index: %v", err),
			Subject:  "maintainability_index",
		})
	} else {
		report.MaintainabilityIndex = mi
	}

	return report, issues, nil
}

// linesOfCode is the span between the first and last line the parser saw.
func linesOfCode(root *ast.Node) int {
	min, max := 0, 0
	ast.Walk(root, func(n *ast.Node) bool {
		if n.Line > 0 {
			if min == 0 || n.Line < min {
				min = n.Line
			}
			if end := n.EndLine(); end > max {
				max = end
			}
		}
		return true
	})
	if max == 0 {
		return 0
	}
	return max - min + 1
}

// commentRatio reads the parser's comment line count off the program root.
func commentRatio(root *ast.Node, loc int) float64 {
	if loc == 0 {
		return 0
	}
	comments := root.IntAttr("comment_lines")
	return float64(comments) / float64(loc)
}

// cognitiveComplexity charges each decision 1 plus its nesting depth, so a
// condition buried three levels deep costs four. The walk is iterative.
func cognitiveComplexity(root *ast.Node) int {
	type frame struct {
		node  *ast.Node
		depth int
	}
	total := 0
	stack := []frame{{root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		depth := f.depth
		if f.node.Kind == ast.KindStatement && isDecision(f.node) {
			total += 1 + depth
			depth++
		}
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.node.Children[i], depth})
		}
	}
	return total
}

func isDecision(stmt *ast.Node) bool {
	switch stmt.Stmt {
	case ast.StmtIf, ast.StmtEvaluate:
		return true
	case ast.StmtPerform:
		return stmt.Attr("until_condition") != "" || stmt.Attr("varying") != ""
	}
	return false
}

// halstead counts statement verbs as operators and operand tokens as
// operands.
func halstead(root *ast.Node) models.HalsteadMetrics {
	operators := make(map[string]int)
	operands := make(map[string]int)
	totalOperators, totalOperands := 0, 0

	for stmt := range ast.Statements(root) {
		verb := stmt.Attr("statement_type")
		if verb == "" {
			verb = string(ast.StmtOther)
		}
		operators[verb]++
		totalOperators++
		for _, op := range stmt.Operands() {
			operands[op]++
			totalOperands++
		}
	}
	return models.NewHalsteadMetrics(len(operators), len(operands), totalOperators, totalOperands)
}

// maintainabilityIndex applies the four-factor formula and normalizes the
// result to 0..100. Zero volume or zero lines make the logarithms
// undefined, which is reported instead of producing NaN.
func maintainabilityIndex(r *models.MetricsReport) (float64, error) {
	if r.LinesOfCode <= 0 {
		return 0, fmt.Errorf("lines of code is %d", r.LinesOfCode)
	}
	if r.Halstead.Volume <= 0 {
		return 0, fmt.Errorf("halstead volume is %g", r.Halstead.Volume)
	}

	raw := 171.0 -
		5.2*math.Log(r.Halstead.Volume) -
		0.23*float64(r.CyclomaticComplexity) -
		16.2*math.Log(float64(r.LinesOfCode)) +
		50.0*math.Sin(math.Sqrt(2.4*r.CommentRatio))

	normalized := raw * 100.0 / 171.0
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 100 {
		normalized = 100
	}
	return normalized, nil
}
