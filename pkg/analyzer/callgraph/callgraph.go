// Package callgraph extracts CALL and INVOKE relationships. Only literal
// program names resolve into edges; computed targets are listed separately
// so dynamic dispatch is never silently dropped.
package callgraph

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/ast"
	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/models"
)

// Analyzer builds the per-paragraph call graph.
type Analyzer struct{}

// New creates a call-graph analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze collects call edges under each paragraph. A CALL with a
// non-literal operand becomes an unresolved note and a warning issue.
func (a *Analyzer) Analyze(ctx context.Context, program *ast.Program) (*models.CallGraphReport, []models.Issue, error) {
	report := &models.CallGraphReport{
		Callees: make(map[string][]string),
	}
	var issues []models.Issue

	for para := range ast.NodesByKind(program.Root, ast.KindParagraph) {
		caller := para.Name()
		for stmt := range ast.Statements(para) {
			if stmt.Stmt != ast.StmtCall && stmt.Stmt != ast.StmtInvoke {
				continue
			}
			target := stmt.Attr("program_name")
			if target == "" || stmt.Attr("literal") != "true" {
				operand := target
				if operand == "" {
					operand = stmt.Attr("target")
				}
				report.Unresolved = append(report.Unresolved, models.UnresolvedCall{
					Caller: caller, Operand: operand, Line: stmt.Line,
				})
				issues = append(issues, models.Issue{
					Kind:     models.IssueUnresolvedCall,
					Severity: models.SeverityWarning,
					Message:  fmt.Sprintf("dynamic call in %s cannot be resolved statically", caller),
					Subject:  caller,
					Line:     stmt.Line,
				})
				continue
			}

			edge := models.CallEdge{
				Caller: caller,
				Callee: target,
				Verb:   string(stmt.Stmt),
				Using:  splitAttr(stmt, "using"),
				Giving: stmt.Attr("giving"),
				Line:   stmt.Line,
			}
			report.Edges = append(report.Edges, edge)
			if !contains(report.Callees[caller], target) {
				report.Callees[caller] = append(report.Callees[caller], target)
			}
		}
	}

	report.EntryPoints, report.LeafNodes = endpoints(report)
	report.Metrics = computeMetrics(report)
	return report, issues, nil
}

func splitAttr(stmt *ast.Node, key string) []string {
	raw := stmt.Attr(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// endpoints classifies graph nodes. Entry points are callers nothing calls
// into; leaves are callees that call nothing themselves.
func endpoints(report *models.CallGraphReport) (entries, leaves []string) {
	called := make(map[string]bool)
	calls := make(map[string]bool)
	var order []string
	seen := make(map[string]bool)
	note := func(name string) {
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}
	for _, e := range report.Edges {
		note(e.Caller)
		note(e.Callee)
		called[e.Callee] = true
		calls[e.Caller] = true
	}
	for _, n := range order {
		if !called[n] {
			entries = append(entries, n)
		}
		if !calls[n] {
			leaves = append(leaves, n)
		}
	}
	return entries, leaves
}

func computeMetrics(report *models.CallGraphReport) models.CallGraphMetrics {
	m := models.CallGraphMetrics{TotalCalls: len(report.Edges)}
	if n := len(report.Callees); n > 0 {
		m.AverageCallsPerCaller = float64(len(report.Edges)) / float64(n)
	}
	m.MaxCallDepth = maxDepth(report)
	return m
}

// maxDepth is the longest caller-to-callee chain. Cycles through recursive
// calls are cut at the repeat so the walk terminates. A depth computed
// while a cut was active depends on the entry path, so only depths from
// cut-free walks are memoized.
func maxDepth(report *models.CallGraphReport) int {
	adjacent := make(map[string][]string)
	for _, e := range report.Edges {
		adjacent[e.Caller] = append(adjacent[e.Caller], e.Callee)
	}

	memo := make(map[string]int)
	onPath := make(map[string]bool)
	var depth func(node string) (int, bool)
	depth = func(node string) (int, bool) {
		if d, ok := memo[node]; ok {
			return d, true
		}
		onPath[node] = true
		best := 0
		clean := true
		for _, next := range adjacent[node] {
			if next == node {
				// A self call is exactly one level regardless of how the
				// walk got here.
				if best < 1 {
					best = 1
				}
				continue
			}
			if onPath[next] {
				clean = false
				continue
			}
			d, c := depth(next)
			if !c {
				clean = false
			}
			if d+1 > best {
				best = d + 1
			}
		}
		delete(onPath, node)
		if clean {
			memo[node] = best
		}
		return best, clean
	}

	names := make([]string, 0, len(adjacent))
	for name := range adjacent {
		names = append(names, name)
	}
	sort.Strings(names)

	max := 0
	for _, name := range names {
		if d, _ := depth(name); d > max {
			max = d
		}
	}
	return max
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
