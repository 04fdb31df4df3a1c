// Package controlflow builds the paragraph-level control-flow graph and
// derives complexity metrics from the decision structure.
package controlflow

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/ast"
	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/models"
)

// Analyzer derives flow edges from PERFORM and GO TO statements and
// decision metrics from IF, EVALUATE and conditional PERFORM forms.
type Analyzer struct{}

// New creates a control-flow analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze builds the graph, detects cycles and computes flow metrics.
// Unresolved branch targets still appear as graph nodes so a dangling
// GO TO is visible in the report.
func (a *Analyzer) Analyze(ctx context.Context, program *ast.Program) (*models.ControlFlowReport, []models.Issue, error) {
	report := &models.ControlFlowReport{
		Graph: models.ControlFlowGraph{Edges: make(map[string][]models.FlowEdge)},
	}
	var issues []models.Issue

	known := make(map[string]bool)
	seen := make(map[string]bool)
	addNode := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			report.Graph.Nodes = append(report.Graph.Nodes, name)
		}
	}

	for para := range ast.NodesByKind(program.Root, ast.KindParagraph) {
		known[para.Name()] = true
		addNode(para.Name())
	}

	totalStatements := 0
	for para := range ast.NodesByKind(program.Root, ast.KindParagraph) {
		from := para.Name()
		for stmt := range ast.Statements(para) {
			totalStatements++
			switch stmt.Stmt {
			case ast.StmtPerform:
				if edge, ok := performEdge(from, stmt); ok {
					addNode(edge.To)
					report.Graph.Edges[from] = append(report.Graph.Edges[from], edge)
				}
			case ast.StmtGoTo:
				target := stmt.Attr("target")
				if target == "" {
					continue
				}
				addNode(target)
				report.Graph.Edges[from] = append(report.Graph.Edges[from], models.FlowEdge{
					From:    from,
					To:      target,
					Kind:    models.EdgeGoTo,
					Line:    stmt.Line,
					Flagged: true,
				})
				report.Metrics.GotoCount++
			case ast.StmtStopRun, ast.StmtGoBack, ast.StmtExit:
				if !contains(report.ExitPoints, from) {
					report.ExitPoints = append(report.ExitPoints, from)
				}
			}
		}
	}

	// Walk sources in node order, not map order, so issue order is stable
	// for identical input.
	for _, from := range report.Graph.Nodes {
		for _, e := range report.Graph.Edges[from] {
			if !known[e.To] {
				issues = append(issues, models.Issue{
					Kind:     models.IssueStructuralViolation,
					Severity: models.SeverityError,
					Message:  fmt.Sprintf("%s targets undefined paragraph %s", e.Kind, e.To),
					Subject:  e.To,
					Line:     e.Line,
				})
			}
		}
	}

	report.EntryPoints = entryPoints(report.Graph)
	report.Cycles = findCycles(report.Graph)
	for _, c := range report.Cycles {
		issues = append(issues, models.Issue{
			Kind:     models.IssueCycle,
			Severity: c.Severity,
			Message:  fmt.Sprintf("%s cycle through %s", c.Kind, strings.Join(c.Members, " -> ")),
			Subject:  c.Members[0],
		})
	}

	decisions := countDecisions(program.Root)
	report.Metrics.DecisionPoints = decisions
	report.Metrics.CyclomaticComplexity = 1 + decisions
	if totalStatements > 0 {
		report.Metrics.DecisionDensity = float64(decisions) / float64(totalStatements)
	}
	report.Metrics.MaxNestingDepth = maxNesting(program.Root)
	return report, issues, nil
}

func performEdge(from string, stmt *ast.Node) (models.FlowEdge, bool) {
	target := stmt.Attr("target")
	if target == "" {
		// Inline PERFORM has no branch target; its condition still
		// counts as a decision elsewhere.
		return models.FlowEdge{}, false
	}
	edge := models.FlowEdge{From: from, To: target, Kind: models.EdgePerform, Line: stmt.Line}
	switch {
	case stmt.Attr("varying") != "":
		edge.Kind = models.EdgePerformVarying
		edge.Condition = stmt.Attr("until_condition")
	case stmt.Attr("until_condition") != "":
		edge.Kind = models.EdgePerformUntil
		edge.Condition = stmt.Attr("until_condition")
	}
	return edge, true
}

func entryPoints(g models.ControlFlowGraph) []string {
	incoming := make(map[string]int)
	for _, edges := range g.Edges {
		for _, e := range edges {
			incoming[e.To]++
		}
	}
	var entries []string
	for _, n := range g.Nodes {
		if incoming[n] == 0 {
			entries = append(entries, n)
		}
	}
	return entries
}

// countDecisions counts IF statements, EVALUATE WHEN branches and
// conditional PERFORM forms. Each WHEN branch is its own decision.
func countDecisions(root *ast.Node) int {
	count := 0
	for stmt := range ast.Statements(root) {
		switch stmt.Stmt {
		case ast.StmtIf:
			count++
		case ast.StmtEvaluate:
			branches := 0
			for _, c := range stmt.Children {
				if c.Kind == ast.KindCondition {
					branches++
				}
			}
			if branches == 0 {
				branches = stmt.IntAttr("when_count")
			}
			count += branches
		case ast.StmtPerform:
			if stmt.Attr("until_condition") != "" || stmt.Attr("varying") != "" {
				count++
			}
		}
	}
	return count
}

// maxNesting walks statement subtrees with an explicit stack, counting how
// deeply decision statements nest inside each other.
func maxNesting(root *ast.Node) int {
	type frame struct {
		node  *ast.Node
		depth int
	}
	max := 0
	stack := []frame{{root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		depth := f.depth
		if f.node.Kind == ast.KindStatement && isDecision(f.node) {
			depth++
			if depth > max {
				max = depth
			}
		}
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.node.Children[i], depth})
		}
	}
	return max
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

// findCycles runs a depth-first search from every node and records each
// distinct cycle once, deduplicated by canonical rotation.
func findCycles(g models.ControlFlowGraph) []models.Cycle {
	var cycles []models.Cycle
	dedup := make(map[string]bool)

	var path []string
	onPath := make(map[string]int)
	finished := make(map[string]bool)
	var visit func(node string)
	visit = func(node string) {
		onPath[node] = len(path)
		path = append(path, node)
		for _, e := range g.Edges[node] {
			if start, ok := onPath[e.To]; ok {
				members := append([]string(nil), path[start:]...)
				addCycle(&cycles, dedup, g, members)
				continue
			}
			if !finished[e.To] {
				visit(e.To)
			}
		}
		path = path[:len(path)-1]
		delete(onPath, node)
		finished[node] = true
	}

	for _, n := range g.Nodes {
		if !finished[n] {
			visit(n)
		}
	}

	sort.Slice(cycles, func(i, j int) bool {
		return strings.Join(cycles[i].Members, ",") < strings.Join(cycles[j].Members, ",")
	})
	return cycles
}

func addCycle(cycles *[]models.Cycle, dedup map[string]bool, g models.ControlFlowGraph, members []string) {
	canon := canonicalRotation(members)
	key := strings.Join(canon, ",")
	if dedup[key] {
		return
	}
	dedup[key] = true
	*cycles = append(*cycles, classifyCycle(g, canon))
}

// canonicalRotation rotates the member list so the smallest name comes
// first. Two traversals of the same loop then produce the same key.
func canonicalRotation(members []string) []string {
	best := 0
	for i := 1; i < len(members); i++ {
		if members[i] < members[best] {
			best = i
		}
	}
	out := make([]string, 0, len(members))
	out = append(out, members[best:]...)
	out = append(out, members[:best]...)
	return out
}

// classifyCycle grades a cycle. Any GO TO edge makes it a goto cycle and a
// warning. A pure PERFORM cycle is informational when some edge carries a
// termination condition, a warning when none does.
func classifyCycle(g models.ControlFlowGraph, members []string) models.Cycle {
	onCycle := make(map[string]string, len(members))
	for i, m := range members {
		onCycle[m] = members[(i+1)%len(members)]
	}

	hasGoto := false
	hasTermination := false
	for _, m := range members {
		next := onCycle[m]
		for _, e := range g.Edges[m] {
			if e.To != next {
				continue
			}
			if e.Kind == models.EdgeGoTo {
				hasGoto = true
			}
			if e.Kind.IsLoop() {
				hasTermination = true
			}
		}
	}

	c := models.Cycle{Members: members, Kind: "perform", Severity: models.SeverityInfo}
	if hasGoto {
		c.Kind = "goto"
		c.Severity = models.SeverityWarning
	} else if !hasTermination {
		c.Severity = models.SeverityWarning
	}
	return c
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
