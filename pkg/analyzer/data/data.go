// Package data reconstructs the data division's level hierarchy and the
// dependency graph between data items, then flags heavily coupled items.
package data

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/ast"
	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/models"
)

const defaultCriticalDegree = 5

// Analyzer builds the data dependency graph. The critical degree cutoff is
// configurable; items whose combined degree exceeds it are reported.
type Analyzer struct {
	criticalDegree int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithCriticalDegree overrides the degree above which an item counts as
// critical.
func WithCriticalDegree(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.criticalDegree = n
		}
	}
}

// New creates a data analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{criticalDegree: defaultCriticalDegree}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze rebuilds the level forest, collects declaration and flow edges
// and computes graph metrics. A dangling REDEFINES or an invalid level
// sequence is recorded as an issue and kept out of the graph; everything
// else proceeds.
func (a *Analyzer) Analyze(ctx context.Context, program *ast.Program) (*models.DataReport, []models.Issue, error) {
	report := &models.DataReport{
		Graph: models.DataDependencyGraph{Degrees: make(map[string]int)},
	}

	items, index, excluded, issues := collectItems(program.Root)
	report.Items = items
	for i := range items {
		if excluded[i] {
			continue
		}
		report.Graph.Items = append(report.Graph.Items, items[i].Name)
	}

	issues = append(issues, a.declarationEdges(report, index)...)
	a.flowEdges(report, program.Root)

	for _, e := range report.Graph.Dependencies {
		report.Graph.Degrees[e.Source]++
		report.Graph.Degrees[e.Target]++
	}
	for _, e := range report.Graph.Flows {
		report.Graph.Degrees[e.Source]++
		report.Graph.Degrees[e.Target]++
	}
	for _, name := range report.Graph.Items {
		if report.Graph.Degrees[name] > a.criticalDegree {
			report.CriticalItems = append(report.CriticalItems, name)
		}
	}

	report.Metrics = computeMetrics(report)
	return report, issues, nil
}

// collectItems walks declarations in document order and rebuilds the
// parent/child structure from level numbers. 77 items are standalone, 88
// condition names attach to the preceding item and 66 renames attach to
// the enclosing 01 group. An 88 with nothing to attach to, or a 66 outside
// any 01 group, is an invalid level sequence: the item stays in the
// inventory but is excluded from the dependency graph.
func collectItems(root *ast.Node) ([]models.DataItemInfo, map[string]int, map[int]bool, []models.Issue) {
	var items []models.DataItemInfo
	var issues []models.Issue
	index := make(map[string]int)
	excluded := make(map[int]bool)

	type open struct {
		idx   int
		level int
	}
	var stack []open
	currentGroup := -1

	for node := range ast.NodesByKind(root, ast.KindDataItem) {
		info := models.DataItemInfo{
			Name:      node.Name(),
			Level:     node.IntAttr("level"),
			Picture:   node.Attr("picture"),
			Usage:     node.Attr("usage"),
			Occurs:    node.IntAttr("occurs"),
			Redefines: node.Attr("redefines"),
			Value:     node.Attr("value"),
			Line:      node.Line,
		}
		idx := len(items)

		switch info.Level {
		case 77:
			stack = stack[:0]
		case 88:
			if len(stack) > 0 {
				attach(&items, stack[len(stack)-1].idx, &info)
			} else {
				excluded[idx] = true
				issues = append(issues, models.Issue{
					Kind:     models.IssueDataModelViolation,
					Severity: models.SeverityError,
					Message:  fmt.Sprintf("condition name %s has no preceding data item", info.Name),
					Subject:  info.Name,
					Line:     info.Line,
				})
			}
		case 66:
			if currentGroup >= 0 {
				attach(&items, currentGroup, &info)
			} else {
				excluded[idx] = true
				issues = append(issues, models.Issue{
					Kind:     models.IssueDataModelViolation,
					Severity: models.SeverityError,
					Message:  fmt.Sprintf("rename %s has no enclosing 01 group", info.Name),
					Subject:  info.Name,
					Line:     info.Line,
				})
			}
		default:
			for len(stack) > 0 && stack[len(stack)-1].level >= info.Level {
				stack = stack[:len(stack)-1]
			}
			if len(stack) > 0 {
				attach(&items, stack[len(stack)-1].idx, &info)
			}
			stack = append(stack, open{idx: idx, level: info.Level})
			if info.Level == 1 {
				currentGroup = idx
			}
		}

		items = append(items, info)
		if _, dup := index[info.Name]; !dup && !excluded[idx] {
			index[info.Name] = idx
		}
	}
	return items, index, excluded, issues
}

func attach(items *[]models.DataItemInfo, parent int, child *models.DataItemInfo) {
	child.Parent = (*items)[parent].Name
	(*items)[parent].Children = append((*items)[parent].Children, child.Name)
}

// declarationEdges derives REDEFINES, OCCURS DEPENDING ON and condition
// name edges. A REDEFINES must target a declared item at the same level.
func (a *Analyzer) declarationEdges(report *models.DataReport, index map[string]int) []models.Issue {
	var issues []models.Issue
	for _, item := range report.Items {
		if item.Redefines != "" {
			target, ok := index[item.Redefines]
			switch {
			case !ok:
				issues = append(issues, models.Issue{
					Kind:     models.IssueDataModelViolation,
					Severity: models.SeverityError,
					Message:  fmt.Sprintf("%s redefines undeclared item %s", item.Name, item.Redefines),
					Subject:  item.Name,
					Line:     item.Line,
				})
			case report.Items[target].Level != item.Level:
				issues = append(issues, models.Issue{
					Kind:     models.IssueDataModelViolation,
					Severity: models.SeverityError,
					Message:  fmt.Sprintf("%s redefines %s at a different level", item.Name, item.Redefines),
					Subject:  item.Name,
					Line:     item.Line,
				})
			default:
				report.Graph.Dependencies = append(report.Graph.Dependencies, models.DependencyEdge{
					Source: item.Name, Target: item.Redefines, Kind: models.DepRedefines, Line: item.Line,
				})
			}
		}
		if item.Level == 88 && item.Parent != "" {
			report.Graph.Dependencies = append(report.Graph.Dependencies, models.DependencyEdge{
				Source: item.Name, Target: item.Parent, Kind: models.DepValue, Line: item.Line,
			})
		}
	}
	return issues
}

// flowEdges walks the procedure division tracking the enclosing condition
// chain, and records value movement for MOVE, COMPUTE, STRING and
// UNSTRING statements.
func (a *Analyzer) flowEdges(report *models.DataReport, root *ast.Node) {
	type frame struct {
		node       *ast.Node
		conditions []string
	}
	stack := []frame{{root, nil}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := f.node
		conditions := f.conditions

		switch {
		case n.Kind == ast.KindStatement && n.Stmt == ast.StmtIf:
			if c := n.Attr("condition"); c != "" {
				conditions = appendCondition(conditions, c)
			}
		case n.Kind == ast.KindCondition:
			if c := n.Attr("when"); c != "" {
				conditions = appendCondition(conditions, c)
			}
		case n.Kind == ast.KindStatement:
			a.recordFlow(report, n, conditions)
		case n.Kind == ast.KindDataItem:
			if dep := n.Attr("depending_on"); dep != "" {
				report.Graph.Dependencies = append(report.Graph.Dependencies, models.DependencyEdge{
					Source: n.Name(), Target: dep, Kind: models.DepOccursDepending, Line: n.Line,
				})
			}
		}

		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{n.Children[i], conditions})
		}
	}
}

func appendCondition(chain []string, c string) []string {
	out := make([]string, 0, len(chain)+1)
	out = append(out, chain...)
	return append(out, c)
}

// recordFlow maps statement operands to flow edges. The first operand is
// the receiving item for MOVE, COMPUTE and STRING; UNSTRING reverses the
// direction, reading from the first operand into the rest.
func (a *Analyzer) recordFlow(report *models.DataReport, stmt *ast.Node, conditions []string) {
	operands := stmt.Operands()
	if len(operands) < 2 {
		return
	}
	verb := string(stmt.Stmt)
	switch stmt.Stmt {
	case ast.StmtMove, ast.StmtCompute, ast.StmtString:
		target := operands[0]
		for _, source := range operands[1:] {
			report.Graph.Flows = append(report.Graph.Flows, models.DataFlowEdge{
				Source: source, Target: target, Statement: verb, Line: stmt.Line, Conditions: conditions,
			})
		}
	case ast.StmtUnstring:
		source := operands[0]
		for _, target := range operands[1:] {
			report.Graph.Flows = append(report.Graph.Flows, models.DataFlowEdge{
				Source: source, Target: target, Statement: verb, Line: stmt.Line, Conditions: conditions,
			})
		}
	}
}

func computeMetrics(report *models.DataReport) models.DataMetrics {
	m := models.DataMetrics{
		TotalItems: len(report.Items),
		TotalFlows: len(report.Graph.Flows),
	}

	depth := make(map[string]int, len(report.Items))
	childCounts := 0
	groups := 0
	for _, item := range report.Items {
		d := 1
		if item.Parent != "" {
			d = depth[item.Parent] + 1
		}
		depth[item.Name] = d
		if d > m.MaxDepth {
			m.MaxDepth = d
		}
		if len(item.Children) > 0 {
			childCounts += len(item.Children)
			groups++
		}
		if item.Redefines != "" {
			m.RedefinesCount++
		}
	}
	if groups > 0 {
		m.AverageChildren = float64(childCounts) / float64(groups)
	}

	m.GraphDensity, m.StronglyConnected = graphShape(report.Graph)
	return m
}

// graphShape measures the merged dependency and flow graph: edge density
// over the declared items, and the count of nontrivial strongly connected
// components.
func graphShape(g models.DataDependencyGraph) (float64, int) {
	if len(g.Items) < 2 {
		return 0, 0
	}

	dg := simple.NewDirectedGraph()
	ids := make(map[string]int64, len(g.Items))
	node := func(name string) int64 {
		if id, ok := ids[name]; ok {
			return id
		}
		n := dg.NewNode()
		dg.AddNode(n)
		ids[name] = n.ID()
		return n.ID()
	}
	for _, name := range g.Items {
		node(name)
	}

	edges := 0
	addEdge := func(src, dst string) {
		if src == dst {
			return
		}
		from, to := node(src), node(dst)
		if dg.HasEdgeFromTo(from, to) {
			return
		}
		dg.SetEdge(dg.NewEdge(dg.Node(from), dg.Node(to)))
		edges++
	}
	for _, e := range g.Dependencies {
		addEdge(e.Source, e.Target)
	}
	for _, e := range g.Flows {
		addEdge(e.Source, e.Target)
	}

	n := len(ids)
	density := float64(edges) / float64(n*(n-1))

	nontrivial := 0
	for _, scc := range topo.TarjanSCC(dg) {
		if len(scc) > 1 {
			nontrivial++
		}
	}
	return density, nontrivial
}
