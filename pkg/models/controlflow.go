package models

// FlowEdgeKind tags edges in the control-flow graph.
type FlowEdgeKind string

const (
	EdgePerform        FlowEdgeKind = "perform"
	EdgePerformUntil   FlowEdgeKind = "perform-until"
	EdgePerformVarying FlowEdgeKind = "perform-varying"
	EdgeGoTo           FlowEdgeKind = "goto"
	EdgeIfBranch       FlowEdgeKind = "if-branch"
	EdgeEvaluateBranch FlowEdgeKind = "evaluate-branch"
)

// IsLoop reports whether the edge kind carries a loop condition.
func (k FlowEdgeKind) IsLoop() bool {
	return k == EdgePerformUntil || k == EdgePerformVarying
}

// FlowEdge is one directed edge between paragraph or section identifiers.
// Loop edges carry their condition; GOTO edges are always flagged.
type FlowEdge struct {
	From      string       `json:"from"`
	To        string       `json:"to"`
	Kind      FlowEdgeKind `json:"kind"`
	Condition string       `json:"condition,omitempty"`
	Line      int          `json:"line,omitempty"`
	Flagged   bool         `json:"flagged,omitempty"`
}

// Cycle is one distinct cycle through the control-flow graph, reported as
// the ordered list of paragraph names on the loop.
type Cycle struct {
	Members  []string `json:"members"`
	Kind     string   `json:"kind"` // "goto" or "perform"
	Severity Severity `json:"severity"`
}

// ControlFlowGraph maps node identifiers to their outgoing edges.
type ControlFlowGraph struct {
	Nodes []string            `json:"nodes"`
	Edges map[string][]FlowEdge `json:"edges"`
}

// ControlFlowMetrics aggregates decision structure over the program.
type ControlFlowMetrics struct {
	CyclomaticComplexity int     `json:"cyclomatic_complexity"`
	DecisionPoints       int     `json:"decision_points"`
	DecisionDensity      float64 `json:"decision_density"`
	MaxNestingDepth      int     `json:"max_nesting_depth"`
	GotoCount            int     `json:"goto_count"`
}

// ControlFlowReport is the control-flow analyzer's result.
type ControlFlowReport struct {
	Graph       ControlFlowGraph   `json:"graph"`
	EntryPoints []string           `json:"entry_points"`
	ExitPoints  []string           `json:"exit_points"`
	Cycles      []Cycle            `json:"cycles"`
	Metrics     ControlFlowMetrics `json:"metrics"`
}
