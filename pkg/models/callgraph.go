package models

// CallEdge records one CALL or INVOKE of an external program. Only literal
// program-name operands resolve; dynamic targets surface as unresolved
// notes on the report instead.
type CallEdge struct {
	Caller string   `json:"caller"`
	Callee string   `json:"callee"`
	Verb   string   `json:"verb"`
	Using  []string `json:"using,omitempty"`
	Giving string   `json:"giving,omitempty"`
	Line   int      `json:"line,omitempty"`
}

// UnresolvedCall is a CALL whose target is computed at run time.
type UnresolvedCall struct {
	Caller  string `json:"caller"`
	Operand string `json:"operand"`
	Line    int    `json:"line,omitempty"`
}

// CallGraphMetrics aggregates the call structure.
type CallGraphMetrics struct {
	TotalCalls           int     `json:"total_calls"`
	MaxCallDepth         int     `json:"max_call_depth"`
	AverageCallsPerCaller float64 `json:"average_calls_per_caller"`
}

// CallGraphReport is the call-graph analyzer's result. Callees maps each
// caller paragraph to the set of programs it invokes.
type CallGraphReport struct {
	Edges       []CallEdge          `json:"edges"`
	Callees     map[string][]string `json:"callees"`
	EntryPoints []string            `json:"entry_points"`
	LeafNodes   []string            `json:"leaf_nodes"`
	Unresolved  []UnresolvedCall    `json:"unresolved,omitempty"`
	Metrics     CallGraphMetrics    `json:"metrics"`
}
