package models

// DataItemInfo describes one data declaration. Parent and children are
// name references into the same report, never node pointers.
type DataItemInfo struct {
	Name     string   `json:"name"`
	Level    int      `json:"level"`
	Parent   string   `json:"parent,omitempty"`
	Children []string `json:"children,omitempty"`
	Picture  string   `json:"picture,omitempty"`
	Usage    string   `json:"usage,omitempty"`
	Occurs   int      `json:"occurs,omitempty"`
	Redefines string  `json:"redefines,omitempty"`
	Value    string   `json:"value,omitempty"`
	Line     int      `json:"line"`
}

// DependencyKind tags edges in the data dependency graph.
type DependencyKind string

const (
	DepRedefines       DependencyKind = "redefines"
	DepOccursDepending DependencyKind = "occurs-depending"
	DepValue           DependencyKind = "value"
	DepDataFlow        DependencyKind = "data-flow"
)

// DependencyEdge is one declaration-level relation between data items.
type DependencyEdge struct {
	Source string         `json:"source"`
	Target string         `json:"target"`
	Kind   DependencyKind `json:"kind"`
	Line   int            `json:"line,omitempty"`
}

// DataFlowEdge is one value movement from statement analysis. Conditions
// is the enclosing IF/EVALUATE chain at the move site.
type DataFlowEdge struct {
	Source     string   `json:"source"`
	Target     string   `json:"target"`
	Statement  string   `json:"statement"`
	Line       int      `json:"line,omitempty"`
	Conditions []string `json:"conditions,omitempty"`
}

// DataDependencyGraph is the merged declaration and flow graph keyed by
// data-item name.
type DataDependencyGraph struct {
	Items        []string              `json:"items"`
	Dependencies []DependencyEdge      `json:"dependencies"`
	Flows        []DataFlowEdge        `json:"flows"`
	Degrees      map[string]int        `json:"degrees"`
}

// DataMetrics aggregates the data division's shape.
type DataMetrics struct {
	TotalItems       int     `json:"total_items"`
	MaxDepth         int     `json:"max_depth"`
	AverageChildren  float64 `json:"average_children"`
	RedefinesCount   int     `json:"redefines_count"`
	TotalFlows       int     `json:"total_flows"`
	GraphDensity     float64 `json:"graph_density"`
	StronglyConnected int    `json:"strongly_connected_components"`
}

// DataReport is the data analyzer's result.
type DataReport struct {
	Items         []DataItemInfo      `json:"items"`
	Graph         DataDependencyGraph `json:"graph"`
	CriticalItems []string            `json:"critical_items"`
	Metrics       DataMetrics         `json:"metrics"`
}
