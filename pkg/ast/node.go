package ast

import "strconv"

// NodeKind classifies a syntax tree node. The set is closed: Decode rejects
// documents containing any other type tag.
type NodeKind string

const (
	KindProgram    NodeKind = "program"
	KindDivision   NodeKind = "division"
	KindSection    NodeKind = "section"
	KindParagraph  NodeKind = "paragraph"
	KindStatement  NodeKind = "statement"
	KindDataItem   NodeKind = "data_item"
	KindCondition  NodeKind = "condition"
	KindExpression NodeKind = "expression"
)

// nodeKinds is the closed set accepted at the decode boundary.
var nodeKinds = map[NodeKind]bool{
	KindProgram:    true,
	KindDivision:   true,
	KindSection:    true,
	KindParagraph:  true,
	KindStatement:  true,
	KindDataItem:   true,
	KindCondition:  true,
	KindExpression: true,
}

// StatementKind classifies a Statement node by its verb. Verbs the engine
// has no special handling for decode to StmtOther rather than failing, so
// new parser output never breaks analysis.
type StatementKind string

const (
	StmtIf       StatementKind = "IF"
	StmtEvaluate StatementKind = "EVALUATE"
	StmtPerform  StatementKind = "PERFORM"
	StmtGoTo     StatementKind = "GO TO"
	StmtMove     StatementKind = "MOVE"
	StmtCompute  StatementKind = "COMPUTE"
	StmtString   StatementKind = "STRING"
	StmtUnstring StatementKind = "UNSTRING"
	StmtCall     StatementKind = "CALL"
	StmtInvoke   StatementKind = "INVOKE"
	StmtStopRun  StatementKind = "STOP RUN"
	StmtGoBack   StatementKind = "GOBACK"
	StmtExit     StatementKind = "EXIT PROGRAM"
	StmtDisplay  StatementKind = "DISPLAY"
	StmtOther    StatementKind = "OTHER"
)

var statementKinds = map[string]StatementKind{
	"IF":           StmtIf,
	"EVALUATE":     StmtEvaluate,
	"PERFORM":      StmtPerform,
	"GO TO":        StmtGoTo,
	"GOTO":         StmtGoTo,
	"GO":           StmtGoTo,
	"MOVE":         StmtMove,
	"COMPUTE":      StmtCompute,
	"STRING":       StmtString,
	"UNSTRING":     StmtUnstring,
	"CALL":         StmtCall,
	"INVOKE":       StmtInvoke,
	"STOP RUN":     StmtStopRun,
	"STOP":         StmtStopRun,
	"GOBACK":       StmtGoBack,
	"EXIT PROGRAM": StmtExit,
	"DISPLAY":      StmtDisplay,
}

// StatementKindOf maps a raw parser verb onto the closed set.
func StatementKindOf(raw string) StatementKind {
	if k, ok := statementKinds[raw]; ok {
		return k
	}
	return StmtOther
}

// Node is a single vertex of the parsed tree. Children are exclusively owned
// by their parent; the whole tree is immutable after Decode.
type Node struct {
	Kind       NodeKind
	Value      string
	Children   []*Node
	Attributes map[string]string
	Line       int
	Column     int

	// Stmt is the decoded verb for Statement nodes, StmtOther otherwise unset.
	Stmt StatementKind
}

// Name returns the node's "name" attribute, or its value when unnamed.
// Division, section, paragraph and data-item nodes carry names.
func (n *Node) Name() string {
	if v, ok := n.Attributes["name"]; ok {
		return v
	}
	return n.Value
}

// Attr returns a string attribute, or the empty string when absent.
// Reads are tolerant: a malformed node yields defaults, never an error.
func (n *Node) Attr(key string) string {
	return n.Attributes[key]
}

// IntAttr returns a numeric attribute, or 0 when absent or malformed.
func (n *Node) IntAttr(key string) int {
	v, ok := n.Attributes[key]
	if !ok {
		return 0
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return i
}

// EndLine returns the "end_line" attribute, defaulting to the node's own
// line so size computations never go negative on sparse input.
func (n *Node) EndLine() int {
	if end := n.IntAttr("end_line"); end > 0 {
		return end
	}
	return n.Line
}

// Operands returns the statement's operand tokens in source order.
// Operands arrive as a comma-separated attribute from the parser.
func (n *Node) Operands() []string {
	return splitList(n.Attr("operands"))
}

// Program is the decoded root of one source member.
type Program struct {
	Root *Node
	Name string
}
