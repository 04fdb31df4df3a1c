// Package testutil builds COBOL syntax trees for tests without going
// through the JSON decode path.
package testutil

import (
	"strconv"

	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/ast"
)

// Attrs is a shorthand attribute map for fixture nodes.
type Attrs map[string]string

// Node builds an arbitrary tree node.
func Node(kind ast.NodeKind, attrs Attrs, children ...*ast.Node) *ast.Node {
	n := &ast.Node{Kind: kind, Children: children}
	if len(attrs) > 0 {
		n.Attributes = map[string]string(attrs)
	}
	if kind == ast.KindStatement {
		n.Stmt = ast.StatementKindOf(n.Attr("statement_type"))
	}
	return n
}

// Program wraps children in a program root.
func Program(name string, children ...*ast.Node) *ast.Program {
	root := Node(ast.KindProgram, Attrs{"name": name}, children...)
	return &ast.Program{Root: root, Name: name}
}

// Division builds a named division spanning the given lines.
func Division(name string, start, end int, children ...*ast.Node) *ast.Node {
	n := Node(ast.KindDivision, Attrs{"name": name, "end_line": strconv.Itoa(end)}, children...)
	n.Line = start
	return n
}

// Section builds a named section.
func Section(name string, start, end int, children ...*ast.Node) *ast.Node {
	n := Node(ast.KindSection, Attrs{"name": name, "end_line": strconv.Itoa(end)}, children...)
	n.Line = start
	return n
}

// Paragraph builds a named paragraph.
func Paragraph(name string, start, end int, stmts ...*ast.Node) *ast.Node {
	n := Node(ast.KindParagraph, Attrs{"name": name, "end_line": strconv.Itoa(end)}, stmts...)
	n.Line = start
	return n
}

// Stmt builds a statement with a verb and extra attributes.
func Stmt(verb string, attrs Attrs, children ...*ast.Node) *ast.Node {
	all := Attrs{"statement_type": verb}
	for k, v := range attrs {
		all[k] = v
	}
	return Node(ast.KindStatement, all, children...)
}

// Perform builds a PERFORM of the named paragraph.
func Perform(target string) *ast.Node {
	return Stmt("PERFORM", Attrs{"target": target})
}

// PerformUntil builds a PERFORM ... UNTIL loop edge.
func PerformUntil(target, condition string) *ast.Node {
	return Stmt("PERFORM", Attrs{"target": target, "until_condition": condition})
}

// GoTo builds a GO TO jump.
func GoTo(target string) *ast.Node {
	return Stmt("GO TO", Attrs{"target": target})
}

// Move builds MOVE source TO target.
func Move(source, target string) *ast.Node {
	return Stmt("MOVE", Attrs{"operands": target + "," + source})
}

// Call builds CALL 'program' USING params.
func Call(program string, using ...string) *ast.Node {
	attrs := Attrs{"program_name": program, "literal": "true"}
	if len(using) > 0 {
		joined := using[0]
		for _, u := range using[1:] {
			joined += "," + u
		}
		attrs["using"] = joined
	}
	return Stmt("CALL", attrs)
}

// DataItem builds a data declaration at the given level.
func DataItem(name string, level int, attrs Attrs) *ast.Node {
	all := Attrs{"name": name, "level": strconv.Itoa(level)}
	for k, v := range attrs {
		all[k] = v
	}
	return Node(ast.KindDataItem, all)
}
