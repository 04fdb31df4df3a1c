// Package ast defines the immutable COBOL syntax tree consumed by the
// analysis engine, plus read-only accessors over it.
//
// Trees are produced by an external parser and arrive as JSON documents.
// Decode validates the document and maps the open string-tagged node and
// statement types onto closed kinds exactly once; everything downstream
// switches on those kinds. After Decode the tree is never mutated.
//
// Usage:
//
//	program, err := ast.Decode(data)
//	if err != nil {
//	    return err
//	}
//
//	for node := range ast.NodesByKind(program.Root, ast.KindParagraph) {
//	    fmt.Println(node.Name())
//	}
package ast
