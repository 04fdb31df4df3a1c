package ast

import (
	"errors"
	"testing"
)

const sampleDoc = `{
  "type": "program",
  "source_line": 1,
  "attributes": {"name": "PAYROLL"},
  "children": [
    {
      "type": "division",
      "source_line": 1,
      "attributes": {"name": "IDENTIFICATION DIVISION", "end_line": 5}
    },
    {
      "type": "division",
      "source_line": 20,
      "attributes": {"name": "PROCEDURE DIVISION", "end_line": 80},
      "children": [
        {
          "type": "paragraph",
          "source_line": 22,
          "attributes": {"name": "MAIN-LOGIC", "end_line": 30},
          "children": [
            {
              "type": "statement",
              "source_line": 23,
              "attributes": {"statement_type": "MOVE", "operands": ["WS-TOTAL", "WS-AMOUNT"]}
            },
            {
              "type": "statement",
              "source_line": 24,
              "attributes": {"statement_type": "ALTER"}
            }
          ]
        }
      ]
    }
  ]
}`

func TestDecode(t *testing.T) {
	prog, err := Decode([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if prog.Name != "PAYROLL" {
		t.Errorf("program name = %q, want PAYROLL", prog.Name)
	}
	if got := len(prog.Root.Children); got != 2 {
		t.Fatalf("root children = %d, want 2", got)
	}

	var stmts []*Node
	for s := range Statements(prog.Root) {
		stmts = append(stmts, s)
	}
	if len(stmts) != 2 {
		t.Fatalf("statements = %d, want 2", len(stmts))
	}
	if stmts[0].Stmt != StmtMove {
		t.Errorf("first statement kind = %v, want MOVE", stmts[0].Stmt)
	}
	if got := stmts[0].Operands(); len(got) != 2 || got[0] != "WS-TOTAL" || got[1] != "WS-AMOUNT" {
		t.Errorf("operands = %v, want [WS-TOTAL WS-AMOUNT]", got)
	}
	// ALTER has no special handling and decodes to the catch-all kind.
	if stmts[1].Stmt != StmtOther {
		t.Errorf("second statement kind = %v, want OTHER", stmts[1].Stmt)
	}
}

func TestDecodeRejectsNonProgramRoot(t *testing.T) {
	_, err := Decode([]byte(`{"type": "division", "attributes": {"name": "DATA DIVISION"}}`))
	if !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("error = %v, want ErrInvalidDocument", err)
	}
}

func TestDecodeRejectsUnknownNodeType(t *testing.T) {
	doc := `{"type": "program", "children": [{"type": "mystery"}]}`
	_, err := Decode([]byte(doc))
	if !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("error = %v, want ErrInvalidDocument", err)
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`{"type": "program"`))
	if !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("error = %v, want ErrInvalidDocument", err)
	}
}

func TestTolerantReads(t *testing.T) {
	n := &Node{Kind: KindDivision}

	if got := n.IntAttr("end_line"); got != 0 {
		t.Errorf("IntAttr on missing attribute = %d, want 0", got)
	}
	if got := n.Attr("name"); got != "" {
		t.Errorf("Attr on missing attribute = %q, want empty", got)
	}

	n.Line = 12
	if got := n.EndLine(); got != 12 {
		t.Errorf("EndLine without end_line = %d, want start line 12", got)
	}

	n.Attributes = map[string]string{"end_line": "not-a-number"}
	if got := n.IntAttr("end_line"); got != 0 {
		t.Errorf("IntAttr on malformed attribute = %d, want 0", got)
	}
}
