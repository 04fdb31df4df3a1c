package ast

import "testing"

func buildTree() *Node {
	stmt := func(verb string) *Node {
		return &Node{
			Kind:       KindStatement,
			Attributes: map[string]string{"statement_type": verb},
			Stmt:       StatementKindOf(verb),
		}
	}
	para := &Node{
		Kind:       KindParagraph,
		Attributes: map[string]string{"name": "MAIN"},
		Children:   []*Node{stmt("MOVE"), stmt("IF"), stmt("MOVE")},
	}
	div := &Node{
		Kind:       KindDivision,
		Attributes: map[string]string{"name": "PROCEDURE DIVISION"},
		Children:   []*Node{para},
	}
	return &Node{Kind: KindProgram, Children: []*Node{div}}
}

func TestNodesByKindPreOrder(t *testing.T) {
	root := buildTree()

	var kinds []NodeKind
	Walk(root, func(n *Node) bool {
		kinds = append(kinds, n.Kind)
		return true
	})

	want := []NodeKind{KindProgram, KindDivision, KindParagraph, KindStatement, KindStatement, KindStatement}
	if len(kinds) != len(want) {
		t.Fatalf("visited %d nodes, want %d", len(kinds), len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("visit %d = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestNodesByKindRestartable(t *testing.T) {
	root := buildTree()
	seq := NodesByKind(root, KindStatement)

	first, second := 0, 0
	for range seq {
		first++
	}
	for range seq {
		second++
	}
	if first != 3 || second != 3 {
		t.Errorf("sequence yields = %d then %d, want 3 both times", first, second)
	}
}

func TestNodesByKindEarlyStop(t *testing.T) {
	root := buildTree()

	seen := 0
	for range NodesByKind(root, KindStatement) {
		seen++
		break
	}
	if seen != 1 {
		t.Errorf("early break visited %d, want 1", seen)
	}
}

func TestParents(t *testing.T) {
	root := buildTree()
	parents := Parents(root)

	if got := parents.Parent(root); got != nil {
		t.Errorf("root parent = %v, want nil", got)
	}

	div := root.Children[0]
	para := div.Children[0]
	stmt := para.Children[0]

	if got := parents.Parent(stmt); got != para {
		t.Errorf("statement parent = %v, want its paragraph", got)
	}
	if got := parents.Parent(para); got != div {
		t.Errorf("paragraph parent = %v, want its division", got)
	}

	var chain []NodeKind
	for n := range parents.Ancestors(stmt) {
		chain = append(chain, n.Kind)
	}
	want := []NodeKind{KindParagraph, KindDivision, KindProgram}
	if len(chain) != len(want) {
		t.Fatalf("ancestors = %v, want %v", chain, want)
	}
	for i := range want {
		if chain[i] != want[i] {
			t.Fatalf("ancestors = %v, want %v", chain, want)
		}
	}

	outside := &Node{Kind: KindStatement}
	if got := parents.Parent(outside); got != nil {
		t.Errorf("foreign node parent = %v, want nil", got)
	}
}

func TestCountAndDepth(t *testing.T) {
	root := buildTree()
	if got := CountNodes(root); got != 6 {
		t.Errorf("CountNodes = %d, want 6", got)
	}
	if got := Depth(root); got != 4 {
		t.Errorf("Depth = %d, want 4", got)
	}
	if got := Depth(nil); got != 0 {
		t.Errorf("Depth(nil) = %d, want 0", got)
	}
}
