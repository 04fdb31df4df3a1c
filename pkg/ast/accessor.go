package ast

import "iter"

// NodesByKind yields every node of the given kind in depth-first pre-order.
// The sequence is lazy and restartable: ranging twice walks the tree twice.
func NodesByKind(root *Node, kind NodeKind) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		walk(root, func(n *Node) bool {
			if n.Kind != kind {
				return true
			}
			return yield(n)
		})
	}
}

// Walk visits every node in depth-first pre-order until fn returns false.
func Walk(root *Node, fn func(*Node) bool) {
	walk(root, fn)
}

// walk is iterative: an explicit stack keeps deeply nested programs from
// exhausting goroutine stacks.
func walk(root *Node, fn func(*Node) bool) bool {
	if root == nil {
		return true
	}
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n) {
			return false
		}
		// Push children reversed so the leftmost child pops first.
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return true
}

// ParentMap resolves a node to its parent. Nodes carry no back-reference,
// so the index is built once per tree and shared by lookups.
type ParentMap map[*Node]*Node

// Parents indexes every node's parent in one pass over the tree. The root
// itself has no entry.
func Parents(root *Node) ParentMap {
	parents := make(ParentMap)
	walk(root, func(n *Node) bool {
		for _, c := range n.Children {
			parents[c] = n
		}
		return true
	})
	return parents
}

// Parent returns the parent of n, or nil for the root and for nodes
// outside the indexed tree.
func (p ParentMap) Parent(n *Node) *Node {
	return p[n]
}

// Ancestors yields n's ancestors from the immediate parent up to the root.
func (p ParentMap) Ancestors(n *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for cur := p[n]; cur != nil; cur = p[cur] {
			if !yield(cur) {
				return
			}
		}
	}
}

// Statements yields the statement nodes under root in pre-order.
func Statements(root *Node) iter.Seq[*Node] {
	return NodesByKind(root, KindStatement)
}

// CountNodes returns the total node count of the tree.
func CountNodes(root *Node) int {
	count := 0
	walk(root, func(*Node) bool {
		count++
		return true
	})
	return count
}

// Depth returns the height of the tree rooted at root.
func Depth(root *Node) int {
	if root == nil {
		return 0
	}
	type frame struct {
		node  *Node
		depth int
	}
	max := 0
	stack := []frame{{root, 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.depth > max {
			max = f.depth
		}
		for _, c := range f.node.Children {
			stack = append(stack, frame{c, f.depth + 1})
		}
	}
	return max
}
