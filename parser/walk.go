package parser

import "sort"

// Walk traverses the tree rooted at node in source order. It calls fn for
// each node; when fn returns false the node's children are skipped.
func Walk(node *Node, fn func(*Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	for _, child := range children(node) {
		Walk(child, fn)
	}
}

// children returns the direct children of node sorted by start offset.
// The JSON field order does not always follow the source: directives are
// listed after the body, a switch case's test after its consequent and
// template quasis apart from their expressions.
func children(node *Node) []*Node {
	var out []*Node
	for _, f := range nodeFields[node.Type] {
		switch child := f.get(node).(type) {
		case *Node:
			if child != nil {
				out = append(out, child)
			}
		case []*Node:
			for _, c := range child {
				if c != nil {
					out = append(out, c)
				}
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})
	return out
}

// CountNodes returns the number of nodes under and including node.
func CountNodes(node *Node) int {
	count := 0
	Walk(node, func(*Node) bool {
		count++
		return true
	})
	return count
}
