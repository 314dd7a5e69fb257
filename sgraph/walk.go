package sgraph

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// Find returns the first node named name in pre-order, or nil.
func Find(n Node, name string) Node {
	var found Node
	Walk(n, func(c Node) bool {
		if found != nil {
			return false
		}
		if c.Name() == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// Count returns the number of nodes in the subtree rooted at n.
func Count(n Node) int {
	count := 0
	Walk(n, func(Node) bool {
		count++
		return true
	})
	return count
}
