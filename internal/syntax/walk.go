package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
// If visitor returns false, children are not visited.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		walkList(n.List, v)

	case *Block:
		walkList(n.List, v)

	case *Binary:
		Walk(n.X, v)
		Walk(n.Y, v)

	case *Unary:
		Walk(n.X, v)

	case *LetAssign:
		Walk(n.Init, v)

	case *LetSet:
		Walk(n.Value, v)

	case *Print:
		Walk(n.Value, v)

	case *IfElse:
		Walk(n.Cond, v)
		Walk(n.Then, v)
		if n.Else != nil {
			Walk(n.Else, v)
		}

	case *FuncDef:
		walkList(n.Body, v)

	case *Call:
		Walk(n.Callee, v)
		walkList(n.Args, v)

	// Leaf nodes: LetGet, Literal
	// No children to visit
	}
}

func walkList(list []Expr, v Visitor) {
	for _, x := range list {
		Walk(x, v)
	}
}

// Inspect traverses an AST and calls f for each node.
// Convenience wrapper around Walk.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}
