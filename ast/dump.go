package ast

// Dump renders n (and its whole subtree) into nested maps and slices
// suitable for json.Marshal. One function suffices for every node kind
// because every node shares the same four-slot shape.
func Dump(n *Node) any {
	if n == nil {
		return nil
	}
	if n.Kind == LIST {
		return dumpList(n)
	}

	m := map[string]any{"kind": n.Kind.String(), "line": n.Line}
	if n.Kind == NUMBER {
		m["number"] = n.Number
	}
	if n.Kind == STRING || n.Kind == REGEXP || n.Kind == IDENTIFIER ||
		n.Kind == VARDECL || n.Kind == LABEL || n.Kind == BREAK || n.Kind == CONTINUE {
		m["string"] = n.String
	}
	if n.A != nil {
		m["a"] = Dump(n.A)
	}
	if n.B != nil {
		m["b"] = Dump(n.B)
	}
	if n.C != nil {
		m["c"] = Dump(n.C)
	}
	if n.D != nil {
		m["d"] = Dump(n.D)
	}
	return m
}

func dumpList(n *Node) any {
	var out []any
	for _, elem := range ListSlice(n) {
		out = append(out, Dump(elem))
	}
	return out
}
