package radix

import (
	"fmt"
	"strings"
)

// ValueFormatter renders a node's stored value for diagnostic printing.
// The suffix tree uses this to print its bracketed originals list instead
// of a raw Go value.
type ValueFormatter[T any] func(T) string

// PrettyPrint renders tree as the rooted ASCII drawing spec.md §6
// describes: "○" marks every node, children appear under their parent in
// sorted order, and "├── "/"└── "/"│   "/"    " prefix continuation lines
// the standard way. Each terminal node prints its edge label and, via
// format, its value. This is a diagnostic aid, not a wire format, but its
// exact byte layout is a golden-tested contract (spec.md §8, scenarios
// S1-S4).
func PrettyPrint[T any](root *Node[T], format ValueFormatter[T]) string {
	var b strings.Builder
	b.WriteString("○\n")
	writeChildren(&b, root, "", format)
	return strings.TrimSuffix(b.String(), "\n")
}

func writeChildren[T any](b *strings.Builder, n *Node[T], indent string, format ValueFormatter[T]) {
	for i, e := range n.edges {
		last := i == len(n.edges)-1
		connector := "├── "
		childIndent := indent + "│   "
		if last {
			connector = "└── "
			childIndent = indent + "    "
		}

		b.WriteString(indent)
		b.WriteString(connector)
		b.WriteString("○ ")
		b.Write(e.node.prefix)
		if e.node.value != nil {
			b.WriteString(" (")
			b.WriteString(format(*e.node.value))
			b.WriteString(")")
		}
		b.WriteString("\n")

		writeChildren(b, e.node, childIndent, format)
	}
}

// DefaultValueFormatter renders a value with fmt's default verb, for use
// when T does not need custom formatting.
func DefaultValueFormatter[T any]() ValueFormatter[T] {
	return func(v T) string { return fmt.Sprintf("%v", v) }
}
