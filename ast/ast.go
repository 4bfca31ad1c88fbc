/*
Package ast holds the tree artifact produced by a parse.

A tree consists of nodes, each with a tag, a span of the input, an optional
replacement text, and an ordered list of children, which may be labeled.
Trees are built by the parsing machine and are read-only for clients
afterwards, with the exception of the Value field of nodes, which is free
for use during tree walks.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ast

import (
	"strconv"
	"strings"

	"github.com/npillmayer/gopeg"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gopeg.ast'.
func tracer() tracing.Trace {
	return tracing.Select("gopeg.ast")
}

// Node is a node of a parse tree.
type Node struct {
	Tag      string
	Span     gopeg.Span
	Children []Edge
	Value    interface{} // user-defined value of a node
	replaced *string
	source   []byte
}

// Edge connects a node to a child node, with an optional label.
type Edge struct {
	Label string
	Node  *Node
}

// NewNode creates a node for a span of source.
func NewNode(tag string, span gopeg.Span, source []byte) *Node {
	return &Node{Tag: tag, Span: span, source: source}
}

// Text returns the replacement text of a node, if set, or the input the
// node spans.
func (n *Node) Text() string {
	if n.replaced != nil {
		return *n.replaced
	}
	from, to := n.Span.From(), n.Span.To()
	if to > uint64(len(n.source)) {
		to = uint64(len(n.source))
	}
	if from >= to {
		return ""
	}
	return string(n.source[from:to])
}

// Replace sets the replacement text of a node.
func (n *Node) Replace(text string) {
	n.replaced = &text
}

// Replaced returns the replacement text of n, if any.
func (n *Node) Replaced() (string, bool) {
	if n.replaced == nil {
		return "", false
	}
	return *n.replaced, true
}

// Source returns the complete input n has been parsed from.
func (n *Node) Source() []byte {
	return n.source
}

// Link appends a child node, with an optional label.
func (n *Node) Link(label string, child *Node) {
	n.Children = append(n.Children, Edge{Label: label, Node: child})
}

// IsLeaf is a predicate: does n have no children?
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Child returns the first child labeled with label.
func (n *Node) Child(label string) (*Node, bool) {
	for _, e := range n.Children {
		if e.Label == label {
			return e.Node, true
		}
	}
	return nil, false
}

// ChildAt returns the i-th child of n, or nil.
func (n *Node) ChildAt(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i].Node
}

// Size counts the nodes of the tree rooted at n.
func (n *Node) Size() int {
	if n == nil {
		return 0
	}
	size := 1
	for _, e := range n.Children {
		size += e.Node.Size()
	}
	return size
}

// String returns a compact notation of a tree:
//
//     #Add[$left=#Num['1'] $right=#Num['2']]
//
// Leaves show their text, inner nodes list their children.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if n == nil {
		b.WriteString("<nil>")
		return
	}
	b.WriteByte('#')
	b.WriteString(n.Tag)
	b.WriteByte('[')
	if n.IsLeaf() {
		b.WriteString(quote(n.Text()))
	}
	for i, e := range n.Children {
		if i > 0 {
			b.WriteByte(' ')
		}
		if e.Label != "" {
			b.WriteByte('$')
			b.WriteString(e.Label)
			b.WriteByte('=')
		}
		e.Node.write(b)
	}
	b.WriteByte(']')
}

func quote(text string) string {
	q := strconv.Quote(text)
	return "'" + strings.ReplaceAll(q[1:len(q)-1], `\"`, `"`) + "'"
}
