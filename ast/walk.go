package ast

import "github.com/npillmayer/gopeg"

/*
Walking a parse tree is usually done to create a more abstract tree, or to
compute a value directly. Clients implement a Listener and receive calls for
every node visited. Values returned on exit of a node are propagated to its
parent, which receives them as the values of its children.
*/

// Direction lets clients decide wether children nodes should be traversed left-to-right
// (default) or right-to-left.
type Direction int

// Children nodes may be traversed left-to-right (default) or right-to-left.
const (
	LtoR Direction = 1
	RtoL Direction = -1
)

// Breakmode is a client hint wether to stop traversing on break-signals or not.
type Breakmode int

// Setting Continue will always traverse a complete (sub-)tree. Break will skip
// traversing sub-tree as soon as an Enter-function signals a break.
const (
	Continue Breakmode = iota
	Break
)

// Listener is a type for walking a parse tree.
//
// Enter returns a boolean value indicating if the traversal should continue to
// the children of this node. Exit receives the values computed for the children
// (in order of the children, regardless of the direction of the walk) and may
// return a user-defined value to be propagated upwards of the tree.
type Listener interface {
	Enter(*Node, NodeCtxt) bool
	Exit(*Node, []interface{}, NodeCtxt) interface{}
}

// NodeCtxt is a context structure for Listeners.
type NodeCtxt struct {
	Span  gopeg.Span // span of input covered by this node
	Label string     // label of the edge leading to this node
	Level int        // nesting level
	Index int        // position within the parent's children, -1 for the root
}

// Walk traverses a tree top-down, applying Listener-methods for all nodes
// encountered. It returns the value calculated by the listener for root.
func Walk(root *Node, listener Listener, dir Direction, breakmode Breakmode) interface{} {
	if root == nil {
		return nil
	}
	tracer().Debugf("walk starting at node #%s", root.Tag)
	return walk(root, listener, dir, breakmode, NodeCtxt{Span: root.Span, Index: -1})
}

func walk(n *Node, listener Listener, dir Direction, breakmode Breakmode, ctxt NodeCtxt) interface{} {
	doContinue := listener.Enter(n, ctxt)
	var values []interface{}
	if doContinue || breakmode == Continue { // listener signalled us to traverse children nodes
		values = make([]interface{}, len(n.Children))
		i := 0
		if dir == RtoL {
			i = len(n.Children) - 1
		}
		for ; i >= 0 && i < len(n.Children); i += int(dir) {
			e := n.Children[i]
			chctxt := NodeCtxt{Span: e.Node.Span, Label: e.Label, Level: ctxt.Level + 1, Index: i}
			values[i] = walk(e.Node, listener, dir, breakmode, chctxt)
		}
	}
	return listener.Exit(n, values, ctxt)
}

// ListenerFuncs adapts a pair of functions to the Listener interface.
// Nil functions enter every node and return nil on exit.
type ListenerFuncs struct {
	OnEnter func(*Node, NodeCtxt) bool
	OnExit  func(*Node, []interface{}, NodeCtxt) interface{}
}

// Enter is part of the Listener interface.
func (l ListenerFuncs) Enter(n *Node, ctxt NodeCtxt) bool {
	if l.OnEnter == nil {
		return true
	}
	return l.OnEnter(n, ctxt)
}

// Exit is part of the Listener interface.
func (l ListenerFuncs) Exit(n *Node, values []interface{}, ctxt NodeCtxt) interface{} {
	if l.OnExit == nil {
		return nil
	}
	return l.OnExit(n, values, ctxt)
}
