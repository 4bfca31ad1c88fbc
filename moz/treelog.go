package moz

import (
	"github.com/cockroachdb/errors"
	"github.com/npillmayer/gopeg"
	"github.com/npillmayer/gopeg/ast"
)

type treeOpKind uint8

const (
	opNew treeOpKind = iota
	opFold
	opCapture
	opTag
	opReplace
	opPush
	opPop
	opLink // link a finished node, e.g. from the memo table
)

// treeOp is an entry of the tree log.
type treeOp struct {
	kind  treeOpKind
	pos   uint64
	label string // fold, pop and link label
	text  string // tag name or replacement text
	node  *ast.Node
}

// treeLog records tree construction during a parse. Backtracking truncates
// it; nodes are created only when the log is replayed.
type treeLog struct {
	ops    []treeOp
	source []byte
}

func (tl *treeLog) mark() int {
	return len(tl.ops)
}

func (tl *treeLog) truncate(mark int) {
	tl.ops = tl.ops[:mark]
}

func (tl *treeLog) append(op treeOp) {
	tl.ops = append(tl.ops, op)
}

// replay builds nodes for a section of the log and returns the current node
// at its end, which may be nil.
//
// New starts a node at its position. Fold starts a node with the current
// node as first child. Push saves the current node and starts from nil, Pop
// links the node built since the Push to the saved one. Operations needing a
// current node are ignored if there is none.
func (tl *treeLog) replay(ops []treeOp) (*ast.Node, error) {
	var cur *ast.Node
	var stack []*ast.Node
	for _, op := range ops {
		switch op.kind {
		case opNew:
			cur = ast.NewNode("", gopeg.Span{op.pos, op.pos}, tl.source)
		case opFold:
			n := ast.NewNode("", gopeg.Span{op.pos, op.pos}, tl.source)
			if cur != nil {
				n.Span = n.Span.Extend(cur.Span)
				n.Link(op.label, cur)
			}
			cur = n
		case opCapture:
			if cur != nil {
				cur.Span[1] = op.pos
			}
		case opTag:
			if cur != nil {
				cur.Tag = op.text
			}
		case opReplace:
			if cur != nil {
				cur.Replace(op.text)
			}
		case opPush:
			stack = append(stack, cur)
			cur = nil
		case opPop:
			if len(stack) == 0 {
				return nil, errors.AssertionFailedf("tree log underflow at position %d", op.pos)
			}
			child := cur
			cur = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if child != nil && cur != nil {
				cur.Link(op.label, child)
			}
		case opLink:
			if op.node != nil && cur != nil {
				cur.Link(op.label, op.node)
			}
		}
	}
	if len(stack) > 0 {
		return nil, errors.AssertionFailedf("tree log has %d unmatched pushes", len(stack))
	}
	return cur, nil
}
