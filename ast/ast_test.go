package ast

import (
	"strconv"
	"testing"

	"github.com/npillmayer/gopeg"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// makeTree builds the tree for "1+2+3", folded to the left.
func makeTree() *Node {
	src := []byte("1+2+3")
	num := func(i uint64) *Node { return NewNode("Num", gopeg.Span{i, i + 1}, src) }
	add1 := NewNode("Add", gopeg.Span{0, 3}, src)
	add1.Link("left", num(0))
	add1.Link("right", num(2))
	add2 := NewNode("Add", gopeg.Span{0, 5}, src)
	add2.Link("left", add1)
	add2.Link("right", num(4))
	return add2
}

func TestNodeString(t *testing.T) {
	root := makeTree()
	want := "#Add[$left=#Add[$left=#Num['1'] $right=#Num['2']] $right=#Num['3']]"
	if s := root.String(); s != want {
		t.Errorf("expected\n%s\nhave\n%s", want, s)
	}
	if root.Size() != 5 {
		t.Errorf("expected tree of size 5, is %d", root.Size())
	}
	if left, ok := root.Child("left"); !ok || left.Text() != "1+2" {
		t.Errorf("expected left child to span '1+2'")
	}
}

func TestReplace(t *testing.T) {
	n := NewNode("X", gopeg.Span{0, 3}, []byte("abc"))
	if n.Text() != "abc" {
		t.Errorf("expected text 'abc', have %q", n.Text())
	}
	n.Replace("")
	if text, ok := n.Replaced(); !ok || text != "" || n.Text() != "" {
		t.Errorf("expected empty replacement text, have %q", n.Text())
	}
}

func TestWalkEvaluates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.ast")
	defer teardown()
	//
	eval := ListenerFuncs{
		OnExit: func(n *Node, values []interface{}, ctxt NodeCtxt) interface{} {
			switch n.Tag {
			case "Num":
				v, _ := strconv.Atoi(n.Text())
				return v
			case "Add":
				return values[0].(int) + values[1].(int)
			}
			return nil
		},
	}
	if v := Walk(makeTree(), eval, LtoR, Continue); v != 6 {
		t.Errorf("expected 1+2+3 to evaluate to 6, is %v", v)
	}
}

func TestWalkOrderAndBreak(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.ast")
	defer teardown()
	//
	var visited []string
	l := ListenerFuncs{
		OnEnter: func(n *Node, ctxt NodeCtxt) bool {
			visited = append(visited, n.Text())
			return ctxt.Level == 0
		},
	}
	Walk(makeTree(), l, RtoL, Break)
	if len(visited) != 3 || visited[1] != "3" || visited[2] != "1+2" {
		t.Errorf("unexpected walk order %v", visited)
	}
}
