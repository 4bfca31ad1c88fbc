package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/npillmayer/gopeg/ast"
	"github.com/pterm/pterm"
)

// --- Compact ---------------------------------------------------------------

// Compact writes a tree in the notation of ast.Node.String, followed by a
// newline.
func Compact(w io.Writer, root *ast.Node) error {
	_, err := io.WriteString(w, root.String()+"\n")
	return err
}

// --- JSON ------------------------------------------------------------------

// jsonNode is the JSON shape of a tree node. Leaves carry their text, inner
// nodes their children.
type jsonNode struct {
	Tag      string      `json:"tag"`
	Label    string      `json:"label,omitempty"`
	From     uint64      `json:"from"`
	To       uint64      `json:"to"`
	Text     *string     `json:"text,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

// JSON writes a tree as nested JSON objects:
//
//     {"tag":"Add","from":0,"to":3,"children":[
//         {"tag":"Int","label":"left","from":0,"to":1,"text":"1"}, ...]}
//
func JSON(w io.Writer, root *ast.Node) error {
	conv := ast.ListenerFuncs{
		OnExit: func(n *ast.Node, values []interface{}, ctxt ast.NodeCtxt) interface{} {
			jn := &jsonNode{
				Tag:   n.Tag,
				Label: ctxt.Label,
				From:  n.Span.From(),
				To:    n.Span.To(),
			}
			if n.IsLeaf() {
				text := n.Text()
				jn.Text = &text
			}
			for _, v := range values {
				jn.Children = append(jn.Children, v.(*jsonNode))
			}
			return jn
		},
	}
	jn := ast.Walk(root, conv, ast.LtoR, ast.Continue).(*jsonNode)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return errors.Wrap(enc.Encode(jn), "writing JSON tree")
}

// --- S-expressions ---------------------------------------------------------

// SExpr writes a tree as an s-expression, one tree per line:
//
//     (Add :left (Int "1") :right (Int "2"))
//
// Nodes without a tag are written as '_'.
func SExpr(w io.Writer, root *ast.Node) error {
	var b strings.Builder
	sexpr(&b, root)
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

func sexpr(b *strings.Builder, n *ast.Node) {
	b.WriteByte('(')
	if n.Tag == "" {
		b.WriteByte('_')
	} else {
		b.WriteString(n.Tag)
	}
	if n.IsLeaf() {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(n.Text()))
	}
	for _, e := range n.Children {
		b.WriteByte(' ')
		if e.Label != "" {
			b.WriteByte(':')
			b.WriteString(e.Label)
			b.WriteByte(' ')
		}
		sexpr(b, e.Node)
	}
	b.WriteByte(')')
}

// --- Pretty tree -----------------------------------------------------------

// Pretty renders a tree for display on a terminal, one node per line.
func Pretty(w io.Writer, root *ast.Node) error {
	ll := leveledList(root)
	tracer().Debugf("rendering tree with %d nodes", len(ll))
	s, err := pterm.DefaultTree.WithRoot(pterm.NewTreeFromLeveledList(ll)).Srender()
	if err != nil {
		return errors.Wrap(err, "rendering tree")
	}
	_, err = io.WriteString(w, s)
	return err
}

func leveledList(root *ast.Node) pterm.LeveledList {
	var ll pterm.LeveledList
	items := ast.ListenerFuncs{
		OnEnter: func(n *ast.Node, ctxt ast.NodeCtxt) bool {
			ll = append(ll, pterm.LeveledListItem{
				Level: ctxt.Level,
				Text:  nodeLine(n, ctxt.Label),
			})
			return true
		},
	}
	ast.Walk(root, items, ast.LtoR, ast.Continue)
	return ll
}

func nodeLine(n *ast.Node, label string) string {
	var b strings.Builder
	if label != "" {
		fmt.Fprintf(&b, "$%s=", label)
	}
	fmt.Fprintf(&b, "#%s %s", n.Tag, n.Span)
	if n.IsLeaf() {
		fmt.Fprintf(&b, " %q", n.Text())
	}
	return b.String()
}
