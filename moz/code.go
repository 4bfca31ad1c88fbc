package moz

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/gopeg"
)

// Code is a compiled grammar: a laid out instruction graph plus the entry
// points of its productions. Code is immutable and safe for concurrent use.
type Code struct {
	insts    []*Inst
	entries  map[string]*Inst
	start    string
	memo     []*MemoPoint
	strategy gopeg.Strategy
}

// NewCode wraps a laid out instruction graph. insts[i].ID has to be i, and
// entries maps production names to their Label instructions. Clients
// usually get Code from a compiler, not by calling NewCode.
func NewCode(strategy gopeg.Strategy, start string, insts []*Inst,
	entries map[string]*Inst, memo []*MemoPoint) *Code {
	//
	return &Code{
		insts:    insts,
		entries:  entries,
		start:    start,
		memo:     memo,
		strategy: strategy,
	}
}

// Strategy returns the strategy the code has been compiled with.
func (c *Code) Strategy() gopeg.Strategy {
	return c.strategy
}

// StartProduction returns the name of the start production.
func (c *Code) StartProduction() string {
	return c.start
}

// Size returns the number of instructions.
func (c *Code) Size() int {
	return len(c.insts)
}

// Instruction returns the instruction with ID id.
func (c *Code) Instruction(id int) *Inst {
	if id < 0 || id >= len(c.insts) {
		return nil
	}
	return c.insts[id]
}

// Entry returns the entry instruction of a production.
func (c *Code) Entry(name string) (*Inst, bool) {
	inst, ok := c.entries[name]
	return inst, ok
}

// MemoPoints returns the memo points of the code, ordered by ID.
func (c *Code) MemoPoints() []*MemoPoint {
	return c.memo
}

// Dump writes a listing of the instructions to w.
func (c *Code) Dump(w io.Writer) {
	fmt.Fprintf(w, "; start %s, strategy %s\n", c.start, c.strategy)
	for _, mp := range c.memo {
		fmt.Fprintf(w, "; %s\n", mp)
	}
	for _, inst := range c.insts {
		if inst.Op == Label {
			fmt.Fprintf(w, "%s:\n", inst.Name)
		}
		fmt.Fprintf(w, "%5d  %-32s", inst.ID, inst.String())
		var edges []string
		if inst.Next != nil && !inst.IsTerminal() {
			edges = append(edges, fmt.Sprintf("-> %d", inst.Next.ID))
		}
		if inst.Branch != nil {
			edges = append(edges, fmt.Sprintf("else %d", inst.Branch.ID))
		}
		if inst.Target != nil {
			edges = append(edges, fmt.Sprintf("call %d", inst.Target.ID))
		}
		if inst.Table != nil {
			edges = append(edges, "table "+dispatchSummary(inst.Table))
		}
		fmt.Fprintln(w, strings.Join(edges, "  "))
	}
}

// dispatchSummary lists runs of bytes jumping to the same instruction.
func dispatchSummary(table []*Inst) string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for i := 0; i < len(table); {
		j := i
		for j+1 < len(table) && table[j+1] == table[i] {
			j++
		}
		if table[i] != nil {
			if !first {
				b.WriteByte(' ')
			}
			first = false
			fmt.Fprintf(&b, "%s:%d", byteRange(i, j), table[i].ID)
		}
		i = j + 1
	}
	b.WriteByte('}')
	return b.String()
}

func byteRange(from, to int) string {
	name := func(c int) string {
		if c == EOF {
			return "EOF"
		}
		if c > 32 && c < 127 {
			return string(rune(c))
		}
		return fmt.Sprintf("x%02x", c)
	}
	if from == to {
		return name(from)
	}
	return name(from) + "-" + name(to)
}

// ToGraphViz exports the instruction graph in the Graphviz Dot format.
func (c *Code) ToGraphViz(w io.Writer) {
	io.WriteString(w, `digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, inst := range c.insts {
		fmt.Fprintf(w, "i%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			inst.ID, nodecolor(inst), inst.ID, forGraphviz(inst.String()))
	}
	for _, inst := range c.insts {
		if inst.Next != nil && !inst.IsTerminal() {
			fmt.Fprintf(w, "i%03d -> i%03d\n", inst.ID, inst.Next.ID)
		}
		if inst.Branch != nil {
			fmt.Fprintf(w, "i%03d -> i%03d [style=dashed]\n", inst.ID, inst.Branch.ID)
		}
		if inst.Target != nil {
			fmt.Fprintf(w, "i%03d -> i%03d [style=dotted]\n", inst.ID, inst.Target.ID)
		}
		seen := make(map[*Inst]bool)
		for ch, t := range inst.Table {
			if t != nil && !seen[t] {
				seen[t] = true
				fmt.Fprintf(w, "i%03d -> i%03d [label=\"%s\"]\n", inst.ID, t.ID, forGraphviz(byteRange(ch, ch)))
			}
		}
	}
	io.WriteString(w, "}\n")
}

func nodecolor(inst *Inst) string {
	switch inst.Op {
	case Label:
		return "lightgray"
	case Fail, NotFail, MemoFail:
		return "mistyrose"
	}
	return "white"
}

func forGraphviz(s string) string {
	r := strings.NewReplacer(`"`, `\"`, "{", `\{`, "}", `\}`, "|", `\|`, "<", `\<`, ">", `\>`)
	return r.Replace(s)
}
