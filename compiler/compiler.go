package compiler

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/npillmayer/gopeg"
	"github.com/npillmayer/gopeg/expr"
	"github.com/npillmayer/gopeg/grammar"
	"github.com/npillmayer/gopeg/moz"
	"github.com/npillmayer/gopeg/optimize"
	"github.com/npillmayer/schuko/gconf"
)

// Option configures a compilation.
type Option func(*options)

type options struct {
	start string
	flags []string
}

// StartProduction selects the production to start parsing with. For
// productions of nested grammars, name is the unique name of the production.
// The default is the start production of the grammar.
func StartProduction(name string) Option {
	return func(o *options) {
		o.start = name
	}
}

// Flags sets build flags, tested by conditional expressions of the grammar.
// Flags not given are unset.
func Flags(names ...string) Option {
	return func(o *options) {
		o.flags = append(o.flags, names...)
	}
}

// Compile compiles grammar g and its nested grammars. Errors are grammar
// errors (see package grammar), or assertion errors in case of a compiler
// bug.
func Compile(g *grammar.Grammar, strategy gopeg.Strategy, opts ...Option) (*moz.Code, error) {
	rules, err := grammar.Unify(g)
	if err != nil {
		return nil, err
	}
	return CompileRules(rules, strategy, opts...)
}

// CompileRules compiles a set of rules.
func CompileRules(rules grammar.Rules, strategy gopeg.Strategy, opts ...Option) (*moz.Code, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.start != "" {
		rules = startingWith{Rules: rules, start: o.start}
	}
	pg, err := optimize.Optimize(rules, strategy, o.flags...)
	if err != nil {
		return nil, err
	}
	return Generate(pg)
}

// startingWith overrides the start rule of a rule set.
type startingWith struct {
	grammar.Rules
	start string
}

func (sw startingWith) StartRule() string {
	return sw.start
}

// Generate lowers the rules of an optimized grammar to code.
func Generate(pg *optimize.ParserGrammar) (*moz.Code, error) {
	c := newCompiler(pg)
	for _, name := range pg.RuleNames() {
		body, _ := pg.Rule(name)
		label := c.inst(moz.Label, nil)
		label.Name = name
		label.Next = c.visit(body, c.inst(moz.Ret, nil))
		c.entries[name] = label
	}
	if c.err != nil {
		return nil, c.err
	}
	insts := c.layout()
	if err := c.link(); err != nil {
		return nil, err
	}
	code := moz.NewCode(pg.Strategy(), pg.StartRule(), insts, c.entries, pg.MemoPoints())
	tracer().Debugf("compiled %d productions into %d instructions, %d memo points",
		len(c.entries), len(insts), len(pg.MemoPoints()))
	if gconf.GetBool("dump-instructions") {
		var b strings.Builder
		code.Dump(&b)
		tracer().Debugf("instruction listing:\n%s", b.String())
	}
	return code, nil
}

type compiler struct {
	pg       *optimize.ParserGrammar
	strategy gopeg.Strategy
	fail     *moz.Inst // shared by all Fail expressions
	entries  map[string]*moz.Inst
	calls    []*moz.Inst // call sites, linked after layout
	err      error       // first lowering error
}

func newCompiler(pg *optimize.ParserGrammar) *compiler {
	c := &compiler{
		pg:       pg,
		strategy: pg.Strategy(),
		entries:  make(map[string]*moz.Inst),
	}
	c.fail = c.inst(moz.Fail, nil)
	return c
}

func (c *compiler) inst(op moz.Opcode, next *moz.Inst) *moz.Inst {
	return moz.NewInst(op, next)
}

func (c *compiler) errorf(e expr.Expression, format string, args ...interface{}) *moz.Inst {
	if c.err == nil {
		c.err = errors.AssertionFailedf(format, args...)
		tracer().Errorf("cannot compile %s: %v", e, c.err)
	}
	return c.fail
}

// layout numbers the instructions reachable from the production entries in
// pre-order, following Next, Branch and dispatch tables. Call targets are
// not followed, as every production has its own entry.
func (c *compiler) layout() []*moz.Inst {
	code := arraylist.New()
	var stack []*moz.Inst
	for _, name := range c.pg.RuleNames() {
		stack = append(stack, c.entries[name])
		for len(stack) > 0 {
			inst := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if inst == nil || inst.ID >= 0 {
				continue
			}
			inst.ID = code.Size()
			code.Add(inst)
			for i := len(inst.Table) - 1; i >= 0; i-- {
				stack = append(stack, inst.Table[i])
			}
			stack = append(stack, inst.Branch)
			if !inst.IsTerminal() {
				stack = append(stack, inst.Next)
			}
		}
	}
	insts := make([]*moz.Inst, code.Size())
	code.Each(func(i int, v interface{}) {
		insts[i] = v.(*moz.Inst)
	})
	return insts
}

// link resolves the targets of all calls.
func (c *compiler) link() error {
	for _, call := range c.calls {
		entry, ok := c.entries[call.Name]
		if !ok {
			return errors.AssertionFailedf("call to unknown production %s", call.Name)
		}
		call.Target = entry
	}
	return nil
}
