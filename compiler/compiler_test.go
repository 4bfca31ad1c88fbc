package compiler

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/npillmayer/gopeg"
	"github.com/npillmayer/gopeg/grammar"
	"github.com/npillmayer/gopeg/moz"
	"github.com/npillmayer/gopeg/sample"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generic is the strategy without any optimization.
const generic = gopeg.TreeConstruction

func compile(t *testing.T, g *grammar.Grammar, strategy gopeg.Strategy, opts ...Option) *moz.Code {
	code, err := Compile(g, strategy, opts...)
	require.NoError(t, err)
	return code
}

func parse(t *testing.T, code *moz.Code, input string) *moz.Result {
	res, err := code.ParseString(input)
	require.NoError(t, err)
	return res
}

func TestDigits(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.compiler")
	defer teardown()
	//
	for _, strategy := range []gopeg.Strategy{generic, gopeg.DefaultStrategy} {
		code := compile(t, sample.Digits(), strategy)
		res := parse(t, code, "123a")
		if !res.Matched || res.End != 3 {
			t.Errorf("%s: expected digits to match (0…3), have %s", strategy, res)
		}
		res = parse(t, code, "a")
		require.False(t, res.Matched)
		assert.Equal(t, uint64(0), res.Failure.Position)
		assert.Equal(t, []string{"[0-9]"}, res.Failure.Expected)
	}
}

func TestChoice(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.compiler")
	defer teardown()
	//
	g := grammar.NewGrammar("G")
	g.Add("S", g.NewChoice(g.NewByteChar('x'), g.NewByteChar('y')))
	for _, strategy := range []gopeg.Strategy{generic, gopeg.DefaultStrategy} {
		code := compile(t, g, strategy)
		res := parse(t, code, "y")
		assert.True(t, res.Matched)
		assert.Equal(t, uint64(1), res.End)
		res = parse(t, code, "z")
		assert.False(t, res.Matched)
		assert.Equal(t, uint64(0), res.Failure.Position)
	}
	res := parse(t, compile(t, g, generic), "z")
	assert.Equal(t, []string{"'x'", "'y'"}, res.Failure.Expected)
	res = parse(t, compile(t, g, gopeg.DefaultStrategy), "z")
	assert.Equal(t, []string{"[xy]"}, res.Failure.Expected)
}

func TestTaggedChoice(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.compiler")
	defer teardown()
	//
	// S <- { 'x' #X } / { 'y' #Y }
	g := grammar.NewGrammar("G")
	g.Add("S", g.NewChoice(
		g.NewTree(g.NewByteChar('x'), g.NewTagging("X")),
		g.NewTree(g.NewByteChar('y'), g.NewTagging("Y"))))
	for _, strategy := range []gopeg.Strategy{generic, gopeg.DefaultStrategy} {
		res := parse(t, compile(t, g, strategy), "y")
		require.True(t, res.Matched)
		assert.Equal(t, "#Y['y']", res.Tree.String())
	}
}

func TestOrderedChoice(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.compiler")
	defer teardown()
	//
	// S <- { . #First } / { . #Second }
	g := grammar.NewGrammar("G")
	g.Add("S", g.NewChoice(
		g.NewTree(g.NewAnyChar(), g.NewTagging("First")),
		g.NewTree(g.NewAnyChar(), g.NewTagging("Second"))))
	for _, strategy := range []gopeg.Strategy{generic, gopeg.DefaultStrategy} {
		res := parse(t, compile(t, g, strategy), "a")
		require.True(t, res.Matched)
		assert.Equal(t, "#First['a']", res.Tree.String())
	}
}

func TestNegativeLookahead(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.compiler")
	defer teardown()
	//
	// S <- !'x' .
	g := grammar.NewGrammar("G")
	g.Add("S", g.NewSequence(g.NewNot(g.NewByteChar('x')), g.NewAnyChar()))
	for _, strategy := range []gopeg.Strategy{generic, gopeg.DefaultStrategy} {
		code := compile(t, g, strategy)
		res := parse(t, code, "x")
		require.False(t, res.Matched)
		assert.Equal(t, uint64(0), res.Failure.Position)
		assert.Equal(t, []string{"!'x'"}, res.Failure.Expected)
		res = parse(t, code, "y")
		assert.True(t, res.Matched)
	}
}

func TestLeftFold(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.compiler")
	defer teardown()
	//
	// S   <- Num {$left '+' $right(Num) #Add }*
	// Num <- { [0-9] #Num }
	g := grammar.NewGrammar("G")
	g.Add("S", g.NewSequence(
		g.NewNonTerminal("Num"),
		g.NewRepetition(g.NewFoldTree("left",
			g.NewByteChar('+'), g.NewLink("right", g.NewNonTerminal("Num")), g.NewTagging("Add")))))
	g.Add("Num", g.NewTree(g.MustCharSet("0-9"), g.NewTagging("Num")))
	expected := "#Add[$left=#Add[$left=#Num['1'] $right=#Num['2']] $right=#Num['3']]"
	for _, strategy := range []gopeg.Strategy{generic, gopeg.DefaultStrategy} {
		res := parse(t, compile(t, g, strategy), "1+2+3")
		require.True(t, res.Matched)
		assert.Equal(t, uint64(5), res.End)
		assert.Equal(t, expected, res.Tree.String())
		assert.Equal(t, gopeg.Span{0, 5}, res.Tree.Span)
		left, ok := res.Tree.Child("left")
		require.True(t, ok)
		assert.Equal(t, gopeg.Span{0, 3}, left.Span, "folded node starts with its left operand")
	}
}

func TestArithmeticTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.compiler")
	defer teardown()
	//
	code := compile(t, sample.Arithmetic(), gopeg.DefaultStrategy)
	res := parse(t, code, "1+2*3")
	require.True(t, res.Matched)
	assert.Equal(t, "#Add[$left=#Int['1'] $right=#Mul[$left=#Int['2'] $right=#Int['3']]]", res.Tree.String())
	res = parse(t, code, "(1 + 2) * 3")
	require.True(t, res.Matched)
	assert.Equal(t, "#Mul[$left=#Add[$left=#Int['1'] $right=#Int['2']] $right=#Int['3']]", res.Tree.String())
	assert.Greater(t, res.MemoMisses, 0)
	res = parse(t, code, "1+")
	require.False(t, res.Matched)
	assert.Equal(t, uint64(2), res.Failure.Position)
}

func TestJSONTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.compiler")
	defer teardown()
	//
	code := compile(t, sample.JSON(), gopeg.DefaultStrategy)
	res := parse(t, code, `{"a": [1, true]}`)
	require.True(t, res.Matched)
	assert.Equal(t, "#Object[#Member[#String['a'] #Array[#Number['1'] #True['true']]]]", res.Tree.String())
	res = parse(t, code, `{"a" 1}`)
	require.False(t, res.Matched)
	assert.Equal(t, uint64(5), res.Failure.Position)
	assert.Contains(t, res.Failure.Expected, "':'")
}

func TestKeywords(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.compiler")
	defer teardown()
	//
	code := compile(t, sample.Keywords(), gopeg.DefaultStrategy)
	res := parse(t, code, "while")
	require.True(t, res.Matched)
	assert.Equal(t, "#Keyword['while']", res.Tree.String())
	res = parse(t, code, "whiles")
	require.False(t, res.Matched)
	assert.Equal(t, uint64(5), res.Failure.Position)
	assert.Equal(t, []string{"![a-z]"}, res.Failure.Expected)
	res = parse(t, code, "rex")
	require.False(t, res.Matched)
	assert.Equal(t, uint64(2), res.Failure.Position)
	assert.Equal(t, []string{"'return'"}, res.Failure.Expected)
}

func TestNullableRepetition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.compiler")
	defer teardown()
	//
	// S <- ('a'?)* 'b'
	g := grammar.NewGrammar("G")
	g.Add("S", g.NewSequence(
		g.NewRepetition(g.NewOption(g.NewByteChar('a'))),
		g.NewByteChar('b')))
	_, err := Compile(g, gopeg.DefaultStrategy)
	require.Error(t, err)
	assert.True(t, errors.Is(err, grammar.ErrNullableRepetition))
	//
	for _, strategy := range []gopeg.Strategy{generic, gopeg.DefaultStrategy} {
		code := compile(t, g, strategy.With(gopeg.NullableLoops))
		res := parse(t, code, "aab")
		assert.True(t, res.Matched)
		assert.Equal(t, uint64(3), res.End)
	}
	// S <- ''*
	g = grammar.NewGrammar("G")
	g.Add("S", g.NewRepetition(g.NewEmpty()))
	code := compile(t, g, gopeg.DefaultStrategy.With(gopeg.NullableLoops))
	res := parse(t, code, "abc")
	assert.True(t, res.Matched)
	assert.Equal(t, uint64(0), res.End)
}

func TestSymbolScopes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.compiler")
	defer teardown()
	//
	code := compile(t, sample.TaggedBlocks(), gopeg.DefaultStrategy)
	res := parse(t, code, "<a>x<b>y</b></a>")
	require.True(t, res.Matched)
	assert.Equal(t,
		"#Doc[#Element[$name=#Name['a'] #Text['x'] #Element[$name=#Name['b'] #Text['y']]]]",
		res.Tree.String())
	res = parse(t, code, "<a><b></b></a>")
	assert.True(t, res.Matched, "inner tag has to be invisible after its block")
	res = parse(t, code, "<a>x</b>")
	require.False(t, res.Matched)
	assert.Equal(t, uint64(6), res.Failure.Position)
	assert.Equal(t, []string{"<match TAG>"}, res.Failure.Expected)
}

func TestLocalScopeAndExists(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.compiler")
	defer teardown()
	//
	// S    <- Decl (<exists T> 'y' / 'n') <local T (<exists T> 'y' / 'n')>
	// Decl <- <symbol T [a-z]+> ';'
	g := grammar.NewGrammar("G")
	test := g.NewChoice(
		g.NewSequence(g.NewExists("T", ""), g.NewByteChar('y')),
		g.NewByteChar('n'))
	g.Add("S", g.NewSequence(g.NewNonTerminal("Decl"), test, g.NewLocal("T", test)))
	g.Add("Decl", g.NewSequence(
		g.NewDefSymbol("T", g.NewRepetition1(g.MustCharSet("a-z"))),
		g.NewByteChar(';')))
	for _, strategy := range []gopeg.Strategy{generic, gopeg.DefaultStrategy} {
		code := compile(t, g, strategy)
		res := parse(t, code, "ab;yn")
		assert.True(t, res.Matched)
		res = parse(t, code, "ab;yy")
		require.False(t, res.Matched)
		assert.Equal(t, uint64(4), res.Failure.Position)
		assert.Contains(t, res.Failure.Expected, "<exists T>")
	}
	// <exists T 'ab'>
	g.Add("S", g.NewSequence(g.NewNonTerminal("Decl"), g.NewExists("T", "ab")))
	code := compile(t, g, gopeg.DefaultStrategy)
	assert.True(t, parse(t, code, "ab;").Matched)
	assert.False(t, parse(t, code, "ac;").Matched)
}

func TestLocalBindingEndsWithScope(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.compiler")
	defer teardown()
	//
	// Outside <- <local T <symbol T [a-z]>> <exists T>
	// Inside  <- <local T <symbol T [a-z]> <exists T>>
	g := grammar.NewGrammar("G")
	def := g.NewDefSymbol("T", g.MustCharSet("a-z"))
	g.Add("Outside", g.NewSequence(g.NewLocal("T", def), g.NewExists("T", "")))
	g.Add("Inside", g.NewLocal("T", g.NewSequence(def, g.NewExists("T", ""))))
	for _, strategy := range []gopeg.Strategy{generic, gopeg.DefaultStrategy} {
		code := compile(t, g, strategy, StartProduction("Outside"))
		res := parse(t, code, "a")
		require.False(t, res.Matched, "binding must not survive its local scope")
		assert.Equal(t, uint64(1), res.Failure.Position)
		assert.Contains(t, res.Failure.Expected, "<exists T>")
		code = compile(t, g, strategy, StartProduction("Inside"))
		res = parse(t, code, "a")
		assert.True(t, res.Matched)
		assert.Equal(t, uint64(1), res.End)
	}
}

func TestSymbolPredicates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.compiler")
	defer teardown()
	//
	// S <- <symbol T [a-z]> <symbol T [a-z]> ' ' <is T [a-z]>
	g := grammar.NewGrammar("G")
	def := g.NewDefSymbol("T", g.MustCharSet("a-z"))
	g.Add("S", g.NewSequence(def, def, g.NewByteChar(' '), g.NewIsSymbol("T", g.MustCharSet("a-z"))))
	code := compile(t, g, gopeg.DefaultStrategy)
	assert.True(t, parse(t, code, "ab b").Matched)
	res := parse(t, code, "ab a")
	require.False(t, res.Matched, "only the most recent binding is tested by <is>")
	assert.Equal(t, uint64(3), res.Failure.Position)
	//
	// S <- <symbol T [a-z]> <symbol T [a-z]> ' ' <isa T [a-z]>
	g.Add("S", g.NewSequence(def, def, g.NewByteChar(' '), g.NewIsaSymbol("T", g.MustCharSet("a-z"))))
	code = compile(t, g, gopeg.DefaultStrategy)
	assert.True(t, parse(t, code, "ab a").Matched)
	assert.False(t, parse(t, code, "ab c").Matched)
}

func TestFlags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.compiler")
	defer teardown()
	//
	// S <- A <on F A>
	// A <- <if F> 'x' / 'y'
	g := grammar.NewGrammar("G")
	g.Add("S", g.NewSequence(g.NewNonTerminal("A"), g.NewXon("F", true, g.NewNonTerminal("A"))))
	g.Add("A", g.NewChoice(
		g.NewSequence(g.NewIfFlag("F", true), g.NewByteChar('x')),
		g.NewByteChar('y')))
	code := compile(t, g, gopeg.DefaultStrategy)
	assert.True(t, parse(t, code, "yx").Matched)
	assert.False(t, parse(t, code, "xx").Matched)
	code = compile(t, g, gopeg.DefaultStrategy, Flags("F"))
	assert.True(t, parse(t, code, "xx").Matched)
	assert.Equal(t, "S&F", code.StartProduction())
	code = compile(t, g, gopeg.DefaultStrategy, Flags("F", "Unused", "F"))
	assert.Equal(t, "S&F", code.StartProduction(), "repeated flags name the same copy")
}

func TestStartProduction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.compiler")
	defer teardown()
	//
	code := compile(t, sample.JSON(), gopeg.DefaultStrategy, StartProduction("Number"))
	res := parse(t, code, "-12.5e3")
	require.True(t, res.Matched)
	assert.Equal(t, "#Number['-12.5e3']", res.Tree.String())
	//
	_, err := Compile(sample.JSON(), gopeg.DefaultStrategy, StartProduction("Nope"))
	assert.True(t, errors.Is(err, grammar.ErrNoStartProduction))
}

func TestNestedGrammars(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.compiler")
	defer teardown()
	//
	// S <- Item (',' Item)*, with Item public in nested grammar "list"
	g := grammar.NewGrammar("G")
	g.Add("S", g.NewSequence(g.NewNonTerminal("Item"),
		g.NewRepetition(g.NewByteChar(','), g.NewNonTerminal("Item"))))
	list := g.NewChild("list")
	_, err := list.AddPublic("Item", list.NewSequence(list.NewNonTerminal("Letter"), list.NewNonTerminal("Letter")))
	require.NoError(t, err)
	list.Add("Letter", list.MustCharSet("a-z"))
	code := compile(t, g, gopeg.DefaultStrategy)
	res := parse(t, code, "ab,cd")
	assert.True(t, res.Matched)
	assert.Equal(t, uint64(5), res.End)
}
