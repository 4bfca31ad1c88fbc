/*
Package sample provides a few grammars, built with the construction
interface of package grammar. They serve as examples, as test material, and
as the grammars offered by the interactive shell.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sample

import (
	"github.com/npillmayer/gopeg/expr"
	"github.com/npillmayer/gopeg/grammar"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var catalog = map[string]func() *grammar.Grammar{
	"digits":     Digits,
	"arithmetic": Arithmetic,
	"keywords":   Keywords,
	"json":       JSON,
	"tags":       TaggedBlocks,
}

// Names returns the names of all sample grammars, sorted.
func Names() []string {
	names := maps.Keys(catalog)
	slices.Sort(names)
	return names
}

// Grammar creates the sample grammar called name.
func Grammar(name string) (*grammar.Grammar, bool) {
	create, ok := catalog[name]
	if !ok {
		return nil, false
	}
	return create(), true
}

// Digits is the smallest grammar of all:
//
//     Digits <- Digit+
//     Digit  <- [0-9]
//
func Digits() *grammar.Grammar {
	g := grammar.NewGrammar("digits")
	g.Add("Digits", g.NewRepetition1(g.NewNonTerminal("Digit")))
	g.Add("Digit", g.MustCharSet("0-9"))
	return g
}

// Arithmetic parses expressions of integers, operators + - * / and
// parentheses. Operators are left associative, built with left folds:
//
//     Expr    <- Spacing Sum !.
//     Sum     <- Product {$left ('+' #Add / '-' #Sub) Spacing $right(Product) }*
//     Product <- Value {$left ('*' #Mul / '/' #Div) Spacing $right(Value) }*
//     Value   <- { [0-9]+ #Int } Spacing / '(' Spacing Sum ')' Spacing
//     Spacing <- [ \t]*
//
func Arithmetic() *grammar.Grammar {
	g := grammar.NewGrammar("arithmetic")
	sp := g.NewNonTerminal("Spacing")
	g.Add("Expr", g.NewSequence(sp, g.NewNonTerminal("Sum"), g.NewNot(g.NewAnyChar())))
	g.Add("Sum", binary(g, "Product", '+', "Add", '-', "Sub"))
	g.Add("Product", binary(g, "Value", '*', "Mul", '/', "Div"))
	g.Add("Value", g.NewChoice(
		g.NewSequence(g.NewTree(g.NewRepetition1(g.MustCharSet("0-9")), g.NewTagging("Int")), sp),
		g.NewSequence(g.NewByteChar('('), sp, g.NewNonTerminal("Sum"), g.NewByteChar(')'), sp),
	))
	g.Add("Spacing", g.NewRepetition(g.MustCharSet(` \t`)))
	return g
}

func binary(g *grammar.Grammar, operand string, op1 byte, tag1 string, op2 byte, tag2 string) expr.Expression {
	ops := g.NewChoice(
		g.NewSequence(g.NewByteChar(op1), g.NewTagging(tag1)),
		g.NewSequence(g.NewByteChar(op2), g.NewTagging(tag2)),
	)
	return g.NewSequence(
		g.NewNonTerminal(operand),
		g.NewRepetition(g.NewFoldTree("left",
			ops, g.NewNonTerminal("Spacing"),
			g.NewLink("right", g.NewNonTerminal(operand)))),
	)
}

// Keywords recognizes a statement keyword. The keywords start with distinct
// letters, which allows dispatching on the first letter:
//
//     Keyword <- { ('break' / 'continue' / 'do' / 'while' / 'return') #Keyword } ![a-z]
//
func Keywords() *grammar.Grammar {
	g := grammar.NewGrammar("keywords")
	g.Add("Keyword", g.NewSequence(
		g.NewTree(g.NewChoice(
			g.NewString("break"),
			g.NewString("continue"),
			g.NewString("do"),
			g.NewString("while"),
			g.NewString("return"),
		), g.NewTagging("Keyword")),
		g.NewNot(g.MustCharSet("a-z")),
	))
	return g
}

// JSON parses JSON documents into trees with tags Object, Member, Array,
// String, Number, True, False and Null.
//
//     Document <- Spacing Value Spacing !.
//     Value    <- Object / Array / String / Number / True / False / Null
//     Object   <- { '{' Spacing ($(Member) (Spacing ',' Spacing $(Member))*)? Spacing '}' #Object }
//     Member   <- { $(String) Spacing ':' Spacing $(Value) #Member }
//     Array    <- { '[' Spacing ($(Value) (Spacing ',' Spacing $(Value))*)? Spacing ']' #Array }
//     String   <- '"' { ('\\' . / !'"' .)* #String } '"'
//     Number   <- { '-'? [0-9]+ ('.' [0-9]+)? ([eE] [+\-]? [0-9]+)? #Number }
//     True     <- { 'true' #True }
//     False    <- { 'false' #False }
//     Null     <- { 'null' #Null }
//     Spacing  <- [ \t\r\n]*
//
func JSON() *grammar.Grammar {
	g := grammar.NewGrammar("json")
	sp := g.NewNonTerminal("Spacing")
	nt := g.NewNonTerminal
	list := func(item string, open, close byte) expr.Expression {
		return g.NewSequence(
			g.NewByteChar(open), sp,
			g.NewOption(g.NewLink("", nt(item)),
				g.NewRepetition(sp, g.NewByteChar(','), sp, g.NewLink("", nt(item)))),
			sp, g.NewByteChar(close),
		)
	}
	digits := g.NewRepetition1(g.MustCharSet("0-9"))
	g.Add("Document", g.NewSequence(sp, nt("Value"), sp, g.NewNot(g.NewAnyChar())))
	g.Add("Value", g.NewChoice(nt("Object"), nt("Array"), nt("String"), nt("Number"),
		nt("True"), nt("False"), nt("Null")))
	g.Add("Object", g.NewTree(list("Member", '{', '}'), g.NewTagging("Object")))
	g.Add("Member", g.NewTree(
		g.NewLink("", nt("String")), sp, g.NewByteChar(':'), sp, g.NewLink("", nt("Value")),
		g.NewTagging("Member")))
	g.Add("Array", g.NewTree(list("Value", '[', ']'), g.NewTagging("Array")))
	g.Add("String", g.NewSequence(
		g.NewByteChar('"'),
		g.NewTree(g.NewRepetition(g.NewChoice(
			g.NewSequence(g.NewByteChar('\\'), g.NewAnyChar()),
			g.NewSequence(g.NewNot(g.NewByteChar('"')), g.NewAnyChar()),
		)), g.NewTagging("String")),
		g.NewByteChar('"'),
	))
	g.Add("Number", g.NewTree(
		g.NewOption(g.NewByteChar('-')), digits,
		g.NewOption(g.NewByteChar('.'), digits),
		g.NewOption(g.MustCharSet("eE"), g.NewOption(g.MustCharSet(`+\-`)), digits),
		g.NewTagging("Number")))
	g.Add("True", g.NewTree(g.NewString("true"), g.NewTagging("True")))
	g.Add("False", g.NewTree(g.NewString("false"), g.NewTagging("False")))
	g.Add("Null", g.NewTree(g.NewString("null"), g.NewTagging("Null")))
	g.Add("Spacing", g.NewRepetition(g.MustCharSet(` \t\r\n`)))
	return g
}

// TaggedBlocks parses nested tagged blocks, where every end tag has to
// repeat the name of its start tag. Block scopes make an inner start tag
// invisible after its block ends.
//
//     Doc     <- { ($(Element) / $(Text))* #Doc } !.
//     Element <- <block { '<' <symbol TAG $name({ [a-z]+ #Name })> '>'
//                         ($(Element) / $(Text))*
//                         '</' <match TAG> '>' #Element }>
//     Text    <- { (!'<' .)+ #Text }
//
func TaggedBlocks() *grammar.Grammar {
	g := grammar.NewGrammar("tags")
	content := g.NewRepetition(g.NewChoice(
		g.NewLink("", g.NewNonTerminal("Element")),
		g.NewLink("", g.NewNonTerminal("Text")),
	))
	g.Add("Doc", g.NewSequence(g.NewTree(content, g.NewTagging("Doc")), g.NewNot(g.NewAnyChar())))
	g.Add("Element", g.NewBlock(g.NewTree(
		g.NewByteChar('<'),
		g.NewDefSymbol("TAG", g.NewLink("name",
			g.NewTree(g.NewRepetition1(g.MustCharSet("a-z")), g.NewTagging("Name")))),
		g.NewByteChar('>'),
		content,
		g.NewString("</"), g.NewMatchSymbol("TAG"), g.NewByteChar('>'),
		g.NewTagging("Element"),
	)))
	g.Add("Text", g.NewTree(
		g.NewRepetition1(g.NewNot(g.NewByteChar('<')), g.NewAnyChar()),
		g.NewTagging("Text")))
	return g
}
