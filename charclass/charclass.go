package charclass

import (
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/npillmayer/gopeg/byteset"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Token types of char-class text.
const (
	tokChar int = iota + 1
	tokEscape
	tokHex
	tokDash
)

var lexer *lexmachine.Lexer
var lexerErr error
var initOnce sync.Once // monitors one-time initialization

func initLexer() {
	initOnce.Do(func() {
		lexer = lexmachine.NewLexer()
		lexer.Add([]byte(`\\x[0-9a-fA-F][0-9a-fA-F]`), makeToken(tokHex))
		lexer.Add([]byte(`\\[^x]`), makeToken(tokEscape))
		lexer.Add([]byte(`\-`), makeToken(tokDash))
		lexer.Add([]byte(`[^\\\-]`), makeToken(tokChar))
		if lexerErr = lexer.Compile(); lexerErr != nil {
			tracer().Errorf("error compiling char-class DFA: %v", lexerErr)
		}
	})
}

func makeToken(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, m.Bytes, m), nil
	}
}

// item is a single scanned element of a class: either a byte or a dash.
type item struct {
	dash bool
	c    byte
}

// Parse reads char-class text and returns the set of bytes it denotes.
func Parse(text string) (byteset.Set, error) {
	var set byteset.Set
	items, err := scan(text)
	if err != nil {
		return set, err
	}
	for i := 0; i < len(items); i++ {
		it := items[i]
		if i+2 < len(items) && items[i+1].dash && !items[i+2].dash && !it.dash {
			lo, hi := it.c, items[i+2].c
			if hi < lo {
				return set, errors.Newf("invalid range %s-%s in character class %q",
					byteset.Quote(lo), byteset.Quote(hi), text)
			}
			set.AddRange(lo, hi)
			i += 2
			continue
		}
		if it.dash {
			set.Add('-')
		} else {
			set.Add(it.c)
		}
	}
	tracer().Debugf("char class %q = %s", text, set)
	return set, nil
}

// MustParse is like Parse, but panics on invalid input. Intended for
// initializing grammars from constant text.
func MustParse(text string) byteset.Set {
	set, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return set
}

func scan(text string) ([]item, error) {
	if text == "" {
		return nil, nil
	}
	initLexer()
	if lexerErr != nil {
		return nil, errors.Wrap(lexerErr, "char-class lexer")
	}
	scanner, err := lexer.Scanner([]byte(text))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot scan character class %q", text)
	}
	var items []item
	for tok, err, eof := scanner.Next(); !eof; tok, err, eof = scanner.Next() {
		if err != nil {
			return nil, errors.Wrapf(err, "malformed character class %q", text)
		}
		token := tok.(*lexmachine.Token)
		lexeme := token.Lexeme
		switch token.Type {
		case tokChar:
			items = append(items, item{c: lexeme[0]})
		case tokDash:
			items = append(items, item{dash: true})
		case tokHex:
			n, err := strconv.ParseUint(string(lexeme[2:]), 16, 8)
			if err != nil {
				return nil, errors.Wrapf(err, "malformed hex escape in %q", text)
			}
			items = append(items, item{c: byte(n)})
		case tokEscape:
			items = append(items, item{c: unescape(lexeme[1])})
		}
	}
	return items, nil
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'f':
		return '\f'
	case 'v':
		return '\v'
	case '0':
		return 0
	}
	return c
}
