package grammar

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Errors which may be reported for a grammar. They are wrapped into
// GrammarErrors and may be tested for with errors.Is.
var (
	ErrUndefinedNonTerminal = errors.New("undefined non-terminal")
	ErrDuplicatePublic      = errors.New("duplicate public production")
	ErrLeftRecursion        = errors.New("left recursion")
	ErrNullableRepetition   = errors.New("repetition of an expression which may match the empty string")
	ErrNoStartProduction    = errors.New("no start production")
	ErrEmptyGrammar         = errors.New("grammar has no productions")
)

// GrammarError is an error found in a grammar, either during construction
// or by static analysis.
type GrammarError struct {
	Kind       error  // one of the Err… sentinels
	Production string // production the error has been found in, if any
	Detail     string
}

func grammarError(kind error, prod string, format string, args ...interface{}) *GrammarError {
	return &GrammarError{
		Kind:       kind,
		Production: prod,
		Detail:     fmt.Sprintf(format, args...),
	}
}

func (e *GrammarError) Error() string {
	var b strings.Builder
	if e.Production != "" {
		b.WriteString(e.Production)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

// Unwrap returns the sentinel error of e.
func (e *GrammarError) Unwrap() error {
	return e.Kind
}

// ErrorList collects the errors found for a grammar. errors.Is and errors.As
// look through all of them.
type ErrorList []error

func (el ErrorList) Error() string {
	switch len(el) {
	case 0:
		return "no errors"
	case 1:
		return el[0].Error()
	}
	msgs := make([]string, len(el))
	for i, e := range el {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d errors: %s", len(el), strings.Join(msgs, "; "))
}

// Unwrap returns the errors of the list.
func (el ErrorList) Unwrap() []error {
	return el
}

// Err returns nil for an empty list, and the list otherwise.
func (el ErrorList) Err() error {
	if len(el) == 0 {
		return nil
	}
	return el
}

func (el *ErrorList) add(err error) {
	if err == nil {
		return
	}
	if list, ok := err.(ErrorList); ok {
		*el = append(*el, list...)
		return
	}
	*el = append(*el, err)
}
