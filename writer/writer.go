package writer

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/npillmayer/gopeg/ast"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ErrUnknownFormat is returned for lookups of formats no writer is
// registered for.
var ErrUnknownFormat = errors.New("unknown output format")

// Writer writes a parse tree to an output stream.
type Writer interface {
	Write(w io.Writer, root *ast.Node) error
}

// WriterFunc adapts a function to the Writer interface.
type WriterFunc func(io.Writer, *ast.Node) error

// Write calls f(w, root).
func (f WriterFunc) Write(w io.Writer, root *ast.Node) error {
	return f(w, root)
}

// Registry maps format names to writers. A registry is not safe for
// concurrent modification, but may be read concurrently once set up.
type Registry struct {
	writers  map[string]Writer
	selected string
}

// Option configures a new registry.
type Option func(*Registry)

// With registers an additional writer.
func With(format string, w Writer) Option {
	return func(r *Registry) {
		r.Register(format, w)
	}
}

// Selecting makes format the current format of a registry.
func Selecting(format string) Option {
	return func(r *Registry) {
		if _, ok := r.writers[format]; ok {
			r.selected = format
		}
	}
}

// NewRegistry creates a registry holding the standard writers, with
// "compact" as the current format.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		writers: map[string]Writer{
			"compact": WriterFunc(Compact),
			"json":    WriterFunc(JSON),
			"sexpr":   WriterFunc(SExpr),
			"tree":    WriterFunc(Pretty),
		},
		selected: "compact",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a writer for a format, replacing any previous one.
// A nil writer removes the format.
func (r *Registry) Register(format string, w Writer) {
	if w == nil {
		delete(r.writers, format)
		if r.selected == format {
			r.selected = ""
		}
		return
	}
	tracer().Debugf("registering writer for format %q", format)
	r.writers[format] = w
}

// Lookup finds the writer for a format.
func (r *Registry) Lookup(format string) (Writer, error) {
	if w, ok := r.writers[format]; ok {
		return w, nil
	}
	return nil, errors.Wrapf(ErrUnknownFormat, "format %q", format)
}

// Formats returns the names of all registered formats, sorted.
func (r *Registry) Formats() []string {
	names := maps.Keys(r.writers)
	slices.Sort(names)
	return names
}

// Selected returns the current format.
func (r *Registry) Selected() string {
	return r.selected
}

// Select makes format the current format.
func (r *Registry) Select(format string) error {
	if _, err := r.Lookup(format); err != nil {
		return err
	}
	r.selected = format
	return nil
}

// Write outputs a tree in the current format.
func (r *Registry) Write(w io.Writer, root *ast.Node) error {
	return r.WriteAs(r.selected, w, root)
}

// WriteAs outputs a tree in a given format.
func (r *Registry) WriteAs(format string, w io.Writer, root *ast.Node) error {
	wr, err := r.Lookup(format)
	if err != nil {
		return err
	}
	if root == nil {
		return errors.New("no tree to write")
	}
	return wr.Write(w, root)
}
