package writer

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/buger/jsonparser"
	"github.com/cockroachdb/errors"
	"github.com/npillmayer/gopeg"
	"github.com/npillmayer/gopeg/ast"
	"github.com/npillmayer/gopeg/compiler"
	"github.com/npillmayer/gopeg/sample"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sum builds the tree for "1+2".
func sum() *ast.Node {
	src := []byte("1+2")
	add := ast.NewNode("Add", gopeg.Span{0, 3}, src)
	add.Link("left", ast.NewNode("Int", gopeg.Span{0, 1}, src))
	add.Link("right", ast.NewNode("Int", gopeg.Span{2, 3}, src))
	return add
}

func TestRegistry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.writer")
	defer teardown()
	//
	r := NewRegistry()
	assert.Equal(t, []string{"compact", "json", "sexpr", "tree"}, r.Formats())
	assert.Equal(t, "compact", r.Selected())
	_, err := r.Lookup("yaml")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
	assert.Error(t, r.Select("yaml"))
	assert.Equal(t, "compact", r.Selected())
}

func TestRegistryOptions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.writer")
	defer teardown()
	//
	tagOnly := WriterFunc(func(w io.Writer, n *ast.Node) error {
		_, err := io.WriteString(w, n.Tag)
		return err
	})
	r := NewRegistry(With("tag", tagOnly), Selecting("tag"))
	assert.Equal(t, "tag", r.Selected())
	var b strings.Builder
	require.NoError(t, r.Write(&b, sum()))
	assert.Equal(t, "Add", b.String())
	//
	r.Register("tag", nil)
	assert.Equal(t, "", r.Selected())
	assert.NotContains(t, r.Formats(), "tag")
	assert.Error(t, r.Write(&b, sum()))
	assert.Error(t, r.WriteAs("json", &b, nil))
}

func TestCompact(t *testing.T) {
	var b strings.Builder
	require.NoError(t, NewRegistry().Write(&b, sum()))
	assert.Equal(t, "#Add[$left=#Int['1'] $right=#Int['2']]\n", b.String())
}

func TestJSON(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.writer")
	defer teardown()
	//
	var b bytes.Buffer
	require.NoError(t, NewRegistry().WriteAs("json", &b, sum()))
	data := b.Bytes()
	tag, err := jsonparser.GetString(data, "tag")
	require.NoError(t, err)
	assert.Equal(t, "Add", tag)
	to, err := jsonparser.GetInt(data, "to")
	require.NoError(t, err)
	assert.Equal(t, int64(3), to)
	_, _, _, err = jsonparser.Get(data, "text")
	assert.Equal(t, jsonparser.KeyPathNotFoundError, err, "inner nodes have no text")
	//
	var labels, texts []string
	_, err = jsonparser.ArrayEach(data, func(child []byte, _ jsonparser.ValueType, _ int, _ error) {
		label, _ := jsonparser.GetString(child, "label")
		text, _ := jsonparser.GetString(child, "text")
		labels = append(labels, label)
		texts = append(texts, text)
	}, "children")
	require.NoError(t, err)
	assert.Equal(t, []string{"left", "right"}, labels)
	assert.Equal(t, []string{"1", "2"}, texts)
	from, err := jsonparser.GetInt(data, "children", "[1]", "from")
	require.NoError(t, err)
	assert.Equal(t, int64(2), from)
}

func TestJSONEscapes(t *testing.T) {
	src := []byte(`"<a>"`)
	var b bytes.Buffer
	require.NoError(t, JSON(&b, ast.NewNode("Str", gopeg.Span{0, 5}, src)))
	text, err := jsonparser.GetString(b.Bytes(), "text")
	require.NoError(t, err)
	assert.Equal(t, `"<a>"`, text)
	assert.Contains(t, b.String(), "<a>", "no HTML escaping")
}

func TestSExpr(t *testing.T) {
	var b strings.Builder
	require.NoError(t, SExpr(&b, sum()))
	assert.Equal(t, `(Add :left (Int "1") :right (Int "2"))`+"\n", b.String())
	b.Reset()
	require.NoError(t, SExpr(&b, ast.NewNode("", gopeg.Span{0, 2}, []byte("ab"))))
	assert.Equal(t, `(_ "ab")`+"\n", b.String())
}

func TestPretty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.writer")
	defer teardown()
	//
	ll := leveledList(sum())
	require.Len(t, ll, 3)
	assert.Equal(t, 0, ll[0].Level)
	assert.Equal(t, "#Add (0…3)", ll[0].Text)
	assert.Equal(t, 1, ll[2].Level)
	assert.Equal(t, `$right=#Int (2…3) "2"`, ll[2].Text)
	var b strings.Builder
	require.NoError(t, Pretty(&b, sum()))
	out := b.String()
	assert.Contains(t, out, `$left=#Int (0…1) "1"`)
	assert.Contains(t, out, `$right=#Int (2…3) "2"`)
}

func TestWriteParsedTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gopeg.writer")
	defer teardown()
	//
	code, err := compiler.Compile(sample.Arithmetic(), gopeg.DefaultStrategy)
	require.NoError(t, err)
	res, err := code.ParseString("1+2*3")
	require.NoError(t, err)
	require.True(t, res.Matched)
	r := NewRegistry()
	for _, format := range r.Formats() {
		var b strings.Builder
		if err := r.WriteAs(format, &b, res.Tree); err != nil {
			t.Errorf("format %s: %v", format, err)
		}
		assert.Contains(t, b.String(), "Mul", format)
	}
	var b strings.Builder
	require.NoError(t, r.WriteAs("sexpr", &b, res.Tree))
	assert.Equal(t, `(Add :left (Int "1") :right (Mul :left (Int "2") :right (Int "3")))`+"\n", b.String())
}
