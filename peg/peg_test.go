/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package peg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collect returns the named nodes of a tree in depth-first order.
func collect(n *Node, out *[]*Node) {
	if n.Name != "" {
		*out = append(*out, n)
	}
	for _, child := range n.Children {
		collect(child, out)
	}
}

func named(tree *Node) []*Node {
	var out []*Node
	collect(tree, &out)
	return out
}

func TestCompileAndParse(t *testing.T) {
	g, err := Compile(`
greeting = word space word
word = letter+
space = " "
letter = ~r"[a-z]"
`)
	require.NoError(t, err)
	assert.Equal(t, "greeting", g.DefaultRule())

	tree, err := g.Parse("hello world")
	require.NoError(t, err)
	assert.Equal(t, "greeting", tree.Name)
	assert.Equal(t, "hello world", tree.Text)

	var words []string
	for _, n := range named(tree) {
		if n.Name == "word" {
			words = append(words, n.Text)
		}
	}
	assert.Equal(t, []string{"hello", "world"}, words)
}

func TestChoiceIsOrdered(t *testing.T) {
	g, err := Compile(`
value = long / short
long = "aaa"
short = "aa"
`)
	require.NoError(t, err)

	tree, err := g.Parse("aaa")
	require.NoError(t, err)
	nodes := named(tree)
	require.Len(t, nodes, 2)
	assert.Equal(t, "long", nodes[1].Name)

	_, err = g.Parse("aa")
	require.NoError(t, err)
}

func TestQuantifiers(t *testing.T) {
	g, err := Compile(`
row = cell ("," cell)* ","?
cell = ~r"[0-9]"+
`)
	require.NoError(t, err)

	tree, err := g.Parse("1,22,333,")
	require.NoError(t, err)

	var cells []string
	for _, n := range named(tree) {
		if n.Name == "cell" {
			cells = append(cells, n.Text)
		}
	}
	assert.Equal(t, []string{"1", "22", "333"}, cells)
}

func TestNegativeLookahead(t *testing.T) {
	g, err := Compile(`
line = !marker text
marker = "+"
text = ~r"[a-z+]+"
`)
	require.NoError(t, err)

	_, err = g.Parse("abc+def")
	require.NoError(t, err)

	_, err = g.Parse("+abc")
	require.Error(t, err)
}

func TestLiteralEscapes(t *testing.T) {
	g, err := Compile(`
lines = word newline word newline
word = ~r"[a-z]+"
newline = "\n"
`)
	require.NoError(t, err)

	_, err = g.Parse("ab\ncd\n")
	require.NoError(t, err)
}

func TestParseErrorPosition(t *testing.T) {
	g, err := Compile(`
pair = key "=" value
key = ~r"[a-z]+"
value = ~r"[0-9]+"
`)
	require.NoError(t, err)

	_, err = g.Parse("abc=xyz")
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 4, parseErr.Pos)
	assert.Equal(t, 1, parseErr.Line)
	assert.Equal(t, 5, parseErr.Column)
	assert.Equal(t, "value", parseErr.Rule)
}

func TestIncompleteParse(t *testing.T) {
	g, err := Compile(`word = ~r"[a-z]+"`)
	require.NoError(t, err)

	_, err = g.Parse("abc123")
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 3, parseErr.Pos)
}

func TestUndefinedRule(t *testing.T) {
	_, err := Compile(`a = b`)
	assert.ErrorIs(t, err, ErrUndefinedRule)
}

func TestDuplicateRule(t *testing.T) {
	_, err := Compile("a = \"x\"\na = \"y\"")
	assert.ErrorIs(t, err, ErrDuplicateRule)
}

func TestCommentsAndBlankLines(t *testing.T) {
	g, err := Compile(`
# A comment.

word = ~r"[a-z]+"
`)
	require.NoError(t, err)
	_, err = g.Parse("abc")
	require.NoError(t, err)
}
