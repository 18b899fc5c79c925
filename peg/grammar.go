/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package peg

import (
	"errors"
	"fmt"
	"strings"
)

// Grammar compilation errors.
var (
	ErrNoRules       = errors.New("grammar has no rules")
	ErrDuplicateRule = errors.New("duplicate rule")
	ErrUndefinedRule = errors.New("undefined rule")
)

// ParseError reports where and why a parse failed. Pos is a byte offset into
// the parsed text; Line and Column are 1-based.
type ParseError struct {
	Pos      int
	Line     int
	Column   int
	Rule     string
	Expected string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse error at line %d, column %d", e.Line, e.Column)
	if e.Rule != "" {
		msg += fmt.Sprintf(" (rule %q)", e.Rule)
	}
	if e.Expected != "" {
		msg += ": expected " + e.Expected
	}
	return msg
}

// Grammar is a compiled set of named rules. The first rule in the source is
// the default rule. A Grammar is read-only after compilation and safe for
// concurrent use.
type Grammar struct {
	rules map[string]expression
	first string
}

// Compile compiles a textual rule set, one `name = expression` rule per line.
// Blank lines and lines starting with '#' are skipped. Every referenced rule
// must be defined.
func Compile(text string) (*Grammar, error) {
	g := &Grammar{rules: map[string]expression{}}

	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		name, expr, err := parseRule(trimmed)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if _, ok := g.rules[name]; ok {
			return nil, fmt.Errorf("line %d: %w: %q", i+1, ErrDuplicateRule, name)
		}
		g.rules[name] = expr
		if g.first == "" {
			g.first = name
		}
	}

	if len(g.rules) == 0 {
		return nil, ErrNoRules
	}

	refs := map[string]struct{}{}
	for _, expr := range g.rules {
		refsOf(expr, refs)
	}
	for name := range refs {
		if _, ok := g.rules[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUndefinedRule, name)
		}
	}

	return g, nil
}

// DefaultRule returns the name of the first rule in the source.
func (g *Grammar) DefaultRule() string {
	return g.first
}

// Parse parses `text` with the default rule. The whole input must be
// consumed; anything less is a ParseError.
func (g *Grammar) Parse(text string) (*Node, error) {
	return g.ParseRule(g.first, text)
}

// ParseRule parses `text` with the named rule, requiring full consumption.
func (g *Grammar) ParseRule(name, text string) (*Node, error) {
	if _, ok := g.rules[name]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUndefinedRule, name)
	}

	st := &state{text: text, grammar: g}
	n := g.matchRule(st, name, 0)
	if n == nil {
		return nil, st.parseError()
	}
	if n.End != len(text) {
		if st.maxFail < n.End {
			st.fail(n.End, "end of input")
		}
		return nil, st.parseError()
	}
	return n, nil
}

// matchRule matches the named rule at `pos`, labeling the resulting node with
// the rule name.
func (g *Grammar) matchRule(st *state, name string, pos int) *Node {
	expr, ok := g.rules[name]
	if !ok {
		return nil
	}
	st.ruleStack = append(st.ruleStack, name)
	n := expr.match(st, pos)
	st.ruleStack = st.ruleStack[:len(st.ruleStack)-1]
	if n == nil {
		return nil
	}
	return &Node{Name: name, Start: n.Start, End: n.End, Text: n.Text, Children: []*Node{n}}
}

// parseError converts the recorded furthest failure into a ParseError.
func (st *state) parseError() *ParseError {
	line := 1 + strings.Count(st.text[:st.maxFail], "\n")
	column := st.maxFail - strings.LastIndex(st.text[:st.maxFail], "\n")
	return &ParseError{
		Pos:      st.maxFail,
		Line:     line,
		Column:   column,
		Rule:     st.maxFailRule,
		Expected: st.maxFailExpected,
	}
}
