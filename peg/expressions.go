/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package peg

import (
	"fmt"
	"regexp"
	"strings"
)

// expression is one node of a compiled rule. match returns the parse tree for
// the prefix of text[pos:] the expression accepts under PEG semantics (first
// matching alternative of a choice, greedy repetition without backtracking),
// or nil if the expression does not match at `pos`.
type expression interface {
	match(st *state, pos int) *Node
}

// state carries the input and the furthest failure seen, for error reporting.
type state struct {
	text    string
	grammar *Grammar

	ruleStack []string

	maxFail         int
	maxFailExpected string
	maxFailRule     string
}

// fail records a mismatch. Only the furthest position is kept: it is the most
// useful one to report when the parse ultimately fails.
func (st *state) fail(pos int, expected string) {
	if pos < st.maxFail {
		return
	}
	if pos > st.maxFail || st.maxFailExpected == "" {
		st.maxFail = pos
		st.maxFailExpected = expected
		if n := len(st.ruleStack); n > 0 {
			st.maxFailRule = st.ruleStack[n-1]
		} else {
			st.maxFailRule = ""
		}
	}
}

// literal matches an exact string.
type literal struct {
	value string
}

func (l *literal) match(st *state, pos int) *Node {
	if !strings.HasPrefix(st.text[pos:], l.value) {
		st.fail(pos, fmt.Sprintf("%q", l.value))
		return nil
	}
	end := pos + len(l.value)
	return &Node{Start: pos, End: end, Text: st.text[pos:end]}
}

// pattern matches a regular expression anchored at the current position.
type pattern struct {
	source string
	re     *regexp.Regexp
}

func newPattern(source string) (*pattern, error) {
	re, err := regexp.Compile("^(?:" + source + ")")
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", source, err)
	}
	return &pattern{source: source, re: re}, nil
}

func (p *pattern) match(st *state, pos int) *Node {
	loc := p.re.FindStringIndex(st.text[pos:])
	if loc == nil {
		st.fail(pos, "~r\""+p.source+"\"")
		return nil
	}
	end := pos + loc[1]
	return &Node{Start: pos, End: end, Text: st.text[pos:end]}
}

// ref matches the rule it names. Resolution happens at match time, so rules
// may reference rules defined later in the file.
type ref struct {
	name string
}

func (r *ref) match(st *state, pos int) *Node {
	return st.grammar.matchRule(st, r.name, pos)
}

// sequence matches all of its members in order.
type sequence struct {
	members []expression
}

func (s *sequence) match(st *state, pos int) *Node {
	children := make([]*Node, 0, len(s.members))
	end := pos
	for _, member := range s.members {
		n := member.match(st, end)
		if n == nil {
			return nil
		}
		children = append(children, n)
		end = n.End
	}
	return &Node{Start: pos, End: end, Text: st.text[pos:end], Children: children}
}

// choice matches its first matching alternative.
type choice struct {
	alternatives []expression
}

func (c *choice) match(st *state, pos int) *Node {
	for _, alternative := range c.alternatives {
		if n := alternative.match(st, pos); n != nil {
			return &Node{Start: pos, End: n.End, Text: st.text[pos:n.End], Children: []*Node{n}}
		}
	}
	return nil
}

// optional matches its member zero or one time.
type optional struct {
	member expression
}

func (o *optional) match(st *state, pos int) *Node {
	if n := o.member.match(st, pos); n != nil {
		return &Node{Start: pos, End: n.End, Text: st.text[pos:n.End], Children: []*Node{n}}
	}
	return &Node{Start: pos, End: pos}
}

// repetition matches its member `min` or more times.
type repetition struct {
	member expression
	min    int
}

func (r *repetition) match(st *state, pos int) *Node {
	var children []*Node
	end := pos
	for {
		n := r.member.match(st, end)
		if n == nil {
			break
		}
		children = append(children, n)
		if n.End == end {
			// Zero-width match; repeating it would never terminate.
			break
		}
		end = n.End
	}
	if len(children) < r.min {
		return nil
	}
	return &Node{Start: pos, End: end, Text: st.text[pos:end], Children: children}
}

// not is the negative lookahead predicate. It consumes nothing.
type not struct {
	member expression
}

func (n *not) match(st *state, pos int) *Node {
	// The member's failures are probes, not real mismatches; shield the
	// error state from them.
	probe := *st
	if n.member.match(st, pos) != nil {
		st.maxFail, st.maxFailExpected, st.maxFailRule = probe.maxFail, probe.maxFailExpected, probe.maxFailRule
		return nil
	}
	st.maxFail, st.maxFailExpected, st.maxFailRule = probe.maxFail, probe.maxFailExpected, probe.maxFailRule
	return &Node{Start: pos, End: pos}
}

// lookahead is the positive lookahead predicate. It consumes nothing.
type lookahead struct {
	member expression
}

func (l *lookahead) match(st *state, pos int) *Node {
	if l.member.match(st, pos) == nil {
		return nil
	}
	return &Node{Start: pos, End: pos}
}

// refsOf collects the rule names an expression refers to, for compile-time
// resolution checking.
func refsOf(e expression, out map[string]struct{}) {
	switch t := e.(type) {
	case *ref:
		out[t.name] = struct{}{}
	case *sequence:
		for _, m := range t.members {
			refsOf(m, out)
		}
	case *choice:
		for _, m := range t.alternatives {
			refsOf(m, out)
		}
	case *optional:
		refsOf(t.member, out)
	case *repetition:
		refsOf(t.member, out)
	case *not:
		refsOf(t.member, out)
	case *lookahead:
		refsOf(t.member, out)
	}
}
