/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package peg is a parsing expression grammar engine for the annotated page
// strings produced by the extractor. Grammars are compiled from a textual
// rule set at runtime; the concrete syntax tree it produces carries the rule
// names that the reflective visitor binds to record fields.
package peg

// Node is one vertex of the concrete syntax tree. Nodes produced by named
// rules carry the rule name; nodes produced by anonymous expressions
// (sequences, quantifiers, groups) have an empty name.
type Node struct {
	// Name is the grammar rule that produced the node, if any.
	Name string
	// Start and End are byte offsets of the match within the parsed text.
	Start int
	End   int
	// Text is the matched substring.
	Text string
	// Children are the constituent matches, in order.
	Children []*Node
}
