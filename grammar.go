/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package rosterprofiles

import (
	_ "embed"
	"fmt"

	"github.com/american-soccer-analysis/mls-roster-profiles/extractor"
	"github.com/american-soccer-analysis/mls-roster-profiles/peg"
)

// userRules is the per-document-class rule set describing the roster profile
// page layout. It is distributed with the package.
//
//go:embed grammar.peg
var userRules string

// baseRules is the fixed block appended unconditionally to any user rule
// set: attribute envelopes, weights, character terminals and the delimiter
// glyphs injected by the extractor.
var baseRules = fmt.Sprintf(`
# Attributes
attr_light = attr_open coordinates light attr_close end_object
attr_regular = attr_open coordinates regular attr_close end_object
attr_bold = attr_open coordinates bold attr_close end_object
coordinates = digit+ separator digit+ separator digit+ separator

# Font weights
light = "%s"
regular = "%s"
bold = "%s"

# Characters
digit = ~r"[0-9]"
comma = ","
dot = "."
slash = "/"
space = " "
character = ~r"[^%s%s%s%s%s%s]"

# Delimiters
separator = "|"
end_object = "%s"
tab = "%s"
precedes = "%s"
return = "%s"
attr_open = "%s"
attr_close = "%s"
`,
	extractor.FontWeightLight, extractor.FontWeightRegular, extractor.FontWeightBold,
	`\n`, extractor.Tab, extractor.Precedes, extractor.Return, extractor.AttributesOpen, extractor.AttributesClose,
	`\n`, extractor.Tab, extractor.Precedes, extractor.Return, extractor.AttributesOpen, extractor.AttributesClose)

// NewGrammar compiles the bundled roster profile rules.
func NewGrammar() (*peg.Grammar, error) {
	return NewGrammarFromRules(userRules)
}

// NewGrammarFromRules compiles a custom user rule set composed with the
// fixed base block.
func NewGrammarFromRules(rules string) (*peg.Grammar, error) {
	return peg.Compile(rules + baseRules)
}
