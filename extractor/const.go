/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package extractor

import "errors"

// Delimiter glyphs injected into the extracted page string. They carry the
// structure of the page (object boundaries, column gaps, display order, line
// breaks, attribute envelopes) through to the grammar. The glyphs are
// reserved: a font whose ToUnicode map decodes to any of them cannot be used.
const (
	// EndObject terminates one serialized text object.
	EndObject = "\n"
	// Tab marks a horizontal gap wider than the per-font threshold inside a
	// text object.
	Tab = "⇥"
	// Precedes marks text that was emitted after, but displays to the left
	// of, the preceding text within the same text object.
	Precedes = "⇤"
	// Return marks a line break within a text object.
	Return = "↩"
	// AttributesOpen and AttributesClose delimit the attribute suffix
	// (x-coordinates and font weight) appended to each serialized object.
	AttributesOpen  = "《"
	AttributesClose = "》"
)

// reservedGlyphs is the set checked against decoded fonts.
var reservedGlyphs = map[string]struct{}{
	EndObject:       {},
	Tab:             {},
	Precedes:        {},
	Return:          {},
	AttributesOpen:  {},
	AttributesClose: {},
}

// Movement thresholds for the "Td" heuristics.
// xThreshold is a fraction of the font size, yThreshold is in text space units.
const (
	xThreshold = 0.3
	yThreshold = 1.0
)

// Extraction errors.
var (
	// ErrReservedGlyph means a font decodes a character code to one of the
	// reserved delimiter glyphs.
	ErrReservedGlyph = errors.New("reserved delimiter glyph in font")
	// ErrMalformedFont means the font dictionary referenced by a Tf operation
	// is missing or lacks the entries needed for decoding.
	ErrMalformedFont = errors.New("missing or malformed font dictionary")
	// ErrInvalidOperands means a text operator carried operands of an
	// unexpected shape.
	ErrInvalidOperands = errors.New("invalid operands")
)
