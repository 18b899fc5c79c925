/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package extractor turns one PDF page into a flat string in which the
// structure of the page is preserved as injected delimiter glyphs and
// per-object attribute annotations. Stock text extraction discards that
// structure; reconstructing the roster tables downstream depends on it.
package extractor

import (
	"math"
	"regexp"
	"strings"

	"github.com/unidoc/unipdf/v3/common"
	"github.com/unidoc/unipdf/v3/contentstream"
	"github.com/unidoc/unipdf/v3/core"
	"github.com/unidoc/unipdf/v3/model"
	"golang.org/x/xerrors"

	"github.com/american-soccer-analysis/mls-roster-profiles/internal/transform"
)

// hyphenContinuation matches a serialized object that is nothing but the
// trailing hyphen of a word broken across lines. Removing it repairs mid-word
// hyphenated line breaks before parsing.
var hyphenContinuation = regexp.MustCompile("(?m)^-" + AttributesOpen + "[^" + AttributesClose + "]*" + AttributesClose + EndObject)

// PageExtractor interprets the text-showing subset of a page's content
// streams and assembles the annotated page string. It is instantiated per
// page and consumed by a single Extract call; none of its state survives.
type PageExtractor struct {
	contents  string
	resources *model.PdfPageResources

	textObjects []*TextObject

	// textObject is the object presently being assembled.
	textObject *TextObject
	// font is the active font; fontStack holds fonts pushed by "q".
	font      *Font
	fontStack []*Font

	// xDisplacement is the horizontal space taken up by the current line of
	// text, in unscaled text space units.
	xDisplacement float64
	// tdXTranslation and tdYTranslation accumulate "Td" translations within
	// the current text object.
	tdXTranslation float64
	tdYTranslation float64

	// Text and transformation matrices maintained for origin computation.
	cm      transform.Matrix
	cmStack []transform.Matrix
	tm      transform.Matrix
	tlm     transform.Matrix
	leading float64
}

// New returns a PageExtractor for `page`.
func New(page *model.PdfPage) (*PageExtractor, error) {
	contents, err := page.GetAllContentStreams()
	if err != nil {
		return nil, err
	}
	return NewFromContents(contents, page.Resources), nil
}

// NewFromContents returns a PageExtractor over raw content stream `contents`
// with page resources `resources`.
func NewFromContents(contents string, resources *model.PdfPageResources) *PageExtractor {
	return &PageExtractor{
		contents:   contents,
		resources:  resources,
		textObject: &TextObject{},
		cm:         transform.IdentityMatrix(),
		tm:         transform.IdentityMatrix(),
		tlm:        transform.IdentityMatrix(),
	}
}

// Extract interprets the page's operators and returns the annotated page
// string: the concatenation, in emission order, of all serialized text
// objects, with hyphen-continuation lines removed.
func (e *PageExtractor) Extract() (string, error) {
	cstreamParser := contentstream.NewContentStreamParser(e.contents)
	operations, err := cstreamParser.Parse()
	if err != nil {
		common.Log.Debug("ERROR: Extract: content stream parse failed. err=%v", err)
		return "", err
	}

	for _, op := range *operations {
		if err := e.processOp(op); err != nil {
			return "", err
		}
	}

	var sb strings.Builder
	for _, to := range e.textObjects {
		s, err := to.serialize()
		if err != nil {
			return "", xerrors.Errorf("serializing text object %q: %w", to.Content, err)
		}
		sb.WriteString(s)
	}

	return hyphenContinuation.ReplaceAllString(sb.String(), ""), nil
}

// processOp dispatches one content stream operation.
func (e *PageExtractor) processOp(op *contentstream.ContentStreamOperation) error {
	switch op.Operand {
	case "ET":
		e.endTextObject()
	case "q":
		e.saveGraphicsState()
	case "Q":
		e.restoreGraphicsState()
	case "BT":
		e.tm = transform.IdentityMatrix()
		e.tlm = transform.IdentityMatrix()
	case "cm":
		floats, err := core.GetNumbersAsFloat(op.Params)
		if err != nil || len(floats) != 6 {
			common.Log.Debug("ERROR: cm op=%s err=%v", op, err)
			return nil
		}
		e.cm = e.cm.Mult(transform.NewMatrix(floats[0], floats[1], floats[2], floats[3], floats[4], floats[5]))
	case "Tm":
		floats, err := core.GetNumbersAsFloat(op.Params)
		if err != nil || len(floats) != 6 {
			common.Log.Debug("ERROR: Tm op=%s err=%v", op, err)
			return nil
		}
		e.tlm = transform.NewMatrix(floats[0], floats[1], floats[2], floats[3], floats[4], floats[5])
		e.tm = e.tlm
	case "TL":
		floats, err := core.GetNumbersAsFloat(op.Params)
		if err != nil || len(floats) != 1 {
			common.Log.Debug("ERROR: TL op=%s err=%v", op, err)
			return nil
		}
		e.leading = floats[0]
	case "Td", "TD":
		floats, err := core.GetNumbersAsFloat(op.Params)
		if err != nil || len(floats) != 2 {
			common.Log.Debug("ERROR: %s op=%s err=%v", op.Operand, op, err)
			return nil
		}
		if op.Operand == "TD" {
			e.leading = -floats[1]
		}
		e.moveTextPosition(floats[0], floats[1])
	case "T*":
		e.moveTextPosition(0, -e.leading)
	case "Tf":
		e.endTextObject()
		font, err := newFont(op.Params, e.resources)
		if err != nil {
			return err
		}
		e.font = font
	case "Tj":
		if len(op.Params) != 1 {
			common.Log.Debug("ERROR: Tj op=%s", op)
			return nil
		}
		data, ok := core.GetStringBytes(op.Params[0])
		if !ok {
			common.Log.Debug("ERROR: Tj op=%s GetStringBytes failed", op)
			return core.ErrTypeError
		}
		e.setOrigin()
		e.handleTextString(data)
	case "TJ":
		if len(op.Params) != 1 {
			common.Log.Debug("ERROR: TJ op=%s", op)
			return nil
		}
		arr, ok := core.GetArray(op.Params[0])
		if !ok {
			common.Log.Debug("ERROR: TJ op=%s GetArray failed", op)
			return core.ErrTypeError
		}
		e.setOrigin()
		for _, element := range arr.Elements() {
			if data, ok := core.GetStringBytes(element); ok {
				e.handleTextString(data)
				continue
			}
			offset, err := core.GetNumberAsFloat(element)
			if err != nil {
				common.Log.Debug("ERROR: TJ element %v: %v", element, err)
				continue
			}
			e.advance(offset / 1000 * e.fontSize())
		}
	}
	return nil
}

// endTextObject finalizes the current text object and resets the partial
// state. Corresponds to the "ET" operator, though not exclusively used for
// that purpose.
func (e *PageExtractor) endTextObject() {
	if e.textObject.Content != "" {
		e.textObject.Content = strings.TrimSuffix(e.textObject.Content, Return)
		e.textObject.Content = strings.TrimSpace(e.textObject.Content)
		e.textObject.Font = e.font
		e.textObjects = append(e.textObjects, e.textObject)
	}

	e.textObject = &TextObject{}
	e.xDisplacement = 0
}

// saveGraphicsState pushes the current font and transformation matrix.
// Corresponds to the "q" operator.
func (e *PageExtractor) saveGraphicsState() {
	e.fontStack = append(e.fontStack, e.font)
	e.cmStack = append(e.cmStack, e.cm)
}

// restoreGraphicsState finalizes the current text object and pops the font
// and transformation matrix. Corresponds to the "Q" operator.
func (e *PageExtractor) restoreGraphicsState() {
	e.endTextObject()
	if n := len(e.fontStack); n > 0 {
		e.font = e.fontStack[n-1]
		e.fontStack = e.fontStack[:n-1]
	} else {
		common.Log.Debug("Q with empty font stack")
	}
	if n := len(e.cmStack); n > 0 {
		e.cm = e.cmStack[n-1]
		e.cmStack = e.cmStack[:n-1]
	} else {
		common.Log.Debug("Q with empty graphics state stack")
	}
}

// moveTextPosition applies the movement heuristics for a "Td" translation
// `tx`,`ty`, deciding which delimiter, if any, the move stands for.
func (e *PageExtractor) moveTextPosition(tx, ty float64) {
	switch {
	case ty < 0 && math.Abs(tx+e.tdXTranslation) < xThreshold:
		// Continuation of the same column: the next wrapped line.
		e.textObject.Content += Return
		e.tdXTranslation = 0
		e.tdYTranslation += ty

	case ty > 0 && math.Abs(ty+e.tdYTranslation) < yThreshold:
		// Partial backtrack inside the object.
		e.tdYTranslation = 0
		e.tdXTranslation = 0
		if tx < 0 {
			e.textObject.Content += Precedes
		} else {
			e.textObject.Content += Tab
		}

	case math.Abs(ty) >= yThreshold:
		// A new object, despite the absent ET.
		e.endTextObject()

	case tx < 0 && e.textObject.Content != "":
		e.textObject.Content += Precedes

	case tx > 0 && e.textObject.Content != "":
		if tx-e.xDisplacement > xThreshold*e.fontSize() {
			e.textObject.Content += Tab
		} else {
			e.tdXTranslation += tx
		}
	}

	e.xDisplacement = 0
	e.tlm = e.tlm.Mult(transform.TranslationMatrix(tx, ty))
	e.tm = e.tlm
}

// setOrigin sets the bounding box origin of the current text object from the
// product of the text matrix and the current transformation matrix. Only the
// first shown string of an object sets the origin.
func (e *PageExtractor) setOrigin() {
	if e.textObject.BBox != nil {
		return
	}
	x, y := e.cm.Mult(e.tm).Translation()
	e.textObject.BBox = newBoundingBox(x, y)
}

// handleTextString decodes `data` with the active font and appends it to the
// current text object, advancing the horizontal displacement.
func (e *PageExtractor) handleTextString(data []byte) {
	if e.font == nil {
		common.Log.Debug("show string with no font set; skipping %d bytes", len(data))
		return
	}
	content, width := e.font.Decode(data)
	e.textObject.Content += content
	e.advance(float64(width) / 1000 * e.font.Size)
}

// advance grows the horizontal displacement and the bounding box width.
func (e *PageExtractor) advance(displacement float64) {
	e.xDisplacement += displacement
	if e.textObject.BBox != nil {
		e.textObject.BBox.growWidth(e.xDisplacement)
	}
}

// fontSize returns the active font size, or 0 with no font set.
func (e *PageExtractor) fontSize() float64 {
	if e.font == nil {
		return 0
	}
	return e.font.Size
}

// TextObjects returns the finalized text objects in emission order.
func (e *PageExtractor) TextObjects() []*TextObject {
	return e.textObjects
}
