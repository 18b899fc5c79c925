/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package extractor

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// BoundingBox is an axis-aligned box with integer coordinates, rounded up
// from text space on construction.
type BoundingBox struct {
	XMin   int
	YMin   int
	Width  int
	Height int
}

// newBoundingBox returns a BoundingBox at `xMin`,`yMin` with zero size.
func newBoundingBox(xMin, yMin float64) *BoundingBox {
	return &BoundingBox{
		XMin: int(math.Ceil(xMin)),
		YMin: int(math.Ceil(yMin)),
	}
}

// growWidth widens the box to `width` (text space units) if it is wider than
// the current width.
func (b *BoundingBox) growWidth(width float64) {
	if w := int(math.Ceil(width)); w > b.Width {
		b.Width = w
	}
}

// XMax returns the maximum x-coordinate of the box.
func (b *BoundingBox) XMax() int {
	return b.XMin + b.Width
}

// XCenter returns the x-coordinate of the center of the box.
func (b *BoundingBox) XCenter() int {
	return int(math.Ceil(float64(b.XMin) + float64(b.Width)/2))
}

// TextObject is one contiguous run of shown text with its font and position.
type TextObject struct {
	// Content is the decoded text, including injected delimiters.
	Content string
	// Font is attached when the object is finalized.
	Font *Font
	// BBox is set when the first string of the object is shown.
	BBox *BoundingBox
}

// serialize renders the object as its content followed by the attribute
// envelope, e.g. "Evander《89|306|523|bold》\n".
func (to *TextObject) serialize() (string, error) {
	if to.Font == nil || to.BBox == nil {
		return "", errors.New("font and bounding box must be set before serialization")
	}

	var sb strings.Builder
	sb.WriteString(to.Content)
	sb.WriteString(AttributesOpen)
	sb.WriteString(fmt.Sprintf("%d|%d|%d|%s", to.BBox.XMin, to.BBox.XCenter(), to.BBox.XMax(), to.Font.Weight))
	sb.WriteString(AttributesClose)
	sb.WriteString(EndObject)
	return sb.String(), nil
}
