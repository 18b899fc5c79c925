/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package extractor

import (
	"fmt"
	"strings"

	"github.com/unidoc/unipdf/v3/common"
	"github.com/unidoc/unipdf/v3/core"
	"github.com/unidoc/unipdf/v3/model"
)

// FontWeight is the weight inferred from the font name.
type FontWeight string

// Recognized font weights.
const (
	FontWeightLight   FontWeight = "light"
	FontWeightRegular FontWeight = "regular"
	FontWeightBold    FontWeight = "bold"
)

// missingCodeRune replaces character codes that can't be decoded.
const missingCodeRune = '�'

// Font holds the decoding tables for one font resource, corresponding to the
// operands of a "Tf" operation.
// (See Table 58 - Entries in a Graphics State Parameter Dictionary in the PDF
// specification.)
type Font struct {
	// Name is the base font name from the font dictionary.
	Name string
	// Size is the font size in text space units.
	Size float64
	// Weight is inferred from a case-insensitive substring match on Name.
	Weight FontWeight
	// Characters maps character codes to their decoded glyphs.
	Characters map[byte]string
	// Widths maps character codes to their widths in font design units
	// (1/1000 em).
	Widths map[byte]int
}

// newFont builds a Font from the operands of a "Tf" operation, resolving the
// font resource by key on the page and expanding the library's font model
// (ToUnicode CMap first, encoding fallback, width metrics) into per-code
// tables.
func newFont(params []core.PdfObject, resources *model.PdfPageResources) (*Font, error) {
	if len(params) != 2 {
		return nil, fmt.Errorf("%w: Tf expects [font size], got %d operands", ErrInvalidOperands, len(params))
	}
	key, ok := core.GetNameVal(params[0])
	if !ok {
		return nil, fmt.Errorf("%w: Tf font key is not a name", ErrInvalidOperands)
	}
	size, err := core.GetNumberAsFloat(params[1])
	if err != nil {
		return nil, fmt.Errorf("%w: Tf size: %v", ErrInvalidOperands, err)
	}

	if resources == nil {
		return nil, fmt.Errorf("%w: no page resources for font %q", ErrMalformedFont, key)
	}
	fontObj, found := resources.GetFontByName(core.PdfObjectName(key))
	if !found {
		return nil, fmt.Errorf("%w: font %q not in page resources", ErrMalformedFont, key)
	}
	pdfFont, err := model.NewPdfFontFromPdfObject(fontObj)
	if err != nil {
		common.Log.Debug("newFont: NewPdfFontFromPdfObject failed. key=%#q err=%v", key, err)
		return nil, fmt.Errorf("%w: font %q: %v", ErrMalformedFont, key, err)
	}

	name := pdfFont.BaseFont()
	if name == "" {
		name = key
	}

	characters, widths, err := fontTables(pdfFont)
	if err != nil {
		return nil, fmt.Errorf("font %q: %w", name, err)
	}

	return &Font{
		Name:       name,
		Size:       size,
		Weight:     fontWeight(name),
		Characters: characters,
		Widths:     widths,
	}, nil
}

// fontWeight infers the weight from the font name. Defaults to regular.
func fontWeight(name string) FontWeight {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, string(FontWeightBold)):
		return FontWeightBold
	case strings.Contains(lower, string(FontWeightLight)):
		return FontWeightLight
	}
	return FontWeightRegular
}

// fontTables expands the font's decode chain into per-code glyph and width
// tables, validating every glyph against the reserved delimiters. Codes the
// font cannot decode are left out of the tables.
func fontTables(pdfFont *model.PdfFont) (map[byte]string, map[byte]int, error) {
	characters := make(map[byte]string)
	widths := make(map[byte]int)

	for code := 0; code <= 0xFF; code++ {
		glyph, _, numMisses := pdfFont.CharcodeBytesToUnicode([]byte{byte(code)})
		if numMisses > 0 || glyph == "" {
			continue
		}
		if _, reserved := reservedGlyphs[glyph]; reserved {
			return nil, nil, fmt.Errorf("%w: code 0x%02x decodes to %q", ErrReservedGlyph, code, glyph)
		}
		characters[byte(code)] = glyph

		if metrics, ok := pdfFont.GetRuneMetrics([]rune(glyph)[0]); ok {
			widths[byte(code)] = int(metrics.Wx)
		}
	}

	if len(characters) == 0 {
		return nil, nil, fmt.Errorf("%w: no decodable character codes", ErrMalformedFont)
	}
	return characters, widths, nil
}

// Decode decodes `data` into its glyph string and accumulated width using the
// font's character tables. The width is in font design units (1/1000 em);
// callers multiply by the font size to obtain text space units. Codes absent
// from the glyph table decode to U+FFFD with zero width.
func (f *Font) Decode(data []byte) (string, int) {
	var sb strings.Builder
	width := 0
	for _, b := range data {
		glyph, ok := f.Characters[b]
		if !ok {
			common.Log.Debug("Decode: font %q has no glyph for code 0x%02x", f.Name, b)
			sb.WriteRune(missingCodeRune)
			continue
		}
		sb.WriteString(glyph)
		width += f.Widths[b]
	}
	return sb.String(), width
}
