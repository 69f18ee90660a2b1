package vscreen

import "unicode/utf8"

// Color is a palette index: 0-7 normal intensity, 8-15 bright variants of the same hues.
type Color uint8

const (
	ColorBlack Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightBlack
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
)

// MaxColor is the highest valid color index.
const MaxColor Color = 15

// clampColor maps out-of-range indices onto the valid range.
func clampColor(c Color) Color {
	if c > MaxColor {
		return MaxColor
	}
	return c
}

// Attr is a bitmask of cell rendering attributes.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrFaint
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrFraktur
	AttrStrike
)

// AttrMask covers every defined attribute bit.
const AttrMask Attr = AttrBold | AttrFaint | AttrItalic | AttrUnderline | AttrBlink | AttrFraktur | AttrStrike

// Glyph holds the UTF-8 bytes of one code point, zero padded.
type Glyph [4]byte

// GlyphOf encodes r as a glyph. Invalid runes become U+FFFD.
func GlyphOf(r rune) Glyph {
	var g Glyph
	utf8.EncodeRune(g[:], r)
	return g
}

// Len returns the number of meaningful bytes in the glyph.
func (g Glyph) Len() int {
	for i, b := range g {
		if b == 0 {
			return i
		}
	}
	return len(g)
}

// Bytes returns the meaningful bytes of the glyph.
func (g Glyph) Bytes() []byte {
	return g[:g.Len()]
}

// Rune decodes the glyph. Empty glyphs decode as a space.
func (g Glyph) Rune() rune {
	if g[0] == 0 {
		return ' '
	}
	r, _ := utf8.DecodeRune(g.Bytes())
	return r
}

// String implements fmt.Stringer.
func (g Glyph) String() string {
	return string(g.Bytes())
}

var blankGlyph = Glyph{' '}

// Cell stores the glyph, colors and attributes of one grid position.
type Cell struct {
	Glyph Glyph
	Fg    Color
	Bg    Color
	Attrs Attr
}

// NewCell creates a blank cell in the given colors with no attributes.
func NewCell(fg, bg Color) Cell {
	return Cell{
		Glyph: blankGlyph,
		Fg:    fg,
		Bg:    bg,
	}
}

// HasAttr returns true if every bit of attr is set.
func (c *Cell) HasAttr(attr Attr) bool {
	return c.Attrs&attr == attr
}

// Rune returns the code point stored in the cell.
func (c *Cell) Rune() rune {
	return c.Glyph.Rune()
}

// sameStyle reports whether both cells would be encoded in one run.
func (c *Cell) sameStyle(other *Cell) bool {
	return c.Fg == other.Fg && c.Bg == other.Bg && c.Attrs == other.Attrs
}

// style packs colors and attributes as fg | bg<<4 | attrs<<8.
func (c *Cell) style() uint32 {
	return uint32(c.Fg&0x0F) | uint32(c.Bg&0x0F)<<4 | uint32(c.Attrs&AttrMask)<<8
}

// unpackStyle is the inverse of Cell.style.
func unpackStyle(style uint32) (fg, bg Color, attrs Attr) {
	return Color(style & 0x0F), Color((style >> 4) & 0x0F), Attr((style >> 8)) & AttrMask
}
