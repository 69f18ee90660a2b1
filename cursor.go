package vscreen

// Pen is the active rendition applied to newly written cells.
// Modified by SGR (Select Graphic Rendition) escape sequences.
type Pen struct {
	Fg      Color
	Bg      Color
	Attrs   Attr
	Inverse bool
}

// cell returns a cell holding g in the pen's rendition.
// Inverse swaps the colors written into the cell; the pen itself is unchanged.
func (p Pen) cell(g Glyph) Cell {
	c := Cell{Glyph: g, Fg: p.Fg, Bg: p.Bg, Attrs: p.Attrs & AttrMask}
	if p.Inverse {
		c.Fg, c.Bg = c.Bg, c.Fg
	}
	return c
}

// Charset designators accepted by SetCharset.
const (
	CharsetUS          byte = 'B'
	CharsetUK          byte = 'A'
	CharsetDECGraphics byte = '0'
)

// CharsetIndex selects one of the two character set slots.
type CharsetIndex int

const (
	CharsetIndexG0 CharsetIndex = iota
	CharsetIndexG1
)

// Cursor tracks the position, pen, charsets and modes of the screen (0-based).
type Cursor struct {
	Y   int
	X   int
	Pen Pen

	Charsets    [2]byte
	CharsetSlot CharsetIndex

	InsertMode     bool
	WrapEnabled    bool
	Visible        bool
	NewlineMode    bool
	CursorsAltMode bool
	NumpadAltMode  bool
}

// newCursor creates a cursor at (0, 0) with the default pen of the given colors.
func newCursor(fg, bg Color) Cursor {
	return Cursor{
		Pen:         Pen{Fg: fg, Bg: bg},
		Charsets:    [2]byte{CharsetUS, CharsetUS},
		WrapEnabled: true,
		Visible:     true,
	}
}

// savedCursor stores cursor position and rendition for CursorRestore.
type savedCursor struct {
	Y   int
	X   int
	Pen Pen

	Charsets    [2]byte
	CharsetSlot CharsetIndex
}

// charset returns the designator bound to the active slot.
func (c *Cursor) charset() byte {
	if c.CharsetSlot < CharsetIndexG0 || c.CharsetSlot > CharsetIndexG1 {
		return CharsetUS
	}
	return c.Charsets[c.CharsetSlot]
}

// translate maps r through the active character set.
func (c *Cursor) translate(r rune) rune {
	switch c.charset() {
	case CharsetUK:
		if r == '#' {
			return '£'
		}
	case CharsetDECGraphics:
		if r >= 0x5F && r <= 0x7E {
			return decGraphics[r-0x5F]
		}
	}
	return r
}

// decGraphics is the DEC special graphics table for 0x5F..0x7E.
var decGraphics = [32]rune{
	' ', // _ blank
	'◆', // `
	'▒', // a
	'␉', // b
	'␌', // c
	'␍', // d
	'␊', // e
	'°', // f
	'±', // g
	'␤', // h
	'␋', // i
	'┘', // j
	'┐', // k
	'┌', // l
	'└', // m
	'┼', // n
	'⎺', // o
	'⎻', // p
	'─', // q
	'⎼', // r
	'⎽', // s
	'├', // t
	'┤', // u
	'┴', // v
	'┬', // w
	'│', // x
	'≤', // y
	'≥', // z
	'π', // {
	'≠', // |
	'£', // }
	'·', // ~
}
