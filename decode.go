package vscreen

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrShortFrame is returned when the input ends before the message is complete.
	ErrShortFrame = errors.New("vscreen: truncated message")
	// ErrBadToken is returned for bytes that do not form a valid token.
	ErrBadToken = errors.New("vscreen: invalid token")
)

// Frame is a decoded screen frame.
type Frame struct {
	Rows      int
	Cols      int
	CursorY   int
	CursorX   int
	Flags     uint16
	Theme     uint8
	DefaultFg Color
	DefaultBg Color
	Cells     []Cell
}

// Has reports whether every bit of flag is set in the header.
func (f *Frame) Has(flag uint16) bool {
	return f.Flags&flag == flag
}

// Cell returns the cell at (y, x), or nil if out of bounds.
func (f *Frame) Cell(y, x int) *Cell {
	if y < 0 || y >= f.Rows || x < 0 || x >= f.Cols {
		return nil
	}
	return &f.Cells[y*f.Cols+x]
}

// Line returns the text of row y, trailing spaces included.
func (f *Frame) Line(y int) string {
	if y < 0 || y >= f.Rows {
		return ""
	}
	runes := make([]rune, f.Cols)
	for x := range runes {
		runes[x] = f.Cells[y*f.Cols+x].Rune()
	}
	return string(runes)
}

// frameReader walks an encoded message.
type frameReader struct {
	data []byte
	pos  int
}

func (r *frameReader) done() bool {
	return r.pos >= len(r.data)
}

func (r *frameReader) read2B() (int, error) {
	if len(r.data)-r.pos < 2 {
		return 0, ErrShortFrame
	}
	lsb, msb := r.data[r.pos], r.data[r.pos+1]
	if !IsCodecByte(lsb) || !IsCodecByte(msb) {
		return 0, fmt.Errorf("number at offset %d: %w", r.pos, ErrBadToken)
	}
	r.pos += 2
	return int(Decode2B(WordB2{Lsb: lsb, Msb: msb})), nil
}

func (r *frameReader) read3B() (uint32, error) {
	if len(r.data)-r.pos < 3 {
		return 0, ErrShortFrame
	}
	w := WordB3{Lsb: r.data[r.pos], Msb: r.data[r.pos+1], Xsb: r.data[r.pos+2]}
	if !IsCodecByte(w.Lsb) || !IsCodecByte(w.Msb) || !IsCodecByte(w.Xsb) {
		return 0, fmt.Errorf("number at offset %d: %w", r.pos, ErrBadToken)
	}
	r.pos += 3
	return Decode3B(w), nil
}

// token kinds produced by next
const (
	tokGlyph = iota
	tokStyle
	tokRepeat
	tokSeparator
)

// next reads one token. For glyphs g is set; for style and repeat n is the
// decoded number.
func (r *frameReader) next() (kind int, g Glyph, n uint32, err error) {
	b := r.data[r.pos]
	if b != tokenEscape {
		if b < 0x20 || b == 0x7F || b == '"' || b == '\\' {
			return 0, g, 0, fmt.Errorf("byte %#x at offset %d: %w", b, r.pos, ErrBadToken)
		}
		ru, size := utf8.DecodeRune(r.data[r.pos:])
		if ru == utf8.RuneError && size <= 1 {
			if !utf8.FullRune(r.data[r.pos:]) {
				return 0, g, 0, ErrShortFrame
			}
			return 0, g, 0, fmt.Errorf("utf-8 at offset %d: %w", r.pos, ErrBadToken)
		}
		copy(g[:], r.data[r.pos:r.pos+size])
		r.pos += size
		return tokGlyph, g, 0, nil
	}

	if len(r.data)-r.pos < 2 {
		return 0, g, 0, ErrShortFrame
	}
	op := r.data[r.pos+1]
	r.pos += 2
	switch op {
	case '~':
		return tokGlyph, Glyph{'~'}, 0, nil
	case 'q':
		return tokGlyph, Glyph{'"'}, 0, nil
	case 'b':
		return tokGlyph, Glyph{'\\'}, 0, nil
	case '|':
		return tokSeparator, g, 0, nil
	case 's':
		n, err = r.read3B()
		return tokStyle, g, n, err
	case 'r':
		var v int
		v, err = r.read2B()
		return tokRepeat, g, uint32(v), err
	}
	return 0, g, 0, fmt.Errorf("escape %q at offset %d: %w", op, r.pos-1, ErrBadToken)
}

// DecodeFrame parses a complete frame produced by SerializeToBuffer.
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("decode header: %w", ErrShortFrame)
	}
	if data[0] != frameMarker {
		return nil, fmt.Errorf("decode header: marker %q: %w", data[0], ErrBadToken)
	}

	r := &frameReader{data: data, pos: 1}
	var header [7]int
	for i := range header {
		v, err := r.read2B()
		if err != nil {
			return nil, fmt.Errorf("decode header: %w", err)
		}
		header[i] = v
	}

	f := &Frame{
		Rows:      header[0],
		Cols:      header[1],
		CursorY:   header[2],
		CursorX:   header[3],
		Flags:     uint16(header[4]),
		Theme:     uint8(header[5]),
		DefaultFg: Color(header[6] & 0x0F),
		DefaultBg: Color((header[6] >> 4) & 0x0F),
	}
	total := f.Rows * f.Cols
	if total > MaxScreenSize {
		return nil, fmt.Errorf("decode header: %dx%d exceeds capacity: %w", f.Rows, f.Cols, ErrBadToken)
	}
	f.Cells = make([]Cell, 0, total)

	var (
		current    Cell
		styleSeen  bool
		glyphValid bool
	)
	for !r.done() {
		kind, g, n, err := r.next()
		if err != nil {
			return nil, fmt.Errorf("decode cell %d: %w", len(f.Cells), err)
		}

		switch kind {
		case tokStyle:
			current.Fg, current.Bg, current.Attrs = unpackStyle(n)
			styleSeen = true
		case tokGlyph:
			if !styleSeen {
				return nil, fmt.Errorf("decode cell %d: glyph before style: %w", len(f.Cells), ErrBadToken)
			}
			if len(f.Cells) >= total {
				return nil, fmt.Errorf("decode cell %d: too many cells: %w", len(f.Cells), ErrBadToken)
			}
			current.Glyph = g
			glyphValid = true
			f.Cells = append(f.Cells, current)
		case tokRepeat:
			if !glyphValid || len(f.Cells)+int(n) > total {
				return nil, fmt.Errorf("decode cell %d: bad repeat: %w", len(f.Cells), ErrBadToken)
			}
			for i := uint32(0); i < n; i++ {
				f.Cells = append(f.Cells, current)
			}
		default:
			return nil, fmt.Errorf("decode cell %d: unexpected separator: %w", len(f.Cells), ErrBadToken)
		}
	}

	if len(f.Cells) != total {
		return nil, fmt.Errorf("decode body: %d of %d cells: %w", len(f.Cells), total, ErrShortFrame)
	}
	return f, nil
}

// Labels is the decoded title and button labels.
type Labels struct {
	Title   string
	Buttons [ButtonCount]string
}

// DecodeLabels parses a message produced by SerializeLabelsToBuffer.
func DecodeLabels(data []byte) (*Labels, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("decode labels: %w", ErrShortFrame)
	}
	if data[0] != labelsMarker {
		return nil, fmt.Errorf("decode labels: marker %q: %w", data[0], ErrBadToken)
	}

	r := &frameReader{data: data, pos: 1}
	var fields []string
	var text []byte
	for !r.done() {
		kind, g, _, err := r.next()
		if err != nil {
			return nil, fmt.Errorf("decode labels: %w", err)
		}
		switch kind {
		case tokGlyph:
			text = append(text, g.Bytes()...)
		case tokSeparator:
			fields = append(fields, string(text))
			text = text[:0]
		default:
			return nil, fmt.Errorf("decode labels: unexpected token: %w", ErrBadToken)
		}
	}

	if len(fields) > 1+ButtonCount {
		return nil, fmt.Errorf("decode labels: %d fields: %w", len(fields), ErrBadToken)
	}
	if len(fields) < 1+ButtonCount || len(text) != 0 {
		return nil, fmt.Errorf("decode labels: %d fields: %w", len(fields), ErrShortFrame)
	}
	l := &Labels{Title: fields[0]}
	copy(l.Buttons[:], fields[1:])
	return l, nil
}
