package vscreen

// Frame wire format
//
// A frame is a header followed by a body. All numbers use the 2B/3B codec.
//
//	'S' rows cols cursorY cursorX flags theme colors
//
// colors packs the default fg and bg as fg | bg<<4. The body is a sequence
// of tokens covering every cell in row-major order:
//
//	~s SSS   set the style of the following cells (3B fg | bg<<4 | attrs<<8)
//	~r NN    repeat the previous glyph NN more times (2B)
//	~~       the glyph '~'
//	~q       the glyph '"'
//	~b       the glyph '\'
//	other    the raw UTF-8 bytes of one glyph
//
// The first glyph is always preceded by a style token. Control characters
// are sent as spaces. Tokens are never split across output buffers.

// Frame header flags.
const (
	FlagCursorVisible uint16 = 1 << iota
	FlagNumpadAlt
	FlagCursorsAlt
	FlagFnAlt
	FlagNewlineMode
	FlagWrap
	FlagInsert
)

const (
	frameMarker  = 'S'
	labelsMarker = 'T'
	tokenEscape  = '~'

	// HeaderSize is the length of an encoded frame header.
	HeaderSize = 1 + 7*2

	// MinChunkSize is the smallest buffer SerializeToBuffer makes progress with.
	MinChunkSize = 16

	styleTokenLen  = 5
	repeatTokenLen = 4
)

// SerializeStatus reports the outcome of one SerializeToBuffer call.
type SerializeStatus int

const (
	// SerializeMore means data is pending; call again with a fresh buffer.
	SerializeMore SerializeStatus = iota
	// SerializeDone means the frame is complete and the cursor was reset.
	SerializeDone
	// SerializeRestart means the screen changed during the pass. Nothing was
	// written, the cursor was reset and the caller must discard the partial
	// frame and start over.
	SerializeRestart
)

// String implements fmt.Stringer.
func (s SerializeStatus) String() string {
	switch s {
	case SerializeMore:
		return "more"
	case SerializeDone:
		return "done"
	case SerializeRestart:
		return "restart"
	default:
		return "unknown"
	}
}

// SerializeCursor is the continuation state of a serialization pass. The
// zero value starts a new pass. It owns no screen state.
type SerializeCursor struct {
	started bool
	gen     uint64
	index   int

	style      uint32
	styleValid bool

	glyph      Glyph
	glyphValid bool
}

// Reset abandons the current pass.
func (c *SerializeCursor) Reset() {
	*c = SerializeCursor{}
}

// Started reports whether a pass is in progress.
func (c *SerializeCursor) Started() bool {
	return c.started
}

// SerializeToBuffer encodes as much of the frame as fits into buf and
// returns the number of bytes written. Buffers shorter than MinChunkSize
// make no progress.
func (s *Screen) SerializeToBuffer(buf []byte, cur *SerializeCursor) (int, SerializeStatus) {
	if len(buf) < MinChunkSize {
		return 0, SerializeMore
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if cur.started && cur.gen != s.gen {
		cur.Reset()
		return 0, SerializeRestart
	}

	out := buf[:0:len(buf)]
	if !cur.started {
		out = s.appendHeader(out)
		cur.started = true
		cur.gen = s.gen
	}

	cells := s.grid.view()
	for cur.index < len(cells) {
		cell := &cells[cur.index]

		if style := cell.style(); !cur.styleValid || style != cur.style {
			if cap(out)-len(out) < styleTokenLen {
				return len(out), SerializeMore
			}
			out = append(out, tokenEscape, 's')
			out = append3B(out, style)
			cur.style = style
			cur.styleValid = true
			// a style token ends any repeatable sequence
			cur.glyphValid = false
		}

		if cur.glyphValid && cell.Glyph == cur.glyph {
			run := repeatRun(cells[cur.index:], cell)
			if run*glyphTokenLen(cell.Glyph) > repeatTokenLen {
				if cap(out)-len(out) < repeatTokenLen {
					return len(out), SerializeMore
				}
				out = append(out, tokenEscape, 'r')
				out = append2B(out, run)
				cur.index += run
				continue
			}
		}

		tok := glyphToken(cell.Glyph)
		if cap(out)-len(out) < len(tok) {
			return len(out), SerializeMore
		}
		out = append(out, tok...)
		cur.glyph = cell.Glyph
		cur.glyphValid = true
		cur.index++
	}

	cur.Reset()
	return len(out), SerializeDone
}

// repeatRun counts leading cells identical to c, up to Max2B.
func repeatRun(cells []Cell, c *Cell) int {
	n := 0
	for n < len(cells) && n < Max2B && cells[n] == *c {
		n++
	}
	return n
}

// appendHeader writes the frame header. Caller must hold the lock.
func (s *Screen) appendHeader(dst []byte) []byte {
	dst = append(dst, frameMarker)
	dst = append2B(dst, s.grid.rows)
	dst = append2B(dst, s.grid.cols)
	dst = append2B(dst, s.cursor.Y)
	dst = append2B(dst, s.cursor.X)
	dst = append2B(dst, int(s.headerFlags()))
	dst = append2B(dst, int(s.scratch.Theme))
	dst = append2B(dst, int(s.scratch.DefaultFg&0x0F)|int(s.scratch.DefaultBg&0x0F)<<4)
	return dst
}

func (s *Screen) headerFlags() uint16 {
	var flags uint16
	set := func(on bool, flag uint16) {
		if on {
			flags |= flag
		}
	}
	set(s.cursor.Visible, FlagCursorVisible)
	set(s.cursor.NumpadAltMode, FlagNumpadAlt)
	set(s.cursor.CursorsAltMode, FlagCursorsAlt)
	set(s.scratch.FnAltMode, FlagFnAlt)
	set(s.cursor.NewlineMode, FlagNewlineMode)
	set(s.cursor.WrapEnabled, FlagWrap)
	set(s.cursor.InsertMode, FlagInsert)
	return flags
}

var (
	tokTilde     = []byte{tokenEscape, '~'}
	tokQuote     = []byte{tokenEscape, 'q'}
	tokBackslash = []byte{tokenEscape, 'b'}
	tokSpace     = []byte{' '}
)

// glyphToken returns the encoded form of one glyph.
func glyphToken(g Glyph) []byte {
	switch b := g[0]; {
	case b < 0x20 || b == 0x7F:
		return tokSpace
	case b == '~':
		return tokTilde
	case b == '"':
		return tokQuote
	case b == '\\':
		return tokBackslash
	}
	return g.Bytes()
}

func glyphTokenLen(g Glyph) int {
	return len(glyphToken(g))
}

// labelsSeparator terminates each field of the labels message.
var labelsSeparator = []byte{tokenEscape, '|'}

// SerializeLabelsToBuffer writes the title and button labels into buf in a
// single pass and returns the number of bytes written:
//
//	'T' title ~| btn1 ~| btn2 ~| btn3 ~| btn4 ~| btn5 ~|
//
// Text uses the same glyph escapes as frames; control bytes are dropped.
// Output that does not fit is cut at a token boundary.
func (s *Screen) SerializeLabelsToBuffer(buf []byte) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(buf) == 0 {
		return 0
	}
	out := append(buf[:0:len(buf)], labelsMarker)

	fields := make([]string, 0, 1+ButtonCount)
	fields = append(fields, s.scratch.Title)
	fields = append(fields, s.scratch.Buttons[:]...)

	for _, field := range fields {
		var ok bool
		if out, ok = appendLabelText(out, field); !ok {
			return len(out)
		}
		if cap(out)-len(out) < len(labelsSeparator) {
			return len(out)
		}
		out = append(out, labelsSeparator...)
	}
	return len(out)
}

// appendLabelText appends escaped text while it fits in dst's capacity.
// It reports false if the text was cut.
func appendLabelText(dst []byte, text string) ([]byte, bool) {
	for _, r := range text {
		g := GlyphOf(r)
		if g[0] < 0x20 || g[0] == 0x7F {
			continue
		}
		tok := glyphToken(g)
		if cap(dst)-len(dst) < len(tok) {
			return dst, false
		}
		dst = append(dst, tok...)
	}
	return dst, true
}
