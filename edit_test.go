package vscreen

import (
	"fmt"
	"testing"
)

func writeString(s *Screen, text string) {
	for _, r := range text {
		s.PutRune(r)
	}
}

// fillRows writes the row index digit across every row.
func fillRows(s *Screen) {
	for y := 0; y < s.Rows(); y++ {
		s.CursorSet(y, 0)
		for x := 0; x < s.Cols()-1; x++ {
			s.PutRune(rune('0' + y%10))
		}
	}
	s.CursorSet(0, 0)
}

func assertDefaultCell(t *testing.T, s *Screen, y, x int) {
	t.Helper()
	c, ok := s.Cell(y, x)
	if !ok {
		t.Fatalf("(%d, %d): invalid coordinate", y, x)
	}
	cfg := s.Scratch()
	if c.Rune() != ' ' || c.Fg != cfg.DefaultFg || c.Bg != cfg.DefaultBg || c.Attrs != 0 {
		t.Errorf("(%d, %d): expected default blank, got %q fg=%d bg=%d attrs=%d", y, x, c.Rune(), c.Fg, c.Bg, c.Attrs)
	}
}

func TestClearInLineKeepsNeighbours(t *testing.T) {
	s := New()
	s.SetFg(ColorGreen)
	s.SetBg(ColorBlack)
	writeString(s, "Hi")

	s.CursorSetX(0)
	s.ClearInLine(1)

	assertDefaultCell(t, s, 0, 0)
	c, _ := s.Cell(0, 1)
	if c.Rune() != 'i' || c.Fg != ColorGreen || c.Bg != ColorBlack {
		t.Errorf("expected 'i' in 2/0, got %q in %d/%d", c.Rune(), c.Fg, c.Bg)
	}
}

func TestClearInLineStopsAtRowEnd(t *testing.T) {
	s := newTestScreen(2, 4)
	fillRows(s)

	s.CursorSet(0, 2)
	s.ClearInLine(100)

	if got := s.LineContent(0); got != "00" {
		t.Errorf("expected %q, got %q", "00", got)
	}
	if got := s.LineContent(1); got != "111" {
		t.Errorf("expected next row untouched, got %q", got)
	}
}

func TestClearUsesDefaultColors(t *testing.T) {
	s := New()
	s.SetBg(ColorBlue)
	s.SetFg(ColorYellow)
	s.AttrEnable(AttrBold)
	writeString(s, "colored")

	s.Clear(ClearAll)

	for x := 0; x < 7; x++ {
		assertDefaultCell(t, s, 0, x)
	}
}

func TestClearModes(t *testing.T) {
	tests := []struct {
		name string
		mode ClearMode
		want []string
	}{
		{"to cursor", ClearToCursor, []string{"", "  11", "2222"}},
		{"from cursor", ClearFromCursor, []string{"0000", "1", ""}},
		{"all", ClearAll, []string{"", "", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScreen(3, 5)
			fillRows(s)
			s.CursorSet(1, 1)

			s.Clear(tt.mode)

			for y, w := range tt.want {
				if got := s.LineContent(y); got != w {
					t.Errorf("row %d: expected %q, got %q", y, w, got)
				}
			}
		})
	}
}

func TestClearLineModes(t *testing.T) {
	tests := []struct {
		name string
		mode ClearMode
		want string
	}{
		{"to cursor", ClearToCursor, "  11"},
		{"from cursor", ClearFromCursor, "1"},
		{"all", ClearAll, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScreen(3, 5)
			fillRows(s)
			s.CursorSet(1, 1)

			s.ClearLine(tt.mode)

			if got := s.LineContent(1); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if got := s.LineContent(0); got != "0000" {
				t.Errorf("expected row 0 untouched, got %q", got)
			}
		})
	}
}

func TestScrollUpByHeightClears(t *testing.T) {
	for _, n := range []int{10, 11, 500} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			s := New()
			fillRows(s)

			s.ScrollUp(n)

			for y := 0; y < s.Rows(); y++ {
				for x := 0; x < s.Cols(); x++ {
					assertDefaultCell(t, s, y, x)
				}
			}
		})
	}
}

func TestScrollByZeroIsNoop(t *testing.T) {
	s := New()
	fillRows(s)
	before := s.String()
	gen := s.Generation()

	s.ScrollUp(0)
	s.ScrollDown(0)
	s.ScrollUp(-3)

	if s.String() != before {
		t.Error("expected grid unchanged")
	}
	if s.Generation() != gen {
		t.Error("expected generation unchanged")
	}
}

func TestScrollDoesNotMoveCursor(t *testing.T) {
	s := newTestScreen(4, 5)
	fillRows(s)
	s.CursorSet(2, 3)

	s.ScrollUp(1)
	s.ScrollDown(2)

	if y, x := s.CursorGet(); y != 2 || x != 3 {
		t.Errorf("expected cursor at (2, 3), got (%d, %d)", y, x)
	}
	want := []string{"", "", "1111", "2222"}
	for y, w := range want {
		if got := s.LineContent(y); got != w {
			t.Errorf("row %d: expected %q, got %q", y, w, got)
		}
	}
}

func TestInsertLinesAtRow3(t *testing.T) {
	s := New()
	fillRows(s)
	s.CursorSet(3, 4)

	s.InsertLines(2)

	for y := 0; y < 3; y++ {
		if got := s.LineContent(y); got != rowText(y, s.Cols()-1) {
			t.Errorf("row %d: expected untouched, got %q", y, got)
		}
	}
	for x := 0; x < s.Cols(); x++ {
		assertDefaultCell(t, s, 3, x)
		assertDefaultCell(t, s, 4, x)
	}
	for y := 5; y < 10; y++ {
		if got, want := s.LineContent(y), rowText(y-2, s.Cols()-1); got != want {
			t.Errorf("row %d: expected %q, got %q", y, want, got)
		}
	}
	if y, x := s.CursorGet(); y != 3 || x != 4 {
		t.Errorf("expected cursor unmoved at (3, 4), got (%d, %d)", y, x)
	}
}

func rowText(y, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + y%10)
	}
	return string(b)
}

func TestDeleteLines(t *testing.T) {
	s := newTestScreen(5, 3)
	fillRows(s)
	s.CursorSet(1, 0)

	s.DeleteLines(2)

	want := []string{"00", "33", "44", "", ""}
	for y, w := range want {
		if got := s.LineContent(y); got != w {
			t.Errorf("row %d: expected %q, got %q", y, w, got)
		}
	}
	if y, _ := s.CursorGet(); y != 1 {
		t.Errorf("expected cursor on row 1, got %d", y)
	}
}

func TestInsertDeleteLinesOversized(t *testing.T) {
	s := newTestScreen(4, 3)
	fillRows(s)
	s.CursorSet(2, 0)

	s.InsertLines(100)
	want := []string{"00", "11", "", ""}
	for y, w := range want {
		if got := s.LineContent(y); got != w {
			t.Errorf("insert row %d: expected %q, got %q", y, w, got)
		}
	}

	fillRows(s)
	s.CursorSet(1, 0)
	s.DeleteLines(100)
	want = []string{"00", "", "", ""}
	for y, w := range want {
		if got := s.LineContent(y); got != w {
			t.Errorf("delete row %d: expected %q, got %q", y, w, got)
		}
	}
}

func TestInsertDeleteCharacters(t *testing.T) {
	s := newTestScreen(2, 6)
	writeString(s, "ABCDEF")
	writeString(s, "xyz")
	s.CursorSet(0, 2)

	s.InsertCharacters(2)
	if got := s.LineContent(0); got != "AB  CD" {
		t.Errorf("expected %q, got %q", "AB  CD", got)
	}
	if got := s.LineContent(1); got != "xyz" {
		t.Errorf("expected next row untouched, got %q", got)
	}

	s.DeleteCharacters(3)
	if got := s.LineContent(0); got != "ABD" {
		t.Errorf("expected %q, got %q", "ABD", got)
	}
	assertDefaultCell(t, s, 0, 5)

	if y, x := s.CursorGet(); y != 0 || x != 2 {
		t.Errorf("expected cursor at (0, 2), got (%d, %d)", y, x)
	}

	s.DeleteCharacters(50)
	if got := s.LineContent(0); got != "AB" {
		t.Errorf("expected %q, got %q", "AB", got)
	}
}

func TestFillWithE(t *testing.T) {
	s := newTestScreen(2, 3)
	s.SetFg(ColorRed)
	s.AttrEnable(AttrUnderline)

	s.FillWithE()

	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			c, _ := s.Cell(y, x)
			if c.Rune() != 'E' || c.Fg != ColorWhite || c.Attrs != 0 {
				t.Errorf("(%d, %d): expected default 'E', got %q fg=%d attrs=%d", y, x, c.Rune(), c.Fg, c.Attrs)
			}
		}
	}
}

func TestCursorSetClamps(t *testing.T) {
	s := New()

	s.CursorSet(100, 100)
	if y, x := s.CursorGet(); y != s.Rows()-1 || x != s.Cols()-1 {
		t.Errorf("expected (%d, %d), got (%d, %d)", s.Rows()-1, s.Cols()-1, y, x)
	}

	s.CursorSet(-5, -5)
	if y, x := s.CursorGet(); y != 0 || x != 0 {
		t.Errorf("expected (0, 0), got (%d, %d)", y, x)
	}

	s.CursorSetY(4)
	s.CursorSetX(7)
	if y, x := s.CursorGet(); y != 4 || x != 7 {
		t.Errorf("expected (4, 7), got (%d, %d)", y, x)
	}
}

func TestCursorMove(t *testing.T) {
	tests := []struct {
		name     string
		dy, dx   int
		scroll   bool
		wantY    int
		wantX    int
		wantRow0 string
	}{
		{"inside", 1, 2, false, 3, 4, "0000"},
		{"clamp down", 5, 0, false, 3, 2, "0000"},
		{"clamp right", 0, 50, false, 2, 4, "0000"},
		{"scroll down", 3, 0, true, 3, 2, "2222"},
		{"scroll up", -4, 0, true, 0, 2, ""},
		{"clamp up", -4, 0, false, 0, 2, "0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScreen(4, 5)
			fillRows(s)
			s.CursorSet(2, 2)

			s.CursorMove(tt.dy, tt.dx, tt.scroll)

			if y, x := s.CursorGet(); y != tt.wantY || x != tt.wantX {
				t.Errorf("expected (%d, %d), got (%d, %d)", tt.wantY, tt.wantX, y, x)
			}
			if got := s.LineContent(0); got != tt.wantRow0 {
				t.Errorf("row 0: expected %q, got %q", tt.wantRow0, got)
			}
		})
	}
}

func TestCursorSaveRestoreWithAttrs(t *testing.T) {
	s := New()
	s.CursorSet(2, 3)
	s.SetFg(ColorRed)
	s.SetBg(ColorBlue)
	s.AttrEnable(AttrBold | AttrItalic)
	s.InverseEnable(true)
	saved := s.Cursor().Pen

	s.CursorSave(true)

	s.CursorSet(7, 9)
	s.ResetSGR()
	s.SetFg(ColorGreen)

	s.CursorRestore(true)

	cur := s.Cursor()
	if cur.Y != 2 || cur.X != 3 {
		t.Errorf("expected (2, 3), got (%d, %d)", cur.Y, cur.X)
	}
	if cur.Pen != saved {
		t.Errorf("expected pen %+v, got %+v", saved, cur.Pen)
	}
}

func TestCursorSaveOverwrites(t *testing.T) {
	s := New()
	s.CursorSet(1, 1)
	s.SetFg(ColorRed)
	s.CursorSave(true)

	s.CursorSet(4, 5)
	s.SetFg(ColorCyan)
	s.CursorSave(true)

	s.CursorSet(0, 0)
	s.ResetSGR()
	s.CursorRestore(true)

	cur := s.Cursor()
	if cur.Y != 4 || cur.X != 5 || cur.Pen.Fg != ColorCyan {
		t.Errorf("expected second snapshot (4, 5) fg %d, got (%d, %d) fg %d", ColorCyan, cur.Y, cur.X, cur.Pen.Fg)
	}

	// snapshot is kept after restore
	s.CursorSet(0, 0)
	s.CursorRestore(false)
	if y, x := s.CursorGet(); y != 4 || x != 5 {
		t.Errorf("expected second restore at (4, 5), got (%d, %d)", y, x)
	}
}

func TestCursorSaveWithoutAttrs(t *testing.T) {
	s := New()
	s.CursorSet(3, 3)
	s.SetFg(ColorRed)
	s.CursorSave(false)

	s.SetFg(ColorGreen)
	s.CursorSet(0, 0)
	s.CursorRestore(true)

	cur := s.Cursor()
	if cur.Y != 3 || cur.X != 3 {
		t.Errorf("expected (3, 3), got (%d, %d)", cur.Y, cur.X)
	}
	if cur.Pen.Fg != ColorWhite {
		t.Errorf("expected default pen from attribute-less save, got fg %d", cur.Pen.Fg)
	}
}

func TestCursorRestoreWithoutSave(t *testing.T) {
	s := New()
	s.CursorSet(5, 5)
	s.SetFg(ColorRed)

	s.CursorRestore(true)

	cur := s.Cursor()
	if cur.Y != 0 || cur.X != 0 {
		t.Errorf("expected home, got (%d, %d)", cur.Y, cur.X)
	}
	if cur.Pen.Fg != ColorWhite {
		t.Errorf("expected default fg, got %d", cur.Pen.Fg)
	}
}

func TestResetSGRKeepsPositionAndModes(t *testing.T) {
	s := New()
	s.CursorSet(2, 2)
	s.SetInsertMode(true)
	s.SetFg(ColorRed)
	s.AttrEnable(AttrBlink)
	s.InverseEnable(true)

	s.ResetSGR()

	cur := s.Cursor()
	if cur.Pen != (Pen{Fg: ColorWhite, Bg: ColorBlack}) {
		t.Errorf("expected default pen, got %+v", cur.Pen)
	}
	if cur.Y != 2 || cur.X != 2 || !cur.InsertMode {
		t.Error("expected position and modes kept")
	}
}

func TestPenColorsClamp(t *testing.T) {
	s := New()
	s.SetFg(200)
	s.SetBg(16)

	cur := s.Cursor()
	if cur.Pen.Fg != MaxColor || cur.Pen.Bg != MaxColor {
		t.Errorf("expected clamped colors, got %d/%d", cur.Pen.Fg, cur.Pen.Bg)
	}
}

func TestAttrEnableDisable(t *testing.T) {
	s := New()
	s.AttrEnable(AttrBold | AttrUnderline | 0x80)
	if got := s.Cursor().Pen.Attrs; got != AttrBold|AttrUnderline {
		t.Errorf("expected bold|underline, got %d", got)
	}

	s.AttrDisable(AttrBold)
	if got := s.Cursor().Pen.Attrs; got != AttrUnderline {
		t.Errorf("expected underline, got %d", got)
	}
}

func TestInverseSwapsWrittenColors(t *testing.T) {
	s := New()
	s.SetFg(ColorRed)
	s.SetBg(ColorBlue)
	s.InverseEnable(true)

	s.PutRune('x')

	c, _ := s.Cell(0, 0)
	if c.Fg != ColorBlue || c.Bg != ColorRed {
		t.Errorf("expected swapped colors 4/1, got %d/%d", c.Fg, c.Bg)
	}
	if pen := s.Cursor().Pen; pen.Fg != ColorRed || pen.Bg != ColorBlue {
		t.Error("expected pen colors unchanged")
	}
}

// TestPutcharMatrix covers every insert x wrap x right-margin combination.
func TestPutcharMatrix(t *testing.T) {
	const rows, cols = 3, 5

	for _, insert := range []bool{false, true} {
		for _, wrap := range []bool{false, true} {
			for _, atMargin := range []bool{false, true} {
				for _, lastRow := range []bool{false, true} {
					name := fmt.Sprintf("insert=%v/wrap=%v/margin=%v/lastrow=%v", insert, wrap, atMargin, lastRow)
					t.Run(name, func(t *testing.T) {
						s := newTestScreen(rows, cols)
						fillRows(s)
						s.SetInsertMode(insert)
						s.WrapEnable(wrap)

						y, x := 1, 1
						if lastRow {
							y = rows - 1
						}
						if atMargin {
							x = cols - 1
						}
						s.CursorSet(y, x)
						before := s.LineContent(y)

						s.PutRune('#')

						// the written row, possibly scrolled up by one
						wy := y
						if atMargin && wrap && lastRow {
							wy = y - 1
						}
						c, _ := s.Cell(wy, x)
						if c.Rune() != '#' {
							t.Fatalf("expected '#' at (%d, %d), got %q", wy, x, c.Rune())
						}

						if insert && !atMargin {
							// the rest of the row shifted right, last cell discarded
							want := before[:x] + "#" + before[x:cols-1]
							if got := s.LineContent(wy); got != want {
								t.Errorf("expected row %q, got %q", want, got)
							}
						}

						gotY, gotX := s.CursorGet()
						wantY, wantX := y, x+1
						switch {
						case atMargin && wrap && lastRow:
							wantY, wantX = rows-1, 0
							if got := s.LineContent(rows - 1); got != "" {
								t.Errorf("expected blank row scrolled in, got %q", got)
							}
						case atMargin && wrap:
							wantY, wantX = y+1, 0
						case atMargin:
							wantX = cols - 1
						}
						if gotY != wantY || gotX != wantX {
							t.Errorf("expected cursor (%d, %d), got (%d, %d)", wantY, wantX, gotY, gotX)
						}
					})
				}
			}
		}
	}
}

func TestPutcharNoWrapOverwrites(t *testing.T) {
	s := newTestScreen(2, 4)
	s.WrapEnable(false)

	writeString(s, "abcdefg")

	if got := s.LineContent(0); got != "abcg" {
		t.Errorf("expected %q, got %q", "abcg", got)
	}
	if got := s.LineContent(1); got != "" {
		t.Errorf("expected second row empty, got %q", got)
	}
	if y, x := s.CursorGet(); y != 0 || x != 3 {
		t.Errorf("expected cursor at (0, 3), got (%d, %d)", y, x)
	}
}

func TestPutcharWrapScrolls(t *testing.T) {
	s := newTestScreen(2, 3)

	writeString(s, "abcdefgh")

	if got := s.LineContent(0); got != "def" {
		t.Errorf("row 0: expected %q, got %q", "def", got)
	}
	if got := s.LineContent(1); got != "gh" {
		t.Errorf("row 1: expected %q, got %q", "gh", got)
	}
}

func TestPutcharBytes(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"ascii", []byte{'A'}, "A"},
		{"two byte", []byte("\u00e9"), "\u00e9"},
		{"three byte", []byte("◆"), "◆"},
		{"four byte", []byte("😀"), "😀"},
		{"nul terminated", []byte{'Z', 0, 'Q'}, "Z"},
		{"truncated to four", []byte("😀x"), "😀"},
		{"malformed", []byte{0xE2, 0x82}, ""},
		{"continuation only", []byte{0x80}, ""},
		{"empty", nil, ""},
		{"only nul", []byte{0}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.Putchar(tt.in)

			if got := s.LineContent(0); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPutcharIgnoresZeroWidth(t *testing.T) {
	s := New()
	writeString(s, "e\u0301x")

	if got := s.LineContent(0); got != "ex" {
		t.Errorf("expected %q, got %q", "ex", got)
	}
	if _, x := s.CursorGet(); x != 2 {
		t.Errorf("expected cursor at column 2, got %d", x)
	}
}

func TestPutcharBlanksControlCharacters(t *testing.T) {
	s := newTestScreen(2, 5)
	s.Putchar([]byte{0x01})
	s.PutRune(0x7F)
	writeString(s, "a")

	for x, want := range []rune{' ', ' ', 'a'} {
		c, _ := s.Cell(0, x)
		if c.Rune() != want {
			t.Errorf("cell %d: expected %q, got %q", x, want, c.Rune())
		}
	}
	if _, x := s.CursorGet(); x != 3 {
		t.Errorf("expected cursor at column 3, got %d", x)
	}

	f := decodeScreen(t, s, 64)
	for x := 0; x < 3; x++ {
		c, _ := s.Cell(0, x)
		if got := f.Cell(0, x).Glyph; got != c.Glyph {
			t.Errorf("cell %d: expected decoded glyph %q, got %q", x, c.Glyph.String(), got.String())
		}
	}
}

func TestCharsets(t *testing.T) {
	s := New()

	s.SetCharset(1, CharsetDECGraphics)
	writeString(s, "q")
	s.SetCharsetN(1)
	writeString(s, "qx")
	s.SetCharsetN(0)
	s.SetCharset(0, CharsetUK)
	writeString(s, "#")
	s.SetCharset(0, 'Z')
	writeString(s, "#q")

	if got := s.LineContent(0); got != "q─│£#q" {
		t.Errorf("expected %q, got %q", "q─│£#q", got)
	}
}

func TestCharsetInvalidSlot(t *testing.T) {
	s := New()
	s.SetCharset(2, CharsetDECGraphics)
	s.SetCharset(-1, CharsetDECGraphics)
	s.SetCharsetN(5)

	cur := s.Cursor()
	if cur.Charsets != [2]byte{CharsetUS, CharsetUS} || cur.CharsetSlot != CharsetIndexG0 {
		t.Errorf("expected charsets untouched, got %q slot %d", cur.Charsets, cur.CharsetSlot)
	}
}

func TestModeSetters(t *testing.T) {
	s := New()
	s.CursorVisible(false)
	s.WrapEnable(false)
	s.SetNewlineMode(true)
	s.SetInsertMode(true)
	s.SetNumpadAltMode(true)
	s.SetCursorsAltMode(true)

	cur := s.Cursor()
	if cur.Visible || cur.WrapEnabled {
		t.Error("expected cursor hidden and wrap disabled")
	}
	if !cur.NewlineMode || !cur.InsertMode || !cur.NumpadAltMode || !cur.CursorsAltMode {
		t.Error("expected newline, insert, numpad and cursor key modes on")
	}
}
