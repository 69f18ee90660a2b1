package vscreen

import "unicode/utf8"

// ClearMode selects the extent of Clear and ClearLine.
type ClearMode int

const (
	// ClearToCursor erases from the start up to and including the cursor.
	ClearToCursor ClearMode = iota
	// ClearFromCursor erases from the cursor to the end.
	ClearFromCursor
	// ClearAll erases everything.
	ClearAll
)

// --- Clearing ---

// Clear erases part of the screen relative to the cursor.
// Erased cells take the default colors, not the pen.
func (s *Screen) Clear(mode ClearMode) {
	s.mutate(func() bool {
		pos := s.cursor.Y*s.grid.cols + s.cursor.X
		switch mode {
		case ClearToCursor:
			s.grid.ClearRange(0, pos+1, s.fillCell())
		case ClearFromCursor:
			s.grid.ClearRange(pos, s.grid.rows*s.grid.cols, s.fillCell())
		case ClearAll:
			s.grid.ClearAll(s.fillCell())
		default:
			return false
		}
		return true
	}, ChangeContent)
}

// ClearLine erases part of the cursor row.
func (s *Screen) ClearLine(mode ClearMode) {
	s.mutate(func() bool {
		y, x := s.cursor.Y, s.cursor.X
		switch mode {
		case ClearToCursor:
			s.grid.ClearRowRange(y, 0, x+1, s.fillCell())
		case ClearFromCursor:
			s.grid.ClearRowRange(y, x, s.grid.cols, s.fillCell())
		case ClearAll:
			s.grid.ClearRowRange(y, 0, s.grid.cols, s.fillCell())
		default:
			return false
		}
		return true
	}, ChangeContent)
}

// ClearInLine erases count cells starting at the cursor, stopping at the end of the row.
func (s *Screen) ClearInLine(count int) {
	if count <= 0 {
		return
	}
	s.mutate(func() bool {
		x := s.cursor.X
		s.grid.ClearRowRange(s.cursor.Y, x, x+min(count, s.grid.cols), s.fillCell())
		return true
	}, ChangeContent)
}

// ScrollUp shifts the whole grid up by lines rows. Rows leaving the top are
// discarded and the exposed bottom rows are blank. The cursor does not move.
func (s *Screen) ScrollUp(lines int) {
	if lines <= 0 {
		return
	}
	s.mutate(func() bool {
		s.grid.ScrollUp(0, s.grid.rows, lines, s.fillCell())
		return true
	}, ChangeContent)
}

// ScrollDown shifts the whole grid down by lines rows.
func (s *Screen) ScrollDown(lines int) {
	if lines <= 0 {
		return
	}
	s.mutate(func() bool {
		s.grid.ScrollDown(0, s.grid.rows, lines, s.fillCell())
		return true
	}, ChangeContent)
}

// FillWithE overwrites every cell with 'E' in the default colors (DEC alignment test).
func (s *Screen) FillWithE() {
	s.mutate(func() bool {
		s.grid.FillWithE(s.fillCell())
		return true
	}, ChangeContent)
}

// --- Insert / delete ---

// InsertLines inserts blank rows at the cursor row, pushing the rows below down.
// Rows pushed past the bottom are discarded.
func (s *Screen) InsertLines(lines int) {
	if lines <= 0 {
		return
	}
	s.mutate(func() bool {
		s.grid.InsertLines(s.cursor.Y, lines, s.fillCell())
		return true
	}, ChangeContent)
}

// DeleteLines removes rows at the cursor row, pulling the rows below up.
func (s *Screen) DeleteLines(lines int) {
	if lines <= 0 {
		return
	}
	s.mutate(func() bool {
		s.grid.DeleteLines(s.cursor.Y, lines, s.fillCell())
		return true
	}, ChangeContent)
}

// InsertCharacters inserts blank cells at the cursor, shifting the rest of the row right.
func (s *Screen) InsertCharacters(count int) {
	if count <= 0 {
		return
	}
	s.mutate(func() bool {
		s.grid.InsertBlanks(s.cursor.Y, s.cursor.X, count, s.fillCell())
		return true
	}, ChangeContent)
}

// DeleteCharacters removes cells at the cursor, shifting the rest of the row left.
func (s *Screen) DeleteCharacters(count int) {
	if count <= 0 {
		return
	}
	s.mutate(func() bool {
		s.grid.DeleteChars(s.cursor.Y, s.cursor.X, count, s.fillCell())
		return true
	}, ChangeContent)
}

// --- Cursor control ---

// setPos moves the cursor, reporting whether it moved.
func (s *Screen) setPos(y, x int) bool {
	y = clamp(y, 0, s.grid.rows-1)
	x = clamp(x, 0, s.grid.cols-1)
	if y == s.cursor.Y && x == s.cursor.X {
		return false
	}
	s.cursor.Y, s.cursor.X = y, x
	return true
}

// CursorSet moves the cursor to (y, x), clamped into the grid. It never scrolls.
func (s *Screen) CursorSet(y, x int) {
	s.mutate(func() bool {
		return s.setPos(y, x)
	}, ChangeContent)
}

// CursorGet returns the cursor position.
func (s *Screen) CursorGet() (y, x int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor.Y, s.cursor.X
}

// CursorSetX moves the cursor to column x, keeping the row.
func (s *Screen) CursorSetX(x int) {
	s.mutate(func() bool {
		return s.setPos(s.cursor.Y, x)
	}, ChangeContent)
}

// CursorSetY moves the cursor to row y, keeping the column.
func (s *Screen) CursorSetY(y int) {
	s.mutate(func() bool {
		return s.setPos(y, s.cursor.X)
	}, ChangeContent)
}

// CursorMove moves the cursor relative to its position. The column clamps.
// When the row leaves the grid and scroll is set, the grid scrolls by the
// overshoot and the cursor stays on the edge row; otherwise the row clamps.
func (s *Screen) CursorMove(dy, dx int, scroll bool) {
	s.mutate(func() bool {
		return s.moveLocked(dy, dx, scroll)
	}, ChangeContent)
}

func (s *Screen) moveLocked(dy, dx int, scroll bool) bool {
	y := s.cursor.Y + dy
	x := s.cursor.X + dx
	changed := false

	if scroll {
		if y < 0 {
			s.grid.ScrollDown(0, s.grid.rows, -y, s.fillCell())
			changed = true
		} else if y >= s.grid.rows {
			s.grid.ScrollUp(0, s.grid.rows, y-s.grid.rows+1, s.fillCell())
			changed = true
		}
	}

	if s.setPos(y, x) {
		changed = true
	}
	return changed
}

// CursorSave stores the cursor position, and with withAttrs also the pen and
// charsets. A second save overwrites the first.
func (s *Screen) CursorSave(withAttrs bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saved == nil {
		s.saved = &savedCursor{
			Pen:      s.defaultPen(),
			Charsets: [2]byte{CharsetUS, CharsetUS},
		}
	}
	s.saved.Y, s.saved.X = s.cursor.Y, s.cursor.X
	if withAttrs {
		s.saved.Pen = s.cursor.Pen
		s.saved.Charsets = s.cursor.Charsets
		s.saved.CharsetSlot = s.cursor.CharsetSlot
	}
}

// CursorRestore returns to the saved position, and with withAttrs also
// restores the pen and charsets. Without a saved state the cursor goes home
// and withAttrs resets the pen. The saved state is kept.
func (s *Screen) CursorRestore(withAttrs bool) {
	s.mutate(func() bool {
		saved := s.saved
		if saved == nil {
			saved = &savedCursor{
				Pen:      s.defaultPen(),
				Charsets: [2]byte{CharsetUS, CharsetUS},
			}
		}
		if withAttrs {
			s.cursor.Pen = saved.Pen
			s.cursor.Charsets = saved.Charsets
			s.cursor.CharsetSlot = saved.CharsetSlot
		}
		return s.setPos(saved.Y, saved.X)
	}, ChangeContent)
}

// setFlag updates a mode flag, reporting whether it changed.
func setFlag(flag *bool, v bool) bool {
	if *flag == v {
		return false
	}
	*flag = v
	return true
}

// CursorVisible shows or hides the cursor.
func (s *Screen) CursorVisible(visible bool) {
	s.mutate(func() bool {
		return setFlag(&s.cursor.Visible, visible)
	}, ChangeContent)
}

// WrapEnable toggles automatic wrapping at the right margin.
func (s *Screen) WrapEnable(enable bool) {
	s.mutate(func() bool {
		return setFlag(&s.cursor.WrapEnabled, enable)
	}, ChangeContent)
}

// SetNewlineMode toggles LF implying CR.
func (s *Screen) SetNewlineMode(nlm bool) {
	s.mutate(func() bool {
		return setFlag(&s.cursor.NewlineMode, nlm)
	}, ChangeContent)
}

// SetInsertMode toggles between insert and replace.
func (s *Screen) SetInsertMode(insert bool) {
	s.mutate(func() bool {
		return setFlag(&s.cursor.InsertMode, insert)
	}, ChangeContent)
}

// SetNumpadAltMode toggles application keypad mode.
func (s *Screen) SetNumpadAltMode(appMode bool) {
	s.mutate(func() bool {
		return setFlag(&s.cursor.NumpadAltMode, appMode)
	}, ChangeContent)
}

// SetCursorsAltMode toggles application cursor keys mode.
func (s *Screen) SetCursorsAltMode(appMode bool) {
	s.mutate(func() bool {
		return setFlag(&s.cursor.CursorsAltMode, appMode)
	}, ChangeContent)
}

// --- Pen ---

// penLocked runs fn on the pen under the write lock. Pen changes are not
// visible until a cell is written, so nothing is notified.
func (s *Screen) penLocked(fn func(p *Pen)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.cursor.Pen)
}

// ResetSGR restores the pen to the default colors with no attributes.
// Position and modes are untouched.
func (s *Screen) ResetSGR() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor.Pen = s.defaultPen()
}

// SetFg sets the pen foreground. Colors above 15 are clamped.
func (s *Screen) SetFg(color Color) {
	s.penLocked(func(p *Pen) { p.Fg = clampColor(color) })
}

// SetBg sets the pen background. Colors above 15 are clamped.
func (s *Screen) SetBg(color Color) {
	s.penLocked(func(p *Pen) { p.Bg = clampColor(color) })
}

// AttrEnable sets the attribute bits in attrs.
func (s *Screen) AttrEnable(attrs Attr) {
	s.penLocked(func(p *Pen) { p.Attrs |= attrs & AttrMask })
}

// AttrDisable clears the attribute bits in attrs.
func (s *Screen) AttrDisable(attrs Attr) {
	s.penLocked(func(p *Pen) { p.Attrs &^= attrs })
}

// InverseEnable toggles swapping of fg and bg on written cells.
func (s *Screen) InverseEnable(enable bool) {
	s.penLocked(func(p *Pen) { p.Inverse = enable })
}

// --- Charsets ---

// SetCharsetN selects slot G0 (0) or G1 (1) for subsequent writes.
func (s *Screen) SetCharsetN(slot int) {
	if slot < int(CharsetIndexG0) || slot > int(CharsetIndexG1) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor.CharsetSlot = CharsetIndex(slot)
}

// SetCharset binds a designator ('B', 'A' or '0') to slot G0 or G1.
// Unknown designators behave as 'B'.
func (s *Screen) SetCharset(slot int, designator byte) {
	if slot < int(CharsetIndexG0) || slot > int(CharsetIndexG1) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor.Charsets[slot] = designator
}

// --- Writing ---

// Putchar writes one character at the cursor in the pen's rendition. ch is
// either an ASCII byte or one UTF-8 encoded code point of up to 4 bytes,
// optionally NUL terminated. Malformed input is ignored.
func (s *Screen) Putchar(ch []byte) {
	if len(ch) > utf8.UTFMax {
		ch = ch[:utf8.UTFMax]
	}
	for i, b := range ch {
		if b == 0 {
			ch = ch[:i]
			break
		}
	}
	if len(ch) == 0 {
		return
	}
	r, size := utf8.DecodeRune(ch)
	if r == utf8.RuneError && size <= 1 {
		return
	}
	s.PutRune(r)
}

// PutRune writes r at the cursor and advances it. ASCII runes pass through
// the active charset, control characters are written as blanks and
// zero-width runes are ignored.
//
// Insert mode shifts the rest of the row right before writing. At the right
// margin the cursor wraps to the next row, scrolling at the bottom, or stays
// on the last column when wrapping is disabled.
func (s *Screen) PutRune(r rune) {
	if r < 0 || r > utf8.MaxRune {
		return
	}
	s.mutate(func() bool {
		return s.putLocked(r)
	}, ChangeContent)
}

func (s *Screen) putLocked(r rune) bool {
	if r < 0x20 || r == 0x7F {
		// C0 and DEL go out as blanks on the wire as well
		r = ' '
	} else if r < utf8.RuneSelf {
		r = s.cursor.translate(r)
	}
	if isZeroWidth(r) {
		return false
	}

	rows, cols := s.grid.rows, s.grid.cols
	c := &s.cursor
	c.X = clamp(c.X, 0, cols-1)
	c.Y = clamp(c.Y, 0, rows-1)

	if c.InsertMode {
		s.grid.InsertBlanks(c.Y, c.X, 1, s.fillCell())
	}
	s.grid.SetCell(c.Y, c.X, c.Pen.cell(GlyphOf(r)))

	c.X++
	if c.X >= cols {
		if c.WrapEnabled {
			c.X = 0
			c.Y++
			if c.Y >= rows {
				s.grid.ScrollUp(0, rows, 1, s.fillCell())
				c.Y = rows - 1
			}
		} else {
			c.X = cols - 1
		}
	}
	return true
}
