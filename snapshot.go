package vscreen

import (
	"fmt"
	"image/color"
)

// SnapshotDetail specifies the level of detail in a snapshot.
type SnapshotDetail string

const (
	// SnapshotDetailText returns plain text only.
	SnapshotDetailText SnapshotDetail = "text"
	// SnapshotDetailStyled returns text with style segments per line.
	SnapshotDetailStyled SnapshotDetail = "styled"
	// SnapshotDetailFull returns full cell-by-cell data.
	SnapshotDetailFull SnapshotDetail = "full"
)

// Snapshot is a JSON-friendly capture of the screen.
type Snapshot struct {
	Size   SnapshotSize   `json:"size"`
	Cursor SnapshotCursor `json:"cursor"`
	Title  string         `json:"title"`
	Theme  uint8          `json:"theme"`
	Lines  []SnapshotLine `json:"lines"`
}

// SnapshotSize holds screen dimensions.
type SnapshotSize struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// SnapshotCursor holds cursor state.
type SnapshotCursor struct {
	Row     int  `json:"row"`
	Col     int  `json:"col"`
	Visible bool `json:"visible"`
}

// SnapshotLine represents a single line in the snapshot.
type SnapshotLine struct {
	Text     string            `json:"text"`
	Segments []SnapshotSegment `json:"segments,omitempty"`
	Cells    []SnapshotCell    `json:"cells,omitempty"`
}

// SnapshotSegment is a run of cells sharing colors and attributes.
type SnapshotSegment struct {
	Text       string        `json:"text"`
	Fg         string        `json:"fg"`
	Bg         string        `json:"bg"`
	Attributes SnapshotAttrs `json:"attrs,omitempty"`
}

// SnapshotCell represents a single cell.
type SnapshotCell struct {
	Char       string        `json:"char"`
	Fg         string        `json:"fg"`
	Bg         string        `json:"bg"`
	Attributes SnapshotAttrs `json:"attrs,omitempty"`
}

// SnapshotAttrs holds text formatting attributes.
type SnapshotAttrs struct {
	Bold          bool `json:"bold,omitempty"`
	Faint         bool `json:"faint,omitempty"`
	Italic        bool `json:"italic,omitempty"`
	Underline     bool `json:"underline,omitempty"`
	Blink         bool `json:"blink,omitempty"`
	Fraktur       bool `json:"fraktur,omitempty"`
	Strikethrough bool `json:"strikethrough,omitempty"`
}

// Snapshot captures the screen at the requested detail level. Colors are
// rendered as hex strings in the configured theme.
func (s *Screen) Snapshot(detail SnapshotDetail) *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	palette := ThemePalette(s.scratch.Theme)
	snap := &Snapshot{
		Size: SnapshotSize{Rows: s.grid.rows, Cols: s.grid.cols},
		Cursor: SnapshotCursor{
			Row:     s.cursor.Y,
			Col:     s.cursor.X,
			Visible: s.cursor.Visible,
		},
		Title: s.scratch.Title,
		Theme: s.scratch.Theme,
		Lines: make([]SnapshotLine, s.grid.rows),
	}

	for y := range snap.Lines {
		line := SnapshotLine{Text: s.grid.LineContent(y)}
		switch detail {
		case SnapshotDetailStyled:
			line.Segments = lineToSegments(s.grid.row(y), &palette)
		case SnapshotDetailFull:
			line.Cells = lineToCells(s.grid.row(y), &palette)
		}
		snap.Lines[y] = line
	}
	return snap
}

func lineToSegments(cells []Cell, palette *[16]color.RGBA) []SnapshotSegment {
	var segments []SnapshotSegment
	var runes []rune
	var current *Cell

	flush := func() {
		if current == nil {
			return
		}
		segments = append(segments, SnapshotSegment{
			Text:       string(runes),
			Fg:         colorToHex(palette[current.Fg&0x0F]),
			Bg:         colorToHex(palette[current.Bg&0x0F]),
			Attributes: cellAttrsToSnapshot(current),
		})
		runes = runes[:0]
	}

	for i := range cells {
		cell := &cells[i]
		if current == nil || !cell.sameStyle(current) {
			flush()
			current = cell
		}
		runes = append(runes, cell.Rune())
	}
	flush()
	return segments
}

func lineToCells(cells []Cell, palette *[16]color.RGBA) []SnapshotCell {
	out := make([]SnapshotCell, len(cells))
	for i := range cells {
		cell := &cells[i]
		out[i] = SnapshotCell{
			Char:       string(cell.Rune()),
			Fg:         colorToHex(palette[cell.Fg&0x0F]),
			Bg:         colorToHex(palette[cell.Bg&0x0F]),
			Attributes: cellAttrsToSnapshot(cell),
		}
	}
	return out
}

func colorToHex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func cellAttrsToSnapshot(cell *Cell) SnapshotAttrs {
	return SnapshotAttrs{
		Bold:          cell.HasAttr(AttrBold),
		Faint:         cell.HasAttr(AttrFaint),
		Italic:        cell.HasAttr(AttrItalic),
		Underline:     cell.HasAttr(AttrUnderline),
		Blink:         cell.HasAttr(AttrBlink),
		Fraktur:       cell.HasAttr(AttrFraktur),
		Strikethrough: cell.HasAttr(AttrStrike),
	}
}
