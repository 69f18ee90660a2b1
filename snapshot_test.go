package vscreen

import (
	"encoding/json"
	"testing"
)

func TestSnapshot_Text(t *testing.T) {
	s := newTestScreen(3, 10)
	writeString(s, "Hello")
	s.CursorSet(1, 0)
	writeString(s, "World")

	snap := s.Snapshot(SnapshotDetailText)

	if snap.Size.Rows != 3 {
		t.Errorf("Size.Rows = %d, want 3", snap.Size.Rows)
	}
	if snap.Size.Cols != 10 {
		t.Errorf("Size.Cols = %d, want 10", snap.Size.Cols)
	}
	if len(snap.Lines) != 3 {
		t.Fatalf("len(Lines) = %d, want 3", len(snap.Lines))
	}
	if snap.Lines[0].Text != "Hello" {
		t.Errorf("Lines[0].Text = %q, want %q", snap.Lines[0].Text, "Hello")
	}
	if snap.Lines[1].Text != "World" {
		t.Errorf("Lines[1].Text = %q, want %q", snap.Lines[1].Text, "World")
	}
	if snap.Lines[0].Segments != nil || snap.Lines[0].Cells != nil {
		t.Error("Text mode should not have segments or cells")
	}
	if snap.Cursor.Row != 1 || snap.Cursor.Col != 5 || !snap.Cursor.Visible {
		t.Errorf("Cursor = %+v, want row 1 col 5 visible", snap.Cursor)
	}
	if snap.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", snap.Title, DefaultTitle)
	}
}

func TestSnapshot_Styled(t *testing.T) {
	s := newTestScreen(2, 10)
	s.SetFg(ColorRed)
	s.AttrEnable(AttrBold)
	writeString(s, "Red")
	s.ResetSGR()
	writeString(s, "Normal")

	snap := s.Snapshot(SnapshotDetailStyled)

	segs := snap.Lines[0].Segments
	if len(segs) != 2 {
		t.Fatalf("len(Segments) = %d, want 2: %+v", len(segs), segs)
	}
	if segs[0].Text != "Red" || !segs[0].Attributes.Bold {
		t.Errorf("Segments[0] = %+v, want bold Red", segs[0])
	}
	if segs[0].Fg != "#cc0000" {
		t.Errorf("Segments[0].Fg = %q, want tango red", segs[0].Fg)
	}
	if segs[1].Text != "Normal " || segs[1].Attributes.Bold {
		t.Errorf("Segments[1] = %+v, want plain text padded to the row", segs[1])
	}
	if snap.Lines[0].Cells != nil {
		t.Error("Styled mode should not have cells")
	}
}

func TestSnapshot_Full(t *testing.T) {
	s := newTestScreen(2, 4)
	s.AttrEnable(AttrUnderline | AttrStrike)
	writeString(s, "ab")

	snap := s.Snapshot(SnapshotDetailFull)

	cells := snap.Lines[0].Cells
	if len(cells) != 4 {
		t.Fatalf("len(Cells) = %d, want 4", len(cells))
	}
	if cells[0].Char != "a" || !cells[0].Attributes.Underline || !cells[0].Attributes.Strikethrough {
		t.Errorf("Cells[0] = %+v, want underlined struck 'a'", cells[0])
	}
	if cells[2].Char != " " || cells[2].Attributes.Underline {
		t.Errorf("Cells[2] = %+v, want plain blank", cells[2])
	}
	if cells[0].Bg != "#000000" {
		t.Errorf("Cells[0].Bg = %q, want black", cells[0].Bg)
	}
}

func TestSnapshot_ThemeColors(t *testing.T) {
	s := newTestScreen(1, 2)
	s.UpdateScratch(func(cfg *TerminalConfig) { cfg.Theme = ThemeSolarized })

	snap := s.Snapshot(SnapshotDetailFull)

	if snap.Theme != ThemeSolarized {
		t.Errorf("Theme = %d, want %d", snap.Theme, ThemeSolarized)
	}
	if got := snap.Lines[0].Cells[0].Bg; got != "#073642" {
		t.Errorf("Bg = %q, want solarized black", got)
	}
}

func TestSnapshot_JSON(t *testing.T) {
	s := newTestScreen(2, 5)
	writeString(s, "hi")

	data, err := json.Marshal(s.Snapshot(SnapshotDetailStyled))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Snapshot
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Lines[0].Text != "hi" || back.Size.Cols != 5 {
		t.Errorf("unexpected snapshot after round trip: %+v", back)
	}
}
