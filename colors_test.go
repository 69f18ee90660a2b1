package vscreen

import (
	"image/color"
	"testing"
)

func TestDefaultPalette(t *testing.T) {
	tests := []struct {
		index int
		want  color.RGBA
	}{
		{1, color.RGBA{205, 0, 0, 255}},
		{16, color.RGBA{0, 0, 0, 255}},
		{196, color.RGBA{255, 0, 0, 255}},
		{231, color.RGBA{255, 255, 255, 255}},
		{232, color.RGBA{8, 8, 8, 255}},
		{255, color.RGBA{238, 238, 238, 255}},
	}

	for _, tt := range tests {
		if got := DefaultPalette[tt.index]; got != tt.want {
			t.Errorf("palette[%d]: expected %v, got %v", tt.index, tt.want, got)
		}
	}
}

func TestNearestColor(t *testing.T) {
	tests := []struct {
		in   color.RGBA
		want Color
	}{
		{color.RGBA{0, 0, 0, 255}, ColorBlack},
		{color.RGBA{250, 5, 5, 255}, ColorBrightRed},
		{color.RGBA{200, 0, 0, 255}, ColorRed},
		{color.RGBA{255, 255, 255, 255}, ColorBrightWhite},
		{color.RGBA{0, 205, 205, 255}, ColorCyan},
	}

	for _, tt := range tests {
		if got := NearestColor(tt.in); got != tt.want {
			t.Errorf("%v: expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestIndexedColor(t *testing.T) {
	tests := []struct {
		index int
		want  Color
	}{
		{-1, ColorBlack},
		{3, ColorYellow},
		{15, ColorBrightWhite},
		{196, ColorBrightRed},
		{16, ColorBlack},
		{231, ColorBrightWhite},
		{400, ColorBrightWhite},
	}

	for _, tt := range tests {
		if got := IndexedColor(tt.index); got != tt.want {
			t.Errorf("index %d: expected %d, got %d", tt.index, tt.want, got)
		}
	}
}

func TestThemePalette(t *testing.T) {
	if ThemeCount != 6 {
		t.Errorf("expected 6 themes, got %d", ThemeCount)
	}
	if got := ThemePalette(ThemeLinux)[1]; got != (color.RGBA{0xaa, 0, 0, 255}) {
		t.Errorf("expected linux red, got %v", got)
	}
	if ThemePalette(200) != ThemePalette(ThemeTango) {
		t.Error("expected unknown theme to fall back to tango")
	}
}
