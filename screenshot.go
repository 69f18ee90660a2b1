package vscreen

import (
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// ScreenshotConfig controls how the screen is rendered to an image.
type ScreenshotConfig struct {
	// Font face to use for rendering. If nil, uses basicfont.Face7x13.
	Font font.Face

	// CellWidth and CellHeight override the cell dimensions.
	// If zero, derived from font metrics.
	CellWidth  int
	CellHeight int

	// Theme overrides the configured theme when set.
	Theme *uint8

	// ShowCursor controls whether to render the cursor. Default true.
	ShowCursor *bool
}

// LoadFont loads a TrueType or OpenType font from a file path.
func LoadFont(path string, size float64) (font.Face, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return LoadFontFromBytes(data, size)
}

// LoadFontFromBytes loads a TrueType or OpenType font from raw bytes.
func LoadFontFromBytes(data []byte, size float64) (font.Face, error) {
	ft, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}

	return opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Screenshot renders the screen with the configured theme and basicfont.
func (s *Screen) Screenshot() *image.RGBA {
	return s.ScreenshotWithConfig(&ScreenshotConfig{})
}

// ScreenshotWithConfig renders the screen to an RGBA image.
func (s *Screen) ScreenshotWithConfig(cfg *ScreenshotConfig) *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()

	face := cfg.Font
	if face == nil {
		face = basicfont.Face7x13
	}
	metrics := face.Metrics()

	cellWidth, cellHeight := cfg.CellWidth, cfg.CellHeight
	if cellWidth == 0 {
		adv, _ := face.GlyphAdvance('M')
		cellWidth = adv.Ceil()
		if cellWidth == 0 {
			cellWidth = 7 // fallback for basicfont
		}
	}
	if cellHeight == 0 {
		cellHeight = metrics.Height.Ceil()
	}

	theme := s.scratch.Theme
	if cfg.Theme != nil {
		theme = *cfg.Theme
	}
	palette := ThemePalette(theme)

	showCursor := true
	if cfg.ShowCursor != nil {
		showCursor = *cfg.ShowCursor
	}

	rows, cols := s.grid.rows, s.grid.cols
	img := image.NewRGBA(image.Rect(0, 0, cols*cellWidth, rows*cellHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(palette[s.scratch.DefaultBg&0x0F]), image.Point{}, draw.Src)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			cell := s.grid.Cell(y, x)
			rect := image.Rect(x*cellWidth, y*cellHeight, (x+1)*cellWidth, (y+1)*cellHeight)

			fgIndex := cell.Fg & 0x0F
			if cell.HasAttr(AttrBold) && fgIndex < 8 {
				fgIndex += 8
			}
			fg := palette[fgIndex]
			bg := palette[cell.Bg&0x0F]
			if cell.HasAttr(AttrFaint) {
				fg = dim(fg)
			}

			draw.Draw(img, rect, image.NewUniform(bg), image.Point{}, draw.Src)

			r := cell.Rune()
			if r < 0x20 || r == ' ' {
				continue
			}

			baseline := rect.Min.Y + metrics.Ascent.Ceil()
			d := &font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(fg),
				Face: face,
				Dot:  fixed.P(rect.Min.X, baseline),
			}
			d.DrawString(string(r))

			if cell.HasAttr(AttrUnderline) {
				line(img, rect.Min.X, rect.Max.X, min(baseline+2, rect.Max.Y-1), fg)
			}
			if cell.HasAttr(AttrStrike) {
				line(img, rect.Min.X, rect.Max.X, rect.Min.Y+cellHeight/2, fg)
			}
		}
	}

	if showCursor && s.cursor.Visible {
		invert(img, image.Rect(
			s.cursor.X*cellWidth, s.cursor.Y*cellHeight,
			(s.cursor.X+1)*cellWidth, (s.cursor.Y+1)*cellHeight,
		))
	}

	return img
}

func dim(c color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * 0.66),
		G: uint8(float64(c.G) * 0.66),
		B: uint8(float64(c.B) * 0.66),
		A: c.A,
	}
}

func line(img *image.RGBA, x0, x1, y int, c color.RGBA) {
	for x := x0; x < x1; x++ {
		img.SetRGBA(x, y, c)
	}
}

func invert(img *image.RGBA, rect image.Rectangle) {
	rect = rect.Intersect(img.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := img.RGBAAt(x, y)
			img.SetRGBA(x, y, color.RGBA{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B, A: 255})
		}
	}
}
