package vscreen

import "image/color"

// DefaultPalette is the xterm 256-color palette: 16 named colors (0-15),
// 216 color cube (16-231), 24 grayscale (232-255). It is used to map
// extended SGR colors onto the 16 screen colors.
var DefaultPalette [256]color.RGBA

// cubeLevels are the channel intensities of the 6x6x6 color cube.
var cubeLevels = [6]uint8{0, 95, 135, 175, 215, 255}

func init() {
	copy(DefaultPalette[:16], themes[ThemeXterm][:])

	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				DefaultPalette[i] = color.RGBA{cubeLevels[r], cubeLevels[g], cubeLevels[b], 255}
				i++
			}
		}
	}

	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		DefaultPalette[232+j] = color.RGBA{gray, gray, gray, 255}
	}
}

// Theme identifiers understood by the front-end.
const (
	ThemeTango uint8 = iota
	ThemeLinux
	ThemeXterm
	ThemeRxvt
	ThemeAmbience
	ThemeSolarized
)

func rgb(v uint32) color.RGBA {
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}
}

// themes holds the 16-color palette of each theme, indexed as Color.
var themes = [...][16]color.RGBA{
	ThemeTango: {
		rgb(0x000000), rgb(0xcc0000), rgb(0x4e9a06), rgb(0xc4a000),
		rgb(0x3465a4), rgb(0x75507b), rgb(0x06989a), rgb(0xd3d7cf),
		rgb(0x555753), rgb(0xef2929), rgb(0x8ae234), rgb(0xfce94f),
		rgb(0x729fcf), rgb(0xad7fa8), rgb(0x34e2e2), rgb(0xeeeeec),
	},
	ThemeLinux: {
		rgb(0x000000), rgb(0xaa0000), rgb(0x00aa00), rgb(0xaa5500),
		rgb(0x0000aa), rgb(0xaa00aa), rgb(0x00aaaa), rgb(0xaaaaaa),
		rgb(0x555555), rgb(0xff5555), rgb(0x55ff55), rgb(0xffff55),
		rgb(0x5555ff), rgb(0xff55ff), rgb(0x55ffff), rgb(0xffffff),
	},
	ThemeXterm: {
		rgb(0x000000), rgb(0xcd0000), rgb(0x00cd00), rgb(0xcdcd00),
		rgb(0x0000ee), rgb(0xcd00cd), rgb(0x00cdcd), rgb(0xe5e5e5),
		rgb(0x7f7f7f), rgb(0xff0000), rgb(0x00ff00), rgb(0xffff00),
		rgb(0x5c5cff), rgb(0xff00ff), rgb(0x00ffff), rgb(0xffffff),
	},
	ThemeRxvt: {
		rgb(0x000000), rgb(0xcd0000), rgb(0x00cd00), rgb(0xcdcd00),
		rgb(0x0000cd), rgb(0xcd00cd), rgb(0x00cdcd), rgb(0xfaebd7),
		rgb(0x404040), rgb(0xff0000), rgb(0x00ff00), rgb(0xffff00),
		rgb(0x0000ff), rgb(0xff00ff), rgb(0x00ffff), rgb(0xffffff),
	},
	ThemeAmbience: {
		rgb(0x2e3436), rgb(0xcc0000), rgb(0x4e9a06), rgb(0xc4a000),
		rgb(0x3465a4), rgb(0x75507b), rgb(0x06989a), rgb(0xd3d7cf),
		rgb(0x555753), rgb(0xef2929), rgb(0x8ae234), rgb(0xfce94f),
		rgb(0x729fcf), rgb(0xad7fa8), rgb(0x34e2e2), rgb(0xeeeeec),
	},
	ThemeSolarized: {
		rgb(0x073642), rgb(0xdc322f), rgb(0x859900), rgb(0xb58900),
		rgb(0x268bd2), rgb(0xd33682), rgb(0x2aa198), rgb(0xeee8d5),
		rgb(0x002b36), rgb(0xcb4b16), rgb(0x586e75), rgb(0x657b83),
		rgb(0x839496), rgb(0x6c71c4), rgb(0x93a1a1), rgb(0xfdf6e3),
	},
}

// ThemeCount is the number of known themes.
const ThemeCount = len(themes)

// ThemePalette returns the 16-color palette of theme.
// Unknown themes fall back to ThemeTango.
func ThemePalette(theme uint8) [16]color.RGBA {
	if int(theme) >= len(themes) {
		return themes[ThemeTango]
	}
	return themes[theme]
}

// NearestColor maps an RGB value onto the closest of the 16 screen colors.
func NearestColor(c color.RGBA) Color {
	best := ColorBlack
	bestDist := -1
	for i := 0; i < 16; i++ {
		p := DefaultPalette[i]
		dr := int(c.R) - int(p.R)
		dg := int(c.G) - int(p.G)
		db := int(c.B) - int(p.B)
		dist := dr*dr + dg*dg + db*db
		if bestDist < 0 || dist < bestDist {
			best = Color(i)
			bestDist = dist
		}
	}
	return best
}

// IndexedColor maps a 256-color palette index onto the 16 screen colors.
func IndexedColor(index int) Color {
	switch {
	case index < 0:
		return ColorBlack
	case index < 16:
		return Color(index)
	case index < len(DefaultPalette):
		return NearestColor(DefaultPalette[index])
	default:
		return ColorBrightWhite
	}
}
