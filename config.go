package vscreen

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

const (
	// TermConfSize is the size of the persisted configuration record.
	// It must stay constant so stored settings survive upgrades.
	TermConfSize = 200

	TitleLen  = 64
	ButtonLen = 10

	// ButtonCount is the number of front-end buttons with labels.
	ButtonCount = 5
)

// Defaults for a fresh configuration.
const (
	DefaultWidth          = 26
	DefaultHeight         = 10
	DefaultTitle          = "ESPTerm"
	DefaultParserTimeout  = 10 * time.Millisecond
	DefaultDisplayTimeout = 20 * time.Millisecond
)

// offsets of the persisted record
const (
	offWidth          = 0
	offHeight         = 4
	offDefaultBg      = 8
	offDefaultFg      = 9
	offTitle          = 10
	offButtons        = offTitle + TitleLen
	offTheme          = offButtons + ButtonCount*ButtonLen
	offParserTimeout  = 128
	offDisplayTimeout = 132
	offFnAltMode      = 136
)

// ErrConfigSize is returned when decoding a record of the wrong length.
var ErrConfigSize = errors.New("vscreen: config record has wrong size")

// TerminalConfig holds the settings of the terminal: dimensions, default
// colors, title, button labels, theme, timing and keypad mode.
type TerminalConfig struct {
	Width          int                 `yaml:"width" json:"width"`
	Height         int                 `yaml:"height" json:"height"`
	DefaultBg      Color               `yaml:"default_bg" json:"default_bg"`
	DefaultFg      Color               `yaml:"default_fg" json:"default_fg"`
	Title          string              `yaml:"title" json:"title"`
	Buttons        [ButtonCount]string `yaml:"buttons" json:"buttons"`
	Theme          uint8               `yaml:"theme" json:"theme"`
	ParserTimeout  time.Duration       `yaml:"parser_timeout" json:"parser_timeout"`
	DisplayTimeout time.Duration       `yaml:"display_timeout" json:"display_timeout"`
	FnAltMode      bool                `yaml:"fn_alt_mode" json:"fn_alt_mode"`
}

// DefaultTerminalConfig returns the factory settings.
func DefaultTerminalConfig() TerminalConfig {
	return TerminalConfig{
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		DefaultBg:      ColorBlack,
		DefaultFg:      ColorWhite,
		Title:          DefaultTitle,
		Buttons:        [ButtonCount]string{"1", "2", "3", "4", "5"},
		ParserTimeout:  DefaultParserTimeout,
		DisplayTimeout: DefaultDisplayTimeout,
	}
}

// Normalize clamps every field into its representable range: dimensions fit
// the cell arena, colors are 0-15, text fields are cut at a UTF-8 boundary
// and timeouts are non-negative whole milliseconds.
func (c *TerminalConfig) Normalize() {
	c.Height, c.Width = clampDims(c.Height, c.Width)
	c.DefaultBg = clampColor(c.DefaultBg)
	c.DefaultFg = clampColor(c.DefaultFg)
	c.Title = truncateUTF8(c.Title, TitleLen)
	for i := range c.Buttons {
		c.Buttons[i] = truncateUTF8(c.Buttons[i], ButtonLen)
	}
	c.ParserTimeout = normalizeTimeout(c.ParserTimeout)
	c.DisplayTimeout = normalizeTimeout(c.DisplayTimeout)
}

func normalizeTimeout(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if limit := time.Duration(^uint32(0)) * time.Millisecond; d > limit {
		return limit
	}
	return d.Truncate(time.Millisecond)
}

// truncateUTF8 cuts s to at most n bytes without splitting a code point.
// NUL bytes terminate the string as they would in the persisted record.
func truncateUTF8(s string, n int) string {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			s = s[:i]
			break
		}
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// MarshalBinary encodes the configuration into the fixed TermConfSize layout.
func (c TerminalConfig) MarshalBinary() ([]byte, error) {
	c.Normalize()

	buf := make([]byte, TermConfSize)
	binary.LittleEndian.PutUint32(buf[offWidth:], uint32(c.Width))
	binary.LittleEndian.PutUint32(buf[offHeight:], uint32(c.Height))
	buf[offDefaultBg] = byte(c.DefaultBg)
	buf[offDefaultFg] = byte(c.DefaultFg)
	copy(buf[offTitle:offTitle+TitleLen], c.Title)
	for i, label := range c.Buttons {
		start := offButtons + i*ButtonLen
		copy(buf[start:start+ButtonLen], label)
	}
	buf[offTheme] = c.Theme
	binary.LittleEndian.PutUint32(buf[offParserTimeout:], uint32(c.ParserTimeout/time.Millisecond))
	binary.LittleEndian.PutUint32(buf[offDisplayTimeout:], uint32(c.DisplayTimeout/time.Millisecond))
	if c.FnAltMode {
		buf[offFnAltMode] = 1
	}
	return buf, nil
}

// UnmarshalBinary decodes a record produced by MarshalBinary.
// The decoded values are normalized.
func (c *TerminalConfig) UnmarshalBinary(data []byte) error {
	if len(data) != TermConfSize {
		return fmt.Errorf("decode %d bytes: %w", len(data), ErrConfigSize)
	}

	var out TerminalConfig
	out.Width = int(binary.LittleEndian.Uint32(data[offWidth:]))
	out.Height = int(binary.LittleEndian.Uint32(data[offHeight:]))
	out.DefaultBg = Color(data[offDefaultBg])
	out.DefaultFg = Color(data[offDefaultFg])
	out.Title = cString(data[offTitle : offTitle+TitleLen])
	for i := range out.Buttons {
		start := offButtons + i*ButtonLen
		out.Buttons[i] = cString(data[start : start+ButtonLen])
	}
	out.Theme = data[offTheme]
	out.ParserTimeout = time.Duration(binary.LittleEndian.Uint32(data[offParserTimeout:])) * time.Millisecond
	out.DisplayTimeout = time.Duration(binary.LittleEndian.Uint32(data[offDisplayTimeout:])) * time.Millisecond
	out.FnAltMode = data[offFnAltMode] != 0

	out.Normalize()
	*c = out
	return nil
}

// cString returns the bytes of b up to the first NUL.
func cString(b []byte) string {
	for i, v := range b {
		if v == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
