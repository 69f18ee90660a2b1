package vscreen

import "github.com/unilibs/uniwidth"

// isZeroWidth reports whether r takes no column of its own (combining marks,
// format characters). Control characters are not zero-width here.
func isZeroWidth(r rune) bool {
	return r >= 0x20 && uniwidth.RuneWidth(r) == 0
}

// StringWidth returns the total display width of a string (sum of rune widths).
func StringWidth(s string) int {
	return uniwidth.StringWidth(s)
}
