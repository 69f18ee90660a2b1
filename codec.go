package vscreen

// The numeric codec writes unsigned integers as base-91 digits drawn from the
// printable bytes 0x23..0x7E with the backslash removed, so encoded numbers
// never contain control characters, quotes or JSON escapes.

const codecBase = 91

const (
	codecFirst     = 0x23 // '#'
	codecLast      = 0x7E // '~'
	codecBackslash = 0x5C
)

const (
	// Max2B is the largest value representable by Encode2B.
	Max2B = codecBase*codecBase - 1
	// Max3B is the largest value representable by Encode3B.
	Max3B = codecBase*codecBase*codecBase - 1
)

// WordB2 is a number encoded as two ASCII-safe bytes, least significant first.
type WordB2 struct {
	Lsb byte
	Msb byte
}

// WordB3 is a number encoded as three ASCII-safe bytes, least significant first.
type WordB3 struct {
	Lsb byte
	Msb byte
	Xsb byte
}

func digitByte(d uint32) byte {
	b := byte(d) + codecFirst
	if b >= codecBackslash {
		b++
	}
	return b
}

// digitValue returns the digit encoded by b, or false if b is outside the alphabet.
func digitValue(b byte) (uint32, bool) {
	if b < codecFirst || b > codecLast || b == codecBackslash {
		return 0, false
	}
	if b > codecBackslash {
		b--
	}
	return uint32(b - codecFirst), true
}

// IsCodecByte reports whether b belongs to the codec alphabet.
func IsCodecByte(b byte) bool {
	_, ok := digitValue(b)
	return ok
}

// Encode2B encodes number into two bytes. Values above Max2B are clamped.
func Encode2B(number uint16) WordB2 {
	n := uint32(number)
	if n > Max2B {
		n = Max2B
	}
	return WordB2{
		Lsb: digitByte(n % codecBase),
		Msb: digitByte(n / codecBase),
	}
}

// Decode2B is the inverse of Encode2B. Bytes outside the alphabet count as zero.
func Decode2B(w WordB2) uint16 {
	lsb, _ := digitValue(w.Lsb)
	msb, _ := digitValue(w.Msb)
	return uint16(lsb + msb*codecBase)
}

// Encode3B encodes number into three bytes. Values above Max3B are clamped.
func Encode3B(number uint32) WordB3 {
	if number > Max3B {
		number = Max3B
	}
	return WordB3{
		Lsb: digitByte(number % codecBase),
		Msb: digitByte((number / codecBase) % codecBase),
		Xsb: digitByte(number / (codecBase * codecBase)),
	}
}

// Decode3B is the inverse of Encode3B. Bytes outside the alphabet count as zero.
func Decode3B(w WordB3) uint32 {
	lsb, _ := digitValue(w.Lsb)
	msb, _ := digitValue(w.Msb)
	xsb, _ := digitValue(w.Xsb)
	return lsb + msb*codecBase + xsb*codecBase*codecBase
}

// append2B appends the 2-byte encoding of n, clamping n into range.
func append2B(dst []byte, n int) []byte {
	if n < 0 {
		n = 0
	}
	if n > Max2B {
		n = Max2B
	}
	w := Encode2B(uint16(n))
	return append(dst, w.Lsb, w.Msb)
}

// append3B appends the 3-byte encoding of n.
func append3B(dst []byte, n uint32) []byte {
	w := Encode3B(n)
	return append(dst, w.Lsb, w.Msb, w.Xsb)
}
