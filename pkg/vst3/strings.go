package vst3

import "unicode/utf16"

// String128Len is the size of the fixed string fields of the C API, counting
// the terminator.
const String128Len = 128

// EncodeString writes s into dst as NUL terminated UTF-16 and returns the
// number of code units written before the terminator. Text that does not fit
// is cut at a character boundary.
func EncodeString(dst []uint16, s string) int {
	if len(dst) == 0 {
		return 0
	}
	limit := len(dst) - 1
	n := 0
	for _, r := range s {
		size := utf16.RuneLen(r)
		if size < 0 || n+size > limit {
			break
		}
		utf16.AppendRune(dst[n:n], r)
		n += size
	}
	dst[n] = 0
	return n
}

// DecodeString reads UTF-16 from src up to the first NUL.
func DecodeString(src []uint16) string {
	for i, u := range src {
		if u == 0 {
			src = src[:i]
			break
		}
	}
	return string(utf16.Decode(src))
}
