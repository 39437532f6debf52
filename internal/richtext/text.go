package richtext

import "unicode/utf16"

// Offsets into a text leaf count UTF-16 code units, the unit browser
// selections report. Characters outside the Basic Multilingual Plane take
// two units and an offset between them is not a valid position.

// textLen returns the length of s in UTF-16 code units.
func textLen(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// byteIndex converts a UTF-16 offset into s to a byte index. It reports false
// when offset is out of range or falls inside a surrogate pair.
func byteIndex(s string, offset int) (int, bool) {
	if offset < 0 {
		return 0, false
	}
	units := 0
	for i, r := range s {
		if units == offset {
			return i, true
		}
		if units > offset {
			return 0, false
		}
		units += utf16.RuneLen(r)
	}
	if units == offset {
		return len(s), true
	}
	return 0, false
}

// splitText cuts s at a UTF-16 offset. Offsets that are not on a character
// boundary are clamped to the preceding boundary.
func splitText(s string, offset int) (string, string) {
	i, ok := byteIndex(s, offset)
	if !ok {
		i = len(s)
		units := 0
		for j, r := range s {
			if units+utf16.RuneLen(r) > offset {
				i = j
				break
			}
			units += utf16.RuneLen(r)
		}
	}
	return s[:i], s[i:]
}

// isBoundary reports whether offset addresses a position between characters of s.
func isBoundary(s string, offset int) bool {
	_, ok := byteIndex(s, offset)
	return ok
}
