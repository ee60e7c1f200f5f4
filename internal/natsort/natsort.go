package natsort

import (
	"strings"
	"unicode"
)

// Compare compares two strings in natural order: runs of digits are compared
// by numeric value, everything else case-insensitively byte-wise, so that
// "img2.jpg" sorts before "img10.jpg".
// Returns -1, 0, or 1 like strings.Compare.
func Compare(a, b string) int {
	ia, ib := 0, 0
	for ia < len(a) && ib < len(b) {
		ca, cb := a[ia], b[ib]

		if isDigit(ca) && isDigit(cb) {
			// Compare the full digit runs numerically. Leading zeros are
			// skipped so "007" == "7"; longer significant runs are larger.
			sa, ea := digitRun(a, ia)
			sb, eb := digitRun(b, ib)

			if c := compareDigits(a[sa:ea], b[sb:eb]); c != 0 {
				return c
			}
			ia, ib = ea, eb
			continue
		}

		la := lower(ca)
		lb := lower(cb)
		if la != lb {
			if la < lb {
				return -1
			}
			return 1
		}
		ia++
		ib++
	}

	switch {
	case len(a)-ia < len(b)-ib:
		return -1
	case len(a)-ia > len(b)-ib:
		return 1
	}
	// Equal ignoring case; fall back to exact comparison for stability.
	return strings.Compare(a, b)
}

// Less reports whether a sorts before b in natural order.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func lower(c byte) byte {
	return byte(unicode.ToLower(rune(c)))
}

// digitRun returns the bounds of the digit run starting at i.
func digitRun(s string, i int) (start, end int) {
	start = i
	end = i
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	return start, end
}

// compareDigits compares two digit strings by numeric value without
// converting to integers, so arbitrarily long runs are safe.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
