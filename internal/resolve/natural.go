package resolve

// NaturalLess orders a and b the way people number files: runs of digits are
// compared by value, everything else byte by byte. "2x" sorts before "10x".
// Runs of equal value but different spelling ("01" and "1") fall back to the
// shorter spelling first so the order stays total.
func NaturalLess(a, b string) bool {
	return naturalCompare(a, b) < 0
}

func naturalCompare(a, b string) int {
	tieBreak := 0
	i, j := 0, 0

	for i < len(a) && j < len(b) {
		if isDigit(a[i]) && isDigit(b[j]) {
			si := i
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			sj := j
			for j < len(b) && isDigit(b[j]) {
				j++
			}

			ra, rb := a[si:i], b[sj:j]
			if c := compareDigitRuns(trimZeros(ra), trimZeros(rb)); c != 0 {
				return c
			}
			if tieBreak == 0 && len(ra) != len(rb) {
				tieBreak = cmpInt(len(ra), len(rb))
			}
			continue
		}

		if a[i] != b[j] {
			return cmpInt(int(a[i]), int(b[j]))
		}
		i++
		j++
	}

	if c := cmpInt(len(a)-i, len(b)-j); c != 0 {
		return c
	}
	return tieBreak
}

// compareDigitRuns compares two zero-trimmed digit strings by numeric value
// without parsing, so arbitrarily long runs cannot overflow.
func compareDigitRuns(a, b string) int {
	if len(a) != len(b) {
		return cmpInt(len(a), len(b))
	}
	for k := 0; k < len(a); k++ {
		if a[k] != b[k] {
			return cmpInt(int(a[k]), int(b[k]))
		}
	}
	return 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
