package stage

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	labelMax = 16
	// timeEpsilon nudges times up so values like 12.3456 do not truncate to
	// 12.3455 after the float multiply. It stays well below the last digit.
	timeEpsilon = 1e-6
)

// PicoLabel lowercases s, truncates it to 16 characters and prefixes the
// length minus one as a single hex digit. Empty labels become "unset".
func PicoLabel(s string) string {
	r := []rune(strings.ToLower(s))
	if len(r) > labelMax {
		r = r[:labelMax]
	}
	if len(r) == 0 {
		r = []rune("unset")
	}
	return fmt.Sprintf("%x%s", len(r)-1, string(r))
}

// PicoTime formats seconds as "SSS.FFFF": the integer part zero-padded to
// three digits, then the first four fractional digits truncated. The
// fraction is printed without leading zeros and right-padded with zeros:
// 1.05 becomes "001.5000".
func PicoTime(t float64) string {
	t += timeEpsilon
	whole := math.Floor(t)
	frac := strconv.Itoa(int(math.Floor((t - whole) * 10000)))
	if n := 4 - len(frac); n > 0 {
		frac += strings.Repeat("0", n)
	}
	return fmt.Sprintf("%03d.%s", int(whole), frac)
}

func hexDigit(v int) string { return fmt.Sprintf("%x", v) }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
