package grade

import (
	"math"
	"strconv"
	"strings"
)

// ParsePercent parses raw user text as a number. Surrounding whitespace is
// ignored; empty text, NaN and infinities are not numbers.
func ParsePercent(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// percentOrZero is the lenient form of ParsePercent used for sums.
func percentOrZero(raw string) float64 {
	v, ok := ParsePercent(raw)
	if !ok {
		return 0
	}
	return v
}
