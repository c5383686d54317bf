package extraction

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber parses a number written with either comma or dot as the decimal mark.
// A lone separator followed by exactly three digits is read as a thousands separator,
// and when both separators appear the last one is the decimal mark.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		decimal, thousands := ".", ","
		if lastComma > lastDot {
			decimal, thousands = ",", "."
		}
		s = strings.ReplaceAll(s, thousands, "")
		s = strings.Replace(s, decimal, ".", 1)
	case lastDot >= 0 || lastComma >= 0:
		sep := "."
		if lastComma >= 0 {
			sep = ","
		}
		parts := strings.Split(s, sep)
		if len(parts) > 2 || len(parts[len(parts)-1]) == 3 {
			s = strings.Join(parts, "")
		} else {
			s = strings.Join(parts, ".")
		}
	}
	return strconv.ParseFloat(s, 64)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
