package format

import (
	"fmt"
	"strings"
)

// Compact formats counts such as star totals: 950, "1.2k", "45k", "1.3M".
func Compact(n int) string {
	switch {
	case n < 0:
		return "-" + Compact(-n)
	case n < 1000:
		return fmt.Sprintf("%d", n)
	case n < 10_000:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1000)) + "k"
	case n < 1_000_000:
		return fmt.Sprintf("%dk", n/1000)
	default:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1_000_000)) + "M"
	}
}

// Score formats a 0-100 score without a trailing ".0".
func Score(v float64) string {
	return trimZero(fmt.Sprintf("%.1f", v))
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
