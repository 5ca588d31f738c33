// Package duration provides parsing for human-readable duration strings.
package duration

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

var units = map[string]time.Duration{
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": day, "day": day, "days": day,
	"w": 7 * day, "wk": 7 * day, "wks": 7 * day, "week": 7 * day, "weeks": 7 * day,
	"mo": 30 * day, "month": 30 * day, "months": 30 * day,
	"y": 365 * day, "yr": 365 * day, "yrs": 365 * day, "year": 365 * day, "years": 365 * day,
}

// Parse parses human-readable durations like "90d", "2w" or "3mo". A month
// is 30 days and a year 365. Go duration strings such as "72h30m" are
// accepted as well.
func Parse(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	split := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if split > 0 {
		if unit, ok := units[strings.ToLower(s[split:])]; ok {
			n, err := strconv.Atoi(s[:split])
			if err != nil {
				return 0, fmt.Errorf("invalid duration %q: %w", s, err)
			}
			return time.Duration(n) * unit, nil
		}
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration format: %s (use e.g., 90d, 2w, 3mo)", s)
	}
	return d, nil
}
