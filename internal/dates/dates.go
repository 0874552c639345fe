package dates

import (
	"math"
	"strings"
	"time"
)

const dateFmt = "2006-01-02"

// DateKey converts an ISO-8601 timestamp (e.g. "2025-09-26T10:15:00Z") to a
// calendar date key "YYYY-MM-DD". Inputs that already look like a date string
// return their first ten characters.
func DateKey(iso string) string {
	if iso == "" {
		return ""
	}
	if len(iso) >= 10 && iso[4] == '-' && iso[7] == '-' {
		return iso[:10]
	}
	return strings.SplitN(iso, "T", 2)[0]
}

// ParseISO parses an ISO-8601 UTC timestamp, accepting both the "Z" suffix
// and an explicit offset.
func ParseISO(iso string) (time.Time, error) {
	return time.Parse(time.RFC3339, iso)
}

// RecencyDecay is an exponential decay with a roughly one-week memory:
// exp(-ageDays/7). Age zero means no decay.
func RecencyDecay(ageDays float64) float64 {
	return math.Exp(-ageDays / 7.0)
}

// DecayByDateKey weights a signal by how old its date key is relative to
// today, halving every halfLifeDays. Unparseable dates and future dates are
// not penalized.
func DecayByDateKey(dateKey, today string, halfLifeDays float64) float64 {
	d, err := time.Parse(dateFmt, DateKey(dateKey))
	if err != nil {
		return 1.0
	}
	var t time.Time
	if today != "" {
		if parsed, err := time.Parse(dateFmt, DateKey(today)); err == nil {
			t = parsed
		}
	}
	if t.IsZero() {
		now := time.Now().UTC()
		t = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	days := t.Sub(d).Hours() / 24
	if days <= 0 {
		return 1.0
	}
	if halfLifeDays <= 0 {
		halfLifeDays = 7.0
	}
	return math.Pow(0.5, days/halfLifeDays)
}
