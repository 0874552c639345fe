package dates

import (
	"math"
	"testing"
)

func TestDateKey(t *testing.T) {
	cases := map[string]string{
		"2025-09-26T10:15:00Z":      "2025-09-26",
		"2025-09-26T10:15:00+05:30": "2025-09-26",
		"2025-09-26":                "2025-09-26",
		"":                          "",
	}
	for in, want := range cases {
		if got := DateKey(in); got != want {
			t.Errorf("DateKey(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestParseISO(t *testing.T) {
	ts, err := ParseISO("2025-09-26T10:15:00Z")
	if err != nil {
		t.Fatalf("Expected valid timestamp to parse, got %v", err)
	}
	if ts.Year() != 2025 || ts.Hour() != 10 {
		t.Errorf("Expected 2025 / 10h, got %v", ts)
	}

	if _, err := ParseISO("not-a-date"); err == nil {
		t.Error("Expected error for garbage input")
	}
	if _, err := ParseISO("2025-09-26"); err == nil {
		t.Error("Expected error for date without time component")
	}
}

func TestRecencyDecay(t *testing.T) {
	if got := RecencyDecay(0); got != 1.0 {
		t.Errorf("Expected no decay at age zero, got %v", got)
	}
	if got := RecencyDecay(7); math.Abs(got-math.Exp(-1)) > 1e-12 {
		t.Errorf("Expected e^-1 at one week, got %v", got)
	}
	if RecencyDecay(14) >= RecencyDecay(7) {
		t.Error("Expected decay to be monotonically decreasing")
	}
}

func TestDecayByDateKey(t *testing.T) {
	if got := DecayByDateKey("2025-09-26", "2025-09-26", 7); got != 1.0 {
		t.Errorf("Expected 1.0 for same-day, got %v", got)
	}
	if got := DecayByDateKey("2025-09-19", "2025-09-26", 7); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("Expected 0.5 after one half-life, got %v", got)
	}
	// Future and unparseable dates are not penalized.
	if got := DecayByDateKey("2025-10-01", "2025-09-26", 7); got != 1.0 {
		t.Errorf("Expected 1.0 for future date, got %v", got)
	}
	if got := DecayByDateKey("garbage", "2025-09-26", 7); got != 1.0 {
		t.Errorf("Expected 1.0 for unparseable date, got %v", got)
	}
}
