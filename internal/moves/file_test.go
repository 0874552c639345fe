package moves

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"sector-news-agents/internal/types"
)

func writeMoves(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "moves.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write moves file: %v", err)
	}
	return path
}

func TestLoadFileSource(t *testing.T) {
	path := writeMoves(t, `{
		"(Telecom,2025-09-26)": 1.5,
		"(Banking,2025-09-26)": -0.8,
		"( Pharma , 2025-09-27 )": 0.4
	}`)

	src, err := LoadFileSource(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	groups := []types.GroupKey{
		{Sector: "Telecom", DateKey: "2025-09-26"},
		{Sector: "Pharma", DateKey: "2025-09-27"},
		{Sector: "Auto", DateKey: "2025-09-26"},
	}
	got, err := src.NextDayMoves(context.Background(), groups)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Expected 2 resolved moves, got %d", len(got))
	}
	if got[groups[0]] != 1.5 {
		t.Errorf("Expected Telecom move 1.5, got %v", got[groups[0]])
	}
	if got[groups[1]] != 0.4 {
		t.Errorf("Expected whitespace-tolerant key parse, got %v", got[groups[1]])
	}
	if _, ok := got[groups[2]]; ok {
		t.Error("Expected unknown group to be absent, not zero")
	}
}

func TestLoadFileSourceAll(t *testing.T) {
	path := writeMoves(t, `{"(Telecom,2025-09-26)": 1.5}`)
	src, err := LoadFileSource(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	all := src.All()
	if len(all) != 1 {
		t.Errorf("Expected 1 move, got %d", len(all))
	}
}

func TestLoadFileSourceMalformedKey(t *testing.T) {
	cases := []string{
		`{"Telecom": 1.5}`,
		`{"(Telecom)": 1.5}`,
		`{"(,2025-09-26)": 1.5}`,
		`{"(Telecom,26-09-2025x)": 1.5}`,
	}
	for _, c := range cases {
		path := writeMoves(t, c)
		if _, err := LoadFileSource(path); err == nil {
			t.Errorf("Expected malformed key to be fatal for %s", c)
		}
	}
}

func TestLoadFileSourceBadJSON(t *testing.T) {
	path := writeMoves(t, `not json`)
	if _, err := LoadFileSource(path); err == nil {
		t.Error("Expected error for unparseable file")
	}
}

func TestNewKiteSourceRequiresCredentials(t *testing.T) {
	tokens := map[string]int{"Telecom": 2714625}

	if _, err := NewKiteSource("", "token", tokens); err == nil {
		t.Error("Expected error for missing api key")
	}
	if _, err := NewKiteSource("key", "", tokens); err == nil {
		t.Error("Expected error for missing access token")
	}
	if _, err := NewKiteSource("key", "token", nil); err == nil {
		t.Error("Expected error for empty token map")
	}
	if _, err := NewKiteSource("key", "token", tokens); err != nil {
		t.Errorf("Expected construction to succeed with credentials, got %v", err)
	}
}
