package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sector-news-agents/internal/store"
	"sector-news-agents/internal/types"
)

func testPayload() types.ScoringPayload {
	return types.ScoringPayload{
		NewsItems: []types.NewsItem{{ID: "N_te_1", Headline: "Spectrum prices cut"}},
		SectorMap: map[string][]string{"Telecom": {"BHARTIARTL.NS"}},
		Market:    "IN",
	}
}

func chatResponse(content string) string {
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func newTestBackend(t *testing.T, serverURL string) *Backend {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_API_ENDPOINT", serverURL)

	b, err := New(store.DefaultConfig())
	if err != nil {
		t.Fatalf("Expected backend to build, got %v", err)
	}
	return b
}

func TestNewRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	if _, err := New(store.DefaultConfig()); err == nil {
		t.Error("Expected error for missing OPENAI_API_KEY")
	}
}

func TestScoreNewsParsesArray(t *testing.T) {
	content := `[{"news_id":"N_te_1","sector":"Telecom","sentiment_score":2.6,"confidence":0.78,"news_type":"regulatory"}]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected bearer auth header, got %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(chatResponse(content)))
	}))
	defer srv.Close()

	b := newTestBackend(t, srv.URL)
	records, err := b.ScoreNews(context.Background(), "system", testPayload(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].NewsID != "N_te_1" || records[0].SentimentScore != 2.6 {
		t.Errorf("Expected N_te_1 / 2.6, got %s / %v", records[0].NewsID, records[0].SentimentScore)
	}
}

func TestScoreNewsFencedArray(t *testing.T) {
	content := "Here are the records:\n```json\n[{\"news_id\":\"N_te_1\",\"sector\":\"Telecom\",\"sentiment_score\":1.0}]\n```"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatResponse(content)))
	}))
	defer srv.Close()

	b := newTestBackend(t, srv.URL)
	records, err := b.ScoreNews(context.Background(), "system", testPayload(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(records) != 1 || records[0].NewsID != "N_te_1" {
		t.Errorf("Expected fenced array to parse, got %v", records)
	}
}

func TestScoreNewsUnparseableDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatResponse("I could not produce structured output today.")))
	}))
	defer srv.Close()

	b := newTestBackend(t, srv.URL)
	records, err := b.ScoreNews(context.Background(), "system", testPayload(), nil)
	if err != nil {
		t.Fatalf("Expected no error on unparseable content, got %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected empty result, got %d records", len(records))
	}
}

func TestScoreNewsServerErrorDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	b := newTestBackend(t, srv.URL)
	records, err := b.ScoreNews(context.Background(), "system", testPayload(), nil)
	if err != nil {
		t.Fatalf("Expected no error on 5xx, got %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected empty result on 5xx, got %d records", len(records))
	}
}

func TestScoreNewsSendsFewShots(t *testing.T) {
	var got struct {
		Messages []map[string]string `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(chatResponse("[]")))
	}))
	defer srv.Close()

	fewShots := []types.FewShot{
		{Input: json.RawMessage(`{"example":"in"}`), Output: json.RawMessage(`[{"news_id":"x"}]`)},
	}

	b := newTestBackend(t, srv.URL)
	if _, err := b.ScoreNews(context.Background(), "system", testPayload(), fewShots); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// system + few-shot user/assistant pair + payload
	if len(got.Messages) != 4 {
		t.Fatalf("Expected 4 messages, got %d", len(got.Messages))
	}
	if got.Messages[0]["role"] != "system" {
		t.Errorf("Expected first message to be system, got %s", got.Messages[0]["role"])
	}
	if got.Messages[1]["role"] != "user" || got.Messages[2]["role"] != "assistant" {
		t.Errorf("Expected few-shot user/assistant pair, got %s/%s",
			got.Messages[1]["role"], got.Messages[2]["role"])
	}
	if got.Messages[3]["role"] != "user" {
		t.Errorf("Expected payload as final user message, got %s", got.Messages[3]["role"])
	}
}
