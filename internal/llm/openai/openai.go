package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"sector-news-agents/internal/interfaces"
	"sector-news-agents/internal/logger"
	"sector-news-agents/internal/store"
	"sector-news-agents/internal/trace"
	"sector-news-agents/internal/types"
)

const defaultEndpoint = "https://api.openai.com/v1/chat/completions"

// Backend scores news via the OpenAI chat completions API. Few-shot examples
// are prepended as user/assistant message pairs and the response is expected
// to be a bare JSON array of raw records.
//
// Data-level trouble (timeout, 5xx, unparseable content) degrades to an empty
// result for the batch rather than an error; the stories simply contribute no
// signal. This is deliberate and can silently drop real signal on a bad model
// day.
type Backend struct {
	cfg      *store.Config
	apiKey   string
	endpoint string
	httpc    *http.Client
}

var _ interfaces.ScoringBackend = (*Backend)(nil)

// New builds the backend. A missing OPENAI_API_KEY is a fatal configuration
// error reported here, before any network call is attempted.
func New(cfg *store.Config) (*Backend, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY missing")
	}

	endpoint := defaultEndpoint
	// Proxy/self-hosted deployments set the endpoint via env
	if ep := os.Getenv("OPENAI_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}

	return &Backend{
		cfg:      cfg,
		apiKey:   apiKey,
		endpoint: endpoint,
		httpc:    &http.Client{Timeout: time.Duration(cfg.LLM.TimeoutSecs) * time.Second},
	}, nil
}

func (b *Backend) ScoreNews(ctx context.Context, systemPrompt string, payload types.ScoringPayload, fewShots []types.FewShot) ([]types.RawRecord, error) {
	ctx, span := trace.StartSpan(ctx, "openai-score-news")
	defer span.End()

	messages := []map[string]string{{"role": "system", "content": systemPrompt}}
	for _, fs := range fewShots {
		messages = append(messages,
			map[string]string{"role": "user", "content": string(fs.Input)},
			map[string]string{"role": "assistant", "content": string(fs.Output)},
		)
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal scoring payload: %w", err)
	}
	messages = append(messages, map[string]string{"role": "user", "content": string(pb)})

	body := map[string]any{
		"model":       b.cfg.LLM.Model,
		"messages":    messages,
		"temperature": b.cfg.LLM.Temperature,
		"max_tokens":  b.cfg.LLM.MaxTokens,
	}
	bb, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, "POST", b.endpoint, bytes.NewReader(bb))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+b.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := b.httpc.Do(req)
	latency := time.Since(start)
	if err != nil {
		logger.Warn(ctx, "OpenAI request failed, batch contributes no signal",
			"error", err, "latency_ms", latency.Milliseconds())
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		logger.Warn(ctx, "OpenAI returned error status, batch contributes no signal",
			"status_code", resp.StatusCode, "latency_ms", latency.Milliseconds())
		return nil, nil
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		logger.Warn(ctx, "OpenAI response body unreadable, batch contributes no signal", "error", err)
		return nil, nil
	}
	if len(r.Choices) == 0 {
		logger.Warn(ctx, "OpenAI response has no choices, batch contributes no signal")
		return nil, nil
	}

	records := parseRecords(ctx, r.Choices[0].Message.Content)
	logger.Info(ctx, "OpenAI scored batch",
		"items", len(payload.NewsItems),
		"records", len(records),
		"latency_ms", latency.Milliseconds(),
	)
	return records, nil
}

// parseRecords extracts a JSON array of raw records from model output.
// Anything unparseable yields an empty slice.
func parseRecords(ctx context.Context, content string) []types.RawRecord {
	t := strings.TrimSpace(content)

	var records []types.RawRecord
	if err := json.Unmarshal([]byte(t), &records); err == nil {
		return records
	}

	// Models occasionally wrap output in prose or fences; try the first
	// [...] substring before giving up.
	start := strings.Index(t, "[")
	end := strings.LastIndex(t, "]")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(t[start:end+1]), &records); err == nil {
			return records
		}
	}

	logger.Warn(ctx, "Unable to parse scoring response as JSON array, batch contributes no signal",
		"content_length", len(t))
	return nil
}
