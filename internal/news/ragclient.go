package news

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sector-news-agents/internal/interfaces"
	"sector-news-agents/internal/logger"
	"sector-news-agents/internal/trace"
	"sector-news-agents/internal/types"
)

// RagClient fetches news from the retrieval collaborator's cosine-similarity
// search API and converts hits into news items the pipeline understands.
type RagClient struct {
	baseURL  string
	endpoint string
	minScore float64
	region   string
	httpc    *http.Client
}

var _ interfaces.NewsSource = (*RagClient)(nil)

// NewRagClient builds a search client. timeout bounds each request.
func NewRagClient(baseURL, endpoint string, minScore float64, region string, timeout time.Duration) *RagClient {
	return &RagClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		endpoint: endpoint,
		minScore: minScore,
		region:   region,
		httpc:    &http.Client{Timeout: timeout},
	}
}

// ragHit is one search result. The retrieval service is loose about which ID
// field it populates, so several are accepted.
type ragHit struct {
	ID       string  `json:"id"`
	DocID    string  `json:"doc_id"`
	NewsID   string  `json:"news_id"`
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
	Datetime string  `json:"datetime"`
	Source   string  `json:"source"`
}

// FetchNews runs one search query and returns validated news items. Hits
// below the score floor are dropped. A failed request is an error; callers
// decide whether the run can continue without this source.
func (c *RagClient) FetchNews(ctx context.Context, query string, limit int) ([]types.NewsItem, error) {
	ctx, span := trace.StartSpan(ctx, "rag-search")
	defer span.End()

	payload := map[string]any{"query": query, "size": limit}
	bb, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+c.endpoint, bytes.NewReader(bb))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "sector-news-agents/1.0")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rag search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("rag search http %d", resp.StatusCode)
	}

	var r struct {
		Results []ragHit `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode rag response: %w", err)
	}

	items := make([]types.NewsItem, 0, len(r.Results))
	for _, hit := range r.Results {
		if hit.Score < c.minScore || strings.TrimSpace(hit.Text) == "" {
			continue
		}
		item := c.toNewsItem(hit, query)
		if err := validateItem(&item); err != nil {
			logger.Warn(ctx, "Dropping invalid rag hit", "error", err)
			continue
		}
		items = append(items, item)
	}

	logger.Info(ctx, "RAG search completed", "query", query, "hits", len(r.Results), "items", len(items))
	return items, nil
}

func (c *RagClient) toNewsItem(hit ragHit, query string) types.NewsItem {
	id := hit.ID
	if id == "" {
		id = hit.DocID
	}
	if id == "" {
		id = hit.NewsID
	}
	if id == "" {
		// Stable content-derived fallback ID.
		sum := md5.Sum([]byte(hit.Text + "_" + query))
		id = strings.ToUpper(fmt.Sprintf("%x", sum)[:8])
	}

	dt := hit.Datetime
	if dt == "" {
		dt = time.Now().UTC().Format(time.RFC3339)
	}
	source := hit.Source
	if source == "" {
		source = "rag"
	}

	headline, summary := splitHeadline(hit.Text)
	return types.NewsItem{
		ID:       id,
		Headline: headline,
		Summary:  summary,
		Datetime: dt,
		Source:   source,
		Region:   c.region,
	}
}

// splitHeadline picks the first sentence as headline and the rest as summary,
// cutting at a fixed length when the text is one long run-on.
func splitHeadline(text string) (string, string) {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, ". "); idx > 0 {
		return strings.TrimSuffix(text[:idx], "."), text[idx+2:]
	}
	if len(text) > 80 {
		return strings.TrimSpace(text[:80]), strings.TrimSpace(text[80:])
	}
	return text, text
}
