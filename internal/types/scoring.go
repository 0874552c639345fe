package types

import "encoding/json"

// ScoringPayload is the request body handed to a scoring backend. Its JSON
// shape is the wire contract shared with the few-shot examples.
type ScoringPayload struct {
	NewsItems     []NewsItem          `json:"news_items"`
	SectorMap     map[string][]string `json:"sector_map"`
	Market        string              `json:"market"`
	OptionalHints []string            `json:"optional_hints"`
}

// FewShot is one worked example prepended to LLM scoring requests: a payload
// and the expected raw-record array, kept as raw JSON so example files don't
// need to parse into the exact structs.
type FewShot struct {
	Input  json.RawMessage `json:"input"`
	Output json.RawMessage `json:"output"`
}
