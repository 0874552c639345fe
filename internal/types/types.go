package types

// NewsItem is a single news story as delivered by the retrieval layer.
// Immutable after creation; DateKey is derived once from Datetime at load time.
type NewsItem struct {
	ID       string `json:"id"`
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Datetime string `json:"datetime"`
	Source   string `json:"source"`
	Region   string `json:"region"`
	Sector   string `json:"sector,omitempty"`
	DateKey  string `json:"date_key,omitempty"`
}

// RawRecord is a scoring backend's verdict on one (story, sector) pair,
// before date-key enrichment.
type RawRecord struct {
	NewsID          string   `json:"news_id"`
	Sector          string   `json:"sector"`
	Tickers         []string `json:"tickers"`
	SentimentScore  float64  `json:"sentiment_score"`
	Confidence      float64  `json:"confidence"`
	ImpactHorizon   string   `json:"impact_horizon"`
	NewsType        string   `json:"news_type"`
	Rationale       string   `json:"rationale"`
	EvidencePhrases []string `json:"evidence_phrases"`
}

// Agent1Record is a per-story sentiment signal. Created by the sector mapper,
// mutated exactly once by the same-day aggregator (weight and adjustment
// fields), then read-only input to the decision engine.
//
// AttributionWeight and AdjustedSentiment are pointers so that records which
// have not been through aggregation round-trip as absent, not zero.
type Agent1Record struct {
	NewsID            string   `json:"news_id"`
	Sector            string   `json:"sector"`
	Tickers           []string `json:"tickers"`
	SentimentScore    float64  `json:"sentiment_score"`
	Confidence        float64  `json:"confidence"`
	ImpactHorizon     string   `json:"impact_horizon"`
	NewsType          string   `json:"news_type"`
	Rationale         string   `json:"rationale"`
	EvidencePhrases   []string `json:"evidence_phrases"`
	DateKey           string   `json:"date_key,omitempty"`
	AttributionWeight *float64 `json:"attribution_weight,omitempty"`
	AdjustedSentiment *float64 `json:"adjusted_sentiment,omitempty"`
	CalibrationNote   string   `json:"calibration_note,omitempty"`
}

// EffectiveSentiment returns the calibrated sentiment when aggregation has
// run, the raw score otherwise.
func (r Agent1Record) EffectiveSentiment() float64 {
	if r.AdjustedSentiment != nil {
		return *r.AdjustedSentiment
	}
	return r.SentimentScore
}

// GroupKey identifies one same-day aggregation group.
type GroupKey struct {
	Sector  string `json:"sector"`
	DateKey string `json:"date_key"`
}

// DayAggregate is the per-group result of same-day aggregation and calibration.
type DayAggregate struct {
	Sector              string         `json:"sector"`
	DateKey             string         `json:"date_key"`
	DayScoreRaw         float64        `json:"day_score_raw"`
	DayScoreCalibrated  float64        `json:"day_score_calibrated"`
	CalibrationBasisPct *float64       `json:"calibration_basis_next_day_pct,omitempty"`
	CalibrationNote     string         `json:"calibration_note"`
	Records             []Agent1Record `json:"records"`
}

// Decision labels.
const (
	LabelUp       = "UP"
	LabelDown     = "DOWN"
	LabelNoImpact = "NO_IMPACT"
)

// Target describes what a decision is about: a sector or an explicit ticker set.
type Target struct {
	Level   string   `json:"level"`
	Name    string   `json:"name"`
	Tickers []string `json:"tickers"`
}

// Decision is the terminal, write-once output of the decision engine.
type Decision struct {
	Label        string   `json:"label"`
	WeightedMean float64  `json:"weighted_mean"`
	Consensus    float64  `json:"consensus"`
	Confidence   float64  `json:"confidence"`
	Rationale    string   `json:"rationale"`
	TopSignals   []string `json:"top_signals"`
	Target       *Target  `json:"target,omitempty"`
}
