package decisionlog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var mu sync.Mutex

// DecisionEntry is one Agent-2 call, appended to the daily audit file.
type DecisionEntry struct {
	Time         string         `json:"time"`
	Target       string         `json:"target"`
	Label        string         `json:"label"`
	WeightedMean float64        `json:"weighted_mean"`
	Consensus    float64        `json:"consensus"`
	Confidence   float64        `json:"confidence"`
	TopSignals   []string       `json:"top_signals"`
	Extra        map[string]any `json:"extra,omitempty"`
}

// CalibrationEntry records what calibration did to one (sector, date) group.
type CalibrationEntry struct {
	Time            string   `json:"time"`
	Sector          string   `json:"sector"`
	DateKey         string   `json:"date_key"`
	DayScoreRaw     float64  `json:"day_score_raw"`
	DayScoreAdj     float64  `json:"day_score_calibrated"`
	NextDayPct      *float64 `json:"next_day_pct,omitempty"`
	CalibrationNote string   `json:"calibration_note"`
}

func logDir() string {
	if v := os.Getenv("NEWSAGENTS_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}
func decisionsFilepath(t time.Time) string {
	d := t.UTC().Format("2006-01-02")
	return filepath.Join(logDir(), "decisions", d+".txt")
}
func calibrationsFilepath(t time.Time) string {
	d := t.UTC().Format("2006-01-02")
	return filepath.Join(logDir(), "calibrations", d+".txt")
}

// AppendDecision appends one entry to today's decision audit file.
func AppendDecision(e DecisionEntry) error {
	now := time.Now().UTC()
	e.Time = now.Format("2006-01-02 15:04:05")
	return appendLine(decisionsFilepath(now), e)
}

// AppendCalibration appends one entry to today's calibration audit file.
func AppendCalibration(e CalibrationEntry) error {
	now := time.Now().UTC()
	e.Time = now.Format("2006-01-02 15:04:05")
	return appendLine(calibrationsFilepath(now), e)
}

func appendLine(p string, v any) error {
	mu.Lock()
	defer mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, _ := json.Marshal(v)
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips audit files older than retentionDays and removes the
// originals. A non-positive retention disables compression.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	root := logDir()
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil || !info.ModTime().Before(cutoff) {
			return nil
		}

		gz := p + ".gz"
		if _, e2 := os.Stat(gz); e2 == nil {
			_ = os.Remove(p)
			return nil
		}

		in, e3 := os.Open(p)
		if e3 != nil {
			return nil
		}
		defer in.Close()

		out, e4 := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if e4 != nil {
			return nil
		}
		gw := gzip.NewWriter(out)
		if _, e5 := io.Copy(gw, in); e5 == nil {
			_ = gw.Close()
			_ = out.Close()
			_ = os.Remove(p)
		} else {
			_ = gw.Close()
			_ = out.Close()
		}
		return nil
	})
}
