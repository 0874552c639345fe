package report

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"sector-news-agents/internal/decisionlog"
	"sector-news-agents/internal/types"
)

type targetRow struct {
	Target        string
	Decisions     int
	Up, Down, Flat int
	ConfidenceSum float64
}

func logDir() string {
	if v := os.Getenv("NEWSAGENTS_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}
func decisionsFile(t time.Time) string {
	d := t.UTC().Format("2006-01-02")
	return filepath.Join(logDir(), "decisions", d+".txt")
}
func reportCSVPath(t time.Time) string {
	d := t.UTC().Format("2006-01-02")
	return filepath.Join(logDir(), "reports", d+".csv")
}

// WriteAggregatesCSV writes the per-group day summaries as CSV, one row per
// (sector, date) with its calibration audit trail.
func WriteAggregatesCSV(path string, aggs []types.DayAggregate) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()

	headers := []string{"sector", "date", "day_score_raw", "day_score_calibrated", "next_day_pct", "calibration_note", "records"}
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, a := range aggs {
		pct := ""
		if a.CalibrationBasisPct != nil {
			pct = fmt.Sprintf("%.4f", *a.CalibrationBasisPct)
		}
		rec := []string{
			a.Sector,
			a.DateKey,
			fmt.Sprintf("%.4f", a.DayScoreRaw),
			fmt.Sprintf("%.4f", a.DayScoreCalibrated),
			pct,
			a.CalibrationNote,
			strconv.Itoa(len(a.Records)),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Error()
}

// SummarizeDay rolls the day's decision audit file up into a per-target CSV:
// call counts, label distribution and mean confidence. Returns "" when there
// is nothing to summarize.
func SummarizeDay(t time.Time) (string, error) {
	inPath := decisionsFile(t)
	if _, err := os.Stat(inPath); err != nil {
		return "", nil
	}
	f, err := os.Open(inPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	rows := map[string]*targetRow{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e decisionlog.DecisionEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		row := rows[e.Target]
		if row == nil {
			row = &targetRow{Target: e.Target}
			rows[e.Target] = row
		}
		row.Decisions++
		row.ConfidenceSum += e.Confidence
		switch e.Label {
		case types.LabelUp:
			row.Up++
		case types.LabelDown:
			row.Down++
		default:
			row.Flat++
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	outPath := reportCSVPath(t)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write([]string{"target", "decisions", "up", "down", "no_impact", "mean_confidence"}); err != nil {
		return "", err
	}
	total := 0
	for _, k := range keys {
		r := rows[k]
		rec := []string{
			r.Target,
			strconv.Itoa(r.Decisions),
			strconv.Itoa(r.Up),
			strconv.Itoa(r.Down),
			strconv.Itoa(r.Flat),
			fmt.Sprintf("%.3f", r.ConfidenceSum/float64(r.Decisions)),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
		total += r.Decisions
	}
	_ = w.Write([]string{"TOTAL", strconv.Itoa(total), "", "", "", ""})
	return outPath, nil
}

// SummarizeToday is SummarizeDay for the current UTC date.
func SummarizeToday() (string, error) { return SummarizeDay(time.Now().UTC()) }
