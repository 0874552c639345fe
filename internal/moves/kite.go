package moves

import (
	"context"
	"fmt"
	"time"

	"sector-news-agents/internal/interfaces"
	"sector-news-agents/internal/logger"
	"sector-news-agents/internal/types"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"
)

// lookahead bounds the historical fetch window after the news date; wide
// enough to skip weekends and exchange holidays.
const candleLookaheadDays = 7

// KiteSource fetches next-day percentage moves from Zerodha Kite daily
// candles. Each sector is proxied by a representative index or stock
// instrument token supplied in config.
type KiteSource struct {
	kc           *kiteconnect.Client
	sectorTokens map[string]int
}

var _ interfaces.MoveSource = (*KiteSource)(nil)

// NewKiteSource builds an authenticated Kite client. Missing credentials are
// a configuration error, not a degraded mode.
func NewKiteSource(apiKey, accessToken string, sectorTokens map[string]int) (*KiteSource, error) {
	if apiKey == "" || accessToken == "" {
		return nil, fmt.Errorf("kite move source requires KITE_API_KEY and KITE_ACCESS_TOKEN")
	}
	if len(sectorTokens) == 0 {
		return nil, fmt.Errorf("kite move source requires a sector to instrument token map")
	}

	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)

	return &KiteSource{kc: kc, sectorTokens: sectorTokens}, nil
}

// NextDayMoves computes the close-to-close percentage change from each
// group's date to the next trading day. Groups whose sector has no mapped
// token, or whose candles are unavailable, are omitted rather than failing
// the batch; calibration treats absent moves as a skip.
func (s *KiteSource) NextDayMoves(ctx context.Context, groups []types.GroupKey) (map[types.GroupKey]float64, error) {
	out := make(map[types.GroupKey]float64)

	for _, g := range groups {
		token, ok := s.sectorTokens[g.Sector]
		if !ok {
			logger.Warn(ctx, "No instrument token mapped for sector, skipping move lookup",
				"sector", g.Sector)
			continue
		}

		pct, err := s.nextDayPct(token, g.DateKey)
		if err != nil {
			logger.Warn(ctx, "Next-day move lookup failed, group will be uncalibrated",
				"sector", g.Sector,
				"date_key", g.DateKey,
				"error", err.Error())
			continue
		}
		out[g] = pct
	}

	return out, nil
}

func (s *KiteSource) nextDayPct(instrumentToken int, dateKey string) (float64, error) {
	from, err := time.Parse("2006-01-02", dateKey)
	if err != nil {
		return 0, fmt.Errorf("invalid date key %q: %w", dateKey, err)
	}
	to := from.AddDate(0, 0, candleLookaheadDays)

	candles, err := s.kc.GetHistoricalData(instrumentToken, "day", from, to, false, false)
	if err != nil {
		return 0, fmt.Errorf("fetch daily candles for token %d: %w", instrumentToken, err)
	}

	var baseClose float64
	var haveBase bool
	for _, c := range candles {
		day := c.Date.Format("2006-01-02")
		if !haveBase {
			if day == dateKey {
				baseClose = c.Close
				haveBase = true
			}
			continue
		}
		if day > dateKey {
			if baseClose == 0 {
				return 0, fmt.Errorf("zero close on %s for token %d", dateKey, instrumentToken)
			}
			return (c.Close - baseClose) / baseClose * 100.0, nil
		}
	}

	if !haveBase {
		return 0, fmt.Errorf("no candle on %s for token %d", dateKey, instrumentToken)
	}
	return 0, fmt.Errorf("no trading day after %s within %d days for token %d",
		dateKey, candleLookaheadDays, instrumentToken)
}
