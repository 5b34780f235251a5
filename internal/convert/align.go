package convert

import (
	"sort"

	"sats-market/internal/domain"
)

// Align merges an equity daily-close series with a BTC price series sampled
// at possibly different timestamps. Every BTC point is bucketed into its UTC
// day (last write wins on duplicates); each equity point then resolves the
// BTC price for its own bucket, falling back to the nearest bucket by
// absolute distance when the exact day is missing. Ties between two equally
// distant buckets break toward the earlier timestamp.
//
// Either input being empty fails with ErrHistoryUnavailable rather than
// producing an empty merge that looks like success.
func Align(equity domain.HistorySeries, btc domain.PriceSeries) ([]domain.AlignedPoint, error) {
	if len(equity) == 0 || len(btc) == 0 {
		return nil, domain.ErrHistoryUnavailable
	}

	byDay := make(map[int64]float64, len(btc))
	for _, p := range btc {
		byDay[DayBucket(p.Timestamp)] = p.Price
	}

	days := make([]int64, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	points := make([]domain.AlignedPoint, 0, len(equity))
	for _, c := range equity {
		bucket := DayBucket(c.Timestamp)
		btcPrice, ok := byDay[bucket]
		if !ok {
			btcPrice = byDay[nearestDay(days, bucket)]
		}

		points = append(points, domain.AlignedPoint{
			Timestamp: c.Timestamp,
			PriceUSD:  RoundUSD(c.Close),
			PriceSats: ToSats(c.Close, btcPrice),
			PriceBTC:  RoundBTC(c.Close / btcPrice),
		})
	}

	return points, nil
}

// nearestDay scans the ascending day buckets for the one closest to target.
// Series are bounded by the requested day count, so a linear scan is fine.
// Strict improvement keeps the earlier bucket on a tie.
func nearestDay(days []int64, target int64) int64 {
	best := days[0]
	bestDist := absDiff(days[0], target)
	for _, d := range days[1:] {
		if dist := absDiff(d, target); dist < bestDist {
			best = d
			bestDist = dist
		}
	}
	return best
}

func absDiff(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}
