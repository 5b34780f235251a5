// Package convert holds the unit-conversion and series-alignment math that
// turns USD equity prices into BTC and satoshi denominations.
package convert

import (
	"math"

	"github.com/dustin/go-humanize"
)

const (
	// SatsPerBTC is the number of satoshis in one bitcoin.
	SatsPerBTC = 100_000_000

	// secondsPerDay is the UTC day-bucket width used for series alignment.
	secondsPerDay = 86400
)

// ToSats converts a USD price into satoshis at the given BTC/USD rate.
// Sats are derived from the unrounded BTC fraction and rounded to the
// nearest integer; the displayed 8-decimal BTC price is rounded separately
// so the two never drift apart by more than half a sat.
func ToSats(priceUSD, btcUSD float64) int64 {
	if btcUSD <= 0 {
		return 0
	}
	return int64(math.Round(priceUSD / btcUSD * SatsPerBTC))
}

// FormatSats renders a sat amount with thousands separators, e.g. "1,234,567".
func FormatSats(sats int64) string {
	return humanize.Comma(sats)
}

// RoundUSD rounds to 2 decimals for display.
func RoundUSD(v float64) float64 {
	return math.Round(v*100) / 100
}

// RoundBTC rounds to 8 decimals (one sat) for display.
func RoundBTC(v float64) float64 {
	return math.Round(v*SatsPerBTC) / SatsPerBTC
}

// DayBucket floors a unix timestamp to the start of its UTC calendar day.
func DayBucket(ts int64) int64 {
	return ts - ts%secondsPerDay
}
