package convert

import (
	"errors"
	"testing"

	"sats-market/internal/domain"
)

const day = int64(86400)

func TestAlignExactBuckets(t *testing.T) {
	t.Parallel()

	base := int64(1_705_276_800) // midnight UTC
	equity := domain.HistorySeries{
		{Timestamp: base, Close: 100},
		{Timestamp: base + day, Close: 110},
		{Timestamp: base + 2*day, Close: 120},
	}
	btc := domain.PriceSeries{
		{Timestamp: base + 3600, Price: 50_000},       // same day, different hour
		{Timestamp: base + day + 7200, Price: 55_000}, // same pattern next day
		{Timestamp: base + 2*day, Price: 60_000},
	}

	points, err := Align(equity, btc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}

	if points[0].PriceBTC != RoundBTC(100.0/50_000) {
		t.Fatalf("unexpected first BTC price: %v", points[0].PriceBTC)
	}
	if points[0].PriceSats != ToSats(100, 50_000) {
		t.Fatalf("unexpected first sats: %d", points[0].PriceSats)
	}
	if points[1].PriceBTC != RoundBTC(110.0/55_000) {
		t.Fatalf("unexpected second BTC price: %v", points[1].PriceBTC)
	}

	// Output preserves the equity series order
	for i := 1; i < len(points); i++ {
		if points[i].Timestamp <= points[i-1].Timestamp {
			t.Fatal("points out of order")
		}
	}
}

func TestAlignNearestBucketFallback(t *testing.T) {
	t.Parallel()

	base := int64(1_705_276_800)
	equity := domain.HistorySeries{
		{Timestamp: base, Close: 100},
	}
	// No BTC sample on the equity day; D-1 is closer than D+2.
	btc := domain.PriceSeries{
		{Timestamp: base - day, Price: 40_000},
		{Timestamp: base + 2*day, Price: 80_000},
	}

	points, err := Align(equity, btc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if points[0].PriceSats != ToSats(100, 40_000) {
		t.Fatalf("expected nearest bucket D-1, got sats %d", points[0].PriceSats)
	}
}

func TestAlignNearestBucketTieBreaksEarlier(t *testing.T) {
	t.Parallel()

	base := int64(1_705_276_800)
	equity := domain.HistorySeries{
		{Timestamp: base, Close: 100},
	}
	// D-1 and D+1 are equally distant; the earlier bucket wins.
	btc := domain.PriceSeries{
		{Timestamp: base - day, Price: 40_000},
		{Timestamp: base + day, Price: 80_000},
	}

	points, err := Align(equity, btc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if points[0].PriceSats != ToSats(100, 40_000) {
		t.Fatalf("tie should break toward the earlier bucket, got sats %d", points[0].PriceSats)
	}
}

func TestAlignDuplicateBucketsLastWins(t *testing.T) {
	t.Parallel()

	base := int64(1_705_276_800)
	equity := domain.HistorySeries{
		{Timestamp: base, Close: 100},
	}
	btc := domain.PriceSeries{
		{Timestamp: base + 3600, Price: 40_000},
		{Timestamp: base + 7200, Price: 50_000}, // same day, later sample
	}

	points, err := Align(equity, btc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if points[0].PriceSats != ToSats(100, 50_000) {
		t.Fatalf("expected last sample of the day to win, got sats %d", points[0].PriceSats)
	}
}

func TestAlignEmptySeries(t *testing.T) {
	t.Parallel()

	base := int64(1_705_276_800)
	equity := domain.HistorySeries{{Timestamp: base, Close: 100}}
	btc := domain.PriceSeries{{Timestamp: base, Price: 50_000}}

	if _, err := Align(domain.HistorySeries{}, btc); !errors.Is(err, domain.ErrHistoryUnavailable) {
		t.Fatalf("empty equity series should fail, got %v", err)
	}
	if _, err := Align(equity, domain.PriceSeries{}); !errors.Is(err, domain.ErrHistoryUnavailable) {
		t.Fatalf("empty btc series should fail, got %v", err)
	}
}
