package convert

import "testing"

func TestToSats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		priceUSD float64
		btcUSD   float64
		want     int64
	}{
		{100, 50_000, 200_000},
		{1, 100_000_000, 1},
		{97_000, 97_000, SatsPerBTC},
		{0, 50_000, 0},
		{0.005, 50_000, 10},
	}
	for _, tt := range tests {
		if got := ToSats(tt.priceUSD, tt.btcUSD); got != tt.want {
			t.Fatalf("ToSats(%v, %v) = %d, want %d", tt.priceUSD, tt.btcUSD, got, tt.want)
		}
	}
}

func TestToSatsZeroRate(t *testing.T) {
	t.Parallel()

	if got := ToSats(100, 0); got != 0 {
		t.Fatalf("expected 0 for zero BTC rate, got %d", got)
	}
}

func TestToSatsMonotoneInBtcRate(t *testing.T) {
	t.Parallel()

	prev := ToSats(100, 10_000)
	for _, rate := range []float64{20_000, 40_000, 80_000, 160_000} {
		cur := ToSats(100, rate)
		if cur >= prev {
			t.Fatalf("sats should fall as the BTC rate rises: %d -> %d at rate %v", prev, cur, rate)
		}
		prev = cur
	}
}

func TestFormatSats(t *testing.T) {
	t.Parallel()

	if got := FormatSats(1_234_567); got != "1,234,567" {
		t.Fatalf("expected 1,234,567, got %s", got)
	}
	if got := FormatSats(999); got != "999" {
		t.Fatalf("expected 999, got %s", got)
	}
}

func TestDayBucket(t *testing.T) {
	t.Parallel()

	// 2024-01-15 13:37:42 UTC floors to 2024-01-15 00:00:00 UTC
	if got := DayBucket(1705325862); got != 1705276800 {
		t.Fatalf("unexpected bucket: %d", got)
	}
	// A midnight timestamp is its own bucket
	if got := DayBucket(1705276800); got != 1705276800 {
		t.Fatalf("midnight should be a fixed point, got %d", got)
	}
}

func TestRounding(t *testing.T) {
	t.Parallel()

	if got := RoundUSD(123.456); got != 123.46 {
		t.Fatalf("RoundUSD: got %v", got)
	}
	if got := RoundBTC(0.123456789); got != 0.12345679 {
		t.Fatalf("RoundBTC: got %v", got)
	}
}
