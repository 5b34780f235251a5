package domain

// Quote is a normalized live equity quote.
type Quote struct {
	Symbol        string  `json:"symbol"`
	CurrentPrice  float64 `json:"current_price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	PreviousClose float64 `json:"previous_close"`
	Timestamp     int64   `json:"timestamp"`
}

// Candle is one daily OHLCV observation. Timestamp is unix seconds at day
// granularity.
type Candle struct {
	Timestamp int64   `json:"timestamp"`
	Close     float64 `json:"close"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Open      float64 `json:"open"`
	Volume    float64 `json:"volume"`
}

// HistorySeries is a daily candle series ordered by ascending timestamp.
// Providers guarantee there are no duplicate timestamps within a series.
type HistorySeries []Candle

// SpotPrice is a single current price with its fetch time.
type SpotPrice struct {
	PriceUSD  float64 `json:"price_usd"`
	Timestamp int64   `json:"timestamp"`
}

// PricePoint is one sample of a historical spot-price series.
type PricePoint struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
}

// PriceSeries is a spot-price history ordered by ascending timestamp.
type PriceSeries []PricePoint

// AlignedPoint is one equity observation expressed in USD, BTC and sats,
// produced by merging an equity series with a BTC series.
type AlignedPoint struct {
	Timestamp int64   `json:"timestamp"`
	PriceUSD  float64 `json:"price_usd"`
	PriceSats int64   `json:"price_sats"`
	PriceBTC  float64 `json:"price_btc"`
}
