package marketdata

import "time"

type Right string

const (
	Call Right = "C"
	Put  Right = "P"
)

// Bar is one session bar of an underlying.
type Bar struct {
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int       `json:"volume"`
}

// TradeBar is one bar of option trade prints.
type TradeBar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int       `json:"volume"`
}

// QuoteBar is one bar of option bid/ask quotes.
type QuoteBar struct {
	Timestamp time.Time `json:"timestamp"`
	Bid       float64   `json:"bid"`
	Ask       float64   `json:"ask"`
	Mid       float64   `json:"mid"`
}

// ContractKey identifies one option contract within a session.
type ContractKey struct {
	Symbol string  `json:"symbol"`
	Strike float64 `json:"strike"`
	Right  Right   `json:"right"`
}
