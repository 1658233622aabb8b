package models

import (
	"github.com/shopspring/decimal"
)

// ScreenerSource names an upstream ranked list of instruments
type ScreenerSource string

// Screener source constants
const (
	SourceMostActives ScreenerSource = "most_actives"
	SourceDayGainers  ScreenerSource = "day_gainers"
	SourceDayLosers   ScreenerSource = "day_losers"
)

// Quote type constants
const (
	QuoteTypeEquity = "EQUITY"
	QuoteTypeETF    = "ETF"
	QuoteTypeCrypto = "CRYPTOCURRENCY"
)

// Quote represents one raw row of a screener list
type Quote struct {
	Symbol        string          `json:"symbol"`
	ShortName     string          `json:"shortName"`
	QuoteType     string          `json:"quoteType,omitempty"`
	Price         decimal.Decimal `json:"regularMarketPrice"`
	ChangePercent decimal.Decimal `json:"regularMarketChangePercent"`
	Volume        int64           `json:"regularMarketVolume"`
	MarketCap     *int64          `json:"marketCap,omitempty"`
}

// TrendingStock represents a deduplicated, scored screener snapshot of one instrument
type TrendingStock struct {
	Symbol         string                 `json:"symbol"`
	ShortName      string                 `json:"shortName"`
	QuoteType      string                 `json:"quoteType,omitempty"`
	Price          decimal.Decimal        `json:"regularMarketPrice"`
	ChangePercent  decimal.Decimal        `json:"regularMarketChangePercent"`
	Volume         int64                  `json:"regularMarketVolume"`
	MarketCap      *int64                 `json:"marketCap,omitempty"`
	SourceTags     []ScreenerSource       `json:"sourceTags"`
	Rank           map[ScreenerSource]int `json:"rank"`
	Score          float64                `json:"score"`
	SelectedReason string                 `json:"selectedReason,omitempty"`
}

// IsUp reports whether the instrument closed the session in positive territory
func (s TrendingStock) IsUp() bool {
	return !s.ChangePercent.IsNegative()
}
