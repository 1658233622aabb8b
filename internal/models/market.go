package models

import (
	"time"
	_ "time/tzdata"
)

// ExchangeTimezone is the zone trading dates are computed in
const ExchangeTimezone = "America/New_York"

// TradingDate returns the exchange-local calendar date of t as YYYY-MM-DD
func TradingDate(t time.Time) string {
	loc, err := time.LoadLocation(ExchangeTimezone)
	if err != nil {
		return t.UTC().Format("2006-01-02")
	}
	return t.In(loc).Format("2006-01-02")
}

// SourceNames returns the screener names as plain strings
func SourceNames(sources []ScreenerSource) []string {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = string(s)
	}
	return names
}
