package trending

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/YunseobShin/wall-street/internal/models"
)

// SourceListsFromItems rebuilds ordered per-source quote lists from an
// already-ranked payload, so a remote result can be re-scored locally.
// Gaps in the remote ranks collapse to consecutive positions.
func SourceListsFromItems(items []models.TrendingStock) map[models.ScreenerSource][]models.Quote {
	type ranked struct {
		rank  int
		quote models.Quote
	}
	bySource := make(map[models.ScreenerSource][]ranked)

	for _, item := range items {
		q := models.Quote{
			Symbol:        item.Symbol,
			ShortName:     item.ShortName,
			QuoteType:     item.QuoteType,
			Price:         item.Price,
			ChangePercent: item.ChangePercent,
			Volume:        item.Volume,
			MarketCap:     item.MarketCap,
		}
		for src, rank := range item.Rank {
			bySource[src] = append(bySource[src], ranked{rank: rank, quote: q})
		}
	}

	lists := make(map[models.ScreenerSource][]models.Quote, len(bySource))
	for src, entries := range bySource {
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].rank != entries[j].rank {
				return entries[i].rank < entries[j].rank
			}
			return entries[i].quote.Symbol < entries[j].quote.Symbol
		})
		quotes := make([]models.Quote, len(entries))
		for i, e := range entries {
			quotes[i] = e.quote
		}
		lists[src] = quotes
	}
	return lists
}

// SeedSourceLists returns built-in screener data used when the upstream
// trending feed is unreachable.
func SeedSourceLists() map[models.ScreenerSource][]models.Quote {
	q := func(symbol, name, price, change string, volume int64) models.Quote {
		return models.Quote{
			Symbol:        symbol,
			ShortName:     name,
			QuoteType:     models.QuoteTypeEquity,
			Price:         decimal.RequireFromString(price),
			ChangePercent: decimal.RequireFromString(change),
			Volume:        volume,
		}
	}

	return map[models.ScreenerSource][]models.Quote{
		models.SourceMostActives: {
			q("NVDA", "NVIDIA Corporation", "138.85", "4.12", 312450000),
			q("TSLA", "Tesla, Inc.", "251.44", "-2.31", 118320000),
			q("PLTR", "Palantir Technologies Inc.", "42.17", "6.85", 97810000),
			q("AAPL", "Apple Inc.", "228.02", "0.54", 61240000),
			q("AMD", "Advanced Micro Devices, Inc.", "156.30", "3.02", 55120000),
		},
		models.SourceDayGainers: {
			q("SMCI", "Super Micro Computer, Inc.", "47.91", "11.42", 44310000),
			q("PLTR", "Palantir Technologies Inc.", "42.17", "6.85", 97810000),
			q("NVDA", "NVIDIA Corporation", "138.85", "4.12", 312450000),
			q("AMD", "Advanced Micro Devices, Inc.", "156.30", "3.02", 55120000),
		},
		models.SourceDayLosers: {
			q("INTC", "Intel Corporation", "21.48", "-5.77", 52870000),
			q("TSLA", "Tesla, Inc.", "251.44", "-2.31", 118320000),
			q("BA", "The Boeing Company", "154.62", "-1.95", 9810000),
		},
	}
}
