package store

import (
	"time"

	"github.com/YunseobShin/wall-street/internal/card"
	"github.com/YunseobShin/wall-street/internal/models"
)

// SeedBriefings returns the built-in dataset served when persisted state is
// missing or unreadable. A fresh slice is returned on every call.
func SeedBriefings() []models.Briefing {
	seed := []struct {
		id, date, symbol, criteria, summary string
		up                                  bool
		createdAt                           time.Time
	}{
		{
			id:        "seed-2025-01-17-NVDA",
			date:      "2025-01-17",
			symbol:    "NVDA",
			criteria:  "Most active #1 + day gainers overlap",
			summary:   "NVIDIA led volume across screeners as chip stocks rallied into the close.",
			up:        true,
			createdAt: time.Date(2025, 1, 17, 21, 30, 0, 0, time.UTC),
		},
		{
			id:        "seed-2025-01-16-TSLA",
			date:      "2025-01-16",
			symbol:    "TSLA",
			criteria:  "Most active + day losers overlap",
			summary:   "Tesla slid on delivery worries while remaining the session's second most traded name.",
			up:        false,
			createdAt: time.Date(2025, 1, 16, 21, 30, 0, 0, time.UTC),
		},
	}

	items := make([]models.Briefing, 0, len(seed))
	for _, s := range seed {
		title := s.date + " Wall Street briefing: " + s.symbol
		items = append(items, models.Briefing{
			ID:            s.id,
			Date:          s.date,
			Title:         title,
			Status:        models.BriefingStatusReady,
			Top1Symbol:    s.symbol,
			CriteriaLabel: s.criteria,
			SummaryText:   s.summary,
			ReportText:    s.summary + " This is sample data shown until the first briefing is generated.",
			ImageDataURL:  card.Card{Date: s.date, Symbol: s.symbol, Headline: s.criteria, Up: s.up}.DataURL(),
			CreatedAt:     s.createdAt,
		})
	}
	return items
}
