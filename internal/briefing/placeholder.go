package briefing

import (
	"fmt"
	"strings"
	"time"

	"github.com/YunseobShin/wall-street/internal/card"
	"github.com/YunseobShin/wall-street/internal/models"
)

var sourceLabels = map[models.ScreenerSource]string{
	models.SourceMostActives: "Most active",
	models.SourceDayGainers:  "Day gainers",
	models.SourceDayLosers:   "Day losers",
}

// Placeholder builds the deterministic local briefing for top1. It is only
// used when a caller explicitly falls back after remote generation fails.
func Placeholder(top1 models.TrendingStock, now time.Time) models.Briefing {
	date := models.TradingDate(now)
	criteria := CriteriaLabel(top1)
	direction := "rose"
	if !top1.IsUp() {
		direction = "fell"
	}

	summary := fmt.Sprintf("%s %s %s%% on %s shares traded.",
		displayName(top1), direction, top1.ChangePercent.Abs().StringFixed(2), formatVolume(top1.Volume))
	report := summary
	if top1.SelectedReason != "" {
		report += " Selected because it " + lowerFirst(top1.SelectedReason) + "."
	}
	report += " Generated locally while the briefing service was unavailable."

	return models.Briefing{
		ID:            fmt.Sprintf("local-%s-%s", date, top1.Symbol),
		Date:          date,
		Title:         fmt.Sprintf("%s Wall Street briefing: %s %s", date, top1.Symbol, ManualMarker),
		Status:        models.BriefingStatusReady,
		Top1Symbol:    top1.Symbol,
		CriteriaLabel: criteria,
		SummaryText:   summary,
		ReportText:    report,
		ImageDataURL:  card.Card{Date: date, Symbol: top1.Symbol, Headline: criteria, Up: top1.IsUp()}.DataURL(),
		CreatedAt:     now.UTC(),
		Meta: &models.BriefingMeta{
			TradingDate: date,
			Timezone:    models.ExchangeTimezone,
			Sources:     models.SourceNames(top1.SourceTags),
			Disclaimer:  "For information only. Not investment advice.",
		},
	}
}

// CriteriaLabel describes which screeners selected a stock, e.g.
// "Most active #1 + Day gainers #3"
func CriteriaLabel(s models.TrendingStock) string {
	if len(s.SourceTags) == 0 {
		return "Trending"
	}
	parts := make([]string, 0, len(s.SourceTags))
	for _, src := range s.SourceTags {
		label, ok := sourceLabels[src]
		if !ok {
			label = string(src)
		}
		if rank, ok := s.Rank[src]; ok {
			label = fmt.Sprintf("%s #%d", label, rank)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " + ")
}

func displayName(s models.TrendingStock) string {
	if s.ShortName == "" {
		return s.Symbol
	}
	return fmt.Sprintf("%s (%s)", s.ShortName, s.Symbol)
}

func formatVolume(v int64) string {
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(v)/1e9)
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(v)/1e6)
	case v >= 1_000:
		return fmt.Sprintf("%.1fK", float64(v)/1e3)
	default:
		return fmt.Sprintf("%d", v)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
