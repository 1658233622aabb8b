// Package trending merges ranked screener lists into one scored list of
// trending instruments with a designated top entry.
package trending

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/YunseobShin/wall-street/internal/models"
)

// DefaultNormalization is the rank weight constant N used when none is configured
const DefaultNormalization = 10

var (
	// ErrInsufficientData is returned when there is nothing to rank.
	ErrInsufficientData = errors.New("insufficient data to rank")
	// ErrInvalidArgument is returned for a non-positive limit.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Aggregator scores symbols across screener sources. A symbol ranked r in a
// source contributes max(0, N+1-r) to its composite score.
type Aggregator struct {
	Normalization int
}

// Result is the ranked output of Aggregate
type Result struct {
	Ranked []models.TrendingStock `json:"items"`
	Top1   models.TrendingStock   `json:"top1"`
}

// New creates an Aggregator. A non-positive normalization falls back to DefaultNormalization.
func New(normalization int) *Aggregator {
	if normalization <= 0 {
		normalization = DefaultNormalization
	}
	return &Aggregator{Normalization: normalization}
}

// Aggregate ranks each source by list position, deduplicates by symbol,
// scores, sorts and truncates to limit. The first ranked entry is returned as
// Top1 with its SelectedReason filled in.
func (a *Aggregator) Aggregate(sources map[models.ScreenerSource][]models.Quote, limit int) (*Result, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidArgument, limit)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no screener sources", ErrInsufficientData)
	}

	merged := make(map[string]*models.TrendingStock)
	for _, src := range sortedSources(sources) {
		for i, q := range sources[src] {
			if q.Symbol == "" {
				continue
			}
			rank := i + 1

			s, ok := merged[q.Symbol]
			if !ok {
				s = &models.TrendingStock{
					Symbol:        q.Symbol,
					ShortName:     q.ShortName,
					QuoteType:     q.QuoteType,
					Price:         q.Price,
					ChangePercent: q.ChangePercent,
					Volume:        q.Volume,
					MarketCap:     q.MarketCap,
					Rank:          make(map[models.ScreenerSource]int),
				}
				if s.ShortName == "" {
					s.ShortName = q.Symbol
				}
				merged[q.Symbol] = s
			}

			// A symbol listed twice in one source keeps its best rank.
			if _, seen := s.Rank[src]; seen {
				continue
			}
			s.Rank[src] = rank
			s.SourceTags = append(s.SourceTags, src)
			s.Score += a.weight(rank)
		}
	}

	if len(merged) == 0 {
		return nil, fmt.Errorf("%w: screener sources contain no quotes", ErrInsufficientData)
	}

	ranked := make([]models.TrendingStock, 0, len(merged))
	for _, s := range merged {
		ranked = append(ranked, *s)
	}
	sort.Slice(ranked, func(i, j int) bool {
		return less(ranked[i], ranked[j])
	})

	ranked[0].SelectedReason = selectionReason(ranked)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return &Result{Ranked: ranked, Top1: ranked[0]}, nil
}

func (a *Aggregator) weight(rank int) float64 {
	n := a.Normalization
	if n <= 0 {
		n = DefaultNormalization
	}
	w := n + 1 - rank
	if w < 0 {
		return 0
	}
	return float64(w)
}

// less orders by score desc, then volume desc, then symbol asc.
func less(a, b models.TrendingStock) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Volume != b.Volume {
		return a.Volume > b.Volume
	}
	return a.Symbol < b.Symbol
}

func selectionReason(ranked []models.TrendingStock) string {
	top := ranked[0]
	tags := models.SourceNames(top.SourceTags)
	reason := fmt.Sprintf("Appears in %d screener(s): %s", len(tags), strings.Join(tags, ", "))

	if len(ranked) == 1 {
		return reason + "; only candidate"
	}
	runnerUp := ranked[1]
	switch {
	case len(top.SourceTags) > len(runnerUp.SourceTags):
		return reason + "; led by cross-source count"
	case top.Score == runnerUp.Score && top.Volume != runnerUp.Volume:
		return fmt.Sprintf("%s; led by volume (%d vs %d)", reason, top.Volume, runnerUp.Volume)
	case top.Score == runnerUp.Score:
		return fmt.Sprintf("%s; led by symbol order (%s before %s)", reason, top.Symbol, runnerUp.Symbol)
	default:
		return reason + "; led by rank"
	}
}

func sortedSources(sources map[models.ScreenerSource][]models.Quote) []models.ScreenerSource {
	names := make([]models.ScreenerSource, 0, len(sources))
	for src := range sources {
		names = append(names, src)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
