package trending

import (
	"context"
	"log"
	"time"

	"github.com/YunseobShin/wall-street/internal/client"
	"github.com/YunseobShin/wall-street/internal/models"
)

// Remote supplies ranked trending stocks
type Remote interface {
	ListTrending(ctx context.Context, limit int) (*client.TrendingResult, error)
}

// Snapshot is a ranked trending list ready to present
type Snapshot struct {
	Date     string                 `json:"date"`
	Timezone string                 `json:"timezone"`
	Items    []models.TrendingStock `json:"items"`
	Top1     models.TrendingStock   `json:"top1"`
	Fallback bool                   `json:"fallback"`
}

// Feed re-scores remote results with the local Aggregator and falls back
// to the built-in screener lists when the remote cannot be used.
type Feed struct {
	remote Remote
	agg    *Aggregator
	now    func() time.Time
}

// NewFeed creates a Feed. remote may be nil for offline use.
func NewFeed(remote Remote, agg *Aggregator) *Feed {
	if agg == nil {
		agg = New(DefaultNormalization)
	}
	return &Feed{remote: remote, agg: agg, now: time.Now}
}

// Trending returns the top limit stocks
func (f *Feed) Trending(ctx context.Context, limit int) (*Snapshot, error) {
	if limit <= 0 {
		return nil, ErrInvalidArgument
	}

	if f.remote != nil {
		snap, err := f.fromRemote(ctx, limit)
		if err == nil {
			return snap, nil
		}
		log.Printf("trending: remote unavailable, using built-in screener data: %v", err)
	}

	res, err := f.agg.Aggregate(SeedSourceLists(), limit)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Date:     models.TradingDate(f.now()),
		Timezone: models.ExchangeTimezone,
		Items:    res.Ranked,
		Top1:     res.Top1,
		Fallback: true,
	}, nil
}

func (f *Feed) fromRemote(ctx context.Context, limit int) (*Snapshot, error) {
	remote, err := f.remote.ListTrending(ctx, limit)
	if err != nil {
		return nil, err
	}
	res, err := f.agg.Aggregate(SourceListsFromItems(remote.Stocks), limit)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Date:     remote.Date,
		Timezone: remote.Timezone,
		Items:    res.Ranked,
		Top1:     res.Top1,
	}
	if snap.Date == "" {
		snap.Date = models.TradingDate(f.now())
	}
	if snap.Timezone == "" {
		snap.Timezone = models.ExchangeTimezone
	}
	return snap, nil
}
