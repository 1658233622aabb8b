package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTradingDate(t *testing.T) {
	// 01:30 UTC on Feb 4 is still Feb 3 in New York
	assert.Equal(t, "2025-02-03", TradingDate(time.Date(2025, 2, 4, 1, 30, 0, 0, time.UTC)))
	assert.Equal(t, "2025-02-04", TradingDate(time.Date(2025, 2, 4, 15, 0, 0, 0, time.UTC)))
}

func TestSourceNames(t *testing.T) {
	assert.Equal(t, []string{"day_losers", "most_actives"}, SourceNames([]ScreenerSource{SourceDayLosers, SourceMostActives}))
	assert.Empty(t, SourceNames(nil))
}
