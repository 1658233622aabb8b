package models

import "time"

// BriefingStatus is the lifecycle status of a generated briefing
type BriefingStatus string

// Briefing status constants
const (
	BriefingStatusQueued BriefingStatus = "QUEUED"
	BriefingStatusReady  BriefingStatus = "READY"
	BriefingStatusFailed BriefingStatus = "FAILED"
)

// Valid reports whether s is one of the known statuses
func (s BriefingStatus) Valid() bool {
	switch s {
	case BriefingStatusQueued, BriefingStatusReady, BriefingStatusFailed:
		return true
	}
	return false
}

// Briefing represents one generated daily market briefing
type Briefing struct {
	ID            string         `json:"id"`
	Date          string         `json:"date"` // trading day, America/New_York
	Title         string         `json:"title"`
	Status        BriefingStatus `json:"status"`
	Top1Symbol    string         `json:"top1Symbol"`
	CriteriaLabel string         `json:"criteriaLabel"`
	SummaryText   string         `json:"summaryText"`
	ReportText    string         `json:"reportText"`
	ImageDataURL  string         `json:"imageDataUrl"`
	CreatedAt     time.Time      `json:"createdAt"`
	Meta          *BriefingMeta  `json:"meta,omitempty"`
}

// BriefingMeta carries provenance of the data a briefing was built from
type BriefingMeta struct {
	TradingDate string   `json:"tradingDate"`
	DataAsOf    string   `json:"dataAsOf,omitempty"`
	Timezone    string   `json:"timezone"`
	UsedCache   bool     `json:"usedCache"`
	Sources     []string `json:"sources,omitempty"`
	Disclaimer  string   `json:"disclaimer,omitempty"`
}
