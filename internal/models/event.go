package models

import "time"

// Event type constants
const (
	EventBriefingReady       = "BRIEFING_READY"
	EventBriefingCreated     = "BRIEFING_CREATED"
	EventBriefingRegenerated = "BRIEFING_REGENERATED"
	EventDispatchRecorded    = "DISPATCH_RECORDED"
)

// BriefingEvent represents a Kafka event for briefing changes
type BriefingEvent struct {
	EventType  string    `json:"event_type"`
	Briefing   *Briefing `json:"briefing,omitempty"`
	BriefingID string    `json:"briefing_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// DispatchEvent represents a Kafka event for a recorded dispatch attempt
type DispatchEvent struct {
	EventType string          `json:"event_type"`
	Result    *DispatchResult `json:"result"`
	Timestamp time.Time       `json:"timestamp"`
}
