package models

import "time"

// Channel is a briefing delivery channel
type Channel string

// Notification channel constants
const (
	ChannelEmail Channel = "email"
	ChannelChat  Channel = "chat"
)

// DispatchStatus is the terminal outcome of a dispatch attempt
type DispatchStatus string

// Dispatch status constants. DispatchStatusQueued only exists while the
// transport call is in flight and is never stored.
const (
	DispatchStatusQueued DispatchStatus = "QUEUED"
	DispatchStatusSent   DispatchStatus = "SENT"
	DispatchStatusFailed DispatchStatus = "FAILED"
)

// DispatchResult records one delivery attempt of a briefing
type DispatchResult struct {
	ID         string         `json:"id"`
	BriefingID string         `json:"briefingId"`
	Channel    Channel        `json:"channel"`
	Status     DispatchStatus `json:"status"`
	Recipient  string         `json:"recipient,omitempty"`
	SentAt     time.Time      `json:"sentAt"`
	Message    string         `json:"message"`
}
