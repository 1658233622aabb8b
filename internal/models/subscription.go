package models

// DefaultSendTimeKST is the delivery time used when a subscriber does not pick one
const DefaultSendTimeKST = "07:00"

// Subscription represents a recurring email delivery registration
type Subscription struct {
	ID          string `json:"subscriptionId"`
	Email       string `json:"email"`
	SendTimeKST string `json:"sendTimeKst"`
	IsActive    bool   `json:"isActive"`
	Message     string `json:"message,omitempty"`
}
