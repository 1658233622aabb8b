// Package subscription validates and forwards daily-delivery subscriptions.
package subscription

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/YunseobShin/wall-street/internal/models"
	"github.com/YunseobShin/wall-street/internal/validate"
)

// Remote is the subscription half of the briefing API
type Remote interface {
	Subscribe(ctx context.Context, email, sendTimeKST string) (*models.Subscription, error)
	Unsubscribe(ctx context.Context, email string) error
}

// Service guards the remote with input validation
type Service struct {
	remote Remote
}

// NewService creates a Service
func NewService(remote Remote) *Service {
	return &Service{remote: remote}
}

// Subscribe registers email for delivery at sendTime (KST, HH:MM). An empty
// sendTime means models.DefaultSendTimeKST.
func (s *Service) Subscribe(ctx context.Context, email, sendTime string) (*models.Subscription, error) {
	email = strings.TrimSpace(email)
	if err := validate.Email(email); err != nil {
		return nil, err
	}
	if sendTime == "" {
		sendTime = models.DefaultSendTimeKST
	}
	if err := validate.SendTime(sendTime); err != nil {
		return nil, err
	}

	sub, err := s.remote.Subscribe(ctx, email, sendTime)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe %s: %w", email, err)
	}
	log.Printf("subscription: %s subscribed for %s KST", email, sub.SendTimeKST)
	return sub, nil
}

// Unsubscribe cancels delivery for email
func (s *Service) Unsubscribe(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := validate.Email(email); err != nil {
		return err
	}
	if err := s.remote.Unsubscribe(ctx, email); err != nil {
		return fmt.Errorf("failed to unsubscribe %s: %w", email, err)
	}
	log.Printf("subscription: %s unsubscribed", email)
	return nil
}
