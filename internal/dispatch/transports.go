package dispatch

import (
	"context"
	"fmt"

	"github.com/YunseobShin/wall-street/internal/client"
)

// EmailSender asks the remote API to email a briefing
type EmailSender interface {
	SendBriefingEmail(ctx context.Context, id, recipient string) (*client.SendEmailResult, error)
}

// EmailTransport delivers through the remote API's send-email operation
type EmailTransport struct {
	sender EmailSender
}

// NewEmailTransport creates an EmailTransport
func NewEmailTransport(sender EmailSender) *EmailTransport {
	return &EmailTransport{sender: sender}
}

// Send implements Transport
func (e *EmailTransport) Send(ctx context.Context, briefingID string, p Payload) (string, error) {
	res, err := e.sender.SendBriefingEmail(ctx, briefingID, p.Recipient)
	if err != nil {
		return "", err
	}
	if !res.Sent {
		return "", fmt.Errorf("mail provider did not accept the message for %s", p.Recipient)
	}
	return fmt.Sprintf("Sent to %s", res.Recipient), nil
}

// ChatSender posts a message to a chat room
type ChatSender interface {
	SendMessage(ctx context.Context, channel, text string) error
}

// ChatTransport delivers through a chat webhook
type ChatTransport struct {
	sender ChatSender
}

// NewChatTransport creates a ChatTransport
func NewChatTransport(sender ChatSender) *ChatTransport {
	return &ChatTransport{sender: sender}
}

// Send implements Transport. Payload.Recipient selects the room; empty
// posts to the webhook default.
func (c *ChatTransport) Send(ctx context.Context, briefingID string, p Payload) (string, error) {
	text := p.Text
	if text == "" {
		text = "Briefing " + briefingID
	}
	if p.Subject != "" {
		text = p.Subject + "\n" + text
	}
	if err := c.sender.SendMessage(ctx, p.Recipient, text); err != nil {
		return "", err
	}
	if p.Recipient == "" {
		return "Posted to chat", nil
	}
	return fmt.Sprintf("Posted to %s", p.Recipient), nil
}
