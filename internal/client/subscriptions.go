package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/YunseobShin/wall-street/internal/models"
)

// Subscribe registers an email for daily delivery (POST /api/v1/subscriptions)
func (c *Client) Subscribe(ctx context.Context, email, sendTimeKST string) (*models.Subscription, error) {
	var data models.Subscription
	body := map[string]string{"email": email, "send_time_kst": sendTimeKST}
	if err := call(ctx, c, "subscribe", http.MethodPost, "/api/v1/subscriptions", body, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Unsubscribe cancels delivery for an email (DELETE /api/v1/subscriptions/{email})
func (c *Client) Unsubscribe(ctx context.Context, email string) error {
	path := "/api/v1/subscriptions/" + url.PathEscape(email)
	return call[struct{}](ctx, c, "unsubscribe", http.MethodDelete, path, nil, nil)
}
