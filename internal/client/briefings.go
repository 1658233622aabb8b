package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/YunseobShin/wall-street/internal/models"
)

// TrendingResult is the ranked trending list returned by the API
type TrendingResult struct {
	Stocks   []models.TrendingStock
	Top1     models.TrendingStock
	Date     string
	Timezone string
}

type trendingData struct {
	Date     string                 `json:"date"`
	Timezone string                 `json:"timezone"`
	Items    []models.TrendingStock `json:"items"`
	Top1     *struct {
		Symbol         string  `json:"symbol"`
		Score          float64 `json:"score"`
		SelectedReason string  `json:"selectedReason"`
	} `json:"top1"`
}

// CreateResult is the acknowledgement of a briefing creation request
type CreateResult struct {
	BriefingID string `json:"briefingId"`
	Status     string `json:"status"`
	Date       string `json:"date"`
	Title      string `json:"title"`
	Top1Symbol string `json:"top1Symbol"`
}

type briefingData struct {
	BriefingID    string `json:"briefingId"`
	Date          string `json:"date"`
	Title         string `json:"title"`
	Status        string `json:"status"`
	Top1Symbol    string `json:"top1Symbol"`
	CriteriaLabel string `json:"criteriaLabel"`
	SummaryText   string `json:"summaryText"`
	ReportText    string `json:"reportText"`
	Assets        struct {
		Image struct {
			DataURL string `json:"dataUrl"`
			Width   int    `json:"width"`
			Height  int    `json:"height"`
		} `json:"image"`
	} `json:"assets"`
	CreatedAt string               `json:"createdAt"`
	Meta      *models.BriefingMeta `json:"meta"`
}

// SendEmailResult confirms a briefing email was handed to the mail provider
type SendEmailResult struct {
	Sent      bool   `json:"sent"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	SentAt    string `json:"sentAt"`
}

// ListTrending fetches the ranked trending stocks (GET /api/v1/trending-stocks)
func (c *Client) ListTrending(ctx context.Context, limit int) (*TrendingResult, error) {
	var data trendingData
	path := fmt.Sprintf("/api/v1/trending-stocks?limit=%d", limit)
	if err := call(ctx, c, "list trending stocks", http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	if len(data.Items) == 0 {
		return nil, &TransportError{Op: "list trending stocks", Body: "response contained no items"}
	}

	result := &TrendingResult{
		Stocks:   data.Items,
		Top1:     data.Items[0],
		Date:     data.Date,
		Timezone: data.Timezone,
	}
	if data.Top1 != nil {
		for _, item := range data.Items {
			if item.Symbol == data.Top1.Symbol {
				result.Top1 = item
				result.Top1.SelectedReason = data.Top1.SelectedReason
				break
			}
		}
	}
	return result, nil
}

// CreateBriefing asks the API to generate a briefing (POST /api/v1/briefings)
func (c *Client) CreateBriefing(ctx context.Context) (*CreateResult, error) {
	var data CreateResult
	if err := call(ctx, c, "create briefing", http.MethodPost, "/api/v1/briefings", map[string]any{}, &data); err != nil {
		return nil, err
	}
	if data.BriefingID == "" {
		return nil, &TransportError{Op: "create briefing", Body: "response is missing briefingId"}
	}
	return &data, nil
}

// FetchBriefing retrieves a full briefing (GET /api/v1/briefings/{id})
func (c *Client) FetchBriefing(ctx context.Context, id string) (*models.Briefing, error) {
	var data briefingData
	path := "/api/v1/briefings/" + url.PathEscape(id)
	if err := call(ctx, c, "fetch briefing", http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	if data.BriefingID == "" {
		return nil, &TransportError{Op: "fetch briefing", Body: "response is missing briefingId"}
	}

	createdAt, err := parseTimestamp(data.CreatedAt)
	if err != nil {
		return nil, &TransportError{Op: "fetch briefing", Err: fmt.Errorf("malformed createdAt %q: %w", data.CreatedAt, err)}
	}

	return &models.Briefing{
		ID:            data.BriefingID,
		Date:          data.Date,
		Title:         data.Title,
		Status:        models.BriefingStatus(data.Status),
		Top1Symbol:    data.Top1Symbol,
		CriteriaLabel: data.CriteriaLabel,
		SummaryText:   data.SummaryText,
		ReportText:    data.ReportText,
		ImageDataURL:  data.Assets.Image.DataURL,
		CreatedAt:     createdAt,
		Meta:          data.Meta,
	}, nil
}

// GenerateBriefing creates a briefing and fetches its full content
func (c *Client) GenerateBriefing(ctx context.Context) (*models.Briefing, error) {
	created, err := c.CreateBriefing(ctx)
	if err != nil {
		return nil, err
	}
	return c.FetchBriefing(ctx, created.BriefingID)
}

// SendBriefingEmail asks the API to email a briefing (POST /api/v1/briefings/{id}/send-email)
func (c *Client) SendBriefingEmail(ctx context.Context, id, recipient string) (*SendEmailResult, error) {
	var data SendEmailResult
	path := "/api/v1/briefings/" + url.PathEscape(id) + "/send-email"
	body := map[string]string{"recipient": recipient}
	if err := call(ctx, c, "send briefing email", http.MethodPost, path, body, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
