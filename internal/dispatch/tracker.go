// Package dispatch delivers briefings over named channels and keeps an
// append-only, process-local log of every attempt.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/YunseobShin/wall-street/internal/models"
	"github.com/YunseobShin/wall-street/internal/validate"
)

// DefaultTimeout bounds a single transport call
const DefaultTimeout = 10 * time.Second

// ErrDispatchInFlight is returned when another dispatch has not resolved yet.
// No record is appended for a rejected call.
var ErrDispatchInFlight = errors.New("another dispatch is in flight")

// Payload is what gets delivered
type Payload struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject,omitempty"`
	Text      string `json:"text,omitempty"`
}

// Transport performs the actual delivery and returns a human readable
// confirmation message.
type Transport interface {
	Send(ctx context.Context, briefingID string, payload Payload) (string, error)
}

// EventPublisher announces recorded dispatch results
type EventPublisher interface {
	PublishDispatch(ctx context.Context, result *models.DispatchResult) error
}

// Tracker issues dispatch attempts and records their outcome
type Tracker struct {
	transports map[models.Channel]Transport
	timeout    time.Duration
	now        func() time.Time
	newID      func() string
	publisher  EventPublisher

	busy atomic.Bool

	mu      sync.RWMutex
	records []models.DispatchResult
}

// Option configures a Tracker
type Option func(*Tracker)

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.timeout = d
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithIDGenerator overrides uuid record IDs
func WithIDGenerator(gen func() string) Option {
	return func(t *Tracker) { t.newID = gen }
}

// WithPublisher publishes a DISPATCH_RECORDED event for every record
func WithPublisher(p EventPublisher) Option {
	return func(t *Tracker) { t.publisher = p }
}

// NewTracker creates a Tracker over the given channel transports
func NewTracker(transports map[models.Channel]Transport, opts ...Option) *Tracker {
	t := &Tracker{
		transports: transports,
		timeout:    DefaultTimeout,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Dispatch delivers payload for briefingID over channel. It resolves to
// exactly one terminal record, SENT or FAILED, which is also appended to the
// log. The only error returned is ErrDispatchInFlight.
func (t *Tracker) Dispatch(ctx context.Context, briefingID string, channel models.Channel, payload Payload) (models.DispatchResult, error) {
	if !t.busy.CompareAndSwap(false, true) {
		return models.DispatchResult{}, ErrDispatchInFlight
	}
	defer t.busy.Store(false)

	payload.Recipient = strings.TrimSpace(payload.Recipient)
	status, message := t.deliver(ctx, briefingID, channel, payload)

	result := models.DispatchResult{
		ID:         t.newID(),
		BriefingID: briefingID,
		Channel:    channel,
		Status:     status,
		Recipient:  payload.Recipient,
		SentAt:     t.now().UTC(),
		Message:    message,
	}
	t.append(result)

	log.Printf("dispatch: %s %s for %s -> %s (%s)", channel, result.ID, briefingID, status, message)
	if t.publisher != nil {
		if err := t.publisher.PublishDispatch(ctx, &result); err != nil {
			log.Printf("dispatch: failed to publish record %s: %v", result.ID, err)
		}
	}
	return result, nil
}

func (t *Tracker) deliver(ctx context.Context, briefingID string, channel models.Channel, payload Payload) (models.DispatchStatus, string) {
	if channel == models.ChannelEmail {
		if err := validate.Email(payload.Recipient); err != nil {
			return models.DispatchStatusFailed, err.Error()
		}
	}

	transport, ok := t.transports[channel]
	if !ok || transport == nil {
		return models.DispatchStatusFailed, fmt.Sprintf("no transport configured for channel %q", channel)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	message, err := transport.Send(ctx, briefingID, payload)
	if err != nil {
		return models.DispatchStatusFailed, fmt.Sprintf("%s delivery failed: %v", channel, err)
	}
	return models.DispatchStatusSent, message
}

func (t *Tracker) append(r models.DispatchResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = append(t.records, r)
}

// Log returns every record, newest first
func (t *Tracker) Log() []models.DispatchResult {
	return t.LogFor("")
}

// LogFor returns the records of one briefing, newest first. An empty
// briefingID matches all records.
func (t *Tracker) LogFor(briefingID string) []models.DispatchResult {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]models.DispatchResult, 0, len(t.records))
	for i := len(t.records) - 1; i >= 0; i-- {
		if briefingID == "" || t.records[i].BriefingID == briefingID {
			out = append(out, t.records[i])
		}
	}
	return out
}
