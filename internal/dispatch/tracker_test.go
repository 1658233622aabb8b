package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/YunseobShin/wall-street/internal/client"
	"github.com/YunseobShin/wall-street/internal/models"
)

// MockTransport is a mock implementation of Transport
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Send(ctx context.Context, briefingID string, p Payload) (string, error) {
	args := m.Called(ctx, briefingID, p)
	return args.String(0), args.Error(1)
}

// gatedTransport blocks until release is closed
type gatedTransport struct {
	entered chan struct{}
	release chan struct{}
}

func (g *gatedTransport) Send(ctx context.Context, _ string, _ Payload) (string, error) {
	close(g.entered)
	<-g.release
	return "ok", nil
}

// slowTransport waits for its context to expire
type slowTransport struct{}

func (slowTransport) Send(ctx context.Context, _ string, _ Payload) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

type recordingPublisher struct {
	mu      sync.Mutex
	results []*models.DispatchResult
}

func (p *recordingPublisher) PublishDispatch(_ context.Context, r *models.DispatchResult) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = append(p.results, r)
	return nil
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("d%d", n)
	}
}

func TestDispatch_Email(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed recipient fails without calling the transport", func(t *testing.T) {
		email := new(MockTransport)
		tr := NewTracker(map[models.Channel]Transport{models.ChannelEmail: email})

		res, err := tr.Dispatch(ctx, "b1", models.ChannelEmail, Payload{Recipient: "not-an-email"})
		require.NoError(t, err)
		assert.Equal(t, models.DispatchStatusFailed, res.Status)
		assert.Contains(t, res.Message, "not-an-email")
		email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
		assert.Len(t, tr.Log(), 1)
	})

	t.Run("success is recorded newest first", func(t *testing.T) {
		email := new(MockTransport)
		email.On("Send", mock.Anything, "b1", Payload{Recipient: "user@example.com"}).Return("Sent to user@example.com", nil)
		pub := &recordingPublisher{}
		now := time.Date(2025, 2, 3, 22, 0, 0, 0, time.UTC)
		tr := NewTracker(map[models.Channel]Transport{models.ChannelEmail: email},
			WithClock(func() time.Time { return now }), WithIDGenerator(sequentialIDs()), WithPublisher(pub))

		_, err := tr.Dispatch(ctx, "b0", models.ChannelEmail, Payload{Recipient: "bad"})
		require.NoError(t, err)
		res, err := tr.Dispatch(ctx, "b1", models.ChannelEmail, Payload{Recipient: "user@example.com"})
		require.NoError(t, err)

		assert.Equal(t, models.DispatchStatusSent, res.Status)
		logged := tr.Log()
		require.Len(t, logged, 2)
		assert.Equal(t, "d2", logged[0].ID)
		assert.Equal(t, models.ChannelEmail, logged[0].Channel)
		assert.Equal(t, models.DispatchStatusSent, logged[0].Status)
		assert.Equal(t, "b1", logged[0].BriefingID)
		assert.Equal(t, now, logged[0].SentAt)
		assert.Len(t, pub.results, 2)
		email.AssertExpectations(t)
	})

	t.Run("transport error message carries the cause", func(t *testing.T) {
		email := new(MockTransport)
		email.On("Send", mock.Anything, "b1", mock.Anything).
			Return("", &client.TransportError{Op: "send briefing email", StatusCode: 502, Body: "smtp relay down"})
		tr := NewTracker(map[models.Channel]Transport{models.ChannelEmail: email})

		res, err := tr.Dispatch(ctx, "b1", models.ChannelEmail, Payload{Recipient: "user@example.com"})
		require.NoError(t, err)
		assert.Equal(t, models.DispatchStatusFailed, res.Status)
		assert.Contains(t, res.Message, "smtp relay down")
	})

	t.Run("timeout becomes a failed record", func(t *testing.T) {
		tr := NewTracker(map[models.Channel]Transport{models.ChannelEmail: slowTransport{}}, WithTimeout(20*time.Millisecond))

		res, err := tr.Dispatch(ctx, "b1", models.ChannelEmail, Payload{Recipient: "user@example.com"})
		require.NoError(t, err)
		assert.Equal(t, models.DispatchStatusFailed, res.Status)
		assert.Contains(t, res.Message, context.DeadlineExceeded.Error())
	})

	t.Run("recipient is trimmed before delivery and recording", func(t *testing.T) {
		email := new(MockTransport)
		email.On("Send", mock.Anything, "b1", Payload{Recipient: "user@example.com"}).Return("Sent to user@example.com", nil)
		tr := NewTracker(map[models.Channel]Transport{models.ChannelEmail: email})

		res, err := tr.Dispatch(ctx, "b1", models.ChannelEmail, Payload{Recipient: "  user@example.com \n"})
		require.NoError(t, err)
		assert.Equal(t, models.DispatchStatusSent, res.Status)
		assert.Equal(t, "user@example.com", res.Recipient)
		email.AssertExpectations(t)
	})

	t.Run("zero timeout keeps the default", func(t *testing.T) {
		email := new(MockTransport)
		email.On("Send", mock.Anything, "b1", mock.Anything).Return("Sent to user@example.com", nil)
		tr := NewTracker(map[models.Channel]Transport{models.ChannelEmail: email}, WithTimeout(0))

		res, err := tr.Dispatch(ctx, "b1", models.ChannelEmail, Payload{Recipient: "user@example.com"})
		require.NoError(t, err)
		assert.Equal(t, models.DispatchStatusSent, res.Status)
		assert.Equal(t, DefaultTimeout, tr.timeout)
	})
}

func TestDispatch_Chat(t *testing.T) {
	ctx := context.Background()

	t.Run("chat does not require an email recipient", func(t *testing.T) {
		chat := new(MockTransport)
		chat.On("Send", mock.Anything, "b1", mock.Anything).Return("Posted to chat", nil)
		tr := NewTracker(map[models.Channel]Transport{models.ChannelChat: chat})

		res, err := tr.Dispatch(ctx, "b1", models.ChannelChat, Payload{})
		require.NoError(t, err)
		assert.Equal(t, models.DispatchStatusSent, res.Status)
	})

	t.Run("missing transport is a failed record", func(t *testing.T) {
		tr := NewTracker(nil)

		res, err := tr.Dispatch(ctx, "b1", models.ChannelChat, Payload{})
		require.NoError(t, err)
		assert.Equal(t, models.DispatchStatusFailed, res.Status)
		assert.Len(t, tr.Log(), 1)
	})

	t.Run("a failure does not block the next attempt", func(t *testing.T) {
		chat := new(MockTransport)
		chat.On("Send", mock.Anything, "b1", mock.Anything).Return("", errors.New("webhook 500")).Once()
		chat.On("Send", mock.Anything, "b1", mock.Anything).Return("Posted to chat", nil).Once()
		tr := NewTracker(map[models.Channel]Transport{models.ChannelChat: chat})

		first, _ := tr.Dispatch(ctx, "b1", models.ChannelChat, Payload{})
		second, _ := tr.Dispatch(ctx, "b1", models.ChannelChat, Payload{})
		assert.Equal(t, models.DispatchStatusFailed, first.Status)
		assert.Equal(t, models.DispatchStatusSent, second.Status)
	})
}

func TestDispatch_InFlight(t *testing.T) {
	ctx := context.Background()
	gate := &gatedTransport{entered: make(chan struct{}), release: make(chan struct{})}
	chat := new(MockTransport)
	tr := NewTracker(map[models.Channel]Transport{
		models.ChannelEmail: gate,
		models.ChannelChat:  chat,
	})

	done := make(chan models.DispatchResult)
	go func() {
		res, _ := tr.Dispatch(ctx, "b1", models.ChannelEmail, Payload{Recipient: "user@example.com"})
		done <- res
	}()
	<-gate.entered

	_, err := tr.Dispatch(ctx, "b1", models.ChannelChat, Payload{})
	assert.ErrorIs(t, err, ErrDispatchInFlight)
	chat.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)

	close(gate.release)
	res := <-done
	assert.Equal(t, models.DispatchStatusSent, res.Status)
	assert.Len(t, tr.Log(), 1, "rejected call appends no record")
}

func TestLogFor(t *testing.T) {
	ctx := context.Background()
	chat := new(MockTransport)
	chat.On("Send", mock.Anything, mock.Anything, mock.Anything).Return("ok", nil)
	tr := NewTracker(map[models.Channel]Transport{models.ChannelChat: chat}, WithIDGenerator(sequentialIDs()))

	for _, id := range []string{"b1", "b2", "b1"} {
		_, err := tr.Dispatch(ctx, id, models.ChannelChat, Payload{})
		require.NoError(t, err)
	}

	forB1 := tr.LogFor("b1")
	require.Len(t, forB1, 2)
	assert.Equal(t, "d3", forB1[0].ID)
	assert.Equal(t, "d1", forB1[1].ID)

	// returned slices are copies
	all := tr.Log()
	all[0].Status = models.DispatchStatusFailed
	assert.Equal(t, models.DispatchStatusSent, tr.Log()[0].Status)
}
