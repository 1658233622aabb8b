package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YunseobShin/wall-street/internal/models"
	"github.com/YunseobShin/wall-street/internal/store"
)

// MockRepository implements BriefingRepository for testing
type MockRepository struct {
	briefings map[string]models.Briefing
	lookupErr error

	// Track method calls for verification
	UpsertCalls int
}

func NewMockRepository() *MockRepository {
	return &MockRepository{briefings: make(map[string]models.Briefing)}
}

func (m *MockRepository) GetByID(_ context.Context, id string) (*models.Briefing, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	b, ok := m.briefings[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	return &b, nil
}

func (m *MockRepository) Upsert(_ context.Context, b models.Briefing) []models.Briefing {
	m.UpsertCalls++
	m.briefings[b.ID] = b
	return nil
}

func readyMessage(t *testing.T, b *models.Briefing) kafka.Message {
	t.Helper()
	event := models.BriefingEvent{
		EventType: models.EventBriefingReady,
		Briefing:  b,
		Timestamp: time.Now(),
	}
	if b != nil {
		event.BriefingID = b.ID
	}
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Key: []byte(event.BriefingID), Value: data}
}

func dailyBriefing(createdAt time.Time) *models.Briefing {
	return &models.Briefing{
		ID:         "daily-2025-02-03",
		Date:       "2025-02-03",
		Title:      "2025-02-03 Wall Street briefing: NVDA",
		Status:     models.BriefingStatusReady,
		Top1Symbol: "NVDA",
		CreatedAt:  createdAt,
	}
}

func TestProcessMessage_StoresReadyBriefing(t *testing.T) {
	repo := NewMockRepository()
	consumer := &Consumer{repo: repo}
	createdAt := time.Date(2025, 2, 3, 21, 30, 0, 0, time.UTC)

	err := consumer.processMessage(context.Background(), readyMessage(t, dailyBriefing(createdAt)))
	require.NoError(t, err)

	assert.Equal(t, 1, repo.UpsertCalls)
	stored := repo.briefings["daily-2025-02-03"]
	assert.Equal(t, "NVDA", stored.Top1Symbol)
	assert.True(t, createdAt.Equal(stored.CreatedAt))
}

func TestProcessMessage_Idempotent(t *testing.T) {
	repo := NewMockRepository()
	consumer := &Consumer{repo: repo}
	createdAt := time.Date(2025, 2, 3, 21, 30, 0, 0, time.UTC)
	msg := readyMessage(t, dailyBriefing(createdAt))

	require.NoError(t, consumer.processMessage(context.Background(), msg))
	require.NoError(t, consumer.processMessage(context.Background(), msg))
	assert.Equal(t, 1, repo.UpsertCalls, "redelivery must not write twice")

	// an older version is ignored, a newer one replaces
	require.NoError(t, consumer.processMessage(context.Background(), readyMessage(t, dailyBriefing(createdAt.Add(-time.Hour)))))
	assert.Equal(t, 1, repo.UpsertCalls)
	require.NoError(t, consumer.processMessage(context.Background(), readyMessage(t, dailyBriefing(createdAt.Add(time.Hour)))))
	assert.Equal(t, 2, repo.UpsertCalls)
}

func TestProcessMessage_IgnoresOtherEvents(t *testing.T) {
	repo := NewMockRepository()
	consumer := &Consumer{repo: repo}

	data, err := json.Marshal(models.BriefingEvent{EventType: models.EventBriefingCreated, Briefing: dailyBriefing(time.Now())})
	require.NoError(t, err)

	require.NoError(t, consumer.processMessage(context.Background(), kafka.Message{Value: data}))
	assert.Equal(t, 0, repo.UpsertCalls)
}

func TestProcessMessage_Errors(t *testing.T) {
	tests := []struct {
		name  string
		msg   func(t *testing.T) kafka.Message
		repo  func() *MockRepository
		error string
	}{
		{
			name:  "invalid json",
			msg:   func(t *testing.T) kafka.Message { return kafka.Message{Value: []byte("{not json")} },
			repo:  NewMockRepository,
			error: "failed to unmarshal briefing event",
		},
		{
			name:  "missing briefing",
			msg:   func(t *testing.T) kafka.Message { return readyMessage(t, nil) },
			repo:  NewMockRepository,
			error: "has no briefing",
		},
		{
			name: "unknown status",
			msg: func(t *testing.T) kafka.Message {
				b := dailyBriefing(time.Now())
				b.Status = "DONE"
				return readyMessage(t, b)
			},
			repo:  NewMockRepository,
			error: "unknown status",
		},
		{
			name: "lookup failure",
			msg:  func(t *testing.T) kafka.Message { return readyMessage(t, dailyBriefing(time.Now())) },
			repo: func() *MockRepository {
				r := NewMockRepository()
				r.lookupErr = errors.New("medium offline")
				return r
			},
			error: "medium offline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := tt.repo()
			consumer := &Consumer{repo: repo}

			err := consumer.processMessage(context.Background(), tt.msg(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.error)
			assert.Equal(t, 0, repo.UpsertCalls)
		})
	}
}

func TestProcessMessage_WithBriefingStore(t *testing.T) {
	s := store.New(store.NewMemoryMedium(), "test")
	consumer := &Consumer{repo: s}

	require.NoError(t, consumer.processMessage(context.Background(), readyMessage(t, dailyBriefing(time.Now().UTC()))))

	items := s.Load(context.Background())
	require.NotEmpty(t, items)
	assert.Equal(t, "daily-2025-02-03", items[0].ID)
}
