// Package briefing manages the lifecycle of daily briefings: remote
// creation, regeneration and lookup, with the store as source of truth.
package briefing

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/YunseobShin/wall-street/internal/models"
)

// Title and summary markers. Regeneration strips all of them before
// appending RegeneratedMarker once.
const (
	ManualMarker      = "(manual)"
	RegeneratedMarker = "(regenerated)"
)

// Generator produces a fully populated briefing, typically via the remote API
type Generator interface {
	GenerateBriefing(ctx context.Context) (*models.Briefing, error)
}

// Store is the persistence the manager writes through
type Store interface {
	Upsert(ctx context.Context, b models.Briefing) []models.Briefing
	GetByID(ctx context.Context, id string) (*models.Briefing, error)
}

// EventPublisher announces briefing changes
type EventPublisher interface {
	PublishBriefing(ctx context.Context, eventType string, b *models.Briefing) error
}

// Manager creates and regenerates briefings
type Manager struct {
	generator Generator
	store     Store
	publisher EventPublisher
	now       func() time.Time
	regen     singleflight.Group
}

// Option configures a Manager
type Option func(*Manager)

// WithPublisher publishes BRIEFING_CREATED and BRIEFING_REGENERATED events
func WithPublisher(p EventPublisher) Option {
	return func(m *Manager) { m.publisher = p }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a Manager
func NewManager(generator Generator, store Store, opts ...Option) *Manager {
	m := &Manager{
		generator: generator,
		store:     store,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create asks the generator for a new briefing and stores it. Any generator
// failure is returned as *GenerationUnavailableError and nothing is written.
func (m *Manager) Create(ctx context.Context) (*models.Briefing, error) {
	b, err := m.generator.GenerateBriefing(ctx)
	if err != nil {
		return nil, &GenerationUnavailableError{Err: err}
	}
	if err := check(b); err != nil {
		return nil, &GenerationUnavailableError{Err: err}
	}

	m.store.Upsert(ctx, *b)
	m.publish(ctx, models.EventBriefingCreated, b)
	log.Printf("briefing: created %s (%s, top1 %s)", b.ID, b.Date, b.Top1Symbol)
	return b, nil
}

// Regenerate produces a new version of existing under the same ID. A call
// for an ID that is already regenerating shares the in-flight result.
func (m *Manager) Regenerate(ctx context.Context, existing models.Briefing) (*models.Briefing, error) {
	if existing.ID == "" {
		return nil, fmt.Errorf("regenerate: briefing id is required")
	}

	v, err, shared := m.regen.Do(existing.ID, func() (interface{}, error) {
		next := existing
		next.Title = Mark(existing.Title)
		next.SummaryText = Mark(existing.SummaryText)
		next.CreatedAt = m.now().UTC()

		m.store.Upsert(ctx, next)
		m.publish(ctx, models.EventBriefingRegenerated, &next)
		return &next, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Printf("briefing: regenerate %s joined an in-flight request", existing.ID)
	}

	b := *v.(*models.Briefing)
	return &b, nil
}

// GetByID reads a briefing from the store
func (m *Manager) GetByID(ctx context.Context, id string) (*models.Briefing, error) {
	return m.store.GetByID(ctx, id)
}

// Mark strips every lifecycle marker from text and appends RegeneratedMarker once
func Mark(text string) string {
	for _, marker := range []string{ManualMarker, RegeneratedMarker} {
		text = strings.ReplaceAll(text, marker, "")
	}
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return RegeneratedMarker
	}
	return text + " " + RegeneratedMarker
}

func check(b *models.Briefing) error {
	if b == nil {
		return fmt.Errorf("generator returned no briefing")
	}
	if b.ID == "" {
		return fmt.Errorf("generated briefing has no id")
	}
	if !b.Status.Valid() {
		return fmt.Errorf("generated briefing %s has unknown status %q", b.ID, b.Status)
	}
	return nil
}

func (m *Manager) publish(ctx context.Context, eventType string, b *models.Briefing) {
	if m.publisher == nil {
		return
	}
	if err := m.publisher.PublishBriefing(ctx, eventType, b); err != nil {
		log.Printf("briefing: failed to publish %s for %s: %v", eventType, b.ID, err)
	}
}
