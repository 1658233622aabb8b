// Package store persists the briefing collection under a single versioned
// key. Reads never fail: missing or corrupt state is replaced by the seed
// dataset, and failed writes degrade to in-memory only for that call.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/YunseobShin/wall-street/internal/models"
)

// SchemaVersion is part of the storage key so a format change gets a fresh namespace.
const SchemaVersion = "v1"

// DefaultNamespace prefixes the storage key when none is configured
const DefaultNamespace = "wallstreet"

// ErrNotFound is returned when a requested briefing does not exist.
var ErrNotFound = errors.New("briefing not found")

// BriefingStore is the single writer of durable briefing state. Items are
// ordered newest first; the list head is the most recent briefing.
type BriefingStore struct {
	medium Medium
	key    string
	mu     sync.Mutex
}

// New creates a BriefingStore on top of medium
func New(medium Medium, namespace string) *BriefingStore {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &BriefingStore{
		medium: medium,
		key:    namespace + ":briefings:" + SchemaVersion,
	}
}

// Key returns the storage key the collection is persisted under
func (s *BriefingStore) Key() string {
	return s.key
}

// Load returns the persisted briefings, newest first
func (s *BriefingStore) Load(ctx context.Context) []models.Briefing {
	raw, ok, err := s.medium.Read(ctx, s.key)
	if err != nil {
		log.Printf("store: read %s failed, using seed data: %v", s.key, err)
		return SeedBriefings()
	}
	if !ok || raw == "" {
		return SeedBriefings()
	}

	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil || elems == nil {
		log.Printf("store: corrupt payload under %s, using seed data", s.key)
		return SeedBriefings()
	}

	// A malformed entry is dropped on its own; the rest of the collection survives.
	items := make([]models.Briefing, 0, len(elems))
	for i, elem := range elems {
		var b models.Briefing
		if err := json.Unmarshal(elem, &b); err != nil {
			log.Printf("store: skipping malformed entry %d under %s: %v", i, s.key, err)
			continue
		}
		items = append(items, b)
	}
	return items
}

// Save persists items as the full collection. A write failure is logged and
// the call becomes a no-op.
func (s *BriefingStore) Save(ctx context.Context, items []models.Briefing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save(ctx, items)
}

func (s *BriefingStore) save(ctx context.Context, items []models.Briefing) {
	if items == nil {
		items = []models.Briefing{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		log.Printf("store: failed to marshal briefings: %v", err)
		return
	}
	// The write completes even if the caller has gone away.
	if err := s.medium.Write(context.WithoutCancel(ctx), s.key, string(data)); err != nil {
		log.Printf("store: write %s failed, keeping in memory only: %v", s.key, err)
	}
}

// Upsert removes any briefing with the same ID, prepends b and persists the
// result, which is returned.
func (s *BriefingStore) Upsert(ctx context.Context, b models.Briefing) []models.Briefing {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.Load(ctx)
	next := make([]models.Briefing, 0, len(items)+1)
	next = append(next, b)
	for _, item := range items {
		if item.ID != b.ID {
			next = append(next, item)
		}
	}
	s.save(ctx, next)
	return next
}

// GetByID retrieves a briefing by ID
func (s *BriefingStore) GetByID(ctx context.Context, id string) (*models.Briefing, error) {
	for _, item := range s.Load(ctx) {
		if item.ID == id {
			b := item
			return &b, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}
