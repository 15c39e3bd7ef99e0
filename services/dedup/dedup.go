// Package dedup suppresses reprocessing of retried Slack deliveries. Slack
// redelivers events whenever the acknowledgment window is missed, so the
// store's atomic insert-if-absent is the only defense against posting the
// same translation twice.
package dedup

import (
	"context"
	"log"
	"sync"

	"translatebot/core"
	"translatebot/db"
	"translatebot/models"
)

// Store records processed event keys. MarkIfNew returns true only the first
// time a key is submitted; the check-and-insert is atomic under concurrent
// invocation.
type Store interface {
	MarkIfNew(ctx context.Context, key models.DedupKey) (bool, error)
}

// maxEntries caps the in-memory store. Slack retries arrive within minutes,
// so evicting the oldest keys at this size never drops a key that still
// matters.
const maxEntries = 10_000

// MemoryStore keeps processed keys for the lifetime of the process. State is
// intentionally not persisted; a restart starts fresh.
type MemoryStore struct {
	mu    sync.Mutex
	seen  map[models.DedupKey]struct{}
	order []models.DedupKey
	cap   int
}

// NewMemoryStore creates an in-memory dedup store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		seen: make(map[models.DedupKey]struct{}),
		cap:  maxEntries,
	}
}

func (s *MemoryStore) MarkIfNew(_ context.Context, key models.DedupKey) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[key]; ok {
		return false, nil
	}

	s.seen[key] = struct{}{}
	s.order = append(s.order, key)
	for len(s.order) > s.cap {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.seen, oldest)
	}
	return true, nil
}

// PostgresStore backs MarkIfNew with the processed_events table, for
// deployments that run more than one instance behind Slack's retries.
type PostgresStore struct {
	repo *db.PostgresProcessedEventsRepository
}

// NewPostgresStore creates a Postgres-backed dedup store
func NewPostgresStore(repo *db.PostgresProcessedEventsRepository) *PostgresStore {
	return &PostgresStore{repo: repo}
}

func (s *PostgresStore) MarkIfNew(ctx context.Context, key models.DedupKey) (bool, error) {
	inserted, err := s.repo.InsertProcessedEvent(ctx, &db.ProcessedEvent{
		ID:             core.NewID("evt"),
		SlackChannelID: key.Channel,
		SlackTS:        key.TS,
		SlackEditTS:    key.EditTS,
	})
	if err != nil {
		return false, err
	}
	if !inserted {
		log.Printf("⏭️ Event %s already recorded in processed_events", key)
	}
	return inserted, nil
}
