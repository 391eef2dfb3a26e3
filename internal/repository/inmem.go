package repository

import (
	"context"
	"sync"

	"signal-gateway/internal/domain"
)

const inMemoryJournalCap = 500

// InMemoryOrderJournal keeps the most recent journal entries in memory. It is
// the fallback when no database is configured; history is lost on restart.
type InMemoryOrderJournal struct {
	entries []*domain.JournalEntry
	mu      sync.RWMutex
}

func NewInMemoryOrderJournal() *InMemoryOrderJournal {
	return &InMemoryOrderJournal{
		entries: make([]*domain.JournalEntry, 0, 64),
	}
}

func (r *InMemoryOrderJournal) Record(_ context.Context, entry *domain.JournalEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	if len(r.entries) > inMemoryJournalCap {
		r.entries = r.entries[len(r.entries)-inMemoryJournalCap:]
	}
	return nil
}

// Recent returns up to limit entries, newest first
func (r *InMemoryOrderJournal) Recent(_ context.Context, limit int) ([]*domain.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.entries) {
		limit = len(r.entries)
	}
	// Copy so callers can serialize without holding the lock.
	result := make([]*domain.JournalEntry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, r.entries[i])
	}
	return result, nil
}
