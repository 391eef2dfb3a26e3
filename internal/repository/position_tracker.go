package repository

import (
	"sort"
	"sync"

	"signal-gateway/internal/domain"
)

type positionKey struct {
	accountID string
	symbol    string
}

// positionEntry is the tracked state for one (account, symbol) key. The entry
// mutex serializes the whole read-plan-apply-dispatch-commit sequence for the
// key; the client-order sequence counter lives here so it shares the same
// critical section.
type positionEntry struct {
	mu   sync.Mutex
	side domain.PositionSide
	qty  float64
	seq  uint64
}

// PositionTracker maintains per-(account, symbol) position state in memory.
// Entries for different keys never contend with each other. State is not
// persisted: the exchange is the source of truth across restarts and Seed
// replays it in before intents are accepted.
type PositionTracker struct {
	mu      sync.RWMutex
	entries map[positionKey]*positionEntry
}

func NewPositionTracker() *PositionTracker {
	return &PositionTracker{
		entries: make(map[positionKey]*positionEntry),
	}
}

// entry returns the entry for a key, creating it lazily as FLAT/0
func (t *PositionTracker) entry(accountID, symbol string) *positionEntry {
	key := positionKey{accountID: accountID, symbol: symbol}

	t.mu.RLock()
	e, ok := t.entries[key]
	t.mu.RUnlock()
	if ok {
		return e
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok = t.entries[key]; ok {
		return e
	}
	e = &positionEntry{side: domain.PositionFlat}
	t.entries[key] = e
	return e
}

// Get returns the current state for a key, FLAT/0 if nothing was tracked yet.
// It never mutates.
func (t *PositionTracker) Get(accountID, symbol string) domain.PositionState {
	key := positionKey{accountID: accountID, symbol: symbol}

	t.mu.RLock()
	e, ok := t.entries[key]
	t.mu.RUnlock()
	if !ok {
		return domain.PositionState{Side: domain.PositionFlat}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.PositionState{Side: e.side, OpenQuantity: e.qty}
}

// Apply mutates the state for a key and returns the new state. A close resets
// to FLAT/0; otherwise the delta is added for the matching side (negative
// deltas reduce), decaying to FLAT when the quantity reaches zero.
func (t *PositionTracker) Apply(accountID, symbol string, side domain.PositionSide, delta float64, isClose bool) domain.PositionState {
	e := t.entry(accountID, symbol)

	e.mu.Lock()
	defer e.mu.Unlock()
	if isClose {
		e.side = domain.PositionFlat
		e.qty = 0
	} else {
		if e.side == domain.PositionFlat {
			e.side = side
		}
		e.qty += delta
		if e.qty <= 0 {
			e.side = domain.PositionFlat
			e.qty = 0
		}
	}
	return domain.PositionState{Side: e.side, OpenQuantity: e.qty}
}

// PositionTx is a handle to one key's state while its lock is held
type PositionTx struct {
	e *positionEntry
}

// State returns the current state for the locked key
func (tx *PositionTx) State() domain.PositionState {
	return domain.PositionState{Side: tx.e.side, OpenQuantity: tx.e.qty}
}

// SetState overwrites the state for the locked key. The pipeline uses it for
// the tentative apply and, on dispatch failure, the compensating revert.
func (tx *PositionTx) SetState(st domain.PositionState) {
	tx.e.side = st.Side
	tx.e.qty = st.OpenQuantity
	if tx.e.qty <= 0 {
		tx.e.side = domain.PositionFlat
		tx.e.qty = 0
	}
}

// NextSeq increments and returns the per-key client-order sequence number
func (tx *PositionTx) NextSeq() uint64 {
	tx.e.seq++
	return tx.e.seq
}

// Locked runs fn while holding the key's lock. Two concurrent calls for the
// same key are serialized; calls for different keys are not. Dispatching an
// order inside fn is allowed and is how the plan-dispatch-commit sequence
// stays transactional per key.
func (t *PositionTracker) Locked(accountID, symbol string, fn func(tx *PositionTx) error) error {
	e := t.entry(accountID, symbol)

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(&PositionTx{e: e})
}

// Seed replaces the state for a key, used by startup reconciliation
func (t *PositionTracker) Seed(accountID, symbol string, side domain.PositionSide, qty float64) {
	e := t.entry(accountID, symbol)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.side = side
	e.qty = qty
	if e.qty <= 0 {
		e.side = domain.PositionFlat
		e.qty = 0
	}
}

// Snapshot returns all non-flat tracked positions, ordered by key
func (t *PositionTracker) Snapshot() []domain.TrackedPosition {
	t.mu.RLock()
	keys := make([]positionKey, 0, len(t.entries))
	for key := range t.entries {
		keys = append(keys, key)
	}
	t.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].accountID != keys[j].accountID {
			return keys[i].accountID < keys[j].accountID
		}
		return keys[i].symbol < keys[j].symbol
	})

	positions := make([]domain.TrackedPosition, 0, len(keys))
	for _, key := range keys {
		st := t.Get(key.accountID, key.symbol)
		if st.IsFlat() {
			continue
		}
		positions = append(positions, domain.TrackedPosition{
			AccountID:    key.accountID,
			Symbol:       key.symbol,
			Side:         st.Side,
			OpenQuantity: st.OpenQuantity,
		})
	}
	return positions
}
