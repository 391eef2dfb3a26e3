package repository

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal-gateway/internal/domain"
)

func TestTrackerGetDefaultsToFlat(t *testing.T) {
	tracker := NewPositionTracker()

	state := tracker.Get("acct", "BTCUSDT")
	assert.Equal(t, domain.PositionFlat, state.Side)
	assert.Zero(t, state.OpenQuantity)

	// Get never creates an entry.
	assert.Empty(t, tracker.Snapshot())
}

func TestTrackerApply(t *testing.T) {
	tracker := NewPositionTracker()

	state := tracker.Apply("acct", "BTCUSDT", domain.PositionLong, 100, false)
	assert.Equal(t, domain.PositionLong, state.Side)
	assert.Equal(t, 100.0, state.OpenQuantity)

	state = tracker.Apply("acct", "BTCUSDT", domain.PositionLong, -40, false)
	assert.Equal(t, 60.0, state.OpenQuantity)

	state = tracker.Apply("acct", "BTCUSDT", domain.PositionLong, 0, true)
	assert.Equal(t, domain.PositionFlat, state.Side)
	assert.Zero(t, state.OpenQuantity)
}

func TestTrackerApplyDecaysToFlatAtZero(t *testing.T) {
	tracker := NewPositionTracker()

	tracker.Apply("acct", "BTCUSDT", domain.PositionShort, 10, false)
	state := tracker.Apply("acct", "BTCUSDT", domain.PositionShort, -10, false)
	assert.Equal(t, domain.PositionFlat, state.Side)
	assert.Zero(t, state.OpenQuantity)
}

func TestTrackerLockedTransaction(t *testing.T) {
	tracker := NewPositionTracker()

	err := tracker.Locked("acct", "BTCUSDT", func(tx *PositionTx) error {
		assert.True(t, tx.State().IsFlat())
		tx.SetState(domain.PositionState{Side: domain.PositionLong, OpenQuantity: 5})
		return nil
	})
	require.NoError(t, err)

	state := tracker.Get("acct", "BTCUSDT")
	assert.Equal(t, domain.PositionLong, state.Side)
	assert.Equal(t, 5.0, state.OpenQuantity)
}

func TestTrackerSequenceIsPerKey(t *testing.T) {
	tracker := NewPositionTracker()

	var a, b, c uint64
	_ = tracker.Locked("acct", "BTCUSDT", func(tx *PositionTx) error {
		a = tx.NextSeq()
		b = tx.NextSeq()
		return nil
	})
	_ = tracker.Locked("acct", "ETHUSDT", func(tx *PositionTx) error {
		c = tx.NextSeq()
		return nil
	})

	assert.Equal(t, uint64(1), a)
	assert.Equal(t, uint64(2), b)
	assert.Equal(t, uint64(1), c) // other keys count independently
}

func TestTrackerConcurrentReductionsSerialize(t *testing.T) {
	tracker := NewPositionTracker()
	tracker.Seed("acct", "BTCUSDT", domain.PositionLong, 100)

	// 100 goroutines each take 1 off the position inside the key lock.
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tracker.Locked("acct", "BTCUSDT", func(tx *PositionTx) error {
				st := tx.State()
				st.OpenQuantity -= 1
				tx.SetState(st)
				return nil
			})
		}()
	}
	wg.Wait()

	state := tracker.Get("acct", "BTCUSDT")
	assert.True(t, state.IsFlat())
	assert.Zero(t, state.OpenQuantity) // never negative
}

func TestTrackerDifferentKeysDoNotInterfere(t *testing.T) {
	tracker := NewPositionTracker()

	var wg sync.WaitGroup
	symbols := []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"}
	for _, symbol := range symbols {
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(symbol string) {
				defer wg.Done()
				tracker.Apply("acct", symbol, domain.PositionLong, 1, false)
			}(symbol)
		}
	}
	wg.Wait()

	for _, symbol := range symbols {
		assert.Equal(t, 50.0, tracker.Get("acct", symbol).OpenQuantity, "symbol=%s", symbol)
	}
}

func TestTrackerSeedAndSnapshot(t *testing.T) {
	tracker := NewPositionTracker()

	tracker.Seed("b_acct", "ETHUSDT", domain.PositionShort, 3)
	tracker.Seed("a_acct", "BTCUSDT", domain.PositionLong, 1)
	tracker.Seed("a_acct", "SOLUSDT", domain.PositionLong, 0) // flat, excluded

	snapshot := tracker.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "a_acct", snapshot[0].AccountID)
	assert.Equal(t, "BTCUSDT", snapshot[0].Symbol)
	assert.Equal(t, "b_acct", snapshot[1].AccountID)
	assert.Equal(t, domain.PositionShort, snapshot[1].Side)
}
