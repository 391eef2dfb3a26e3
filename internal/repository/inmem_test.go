package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal-gateway/internal/domain"
)

func TestInMemoryJournalRecentIsNewestFirst(t *testing.T) {
	journal := NewInMemoryOrderJournal()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := journal.Record(ctx, &domain.JournalEntry{
			ID:        fmt.Sprintf("id-%d", i),
			AccountID: "acct",
			Symbol:    "BTCUSDT",
			Kind:      domain.ActionOpen,
			Side:      domain.SideLong,
			Quantity:  float64(i + 1),
			Mode:      domain.ModeDry,
			Accepted:  true,
			CreatedAt: time.Now(),
		})
		require.NoError(t, err)
	}

	entries, err := journal.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "id-2", entries[0].ID)
	assert.Equal(t, "id-1", entries[1].ID)
}

func TestInMemoryJournalCapsHistory(t *testing.T) {
	journal := NewInMemoryOrderJournal()
	ctx := context.Background()

	for i := 0; i < inMemoryJournalCap+25; i++ {
		err := journal.Record(ctx, &domain.JournalEntry{ID: fmt.Sprintf("id-%d", i)})
		require.NoError(t, err)
	}

	entries, err := journal.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, inMemoryJournalCap)
	assert.Equal(t, fmt.Sprintf("id-%d", inMemoryJournalCap+24), entries[0].ID)
}
