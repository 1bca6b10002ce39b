package offer

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_AddAssignsIdentity(t *testing.T) {
	store := NewMemoryStore(zerolog.Nop())
	ctx := context.Background()

	stored, err := store.Add(ctx, flatAmount(1, 10, "p1"))

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, stored.ID)
	assert.Equal(t, int64(1), stored.Sequence)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_LookupPreservesInsertionOrder(t *testing.T) {
	store := NewMemoryStore(zerolog.Nop())
	ctx := context.Background()

	a, err := store.Add(ctx, flatAmount(4, 10, "p1"))
	require.NoError(t, err)
	b, err := store.Add(ctx, flatPercentage(4, 15, "p2"))
	require.NoError(t, err)

	offers, err := store.Lookup(ctx, 4)

	require.NoError(t, err)
	require.Len(t, offers, 2)
	assert.Equal(t, a.ID, offers[0].ID)
	assert.Equal(t, b.ID, offers[1].ID)
	assert.Less(t, offers[0].Sequence, offers[1].Sequence)
}

func TestMemoryStore_LookupUnknownRestaurant(t *testing.T) {
	store := NewMemoryStore(zerolog.Nop())

	offers, err := store.Lookup(context.Background(), 999)

	require.NoError(t, err)
	assert.NotNil(t, offers)
	assert.Empty(t, offers)
}

func TestMemoryStore_SnapshotsAreIsolated(t *testing.T) {
	store := NewMemoryStore(zerolog.Nop())
	ctx := context.Background()

	segments := []string{"p1", "p2"}
	_, err := store.Add(ctx, flatAmount(1, 10, segments...))
	require.NoError(t, err)

	// Mutating the caller's slice must not reach the stored offer.
	segments[0] = "changed"

	offers, err := store.Lookup(ctx, 1)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, []string{"p1", "p2"}, offers[0].Segments)

	// Nor may mutating a lookup result.
	offers[0].Segments[1] = "changed"
	offers[0].Value = 99

	again, err := store.Lookup(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, again[0].Segments)
	assert.Equal(t, int64(10), again[0].Value)
}

func TestMemoryStore_Reset(t *testing.T) {
	store := NewMemoryStore(zerolog.Nop())
	ctx := context.Background()

	first, err := store.Add(ctx, flatAmount(1, 10, "p1"))
	require.NoError(t, err)

	store.Reset()
	assert.Equal(t, 0, store.Len())

	second, err := store.Add(ctx, flatAmount(1, 10, "p1"))
	require.NoError(t, err)
	assert.Greater(t, second.Sequence, first.Sequence)
}

func TestMemoryStore_ConcurrentAdds(t *testing.T) {
	store := NewMemoryStore(zerolog.Nop())
	ctx := context.Background()

	const (
		workers   = 16
		perWorker = 50
	)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(restaurantID int64) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := store.Add(ctx, flatAmount(restaurantID, int64(i), "p1"))
				assert.NoError(t, err)
				_, err = store.Lookup(ctx, restaurantID)
				assert.NoError(t, err)
			}
		}(int64(w%4 + 1))
	}
	wg.Wait()

	assert.Equal(t, workers*perWorker, store.Len())

	seen := make(map[int64]bool)
	for restaurantID := int64(1); restaurantID <= 4; restaurantID++ {
		offers, err := store.Lookup(ctx, restaurantID)
		require.NoError(t, err)
		for i, o := range offers {
			assert.False(t, seen[o.Sequence], "sequence %d assigned twice", o.Sequence)
			seen[o.Sequence] = true
			if i > 0 {
				assert.Less(t, offers[i-1].Sequence, o.Sequence)
			}
		}
	}
	assert.Len(t, seen, workers*perWorker)
}
