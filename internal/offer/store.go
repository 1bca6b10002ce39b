package offer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MemoryStore is an in-process Store. All restaurants share one sequence
// counter so Sequence also reflects global registration order.
type MemoryStore struct {
	mu       sync.RWMutex
	offers   map[int64][]Offer
	sequence int64
	logger   zerolog.Logger
}

// NewMemoryStore creates an empty in-memory offer store.
func NewMemoryStore(logger zerolog.Logger) *MemoryStore {
	return &MemoryStore{
		offers: make(map[int64][]Offer),
		logger: logger.With().Str("component", "offer-store").Logger(),
	}
}

// Add appends the offer to its restaurant's sequence. It never fails.
func (s *MemoryStore) Add(_ context.Context, o Offer) (Offer, error) {
	o = o.clone()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	s.sequence++
	o.Sequence = s.sequence
	s.offers[o.RestaurantID] = append(s.offers[o.RestaurantID], o)
	s.mu.Unlock()

	s.logger.Debug().
		Str("offer_id", o.ID.String()).
		Int64("restaurant_id", o.RestaurantID).
		Int64("sequence", o.Sequence).
		Str("offer_type", o.Type.String()).
		Msg("offer stored")

	return o.clone(), nil
}

// Lookup returns a copy of the restaurant's offers in insertion order.
func (s *MemoryStore) Lookup(_ context.Context, restaurantID int64) ([]Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.offers[restaurantID]
	offers := make([]Offer, len(stored))
	for i, o := range stored {
		offers[i] = o.clone()
	}
	return offers, nil
}

// Len returns the total number of stored offers.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, offers := range s.offers {
		n += len(offers)
	}
	return n
}

// Reset drops every stored offer. The sequence counter keeps counting.
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	s.offers = make(map[int64][]Offer)
	s.mu.Unlock()

	s.logger.Info().Msg("offer store cleared")
}
